package dto

// StatusResponse is served on /api/status for operational checks.
type StatusResponse struct {
	Status        string `json:"status"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	CachedFiles   int64  `json:"cached_files"`
	Deliveries    int64  `json:"deliveries"`
	CacheHits     int64  `json:"cache_hits"`
}
