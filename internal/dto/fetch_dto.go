package dto

import "course-material-bot/internal/entity"

// DeliveredFile reports a successful document delivery.
type DeliveredFile struct {
	FileName string
	Handle   string
	CacheHit bool
}

// DocumentDeliveredMessage is the payload published on the event bus after
// every successful delivery.
type DocumentDeliveredMessage struct {
	Year     string      `json:"year"`
	Group    string      `json:"group"`
	Subject  string      `json:"subject"`
	Kind     entity.Kind `json:"kind"`
	Number   int         `json:"number"`
	CacheHit bool        `json:"cache_hit"`
}
