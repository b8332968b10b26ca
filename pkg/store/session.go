package store

// Session is the per-user conversation state held in memory. It is not
// persisted: a restart sends everyone back through the /start setup flow.
type Session struct {
	UserID      int64  `json:"user_id"`
	ChatID      int64  `json:"chat_id"`
	State       string `json:"state"`
	Year        string `json:"year"`         // Drive folder name, e.g. "2nd_Year"
	YearDisplay string `json:"year_display"` // keyboard label, e.g. "2nd Year"
	Name        string `json:"name"`
}

const (
	// Setup flow states
	StateSelectYear = "SELECT_YEAR"
	StateGetName    = "GET_NAME"
	StateReady      = "READY"
)

// Configured reports whether the user finished the year+name setup.
// Every document and listing operation requires this.
func (s *Session) Configured() bool {
	return s != nil && s.State == StateReady && s.Year != ""
}
