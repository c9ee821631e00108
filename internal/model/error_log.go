package model

// MaxErrorLogEntries bounds the persisted error log.
const MaxErrorLogEntries = 100

// ErrorLogEntry is one failed export. Timestamp is server wall-clock time in TimestampLayout.
type ErrorLogEntry struct {
	Timestamp string `json:"timestamp"`
	PostID    int64  `json:"post_id"`
	Message   string `json:"message"`
}
