package publishers

import "time"

// Event represents one message-log entry published downstream.
type Event struct {
	Source   string    `json:"source"`
	Sequence int       `json:"sequence"`
	Message  string    `json:"message"`
	LoggedAt time.Time `json:"logged_at"`
}

// NewEvent constructs an Event for the given source + message.
func NewEvent(source string, seq int, message string) Event {
	return Event{
		Source:   source,
		Sequence: seq,
		Message:  message,
		LoggedAt: time.Now().UTC(),
	}
}
