package models

import "time"

// Journal event types.
const (
	JournalStatus  = "STATUS"
	JournalCommand = "COMMAND"
)

// JournalEntry is an archived event log line.
type JournalEntry struct {
	EventID     string    `json:"event_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Type        string    `json:"type"`        // STATUS | COMMAND
	Description string    `json:"description"` // human-readable
	Metadata    any       `json:"metadata,omitempty"`
}
