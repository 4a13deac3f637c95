package models

import "time"

// HistoryKind tells status traffic apart from operator commands in the event log.
type HistoryKind string

const (
	KindStatus  HistoryKind = "status"
	KindCommand HistoryKind = "cmd"
)

// HistoryEntry is one immutable event log line.
type HistoryEntry struct {
	ID        string      `json:"id"`
	Message   string      `json:"msg"`
	Timestamp time.Time   `json:"time"`
	Kind      HistoryKind `json:"type"`
}
