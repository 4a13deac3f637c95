package fleet

import (
	"sync"
	"time"

	"nara_fleet/internal/models"

	"github.com/google/uuid"
)

// EventLogCap is the number of entries kept in the event log.
const EventLogCap = 20

// EventLog is the global newest-first log of status and command events.
type EventLog struct {
	mu      sync.RWMutex
	entries []models.HistoryEntry
	now     func() time.Time
}

// NewEventLog returns an empty log.
func NewEventLog() *EventLog {
	return &EventLog{now: func() time.Time { return time.Now().UTC() }}
}

// Append inserts a new entry at the front and evicts the oldest entries
// beyond EventLogCap. The returned entry is the one stored.
func (l *EventLog) Append(message string, kind models.HistoryKind) models.HistoryEntry {
	e := models.HistoryEntry{
		ID:        uuid.NewString(),
		Message:   message,
		Timestamp: l.now(),
		Kind:      kind,
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	n := len(l.entries) + 1
	if n > EventLogCap {
		n = EventLogCap
	}
	next := make([]models.HistoryEntry, n)
	next[0] = e
	copy(next[1:], l.entries)
	l.entries = next
	return e
}

// Clear empties the log.
func (l *EventLog) Clear() {
	l.mu.Lock()
	l.entries = nil
	l.mu.Unlock()
}

// List returns a copy of the entries, newest first.
func (l *EventLog) List() []models.HistoryEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]models.HistoryEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len reports the number of entries.
func (l *EventLog) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}
