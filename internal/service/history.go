package service

import (
	"context"
	"time"

	"nara_fleet/internal/fleet"
	"nara_fleet/internal/logger"
	"nara_fleet/internal/metric"
	"nara_fleet/internal/models"
	"nara_fleet/internal/repository"
)

const (
	journalQueueSize    = 256
	journalWriteTimeout = 5 * time.Second
)

// HistoryService fronts the event log and archives every entry to the journal
// from a background writer, so appenders never wait on the database.
type HistoryService struct {
	events  *fleet.EventLog
	journal repository.Journal
	metrics *metric.Metrics
	log     *logger.Logger

	queue chan models.JournalEntry
}

func NewHistoryService(events *fleet.EventLog, journal repository.Journal, m *metric.Metrics, log *logger.Logger) *HistoryService {
	return &HistoryService{
		events:  events,
		journal: journal,
		metrics: m,
		log:     log,
		queue:   make(chan models.JournalEntry, journalQueueSize),
	}
}

// Append adds an entry to the event log.
func (s *HistoryService) Append(message string, kind models.HistoryKind) models.HistoryEntry {
	return s.Record(message, kind, nil)
}

// Record adds an entry and attaches meta to its journal copy.
func (s *HistoryService) Record(message string, kind models.HistoryKind, meta any) models.HistoryEntry {
	e := s.events.Append(message, kind)
	s.metrics.SetEventLogEntries(s.events.Len())

	if s.journal == nil {
		return e
	}
	select {
	case s.queue <- toJournalEntry(e, meta):
	default:
		if s.log != nil {
			s.log.Warnw("journal_queue_full", "event_id", e.ID, "msg", e.Message)
		}
	}
	return e
}

// Entries returns the event log, newest first.
func (s *HistoryService) Entries() []models.HistoryEntry {
	return s.events.List()
}

// Clear empties the event log. The journal keeps its copy.
func (s *HistoryService) Clear() {
	s.events.Clear()
	s.metrics.SetEventLogEntries(0)
}

// Run writes queued entries to the journal until ctx is canceled, then
// flushes whatever is still queued.
func (s *HistoryService) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			s.drain()
			return nil
		case e := <-s.queue:
			s.write(ctx, e)
		}
	}
}

func (s *HistoryService) drain() {
	for {
		select {
		case e := <-s.queue:
			s.write(context.Background(), e)
		default:
			return
		}
	}
}

func (s *HistoryService) write(ctx context.Context, e models.JournalEntry) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), journalWriteTimeout)
	defer cancel()
	if err := s.journal.Append(ctx, e); err != nil && s.log != nil {
		s.log.Errorw("journal_append_failed", "err", err, "event_id", e.EventID)
	}
}

func toJournalEntry(e models.HistoryEntry, meta any) models.JournalEntry {
	typ := models.JournalStatus
	if e.Kind == models.KindCommand {
		typ = models.JournalCommand
	}
	return models.JournalEntry{
		EventID:     e.ID,
		OccurredAt:  e.Timestamp,
		Type:        typ,
		Description: e.Message,
		Metadata:    meta,
	}
}
