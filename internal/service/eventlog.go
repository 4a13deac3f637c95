package service

import (
	"context"
	"strings"
	"time"

	"nara_fleet/internal/models"
	"nara_fleet/internal/repository"
)

// LogFilter narrows a journal query.
type LogFilter struct {
	From time.Time // inclusive; zero means no lower bound
	To   time.Time // inclusive; zero means no upper bound
	Type string    // "", "STATUS", "COMMAND"
}

type EventLogService struct {
	journal repository.Journal
}

func NewEventLogService(journal repository.Journal) *EventLogService {
	return &EventLogService{journal: journal}
}

// normalizeToUTC returns t in UTC, preserving zero time values.
func normalizeToUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}

func normalizeEventType(s string) string {
	return strings.TrimSpace(strings.ToUpper(s))
}

func normalizeAndValidateFilter(f LogFilter) (time.Time, time.Time, string, error) {
	from := normalizeToUTC(f.From)
	to := normalizeToUTC(f.To)

	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return time.Time{}, time.Time{}, "", ErrInvalidTimeRange
	}
	return from, to, normalizeEventType(f.Type), nil
}

// List returns archived entries oldest first.
func (s *EventLogService) List(ctx context.Context, f LogFilter) ([]models.JournalEntry, error) {
	from, to, typ, err := normalizeAndValidateFilter(f)
	if err != nil {
		return nil, err
	}
	return s.journal.List(ctx, from, to, typ)
}
