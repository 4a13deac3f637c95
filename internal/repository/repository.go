package repository

import (
	"context"
	"database/sql"
	"time"

	"nara_fleet/internal/models"
)

// Journal is the durable archive of event log entries.
type Journal interface {
	Append(ctx context.Context, e models.JournalEntry) error
	List(ctx context.Context, from, to time.Time, typ string) ([]models.JournalEntry, error)
}

// SessionStore keeps the operator session between runs.
type SessionStore interface {
	Save(ctx context.Context, s models.SessionState) error
	Load(ctx context.Context) (models.SessionState, bool, error)
}

// RosterSource provides the provisioned fleet.
type RosterSource interface {
	Load() (models.Roster, error)
}

type Repository struct {
	Journal Journal
	Session SessionStore
	Roster  RosterSource
}

func NewRepository(db *sql.DB, rosterPath string) *Repository {
	return &Repository{
		Journal: NewJournalSQLite(db),
		Session: NewSessionSQLite(db),
		Roster:  NewRosterFile(rosterPath),
	}
}
