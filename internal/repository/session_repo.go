package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"nara_fleet/internal/models"
)

type SessionSQLite struct {
	db *sql.DB
}

func NewSessionSQLite(db *sql.DB) *SessionSQLite {
	return &SessionSQLite{db: db}
}

const (
	sessionRowID = 1

	upsertSessionSQL = `
		INSERT INTO session_state (id, hall, signal, search, target_mode, command_type, selection, payload, selected_pid, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			hall=excluded.hall,
			signal=excluded.signal,
			search=excluded.search,
			target_mode=excluded.target_mode,
			command_type=excluded.command_type,
			selection=excluded.selection,
			payload=excluded.payload,
			selected_pid=excluded.selected_pid,
			updated_at=excluded.updated_at
	`

	selectSessionSQL = `
		SELECT hall, signal, search, target_mode, command_type, selection, payload, selected_pid, updated_at
		FROM session_state WHERE id=?
	`
)

// Save updates or inserts the single session_state row.
func (r *SessionSQLite) Save(ctx context.Context, s models.SessionState) error {
	// persisted as UTC; set if zero
	ts := s.UpdatedAt
	if ts.IsZero() {
		ts = time.Now().UTC()
	} else {
		ts = ts.UTC()
	}

	_, err := r.db.ExecContext(ctx, upsertSessionSQL,
		sessionRowID,
		s.Filter.Hall,
		s.Filter.Signal,
		s.Filter.Search,
		string(s.Console.TargetMode),
		string(s.Console.CommandType),
		s.Console.Selection,
		s.Console.Payload,
		s.SelectedPID,
		ts,
	)
	return err
}

// Load fetches the saved session. ok is false when nothing was saved yet.
func (r *SessionSQLite) Load(ctx context.Context) (models.SessionState, bool, error) {
	row := r.db.QueryRowContext(ctx, selectSessionSQL, sessionRowID)

	var (
		s           models.SessionState
		mode, ctype string
	)
	if err := row.Scan(
		&s.Filter.Hall,
		&s.Filter.Signal,
		&s.Filter.Search,
		&mode,
		&ctype,
		&s.Console.Selection,
		&s.Console.Payload,
		&s.SelectedPID,
		&s.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.SessionState{}, false, nil
		}
		return models.SessionState{}, false, err
	}
	s.Console.TargetMode = models.TargetMode(mode)
	s.Console.CommandType = models.CommandType(ctype)
	s.UpdatedAt = s.UpdatedAt.UTC()
	return s, true, nil
}
