package repository_test

import (
	"context"
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"
	"time"

	"nara_fleet/internal/models"
	"nara_fleet/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
)

type sqlmockArgumentFunc func(v driver.Value) bool

func (f sqlmockArgumentFunc) Match(v driver.Value) bool { return f(v) }

func testSession() models.SessionState {
	return models.SessionState{
		Filter: models.FilterCriteria{Hall: models.HallH2, Signal: models.SignalLow, Search: "b0"},
		Console: models.ConsoleState{
			TargetMode:  models.TargetGroup,
			CommandType: models.CommandHex,
			Selection:   "GA",
			Payload:     "7e01",
		},
		SelectedPID: "P7",
	}
}

func TestSessionSQLite_Save_SetsUTCWhenTimeZero(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New(): %v", err)
	}
	defer db.Close()

	isUTCRecent := sqlmockArgumentFunc(func(v driver.Value) bool {
		tm, ok := v.(time.Time)
		if !ok || tm.Location() != time.UTC {
			return false
		}
		now := time.Now().UTC()
		return !tm.Before(now.Add(-5*time.Second)) && !tm.After(now.Add(5*time.Second))
	})

	s := testSession()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO session_state")).
		WithArgs(1, "H2", "Low", "b0", "Group", "Hex", "GA", "7e01", "P7", isUTCRecent).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repository.NewSessionSQLite(db).Save(context.Background(), s); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSessionSQLite_Save_ConvertsGivenTimeToUTC(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New(): %v", err)
	}
	defer db.Close()

	original := time.Date(2026, 3, 5, 12, 34, 56, 0, time.FixedZone("UTC+9", 9*3600))
	isExactUTC := sqlmockArgumentFunc(func(v driver.Value) bool {
		tm, ok := v.(time.Time)
		return ok && tm.Equal(original) && tm.Location() == time.UTC
	})

	s := testSession()
	s.UpdatedAt = original
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO session_state")).
		WithArgs(1, "H2", "Low", "b0", "Group", "Hex", "GA", "7e01", "P7", isExactUTC).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repository.NewSessionSQLite(db).Save(context.Background(), s); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSessionSQLite_Save_ExecErrorIsPropagated(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New(): %v", err)
	}
	defer db.Close()

	wantErr := errors.New("disk I/O error")
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO session_state")).WillReturnError(wantErr)

	if err := repository.NewSessionSQLite(db).Save(context.Background(), testSession()); !errors.Is(err, wantErr) {
		t.Fatalf("expected %v, got %v", wantErr, err)
	}
}

func TestSessionSQLite_Load_NoRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New(): %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("FROM session_state WHERE id=?")).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"hall"}))

	s, ok, err := repository.NewSessionSQLite(db).Load(context.Background())
	if err != nil || ok {
		t.Fatalf("Load() = %+v, %v, %v", s, ok, err)
	}
	if s != (models.SessionState{}) {
		t.Fatalf("expected zero session, got %+v", s)
	}
}

func TestSessionSQLite_Load_HappyPath(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New(): %v", err)
	}
	defer db.Close()

	saved := time.Date(2026, 10, 1, 8, 0, 0, 0, time.FixedZone("CET", 3600))
	rows := sqlmock.NewRows([]string{"hall", "signal", "search", "target_mode", "command_type", "selection", "payload", "selected_pid", "updated_at"}).
		AddRow("H2", "Low", "b0", "Group", "Hex", "GA", "7e01", "P7", saved)
	mock.ExpectQuery(regexp.QuoteMeta("FROM session_state WHERE id=?")).
		WithArgs(1).
		WillReturnRows(rows)

	s, ok, err := repository.NewSessionSQLite(db).Load(context.Background())
	if err != nil || !ok {
		t.Fatalf("Load() ok=%v err=%v", ok, err)
	}
	want := testSession()
	if s.Filter != want.Filter || s.Console != want.Console || s.SelectedPID != "P7" {
		t.Fatalf("unexpected session: %+v", s)
	}
	if s.UpdatedAt.Location() != time.UTC || !s.UpdatedAt.Equal(saved) {
		t.Fatalf("updated_at not normalized: %v", s.UpdatedAt)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
