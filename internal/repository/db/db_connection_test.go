package db

import (
	"path/filepath"
	"testing"
)

func TestInitDB_CreatesSchema(t *testing.T) {
	conn, err := InitDB(filepath.Join(t.TempDir(), "nara.db"))
	if err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	defer conn.Close()

	if _, err := conn.Exec(`INSERT INTO fleet_events (id, occurred_at, type, message) VALUES ('1', '2025-01-01 00:00:00', 'STATUS', 'P1 Status Updated')`); err != nil {
		t.Fatalf("insert: %v", err)
	}
	var n int
	if err := conn.QueryRow(`SELECT COUNT(*) FROM fleet_events`).Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Fatalf("count=%d", n)
	}

	if _, err := conn.Exec(`INSERT INTO session_state (id, hall, signal, search, target_mode, command_type, selection, payload, selected_pid, updated_at)
		VALUES (1, 'All', 'All', '', 'All', 'MCMD', 'All Halls', '', '', '2025-01-01 00:00:00')`); err != nil {
		t.Fatalf("insert session: %v", err)
	}
	if _, err := conn.Exec(`INSERT INTO session_state (id, hall, signal, search, target_mode, command_type, selection, payload, selected_pid, updated_at)
		VALUES (2, 'All', 'All', '', 'All', 'MCMD', 'All Halls', '', '', '2025-01-01 00:00:00')`); err == nil {
		t.Fatalf("session_state must hold a single row")
	}

	// Re-opening must not fail on existing tables.
	again, err := InitDB(filepath.Join(t.TempDir(), "other.db"))
	if err != nil {
		t.Fatalf("second InitDB: %v", err)
	}
	_ = again.Close()
}
