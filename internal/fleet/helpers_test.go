package fleet

import (
	"testing"
	"time"

	"nara_fleet/internal/models"
)

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

var fixedNow = time.Date(2025, 8, 27, 15, 4, 5, 0, time.UTC)

// testRoster is a small fleet spread over two halls and three groups.
func testRoster() models.Roster {
	return models.Roster{
		Groups: []models.RosterGroup{{GID: "GA", Color: "#e74c3c"}, {GID: "GB", Color: "#3498db"}},
		Slaves: []models.RosterSlave{
			{SID: "S10", SMAC: "aa:10", Battery: 80},
			{SID: "S2", SMAC: "aa:02", Battery: 90},
			{SID: "S13", SMAC: "aa:13", Battery: 70},
		},
		Pillars: []models.RosterPillar{
			{PID: "P1", BID: "B01", SID: "S10", GID: "GA"},
			{PID: "P2", BID: "B02", SID: "S2", GID: "GA"},
			{PID: "P3", BID: "B02", SID: "S13", GID: "GC", RSSI: intPtr(-80)},
			{PID: "P4", BID: "C07", SID: "S99", GID: "", Color: "#00ff00"},
		},
	}
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(testRoster(), WithClock(func() time.Time { return fixedNow }))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return s
}
