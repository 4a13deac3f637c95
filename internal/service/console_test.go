package service

import (
	"errors"
	"reflect"
	"testing"

	"nara_fleet/internal/fleet"
	"nara_fleet/internal/models"
)

func TestConsole_SetTargetMode(t *testing.T) {
	c := NewConsoleService(NewAppState(), testStore(t))

	st, err := c.SetTargetMode(models.TargetSlave)
	if err != nil {
		t.Fatalf("SetTargetMode: %v", err)
	}
	if st.CommandType != models.CommandSlave || st.Selection != "S1" {
		t.Fatalf("Slave defaults not applied: %+v", st)
	}

	st, _ = c.SetTargetMode(models.TargetBooth)
	if st.TargetMode != models.TargetBooth || st.CommandType != models.CommandSlave || st.Selection != "S1" {
		t.Fatalf("Booth should keep type and selection: %+v", st)
	}

	st, _ = c.SetTargetMode(models.TargetAll)
	if st.CommandType != models.CommandMaster || st.Selection != models.FleetSelection {
		t.Fatalf("All defaults not applied: %+v", st)
	}

	if _, err := c.SetTargetMode("Everything"); !errors.Is(err, fleet.ErrInvalidCommand) {
		t.Fatalf("expected ErrInvalidCommand, got %v", err)
	}
	if c.View().State.TargetMode != models.TargetAll {
		t.Fatalf("failed switch changed state")
	}
}

func TestConsole_SelectPillar(t *testing.T) {
	c := NewConsoleService(NewAppState(), testStore(t))

	st, err := c.SelectPillar("P2")
	if err != nil {
		t.Fatalf("SelectPillar: %v", err)
	}
	if st.TargetMode != models.TargetPID || st.Selection != "P2" {
		t.Fatalf("unexpected console: %+v", st)
	}
	if c.View().SelectedPID != "P2" {
		t.Fatalf("selected pid not stored")
	}
	if _, err := c.SelectPillar("P404"); !errors.Is(err, fleet.ErrUnknownEntity) {
		t.Fatalf("expected ErrUnknownEntity, got %v", err)
	}
}

func TestConsole_FilterValidation(t *testing.T) {
	c := NewConsoleService(NewAppState(), testStore(t))

	f, err := c.SetFilter(models.FilterCriteria{Hall: models.HallH2, Search: "b0"})
	if err != nil {
		t.Fatalf("SetFilter: %v", err)
	}
	if f.Signal != models.SignalAll || c.Filter() != f {
		t.Fatalf("filter not normalized/stored: %+v", c.Filter())
	}
	if _, err := c.SetFilter(models.FilterCriteria{Signal: "Weak"}); !errors.Is(err, fleet.ErrInvalidFilter) {
		t.Fatalf("expected ErrInvalidFilter, got %v", err)
	}
	if c.Filter() != f {
		t.Fatalf("invalid filter replaced the stored one")
	}
}

func TestConsole_ViewOptions(t *testing.T) {
	v := NewConsoleService(NewAppState(), testStore(t)).View()
	if !reflect.DeepEqual(v.Booths, []string{"B01", "B02"}) {
		t.Fatalf("booths=%v", v.Booths)
	}
	if !reflect.DeepEqual(v.Pillars, []string{"P1", "P2", "P3"}) {
		t.Fatalf("pillars=%v", v.Pillars)
	}
	if !reflect.DeepEqual(v.Slaves, []string{"S1", "S13"}) {
		t.Fatalf("slaves=%v", v.Slaves)
	}
	if len(v.TargetModes) != 6 || len(v.CommandTypes) != 3 {
		t.Fatalf("option lists incomplete: %+v", v)
	}
}
