package service

import (
	"fmt"

	"nara_fleet/internal/fleet"
	"nara_fleet/internal/models"
	"nara_fleet/internal/transport"
)

// statusSource reports the broker session state for the stats panel.
type statusSource interface {
	Status() transport.Status
}

// FleetService serves read-only views computed from the latest snapshot.
type FleetService struct {
	store  *fleet.Store
	broker statusSource
}

func NewFleetService(store *fleet.Store, broker statusSource) *FleetService {
	return &FleetService{store: store, broker: broker}
}

// Tree projects the fleet under f.
func (s *FleetService) Tree(f models.FilterCriteria) (fleet.Projection, error) {
	f, err := fleet.ValidateFilter(f)
	if err != nil {
		return fleet.Projection{}, err
	}
	return fleet.Project(s.store.Snapshot(), f), nil
}

// Pillars returns the visible part of the analytics list, at most limit
// entries (limit <= 0 means all).
func (s *FleetService) Pillars(f models.FilterCriteria, limit int) ([]models.PillarNode, error) {
	f, err := fleet.ValidateFilter(f)
	if err != nil {
		return nil, err
	}
	return fleet.Visible(fleet.FilteredList(s.store.Snapshot(), f), limit), nil
}

func (s *FleetService) Pillar(pid string) (models.Pillar, error) {
	p, ok := s.store.Snapshot().Pillar(pid)
	if !ok {
		return models.Pillar{}, fmt.Errorf("%w: pillar %q", fleet.ErrUnknownEntity, pid)
	}
	return p, nil
}

func (s *FleetService) Slaves() []models.Slave {
	return s.store.Snapshot().Slaves
}

// Stats summarizes the fleet and the broker session.
func (s *FleetService) Stats() models.FleetStats {
	st := fleet.Stats(s.store.Snapshot())
	st.Broker = transport.StateDisconnected.String()
	if s.broker != nil {
		st.Broker = s.broker.Status().State
	}
	return st
}

func (s *FleetService) HeatMap() []models.HeatCell {
	return fleet.HeatMap(s.store.Snapshot())
}
