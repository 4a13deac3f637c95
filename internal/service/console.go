package service

import (
	"fmt"

	"nara_fleet/internal/fleet"
	"nara_fleet/internal/models"
)

// ConsoleView is the console state plus the option lists the operator picks from.
type ConsoleView struct {
	State        models.ConsoleState  `json:"state"`
	SelectedPID  string               `json:"selected_pid,omitempty"`
	TargetModes  []models.TargetMode  `json:"target_modes"`
	CommandTypes []models.CommandType `json:"command_types"`
	Groups       []string             `json:"groups"`
	Slaves       []string             `json:"slaves"`
	Booths       []string             `json:"booths"`
	Pillars      []string             `json:"pillars"`
}

type ConsoleService struct {
	state *AppState
	store *fleet.Store
}

func NewConsoleService(state *AppState, store *fleet.Store) *ConsoleService {
	return &ConsoleService{state: state, store: store}
}

func (s *ConsoleService) Filter() models.FilterCriteria { return s.state.Filter() }

func (s *ConsoleService) SetFilter(f models.FilterCriteria) (models.FilterCriteria, error) {
	return s.state.SetFilter(f)
}

func (s *ConsoleService) View() ConsoleView {
	snap := s.store.Snapshot()
	return ConsoleView{
		State:        s.state.Console(),
		SelectedPID:  s.state.SelectedPID(),
		TargetModes:  models.TargetModes,
		CommandTypes: models.CommandTypes,
		Groups:       fleet.FixedGroups,
		Slaves:       fleet.SlaveIDs(snap),
		Booths:       fleet.Booths(snap),
		Pillars:      fleet.PillarIDs(snap),
	}
}

// SetTargetMode switches the console mode, applying the All/Slave defaults.
func (s *ConsoleService) SetTargetMode(mode models.TargetMode) (models.ConsoleState, error) {
	snap := s.store.Snapshot()
	return s.state.UpdateConsole(func(c models.ConsoleState) (models.ConsoleState, error) {
		return fleet.SwitchMode(c, mode, snap)
	})
}

// SelectPillar opens pid in the detail panel and targets it in PID mode.
func (s *ConsoleService) SelectPillar(pid string) (models.ConsoleState, error) {
	if _, ok := s.store.Snapshot().Pillar(pid); !ok {
		return models.ConsoleState{}, fmt.Errorf("%w: pillar %q", fleet.ErrUnknownEntity, pid)
	}
	return s.state.Select(pid), nil
}
