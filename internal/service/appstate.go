package service

import (
	"slices"
	"sync"

	"nara_fleet/internal/fleet"
	"nara_fleet/internal/models"
)

// AppState is the per-process operator session: filter, selected pillar and
// console. Getters return copies.
type AppState struct {
	mu          sync.RWMutex
	filter      models.FilterCriteria
	selectedPID string
	console     models.ConsoleState
}

func NewAppState() *AppState {
	return &AppState{
		filter:  models.DefaultFilter(),
		console: fleet.DefaultConsole(),
	}
}

func (s *AppState) Filter() models.FilterCriteria {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filter
}

// SetFilter validates and stores f, returning the normalized value.
func (s *AppState) SetFilter(f models.FilterCriteria) (models.FilterCriteria, error) {
	f, err := fleet.ValidateFilter(f)
	if err != nil {
		return models.FilterCriteria{}, err
	}
	s.mu.Lock()
	s.filter = f
	s.mu.Unlock()
	return f, nil
}

func (s *AppState) Console() models.ConsoleState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.console
}

func (s *AppState) SelectedPID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selectedPID
}

// UpdateConsole applies fn to the console atomically. On error nothing changes.
func (s *AppState) UpdateConsole(fn func(models.ConsoleState) (models.ConsoleState, error)) (models.ConsoleState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := fn(s.console)
	if err != nil {
		return s.console, err
	}
	s.console = next
	return next, nil
}

// SetConsole replaces the console state.
func (s *AppState) SetConsole(c models.ConsoleState) {
	s.mu.Lock()
	s.console = c
	s.mu.Unlock()
}

// Select marks pid as the detail-panel pillar and points the console at it.
func (s *AppState) Select(pid string) models.ConsoleState {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedPID = pid
	s.console.TargetMode = models.TargetPID
	s.console.Selection = pid
	return s.console
}

// Session returns the state worth saving between runs.
func (s *AppState) Session() models.SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.SessionState{
		Filter:      s.filter,
		Console:     s.console,
		SelectedPID: s.selectedPID,
	}
}

// Restore loads a saved session. A saved filter or console that no longer
// validates, or a selected pillar the store does not know, is dropped in
// favor of the defaults.
func (s *AppState) Restore(saved models.SessionState, snap *fleet.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if f, err := fleet.ValidateFilter(saved.Filter); err == nil {
		s.filter = f
	}
	c := saved.Console
	if slices.Contains(models.TargetModes, c.TargetMode) && slices.Contains(models.CommandTypes, c.CommandType) && c.Selection != "" {
		s.console = c
	}
	if _, ok := snap.Pillar(saved.SelectedPID); ok {
		s.selectedPID = saved.SelectedPID
	}
}
