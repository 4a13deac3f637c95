package fleet

import (
	"fmt"
	"slices"
	"strings"

	"nara_fleet/internal/models"
)

// Master hall selections accepted in All mode.
const (
	SelectionMasterA = "MA"
	SelectionMasterB = "MB"
	// DefaultSlaveSelection is used when the store knows no slaves.
	DefaultSlaveSelection = "S1"
)

// SnapshotSource provides the current fleet snapshot.
type SnapshotSource interface {
	Snapshot() *Snapshot
}

// Resolver turns an operator's targeting choice into a command envelope.
type Resolver struct {
	fleet SnapshotSource
}

// NewResolver returns a resolver reading from src.
func NewResolver(src SnapshotSource) *Resolver {
	return &Resolver{fleet: src}
}

// Resolve validates the request and returns the envelope to publish.
// Group, Slave, Booth, PID and Subset selections must address at least one
// known pillar or slave; hidden pillars are addressable like any other.
func (r *Resolver) Resolve(mode models.TargetMode, typ models.CommandType, selection, payload string) (models.CommandEnvelope, error) {
	if !slices.Contains(models.TargetModes, mode) {
		return models.CommandEnvelope{}, fmt.Errorf("%w: target mode %q", ErrInvalidCommand, mode)
	}
	if !slices.Contains(models.CommandTypes, typ) {
		return models.CommandEnvelope{}, fmt.Errorf("%w: command type %q", ErrInvalidCommand, typ)
	}
	selection = strings.TrimSpace(selection)
	if selection == "" {
		return models.CommandEnvelope{}, fmt.Errorf("%w: empty selection", ErrInvalidCommand)
	}

	env := models.CommandEnvelope{
		TargetMode:  mode,
		CommandType: typ,
		Selection:   selection,
		Payload:     strings.TrimSpace(payload),
	}

	snap := r.fleet.Snapshot()
	switch mode {
	case models.TargetAll:
		return env, nil
	case models.TargetSlave:
		// A slave with no pillars is still a valid target.
		if _, ok := snap.Slave(selection); ok {
			return env, nil
		}
	case models.TargetSubset:
		for _, pid := range splitSubset(selection) {
			if _, ok := snap.Pillar(pid); !ok {
				return models.CommandEnvelope{}, fmt.Errorf("%w: pillar %q", ErrUnknownEntity, pid)
			}
		}
		return env, nil
	}
	if len(Targets(env, snap)) == 0 {
		return models.CommandEnvelope{}, fmt.Errorf("%w: %s %q", ErrUnknownEntity, mode, selection)
	}
	return env, nil
}

// Targets expands an envelope to the pids it addresses, in store order
// (Subset keeps the listed order).
func Targets(env models.CommandEnvelope, snap *Snapshot) []string {
	if env.TargetMode == models.TargetSubset {
		var out []string
		for _, pid := range splitSubset(env.Selection) {
			if _, ok := snap.Pillar(pid); ok {
				out = append(out, pid)
			}
		}
		return out
	}

	var match func(models.Pillar) bool
	switch env.TargetMode {
	case models.TargetAll:
		switch env.Selection {
		case SelectionMasterA:
			match = func(p models.Pillar) bool { return MatchesHall(models.HallH1, p.SID) }
		case SelectionMasterB:
			match = func(p models.Pillar) bool { return MatchesHall(models.HallH2, p.SID) }
		default:
			match = func(models.Pillar) bool { return true }
		}
	case models.TargetGroup:
		match = func(p models.Pillar) bool { return groupOf(p) == env.Selection }
	case models.TargetSlave:
		match = func(p models.Pillar) bool { return p.SID == env.Selection }
	case models.TargetBooth:
		match = func(p models.Pillar) bool { return p.BID == env.Selection }
	case models.TargetPID:
		match = func(p models.Pillar) bool { return p.PID == env.Selection }
	default:
		return nil
	}

	var out []string
	for _, p := range snap.Pillars {
		if match(p) {
			out = append(out, p.PID)
		}
	}
	return out
}

// splitSubset parses a comma separated pid list, dropping blanks and repeats.
func splitSubset(selection string) []string {
	var out []string
	for _, part := range strings.Split(selection, ",") {
		pid := strings.TrimSpace(part)
		if pid == "" || slices.Contains(out, pid) {
			continue
		}
		out = append(out, pid)
	}
	return out
}

// SwitchMode applies the console side effects of picking a target mode.
// All and Slave reset the command type and selection so the next action is
// valid without further input; other modes keep what the operator set.
func SwitchMode(state models.ConsoleState, mode models.TargetMode, snap *Snapshot) (models.ConsoleState, error) {
	if !slices.Contains(models.TargetModes, mode) {
		return state, fmt.Errorf("%w: target mode %q", ErrInvalidCommand, mode)
	}
	state.TargetMode = mode
	switch mode {
	case models.TargetAll:
		state.CommandType = models.CommandMaster
		state.Selection = models.FleetSelection
	case models.TargetSlave:
		state.CommandType = models.CommandSlave
		state.Selection = DefaultSlaveSelection
		if sids := SlaveIDs(snap); len(sids) > 0 {
			state.Selection = sids[0]
		}
	}
	return state, nil
}

// DefaultConsole is the console state at session start.
func DefaultConsole() models.ConsoleState {
	return models.ConsoleState{
		TargetMode:  models.TargetAll,
		CommandType: models.CommandMaster,
		Selection:   models.FleetSelection,
	}
}

// Summary is the event log line for a dispatched envelope.
func Summary(env models.CommandEnvelope) string {
	what := env.Payload
	if what == "" {
		what = env.Selection
	}
	return fmt.Sprintf("%s: %s", env.TargetMode, what)
}
