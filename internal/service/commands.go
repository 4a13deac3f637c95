package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"nara_fleet/internal/config"
	"nara_fleet/internal/fleet"
	"nara_fleet/internal/logger"
	"nara_fleet/internal/metric"
	"nara_fleet/internal/models"
)

// FlashPayload is the hex frame behind the detail panel's test flash.
const FlashPayload = "7e0081010000ef"

// CommandRequest is an operator action. Empty mode, type or selection fall
// back to the current console state.
type CommandRequest struct {
	TargetMode  models.TargetMode  `json:"target"`
	CommandType models.CommandType `json:"type"`
	Selection   string             `json:"id"`
	Payload     string             `json:"cmd"`
}

type publisher interface {
	Publish(ctx context.Context, topic string, payload []byte) error
	Config() config.MQTTConfig
}

type recorder interface {
	Record(message string, kind models.HistoryKind, meta any) models.HistoryEntry
}

type CommandService struct {
	resolver *fleet.Resolver
	store    *fleet.Store
	state    *AppState
	broker   publisher
	history  recorder
	metrics  *metric.Metrics
	log      *logger.Logger
}

func NewCommandService(store *fleet.Store, state *AppState, broker publisher, history recorder, m *metric.Metrics, log *logger.Logger) *CommandService {
	return &CommandService{
		resolver: fleet.NewResolver(store),
		store:    store,
		state:    state,
		broker:   broker,
		history:  history,
		metrics:  m,
		log:      log,
	}
}

// Execute resolves req against the fleet and publishes it. On success the
// console remembers what was sent.
func (s *CommandService) Execute(ctx context.Context, req CommandRequest) (models.CommandEnvelope, error) {
	cur := s.state.Console()
	if req.TargetMode == "" {
		req.TargetMode = cur.TargetMode
	}
	if req.CommandType == "" {
		req.CommandType = cur.CommandType
	}
	if req.Selection == "" {
		req.Selection = cur.Selection
	}

	env, err := s.resolver.Resolve(req.TargetMode, req.CommandType, req.Selection, req.Payload)
	if err != nil {
		s.metrics.ObserveCommand(modeLabel(req.TargetMode), metric.ResultInvalid)
		return models.CommandEnvelope{}, err
	}
	if err := s.dispatch(ctx, env, fleet.Summary(env)); err != nil {
		return models.CommandEnvelope{}, err
	}

	s.state.SetConsole(models.ConsoleState{
		TargetMode:  env.TargetMode,
		CommandType: env.CommandType,
		Selection:   env.Selection,
		Payload:     env.Payload,
	})
	return env, nil
}

// modeLabel keeps the mode label bounded to the known target modes.
func modeLabel(mode models.TargetMode) string {
	if !slices.Contains(models.TargetModes, mode) {
		return metric.ResultInvalid
	}
	return string(mode)
}

// Flash sends the test flash frame to a single pillar, hidden or not.
func (s *CommandService) Flash(ctx context.Context, pid string) (models.CommandEnvelope, error) {
	env, err := s.resolver.Resolve(models.TargetPID, models.CommandHex, pid, FlashPayload)
	if err != nil {
		s.metrics.ObserveCommand(string(models.TargetPID), metric.ResultInvalid)
		return models.CommandEnvelope{}, err
	}
	if err := s.dispatch(ctx, env, fmt.Sprintf("PID %s Flash", env.Selection)); err != nil {
		return models.CommandEnvelope{}, err
	}
	return env, nil
}

// dispatch publishes env on the command topic. Nothing is recorded or
// retried when the publish fails.
func (s *CommandService) dispatch(ctx context.Context, env models.CommandEnvelope, message string) error {
	body, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("encode command: %w", err)
	}
	topic := s.broker.Config().Topics.Command

	if err := s.broker.Publish(ctx, topic, body); err != nil {
		result := metric.ResultError
		if errors.Is(err, ErrNotConnected) {
			result = metric.ResultOffline
		}
		s.metrics.ObserveCommand(string(env.TargetMode), result)
		if s.log != nil {
			s.log.Warnw("command_publish_failed", "err", err, "target", env.TargetMode, "id", env.Selection)
		}
		return fmt.Errorf("dispatch %s %q: %w", env.TargetMode, env.Selection, err)
	}

	s.history.Record(message, models.KindCommand, env)
	s.metrics.ObserveCommand(string(env.TargetMode), metric.ResultOK)
	if s.log != nil {
		s.log.Infow("command_dispatched",
			"topic", topic,
			"target", env.TargetMode,
			"type", env.CommandType,
			"id", env.Selection,
			"pillars", len(fleet.Targets(env, s.store.Snapshot())),
		)
	}
	return nil
}
