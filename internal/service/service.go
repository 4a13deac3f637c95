package service

import (
	"context"

	"nara_fleet/internal/config"
	"nara_fleet/internal/fleet"
	"nara_fleet/internal/logger"
	"nara_fleet/internal/metric"
	"nara_fleet/internal/models"
	"nara_fleet/internal/repository"
	"nara_fleet/internal/transport"
)

// Fleet exposes read-only views of the entity store.
type Fleet interface {
	Tree(f models.FilterCriteria) (fleet.Projection, error)
	Pillars(f models.FilterCriteria, limit int) ([]models.PillarNode, error)
	Pillar(pid string) (models.Pillar, error)
	Slaves() []models.Slave
	Stats() models.FleetStats
	HeatMap() []models.HeatCell
}

// Console is the operator's session state: view filter, selection and the
// command being composed.
type Console interface {
	Filter() models.FilterCriteria
	SetFilter(f models.FilterCriteria) (models.FilterCriteria, error)
	View() ConsoleView
	SetTargetMode(mode models.TargetMode) (models.ConsoleState, error)
	SelectPillar(pid string) (models.ConsoleState, error)
}

// Commands resolves and publishes operator commands.
type Commands interface {
	Execute(ctx context.Context, req CommandRequest) (models.CommandEnvelope, error)
	Flash(ctx context.Context, pid string) (models.CommandEnvelope, error)
}

// History is the in-memory event log shown on the dashboard.
type History interface {
	Append(message string, kind models.HistoryKind) models.HistoryEntry
	Entries() []models.HistoryEntry
	Clear()
}

// EventLog queries the durable journal.
type EventLog interface {
	List(ctx context.Context, f LogFilter) ([]models.JournalEntry, error)
}

// Broker administers the transport session.
type Broker interface {
	Status() transport.Status
	Config() config.MQTTConfig
	Reconfigure(cfg config.MQTTConfig) error
}

// Ingest consumes inbound status messages.
type Ingest interface {
	Handle(ctx context.Context, topic string, payload []byte) error
}

// Transport is the broker session as the service layer uses it.
type Transport interface {
	Publish(ctx context.Context, topic string, payload []byte) error
	Status() transport.Status
	Config() config.MQTTConfig
	Reconfigure(cfg config.MQTTConfig) error
}

// Service aggregates all sub-services.
type Service struct {
	Fleet
	Console
	Commands
	History
	EventLog
	Broker
	Ingest
}

// Deps are the collaborators NewService wires together.
type Deps struct {
	Store     *fleet.Store
	State     *AppState
	History   *HistoryService
	Router    *IngestRouter
	Transport Transport
	Repos     *repository.Repository
	Metrics   *metric.Metrics
	Log       *logger.Logger
	// OnReconfigure is told about broker settings applied through the API.
	OnReconfigure func(config.MQTTConfig)
}

// NewService wires the store, session state and transport into services.
func NewService(d Deps) *Service {
	if d.State == nil {
		d.State = NewAppState()
	}
	return &Service{
		Fleet:    NewFleetService(d.Store, d.Transport),
		Console:  NewConsoleService(d.State, d.Store),
		Commands: NewCommandService(d.Store, d.State, d.Transport, d.History, d.Metrics, d.Log),
		History:  d.History,
		EventLog: NewEventLogService(d.Repos.Journal),
		Broker:   NewBrokerService(d.Transport, d.Router, d.OnReconfigure, d.Log),
		Ingest:   d.Router,
	}
}
