package handlers

import (
	"context"
	"sync"
	"time"

	"nara_fleet/internal/config"
	"nara_fleet/internal/fleet"
	"nara_fleet/internal/models"
	"nara_fleet/internal/service"
	"nara_fleet/internal/transport"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockFleet struct {
	groups  []models.GroupNode
	treeErr error
	pillars []models.PillarNode
	listErr error
	pillar  models.Pillar
	getErr  error
	slaves  []models.Slave
	stats   models.FleetStats
	heat    []models.HeatCell

	mu         sync.Mutex
	lastFilter models.FilterCriteria
	lastLimit  int
}

func (m *mockFleet) Tree(f models.FilterCriteria) (fleet.Projection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastFilter = f
	return fleet.Projection{Groups: m.groups}, m.treeErr
}
func (m *mockFleet) Pillars(f models.FilterCriteria, limit int) ([]models.PillarNode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastFilter = f
	m.lastLimit = limit
	return m.pillars, m.listErr
}
func (m *mockFleet) filterSeen() models.FilterCriteria {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastFilter
}
func (m *mockFleet) Pillar(pid string) (models.Pillar, error) { return m.pillar, m.getErr }
func (m *mockFleet) Slaves() []models.Slave                    { return m.slaves }
func (m *mockFleet) Stats() models.FleetStats                  { return m.stats }
func (m *mockFleet) HeatMap() []models.HeatCell                { return m.heat }

type mockConsole struct {
	filter    models.FilterCriteria
	filterErr error
	view      service.ConsoleView
	state     models.ConsoleState
	err       error

	lastMode models.TargetMode
	lastPID  string
}

func (m *mockConsole) Filter() models.FilterCriteria { return m.filter }
func (m *mockConsole) SetFilter(f models.FilterCriteria) (models.FilterCriteria, error) {
	if m.filterErr != nil {
		return models.FilterCriteria{}, m.filterErr
	}
	m.filter = f
	return f, nil
}
func (m *mockConsole) View() service.ConsoleView { return m.view }
func (m *mockConsole) SetTargetMode(mode models.TargetMode) (models.ConsoleState, error) {
	m.lastMode = mode
	return m.state, m.err
}
func (m *mockConsole) SelectPillar(pid string) (models.ConsoleState, error) {
	m.lastPID = pid
	return m.state, m.err
}

type mockCommands struct {
	env       models.CommandEnvelope
	err       error
	lastReq   service.CommandRequest
	lastFlash string
	calls     int
}

func (m *mockCommands) Execute(ctx context.Context, req service.CommandRequest) (models.CommandEnvelope, error) {
	m.calls++
	m.lastReq = req
	return m.env, m.err
}
func (m *mockCommands) Flash(ctx context.Context, pid string) (models.CommandEnvelope, error) {
	m.calls++
	m.lastFlash = pid
	return m.env, m.err
}

type mockHistory struct {
	entries []models.HistoryEntry
	cleared int
}

func (m *mockHistory) Append(message string, kind models.HistoryKind) models.HistoryEntry {
	e := models.HistoryEntry{Message: message, Kind: kind}
	m.entries = append([]models.HistoryEntry{e}, m.entries...)
	return e
}
func (m *mockHistory) Entries() []models.HistoryEntry { return m.entries }
func (m *mockHistory) Clear() {
	m.cleared++
	m.entries = nil
}

type mockEventLog struct {
	resp     []models.JournalEntry
	err      error
	lastFrom time.Time
	lastTo   time.Time
	lastType string
}

func (m *mockEventLog) List(ctx context.Context, f service.LogFilter) ([]models.JournalEntry, error) {
	m.lastFrom = f.From
	m.lastTo = f.To
	m.lastType = f.Type
	return m.resp, m.err
}

type mockBroker struct {
	status  transport.Status
	cfg     config.MQTTConfig
	err     error
	applied []config.MQTTConfig
}

func (m *mockBroker) Status() transport.Status  { return m.status }
func (m *mockBroker) Config() config.MQTTConfig { return m.cfg }
func (m *mockBroker) Reconfigure(cfg config.MQTTConfig) error {
	if m.err != nil {
		return m.err
	}
	m.applied = append(m.applied, cfg)
	m.cfg = cfg
	return nil
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func testBrokerConfig() config.MQTTConfig {
	return config.MQTTConfig{
		Host:                 "127.0.0.1",
		Port:                 9001,
		Scheme:               "ws",
		Path:                 "/mqtt",
		ConnectTimeout:       config.DefaultConnectTimeout,
		ReconnectInterval:    config.DefaultReconnectInterval,
		MaxReconnectInterval: config.DefaultMaxReconnectInterval,
		Topics: config.TopicsConfig{
			PillarStatus: config.DefaultPillarTopic,
			SlaveStatus:  config.DefaultSlaveTopic,
			Command:      config.DefaultCommandTopic,
		},
	}
}
