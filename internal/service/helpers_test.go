package service

import (
	"context"
	"sync"
	"testing"

	"nara_fleet/internal/config"
	"nara_fleet/internal/fleet"
	"nara_fleet/internal/models"
	"nara_fleet/internal/transport"
)

type publishedMsg struct {
	topic   string
	payload []byte
}

// fakeTransport stands in for the broker session.
type fakeTransport struct {
	mu             sync.Mutex
	cfg            config.MQTTConfig
	state          transport.State
	publishErr     error
	published      []publishedMsg
	reconfigured   []config.MQTTConfig
	reconfigureErr error
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{cfg: testMQTTConfig(), state: transport.StateSubscribed}
}

func (f *fakeTransport) Publish(_ context.Context, topic string, payload []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != transport.StateSubscribed {
		return transport.ErrNotConnected
	}
	if f.publishErr != nil {
		return f.publishErr
	}
	f.published = append(f.published, publishedMsg{topic: topic, payload: payload})
	return nil
}

func (f *fakeTransport) Status() transport.Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	return transport.Status{State: f.state.String(), Broker: f.cfg.BrokerURL()}
}

func (f *fakeTransport) Config() config.MQTTConfig {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cfg
}

func (f *fakeTransport) Reconfigure(cfg config.MQTTConfig) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.reconfigureErr != nil {
		return f.reconfigureErr
	}
	f.cfg = cfg
	f.reconfigured = append(f.reconfigured, cfg)
	return nil
}

func testMQTTConfig() config.MQTTConfig {
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

func intPtr(v int) *int { return &v }

func testStore(t *testing.T) *fleet.Store {
	t.Helper()
	s, err := fleet.NewStore(models.Roster{
		Groups: []models.RosterGroup{{GID: "GA", Color: "#e74c3c"}},
		Slaves: []models.RosterSlave{
			{SID: "S1", SMAC: "aa:01", Battery: 90},
			{SID: "S13", SMAC: "aa:13", Battery: 60},
		},
		Pillars: []models.RosterPillar{
			{PID: "P1", BID: "B01", SID: "S1", GID: "GA"},
			{PID: "P2", BID: "B01", SID: "S1", GID: "GA", RSSI: intPtr(-72)},
			{PID: "P3", BID: "B02", SID: "S13", GID: "GB"},
		},
	})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return s
}

func newTestHistory(j *fakeJournal) *HistoryService {
	if j == nil {
		return NewHistoryService(fleet.NewEventLog(), nil, nil, nil)
	}
	return NewHistoryService(fleet.NewEventLog(), j, nil, nil)
}
