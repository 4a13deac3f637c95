package transport

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"nara_fleet/internal/config"
	"nara_fleet/internal/logger"
	"nara_fleet/internal/metric"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
)

// State is the broker session state.
type State int32

const (
	StateDisconnected State = iota
	StateConnecting
	StateSubscribed
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateSubscribed:
		return "subscribed"
	default:
		return "unknown"
	}
}

var (
	// ErrNotConnected is returned by Publish unless the session is subscribed.
	ErrNotConnected = errors.New("not connected to broker")
	// ErrClosed is returned by Start after Close.
	ErrClosed = errors.New("session closed")
)

const (
	clientIDPrefix  = "nara_web_"
	statusQoS       = 0
	commandQoS      = 0
	disconnectQuiet = 250 // ms
)

// MessageHandler receives inbound messages one at a time, in arrival order.
type MessageHandler func(topic string, payload []byte)

// ClientFactory builds the paho client. Tests substitute a fake.
type ClientFactory func(*mqtt.ClientOptions) mqtt.Client

// Status is a snapshot of the session for the API.
type Status struct {
	State    string `json:"state"`
	Broker   string `json:"broker"`
	ClientID string `json:"client_id"`
}

// Session owns one broker connection and its two status subscriptions.
// Start, Reconfigure and Close may be called from any goroutine.
type Session struct {
	handler      MessageHandler
	factory      ClientFactory
	log          *logger.Logger
	metrics      *metric.Metrics
	onSubscribed func()

	// lifecycle serializes Start, Reconfigure and Close.
	lifecycle sync.Mutex

	mu       sync.Mutex
	client   mqtt.Client
	cfg      config.MQTTConfig
	clientID string
	gen      uint64
	closed   bool

	state atomic.Int32
}

// Option customizes a Session.
type Option func(*Session)

func WithClientFactory(f ClientFactory) Option { return func(s *Session) { s.factory = f } }
func WithLogger(l *logger.Logger) Option       { return func(s *Session) { s.log = l } }
func WithMetrics(m *metric.Metrics) Option     { return func(s *Session) { s.metrics = m } }

// WithOnSubscribed registers a callback run after every successful (re)subscription.
func WithOnSubscribed(fn func()) Option { return func(s *Session) { s.onSubscribed = fn } }

// NewSession returns a disconnected session delivering messages to handler.
func NewSession(handler MessageHandler, opts ...Option) *Session {
	s := &Session{handler: handler, factory: mqtt.NewClient}
	for _, opt := range opts {
		opt(s)
	}
	s.state.Store(int32(StateDisconnected))
	return s
}

// State returns the current session state.
func (s *Session) State() State { return State(s.state.Load()) }

// Status describes the session and the broker it targets.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := Status{State: s.State().String(), ClientID: s.clientID}
	if s.client != nil {
		st.Broker = s.cfg.BrokerURL()
	}
	return st
}

// Config returns the settings the session was last started with.
func (s *Session) Config() config.MQTTConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

// Start connects in the background; paho keeps retrying until it succeeds.
func (s *Session) Start(cfg config.MQTTConfig) error {
	s.lifecycle.Lock()
	defer s.lifecycle.Unlock()
	return s.start(cfg)
}

func (s *Session) start(cfg config.MQTTConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if s.client != nil {
		s.mu.Unlock()
		return errors.New("session already started")
	}
	s.gen++
	gen := s.gen
	s.cfg = cfg
	s.clientID = cfg.ClientID
	if s.clientID == "" {
		s.clientID = newClientID()
	}
	client := s.factory(s.clientOptions(cfg, s.clientID, gen))
	s.client = client
	s.setState(StateConnecting)
	s.mu.Unlock()

	if s.log != nil {
		s.log.Infow("mqtt_connecting", "broker", cfg.BrokerURL(), "client_id", s.clientID)
	}

	tok := client.Connect()
	go func() {
		tok.Wait()
		if err := tok.Error(); err != nil && s.log != nil {
			s.log.Warnw("mqtt_connect_failed", "broker", cfg.BrokerURL(), "err", err)
		}
	}()
	return nil
}

// Reconfigure tears the current connection down and starts over with cfg.
func (s *Session) Reconfigure(cfg config.MQTTConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	s.lifecycle.Lock()
	defer s.lifecycle.Unlock()
	s.stop()
	return s.start(cfg)
}

// Close unsubscribes and disconnects. It is safe to call more than once.
func (s *Session) Close() {
	s.lifecycle.Lock()
	defer s.lifecycle.Unlock()
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.stop()
}

func (s *Session) stop() {
	s.mu.Lock()
	client, cfg := s.client, s.cfg
	s.client = nil
	// Callbacks from the old client are ignored from here on.
	s.gen++
	s.setState(StateDisconnected)
	s.mu.Unlock()

	if client == nil {
		return
	}
	if client.IsConnectionOpen() {
		tok := client.Unsubscribe(cfg.Topics.PillarStatus, cfg.Topics.SlaveStatus)
		if !tok.WaitTimeout(cfg.ConnectTimeout) || tok.Error() != nil {
			if s.log != nil {
				s.log.Warnw("mqtt_unsubscribe_failed", "err", tok.Error())
			}
		}
	}
	client.Disconnect(disconnectQuiet)
	if s.log != nil {
		s.log.Infow("mqtt_disconnected", "broker", cfg.BrokerURL())
	}
}

// Publish sends payload on topic. It fails fast with ErrNotConnected unless
// the session is subscribed; nothing is queued for later.
func (s *Session) Publish(ctx context.Context, topic string, payload []byte) error {
	if s.State() != StateSubscribed {
		return ErrNotConnected
	}
	s.mu.Lock()
	client := s.client
	s.mu.Unlock()
	if client == nil {
		return ErrNotConnected
	}

	tok := client.Publish(topic, commandQoS, false, payload)
	select {
	case <-tok.Done():
	case <-ctx.Done():
		return ctx.Err()
	}
	if err := tok.Error(); err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	return nil
}

func (s *Session) clientOptions(cfg config.MQTTConfig, clientID string, gen uint64) *mqtt.ClientOptions {
	o := mqtt.NewClientOptions()
	o.AddBroker(cfg.BrokerURL())
	o.SetClientID(clientID)
	o.SetCleanSession(true)
	o.SetOrderMatters(true)
	o.SetConnectTimeout(cfg.ConnectTimeout)
	o.SetAutoReconnect(true)
	o.SetConnectRetry(true)
	o.SetConnectRetryInterval(cfg.ReconnectInterval)
	o.SetMaxReconnectInterval(cfg.MaxReconnectInterval)
	if cfg.Username != "" {
		o.SetUsername(cfg.Username)
		o.SetPassword(cfg.Password)
	}
	o.SetOnConnectHandler(func(c mqtt.Client) { s.handleConnect(gen, c, cfg) })
	o.SetConnectionLostHandler(func(_ mqtt.Client, err error) { s.handleLost(gen, err) })
	o.SetReconnectingHandler(func(mqtt.Client, *mqtt.ClientOptions) {
		s.transition(gen, StateConnecting)
	})
	return o
}

// handleConnect subscribes to both status filters. A failed subscription is
// retried every reconnect interval while the connection stays up, since paho
// only reconnects after the link drops.
func (s *Session) handleConnect(gen uint64, c mqtt.Client, cfg config.MQTTConfig) {
	for {
		if !s.live(gen) || !c.IsConnectionOpen() {
			return
		}
		err := s.subscribe(c, cfg)
		if err == nil {
			break
		}
		if s.log != nil {
			s.log.Warnw("mqtt_subscribe_failed", "err", err, "retry_in", cfg.ReconnectInterval)
		}
		time.Sleep(cfg.ReconnectInterval)
	}

	if !s.transition(gen, StateSubscribed) {
		return
	}
	if s.log != nil {
		s.log.Infow("mqtt_subscribed", "topics", []string{cfg.Topics.PillarStatus, cfg.Topics.SlaveStatus})
	}
	if s.onSubscribed != nil {
		s.onSubscribed()
	}
}

func (s *Session) subscribe(c mqtt.Client, cfg config.MQTTConfig) error {
	filters := map[string]byte{
		cfg.Topics.PillarStatus: statusQoS,
		cfg.Topics.SlaveStatus:  statusQoS,
	}
	tok := c.SubscribeMultiple(filters, s.deliver)
	if !tok.WaitTimeout(cfg.ConnectTimeout) {
		return fmt.Errorf("subscribe timed out after %s", cfg.ConnectTimeout)
	}
	return tok.Error()
}

func (s *Session) handleLost(gen uint64, err error) {
	if !s.transition(gen, StateDisconnected) {
		return
	}
	if s.log != nil {
		s.log.Warnw("mqtt_connection_lost", "err", err)
	}
}

func (s *Session) deliver(_ mqtt.Client, m mqtt.Message) {
	if s.handler != nil {
		s.handler(m.Topic(), m.Payload())
	}
}

// live reports whether gen is still the current client.
func (s *Session) live(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return gen == s.gen
}

// transition applies next only if gen is still the live client.
func (s *Session) transition(gen uint64, next State) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return false
	}
	s.setState(next)
	return true
}

func (s *Session) setState(st State) {
	s.state.Store(int32(st))
	s.metrics.SetBrokerConnected(st == StateSubscribed)
}

func newClientID() string {
	return clientIDPrefix + strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
}
