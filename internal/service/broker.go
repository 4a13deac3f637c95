package service

import (
	"sync"

	"nara_fleet/internal/config"
	"nara_fleet/internal/logger"
	"nara_fleet/internal/transport"
)

// BrokerService reconfigures the transport and keeps the router's topics in step.
type BrokerService struct {
	mu        sync.Mutex
	transport Transport
	router    *IngestRouter
	onApply   func(config.MQTTConfig)
	log       *logger.Logger
}

func NewBrokerService(t Transport, router *IngestRouter, onApply func(config.MQTTConfig), log *logger.Logger) *BrokerService {
	return &BrokerService{transport: t, router: router, onApply: onApply, log: log}
}

func (s *BrokerService) Status() transport.Status { return s.transport.Status() }
func (s *BrokerService) Config() config.MQTTConfig { return s.transport.Config() }

// Reconfigure restarts the session with cfg. Invalid settings leave the
// running session alone. Calls are serialized so the router always matches
// the topics the session subscribed to.
func (s *BrokerService) Reconfigure(cfg config.MQTTConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.transport.Config().Topics
	if s.router != nil {
		s.router.SetTopics(cfg.Topics)
	}
	if err := s.transport.Reconfigure(cfg); err != nil {
		if s.router != nil {
			s.router.SetTopics(prev)
		}
		return err
	}
	if s.onApply != nil {
		s.onApply(cfg)
	}
	if s.log != nil {
		s.log.Infow("broker_reconfigured", "broker", cfg.BrokerURL())
	}
	return nil
}
