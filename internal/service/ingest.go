package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"nara_fleet/internal/config"
	"nara_fleet/internal/fleet"
	"nara_fleet/internal/logger"
	"nara_fleet/internal/metric"
	"nara_fleet/internal/models"
)

// IngestRouter applies inbound status messages to the entity store.
type IngestRouter struct {
	mu      sync.RWMutex
	matcher fleet.TopicMatcher

	store   *fleet.Store
	history recorder
	metrics *metric.Metrics
	log     *logger.Logger
}

func NewIngestRouter(topics config.TopicsConfig, store *fleet.Store, history recorder, m *metric.Metrics, log *logger.Logger) *IngestRouter {
	return &IngestRouter{
		matcher: fleet.NewTopicMatcher(topics.PillarStatus, topics.SlaveStatus),
		store:   store,
		history: history,
		metrics: m,
		log:     log,
	}
}

// SetTopics switches the status topics, e.g. after a broker reconfigure.
func (r *IngestRouter) SetTopics(topics config.TopicsConfig) {
	m := fleet.NewTopicMatcher(topics.PillarStatus, topics.SlaveStatus)
	r.mu.Lock()
	r.matcher = m
	r.mu.Unlock()
}

// Handle routes one message. Bad payloads and unknown ids are logged,
// counted and dropped; the store and event log stay untouched.
func (r *IngestRouter) Handle(ctx context.Context, topic string, payload []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.RLock()
	kind, id := r.matcher.Classify(topic)
	r.mu.RUnlock()

	var err error
	switch kind {
	case fleet.TopicPillarStatus:
		err = r.handlePillar(id, payload)
	case fleet.TopicSlaveStatus:
		err = r.handleSlave(id, payload)
	default:
		r.metrics.ObserveIngest(kind.String(), metric.ResultIgnored)
		return nil
	}

	r.metrics.ObserveIngest(kind.String(), resultOf(err))
	if err != nil && r.log != nil {
		r.log.Warnw("status_dropped", "topic", topic, "kind", kind.String(), "err", err)
	}
	return err
}

func (r *IngestRouter) handlePillar(pid string, payload []byte) error {
	if pid == "" {
		return fmt.Errorf("%w: empty pid", fleet.ErrMalformedPayload)
	}
	patch, err := fleet.ParsePillarPatch(payload)
	if err != nil {
		return err
	}
	p, err := r.store.ApplyPillarUpdate(pid, patch)
	if err != nil {
		return err
	}
	r.history.Record(fmt.Sprintf("%s Status Updated", pid), models.KindStatus,
		map[string]any{"pid": pid, "rssi": p.RSSI})
	return nil
}

func (r *IngestRouter) handleSlave(sid string, payload []byte) error {
	if sid == "" {
		return fmt.Errorf("%w: empty sid", fleet.ErrMalformedPayload)
	}
	patch, err := fleet.ParseSlavePatch(payload)
	if err != nil {
		return err
	}
	sl, err := r.store.ApplySlaveUpdate(sid, patch)
	if err != nil {
		return err
	}
	r.history.Record(fmt.Sprintf("Slave %s Sync", sid), models.KindStatus,
		map[string]any{"sid": sid, "battery": sl.Battery})
	return nil
}

func resultOf(err error) string {
	switch {
	case err == nil:
		return metric.ResultOK
	case errors.Is(err, fleet.ErrMalformedPayload):
		return metric.ResultMalformed
	case errors.Is(err, fleet.ErrUnknownEntity):
		return metric.ResultUnknown
	default:
		return metric.ResultError
	}
}
