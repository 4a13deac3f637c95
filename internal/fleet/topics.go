package fleet

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"nara_fleet/internal/models"
)

// TopicKind classifies an inbound topic.
type TopicKind int

const (
	TopicIgnored TopicKind = iota
	TopicPillarStatus
	TopicSlaveStatus
)

func (k TopicKind) String() string {
	switch k {
	case TopicPillarStatus:
		return "pillar"
	case TopicSlaveStatus:
		return "slave"
	default:
		return "ignored"
	}
}

// TopicMatcher recognizes the status topics. Patterns are MQTT filters such
// as "nara/status/pid/+"; the part before the first wildcard is matched
// literally and the last path segment is the entity id.
type TopicMatcher struct {
	pillarPrefix string
	slavePrefix  string
}

// NewTopicMatcher builds a matcher from the two subscription filters.
func NewTopicMatcher(pillarFilter, slaveFilter string) TopicMatcher {
	return TopicMatcher{pillarPrefix: filterPrefix(pillarFilter), slavePrefix: filterPrefix(slaveFilter)}
}

func filterPrefix(filter string) string {
	if i := strings.IndexAny(filter, "+#"); i >= 0 {
		return filter[:i]
	}
	if !strings.HasSuffix(filter, "/") {
		return filter + "/"
	}
	return filter
}

// Classify returns the topic kind and the entity id it names.
func (m TopicMatcher) Classify(topic string) (TopicKind, string) {
	var kind TopicKind
	switch {
	case m.pillarPrefix != "" && strings.HasPrefix(topic, m.pillarPrefix):
		kind = TopicPillarStatus
	case m.slavePrefix != "" && strings.HasPrefix(topic, m.slavePrefix):
		kind = TopicSlaveStatus
	default:
		return TopicIgnored, ""
	}
	return kind, topic[strings.LastIndex(topic, "/")+1:]
}

// decodeObject unmarshals payload into dst, requiring a JSON object.
func decodeObject(payload []byte, dst any) error {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return fmt.Errorf("%w: not a JSON object", ErrMalformedPayload)
	}
	if err := json.Unmarshal(trimmed, dst); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	return nil
}

// ParsePillarPatch decodes a pillar status payload.
func ParsePillarPatch(payload []byte) (models.PillarPatch, error) {
	var patch models.PillarPatch
	if err := decodeObject(payload, &patch); err != nil {
		return models.PillarPatch{}, err
	}
	return patch, nil
}

// ParseSlavePatch decodes a slave status payload. Battery must be a percentage.
func ParseSlavePatch(payload []byte) (models.SlavePatch, error) {
	var patch models.SlavePatch
	if err := decodeObject(payload, &patch); err != nil {
		return models.SlavePatch{}, err
	}
	if patch.Battery != nil && (*patch.Battery < 0 || *patch.Battery > 100) {
		return models.SlavePatch{}, fmt.Errorf("%w: battery %d out of range", ErrMalformedPayload, *patch.Battery)
	}
	return patch, nil
}
