package models

import "time"

// Status is the liveness of a pillar or slave as last observed on the feed.
type Status string

const (
	StatusOnline  Status = "online"
	StatusOffline Status = "offline"
)

// DefaultRSSI is reported for pillars that never sent a signal sample.
const DefaultRSSI = -45

// Pillar is a single field device.
type Pillar struct {
	PID           string    `json:"pid"`
	BID           string    `json:"bid"`
	SID           string    `json:"sid"`
	GID           string    `json:"gid"`
	PMAC          string    `json:"pmac,omitempty"`
	Color         string    `json:"color"`
	Status        Status    `json:"status"`
	RSSI          int       `json:"rssi"`
	LastTime      time.Time `json:"last_time"`      // zero until the first status message
	SignalHistory []int     `json:"signal_history"` // newest first, at most 10
}

// PillarPatch carries the fields present in one pillar status message.
// A nil field means "unchanged".
type PillarPatch struct {
	BID   *string `json:"bid,omitempty"`
	SID   *string `json:"sid,omitempty"`
	GID   *string `json:"gid,omitempty"`
	PMAC  *string `json:"pmac,omitempty"`
	Color *string `json:"color,omitempty"`
	RSSI  *int    `json:"rssi,omitempty"`
}
