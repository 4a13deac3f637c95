package models

// HeatClass is the three-way signal class used for heat-map coloring.
type HeatClass string

const (
	HeatGood HeatClass = "good"
	HeatFair HeatClass = "fair"
	HeatPoor HeatClass = "poor"
)

// UnknownGroup holds pillars that carry no gid.
const UnknownGroup = "Unknown"

// PillarNode is a pillar as placed in a projection.
type PillarNode struct {
	Pillar
	Hidden bool `json:"hidden"`
}

// SlaveNode is a slave with the pillars it owns inside one group.
type SlaveNode struct {
	Slave
	Pillars []PillarNode `json:"pillars"`
}

// GroupNode is a top-level display group.
type GroupNode struct {
	GID    string      `json:"gid"`
	Slaves []SlaveNode `json:"slaves"`
}

// HeatCell is one tile of the system-wide heat map.
type HeatCell struct {
	PID   string    `json:"pid"`
	RSSI  int       `json:"rssi"`
	Class HeatClass `json:"class"`
}

// FleetStats summarizes the fleet for the operator.
type FleetStats struct {
	TotalPillars  int    `json:"total_pillars"`
	OnlinePillars int    `json:"online_pillars"`
	TotalSlaves   int    `json:"total_slaves"`
	OnlineSlaves  int    `json:"online_slaves"`
	AvgRSSI       int    `json:"avg_rssi"`
	Broker        string `json:"broker"`
}
