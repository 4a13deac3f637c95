package models

// Roster is the provisioned fleet the session starts from.
type Roster struct {
	Groups  []RosterGroup  `yaml:"groups" json:"groups"`
	Slaves  []RosterSlave  `yaml:"slaves" json:"slaves"`
	Pillars []RosterPillar `yaml:"pillars" json:"pillars"`
}

type RosterGroup struct {
	GID   string `yaml:"gid" json:"gid"`
	Color string `yaml:"color" json:"color"`
}

type RosterSlave struct {
	SID     string `yaml:"sid" json:"sid"`
	SMAC    string `yaml:"smac" json:"smac"`
	Battery int    `yaml:"battery" json:"battery"`
}

type RosterPillar struct {
	PID   string `yaml:"pid" json:"pid"`
	BID   string `yaml:"bid" json:"bid"`
	SID   string `yaml:"sid" json:"sid"`
	GID   string `yaml:"gid" json:"gid"`
	PMAC  string `yaml:"pmac" json:"pmac"`
	Color string `yaml:"color" json:"color"`
	RSSI  *int   `yaml:"rssi" json:"rssi,omitempty"`
}
