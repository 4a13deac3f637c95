package models

import "time"

// Slave is a controller aggregating multiple pillars.
type Slave struct {
	SID      string    `json:"sid"`
	SMAC     string    `json:"smac"`
	Battery  int       `json:"battery"` // percent, 0..100
	Status   Status    `json:"status"`
	LastComm time.Time `json:"last_comm"`
}

// SlavePatch carries the fields present in one slave status message.
type SlavePatch struct {
	SMAC    *string `json:"smac,omitempty"`
	Battery *int    `json:"battery,omitempty"`
}
