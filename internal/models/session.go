package models

import "time"

// SessionState is the operator session saved between runs.
type SessionState struct {
	Filter      FilterCriteria `json:"filter"`
	Console     ConsoleState   `json:"console"`
	SelectedPID string         `json:"selected_pid,omitempty"`
	UpdatedAt   time.Time      `json:"updated_at"`
}
