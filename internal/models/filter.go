package models

// Hall filter values. Halls split slaves by numeric sid suffix.
const (
	HallAll = "All"
	HallH1  = "H1"
	HallH2  = "H2"
)

// Signal filter values.
const (
	SignalAll  = "All"
	SignalGood = "Good"
	SignalLow  = "Low"
)

// FilterCriteria is the process-wide view state. It never mutates entities,
// it only derives a per-pillar hidden flag.
type FilterCriteria struct {
	Hall   string `json:"hall"`
	Signal string `json:"signal"`
	Search string `json:"search"`
}

// DefaultFilter shows everything.
func DefaultFilter() FilterCriteria {
	return FilterCriteria{Hall: HallAll, Signal: SignalAll}
}
