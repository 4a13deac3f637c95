package fleet

import (
	"fmt"
	"math"
	"slices"
	"sort"
	"strconv"
	"strings"

	"nara_fleet/internal/models"
)

// FixedGroups are always present in a projection, even when empty.
var FixedGroups = []string{"GA", "GB", "GC", "GD", "GE"}

const (
	// HallSplit is the highest sid suffix served by hall H1.
	HallSplit = 12
	// LowSignalThreshold splits the Low/Good signal filter.
	LowSignalThreshold = -70
	// Heat map bands.
	HeatGoodThreshold = -60
	HeatFairThreshold = -75
	// AnalyticsLimit is how many pillars the analytics grid shows.
	AnalyticsLimit = 12
)

// Projection is the Group→Slave→Pillar tree together with the unfiltered
// snapshot it was computed from.
type Projection struct {
	Groups   []models.GroupNode `json:"groups"`
	Snapshot *Snapshot          `json:"-"`
}

// ValidateFilter rejects hall and signal values the projector does not know.
// Empty values are treated as All.
func ValidateFilter(f models.FilterCriteria) (models.FilterCriteria, error) {
	switch f.Hall {
	case "":
		f.Hall = models.HallAll
	case models.HallAll, models.HallH1, models.HallH2:
	default:
		return f, fmt.Errorf("%w: hall %q", ErrInvalidFilter, f.Hall)
	}
	switch f.Signal {
	case "":
		f.Signal = models.SignalAll
	case models.SignalAll, models.SignalGood, models.SignalLow:
	default:
		return f, fmt.Errorf("%w: signal %q", ErrInvalidFilter, f.Signal)
	}
	return f, nil
}

// numericSuffix parses the digits that follow the one-letter prefix of an id
// such as "S10" or "P7". Trailing non-digits are ignored.
func numericSuffix(id string) (int, bool) {
	if len(id) < 2 {
		return 0, false
	}
	end := 1
	for end < len(id) && id[end] >= '0' && id[end] <= '9' {
		end++
	}
	if end == 1 {
		return 0, false
	}
	n, err := strconv.Atoi(id[1:end])
	if err != nil {
		return 0, false
	}
	return n, true
}

// compareIDs orders ids by numeric suffix; ids without one go last.
func compareIDs(a, b string) int {
	na, okA := numericSuffix(a)
	nb, okB := numericSuffix(b)
	switch {
	case okA && okB && na != nb:
		if na < nb {
			return -1
		}
		return 1
	case okA && !okB:
		return -1
	case !okA && okB:
		return 1
	}
	return strings.Compare(a, b)
}

// MatchesHall reports whether the slave sid belongs to the hall.
// A sid without a numeric suffix belongs to neither hall.
func MatchesHall(hall, sid string) bool {
	if hall == "" || hall == models.HallAll {
		return true
	}
	n, ok := numericSuffix(sid)
	if !ok {
		return false
	}
	if hall == models.HallH1 {
		return n <= HallSplit
	}
	return n > HallSplit
}

// MatchesSearch is a case-insensitive substring match on pid or bid.
func MatchesSearch(query string, p models.Pillar) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(p.PID), q) ||
		strings.Contains(strings.ToLower(p.BID), q)
}

// MatchesSignal is the two-way Low/Good analytics filter.
func MatchesSignal(filter string, rssi int) bool {
	switch filter {
	case models.SignalLow:
		return rssi < LowSignalThreshold
	case models.SignalGood:
		return rssi >= LowSignalThreshold
	default:
		return true
	}
}

// ClassifyHeat is the three-way heat map classifier. Its bands differ from
// MatchesSignal on purpose.
func ClassifyHeat(rssi int) models.HeatClass {
	switch {
	case rssi >= HeatGoodThreshold:
		return models.HeatGood
	case rssi >= HeatFairThreshold:
		return models.HeatFair
	default:
		return models.HeatPoor
	}
}

func groupOf(p models.Pillar) string {
	if p.GID == "" {
		return models.UnknownGroup
	}
	return p.GID
}

// Project builds the display tree. Hidden pillars stay in the tree and in the
// returned snapshot; the signal filter does not apply to the tree view.
func Project(snap *Snapshot, f models.FilterCriteria) Projection {
	type groupAcc struct {
		slaves map[string]*models.SlaveNode
		order  []string
	}
	groups := make(map[string]*groupAcc, len(FixedGroups))
	for _, gid := range FixedGroups {
		groups[gid] = &groupAcc{slaves: map[string]*models.SlaveNode{}}
	}

	for _, p := range snap.Pillars {
		gid := groupOf(p)
		g, ok := groups[gid]
		if !ok {
			g = &groupAcc{slaves: map[string]*models.SlaveNode{}}
			groups[gid] = g
		}
		node, ok := g.slaves[p.SID]
		if !ok {
			sl, known := snap.Slave(p.SID)
			if !known {
				sl = models.Slave{SID: p.SID, Status: models.StatusOffline}
			}
			node = &models.SlaveNode{Slave: sl}
			g.slaves[p.SID] = node
			g.order = append(g.order, p.SID)
		}
		hidden := !MatchesHall(f.Hall, p.SID) || !MatchesSearch(f.Search, p)
		node.Pillars = append(node.Pillars, models.PillarNode{Pillar: p, Hidden: hidden})
	}

	gids := make([]string, 0, len(groups))
	for gid := range groups {
		gids = append(gids, gid)
	}
	sort.Strings(gids)

	out := make([]models.GroupNode, 0, len(gids))
	for _, gid := range gids {
		g := groups[gid]
		sids := slices.Clone(g.order)
		slices.SortStableFunc(sids, compareIDs)
		slaves := make([]models.SlaveNode, 0, len(sids))
		for _, sid := range sids {
			slaves = append(slaves, *g.slaves[sid])
		}
		out = append(out, models.GroupNode{GID: gid, Slaves: slaves})
	}
	return Projection{Groups: out, Snapshot: snap}
}

// FilteredList is the flat analytics view: hall, search and signal
// predicates applied to every pillar in store order.
func FilteredList(snap *Snapshot, f models.FilterCriteria) []models.PillarNode {
	out := make([]models.PillarNode, 0, len(snap.Pillars))
	for _, p := range snap.Pillars {
		visible := MatchesHall(f.Hall, p.SID) && MatchesSearch(f.Search, p) && MatchesSignal(f.Signal, p.RSSI)
		out = append(out, models.PillarNode{Pillar: p, Hidden: !visible})
	}
	return out
}

// Visible returns the first limit non-hidden nodes. limit <= 0 means all.
func Visible(list []models.PillarNode, limit int) []models.PillarNode {
	out := make([]models.PillarNode, 0, len(list))
	for _, n := range list {
		if n.Hidden {
			continue
		}
		if limit > 0 && len(out) == limit {
			break
		}
		out = append(out, n)
	}
	return out
}

// HeatMap classifies every pillar, ignoring filters.
func HeatMap(snap *Snapshot) []models.HeatCell {
	out := make([]models.HeatCell, 0, len(snap.Pillars))
	for _, p := range snap.Pillars {
		out = append(out, models.HeatCell{PID: p.PID, RSSI: p.RSSI, Class: ClassifyHeat(p.RSSI)})
	}
	return out
}

// Stats summarizes the snapshot. Broker state is filled in by the caller.
func Stats(snap *Snapshot) models.FleetStats {
	st := models.FleetStats{
		TotalPillars: len(snap.Pillars),
		TotalSlaves:  len(snap.Slaves),
	}
	sum := 0
	for _, p := range snap.Pillars {
		sum += p.RSSI
		if p.Status == models.StatusOnline {
			st.OnlinePillars++
		}
	}
	for _, sl := range snap.Slaves {
		if sl.Status == models.StatusOnline {
			st.OnlineSlaves++
		}
	}
	if len(snap.Pillars) > 0 {
		st.AvgRSSI = int(math.Floor(float64(sum)/float64(len(snap.Pillars)) + 0.5))
	}
	return st
}

// Booths returns the distinct booth ids, sorted.
func Booths(snap *Snapshot) []string {
	seen := make(map[string]struct{}, len(snap.Pillars))
	out := make([]string, 0, len(snap.Pillars))
	for _, p := range snap.Pillars {
		if _, ok := seen[p.BID]; ok {
			continue
		}
		seen[p.BID] = struct{}{}
		out = append(out, p.BID)
	}
	sort.Strings(out)
	return out
}

// PillarIDs returns every pid ordered by numeric suffix.
func PillarIDs(snap *Snapshot) []string {
	out := make([]string, 0, len(snap.Pillars))
	for _, p := range snap.Pillars {
		out = append(out, p.PID)
	}
	slices.SortStableFunc(out, compareIDs)
	return out
}

// SlaveIDs returns every known sid ordered by numeric suffix.
func SlaveIDs(snap *Snapshot) []string {
	out := make([]string, 0, len(snap.Slaves))
	for _, sl := range snap.Slaves {
		out = append(out, sl.SID)
	}
	slices.SortStableFunc(out, compareIDs)
	return out
}
