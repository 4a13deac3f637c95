package fleet

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"nara_fleet/internal/models"
)

// unknownColor is assigned to pillars whose group has no color in the roster.
const unknownColor = "unknown"

// Store holds the authoritative pillar and slave records.
//
// Writes are serialized per entity key; the merged record is then published
// as a new immutable Snapshot under a short publish lock. Reads never lock.
type Store struct {
	snap    atomic.Pointer[Snapshot]
	publish sync.Mutex

	// Fixed at construction: the roster is the only source of identities.
	pillarLocks map[string]*sync.Mutex
	slaveLocks  map[string]*sync.Mutex

	now func() time.Time
}

// StoreOption customizes a Store.
type StoreOption func(*Store)

// WithClock overrides the clock used for lastTime/lastComm.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) { s.now = now }
}

// NewStore seeds a store from the provisioned roster.
func NewStore(roster models.Roster, opts ...StoreOption) (*Store, error) {
	s := &Store{
		pillarLocks: make(map[string]*sync.Mutex, len(roster.Pillars)),
		slaveLocks:  make(map[string]*sync.Mutex, len(roster.Slaves)),
		now:         func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}

	colors := make(map[string]string, len(roster.Groups))
	for _, g := range roster.Groups {
		colors[strings.ToUpper(g.GID)] = g.Color
	}

	snap := &Snapshot{
		Pillars:   make([]models.Pillar, 0, len(roster.Pillars)),
		Slaves:    make([]models.Slave, 0, len(roster.Slaves)),
		pillarIdx: make(map[string]int, len(roster.Pillars)),
		slaveIdx:  make(map[string]int, len(roster.Slaves)),
	}

	for _, rs := range roster.Slaves {
		if rs.SID == "" {
			return nil, fmt.Errorf("%w: slave with empty sid", ErrInvalidRoster)
		}
		if _, dup := snap.slaveIdx[rs.SID]; dup {
			return nil, fmt.Errorf("%w: duplicate sid %q", ErrInvalidRoster, rs.SID)
		}
		snap.slaveIdx[rs.SID] = len(snap.Slaves)
		snap.Slaves = append(snap.Slaves, models.Slave{
			SID:     rs.SID,
			SMAC:    rs.SMAC,
			Battery: rs.Battery,
			Status:  models.StatusOffline,
		})
		s.slaveLocks[rs.SID] = &sync.Mutex{}
	}

	for _, rp := range roster.Pillars {
		if rp.PID == "" {
			return nil, fmt.Errorf("%w: pillar with empty pid", ErrInvalidRoster)
		}
		if _, dup := snap.pillarIdx[rp.PID]; dup {
			return nil, fmt.Errorf("%w: duplicate pid %q", ErrInvalidRoster, rp.PID)
		}
		rssi := models.DefaultRSSI
		if rp.RSSI != nil {
			rssi = *rp.RSSI
		}
		color := rp.Color
		if color == "" {
			color = colors[strings.ToUpper(rp.GID)]
		}
		if color == "" {
			color = unknownColor
		}
		snap.pillarIdx[rp.PID] = len(snap.Pillars)
		snap.Pillars = append(snap.Pillars, models.Pillar{
			PID:           rp.PID,
			BID:           rp.BID,
			SID:           rp.SID,
			GID:           rp.GID,
			PMAC:          rp.PMAC,
			Color:         color,
			Status:        models.StatusOffline,
			RSSI:          rssi,
			SignalHistory: seedSignal(rssi),
		})
		s.pillarLocks[rp.PID] = &sync.Mutex{}
	}

	s.snap.Store(snap)
	return s, nil
}

// Snapshot returns the current consistent view of the fleet.
func (s *Store) Snapshot() *Snapshot {
	return s.snap.Load()
}

// ApplyPillarUpdate merges the present fields of patch into the pillar,
// marks it online, refreshes lastTime and pushes its rssi onto the signal
// history. Unknown pids are left alone and reported as ErrUnknownEntity.
func (s *Store) ApplyPillarUpdate(pid string, patch models.PillarPatch) (models.Pillar, error) {
	mu, ok := s.pillarLocks[pid]
	if !ok {
		return models.Pillar{}, fmt.Errorf("%w: pillar %q", ErrUnknownEntity, pid)
	}
	mu.Lock()
	defer mu.Unlock()

	// Only this goroutine may change pid while mu is held.
	cur := s.snap.Load()
	i := cur.pillarIdx[pid]
	merged := mergePillar(cur.Pillars[i], patch, s.now())

	s.publish.Lock()
	s.snap.Store(s.snap.Load().withPillar(i, merged))
	s.publish.Unlock()

	return merged, nil
}

// ApplySlaveUpdate merges the present fields of patch into the slave,
// marks it online and refreshes lastComm.
func (s *Store) ApplySlaveUpdate(sid string, patch models.SlavePatch) (models.Slave, error) {
	mu, ok := s.slaveLocks[sid]
	if !ok {
		return models.Slave{}, fmt.Errorf("%w: slave %q", ErrUnknownEntity, sid)
	}
	mu.Lock()
	defer mu.Unlock()

	cur := s.snap.Load()
	i := cur.slaveIdx[sid]
	merged := mergeSlave(cur.Slaves[i], patch, s.now())

	s.publish.Lock()
	s.snap.Store(s.snap.Load().withSlave(i, merged))
	s.publish.Unlock()

	return merged, nil
}

func mergePillar(p models.Pillar, patch models.PillarPatch, now time.Time) models.Pillar {
	if patch.BID != nil {
		p.BID = *patch.BID
	}
	if patch.SID != nil {
		p.SID = *patch.SID
	}
	if patch.GID != nil {
		p.GID = *patch.GID
	}
	if patch.PMAC != nil {
		p.PMAC = *patch.PMAC
	}
	if patch.Color != nil {
		p.Color = *patch.Color
	}
	if patch.RSSI != nil {
		p.RSSI = *patch.RSSI
	}
	p.Status = models.StatusOnline
	p.LastTime = now
	p.SignalHistory = pushSignal(p.SignalHistory, p.RSSI)
	return p
}

func mergeSlave(sl models.Slave, patch models.SlavePatch, now time.Time) models.Slave {
	if patch.SMAC != nil {
		sl.SMAC = *patch.SMAC
	}
	if patch.Battery != nil {
		sl.Battery = *patch.Battery
	}
	sl.Status = models.StatusOnline
	sl.LastComm = now
	return sl
}
