package fleet

import "nara_fleet/internal/models"

// Snapshot is an immutable point-in-time view of the fleet.
// Callers must treat the slices (including SignalHistory) as read-only.
type Snapshot struct {
	Pillars []models.Pillar
	Slaves  []models.Slave

	pillarIdx map[string]int
	slaveIdx  map[string]int
}

// Pillar looks up a pillar by pid.
func (s *Snapshot) Pillar(pid string) (models.Pillar, bool) {
	i, ok := s.pillarIdx[pid]
	if !ok {
		return models.Pillar{}, false
	}
	return s.Pillars[i], true
}

// Slave looks up a slave by sid.
func (s *Snapshot) Slave(sid string) (models.Slave, bool) {
	i, ok := s.slaveIdx[sid]
	if !ok {
		return models.Slave{}, false
	}
	return s.Slaves[i], true
}

// withPillar returns a copy of s with the pillar at index i replaced.
func (s *Snapshot) withPillar(i int, p models.Pillar) *Snapshot {
	pillars := make([]models.Pillar, len(s.Pillars))
	copy(pillars, s.Pillars)
	pillars[i] = p
	return &Snapshot{Pillars: pillars, Slaves: s.Slaves, pillarIdx: s.pillarIdx, slaveIdx: s.slaveIdx}
}

// withSlave returns a copy of s with the slave at index i replaced.
func (s *Snapshot) withSlave(i int, sl models.Slave) *Snapshot {
	slaves := make([]models.Slave, len(s.Slaves))
	copy(slaves, s.Slaves)
	slaves[i] = sl
	return &Snapshot{Pillars: s.Pillars, Slaves: slaves, pillarIdx: s.pillarIdx, slaveIdx: s.slaveIdx}
}
