package repository

import (
	"fmt"
	"os"

	"nara_fleet/internal/models"

	"gopkg.in/yaml.v3"
)

// RosterFile reads the provisioned fleet from a YAML document.
type RosterFile struct {
	path string
}

func NewRosterFile(path string) *RosterFile { return &RosterFile{path: path} }

// Load parses the roster. Unknown keys are rejected so typos surface at startup.
func (r *RosterFile) Load() (models.Roster, error) {
	f, err := os.Open(r.path)
	if err != nil {
		return models.Roster{}, fmt.Errorf("open roster %q: %w", r.path, err)
	}
	defer f.Close()

	var roster models.Roster
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&roster); err != nil {
		return models.Roster{}, fmt.Errorf("decode roster %q: %w", r.path, err)
	}
	return roster, nil
}
