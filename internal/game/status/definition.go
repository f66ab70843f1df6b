// Package status holds timed status effects (burn, poison, chill): their
// YAML definitions and the per-creature set of active effects.
package status

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Well-known status ids referenced by move effect tags.
const (
	Burn   = "burn"
	Poison = "poison"
	Chill  = "chill"
)

// Def is the static definition of a status effect, loaded from YAML.
type Def struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	// Duration is the number of upkeep ticks the status lasts.
	Duration     int `yaml:"duration"`
	HPDamage     int `yaml:"hp_damage"`
	StaminaDrain int `yaml:"stamina_drain"`
	// ApplyMessage is formatted with the afflicted creature's name.
	ApplyMessage string `yaml:"apply_message"`
	// TickMessage is formatted with the creature's name and the amount lost:
	// HP damage when the status deals any, otherwise the stamina drained.
	TickMessage string `yaml:"tick_message"`
}

// Validate checks the definition invariants.
func (d *Def) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("status: id must not be empty")
	}
	if d.Duration < 1 {
		return fmt.Errorf("status %q: duration must be >= 1", d.ID)
	}
	if d.HPDamage < 0 || d.StaminaDrain < 0 {
		return fmt.Errorf("status %q: hp_damage and stamina_drain must be >= 0", d.ID)
	}
	if d.ApplyMessage == "" || d.TickMessage == "" {
		return fmt.Errorf("status %q: apply_message and tick_message are required", d.ID)
	}
	return nil
}

// Registry holds all known Defs keyed by ID.
type Registry struct {
	defs map[string]*Def
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]*Def)}
}

// Register adds def, overwriting any existing entry with the same ID.
// Precondition: def must not be nil and def.ID must not be empty.
func (r *Registry) Register(def *Def) {
	r.defs[def.ID] = def
}

// Get returns the Def for id, or (nil, false) if not found.
func (r *Registry) Get(id string) (*Def, bool) {
	d, ok := r.defs[id]
	return d, ok
}

// All returns every registered Def ordered by id.
func (r *Registry) All() []*Def {
	out := make([]*Def, 0, len(r.defs))
	for _, d := range r.defs {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// LoadDirectory reads every *.yaml file in dir, parses each as a Def,
// and returns a populated Registry.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns a non-nil Registry, or an error if any file fails to parse or validate.
func LoadDirectory(dir string) (*Registry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading status dir %q: %w", dir, err)
	}
	reg := NewRegistry()
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		var def Def
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&def); err != nil {
			return nil, fmt.Errorf("parsing %q: %w", path, err)
		}
		if err := def.Validate(); err != nil {
			return nil, fmt.Errorf("loading %q: %w", path, err)
		}
		reg.Register(&def)
	}
	return reg, nil
}
