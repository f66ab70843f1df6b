package species

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrUnknownSpecies is returned when a species id is not in the catalog.
var ErrUnknownSpecies = errors.New("unknown species")

// Catalog is the process-wide, read-only set of species.
// It is safe for concurrent reads once loading has finished.
type Catalog struct {
	byID  map[string]*Species
	order []string
}

// NewCatalog builds a Catalog from already validated species.
//
// Postcondition: returns an error if two species share an id.
func NewCatalog(all ...*Species) (*Catalog, error) {
	c := &Catalog{byID: make(map[string]*Species, len(all))}
	for _, s := range all {
		if _, dup := c.byID[s.ID]; dup {
			return nil, fmt.Errorf("species %q defined twice", s.ID)
		}
		c.byID[s.ID] = s
		c.order = append(c.order, s.ID)
	}
	sort.Strings(c.order)
	return c, nil
}

// Get returns the species for id.
func (c *Catalog) Get(id string) (*Species, error) {
	s, ok := c.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSpecies, id)
	}
	return s, nil
}

// All returns every species ordered by id.
func (c *Catalog) All() []*Species {
	out := make([]*Species, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.byID[id])
	}
	return out
}

// Starters returns the species a new run may begin with, ordered by id.
func (c *Catalog) Starters() []*Species {
	var out []*Species
	for _, s := range c.All() {
		if s.Starter {
			out = append(out, s)
		}
	}
	return out
}

// Pool returns the wild species that spawn in the named encounter pool,
// ordered by id so weighted picks are reproducible.
func (c *Catalog) Pool(name string) []*Species {
	var out []*Species
	for _, s := range c.All() {
		if s.Encounter != nil && s.Encounter.Pool == name {
			out = append(out, s)
		}
	}
	return out
}

// Len returns the number of species in the catalog.
func (c *Catalog) Len() int { return len(c.order) }

// LoadFromBytes parses one or more YAML documents, each a single Species.
//
// Postcondition: every returned species passed Validate.
func LoadFromBytes(data []byte) ([]*Species, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var out []*Species
	for {
		var s Species
		err := dec.Decode(&s)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing species YAML: %w", err)
		}
		if err := s.Validate(); err != nil {
			return nil, err
		}
		out = append(out, &s)
	}
	return out, nil
}

// LoadDirectory reads every *.yaml file in dir and returns the resulting Catalog.
//
// Precondition: dir must be a readable directory.
// Postcondition: on error the partial result is discarded.
func LoadDirectory(dir string) (*Catalog, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading species dir %q: %w", dir, err)
	}
	var all []*Species
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		loaded, err := LoadFromBytes(data)
		if err != nil {
			return nil, fmt.Errorf("loading %q: %w", path, err)
		}
		all = append(all, loaded...)
	}
	return NewCatalog(all...)
}
