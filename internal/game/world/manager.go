package world

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrUnknownMap is returned for a position on a map that is not loaded.
	ErrUnknownMap = errors.New("unknown map")
	// ErrBlocked is returned for a position outside the grid or on a wall.
	ErrBlocked = errors.New("position is not walkable")
)

// Atlas indexes the loaded maps. It is immutable after construction and
// safe for concurrent use.
type Atlas struct {
	maps  map[string]*Map
	start string
}

// NewAtlas creates an Atlas from maps.
//
// Precondition: exactly one map is marked start.
// Postcondition: every link targets a loaded map, or an error is returned.
func NewAtlas(maps []*Map) (*Atlas, error) {
	a := &Atlas{maps: make(map[string]*Map, len(maps))}
	for _, m := range maps {
		if _, exists := a.maps[m.ID]; exists {
			return nil, fmt.Errorf("duplicate map ID: %q", m.ID)
		}
		a.maps[m.ID] = m
		if m.Start {
			if a.start != "" {
				return nil, fmt.Errorf("maps %q and %q are both marked start", a.start, m.ID)
			}
			a.start = m.ID
		}
	}
	if a.start == "" {
		return nil, fmt.Errorf("no start map")
	}
	for _, m := range maps {
		for _, l := range m.Links {
			target, ok := a.maps[l.To]
			if !ok {
				return nil, fmt.Errorf("map %q: link targets unknown map %q", m.ID, l.To)
			}
			if !target.TileAt(l.Arrive).Walkable() {
				return nil, fmt.Errorf("map %q: link arrives on a blocked tile of %q", m.ID, l.To)
			}
		}
	}
	return a, nil
}

// Map returns the map with the given id.
func (a *Atlas) Map(id string) (*Map, bool) {
	m, ok := a.maps[id]
	return m, ok
}

// Start returns the bonfire position on the start map.
func (a *Atlas) Start() Position {
	m := a.maps[a.start]
	p, _ := m.Bonfire()
	return At(m.ID, p)
}

// TileAt resolves pos to its tile.
func (a *Atlas) TileAt(pos Position) (*Map, Tile, error) {
	m, ok := a.maps[pos.Map]
	if !ok {
		return nil, 0, fmt.Errorf("%w: %q", ErrUnknownMap, pos.Map)
	}
	t := m.TileAt(pos.Point())
	if !t.Walkable() {
		return m, t, fmt.Errorf("%w: %s", ErrBlocked, pos)
	}
	return m, t, nil
}

// EncounterTiles returns every grass tile of every map, sorted by map id
// then row-major, all active.
func (a *Atlas) EncounterTiles() []EncounterTile {
	ids := make([]string, 0, len(a.maps))
	for id := range a.maps {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	var out []EncounterTile
	for _, id := range ids {
		for _, p := range a.maps[id].Find(TileGrass) {
			out = append(out, EncounterTile{Position: At(id, p), Active: true})
		}
	}
	return out
}

// MapCount returns the number of loaded maps.
func (a *Atlas) MapCount() int { return len(a.maps) }
