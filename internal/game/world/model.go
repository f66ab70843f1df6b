// Package world is the run state at the exploration boundary: positions on
// tile maps, encounter tiles, souls and their drops, bonfires and respawn.
// Movement and rendering belong to the client; this package only answers
// what happens when a run stands on a tile.
package world

import (
	"fmt"
	"strings"
)

// Tile is one cell of a map grid.
type Tile byte

// Tile codes used in map grids.
const (
	TileWall    Tile = 'W'
	TilePath    Tile = 'P'
	TileGrass   Tile = 'G'
	TileBonfire Tile = 'B'
	TileBoss    Tile = 'K'
	TileGate    Tile = 'X'
	TileEntry   Tile = 'E'
	TileTorch   Tile = 'T'
)

var knownTiles = map[Tile]bool{
	TileWall: true, TilePath: true, TileGrass: true, TileBonfire: true,
	TileBoss: true, TileGate: true, TileEntry: true, TileTorch: true,
}

// Walkable reports whether a run may stand on t.
func (t Tile) Walkable() bool {
	return t != TileWall && t != TileTorch && t != 0
}

// Point is a grid coordinate within one map.
type Point struct {
	X int `yaml:"x" json:"x"`
	Y int `yaml:"y" json:"y"`
}

// Position is a point on a named map.
type Position struct {
	Map string `json:"map"`
	X   int    `json:"x"`
	Y   int    `json:"y"`
}

// At returns the Position of p on map id.
func At(id string, p Point) Position {
	return Position{Map: id, X: p.X, Y: p.Y}
}

// Point drops the map id.
func (p Position) Point() Point { return Point{X: p.X, Y: p.Y} }

func (p Position) String() string {
	return fmt.Sprintf("%s(%d,%d)", p.Map, p.X, p.Y)
}

// Link joins a gate tile to an arrival point on another map.
type Link struct {
	At     Point  `yaml:"at"`
	To     string `yaml:"to"`
	Arrive Point  `yaml:"arrive"`
}

// Lore is flavor text read on a tile.
type Lore struct {
	At    Point    `yaml:"at" json:"-"`
	Name  string   `yaml:"name" json:"name"`
	Lines []string `yaml:"lines" json:"lines"`
}

// Map is one explorable area.
type Map struct {
	ID   string
	Name string
	// Pool names the wild encounter pool for this map's grass tiles.
	Pool string
	// Boss is the species id fought on the map's boss tile.
	Boss  string
	Start bool
	Grid  []string
	Links []Link
	Lore  []Lore
}

// TileAt returns the tile at p, or 0 outside the grid.
func (m *Map) TileAt(p Point) Tile {
	if p.Y < 0 || p.Y >= len(m.Grid) || p.X < 0 || p.X >= len(m.Grid[p.Y]) {
		return 0
	}
	return Tile(m.Grid[p.Y][p.X])
}

// Find returns every point holding t, row-major.
func (m *Map) Find(t Tile) []Point {
	var out []Point
	for y, row := range m.Grid {
		for x := 0; x < len(row); x++ {
			if Tile(row[x]) == t {
				out = append(out, Point{X: x, Y: y})
			}
		}
	}
	return out
}

// Bonfire returns the map's bonfire tile.
func (m *Map) Bonfire() (Point, bool) {
	pts := m.Find(TileBonfire)
	if len(pts) == 0 {
		return Point{}, false
	}
	return pts[0], true
}

// LinkAt returns the link leaving from p.
func (m *Map) LinkAt(p Point) (Link, bool) {
	for _, l := range m.Links {
		if l.At == p {
			return l, true
		}
	}
	return Link{}, false
}

// LoreAt returns the lore placed on p.
func (m *Map) LoreAt(p Point) (Lore, bool) {
	for _, l := range m.Lore {
		if l.At == p {
			return l, true
		}
	}
	return Lore{}, false
}

// Validate checks map invariants.
//
// Postcondition: Returns nil if valid, or an error describing the first violation.
func (m *Map) Validate() error {
	if m.ID == "" {
		return fmt.Errorf("map ID must not be empty")
	}
	if m.Name == "" {
		return fmt.Errorf("map %q: name must not be empty", m.ID)
	}
	if len(m.Grid) == 0 {
		return fmt.Errorf("map %q: grid must not be empty", m.ID)
	}
	width := len(m.Grid[0])
	for y, row := range m.Grid {
		if len(row) != width {
			return fmt.Errorf("map %q: row %d has width %d, want %d", m.ID, y, len(row), width)
		}
		for x := 0; x < len(row); x++ {
			if !knownTiles[Tile(row[x])] {
				return fmt.Errorf("map %q: unknown tile %q at (%d,%d)", m.ID, row[x], x, y)
			}
		}
	}
	if n := len(m.Find(TileBonfire)); n > 1 {
		return fmt.Errorf("map %q: %d bonfires, want at most 1", m.ID, n)
	}
	if len(m.Find(TileGrass)) > 0 && m.Pool == "" {
		return fmt.Errorf("map %q: grass tiles need an encounter pool", m.ID)
	}
	if len(m.Find(TileBoss)) > 0 && m.Boss == "" {
		return fmt.Errorf("map %q: boss tile needs a boss species", m.ID)
	}
	if m.Start {
		if _, ok := m.Bonfire(); !ok {
			return fmt.Errorf("map %q: start map needs a bonfire", m.ID)
		}
	}
	for _, l := range m.Links {
		if t := m.TileAt(l.At); t != TileGate && t != TileEntry {
			return fmt.Errorf("map %q: link at (%d,%d) is not on a gate tile", m.ID, l.At.X, l.At.Y)
		}
		if strings.TrimSpace(l.To) == "" {
			return fmt.Errorf("map %q: link at (%d,%d) has empty target", m.ID, l.At.X, l.At.Y)
		}
	}
	seen := make(map[Point]bool, len(m.Lore))
	for _, l := range m.Lore {
		if !m.TileAt(l.At).Walkable() {
			return fmt.Errorf("map %q: lore %q at (%d,%d) is not on a walkable tile", m.ID, l.Name, l.At.X, l.At.Y)
		}
		if seen[l.At] {
			return fmt.Errorf("map %q: two lore entries at (%d,%d)", m.ID, l.At.X, l.At.Y)
		}
		seen[l.At] = true
	}
	return nil
}
