package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func contentAtlas(t *testing.T) *Atlas {
	t.Helper()
	maps, err := LoadMapsFromDir("../../../content/maps")
	require.NoError(t, err)
	a, err := NewAtlas(maps)
	require.NoError(t, err)
	return a
}

func TestNewAtlas_Content(t *testing.T) {
	a := contentAtlas(t)
	assert.Equal(t, 3, a.MapCount())
	assert.Equal(t, Position{Map: "ashenPath", X: 1, Y: 1}, a.Start())

	keep, ok := a.Map("fallenKeep")
	require.True(t, ok)
	assert.Equal(t, "obsidianHound", keep.Boss)
	assert.Equal(t, []Point{{X: 4, Y: 9}}, keep.Find(TileBoss))
}

func TestNewAtlas_DuplicateMap(t *testing.T) {
	m := &Map{ID: "a", Name: "A", Start: true, Grid: []string{"B"}}
	_, err := NewAtlas([]*Map{m, m})
	assert.ErrorContains(t, err, "duplicate")
}

func TestNewAtlas_NoStart(t *testing.T) {
	_, err := NewAtlas([]*Map{{ID: "a", Name: "A", Grid: []string{"P"}}})
	assert.Error(t, err)
}

func TestNewAtlas_DanglingLink(t *testing.T) {
	m := &Map{ID: "a", Name: "A", Start: true, Grid: []string{"BX"},
		Links: []Link{{At: Point{X: 1}, To: "missing"}}}
	_, err := NewAtlas([]*Map{m})
	assert.ErrorContains(t, err, "unknown map")
}

func TestAtlas_TileAt(t *testing.T) {
	a := contentAtlas(t)

	_, tile, err := a.TileAt(Position{Map: "ashenPath", X: 4, Y: 1})
	require.NoError(t, err)
	assert.Equal(t, TileGrass, tile)

	_, _, err = a.TileAt(Position{Map: "ashenPath", X: 0, Y: 0})
	assert.ErrorIs(t, err, ErrBlocked)

	_, _, err = a.TileAt(Position{Map: "ashenPath", X: 40, Y: 0})
	assert.ErrorIs(t, err, ErrBlocked)

	_, _, err = a.TileAt(Position{Map: "labyrinth"})
	assert.ErrorIs(t, err, ErrUnknownMap)
}

func TestAtlas_EncounterTiles(t *testing.T) {
	tiles := contentAtlas(t).EncounterTiles()
	require.Len(t, tiles, 9)
	assert.Equal(t, Position{Map: "ashenPath", X: 4, Y: 1}, tiles[0].Position)
	for _, tile := range tiles {
		assert.True(t, tile.Active)
		assert.NotEqual(t, "fallenKeep", tile.Position.Map)
	}
}

func TestProperty_FindMatchesTileAt(t *testing.T) {
	a := contentAtlas(t)
	ids := []string{"ashenPath", "fallenKeep", "hollowDeep"}
	tiles := []Tile{TileWall, TilePath, TileGrass, TileBonfire, TileBoss, TileGate}
	rapid.Check(t, func(t *rapid.T) {
		m, _ := a.Map(rapid.SampledFrom(ids).Draw(t, "map"))
		tile := rapid.SampledFrom(tiles).Draw(t, "tile")
		for _, p := range m.Find(tile) {
			if m.TileAt(p) != tile {
				t.Fatalf("Find(%q) returned %v holding %q", tile, p, m.TileAt(p))
			}
		}
	})
}
