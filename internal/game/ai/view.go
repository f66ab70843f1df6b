package ai

import (
	"github.com/cory-johannsen/scarsofash/internal/game/creature"
	"github.com/cory-johannsen/scarsofash/internal/game/element"
	"github.com/cory-johannsen/scarsofash/internal/game/species"
)

// View is the snapshot of a battle the selector decides from.
//
// Invariant: Species and Enemy must not be nil.
type View struct {
	Species *species.Species
	Enemy   *creature.Creature
	Phase   int
	Boss    bool

	PlayerType  element.Type
	PlayerHP    int
	PlayerMaxHP int
}

// PlayerHPFraction returns the player's HP as a fraction of effective max;
// 0 if the max is unknown.
func (v View) PlayerHPFraction() float64 {
	if v.PlayerMaxHP <= 0 {
		return 0
	}
	return float64(v.PlayerHP) / float64(v.PlayerMaxHP)
}

// Pool returns the enemy's affordable moves for the current phase. When
// nothing is affordable the pool is the zero-cost Rest.
//
// Postcondition: never empty.
func (v View) Pool() []species.Move {
	var pool []species.Move
	for _, m := range v.Species.MovesFor(v.Phase) {
		if m.Cost <= v.Enemy.Stamina {
			pool = append(pool, m)
		}
	}
	if len(pool) == 0 {
		return []species.Move{species.RestMove}
	}
	return pool
}
