// Package combat implements the per-move rules of a battle: the damage
// pipeline, move resolution with effect tags, start-of-turn upkeep and the
// bind chance. It holds no battle state of its own; the battle package owns
// sessions and calls into here.
package combat

import (
	"math"

	"github.com/cory-johannsen/scarsofash/internal/game/creature"
	"github.com/cory-johannsen/scarsofash/internal/game/element"
	"github.com/cory-johannsen/scarsofash/internal/game/species"
)

const (
	guardFactor    = 0.5
	windedFactor   = 1.25
	hollowedFactor = 0.75
)

// DamageInput carries everything ComputeDamage reads. The creature pointers
// are only read, never mutated.
type DamageInput struct {
	Move         species.Move
	Attacker     *creature.Creature
	Defender     *creature.Creature
	AttackerType element.Type
	DefenderType element.Type
	// Threshold is the difficulty's hollowed threshold.
	Threshold int
	// Mult is the difficulty damage multiplier; 1.0 for player-sourced damage.
	Mult float64
}

// ComputeDamage runs the fixed damage pipeline. Every multiplication floors
// independently:
//
//	damage × effectiveness → ×0.5 if defender guarding → ×1.25 if attacker
//	winded → ×0.75 if attacker scars ≥ threshold → × difficulty → max 1
//
// Postcondition: returns 0 iff in.Move.Damage == 0; otherwise >= 1.
func ComputeDamage(in DamageInput) int {
	if in.Move.Damage <= 0 {
		return 0
	}
	threshold := in.Threshold
	if threshold < 1 {
		threshold = creature.DefaultHollowedThreshold
	}
	mult := in.Mult
	if mult <= 0 {
		mult = 1
	}

	dmg := floorMul(in.Move.Damage, element.Effectiveness(in.AttackerType, in.DefenderType))
	if in.Defender.Guarding {
		dmg = floorMul(dmg, guardFactor)
	}
	if in.Attacker.Winded {
		dmg = floorMul(dmg, windedFactor)
	}
	if len(in.Attacker.Scars) >= threshold {
		dmg = floorMul(dmg, hollowedFactor)
	}
	dmg = floorMul(dmg, mult)
	return max(1, dmg)
}

func floorMul(v int, f float64) int {
	return int(math.Floor(float64(v) * f))
}
