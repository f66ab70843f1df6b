// Package creature models the mutable combat state of a single creature,
// its permanent scars and the player's roster.
package creature

import (
	"github.com/google/uuid"

	"github.com/cory-johannsen/scarsofash/internal/game/species"
	"github.com/cory-johannsen/scarsofash/internal/game/status"
)

// WindedBelow is the stamina level under which a creature is winded.
const WindedBelow = 5

// Creature is one combat creature. Roster creatures persist between battles;
// enemies are built fresh for each encounter.
//
// Invariant: 0 <= HP <= effective max HP and 0 <= Stamina <= effective max
// stamina, where the maxima come from Stats.
type Creature struct {
	ID         string           `json:"id"`
	SpeciesID  string           `json:"species_id"`
	Name       string           `json:"name"`
	Base       Base             `json:"base"`
	HP         int              `json:"hp"`
	Stamina    int              `json:"stamina"`
	Scars      []Scar           `json:"scars,omitempty"`
	Guarding   bool             `json:"guarding,omitempty"`
	Winded     bool             `json:"winded,omitempty"`
	Statuses   status.ActiveSet `json:"statuses"`
	PreScarred bool             `json:"pre_scarred,omitempty"`
}

// New returns a fresh creature of species s at full HP and stamina.
//
// Precondition: s must be non-nil and valid.
func New(s *species.Species) *Creature {
	return &Creature{
		ID:        uuid.NewString(),
		SpeciesID: s.ID,
		Name:      s.Name,
		Base:      Base{MaxHP: s.MaxHP, MaxStamina: s.MaxStamina},
		HP:        s.MaxHP,
		Stamina:   s.MaxStamina,
	}
}

// Stats returns the effective maxima for the given hollowed threshold.
func (c *Creature) Stats(threshold int) Stats {
	return ApplyScars(c.Scars, c.Base, threshold)
}

// Fainted reports whether the creature has no HP left.
func (c *Creature) Fainted() bool { return c.HP <= 0 }

// BurnTurns returns the burn ticks remaining.
func (c *Creature) BurnTurns() int { return c.Statuses.TurnsLeft(status.Burn) }

// SetStamina clamps v into [0, maxStamina] and recomputes Winded.
func (c *Creature) SetStamina(v, maxStamina int) {
	c.Stamina = min(max(0, v), maxStamina)
	c.Winded = c.Stamina < WindedBelow
}

// TakeDamage removes n HP, flooring at zero, and returns the HP actually lost.
func (c *Creature) TakeDamage(n int) int {
	if n <= 0 {
		return 0
	}
	lost := min(n, c.HP)
	c.HP -= lost
	return lost
}

// Heal restores up to n HP, capped at maxHP.
func (c *Creature) Heal(n, maxHP int) {
	if n <= 0 {
		return
	}
	c.HP = min(c.HP+n, maxHP)
}

// AddScar appends s to the scar record.
func (c *Creature) AddScar(s Scar) {
	c.Scars = append(c.Scars, s)
}

// GoesFirst reports whether m keeps its priority for this creature:
// a flinching creature loses the advantage.
func (c *Creature) GoesFirst(m species.Move, threshold int) bool {
	return m.Priority && !c.Stats(threshold).Flinching
}

// ClampToStats pulls HP and stamina back inside the effective maxima, which
// can shrink when a scar is gained.
func (c *Creature) ClampToStats(threshold int) {
	st := c.Stats(threshold)
	c.HP = min(c.HP, st.MaxHP)
	c.Stamina = min(c.Stamina, st.MaxStamina)
}
