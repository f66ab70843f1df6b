package combat

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/scarsofash/internal/game/element"
	"github.com/cory-johannsen/scarsofash/internal/game/species"
)

// UpkeepResult reports the start-of-turn changes to one creature.
type UpkeepResult struct {
	Regen        int
	StatusDamage int
	ArenaDamage  int
	Lines        []string
}

// Upkeep runs one creature's start-of-turn processing: stamina regen
// (winded recomputed), status ticks in id order, then arena damage. Each
// damage source can faint the creature; once it has, later sources are
// skipped.
func (r *Resolver) Upkeep(a Actor, arena species.Arena) UpkeepResult {
	c := a.Creature
	var res UpkeepResult

	before := c.Stamina
	c.SetStamina(c.Stamina+Regen, a.Stats.MaxStamina)
	res.Regen = c.Stamina - before

	for _, tick := range c.Statuses.Tick(r.statuses) {
		if c.Fainted() {
			break
		}
		if tick.HP > 0 {
			res.StatusDamage += c.TakeDamage(tick.HP)
		}
		if tick.Stamina > 0 {
			c.SetStamina(c.Stamina-tick.Stamina, a.Stats.MaxStamina)
		}
		res.Lines = append(res.Lines, fmt.Sprintf(tick.Def.TickMessage, c.Name, tick.Amount()))
	}

	if arena == species.ArenaScorchedEarth && a.Type != element.Fire && !c.Fainted() {
		res.ArenaDamage = c.TakeDamage(ScorchedEarthDamage)
		res.Lines = append(res.Lines, fmt.Sprintf("Scorched Earth burns %s for %d damage!", c.Name, ScorchedEarthDamage))
	}

	r.logger.Debug("upkeep",
		zap.String("creature", c.Name),
		zap.Int("regen", res.Regen),
		zap.Int("status_damage", res.StatusDamage),
		zap.Int("arena_damage", res.ArenaDamage),
		zap.Int("hp", c.HP),
	)
	return res
}
