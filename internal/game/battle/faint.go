package battle

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/scarsofash/internal/game/creature"
)

// faint runs the faint path for the active player creature: it is scarred,
// then the lowest-index living teammate comes in. With nobody left the
// battle ends in a party wipe and the run drops its souls.
func (e *Engine) faint(c *turn, res *Result) {
	e.scar(c, res)
	team := c.run.Team
	if next, ok := team.NextLiving(); ok {
		team.Active = next
		res.Lines = append(res.Lines, fmt.Sprintf("Go, %s!", team.ActiveCreature().Name))
		res.Outcome = OutcomeFainted
		c.sess.State = PlayerTurn{}
		return
	}

	drop := c.run.WipeDrop()
	res.Outcome = OutcomeDefeat
	c.sess.State = Defeat{Drop: drop, Permadeath: c.run.Over}
	e.end(c)
}

// scar pins the fainted creature at 0 HP and gives it a random scar.
func (e *Engine) scar(c *turn, res *Result) {
	p := c.player
	p.HP = 0
	p.Guarding = false
	p.Statuses.Clear()

	s := creature.RandomScar(c.run.Policy(), e.resolver.Source())
	p.AddScar(s)
	p.ClampToStats(c.th)
	hollowed := p.Stats(c.th).Hollowed

	res.Lines = append(res.Lines,
		fmt.Sprintf("%s has fallen!", p.Name),
		fmt.Sprintf("%s gained scar: %s (%s)", p.Name, s.Name, s.Description),
	)
	if hollowed {
		res.Lines = append(res.Lines, fmt.Sprintf("%s has become Hollowed...", p.Name))
	}
	res.Scars = append(res.Scars, ScarEvent{CreatureID: p.ID, Creature: p.Name, Scar: s, Hollowed: hollowed})
	e.logger.Info("creature fainted",
		zap.String("battle", c.sess.ID),
		zap.String("creature", p.Name),
		zap.String("scar", s.ID),
		zap.Int("scars", len(p.Scars)),
		zap.Bool("hollowed", hollowed),
	)
}
