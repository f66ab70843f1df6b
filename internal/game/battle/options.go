package battle

import (
	"github.com/cory-johannsen/scarsofash/internal/game/combat"
)

// MoveOption describes one move of the active creature.
type MoveOption struct {
	Name       string `json:"name"`
	Cost       int    `json:"cost"`
	Damage     int    `json:"damage,omitempty"`
	Affordable bool   `json:"affordable"`
	// Priority is false for a priority move used by a flinching creature.
	Priority bool `json:"priority,omitempty"`
}

// Options lists what the player may do on the current turn.
type Options struct {
	Moves  []MoveOption `json:"moves,omitempty"`
	Switch bool         `json:"switch"`
	Bind   bool         `json:"bind"`
	// BindChance is the capture percentage a bind would roll against.
	BindChance int  `json:"bind_chance,omitempty"`
	Flee       bool `json:"flee"`
}

// Options reports the player's choices. Outside a player turn, including
// after the battle ended, it returns the zero Options.
func (e *Engine) Options(sess *Session) (Options, error) {
	if sess.Over() {
		return Options{}, nil
	}
	c, err := e.load(sess)
	if err != nil {
		return Options{}, err
	}
	if c.requirePlayerTurn() != nil {
		return Options{}, nil
	}

	opts := Options{
		Moves:  make([]MoveOption, 0, len(c.pSp.Moves)),
		Switch: c.run.Team.CanSwitch(),
		Flee:   !sess.Boss,
	}
	for _, m := range c.pSp.Moves {
		opts.Moves = append(opts.Moves, MoveOption{
			Name:       m.Name,
			Cost:       m.Cost,
			Damage:     m.Damage,
			Affordable: m.Cost <= c.player.Stamina,
			Priority:   c.player.GoesFirst(m, c.th),
		})
	}
	if !sess.Boss && !c.run.Team.Full() && c.run.Souls.Carried >= combat.BindCost {
		opts.Bind = true
		opts.BindChance = combat.CaptureChance(sess.Enemy.HP, c.enemyActor().Stats.MaxHP, c.run.Policy().CaptureBonus)
	}
	return opts, nil
}
