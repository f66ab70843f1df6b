// Package ai selects enemy moves: an affordable pool, scripted boss
// preferences, then a random damaging fallback.
package ai

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/scarsofash/internal/game/dice"
	"github.com/cory-johannsen/scarsofash/internal/game/species"
)

// ScriptCaller evaluates Lua preconditions.
type ScriptCaller interface {
	// CallHook calls a named Lua function in the scope's VM.
	// Returns (LNil, nil) if the function is not defined.
	CallHook(scope, hook string, args ...lua.LValue) (lua.LValue, error)
}

// Reason records why a move was chosen.
type Reason string

const (
	ReasonPreference Reason = "preference"
	ReasonRandom     Reason = "random"
	ReasonFirst      Reason = "first"
)

// Choice is the selector's decision.
type Choice struct {
	Move   species.Move
	Reason Reason
}

// Selector picks enemy moves. It holds no per-battle state.
type Selector struct {
	caller ScriptCaller
	src    dice.Source
	logger *zap.Logger
}

// NewSelector constructs a Selector.
//
// Precondition: src must not be nil. caller may be nil, in which case any
// preference with a precondition is skipped. logger may be nil.
func NewSelector(caller ScriptCaller, src dice.Source, logger *zap.Logger) *Selector {
	if src == nil {
		panic("ai.NewSelector: src must not be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Selector{caller: caller, src: src, logger: logger}
}

// Select returns the enemy's move for this turn. Bosses try their species
// preferences in order, first match wins;
// otherwise a damaging move is drawn uniformly, and failing that the first
// pool entry is used.
func (s *Selector) Select(v View) Choice {
	pool := v.Pool()

	if v.Boss && v.Species.Boss != nil {
		for _, p := range v.Species.Boss.Preferences {
			m, ok := find(pool, p.Move)
			if !ok || !s.matches(p, v) {
				continue
			}
			return s.chose(v, Choice{Move: m, Reason: ReasonPreference})
		}
	}

	var damaging []species.Move
	for _, m := range pool {
		if m.Damaging() {
			damaging = append(damaging, m)
		}
	}
	if len(damaging) > 0 {
		return s.chose(v, Choice{Move: damaging[dice.Pick(s.src, len(damaging))], Reason: ReasonRandom})
	}
	return s.chose(v, Choice{Move: pool[0], Reason: ReasonFirst})
}

// matches checks p's conditions against v. A Lua precondition that errors
// or returns anything but true fails the match.
func (s *Selector) matches(p species.Preference, v View) bool {
	if p.Phase != 0 && p.Phase != v.Phase {
		return false
	}
	hp := v.PlayerHPFraction()
	if p.PlayerHPBelow > 0 && !(hp < p.PlayerHPBelow) {
		return false
	}
	if p.PlayerHPAbove > 0 && !(hp > p.PlayerHPAbove) {
		return false
	}
	if p.Precondition == "" {
		return true
	}
	if s.caller == nil {
		return false
	}
	val, err := s.caller.CallHook(v.Species.ID, p.Precondition,
		lua.LString(v.PlayerType), lua.LNumber(hp), lua.LNumber(v.Phase))
	if err != nil {
		s.logger.Warn("ai: precondition failed",
			zap.String("species", v.Species.ID),
			zap.String("hook", p.Precondition),
			zap.Error(err),
		)
		return false
	}
	return val == lua.LTrue
}

func (s *Selector) chose(v View, c Choice) Choice {
	s.logger.Debug("ai: move selected",
		zap.String("species", v.Species.ID),
		zap.String("move", c.Move.Name),
		zap.String("reason", string(c.Reason)),
		zap.Int("phase", v.Phase),
		zap.Float64("player_hp", v.PlayerHPFraction()),
	)
	return c
}

func find(pool []species.Move, name string) (species.Move, bool) {
	for _, m := range pool {
		if m.Name == name {
			return m, true
		}
	}
	return species.Move{}, false
}
