package combat

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/scarsofash/internal/game/creature"
	"github.com/cory-johannsen/scarsofash/internal/game/dice"
	"github.com/cory-johannsen/scarsofash/internal/game/element"
	"github.com/cory-johannsen/scarsofash/internal/game/species"
	"github.com/cory-johannsen/scarsofash/internal/game/status"
)

const (
	// Regen is the stamina every active creature recovers at upkeep.
	Regen = 4
	// PlayerRest is what Rest restores for the player: the base 8 plus the
	// regen the player would otherwise wait a turn for.
	PlayerRest = 8 + Regen
	// EnemyRest is what Rest restores for an enemy, which has already
	// regenerated this turn.
	EnemyRest = 8
	// ScorchedEarthDamage is dealt at upkeep to non-fire creatures.
	ScorchedEarthDamage = 2
)

// Actor is one side of a move: the creature plus the type and effective
// maxima it fights with right now.
type Actor struct {
	Creature *creature.Creature
	Type     element.Type
	Stats    creature.Stats
}

// NewActor computes the effective stats of c for threshold.
func NewActor(c *creature.Creature, t element.Type, threshold int) Actor {
	return Actor{Creature: c, Type: t, Stats: c.Stats(threshold)}
}

// Action is one move about to be resolved.
type Action struct {
	Move     species.Move
	Attacker Actor
	Defender Actor
	// Threshold is the hollowed threshold of the run's difficulty.
	Threshold int
	// Mult is the damage multiplier for this attacker.
	Mult float64
	// Rest is the stamina a Rest move restores.
	Rest int
}

// Outcome records what a resolved move did.
type Outcome struct {
	Move          species.Move
	Damage        int
	Effectiveness float64
	Status        string
	Recoil        int
	Lines         []string
}

// Resolver applies moves and upkeep to creatures. It is stateless apart
// from its collaborators and may be shared by every battle.
type Resolver struct {
	statuses   *status.Registry
	src        dice.Source
	logger     *zap.Logger
	rollChance bool
}

// NewResolver returns a Resolver.
//
// Precondition: statuses and src must be non-nil. logger may be nil.
// rollChance enables the effect_chance roll for status moves; when false
// statuses land on every hit.
func NewResolver(statuses *status.Registry, src dice.Source, logger *zap.Logger, rollChance bool) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{statuses: statuses, src: src, logger: logger, rollChance: rollChance}
}

// Source exposes the resolver's randomness for callers that must share the stream.
func (r *Resolver) Source() dice.Source { return r.src }

// Statuses returns the status registry.
func (r *Resolver) Statuses() *status.Registry { return r.statuses }

// Resolve executes a.Move for a.Attacker against a.Defender.
//
// The attacker's own guard is dropped first since every action ends it.
// Damaging moves hit, clear the defender's guard and log effectiveness;
// then the effect tag applies; then stamina is paid and winded recomputed.
//
// Precondition: the caller has already checked the move is affordable.
func (r *Resolver) Resolve(a Action) Outcome {
	att, def := a.Attacker.Creature, a.Defender.Creature
	m := a.Move
	out := Outcome{Move: m, Effectiveness: 1}
	att.Guarding = false

	switch m.Effect {
	case species.EffectRest:
		att.SetStamina(att.Stamina+a.Rest, a.Attacker.Stats.MaxStamina)
		att.Winded = false
		out.Lines = append(out.Lines, fmt.Sprintf("%s rests and recovers stamina.", att.Name))
		r.logResolved(a, out)
		return out
	case species.EffectGuard:
		att.SetStamina(att.Stamina-m.Cost, a.Attacker.Stats.MaxStamina)
		att.Guarding = true
		out.Lines = append(out.Lines, fmt.Sprintf("%s takes a defensive stance.", att.Name))
		out.Lines = r.windedLine(att, out.Lines)
		r.logResolved(a, out)
		return out
	}

	if m.Damaging() {
		out.Effectiveness = element.Effectiveness(a.Attacker.Type, a.Defender.Type)
		out.Damage = ComputeDamage(DamageInput{
			Move:         m,
			Attacker:     att,
			Defender:     def,
			AttackerType: a.Attacker.Type,
			DefenderType: a.Defender.Type,
			Threshold:    a.Threshold,
			Mult:         a.Mult,
		})
		def.TakeDamage(out.Damage)
		def.Guarding = false
		out.Lines = append(out.Lines, fmt.Sprintf("%s used %s! %d damage.%s",
			att.Name, m.Name, out.Damage, element.Describe(out.Effectiveness)))
	} else {
		out.Lines = append(out.Lines, fmt.Sprintf("%s used %s!", att.Name, m.Name))
	}

	switch {
	case m.Effect.Status():
		out.Status, out.Lines = r.inflict(m, def, out.Lines)
	case m.Effect == species.EffectDrain:
		if m.DrainHP > 0 {
			before := att.HP
			att.Heal(m.DrainHP, a.Attacker.Stats.MaxHP)
			out.Lines = append(out.Lines, fmt.Sprintf("%s drains %d HP!", att.Name, att.HP-before))
		}
		if m.DrainStamina > 0 {
			before := att.Stamina
			att.SetStamina(att.Stamina+m.DrainStamina, a.Attacker.Stats.MaxStamina)
			out.Lines = append(out.Lines, fmt.Sprintf("%s drains %d stamina!", att.Name, att.Stamina-before))
		}
	case m.Effect == species.EffectRecoil:
		out.Recoil = att.TakeDamage(m.RecoilDamage)
		out.Lines = append(out.Lines, fmt.Sprintf("%s takes %d recoil!", att.Name, m.RecoilDamage))
	case m.Effect == species.EffectPurify:
		before := att.HP
		att.Heal(m.HealAmount, a.Attacker.Stats.MaxHP)
		out.Lines = append(out.Lines, fmt.Sprintf("%s is purified and recovers %d HP.", att.Name, att.HP-before))
	}

	att.SetStamina(att.Stamina-m.Cost, a.Attacker.Stats.MaxStamina)
	out.Lines = r.windedLine(att, out.Lines)
	r.logResolved(a, out)
	return out
}

// inflict applies the status named by m's effect to def. A fainted or
// already-afflicted defender is left alone.
func (r *Resolver) inflict(m species.Move, def *creature.Creature, lines []string) (string, []string) {
	if def.Fainted() {
		return "", lines
	}
	sd, ok := r.statuses.Get(string(m.Effect))
	if !ok {
		r.logger.Warn("move references unregistered status", zap.String("move", m.Name), zap.String("status", string(m.Effect)))
		return "", lines
	}
	if r.rollChance && m.EffectChance > 0 && !dice.Percent(r.src, m.EffectChance) {
		return "", lines
	}
	if !def.Statuses.Apply(sd) {
		return "", lines
	}
	return sd.ID, append(lines, fmt.Sprintf(sd.ApplyMessage, def.Name))
}

func (r *Resolver) windedLine(c *creature.Creature, lines []string) []string {
	if c.Winded {
		return append(lines, fmt.Sprintf("%s is winded!", c.Name))
	}
	return lines
}

func (r *Resolver) logResolved(a Action, out Outcome) {
	r.logger.Debug("move resolved",
		zap.String("actor", a.Attacker.Creature.Name),
		zap.String("move", out.Move.Name),
		zap.Int("damage", out.Damage),
		zap.Float64("effectiveness", out.Effectiveness),
		zap.String("status", out.Status),
		zap.Int("recoil", out.Recoil),
	)
}
