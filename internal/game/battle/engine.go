// Package battle runs the turn-based battle state machine: player turns,
// enemy turns with upkeep, boss phase transitions, faints, and the terminal
// outcomes that flow back into the run.
//
// Every operation either returns an error and leaves the session and run
// untouched, or applies its full effect.
package battle

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/scarsofash/internal/game/ai"
	"github.com/cory-johannsen/scarsofash/internal/game/combat"
	"github.com/cory-johannsen/scarsofash/internal/game/creature"
	"github.com/cory-johannsen/scarsofash/internal/game/species"
	"github.com/cory-johannsen/scarsofash/internal/game/world"
)

var (
	ErrBattleOver          = errors.New("battle is over")
	ErrBattleInProgress    = errors.New("a battle is already in progress")
	ErrNotPlayerTurn       = errors.New("not the player's turn")
	ErrNotEnemyTurn        = errors.New("not the enemy's turn")
	ErrUnknownMove         = errors.New("unknown move")
	ErrInsufficientStamina = errors.New("not enough stamina")
	ErrInvalidSwitch       = errors.New("invalid switch")
	ErrBossBattle          = errors.New("not allowed against a boss")
	ErrNotBoss             = errors.New("species is not a boss")
	ErrNotEnoughSouls      = errors.New("not enough carried souls")
	ErrNoLivingCreature    = errors.New("no living creature to fight with")
	ErrNoRun               = errors.New("session has no run attached")
)

// Outcome tags what an operation did to the battle.
type Outcome string

const (
	OutcomeContinue     Outcome = "continue"
	OutcomePhaseChanged Outcome = "phase_changed"
	OutcomeFainted      Outcome = "fainted"
	OutcomeVictory      Outcome = "victory"
	OutcomeCleared      Outcome = "cleared"
	OutcomeDefeat       Outcome = "defeat"
	OutcomeCaptured     Outcome = "captured"
	OutcomeFled         Outcome = "fled"
)

// ScarEvent records a scar gained during an operation.
type ScarEvent struct {
	CreatureID string        `json:"creature_id"`
	Creature   string        `json:"creature"`
	Scar       creature.Scar `json:"scar"`
	Hollowed   bool          `json:"hollowed,omitempty"`
}

// Result reports one operation.
type Result struct {
	Outcome Outcome `json:"outcome"`
	State   State   `json:"-"`
	// Lines are the log lines appended by this operation.
	Lines []string    `json:"lines"`
	Scars []ScarEvent `json:"scars,omitempty"`
}

type resultAlias Result

// MarshalJSON encodes the result with its state tagged by kind.
func (r Result) MarshalJSON() ([]byte, error) {
	aux := struct {
		resultAlias
		State json.RawMessage `json:"state,omitempty"`
	}{resultAlias: resultAlias(r)}
	if r.State != nil {
		st, err := marshalState(r.State)
		if err != nil {
			return nil, err
		}
		aux.State = st
	}
	return json.Marshal(aux)
}

// StartOptions configure Start.
type StartOptions struct {
	Boss bool
	// Encounter is the grass tile a wild battle started on.
	Encounter *world.Position
	// Enemy overrides the generated wild enemy.
	Enemy *creature.Creature
}

// Engine drives battles. It holds only shared, immutable collaborators and
// is safe to share between sessions.
type Engine struct {
	catalog  *species.Catalog
	resolver *combat.Resolver
	selector *ai.Selector
	wild     *world.WildFactory
	logger   *zap.Logger
}

// NewEngine builds an Engine.
//
// Precondition: catalog, resolver, selector and wild must be non-nil.
func NewEngine(catalog *species.Catalog, resolver *combat.Resolver, selector *ai.Selector, wild *world.WildFactory, logger *zap.Logger) *Engine {
	if catalog == nil || resolver == nil || selector == nil || wild == nil {
		panic("battle.NewEngine: collaborators must be non-nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{catalog: catalog, resolver: resolver, selector: selector, wild: wild, logger: logger}
}

// Start opens a battle for run against speciesID.
//
// Bosses start at their difficulty-scaled max HP and open with their intro
// lines; wild enemies are rolled by the wild factory unless opts.Enemy is set.
func (e *Engine) Start(run *world.Run, speciesID string, opts StartOptions) (*Session, error) {
	switch {
	case run.Over:
		return nil, world.ErrRunOver
	case run.InBattle():
		return nil, ErrBattleInProgress
	case run.Team.Living() == 0:
		return nil, ErrNoLivingCreature
	}
	sp, err := e.catalog.Get(speciesID)
	if err != nil {
		return nil, err
	}
	if opts.Boss && !sp.IsBoss() {
		return nil, fmt.Errorf("%w: %q", ErrNotBoss, speciesID)
	}
	// A boss species always fights as a boss.
	opts.Boss = sp.IsBoss()

	enemy := opts.Enemy
	var lines []string
	if opts.Boss {
		enemy = creature.New(sp)
		enemy.Base.MaxHP = run.Policy().BossMaxHP(sp.MaxHP)
		enemy.HP = enemy.Base.MaxHP
		lines = append(lines, sp.Boss.Intro...)
	} else {
		if enemy == nil {
			if enemy, err = e.wild.Build(sp); err != nil {
				return nil, err
			}
		}
		lines = append(lines, fmt.Sprintf("A %s appeared!", enemy.Name))
	}

	if run.Team.ActiveCreature().Fainted() {
		i, _ := run.Team.FirstLiving()
		run.Team.Active = i
	}

	sess := &Session{
		ID:           uuid.NewString(),
		RunID:        run.ID,
		Enemy:        enemy,
		EnemySpecies: sp.ID,
		Boss:         opts.Boss,
		Phase:        1,
		State:        PlayerTurn{},
		Log:          lines,
		Encounter:    opts.Encounter,
		StartedAt:    time.Now().UTC(),
		Run:          run,
	}
	run.BattleID = sess.ID
	e.logger.Info("battle started",
		zap.String("battle", sess.ID),
		zap.String("run", run.ID),
		zap.String("enemy", sp.ID),
		zap.Bool("boss", opts.Boss),
	)
	return sess, nil
}

// turn bundles what one operation needs about both sides.
type turn struct {
	sess   *Session
	run    *world.Run
	enemy  *species.Species
	player *creature.Creature
	pSp    *species.Species
	th     int
}

func (e *Engine) load(sess *Session) (*turn, error) {
	if sess.Run == nil {
		return nil, ErrNoRun
	}
	if sess.Over() {
		return nil, ErrBattleOver
	}
	enemy, err := e.catalog.Get(sess.EnemySpecies)
	if err != nil {
		return nil, err
	}
	player := sess.Run.Team.ActiveCreature()
	if player == nil {
		return nil, ErrNoLivingCreature
	}
	pSp, err := e.catalog.Get(player.SpeciesID)
	if err != nil {
		return nil, err
	}
	return &turn{sess: sess, run: sess.Run, enemy: enemy, player: player, pSp: pSp, th: sess.Run.Threshold()}, nil
}

func (c *turn) playerActor() combat.Actor {
	return combat.NewActor(c.player, c.pSp.Type, c.th)
}

func (c *turn) enemyActor() combat.Actor {
	// Enemies are never hollowed by the run's difficulty; their pre-scars
	// use the default threshold.
	return combat.NewActor(c.sess.Enemy, c.enemy.TypeFor(c.sess.Phase), creature.DefaultHollowedThreshold)
}

func (c *turn) requirePlayerTurn() error {
	if _, ok := c.sess.State.(PlayerTurn); !ok {
		return ErrNotPlayerTurn
	}
	return nil
}

// SubmitMove resolves the active creature's move by name.
//
// Rejected without change when it is not the player's turn, the move is not
// in the creature's list, or the creature cannot pay for it.
func (e *Engine) SubmitMove(sess *Session, moveName string) (Result, error) {
	c, err := e.load(sess)
	if err != nil {
		return Result{}, err
	}
	if err := c.requirePlayerTurn(); err != nil {
		return Result{}, err
	}
	m, ok := c.pSp.Move(moveName)
	if !ok {
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownMove, moveName)
	}
	if m.Cost > c.player.Stamina {
		return Result{}, fmt.Errorf("%w: %s costs %d, have %d", ErrInsufficientStamina, m.Name, m.Cost, c.player.Stamina)
	}

	sess.Turn++
	out := e.resolver.Resolve(combat.Action{
		Move:      m,
		Attacker:  c.playerActor(),
		Defender:  c.enemyActor(),
		Threshold: c.th,
		Mult:      1,
		Rest:      combat.PlayerRest,
	})
	res := Result{Outcome: OutcomeContinue, Lines: out.Lines}

	switch {
	case m.Damaging() && e.phaseShift(c, &res):
		sess.State = EnemyTurn{}
	case sess.Enemy.Fainted():
		e.enemyDefeated(c, &res)
	case c.player.Fainted():
		// Own recoil: the faint path may switch in a teammate, but the move
		// still spent the player's turn.
		e.faint(c, &res)
		if _, ok := sess.State.(PlayerTurn); ok {
			sess.State = EnemyTurn{}
		}
	default:
		sess.State = EnemyTurn{}
	}
	return e.finish(c, res), nil
}

// phaseShift moves a phase-one boss to phase two when the hit left it at or
// under its threshold but still standing.
func (e *Engine) phaseShift(c *turn, res *Result) bool {
	sess := c.sess
	if !sess.Boss || sess.Phase != 1 || !c.run.Policy().BossPhaseTransition {
		return false
	}
	boss := c.enemy.Boss
	if boss == nil {
		return false
	}
	hp, maxHP := sess.Enemy.HP, sess.Enemy.Base.MaxHP
	if hp <= 0 || float64(hp) > float64(maxHP)*boss.PhaseThreshold {
		return false
	}
	sess.Enemy.Heal(boss.PhaseHeal, maxHP)
	sess.Phase = 2
	sess.Arena = boss.Arena
	res.Lines = append(res.Lines, boss.Phase2Lines...)
	res.Outcome = OutcomePhaseChanged
	e.logger.Info("boss phase changed",
		zap.String("battle", sess.ID),
		zap.String("boss", c.enemy.ID),
		zap.Int("hp", sess.Enemy.HP),
	)
	return true
}

// AdvanceEnemyTurn runs upkeep for both sides and the enemy's move.
func (e *Engine) AdvanceEnemyTurn(sess *Session) (Result, error) {
	c, err := e.load(sess)
	if err != nil {
		return Result{}, err
	}
	if _, ok := sess.State.(EnemyTurn); !ok {
		return Result{}, ErrNotEnemyTurn
	}
	res := Result{Outcome: OutcomeContinue}

	up := e.resolver.Upkeep(c.playerActor(), sess.Arena)
	res.Lines = append(res.Lines, up.Lines...)
	if c.player.Fainted() {
		e.faint(c, &res)
		return e.finish(c, res), nil
	}

	ea := c.enemyActor()
	up = e.resolver.Upkeep(ea, sess.Arena)
	res.Lines = append(res.Lines, up.Lines...)
	sess.Enemy.Winded = false
	if sess.Enemy.Fainted() {
		e.enemyDefeated(c, &res)
		return e.finish(c, res), nil
	}

	pa := c.playerActor()
	choice := e.selector.Select(ai.View{
		Species:     c.enemy,
		Enemy:       sess.Enemy,
		Phase:       sess.Phase,
		Boss:        sess.Boss,
		PlayerType:  pa.Type,
		PlayerHP:    c.player.HP,
		PlayerMaxHP: pa.Stats.MaxHP,
	})
	out := e.resolver.Resolve(combat.Action{
		Move:      choice.Move,
		Attacker:  ea,
		Defender:  pa,
		Threshold: creature.DefaultHollowedThreshold,
		Mult:      c.run.Policy().DamageMult(sess.Boss),
		Rest:      combat.EnemyRest,
	})
	res.Lines = append(res.Lines, out.Lines...)

	switch {
	case sess.Enemy.Fainted():
		e.enemyDefeated(c, &res)
	case c.player.Fainted():
		e.faint(c, &res)
	default:
		sess.State = PlayerTurn{}
	}
	return e.finish(c, res), nil
}

// Switch swaps in a living, non-active teammate. It does not use the turn.
func (e *Engine) Switch(sess *Session, index int) (Result, error) {
	c, err := e.load(sess)
	if err != nil {
		return Result{}, err
	}
	if err := c.requirePlayerTurn(); err != nil {
		return Result{}, err
	}
	if err := c.run.Team.SwitchTo(index); err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrInvalidSwitch, err)
	}
	next := c.run.Team.ActiveCreature()
	res := Result{Outcome: OutcomeContinue, Lines: []string{fmt.Sprintf("Go, %s!", next.Name)}}
	return e.finish(c, res), nil
}

// Bind spends BindCost carried souls on one capture roll against a wild
// enemy. A bound enemy joins the team and ends the battle; a failed bind
// passes the turn.
func (e *Engine) Bind(sess *Session) (Result, error) {
	c, err := e.load(sess)
	if err != nil {
		return Result{}, err
	}
	if err := c.requirePlayerTurn(); err != nil {
		return Result{}, err
	}
	switch {
	case sess.Boss:
		return Result{}, ErrBossBattle
	case c.run.Team.Full():
		return Result{}, creature.ErrTeamFull
	case c.run.Souls.Carried < combat.BindCost:
		return Result{}, fmt.Errorf("%w: bind costs %d", ErrNotEnoughSouls, combat.BindCost)
	}

	c.run.Spend(combat.BindCost)
	sess.Turn++
	enemy := sess.Enemy
	chance := combat.CaptureChance(enemy.HP, c.enemyActor().Stats.MaxHP, c.run.Policy().CaptureBonus)
	res := Result{Lines: []string{fmt.Sprintf("You offer %d souls to bind %s... (%d%%)", combat.BindCost, enemy.Name, chance)}}

	if !combat.RollCapture(chance, e.resolver.Source()) {
		res.Outcome = OutcomeContinue
		res.Lines = append(res.Lines, fmt.Sprintf("%s broke free!", enemy.Name))
		sess.State = EnemyTurn{}
		return e.finish(c, res), nil
	}

	enemy.Guarding = false
	enemy.Statuses.Clear()
	// Team.Full was checked above.
	_ = c.run.Team.Add(enemy)
	// On the team its scars count against the run's hollowed threshold.
	enemy.ClampToStats(c.th)
	enemy.SetStamina(enemy.Stamina, enemy.Stats(c.th).MaxStamina)
	if sess.Encounter != nil {
		c.run.DeactivateTile(*sess.Encounter)
	}
	res.Outcome = OutcomeCaptured
	res.Lines = append(res.Lines, fmt.Sprintf("%s was bound to your team!", enemy.Name))
	sess.State = Captured{Creature: enemy}
	e.end(c)
	return e.finish(c, res), nil
}

// Flee leaves a wild battle. The encounter tile stays active.
func (e *Engine) Flee(sess *Session) (Result, error) {
	c, err := e.load(sess)
	if err != nil {
		return Result{}, err
	}
	if err := c.requirePlayerTurn(); err != nil {
		return Result{}, err
	}
	if sess.Boss {
		return Result{}, ErrBossBattle
	}
	res := Result{Outcome: OutcomeFled, Lines: []string{"Got away safely."}}
	sess.State = Fled{}
	e.end(c)
	return e.finish(c, res), nil
}

// enemyDefeated awards souls and ends the battle as a boss Victory or a
// wild Cleared, which also retires the encounter tile.
func (e *Engine) enemyDefeated(c *turn, res *Result) {
	sess, run := c.sess, c.run
	souls := c.enemy.SoulReward()
	run.Earn(souls)
	res.Lines = append(res.Lines, fmt.Sprintf("%s defeated! Gained %d souls.", c.enemy.Name, souls))

	if sess.Boss {
		run.MarkBossDefeated(c.enemy.ID)
		if c.enemy.Boss != nil {
			res.Lines = append(res.Lines, c.enemy.Boss.VictoryLines...)
		}
		res.Outcome = OutcomeVictory
		sess.State = Victory{Souls: souls, Survivors: run.Team.Living()}
	} else {
		if sess.Encounter != nil {
			run.DeactivateTile(*sess.Encounter)
		}
		res.Outcome = OutcomeCleared
		sess.State = Cleared{Souls: souls, Tile: sess.Encounter}
	}
	if c.player.Fainted() {
		// A recoil faint on the winning blow still scars.
		e.scar(c, res)
	}
	if sess.Boss && run.Team.TotalScars() == 0 {
		if t, ok := run.Award(world.TitleUnscarred); ok {
			res.Lines = append(res.Lines, fmt.Sprintf("Title earned: %s. %s.", t.Name, t.Description))
			sess.State = Victory{Souls: souls, Survivors: run.Team.Living(), Titles: []string{t.ID}}
		}
	}
	e.end(c)
}

// end detaches a finished battle from the run and drops combat-only flags.
func (e *Engine) end(c *turn) {
	c.run.BattleID = ""
	for _, m := range c.run.Team.Members {
		m.Guarding = false
	}
	e.logger.Info("battle ended",
		zap.String("battle", c.sess.ID),
		zap.String("run", c.run.ID),
		zap.String("state", string(c.sess.State.Kind())),
		zap.Int("turns", c.sess.Turn),
	)
}

func (e *Engine) finish(c *turn, res Result) Result {
	c.sess.Log = append(c.sess.Log, res.Lines...)
	res.State = c.sess.State
	return res
}
