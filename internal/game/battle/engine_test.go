package battle_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/scarsofash/internal/game/ai"
	"github.com/cory-johannsen/scarsofash/internal/game/battle"
	"github.com/cory-johannsen/scarsofash/internal/game/combat"
	"github.com/cory-johannsen/scarsofash/internal/game/creature"
	"github.com/cory-johannsen/scarsofash/internal/game/dice"
	"github.com/cory-johannsen/scarsofash/internal/game/species"
	"github.com/cory-johannsen/scarsofash/internal/game/status"
	"github.com/cory-johannsen/scarsofash/internal/game/world"
)

// seqSrc replays vals in order, repeating the last one.
type seqSrc struct {
	vals []int
	i    int
}

func (s *seqSrc) Intn(n int) int {
	v := s.vals[min(s.i, len(s.vals)-1)]
	s.i++
	return v % n
}

var grass = world.Position{Map: "ashenPath", X: 4, Y: 1}

type harness struct {
	engine   *battle.Engine
	catalog  *species.Catalog
	statuses *status.Registry
}

func newHarness(t testing.TB, src dice.Source) *harness {
	t.Helper()
	cat, err := species.LoadDirectory("../../../content/species")
	require.NoError(t, err)
	reg, err := status.LoadDirectory("../../../content/statuses")
	require.NoError(t, err)
	h := &harness{catalog: cat, statuses: reg}
	h.engine = h.engineFor(src)
	return h
}

func (h *harness) engineFor(src dice.Source) *battle.Engine {
	return battle.NewEngine(h.catalog,
		combat.NewResolver(h.statuses, src, nil, false),
		ai.NewSelector(nil, src, nil),
		world.NewWildFactory(h.catalog, src),
		nil)
}

func (h *harness) species(t testing.TB, id string) *species.Species {
	t.Helper()
	s, err := h.catalog.Get(id)
	require.NoError(t, err)
	return s
}

func (h *harness) run(t testing.TB, starter, diff string) *world.Run {
	t.Helper()
	tiles := []world.EncounterTile{{Position: grass, Active: true}}
	return world.NewRun("ash", h.species(t, starter), diff, world.Position{Map: "ashenPath", X: 1, Y: 1}, tiles)
}

func (h *harness) wild(t testing.TB, run *world.Run, id string) *battle.Session {
	t.Helper()
	enc := grass
	sess, err := h.engine.Start(run, id, battle.StartOptions{
		Encounter: &enc,
		Enemy:     creature.New(h.species(t, id)),
	})
	require.NoError(t, err)
	return sess
}

func (h *harness) boss(t testing.TB, run *world.Run, id string) *battle.Session {
	t.Helper()
	sess, err := h.engine.Start(run, id, battle.StartOptions{Boss: true})
	require.NoError(t, err)
	return sess
}

func TestStart_Wild(t *testing.T) {
	h := newHarness(t, &seqSrc{vals: []int{0}})
	run := h.run(t, "cindrath", "scarred")
	sess := h.wild(t, run, "wildThornwick")

	assert.Equal(t, []string{"A Wild Thornwick appeared!"}, sess.Log)
	assert.Equal(t, battle.PlayerTurn{}, sess.State)
	assert.Equal(t, 1, sess.Phase)
	assert.False(t, sess.Boss)
	assert.Equal(t, sess.ID, run.BattleID)
}

func TestStart_GeneratesWildEnemy(t *testing.T) {
	h := newHarness(t, &seqSrc{vals: []int{10, 4, 99}})
	run := h.run(t, "cindrath", "scarred")
	sess, err := h.engine.Start(run, "wildThornwick", battle.StartOptions{})
	require.NoError(t, err)
	assert.Equal(t, 35, sess.Enemy.HP)
	assert.Equal(t, 17, sess.Enemy.Stamina)
}

func TestStart_BossScalesHP(t *testing.T) {
	h := newHarness(t, &seqSrc{vals: []int{0}})
	run := h.run(t, "cindrath", "hollowed")
	sess := h.boss(t, run, "obsidianHound")

	assert.True(t, sess.Boss)
	assert.Equal(t, 75, sess.Enemy.HP)
	assert.Equal(t, "Keeper Varek blocks your path!", sess.Log[0])
	assert.Len(t, sess.Log, 2)
}

func TestStart_Rejections(t *testing.T) {
	h := newHarness(t, &seqSrc{vals: []int{0}})
	run := h.run(t, "cindrath", "scarred")

	_, err := h.engine.Start(run, "nobody", battle.StartOptions{})
	assert.ErrorIs(t, err, species.ErrUnknownSpecies)

	_, err = h.engine.Start(run, "wildThornwick", battle.StartOptions{Boss: true})
	assert.ErrorIs(t, err, battle.ErrNotBoss)

	h.wild(t, run, "wildThornwick")
	_, err = h.engine.Start(run, "wildThornwick", battle.StartOptions{})
	assert.ErrorIs(t, err, battle.ErrBattleInProgress)

	other := h.run(t, "cindrath", "scarred")
	other.Team.ActiveCreature().HP = 0
	_, err = h.engine.Start(other, "wildThornwick", battle.StartOptions{})
	assert.ErrorIs(t, err, battle.ErrNoLivingCreature)
}

func TestSubmitMove_DamagingMove(t *testing.T) {
	h := newHarness(t, &seqSrc{vals: []int{0}})
	run := h.run(t, "cindrath", "scarred")
	sess := h.wild(t, run, "wildThornwick")

	res, err := h.engine.SubmitMove(sess, "Quick Strike")
	require.NoError(t, err)
	assert.Equal(t, battle.OutcomeContinue, res.Outcome)
	assert.Equal(t, battle.EnemyTurn{}, res.State)
	assert.Equal(t, []string{"Cindrath used Quick Strike! 7 damage. It's super effective!"}, res.Lines)
	assert.Equal(t, 23, sess.Enemy.HP)
	assert.Equal(t, 17, run.Team.ActiveCreature().Stamina)
	assert.Len(t, sess.Log, 2)
}

func TestSubmitMove_RejectionLeavesSessionUntouched(t *testing.T) {
	h := newHarness(t, &seqSrc{vals: []int{0}})
	run := h.run(t, "cindrath", "scarred")
	sess := h.wild(t, run, "wildThornwick")
	active := run.Team.ActiveCreature()
	active.SetStamina(2, 20)

	before, err := json.Marshal(sess)
	require.NoError(t, err)
	runBefore, err := json.Marshal(run)
	require.NoError(t, err)

	_, err = h.engine.SubmitMove(sess, "Ember Slash")
	assert.ErrorIs(t, err, battle.ErrInsufficientStamina)
	_, err = h.engine.SubmitMove(sess, "Hydro Cannon")
	assert.ErrorIs(t, err, battle.ErrUnknownMove)
	_, err = h.engine.AdvanceEnemyTurn(sess)
	assert.ErrorIs(t, err, battle.ErrNotEnemyTurn)

	after, err := json.Marshal(sess)
	require.NoError(t, err)
	runAfter, err := json.Marshal(run)
	require.NoError(t, err)
	assert.JSONEq(t, string(before), string(after))
	assert.JSONEq(t, string(runBefore), string(runAfter))
}

func TestSubmitMove_NotPlayerTurn(t *testing.T) {
	h := newHarness(t, &seqSrc{vals: []int{0}})
	run := h.run(t, "cindrath", "scarred")
	sess := h.wild(t, run, "wildThornwick")
	sess.State = battle.EnemyTurn{}

	_, err := h.engine.SubmitMove(sess, "Quick Strike")
	assert.ErrorIs(t, err, battle.ErrNotPlayerTurn)
	_, err = h.engine.Switch(sess, 0)
	assert.ErrorIs(t, err, battle.ErrNotPlayerTurn)
	_, err = h.engine.Bind(sess)
	assert.ErrorIs(t, err, battle.ErrNotPlayerTurn)
	_, err = h.engine.Flee(sess)
	assert.ErrorIs(t, err, battle.ErrNotPlayerTurn)
}

func TestSubmitMove_Rest(t *testing.T) {
	h := newHarness(t, &seqSrc{vals: []int{0}})
	run := h.run(t, "cindrath", "scarred")
	sess := h.wild(t, run, "wildThornwick")
	c := run.Team.ActiveCreature()
	c.SetStamina(5, 20)
	c.Guarding = true

	res, err := h.engine.SubmitMove(sess, "Rest")
	require.NoError(t, err)
	assert.Equal(t, 17, c.Stamina)
	assert.False(t, c.Winded)
	assert.False(t, c.Guarding)
	assert.Equal(t, battle.EnemyTurn{}, res.State)
}

func TestBossPhaseTransition(t *testing.T) {
	h := newHarness(t, &seqSrc{vals: []int{0}})
	run := h.run(t, "umbravine", "scarred")
	sess := h.boss(t, run, "obsidianHound")
	sess.Enemy.HP = 25

	res, err := h.engine.SubmitMove(sess, "Void Drain")
	require.NoError(t, err)
	assert.Equal(t, battle.OutcomePhaseChanged, res.Outcome)
	assert.Equal(t, 37, sess.Enemy.HP)
	assert.Equal(t, 2, sess.Phase)
	assert.Equal(t, species.ArenaScorchedEarth, sess.Arena)
	assert.Equal(t, battle.EnemyTurn{}, sess.State)
	assert.Contains(t, res.Lines, "Obsidian Hound transforms! The arena ignites with scorched earth!")
}

func TestBossPhaseTransition_OnlyOnce(t *testing.T) {
	h := newHarness(t, &seqSrc{vals: []int{0}})
	run := h.run(t, "umbravine", "scarred")
	sess := h.boss(t, run, "obsidianHound")
	sess.Phase = 2
	sess.Enemy.HP = 25

	res, err := h.engine.SubmitMove(sess, "Void Drain")
	require.NoError(t, err)
	assert.Equal(t, battle.OutcomeContinue, res.Outcome)
	assert.Equal(t, 17, sess.Enemy.HP)
}

func TestBossPhaseTransition_DisabledOnBroken(t *testing.T) {
	h := newHarness(t, &seqSrc{vals: []int{0}})
	run := h.run(t, "umbravine", "broken")
	sess := h.boss(t, run, "obsidianHound")
	sess.Enemy.HP = 25

	res, err := h.engine.SubmitMove(sess, "Void Drain")
	require.NoError(t, err)
	assert.Equal(t, battle.OutcomeContinue, res.Outcome)
	assert.Equal(t, 1, sess.Phase)
	assert.Equal(t, 17, sess.Enemy.HP)
}

func TestCleared_AwardsSoulsAndRetiresTile(t *testing.T) {
	h := newHarness(t, &seqSrc{vals: []int{0}})
	run := h.run(t, "cindrath", "scarred")
	sess := h.wild(t, run, "wildThornwick")
	sess.Enemy.HP = 1

	res, err := h.engine.SubmitMove(sess, "Ember Slash")
	require.NoError(t, err)
	assert.Equal(t, battle.OutcomeCleared, res.Outcome)
	assert.Equal(t, battle.Cleared{Souls: 12, Tile: sess.Encounter}, res.State)
	assert.Equal(t, 12, run.Souls.Carried)
	assert.False(t, run.TileActive(grass))
	assert.False(t, run.InBattle())
	assert.False(t, sess.Enemy.Statuses.Has(status.Burn))
	assert.Contains(t, res.Lines, "Wild Thornwick defeated! Gained 12 souls.")

	_, err = h.engine.SubmitMove(sess, "Quick Strike")
	assert.ErrorIs(t, err, battle.ErrBattleOver)
	_, err = h.engine.AdvanceEnemyTurn(sess)
	assert.ErrorIs(t, err, battle.ErrBattleOver)
}

func TestEnemyTurn_HitsAndReturnsControl(t *testing.T) {
	h := newHarness(t, &seqSrc{vals: []int{0}})
	run := h.run(t, "cindrath", "scarred")
	sess := h.wild(t, run, "wildThornwick")
	sess.State = battle.EnemyTurn{}
	c := run.Team.ActiveCreature()
	c.SetStamina(10, 20)

	res, err := h.engine.AdvanceEnemyTurn(sess)
	require.NoError(t, err)
	assert.Equal(t, battle.OutcomeContinue, res.Outcome)
	assert.Equal(t, battle.PlayerTurn{}, sess.State)
	// Vine Lash: 8 x0.5 grass->fire = 4, x0.75 wild damage = 3
	assert.Equal(t, 42, c.HP)
	assert.Equal(t, 14, c.Stamina)
	assert.Equal(t, 10, sess.Enemy.Stamina)
	assert.Equal(t, []string{"Wild Thornwick used Vine Lash! 3 damage. It's not very effective..."}, res.Lines)
}

func TestEnemyTurn_WipeDropsSouls(t *testing.T) {
	h := newHarness(t, &seqSrc{vals: []int{0}})
	run := h.run(t, "cindrath", "scarred")
	run.Earn(40)
	run.Position = grass
	sess := h.wild(t, run, "wildThornwick")
	sess.State = battle.EnemyTurn{}
	c := run.Team.ActiveCreature()
	c.HP = 1

	res, err := h.engine.AdvanceEnemyTurn(sess)
	require.NoError(t, err)
	assert.Equal(t, battle.OutcomeDefeat, res.Outcome)
	def, ok := res.State.(battle.Defeat)
	require.True(t, ok)
	require.NotNil(t, def.Drop)
	assert.Equal(t, world.SoulDrop{Position: grass, Amount: 40}, *def.Drop)
	assert.False(t, def.Permadeath)
	assert.Equal(t, 0, run.Souls.Carried)
	assert.Equal(t, 0, c.HP)
	require.Len(t, c.Scars, 1)
	assert.Equal(t, "fractured", c.Scars[0].ID)
	require.Len(t, res.Scars, 1)
	assert.Contains(t, res.Lines, "Cindrath has fallen!")
	assert.False(t, run.InBattle())
}

func TestEnemyTurn_PermadeathEndsRun(t *testing.T) {
	h := newHarness(t, &seqSrc{vals: []int{0}})
	run := h.run(t, "cindrath", "broken")
	sess := h.wild(t, run, "wildThornwick")
	sess.State = battle.EnemyTurn{}
	c := run.Team.ActiveCreature()
	c.HP = 1

	res, err := h.engine.AdvanceEnemyTurn(sess)
	require.NoError(t, err)
	assert.Equal(t, battle.Defeat{Permadeath: true}, res.State)
	assert.True(t, run.Over)
	// threshold 1 on broken: a single scar hollows
	assert.Contains(t, res.Lines, "Cindrath has become Hollowed...")
}

func TestEnemyTurn_FaintSwitchesToNextLiving(t *testing.T) {
	h := newHarness(t, &seqSrc{vals: []int{0}})
	run := h.run(t, "cindrath", "scarred")
	require.NoError(t, run.Team.Add(creature.New(h.species(t, "marshveil"))))
	sess := h.wild(t, run, "wildThornwick")
	sess.State = battle.EnemyTurn{}
	run.Team.ActiveCreature().HP = 1

	res, err := h.engine.AdvanceEnemyTurn(sess)
	require.NoError(t, err)
	assert.Equal(t, battle.OutcomeFainted, res.Outcome)
	assert.Equal(t, battle.PlayerTurn{}, sess.State)
	assert.Equal(t, 1, run.Team.Active)
	assert.Contains(t, res.Lines, "Go, Marshveil!")
}

func TestEnemyTurn_DOTFaintBeforeEnemyActs(t *testing.T) {
	h := newHarness(t, &seqSrc{vals: []int{0}})
	run := h.run(t, "marshveil", "scarred")
	require.NoError(t, run.Team.Add(creature.New(h.species(t, "thornwick"))))
	sess := h.wild(t, run, "wildThornwick")
	sess.State = battle.EnemyTurn{}
	sess.Enemy.SetStamina(5, 15)
	burn, ok := h.statuses.Get(status.Burn)
	require.True(t, ok)
	c := run.Team.ActiveCreature()
	c.HP = 2
	c.Statuses.Apply(burn)

	res, err := h.engine.AdvanceEnemyTurn(sess)
	require.NoError(t, err)
	assert.Equal(t, battle.OutcomeFainted, res.Outcome)
	assert.Equal(t, 0, c.HP)
	assert.Equal(t, 5, sess.Enemy.Stamina)
	assert.Equal(t, 30, sess.Enemy.HP)
	assert.Equal(t, 1, run.Team.Active)
}

func TestEnemyTurn_RecoilSuicideIsVictory(t *testing.T) {
	h := newHarness(t, &seqSrc{vals: []int{0}})
	run := h.run(t, "cindrath", "scarred")
	sess := h.boss(t, run, "obsidianHound")
	sess.State = battle.EnemyTurn{}
	sess.Phase = 2
	sess.Arena = species.ArenaScorchedEarth
	sess.Enemy.HP = 3
	run.Team.ActiveCreature().HP = 10

	res, err := h.engine.AdvanceEnemyTurn(sess)
	require.NoError(t, err)
	assert.Equal(t, battle.OutcomeVictory, res.Outcome)
	assert.Equal(t, battle.Victory{Souls: 100, Survivors: 0}, res.State)
	assert.Contains(t, res.Lines, "Obsidian Hound takes 5 recoil!")
	assert.True(t, run.BossDefeated("obsidianHound"))
	assert.Equal(t, 100, run.Souls.Carried)
	assert.Len(t, run.Team.ActiveCreature().Scars, 1)
}

func TestVictory_UnscarredTitle(t *testing.T) {
	h := newHarness(t, &seqSrc{vals: []int{0}})
	run := h.run(t, "cindrath", "scarred")
	sess := h.boss(t, run, "obsidianHound")
	sess.Enemy.HP = 1

	res, err := h.engine.SubmitMove(sess, "Quick Strike")
	require.NoError(t, err)
	assert.Equal(t, battle.Victory{Souls: 100, Survivors: 1, Titles: []string{world.TitleUnscarred}}, res.State)
	assert.Contains(t, res.Lines, "Title earned: Unscarred. Completed a run with zero scars.")
	assert.Equal(t, []string{world.TitleUnscarred}, run.Titles)
}

func TestVictory_ScarredRunEarnsNoTitle(t *testing.T) {
	h := newHarness(t, &seqSrc{vals: []int{0}})
	run := h.run(t, "cindrath", "scarred")
	require.NoError(t, run.Team.Add(creature.New(h.species(t, "marshveil"))))
	run.Team.Members[1].AddScar(creature.ScarCatalog[0])
	sess := h.boss(t, run, "obsidianHound")
	sess.Enemy.HP = 1

	res, err := h.engine.SubmitMove(sess, "Quick Strike")
	require.NoError(t, err)
	assert.Equal(t, battle.Victory{Souls: 100, Survivors: 2}, res.State)
	assert.Empty(t, run.Titles)
}

func TestEnemyTurn_ScorchedEarthHitsNonFire(t *testing.T) {
	h := newHarness(t, &seqSrc{vals: []int{0}})
	run := h.run(t, "marshveil", "scarred")
	sess := h.boss(t, run, "obsidianHound")
	sess.State = battle.EnemyTurn{}
	sess.Phase = 2
	sess.Arena = species.ArenaScorchedEarth

	res, err := h.engine.AdvanceEnemyTurn(sess)
	require.NoError(t, err)
	assert.Equal(t, "Scorched Earth burns Marshveil for 2 damage!", res.Lines[0])
}

func TestSwitch(t *testing.T) {
	h := newHarness(t, &seqSrc{vals: []int{0}})
	run := h.run(t, "cindrath", "scarred")
	require.NoError(t, run.Team.Add(creature.New(h.species(t, "marshveil"))))
	fallen := creature.New(h.species(t, "thornwick"))
	fallen.HP = 0
	require.NoError(t, run.Team.Add(fallen))
	sess := h.wild(t, run, "wildThornwick")

	for _, idx := range []int{0, 2, 7, -1} {
		_, err := h.engine.Switch(sess, idx)
		assert.ErrorIs(t, err, battle.ErrInvalidSwitch)
		assert.ErrorIs(t, err, creature.ErrInvalidSwitch)
	}
	assert.Len(t, sess.Log, 1)

	res, err := h.engine.Switch(sess, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"Go, Marshveil!"}, res.Lines)
	assert.Equal(t, battle.PlayerTurn{}, sess.State)
	assert.Equal(t, 1, run.Team.Active)
}

func TestBind_Success(t *testing.T) {
	h := newHarness(t, &seqSrc{vals: []int{0}})
	run := h.run(t, "cindrath", "scarred")
	run.Earn(25)
	sess := h.wild(t, run, "wildThornwick")
	sess.Enemy.HP = 2

	res, err := h.engine.Bind(sess)
	require.NoError(t, err)
	assert.Equal(t, battle.OutcomeCaptured, res.Outcome)
	assert.Equal(t, "You offer 20 souls to bind Wild Thornwick... (90%)", res.Lines[0])
	captured, ok := res.State.(battle.Captured)
	require.True(t, ok)
	assert.Same(t, sess.Enemy, captured.Creature)
	assert.Len(t, run.Team.Members, 2)
	assert.Equal(t, 5, run.Souls.Carried)
	assert.False(t, run.TileActive(grass))
	assert.False(t, run.InBattle())
}

func TestBind_Failure(t *testing.T) {
	h := newHarness(t, &seqSrc{vals: []int{99}})
	run := h.run(t, "cindrath", "scarred")
	run.Earn(20)
	sess := h.wild(t, run, "wildThornwick")

	res, err := h.engine.Bind(sess)
	require.NoError(t, err)
	assert.Equal(t, battle.OutcomeContinue, res.Outcome)
	assert.Equal(t, battle.EnemyTurn{}, res.State)
	assert.Contains(t, res.Lines, "Wild Thornwick broke free!")
	assert.Equal(t, 0, run.Souls.Carried)
	assert.Len(t, run.Team.Members, 1)
}

func TestBind_ClampsToRunThreshold(t *testing.T) {
	h := newHarness(t, &seqSrc{vals: []int{0}})
	run := h.run(t, "cindrath", "broken")
	run.Earn(20)
	sess := h.wild(t, run, "wildThornwick")
	// One scar is below the default threshold but hollows on broken.
	sess.Enemy.AddScar(creature.ScarCatalog[2])
	require.Equal(t, 30, sess.Enemy.HP)
	require.Equal(t, 15, sess.Enemy.Stamina)

	res, err := h.engine.Bind(sess)
	require.NoError(t, err)
	require.Equal(t, battle.OutcomeCaptured, res.Outcome)

	bound := run.Team.Members[1]
	st := bound.Stats(run.Threshold())
	assert.True(t, st.Hollowed)
	assert.Equal(t, 22, st.MaxHP)
	assert.Equal(t, 11, st.MaxStamina)
	assert.Equal(t, 22, bound.HP)
	assert.Equal(t, 11, bound.Stamina)
	assert.False(t, bound.Winded)
}

func TestBind_Rejections(t *testing.T) {
	h := newHarness(t, &seqSrc{vals: []int{0}})

	run := h.run(t, "cindrath", "scarred")
	run.Earn(19)
	sess := h.wild(t, run, "wildThornwick")
	_, err := h.engine.Bind(sess)
	assert.ErrorIs(t, err, battle.ErrNotEnoughSouls)
	assert.Equal(t, 19, run.Souls.Carried)

	full := h.run(t, "cindrath", "scarred")
	full.Earn(100)
	for len(full.Team.Members) < creature.MaxTeamSize {
		require.NoError(t, full.Team.Add(creature.New(h.species(t, "marshveil"))))
	}
	sess = h.wild(t, full, "wildThornwick")
	_, err = h.engine.Bind(sess)
	assert.ErrorIs(t, err, creature.ErrTeamFull)

	bossRun := h.run(t, "cindrath", "scarred")
	bossRun.Earn(100)
	sess = h.boss(t, bossRun, "obsidianHound")
	_, err = h.engine.Bind(sess)
	assert.ErrorIs(t, err, battle.ErrBossBattle)
	_, err = h.engine.Flee(sess)
	assert.ErrorIs(t, err, battle.ErrBossBattle)
}

func TestFlee(t *testing.T) {
	h := newHarness(t, &seqSrc{vals: []int{0}})
	run := h.run(t, "cindrath", "scarred")
	sess := h.wild(t, run, "wildThornwick")

	res, err := h.engine.Flee(sess)
	require.NoError(t, err)
	assert.Equal(t, battle.OutcomeFled, res.Outcome)
	assert.Equal(t, battle.Fled{}, sess.State)
	assert.True(t, run.TileActive(grass))
	assert.False(t, run.InBattle())
}

func TestOptions(t *testing.T) {
	h := newHarness(t, &seqSrc{vals: []int{0}})
	run := h.run(t, "cindrath", "scarred")
	run.Earn(20)
	player := run.Team.ActiveCreature()
	player.AddScar(creature.ScarCatalog[2])
	player.Stamina = 4
	sess := h.wild(t, run, "wildThornwick")
	sess.Enemy.HP = 15

	opts, err := h.engine.Options(sess)
	require.NoError(t, err)
	assert.False(t, opts.Switch)
	assert.True(t, opts.Flee)
	assert.True(t, opts.Bind)
	assert.Equal(t, 30, opts.BindChance)

	byName := map[string]battle.MoveOption{}
	for _, m := range opts.Moves {
		byName[m.Name] = m
	}
	require.Len(t, byName, 4)
	assert.False(t, byName["Ember Slash"].Affordable)
	assert.True(t, byName["Quick Strike"].Affordable)
	assert.False(t, byName["Quick Strike"].Priority, "flinching drops priority")

	require.NoError(t, run.Team.Add(creature.New(h.species(t, "marshveil"))))
	opts, err = h.engine.Options(sess)
	require.NoError(t, err)
	assert.True(t, opts.Switch)

	_, err = h.engine.SubmitMove(sess, "Quick Strike")
	require.NoError(t, err)
	opts, err = h.engine.Options(sess)
	require.NoError(t, err)
	assert.Equal(t, battle.Options{}, opts)
}

func TestOptions_Boss(t *testing.T) {
	h := newHarness(t, &seqSrc{vals: []int{0}})
	run := h.run(t, "cindrath", "scarred")
	run.Earn(100)
	sess := h.boss(t, run, "obsidianHound")

	opts, err := h.engine.Options(sess)
	require.NoError(t, err)
	assert.False(t, opts.Bind)
	assert.False(t, opts.Flee)
	assert.Zero(t, opts.BindChance)
	for _, m := range opts.Moves {
		assert.Equal(t, m.Name == "Quick Strike", m.Priority, m.Name)
	}
}

func TestNoRunAttached(t *testing.T) {
	h := newHarness(t, &seqSrc{vals: []int{0}})
	run := h.run(t, "cindrath", "scarred")
	sess := h.wild(t, run, "wildThornwick")
	sess.Run = nil
	_, err := h.engine.SubmitMove(sess, "Quick Strike")
	assert.ErrorIs(t, err, battle.ErrNoRun)
}

func TestSession_JSON(t *testing.T) {
	h := newHarness(t, &seqSrc{vals: []int{0}})
	run := h.run(t, "cindrath", "scarred")
	sess := h.wild(t, run, "wildThornwick")
	sess.State = battle.Defeat{Drop: &world.SoulDrop{Position: grass, Amount: 40}}

	data, err := json.Marshal(sess)
	require.NoError(t, err)

	var back battle.Session
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, sess.State, back.State)
	assert.Equal(t, sess.Log, back.Log)
	assert.Equal(t, sess.Enemy.HP, back.Enemy.HP)
	assert.Nil(t, back.Run)
}

func TestSession_JSONUnknownState(t *testing.T) {
	var s battle.Session
	err := json.Unmarshal([]byte(`{"id":"x","state":{"kind":"limbo"}}`), &s)
	assert.Error(t, err)
}

func TestResult_JSONTagsState(t *testing.T) {
	res := battle.Result{
		Outcome: battle.OutcomeCleared,
		State:   battle.Cleared{Souls: 12},
		Lines:   []string{"Wild Thornwick defeated! Gained 12 souls."},
	}
	data, err := json.Marshal(res)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"outcome": "cleared",
		"state": {"kind": "cleared", "data": {"souls": 12}},
		"lines": ["Wild Thornwick defeated! Gained 12 souls."]
	}`, string(data))
}

// greedy picks the strongest affordable move, resting when nothing damaging fits.
func greedy(sp *species.Species, c *creature.Creature) string {
	best := "Rest"
	dmg := 0
	for _, m := range sp.Moves {
		if m.Damaging() && m.Cost <= c.Stamina && m.Damage > dmg {
			best, dmg = m.Name, m.Damage
		}
	}
	return best
}

func TestProperty_BattleInvariants(t *testing.T) {
	h := newHarness(t, &seqSrc{vals: []int{0}})
	starters := []string{"cindrath", "marshveil", "thornwick", "umbravine", "solrath"}
	enemies := []string{"wildCindrath", "wildThornwick", "wildSolrath", "obsidianHound", "hollowWarden"}
	diffs := []string{"ashen", "scarred", "hollowed", "broken"}
	rapid.Check(t, func(t *rapid.T) {
		engine := h.engineFor(dice.NewSeededSource(rapid.Uint64().Draw(t, "seed")))
		starter, _ := h.catalog.Get(rapid.SampledFrom(starters).Draw(t, "starter"))
		run := world.NewRun("p", starter, rapid.SampledFrom(diffs).Draw(t, "diff"), grass, nil)
		run.Earn(rapid.IntRange(0, 60).Draw(t, "souls"))
		sess, err := engine.Start(run, rapid.SampledFrom(enemies).Draw(t, "enemy"), battle.StartOptions{})
		if err != nil {
			t.Fatal(err)
		}
		for range rapid.IntRange(0, 2).Draw(t, "enemy scars") {
			sess.Enemy.AddScar(creature.ScarCatalog[rapid.IntRange(0, len(creature.ScarCatalog)-1).Draw(t, "scar")])
			sess.Enemy.ClampToStats(creature.DefaultHollowedThreshold)
		}
		for step := 0; step < 200 && !sess.Over(); step++ {
			logLen := len(sess.Log)
			switch sess.State.(type) {
			case battle.PlayerTurn:
				if rapid.IntRange(0, 3).Draw(t, "bind") == 0 {
					_, err = engine.Bind(sess)
					if errors.Is(err, battle.ErrNotEnoughSouls) || errors.Is(err, battle.ErrBossBattle) ||
						errors.Is(err, creature.ErrTeamFull) {
						err = nil
					} else {
						break
					}
				}
				c := run.Team.ActiveCreature()
				sp, _ := h.catalog.Get(c.SpeciesID)
				_, err = engine.SubmitMove(sess, greedy(sp, c))
			case battle.EnemyTurn:
				_, err = engine.AdvanceEnemyTurn(sess)
			}
			if err != nil {
				t.Fatalf("step %d: %v", step, err)
			}
			if len(sess.Log) < logLen {
				t.Fatalf("log shrank")
			}
			for _, c := range run.Team.Members {
				st := c.Stats(run.Threshold())
				if c.HP < 0 || c.HP > st.MaxHP || c.Stamina < 0 || c.Stamina > st.MaxStamina {
					t.Fatalf("%s out of bounds: hp %d/%d st %d/%d", c.Name, c.HP, st.MaxHP, c.Stamina, st.MaxStamina)
				}
			}
			if sess.Enemy.HP < 0 || run.Souls.Carried < 0 {
				t.Fatalf("negative enemy hp or souls")
			}
		}
		if sess.Over() && run.InBattle() {
			t.Fatalf("finished battle still attached to run")
		}
	})
}
