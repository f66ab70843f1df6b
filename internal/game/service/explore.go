package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/scarsofash/internal/game/battle"
	"github.com/cory-johannsen/scarsofash/internal/game/world"
	"github.com/cory-johannsen/scarsofash/internal/storage/postgres"
)

// Step is the result of entering a tile.
type Step struct {
	Run     *world.Run    `json:"run"`
	Arrival world.Arrival `json:"arrival"`
	// Battle is set when the tile started a wild encounter.
	Battle *battle.Session `json:"battle,omitempty"`
}

// Enter moves the run onto pos. Walkability is checked here; the route is
// the client's. Active grass rolls for an encounter and starts a wild
// battle on success. Boss tiles only report the boss; StartBoss begins
// the fight.
func (s *Service) Enter(ctx context.Context, runID string, pos world.Position) (Step, error) {
	unlock := s.lock(runID)
	defer unlock()

	run, err := s.loadRun(ctx, runID)
	if err != nil {
		return Step{}, err
	}
	if run.InBattle() {
		return Step{}, battle.ErrBattleInProgress
	}
	if !run.Over && run.Team.Living() == 0 {
		return Step{}, battle.ErrNoLivingCreature
	}
	arr, err := run.Enter(s.Atlas, pos)
	if err != nil {
		return Step{}, err
	}
	arr.Ghost = s.ghostAt(ctx, arr.Position)
	step := Step{Run: run, Arrival: arr}
	if arr.Recovered > 0 {
		s.Logger.Info("souls recovered", zap.String("run", run.ID), zap.Int("souls", arr.Recovered))
	}
	if arr.Grass && run.TryEncounter(arr.Position, s.Source) {
		sess, err := s.startWild(run, arr.Position, "")
		if err != nil {
			return Step{}, err
		}
		if err := s.Battles.Put(ctx, sess.ID, sess); err != nil {
			return Step{}, fmt.Errorf("storing battle: %w", err)
		}
		step.Battle = sess
	}
	if err := s.putRun(ctx, run); err != nil {
		return Step{}, err
	}
	return step, nil
}

// Encounter starts a wild battle on the run's current tile, which must be
// active grass. An empty speciesID rolls the map's encounter pool.
func (s *Service) Encounter(ctx context.Context, runID, speciesID string) (*battle.Session, error) {
	unlock := s.lock(runID)
	defer unlock()

	run, err := s.loadRun(ctx, runID)
	if err != nil {
		return nil, err
	}
	if run.Over {
		return nil, world.ErrRunOver
	}
	if !run.TileActive(run.Position) {
		return nil, ErrNoEncounter
	}
	sess, err := s.startWild(run, run.Position, speciesID)
	if err != nil {
		return nil, err
	}
	return sess, s.putBattle(ctx, run, sess)
}

func (s *Service) startWild(run *world.Run, pos world.Position, speciesID string) (*battle.Session, error) {
	opts := battle.StartOptions{Encounter: &pos}
	if speciesID == "" {
		m, ok := s.Atlas.Map(pos.Map)
		if !ok {
			return nil, fmt.Errorf("%w: %q", world.ErrUnknownMap, pos.Map)
		}
		enemy, sp, err := s.Wild.Roll(m.Pool)
		if err != nil {
			return nil, err
		}
		speciesID, opts.Enemy = sp.ID, enemy
	} else if sp, err := s.Catalog.Get(speciesID); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	} else if sp.IsBoss() {
		return nil, fmt.Errorf("%w: %q is a boss", ErrInvalidInput, speciesID)
	}
	return s.Engine.Start(run, speciesID, opts)
}

// StartBoss begins the fight with the boss guarding the run's current tile.
func (s *Service) StartBoss(ctx context.Context, runID string) (*battle.Session, error) {
	unlock := s.lock(runID)
	defer unlock()

	run, err := s.loadRun(ctx, runID)
	if err != nil {
		return nil, err
	}
	m, t, err := s.Atlas.TileAt(run.Position)
	if err != nil {
		return nil, err
	}
	if t != world.TileBoss || run.BossDefeated(m.Boss) {
		return nil, ErrNoBoss
	}
	sess, err := s.Engine.Start(run, m.Boss, battle.StartOptions{Boss: true})
	if err != nil {
		return nil, err
	}
	return sess, s.putBattle(ctx, run, sess)
}

func (s *Service) putBattle(ctx context.Context, run *world.Run, sess *battle.Session) error {
	if err := s.Battles.Put(ctx, sess.ID, sess); err != nil {
		return fmt.Errorf("storing battle: %w", err)
	}
	return s.putRun(ctx, run)
}

// Rest is the result of resting at a bonfire.
type Rest struct {
	Run    *world.Run `json:"run"`
	Banked int        `json:"banked"`
	// Saved reports whether a durable save was written.
	Saved bool `json:"saved"`
}

// Bonfire rests the team at the bonfire the run stands on and writes a save.
// A failed save is logged; the rest still happens.
func (s *Service) Bonfire(ctx context.Context, runID string) (Rest, error) {
	unlock := s.lock(runID)
	defer unlock()

	run, err := s.loadRun(ctx, runID)
	if err != nil {
		return Rest{}, err
	}
	if run.InBattle() {
		return Rest{}, battle.ErrBattleInProgress
	}
	if _, t, err := s.Atlas.TileAt(run.Position); err != nil || t != world.TileBonfire {
		return Rest{}, ErrNotAtBonfire
	}
	banked, err := run.Bonfire()
	if err != nil {
		return Rest{}, err
	}
	if err := s.putRun(ctx, run); err != nil {
		return Rest{}, err
	}
	rest := Rest{Run: run, Banked: banked}
	if s.Saves != nil {
		if err := s.Saves.Save(ctx, run); err != nil {
			s.Logger.Error("saving run at bonfire", zap.String("run", run.ID), zap.Error(err))
		} else {
			rest.Saved = true
		}
	}
	s.record(ctx, postgres.RunEvent{RunID: run.ID, Kind: postgres.EventBonfire, Detail: run.Position.String(), Amount: banked})
	s.Logger.Info("bonfire", zap.String("run", run.ID), zap.Int("banked", banked), zap.Bool("saved", rest.Saved))
	return rest, nil
}

// Respawn revives a wiped team at its last bonfire.
func (s *Service) Respawn(ctx context.Context, runID string) (*world.Run, error) {
	unlock := s.lock(runID)
	defer unlock()

	run, err := s.loadRun(ctx, runID)
	if err != nil {
		return nil, err
	}
	if err := run.Respawn(); err != nil {
		return nil, err
	}
	if err := s.putRun(ctx, run); err != nil {
		return nil, err
	}
	s.Logger.Info("respawn", zap.String("run", run.ID), zap.String("at", run.Position.String()))
	return run, nil
}

// Recover picks up the soul drop on the run's current tile.
//
// Postcondition: returns the souls recovered, zero when there was no drop here.
func (s *Service) Recover(ctx context.Context, runID string) (int, error) {
	unlock := s.lock(runID)
	defer unlock()

	run, err := s.loadRun(ctx, runID)
	if err != nil {
		return 0, err
	}
	if run.Over {
		return 0, world.ErrRunOver
	}
	n := run.RecoverSouls(run.Position)
	if n == 0 {
		return 0, nil
	}
	return n, s.putRun(ctx, run)
}
