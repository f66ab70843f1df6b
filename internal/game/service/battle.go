package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/scarsofash/internal/game/battle"
	"github.com/cory-johannsen/scarsofash/internal/game/world"
	"github.com/cory-johannsen/scarsofash/internal/storage/postgres"
	"github.com/cory-johannsen/scarsofash/internal/store"
)

// Turn is the result of one battle operation.
type Turn struct {
	Result  battle.Result   `json:"result"`
	Session *battle.Session `json:"battle"`
	Run     *world.Run      `json:"run"`
	// Options is what the player may do next; zero once the player must wait.
	Options battle.Options `json:"options"`
}

// Battle returns the run's battle in progress.
func (s *Service) Battle(ctx context.Context, runID string) (*battle.Session, error) {
	unlock := s.lock(runID)
	defer unlock()
	_, sess, err := s.loadBattle(ctx, runID)
	return sess, err
}

// BattleOptions lists the player's choices in the run's battle.
func (s *Service) BattleOptions(ctx context.Context, runID string) (battle.Options, error) {
	unlock := s.lock(runID)
	defer unlock()
	_, sess, err := s.loadBattle(ctx, runID)
	if err != nil {
		return battle.Options{}, err
	}
	return s.Engine.Options(sess)
}

func (s *Service) loadBattle(ctx context.Context, runID string) (*world.Run, *battle.Session, error) {
	run, err := s.loadRun(ctx, runID)
	if err != nil {
		return nil, nil, err
	}
	if !run.InBattle() {
		return nil, nil, ErrNoBattle
	}
	sess, err := s.Battles.Get(ctx, run.BattleID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil, fmt.Errorf("%w: battle %s expired", ErrNoBattle, run.BattleID)
		}
		return nil, nil, fmt.Errorf("loading battle: %w", err)
	}
	sess.Run = run
	return run, sess, nil
}

// Move submits the active creature's move.
func (s *Service) Move(ctx context.Context, runID, move string) (Turn, error) {
	return s.act(ctx, runID, func(sess *battle.Session) (battle.Result, error) {
		return s.Engine.SubmitMove(sess, move)
	})
}

// Switch swaps the active creature for the living member at index.
func (s *Service) Switch(ctx context.Context, runID string, index int) (Turn, error) {
	return s.act(ctx, runID, func(sess *battle.Session) (battle.Result, error) {
		return s.Engine.Switch(sess, index)
	})
}

// EnemyTurn resolves upkeep and the enemy's move.
func (s *Service) EnemyTurn(ctx context.Context, runID string) (Turn, error) {
	return s.act(ctx, runID, s.Engine.AdvanceEnemyTurn)
}

// Bind spends souls to try to bind the wild enemy to the team.
func (s *Service) Bind(ctx context.Context, runID string) (Turn, error) {
	return s.act(ctx, runID, s.Engine.Bind)
}

// Flee leaves a wild battle.
func (s *Service) Flee(ctx context.Context, runID string) (Turn, error) {
	return s.act(ctx, runID, s.Engine.Flee)
}

// act runs op against the run's battle. A rejected op stores nothing.
func (s *Service) act(ctx context.Context, runID string, op func(*battle.Session) (battle.Result, error)) (Turn, error) {
	unlock := s.lock(runID)
	defer unlock()

	run, sess, err := s.loadBattle(ctx, runID)
	if err != nil {
		return Turn{}, err
	}
	res, err := op(sess)
	if err != nil {
		return Turn{}, err
	}

	if sess.Over() {
		if err := s.Battles.Delete(ctx, sess.ID); err != nil {
			s.Logger.Warn("deleting finished battle", zap.String("battle", sess.ID), zap.Error(err))
		}
	} else if err := s.Battles.Put(ctx, sess.ID, sess); err != nil {
		return Turn{}, fmt.Errorf("storing battle: %w", err)
	}
	if err := s.putRun(ctx, run); err != nil {
		return Turn{}, err
	}

	s.record(ctx, events(run, sess, res)...)
	s.keepRecords(ctx, run, sess, res)
	s.schedule(runID, sess)
	t := Turn{Result: res, Session: sess, Run: run}
	if t.Options, err = s.Engine.Options(sess); err != nil {
		s.Logger.Warn("listing battle options", zap.String("battle", sess.ID), zap.Error(err))
	}
	return t, nil
}

// schedule arms or cancels the automatic enemy turn for runID.
func (s *Service) schedule(runID string, sess *battle.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, pending := s.timers[runID]
	_, enemyTurn := sess.State.(battle.EnemyTurn)
	switch {
	case s.opts.AutoEnemyTurn && enemyTurn:
		fire := func() { s.autoEnemyTurn(runID) }
		if pending {
			t.Reset(s.opts.EnemyTurnDelay, fire)
		} else {
			s.timers[runID] = battle.NewTurnTimer(s.opts.EnemyTurnDelay, fire)
		}
	case pending:
		t.Stop()
		delete(s.timers, runID)
	}
}

func (s *Service) autoEnemyTurn(runID string) {
	_, err := s.EnemyTurn(context.Background(), runID)
	switch {
	case err == nil:
	case errors.Is(err, battle.ErrNotEnemyTurn), errors.Is(err, ErrNoBattle):
		// the client already advanced the turn
		s.Logger.Debug("auto enemy turn skipped", zap.String("run", runID), zap.Error(err))
	default:
		s.Logger.Error("auto enemy turn", zap.String("run", runID), zap.Error(err))
	}
}

func events(run *world.Run, sess *battle.Session, res battle.Result) []postgres.RunEvent {
	var out []postgres.RunEvent
	for _, sc := range res.Scars {
		sp := ""
		for _, c := range run.Team.Members {
			if c.ID == sc.CreatureID {
				sp = c.SpeciesID
			}
		}
		out = append(out,
			postgres.RunEvent{RunID: run.ID, Kind: postgres.EventFaint, SpeciesID: sp},
			postgres.RunEvent{RunID: run.ID, Kind: postgres.EventScar, SpeciesID: sp, Detail: sc.Scar.ID},
		)
		if sc.Hollowed {
			out = append(out, postgres.RunEvent{RunID: run.ID, Kind: postgres.EventHollow, SpeciesID: sp})
		}
	}
	ev := postgres.RunEvent{RunID: run.ID, SpeciesID: sess.EnemySpecies}
	switch st := res.State.(type) {
	case battle.Victory:
		ev.Kind, ev.Amount = postgres.EventVictory, st.Souls
	case battle.Cleared:
		ev.Kind, ev.Amount = postgres.EventCleared, st.Souls
	case battle.Captured:
		ev.Kind = postgres.EventCapture
	case battle.Fled:
		ev.Kind = postgres.EventFled
	case battle.Defeat:
		ev.Kind = postgres.EventWipe
		if st.Drop != nil {
			ev.Amount = st.Drop.Amount
		}
		if st.Permadeath {
			ev.Detail = "permadeath"
		}
	default:
		return out
	}
	return append(out, ev)
}
