package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/scarsofash/internal/game/battle"
	"github.com/cory-johannsen/scarsofash/internal/game/world"
	"github.com/cory-johannsen/scarsofash/internal/storage/postgres"
)

// Hall gathers what is remembered across runs.
type Hall struct {
	Totals *postgres.Totals `json:"totals,omitempty"`
	Bests  []postgres.Best  `json:"bests"`
	Fallen []world.Fallen   `json:"fallen"`
	Ghost  *world.Ghost     `json:"ghost,omitempty"`
	Titles []world.Title    `json:"titles"`
}

// RunStats summarizes the events recorded for a run.
func (s *Service) RunStats(ctx context.Context, runID string) (postgres.RunSummary, error) {
	if s.Stats == nil {
		return postgres.RunSummary{}, ErrNoRecords
	}
	if _, err := s.GetRun(ctx, runID); err != nil {
		return postgres.RunSummary{}, err
	}
	sum, err := s.Stats.Summary(ctx, runID)
	if err != nil {
		return postgres.RunSummary{}, fmt.Errorf("summarizing run: %w", err)
	}
	return sum, nil
}

// Hall returns the records kept across runs. Parts without a backing store
// are left empty.
func (s *Service) Hall(ctx context.Context) (Hall, error) {
	if s.Stats == nil && s.Records == nil {
		return Hall{}, ErrNoRecords
	}
	h := Hall{Bests: []postgres.Best{}, Fallen: []world.Fallen{}, Titles: world.Titles}
	if s.Stats != nil {
		t, err := s.Stats.Totals(ctx)
		if err != nil {
			return Hall{}, fmt.Errorf("loading totals: %w", err)
		}
		h.Totals = &t
	}
	if s.Records == nil {
		return h, nil
	}
	bests, err := s.Records.Bests(ctx)
	if err != nil {
		return Hall{}, fmt.Errorf("loading bests: %w", err)
	}
	if bests != nil {
		h.Bests = bests
	}
	fallen, err := s.Records.Fallen(ctx, world.FallenLimit)
	if err != nil {
		return Hall{}, fmt.Errorf("loading memorial: %w", err)
	}
	if fallen != nil {
		h.Fallen = fallen
	}
	if h.Ghost, err = s.Records.Ghost(ctx); err != nil {
		return Hall{}, fmt.Errorf("loading ghost: %w", err)
	}
	return h, nil
}

// keepRecords stores the clear a boss Victory earns and the memorial entry
// or ghost a wipe leaves. Failures are logged and do not fail the battle.
func (s *Service) keepRecords(ctx context.Context, run *world.Run, sess *battle.Session, res battle.Result) {
	if s.Records == nil {
		return
	}
	now := time.Now().UTC()
	var err error
	switch res.State.(type) {
	case battle.Victory:
		err = s.Records.RecordClear(ctx, run.Clear(sess.EnemySpecies, now))
	case battle.Defeat:
		if f, ok := run.Memorial(now); ok {
			err = s.Records.RecordFallen(ctx, f)
		} else if g, ok := run.Ghost(); ok {
			err = s.Records.SetGhost(ctx, g)
		}
	default:
		return
	}
	if err != nil {
		s.Logger.Warn("keeping run records",
			zap.String("run", run.ID),
			zap.String("state", string(res.State.Kind())),
			zap.Error(err),
		)
	}
}

// ghostAt returns the ghost standing on pos, if any.
func (s *Service) ghostAt(ctx context.Context, pos world.Position) *world.Ghost {
	if s.Records == nil {
		return nil
	}
	g, err := s.Records.Ghost(ctx)
	if err != nil {
		s.Logger.Warn("loading ghost", zap.Error(err))
		return nil
	}
	if g == nil || g.Position != pos {
		return nil
	}
	return g
}
