// Package service joins the battle engine to run storage and persistence.
// Every operation loads a run, applies one engine or world operation and
// stores the result under a per-run lock, so a player submission never
// interleaves with an enemy turn.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/scarsofash/internal/game/battle"
	"github.com/cory-johannsen/scarsofash/internal/game/dice"
	"github.com/cory-johannsen/scarsofash/internal/game/difficulty"
	"github.com/cory-johannsen/scarsofash/internal/game/species"
	"github.com/cory-johannsen/scarsofash/internal/game/world"
	"github.com/cory-johannsen/scarsofash/internal/storage/postgres"
	"github.com/cory-johannsen/scarsofash/internal/store"
)

var (
	ErrRunNotFound       = errors.New("run not found")
	ErrNoBattle          = errors.New("no battle in progress")
	ErrInvalidInput      = errors.New("invalid input")
	ErrNotStarter        = errors.New("species is not a starter")
	ErrUnknownDifficulty = errors.New("unknown difficulty")
	ErrNotAtBonfire      = errors.New("not standing at a bonfire")
	ErrNoEncounter       = errors.New("no encounter here")
	ErrNoBoss            = errors.New("no boss here")
	ErrNoRecords         = errors.New("records are not kept")
)

//go:generate mockgen -destination=mocks/mock_persistence.go -package=mocks github.com/cory-johannsen/scarsofash/internal/game/service SaveRepository,StatsRecorder,RecordKeeper

// SaveRepository stores durable run snapshots.
type SaveRepository interface {
	Save(ctx context.Context, run *world.Run) error
	Load(ctx context.Context, runID string) (*world.Run, error)
}

// StatsRecorder appends run events and aggregates them.
type StatsRecorder interface {
	Record(ctx context.Context, events ...postgres.RunEvent) error
	Summary(ctx context.Context, runID string) (postgres.RunSummary, error)
	Totals(ctx context.Context) (postgres.Totals, error)
}

// RecordKeeper holds records that outlive a run.
type RecordKeeper interface {
	RecordClear(ctx context.Context, c world.Clear) error
	Bests(ctx context.Context) ([]postgres.Best, error)
	RecordFallen(ctx context.Context, f world.Fallen) error
	Fallen(ctx context.Context, limit int) ([]world.Fallen, error)
	SetGhost(ctx context.Context, g world.Ghost) error
	Ghost(ctx context.Context) (*world.Ghost, error)
}

// Options tune the service.
type Options struct {
	// Difficulty is used for new runs that name none.
	Difficulty string
	// AutoEnemyTurn resolves the enemy turn EnemyTurnDelay after the
	// player acts, without a client request.
	AutoEnemyTurn  bool
	EnemyTurnDelay time.Duration
}

// Deps are the service's collaborators. Saves, Stats and Records may be nil.
type Deps struct {
	Atlas   *world.Atlas
	Catalog *species.Catalog
	Engine  *battle.Engine
	Wild    *world.WildFactory
	Runs    store.Store[*world.Run]
	Battles store.Store[*battle.Session]
	Saves   SaveRepository
	Stats   StatsRecorder
	Records RecordKeeper
	Source  dice.Source
	Logger  *zap.Logger
}

// Service is safe for concurrent use.
type Service struct {
	Deps
	opts Options

	mu     sync.Mutex
	locks  map[string]*sync.Mutex
	timers map[string]*battle.TurnTimer
}

// New builds a Service.
//
// Precondition: Atlas, Catalog, Engine, Wild, Runs, Battles and Source must be non-nil.
func New(deps Deps, opts Options) (*Service, error) {
	if deps.Atlas == nil || deps.Catalog == nil || deps.Engine == nil || deps.Wild == nil ||
		deps.Runs == nil || deps.Battles == nil || deps.Source == nil {
		return nil, errors.New("service: missing required dependency")
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if opts.Difficulty == "" {
		opts.Difficulty = difficulty.Default
	}
	if opts.AutoEnemyTurn && opts.EnemyTurnDelay <= 0 {
		return nil, fmt.Errorf("service: enemy turn delay must be positive, got %s", opts.EnemyTurnDelay)
	}
	return &Service{
		Deps:   deps,
		opts:   opts,
		locks:  make(map[string]*sync.Mutex),
		timers: make(map[string]*battle.TurnTimer),
	}, nil
}

// lock serializes operations on one run.
func (s *Service) lock(runID string) func() {
	s.mu.Lock()
	l, ok := s.locks[runID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[runID] = l
	}
	s.mu.Unlock()
	l.Lock()
	return l.Unlock
}

// Close stops every pending enemy turn timer.
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, t := range s.timers {
		t.Stop()
		delete(s.timers, id)
	}
}

// NewRun starts a run at the start bonfire with one starter.
func (s *Service) NewRun(ctx context.Context, name, starterID, difficultyID string) (*world.Run, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if difficultyID == "" {
		difficultyID = s.opts.Difficulty
	}
	if _, ok := difficulty.Get(difficultyID); !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDifficulty, difficultyID)
	}
	sp, err := s.Catalog.Get(starterID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if !sp.Starter {
		return nil, fmt.Errorf("%w: %q", ErrNotStarter, starterID)
	}
	run := world.NewRun(name, sp, difficultyID, s.Atlas.Start(), s.Atlas.EncounterTiles())
	if err := s.Runs.Put(ctx, run.ID, run); err != nil {
		return nil, fmt.Errorf("storing run: %w", err)
	}
	s.Logger.Info("run created",
		zap.String("run", run.ID),
		zap.String("starter", sp.ID),
		zap.String("difficulty", run.Difficulty),
	)
	return run, nil
}

// GetRun returns the stored run. A run missing from the hot store is
// restored from its last bonfire save when one exists.
func (s *Service) GetRun(ctx context.Context, runID string) (*world.Run, error) {
	unlock := s.lock(runID)
	defer unlock()
	return s.loadRun(ctx, runID)
}

func (s *Service) loadRun(ctx context.Context, runID string) (*world.Run, error) {
	run, err := s.Runs.Get(ctx, runID)
	if err == nil {
		return run, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("loading run: %w", err)
	}
	if s.Saves == nil {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	run, err = s.Saves.Load(ctx, runID)
	if err != nil {
		if errors.Is(err, postgres.ErrSaveNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, fmt.Errorf("restoring run: %w", err)
	}
	if err := s.Runs.Put(ctx, run.ID, run); err != nil {
		return nil, fmt.Errorf("storing run: %w", err)
	}
	s.Logger.Info("run restored from save", zap.String("run", runID))
	return run, nil
}

func (s *Service) putRun(ctx context.Context, run *world.Run) error {
	if err := s.Runs.Put(ctx, run.ID, run); err != nil {
		return fmt.Errorf("storing run: %w", err)
	}
	return nil
}

func (s *Service) record(ctx context.Context, events ...postgres.RunEvent) {
	if s.Stats == nil || len(events) == 0 {
		return
	}
	if err := s.Stats.Record(ctx, events...); err != nil {
		s.Logger.Warn("recording run events", zap.Int("events", len(events)), zap.Error(err))
	}
}
