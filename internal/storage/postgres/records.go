package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/scarsofash/internal/game/world"
)

// Best aggregates the boss clears recorded on one difficulty.
type Best struct {
	Difficulty string `json:"difficulty"`
	// Runs counts distinct runs with at least one clear.
	Runs         int           `json:"runs"`
	FastestClear time.Duration `json:"fastest_clear"`
	LowestScars  int           `json:"lowest_scars"`
	Bosses       []string      `json:"bosses"`
}

// RecordRepository keeps records that outlive a run: boss clears, the
// permadeath memorial and the last ghost.
type RecordRepository struct {
	db *pgxpool.Pool
}

// NewRecordRepository creates a RecordRepository backed by db.
func NewRecordRepository(db *pgxpool.Pool) *RecordRepository {
	return &RecordRepository{db: db}
}

// RecordClear stores a boss clear. Beating the same boss again on a run
// keeps the first clear.
func (r *RecordRepository) RecordClear(ctx context.Context, c world.Clear) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO clears (run_id, boss, name, difficulty, play_time_ms, total_scars)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (run_id, boss) DO NOTHING`,
		c.RunID, c.Boss, c.Name, c.Difficulty, c.PlayTime.Milliseconds(), c.TotalScars,
	)
	if err != nil {
		return fmt.Errorf("recording clear of %s for run %s: %w", c.Boss, c.RunID, err)
	}
	return nil
}

// Bests returns one row per difficulty with any clear, ordered by difficulty id.
func (r *RecordRepository) Bests(ctx context.Context) ([]Best, error) {
	rows, err := r.db.Query(ctx,
		`SELECT difficulty, COUNT(DISTINCT run_id), MIN(play_time_ms), MIN(total_scars),
		        ARRAY_AGG(DISTINCT boss ORDER BY boss)
		 FROM clears GROUP BY difficulty ORDER BY difficulty`,
	)
	if err != nil {
		return nil, fmt.Errorf("querying bests: %w", err)
	}
	defer rows.Close()

	var out []Best
	for rows.Next() {
		var (
			b  Best
			ms int64
		)
		if err := rows.Scan(&b.Difficulty, &b.Runs, &ms, &b.LowestScars, &b.Bosses); err != nil {
			return nil, fmt.Errorf("scanning best: %w", err)
		}
		b.FastestClear = time.Duration(ms) * time.Millisecond
		out = append(out, b)
	}
	return out, rows.Err()
}

// RecordFallen adds f to the memorial and trims it to world.FallenLimit
// entries, newest first.
func (r *RecordRepository) RecordFallen(ctx context.Context, f world.Fallen) error {
	team, err := json.Marshal(f.Team)
	if err != nil {
		return fmt.Errorf("encoding fallen team: %w", err)
	}
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning fallen tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx,
		`INSERT INTO fallen (run_id, name, play_time_ms, final_map, total_scars, team, fell_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (run_id) DO NOTHING`,
		f.RunID, f.Name, f.PlayTime.Milliseconds(), f.FinalMap, f.TotalScars, team, f.FellAt,
	)
	if err != nil {
		return fmt.Errorf("recording fallen run %s: %w", f.RunID, err)
	}
	_, err = tx.Exec(ctx,
		`DELETE FROM fallen WHERE id NOT IN (
		     SELECT id FROM fallen ORDER BY fell_at DESC, id DESC LIMIT $1)`,
		world.FallenLimit,
	)
	if err != nil {
		return fmt.Errorf("trimming memorial: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing fallen tx: %w", err)
	}
	return nil
}

// Fallen returns up to limit memorial entries, newest first.
func (r *RecordRepository) Fallen(ctx context.Context, limit int) ([]world.Fallen, error) {
	rows, err := r.db.Query(ctx,
		`SELECT run_id, name, play_time_ms, final_map, total_scars, team, fell_at
		 FROM fallen ORDER BY fell_at DESC, id DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing fallen: %w", err)
	}
	defer rows.Close()

	var out []world.Fallen
	for rows.Next() {
		var (
			f    world.Fallen
			ms   int64
			team []byte
		)
		if err := rows.Scan(&f.RunID, &f.Name, &ms, &f.FinalMap, &f.TotalScars, &team, &f.FellAt); err != nil {
			return nil, fmt.Errorf("scanning fallen: %w", err)
		}
		if err := json.Unmarshal(team, &f.Team); err != nil {
			return nil, fmt.Errorf("decoding fallen team of %s: %w", f.RunID, err)
		}
		f.PlayTime = time.Duration(ms) * time.Millisecond
		out = append(out, f)
	}
	return out, rows.Err()
}

// SetGhost replaces the ghost with g.
func (r *RecordRepository) SetGhost(ctx context.Context, g world.Ghost) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO ghost (slot, run_id, name, map, x, y, fell_at)
		 VALUES (1, $1, $2, $3, $4, $5, NOW())
		 ON CONFLICT (slot) DO UPDATE
		 SET run_id = EXCLUDED.run_id, name = EXCLUDED.name, map = EXCLUDED.map,
		     x = EXCLUDED.x, y = EXCLUDED.y, fell_at = NOW()`,
		g.RunID, g.Name, g.Position.Map, g.Position.X, g.Position.Y,
	)
	if err != nil {
		return fmt.Errorf("setting ghost: %w", err)
	}
	return nil
}

// Ghost returns the last ghost, or nil when no run has wiped yet.
func (r *RecordRepository) Ghost(ctx context.Context) (*world.Ghost, error) {
	var g world.Ghost
	err := r.db.QueryRow(ctx,
		`SELECT run_id, name, map, x, y FROM ghost WHERE slot = 1`,
	).Scan(&g.RunID, &g.Name, &g.Position.Map, &g.Position.X, &g.Position.Y)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("loading ghost: %w", err)
	}
	return &g, nil
}
