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

// ErrSaveNotFound is returned when no save exists for a run id.
var ErrSaveNotFound = errors.New("save not found")

// SaveSummary describes one save slot without loading the run.
type SaveSummary struct {
	RunID      string    `json:"run_id"`
	Name       string    `json:"name"`
	Difficulty string    `json:"difficulty"`
	Over       bool      `json:"over"`
	SavedAt    time.Time `json:"saved_at"`
}

// SaveRepository stores whole runs as JSON, one slot per run.
type SaveRepository struct {
	db *pgxpool.Pool
}

// NewSaveRepository creates a SaveRepository backed by db.
//
// Precondition: db must be a valid, open connection pool.
func NewSaveRepository(db *pgxpool.Pool) *SaveRepository {
	return &SaveRepository{db: db}
}

// Save writes run into its slot, replacing any earlier save.
//
// Precondition: run must be non-nil with a non-empty ID.
func (r *SaveRepository) Save(ctx context.Context, run *world.Run) error {
	data, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("encoding run %s: %w", run.ID, err)
	}
	_, err = r.db.Exec(ctx,
		`INSERT INTO saves (run_id, name, difficulty, over, data, created_at, saved_at)
		 VALUES ($1, $2, $3, $4, $5, $6, NOW())
		 ON CONFLICT (run_id) DO UPDATE
		 SET name = EXCLUDED.name, difficulty = EXCLUDED.difficulty,
		     over = EXCLUDED.over, data = EXCLUDED.data, saved_at = NOW()`,
		run.ID, run.Name, run.Difficulty, run.Over, data, run.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("saving run %s: %w", run.ID, err)
	}
	return nil
}

// Load returns the saved run.
//
// Postcondition: Returns the run or ErrSaveNotFound.
func (r *SaveRepository) Load(ctx context.Context, runID string) (*world.Run, error) {
	var data []byte
	err := r.db.QueryRow(ctx, `SELECT data FROM saves WHERE run_id = $1`, runID).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSaveNotFound
		}
		return nil, fmt.Errorf("loading run %s: %w", runID, err)
	}
	var run world.Run
	if err := json.Unmarshal(data, &run); err != nil {
		return nil, fmt.Errorf("decoding run %s: %w", runID, err)
	}
	return &run, nil
}

// List returns up to limit saves, most recently saved first.
func (r *SaveRepository) List(ctx context.Context, limit int) ([]SaveSummary, error) {
	rows, err := r.db.Query(ctx,
		`SELECT run_id, name, difficulty, over, saved_at
		 FROM saves ORDER BY saved_at DESC, run_id LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing saves: %w", err)
	}
	defer rows.Close()

	var out []SaveSummary
	for rows.Next() {
		var s SaveSummary
		if err := rows.Scan(&s.RunID, &s.Name, &s.Difficulty, &s.Over, &s.SavedAt); err != nil {
			return nil, fmt.Errorf("scanning save: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Delete removes a save slot.
//
// Postcondition: Returns ErrSaveNotFound when there was no slot.
func (r *SaveRepository) Delete(ctx context.Context, runID string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM saves WHERE run_id = $1`, runID)
	if err != nil {
		return fmt.Errorf("deleting save %s: %w", runID, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrSaveNotFound
	}
	return nil
}
