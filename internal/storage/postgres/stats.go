package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EventKind classifies a recorded run event.
type EventKind string

const (
	EventFaint   EventKind = "faint"
	EventScar    EventKind = "scar"
	EventHollow  EventKind = "hollowed"
	EventCapture EventKind = "capture"
	EventVictory EventKind = "victory"
	EventCleared EventKind = "cleared"
	EventWipe    EventKind = "wipe"
	EventFled    EventKind = "fled"
	EventBonfire EventKind = "bonfire"
)

// RunEvent is one notable thing that happened on a run.
type RunEvent struct {
	RunID     string
	Kind      EventKind
	SpeciesID string
	// Detail carries the scar id, boss id and so on.
	Detail string
	// Amount carries souls earned, dropped or banked.
	Amount int
}

// RunSummary aggregates a run's events.
type RunSummary struct {
	RunID    string            `json:"run_id"`
	Counts   map[EventKind]int `json:"counts"`
	Souls    map[EventKind]int `json:"souls"`
	Recorded int               `json:"recorded"`
}

// StatsRepository appends run events and aggregates them.
type StatsRepository struct {
	db *pgxpool.Pool
}

// NewStatsRepository creates a StatsRepository backed by db.
func NewStatsRepository(db *pgxpool.Pool) *StatsRepository {
	return &StatsRepository{db: db}
}

// Record appends events in one transaction.
func (r *StatsRepository) Record(ctx context.Context, events ...RunEvent) error {
	if len(events) == 0 {
		return nil
	}
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning stats tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, e := range events {
		_, err := tx.Exec(ctx,
			`INSERT INTO run_events (run_id, kind, species_id, detail, amount)
			 VALUES ($1, $2, $3, $4, $5)`,
			e.RunID, string(e.Kind), e.SpeciesID, e.Detail, e.Amount,
		)
		if err != nil {
			return fmt.Errorf("recording %s event: %w", e.Kind, err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing stats tx: %w", err)
	}
	return nil
}

// Summary counts a run's events by kind. A run with no events yields an
// empty summary.
func (r *StatsRepository) Summary(ctx context.Context, runID string) (RunSummary, error) {
	rows, err := r.db.Query(ctx,
		`SELECT kind, COUNT(*), COALESCE(SUM(amount), 0)
		 FROM run_events WHERE run_id = $1 GROUP BY kind`,
		runID,
	)
	if err != nil {
		return RunSummary{}, fmt.Errorf("summarizing run %s: %w", runID, err)
	}
	defer rows.Close()

	sum := RunSummary{RunID: runID, Counts: map[EventKind]int{}, Souls: map[EventKind]int{}}
	for rows.Next() {
		var (
			kind  string
			count int
			souls int
		)
		if err := rows.Scan(&kind, &count, &souls); err != nil {
			return RunSummary{}, fmt.Errorf("scanning summary: %w", err)
		}
		sum.Counts[EventKind(kind)] = count
		if souls != 0 {
			sum.Souls[EventKind(kind)] = souls
		}
		sum.Recorded += count
	}
	return sum, rows.Err()
}

// Totals aggregates events across every run.
type Totals struct {
	Runs   int               `json:"runs"`
	Counts map[EventKind]int `json:"counts"`
	// Collected lists every species ever bound, sorted.
	Collected []string `json:"collected"`
}

// Totals counts events of all runs by kind.
func (r *StatsRepository) Totals(ctx context.Context) (Totals, error) {
	t := Totals{Counts: map[EventKind]int{}, Collected: []string{}}
	if err := r.db.QueryRow(ctx, `SELECT COUNT(DISTINCT run_id) FROM run_events`).Scan(&t.Runs); err != nil {
		return Totals{}, fmt.Errorf("counting runs: %w", err)
	}

	rows, err := r.db.Query(ctx, `SELECT kind, COUNT(*) FROM run_events GROUP BY kind`)
	if err != nil {
		return Totals{}, fmt.Errorf("totaling events: %w", err)
	}
	for rows.Next() {
		var (
			kind  string
			count int
		)
		if err := rows.Scan(&kind, &count); err != nil {
			rows.Close()
			return Totals{}, fmt.Errorf("scanning totals: %w", err)
		}
		t.Counts[EventKind(kind)] = count
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return Totals{}, fmt.Errorf("totaling events: %w", err)
	}

	rows, err = r.db.Query(ctx,
		`SELECT DISTINCT species_id FROM run_events
		 WHERE kind = $1 AND species_id <> '' ORDER BY species_id`,
		string(EventCapture),
	)
	if err != nil {
		return Totals{}, fmt.Errorf("listing captures: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return Totals{}, fmt.Errorf("scanning capture: %w", err)
		}
		t.Collected = append(t.Collected, id)
	}
	return t, rows.Err()
}
