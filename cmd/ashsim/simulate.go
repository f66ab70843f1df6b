package main

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cory-johannsen/scarsofash/internal/game/ai"
	"github.com/cory-johannsen/scarsofash/internal/game/battle"
	"github.com/cory-johannsen/scarsofash/internal/game/combat"
	"github.com/cory-johannsen/scarsofash/internal/game/dice"
	"github.com/cory-johannsen/scarsofash/internal/game/difficulty"
	"github.com/cory-johannsen/scarsofash/internal/game/species"
	"github.com/cory-johannsen/scarsofash/internal/game/status"
	"github.com/cory-johannsen/scarsofash/internal/game/world"
)

// simOptions configures one simulated battle.
type simOptions struct {
	ContentDir string
	Seed       uint64
	Starter    string
	Enemy      string
	Difficulty string
	MaxTurns   int
	RollChance bool
}

var simOpts = simOptions{
	Starter:    "cindrath",
	Enemy:      "wildThornwick",
	Difficulty: difficulty.Default,
	MaxTurns:   200,
	Seed:       1,
}

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Fight one battle with a greedy player policy",
	RunE: func(cmd *cobra.Command, args []string) error {
		simOpts.ContentDir = contentDir
		res, sess, err := simulate(simOpts, cmd.OutOrStdout())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "-- %s after %d turns\n", res.Outcome, sess.Turn)
		return nil
	},
}

func init() {
	simulateCmd.Flags().Uint64Var(&simOpts.Seed, "seed", simOpts.Seed, "dice seed")
	simulateCmd.Flags().StringVar(&simOpts.Starter, "starter", simOpts.Starter, "player species id")
	simulateCmd.Flags().StringVar(&simOpts.Enemy, "enemy", simOpts.Enemy, "enemy species id")
	simulateCmd.Flags().StringVar(&simOpts.Difficulty, "difficulty", simOpts.Difficulty, "difficulty id")
	simulateCmd.Flags().IntVar(&simOpts.MaxTurns, "max-turns", simOpts.MaxTurns, "stop after this many player turns")
	simulateCmd.Flags().BoolVar(&simOpts.RollChance, "roll-effect-chance", false, "roll move effect chances")
}

// simulate plays one battle to its end, writing every new log line to out.
//
// Postcondition: on success the session is over or MaxTurns was reached.
func simulate(opts simOptions, out io.Writer) (battle.Result, *battle.Session, error) {
	if _, ok := difficulty.Get(opts.Difficulty); !ok {
		return battle.Result{}, nil, fmt.Errorf("unknown difficulty %q", opts.Difficulty)
	}
	cat, err := species.LoadDirectory(filepath.Join(opts.ContentDir, "species"))
	if err != nil {
		return battle.Result{}, nil, err
	}
	reg, err := status.LoadDirectory(filepath.Join(opts.ContentDir, "statuses"))
	if err != nil {
		return battle.Result{}, nil, err
	}
	starter, err := cat.Get(opts.Starter)
	if err != nil {
		return battle.Result{}, nil, err
	}

	src := dice.NewSeededSource(opts.Seed)
	logger := zap.NewNop()
	wild := world.NewWildFactory(cat, src)
	engine := battle.NewEngine(cat,
		combat.NewResolver(reg, src, logger, opts.RollChance),
		ai.NewSelector(nil, src, logger),
		wild, logger)

	run := world.NewRun("sim", starter, opts.Difficulty, world.Position{}, nil)
	sess, err := engine.Start(run, opts.Enemy, battle.StartOptions{})
	if err != nil {
		return battle.Result{}, nil, err
	}
	printed := flush(out, sess, 0)

	var res battle.Result
	for !sess.Over() && sess.Turn < opts.MaxTurns {
		switch sess.State.(type) {
		case battle.PlayerTurn:
			active := run.Team.ActiveCreature()
			sp, err := cat.Get(active.SpeciesID)
			if err != nil {
				return res, sess, err
			}
			move, ok := greedyMove(sp.Moves, active.Stamina)
			if !ok {
				return res, sess, fmt.Errorf("%s has no affordable move", active.Name)
			}
			res, err = engine.SubmitMove(sess, move.Name)
		case battle.EnemyTurn:
			res, err = engine.AdvanceEnemyTurn(sess)
		default:
			err = fmt.Errorf("unexpected state %T", sess.State)
		}
		if err != nil {
			return res, sess, err
		}
		printed = flush(out, sess, printed)
	}
	if !sess.Over() {
		return res, sess, errors.New("battle did not finish within max turns")
	}
	return res, sess, nil
}

// greedyMove picks the hardest-hitting move the creature can pay for. With
// nothing damaging affordable it falls back to the cheapest move.
func greedyMove(moves []species.Move, stamina int) (species.Move, bool) {
	var best, cheapest species.Move
	var haveBest, haveCheap bool
	for _, m := range moves {
		if m.Cost > stamina {
			continue
		}
		if m.Damaging() && (!haveBest || m.Damage > best.Damage) {
			best, haveBest = m, true
		}
		if !haveCheap || m.Cost < cheapest.Cost {
			cheapest, haveCheap = m, true
		}
	}
	if haveBest {
		return best, true
	}
	return cheapest, haveCheap
}

func flush(out io.Writer, sess *battle.Session, from int) int {
	for _, line := range sess.Log[from:] {
		fmt.Fprintln(out, line)
	}
	return len(sess.Log)
}
