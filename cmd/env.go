package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizly/internal/bank"
	"github.com/abhisek/quizly/internal/logging"
	"github.com/abhisek/quizly/internal/progress"
	"github.com/abhisek/quizly/internal/results"
	"github.com/abhisek/quizly/internal/selection"
	"github.com/abhisek/quizly/internal/store"
)

// env holds what the quiz commands open: the question bank, the store and
// the services built on it.
type env struct {
	Bank      *bank.Bank
	Store     *store.Store // nil with --ephemeral
	Progress  progress.Store
	Selection *selection.Selection
	Results   *results.Aggregator
	Attempts  results.AttemptLog // nil with --ephemeral
	Logger    *slog.Logger

	closers []func() error
}

// openEnv loads the question bank and opens the store. The TUI logs to the
// --log file only, since anything written to stderr would tear its screen.
func openEnv(cmd *cobra.Command, tui bool) (*env, error) {
	verbose, _ := cmd.Flags().GetBool("verbose")
	e := &env{}

	if tui {
		e.Logger = logging.Discard()
		if path := flagOrEnv(cmd, "log", "QUIZLY_LOG"); path != "" {
			logger, closeLog, err := logging.File(path, verbose)
			if err != nil {
				return nil, err
			}
			e.Logger = logger
			e.closers = append(e.closers, closeLog)
		}
	} else {
		e.Logger = logging.Console(os.Stderr, verbose)
	}

	b, err := loadBank(cmd)
	if err != nil {
		e.Close()
		return nil, err
	}
	e.Bank = b

	if ephemeral, _ := cmd.Flags().GetBool("ephemeral"); ephemeral {
		e.Progress = progress.NewMemoryStore()
		e.Selection = selection.New(selection.NewMemorySettings())
		e.Results = results.NewAggregator(e.Progress, e.Logger)
		return e, nil
	}

	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		e.Close()
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		e.Close()
		return nil, fmt.Errorf("open database: %w", err)
	}
	e.Logger.Debug("store opened", "path", dbPath)

	e.Store = st
	e.closers = append(e.closers, st.Close)
	e.Progress = progress.NewSQLStore(st.Progress(), e.Logger)
	e.Selection = selection.New(st.Settings())
	e.Results = results.NewAggregator(e.Progress, e.Logger)
	e.Attempts = st.Attempts()
	return e, nil
}

// EventRepo returns the LLM event log, or nil without a store.
func (e *env) EventRepo() store.EventRepo {
	if e.Store == nil {
		return nil
	}
	return e.Store.EventRepo()
}

// Close releases the store and log file, newest first.
func (e *env) Close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		if err := e.closers[i](); err != nil && e.Logger != nil {
			e.Logger.Warn("close", "error", err)
		}
	}
	e.closers = nil
}

// loadBank reads the question bank from --data or QUIZLY_DATA, falling back
// to the embedded one.
func loadBank(cmd *cobra.Command) (*bank.Bank, error) {
	dir := flagOrEnv(cmd, "data", "QUIZLY_DATA")
	var (
		b   *bank.Bank
		err error
	)
	if dir == "" {
		b, err = bank.Default()
	} else {
		b, err = bank.LoadDir(dir)
	}

	var invalid *bank.InvalidError
	switch {
	case errors.As(err, &invalid):
		return nil, fmt.Errorf("%w %s:\n  - %s", bank.ErrInvalid, invalid.Source, strings.Join(invalid.Problems, "\n  - "))
	case err != nil:
		return nil, fmt.Errorf("load question bank: %w", err)
	}
	return b, nil
}

// openStore opens the database for the log and progress commands, which
// need durable data even when --ephemeral is set.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}
