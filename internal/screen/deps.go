package screen

import (
	"log/slog"
	"math/rand/v2"

	"github.com/abhisek/quizly/internal/bank"
	"github.com/abhisek/quizly/internal/feedback"
	"github.com/abhisek/quizly/internal/progress"
	"github.com/abhisek/quizly/internal/results"
	"github.com/abhisek/quizly/internal/selection"
)

// Deps bundles the collaborators the quiz screens share. It is built once
// by the app and passed down as screens push each other.
type Deps struct {
	Bank      *bank.Bank
	Progress  progress.Store
	Selection *selection.Selection
	Results   *results.Aggregator
	Attempts  results.AttemptLog // nil skips the attempt history
	Feedback  *feedback.Service
	Logger    *slog.Logger

	// TimerSeconds overrides the per-question countdown when positive.
	TimerSeconds int

	// RNG seeds backdrop animations; nil picks a random seed.
	RNG *rand.Rand
}

// Log returns the configured logger or slog.Default().
func (d Deps) Log() *slog.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return slog.Default()
}
