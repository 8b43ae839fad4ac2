// Package results turns a completed quiz attempt into a summary: pass or
// fail, the unlock it earned, and the questions worth reviewing.
package results

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/abhisek/quizly/internal/bank"
	"github.com/abhisek/quizly/internal/progress"
	"github.com/abhisek/quizly/internal/quiz"
	"github.com/abhisek/quizly/internal/store"
)

// PassThreshold is the minimum score ratio that passes a level.
const PassThreshold = 0.6

// SaveWarning is shown when the unlock could not be persisted.
const SaveWarning = "Your progress could not be saved. The next level may stay locked after a restart."

// ErrNoQuestions is returned for an attempt without questions.
var ErrNoQuestions = errors.New("attempt has no questions")

// AttemptLog receives evaluated attempts. Callers append through
// LogAttempt after Evaluate.
type AttemptLog interface {
	AppendAttempt(ctx context.Context, rec store.AttemptRecord) error
}

// Summary is what the results screen shows.
type Summary struct {
	Attempt   quiz.Attempt
	Passed    bool
	ScoreText string

	// Review holds the incorrect and timed out records, in question order.
	Review []quiz.AnswerRecord

	// Unlocked is the newly unlocked level, or 0 when nothing changed.
	Unlocked int

	// Warning is set when progress could not be saved.
	Warning string
}

// Perfect reports whether every question was answered correctly.
func (s Summary) Perfect() bool {
	return len(s.Review) == 0
}

// Passed reports whether score out of count meets PassThreshold.
func Passed(score, count int) bool {
	if count <= 0 {
		return false
	}
	// 10*score >= 6*count, kept in integers so 3/5 is exactly a pass.
	return score*10 >= count*int(PassThreshold*10)
}

// ScoreText formats a score as "s/t".
func ScoreText(score, count int) string {
	return fmt.Sprintf("%d/%d", score, count)
}

// Aggregator evaluates attempts and applies their effect on progress.
type Aggregator struct {
	progress progress.Store
	logger   *slog.Logger
}

// NewAggregator creates an Aggregator.
func NewAggregator(p progress.Store, logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{progress: p, logger: logger}
}

// Evaluate scores the attempt and records a pass. The progress write is its
// only side effect. A failed progress write
// still yields a complete summary with Warning set, alongside an error
// matching progress.ErrNotSaved.
func (a *Aggregator) Evaluate(ctx context.Context, attempt quiz.Attempt) (Summary, error) {
	if attempt.QuestionCount == 0 {
		return Summary{}, ErrNoQuestions
	}

	sum := Summary{
		Attempt:   attempt,
		Passed:    Passed(attempt.Score, attempt.QuestionCount),
		ScoreText: ScoreText(attempt.Score, attempt.QuestionCount),
		Review:    attempt.Incorrect(),
	}

	var saveErr error
	if sum.Passed && attempt.Level < bank.TotalLevels {
		before := a.progress.UnlockedLevel(ctx, attempt.TopicID)
		if err := a.progress.RecordPass(ctx, attempt.TopicID, attempt.Level); err != nil {
			a.logger.Warn("progress not saved",
				"topic", attempt.TopicID,
				"level", attempt.Level,
				"error", err,
			)
			sum.Warning = SaveWarning
			saveErr = err
		} else if after := a.progress.UnlockedLevel(ctx, attempt.TopicID); after > before {
			sum.Unlocked = after
		}
	}

	a.logger.Info("attempt evaluated",
		"attempt", attempt.ID,
		"topic", attempt.TopicID,
		"level", attempt.Level,
		"score", sum.ScoreText,
		"passed", sum.Passed,
	)
	return sum, saveErr
}

// LogAttempt appends an evaluated attempt to log. A nil log records nothing.
func LogAttempt(ctx context.Context, log AttemptLog, sum Summary) error {
	if log == nil {
		return nil
	}
	if err := log.AppendAttempt(ctx, ToRecord(sum.Attempt, sum.Passed)); err != nil {
		return fmt.Errorf("log attempt %s: %w", sum.Attempt.ID, err)
	}
	return nil
}

// ToRecord converts an attempt into its stored form.
func ToRecord(attempt quiz.Attempt, passed bool) store.AttemptRecord {
	answers := make([]store.AttemptAnswer, len(attempt.Records))
	for i, r := range attempt.Records {
		answers[i] = store.AttemptAnswer{
			Question:  r.Question,
			Selected:  r.Selected,
			Correct:   r.Correct,
			IsCorrect: r.IsCorrect,
			TimedOut:  r.TimedOut,
			HintUsed:  r.HintUsed,
		}
	}
	return store.AttemptRecord{
		AttemptID:  attempt.ID,
		TopicID:    attempt.TopicID,
		Level:      attempt.Level,
		Score:      attempt.Score,
		Total:      attempt.QuestionCount,
		Passed:     passed,
		Answers:    answers,
		StartedAt:  attempt.StartedAt,
		FinishedAt: attempt.FinishedAt,
	}
}
