// Package selection persists what the player picked and the outcome of the
// last attempt, so each screen can be entered on its own. Screens call the
// Require* functions on entry and go back home when they fail.
package selection

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/abhisek/quizly/internal/quiz"
	"github.com/abhisek/quizly/internal/store"
)

// Setting keys.
const (
	KeyTopic          = "selectedTopic"
	KeyLevel          = "selectedLevel"
	KeyScore          = "quizScore"
	KeyTotalQuestions = "totalQuestions"
	KeyResults        = "quizResults"
)

// ErrPreconditionMissing means a value the screen depends on was never
// stored, or could not be read back.
var ErrPreconditionMissing = errors.New("precondition missing")

// LastResults is the stored outcome of the most recent attempt.
type LastResults struct {
	Score   int
	Total   int
	Records []quiz.AnswerRecord
}

// Selection reads and writes the selection keys.
type Selection struct {
	settings store.SettingsRepo
}

// New creates a Selection over a settings repository.
func New(settings store.SettingsRepo) *Selection {
	return &Selection{settings: settings}
}

// SetTopic stores the chosen topic and forgets the chosen level.
func (s *Selection) SetTopic(ctx context.Context, topicID string) error {
	if err := s.settings.Set(ctx, KeyTopic, topicID); err != nil {
		return err
	}
	return s.settings.Delete(ctx, KeyLevel)
}

// SetLevel stores the chosen level.
func (s *Selection) SetLevel(ctx context.Context, level int) error {
	return s.settings.Set(ctx, KeyLevel, strconv.Itoa(level))
}

// SaveResults stores the outcome of a finished attempt.
func (s *Selection) SaveResults(ctx context.Context, attempt quiz.Attempt) error {
	records := attempt.Records
	if records == nil {
		records = []quiz.AnswerRecord{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode results: %w", err)
	}
	for _, kv := range [][2]string{
		{KeyScore, strconv.Itoa(attempt.Score)},
		{KeyTotalQuestions, strconv.Itoa(attempt.QuestionCount)},
		{KeyResults, string(data)},
	} {
		if err := s.settings.Set(ctx, kv[0], kv[1]); err != nil {
			return err
		}
	}
	return nil
}

// Clear removes every selection key.
func (s *Selection) Clear(ctx context.Context) error {
	return s.settings.Delete(ctx, KeyTopic, KeyLevel, KeyScore, KeyTotalQuestions, KeyResults)
}

// RequireTopic returns the chosen topic.
func (s *Selection) RequireTopic(ctx context.Context) (string, error) {
	return s.require(ctx, KeyTopic)
}

// RequireLevel returns the chosen level.
func (s *Selection) RequireLevel(ctx context.Context) (int, error) {
	return s.requireInt(ctx, KeyLevel)
}

// RequireResults returns the outcome of the last attempt.
func (s *Selection) RequireResults(ctx context.Context) (LastResults, error) {
	score, err := s.requireInt(ctx, KeyScore)
	if err != nil {
		return LastResults{}, err
	}
	total, err := s.requireInt(ctx, KeyTotalQuestions)
	if err != nil {
		return LastResults{}, err
	}
	raw, err := s.require(ctx, KeyResults)
	if err != nil {
		return LastResults{}, err
	}

	var records []quiz.AnswerRecord
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		return LastResults{}, fmt.Errorf("%w: decode %s: %w", ErrPreconditionMissing, KeyResults, err)
	}
	return LastResults{Score: score, Total: total, Records: records}, nil
}

func (s *Selection) require(ctx context.Context, key string) (string, error) {
	v, ok, err := s.settings.Get(ctx, key)
	if err != nil {
		return "", fmt.Errorf("%w: read %s: %w", ErrPreconditionMissing, key, err)
	}
	if !ok || v == "" {
		return "", fmt.Errorf("%w: %s", ErrPreconditionMissing, key)
	}
	return v, nil
}

func (s *Selection) requireInt(ctx context.Context, key string) (int, error) {
	v, err := s.require(ctx, key)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q is not a number", ErrPreconditionMissing, key, v)
	}
	return n, nil
}
