package progress

import (
	"context"
	"log/slog"

	"github.com/abhisek/quizly/internal/store"
)

// SQLStore persists progress through a store.ProgressRepo.
type SQLStore struct {
	repo   store.ProgressRepo
	logger *slog.Logger
}

var _ Store = (*SQLStore)(nil)

// NewSQLStore creates a durable progress store.
func NewSQLStore(repo store.ProgressRepo, logger *slog.Logger) *SQLStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &SQLStore{repo: repo, logger: logger}
}

func (s *SQLStore) UnlockedLevel(ctx context.Context, topicID string) int {
	level, ok, err := s.repo.Unlocked(ctx, topicID)
	if err != nil {
		s.logger.Warn("progress read failed, defaulting to level 1", "topic", topicID, "error", err)
		return 1
	}
	if !ok {
		return 1
	}
	return clampRead(level)
}

func (s *SQLStore) RecordPass(ctx context.Context, topicID string, levelPassed int) error {
	if err := checkLevel(levelPassed); err != nil {
		return err
	}
	target := nextLevel(levelPassed)
	current, err := s.repo.Raise(ctx, topicID, target)
	if err != nil {
		s.logger.Warn("progress write failed", "topic", topicID, "level", levelPassed, "error", err)
		return &WriteError{TopicID: topicID, Level: levelPassed, Err: err}
	}
	s.logger.Debug("progress recorded", "topic", topicID, "passed", levelPassed, "unlocked", current)
	return nil
}

func (s *SQLStore) Reset(ctx context.Context, topicID string) error {
	return s.repo.Reset(ctx, topicID)
}
