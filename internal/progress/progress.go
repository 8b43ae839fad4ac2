// Package progress tracks the highest unlocked level per topic.
//
// The unlocked level starts at 1, only ever increases through RecordPass,
// and never exceeds bank.TotalLevels. Reads never fail: any storage problem
// degrades to level 1 so the level list is always usable.
package progress

import (
	"context"
	"errors"
	"fmt"

	"github.com/abhisek/quizly/internal/bank"
)

// ErrNotSaved is matched by *WriteError.
var ErrNotSaved = errors.New("progress not saved")

// WriteError reports a failed unlock write. Callers surface it as a warning:
// the quiz result stands, but the unlock may be lost on reload.
type WriteError struct {
	TopicID string
	Level   int
	Err     error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("save progress for %q level %d: %v", e.TopicID, e.Level, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

func (e *WriteError) Is(target error) bool { return target == ErrNotSaved }

// Store is the progression model used by the level list and the results
// aggregator.
type Store interface {
	// UnlockedLevel returns the highest playable level for a topic.
	// It never fails; unknown topics and read errors yield 1.
	UnlockedLevel(ctx context.Context, topicID string) int

	// RecordPass unlocks the level after levelPassed, capped at
	// bank.TotalLevels. Replaying an older pass is a no-op.
	RecordPass(ctx context.Context, topicID string, levelPassed int) error

	// Reset forgets a topic's progress, or all progress when topicID is
	// empty. Used only by explicit user request.
	Reset(ctx context.Context, topicID string) error
}

// Playable reports whether level can be started for topicID.
func Playable(ctx context.Context, s Store, topicID string, level int) bool {
	return level >= 1 && level <= s.UnlockedLevel(ctx, topicID)
}

// nextLevel is the level unlocked by passing level.
func nextLevel(level int) int {
	return min(level+1, bank.TotalLevels)
}

// clampRead normalizes a stored value for reading.
func clampRead(level int) int {
	if level < 1 {
		return 1
	}
	return min(level, bank.TotalLevels)
}

func checkLevel(level int) error {
	if level < 1 || level > bank.TotalLevels {
		return fmt.Errorf("level %d out of range 1..%d", level, bank.TotalLevels)
	}
	return nil
}
