package quiz

import (
	"errors"
	"time"
)

const (
	// TimerSeconds is the per-question countdown.
	TimerSeconds = 15

	// NoAnswer is recorded as the selection when the countdown expires.
	NoAnswer = "No Answer"

	// NoHintText is shown when a question carries no hint.
	NoHintText = "No hint available for this question."
)

// ErrNotComplete is returned by Result before the last question is answered.
var ErrNotComplete = errors.New("quiz not complete")

// Phase is the engine's position in the question loop.
type Phase int

const (
	// PhasePresenting: the current question is open for a selection.
	PhasePresenting Phase = iota
	// PhaseAnswered: the current question is locked; waiting for Advance.
	PhaseAnswered
	// PhaseComplete: every question has a record.
	PhaseComplete
)

func (p Phase) String() string {
	switch p {
	case PhasePresenting:
		return "presenting"
	case PhaseAnswered:
		return "answered"
	case PhaseComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// TimerToken identifies one countdown. Each Start issues a new token and
// invalidates the previous one, so ticks from an earlier question are
// recognized as stale and dropped. The zero token is never valid.
type TimerToken uint64

// AnswerRecord is the outcome for one question. The JSON form matches the
// persisted quiz results.
type AnswerRecord struct {
	Index     int    `json:"index"`
	Question  string `json:"question"`
	Selected  string `json:"selectedAnswer"`
	Correct   string `json:"correctAnswer"`
	IsCorrect bool   `json:"isCorrect"`
	TimedOut  bool   `json:"timedOut,omitempty"`
	HintUsed  bool   `json:"hintUsed,omitempty"`
}

// TickResult reports what a countdown tick did.
type TickResult struct {
	// Ignored is set when the token was stale or no question was open.
	Ignored bool

	// Remaining is the countdown value after the tick.
	Remaining int

	// TimedOut is set on the tick that reached zero; Record holds the
	// forced "No Answer" record.
	TimedOut bool
	Record   AnswerRecord
}

// Attempt is the immutable outcome of a completed quiz.
type Attempt struct {
	ID            string
	TopicID       string
	Level         int
	Records       []AnswerRecord
	Score         int
	QuestionCount int
	StartedAt     time.Time
	FinishedAt    time.Time
}

// Incorrect returns the records that were wrong or timed out, in order.
func (a Attempt) Incorrect() []AnswerRecord {
	var out []AnswerRecord
	for _, r := range a.Records {
		if !r.IsCorrect {
			out = append(out, r)
		}
	}
	return out
}

// Ratio is score divided by question count.
func (a Attempt) Ratio() float64 {
	if a.QuestionCount == 0 {
		return 0
	}
	return float64(a.Score) / float64(a.QuestionCount)
}
