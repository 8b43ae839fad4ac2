// Package quiz runs a single quiz attempt: present a question, count down,
// accept one selection or time out, and move on until every question has a
// record.
//
// The Engine is not safe for concurrent use. It is meant to be driven from
// one event loop (the TUI update loop or the line-mode prompt loop), which
// makes the order of ticks and selections the order they are processed.
// Whichever locks the question first wins; a tick that drives the countdown
// to zero locks it before any later selection.
package quiz

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/quizly/internal/bank"
)

// Engine holds the state of one attempt.
type Engine struct {
	id           string
	topicID      string
	level        int
	questions    []bank.Question
	timerSeconds int
	now          func() time.Time

	phase     Phase
	index     int
	score     int
	remaining int
	hintUsed  bool
	records   []AnswerRecord

	token     TimerToken
	lastToken TimerToken

	startedAt  time.Time
	finishedAt time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides time.Now for attempt timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithTimerSeconds overrides the per-question countdown.
func WithTimerSeconds(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.timerSeconds = n
		}
	}
}

// WithAttemptID sets the attempt ID instead of generating one.
func WithAttemptID(id string) Option {
	return func(e *Engine) { e.id = id }
}

// NewEngine creates an engine positioned on the first question. Call Start
// to open it.
func NewEngine(topicID string, level int, questions []bank.Question, opts ...Option) (*Engine, error) {
	if len(questions) == 0 {
		return nil, fmt.Errorf("topic %q level %d: %w", topicID, level, bank.ErrEmpty)
	}

	qs := make([]bank.Question, len(questions))
	copy(qs, questions)

	e := &Engine{
		topicID:      topicID,
		level:        level,
		questions:    qs,
		timerSeconds: TimerSeconds,
		now:          time.Now,
		phase:        PhasePresenting,
		records:      make([]AnswerRecord, 0, len(qs)),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.id == "" {
		e.id = uuid.NewString()
	}
	e.remaining = e.timerSeconds
	return e, nil
}

// Start opens the current question: resets the countdown and hint, and
// issues a fresh timer token. Every earlier token becomes stale. Start
// returns the zero token when no question is open.
func (e *Engine) Start() TimerToken {
	if e.phase != PhasePresenting {
		return 0
	}
	if e.startedAt.IsZero() {
		e.startedAt = e.now()
	}
	e.remaining = e.timerSeconds
	e.hintUsed = false
	e.lastToken++
	e.token = e.lastToken
	return e.token
}

// Tick advances the countdown by one second for the given token.
func (e *Engine) Tick(token TimerToken) TickResult {
	if token == 0 || token != e.token || e.phase != PhasePresenting {
		return TickResult{Ignored: true, Remaining: e.remaining}
	}

	e.remaining--
	if e.remaining > 0 {
		return TickResult{Remaining: e.remaining}
	}

	e.remaining = 0
	rec := e.lock(NoAnswer, true)
	return TickResult{Remaining: 0, TimedOut: true, Record: rec}
}

// Select locks in option for the open question. It returns the new record
// and true, or, when the question is already locked, the existing record
// and false.
func (e *Engine) Select(option string) (AnswerRecord, bool) {
	if e.phase != PhasePresenting {
		rec, _ := e.LastRecord()
		return rec, false
	}
	return e.lock(option, false), true
}

// UseHint reveals the hint for the open question. It works at most once per
// question and only before the question is locked.
func (e *Engine) UseHint() (string, bool) {
	if e.phase != PhasePresenting || e.hintUsed {
		return "", false
	}
	e.hintUsed = true
	if hint := e.questions[e.index].Hint; hint != "" {
		return hint, true
	}
	return NoHintText, true
}

// Advance moves past a locked question and returns the new phase. The
// caller must Start the next question when the result is PhasePresenting.
func (e *Engine) Advance() Phase {
	if e.phase != PhaseAnswered {
		return e.phase
	}
	e.index++
	if e.index >= len(e.questions) {
		e.phase = PhaseComplete
		e.finishedAt = e.now()
		return e.phase
	}
	e.phase = PhasePresenting
	e.remaining = e.timerSeconds
	e.hintUsed = false
	return e.phase
}

// Result returns the completed attempt.
func (e *Engine) Result() (Attempt, error) {
	if e.phase != PhaseComplete {
		return Attempt{}, ErrNotComplete
	}
	records := make([]AnswerRecord, len(e.records))
	copy(records, e.records)
	return Attempt{
		ID:            e.id,
		TopicID:       e.topicID,
		Level:         e.level,
		Records:       records,
		Score:         e.score,
		QuestionCount: len(e.questions),
		StartedAt:     e.startedAt,
		FinishedAt:    e.finishedAt,
	}, nil
}

// lock records the outcome of the open question and cancels its countdown.
func (e *Engine) lock(selected string, timedOut bool) AnswerRecord {
	q := e.questions[e.index]
	correct := !timedOut && selected == q.Answer

	rec := AnswerRecord{
		Index:     e.index,
		Question:  q.Prompt,
		Selected:  selected,
		Correct:   q.Answer,
		IsCorrect: correct,
		TimedOut:  timedOut,
		HintUsed:  e.hintUsed,
	}
	if correct {
		e.score++
	}
	e.records = append(e.records, rec)
	e.phase = PhaseAnswered
	e.token = 0
	return rec
}

// ID returns the attempt ID.
func (e *Engine) ID() string { return e.id }

// TopicID returns the topic being played.
func (e *Engine) TopicID() string { return e.topicID }

// Level returns the level being played.
func (e *Engine) Level() int { return e.level }

// Phase returns the current phase.
func (e *Engine) Phase() Phase { return e.phase }

// Index returns the zero-based index of the current question.
func (e *Engine) Index() int { return e.index }

// QuestionCount returns the number of questions in the attempt.
func (e *Engine) QuestionCount() int { return len(e.questions) }

// Score returns the number of correct answers so far.
func (e *Engine) Score() int { return e.score }

// Remaining returns the seconds left on the countdown.
func (e *Engine) Remaining() int { return e.remaining }

// TimerSeconds returns the full countdown length.
func (e *Engine) TimerSeconds() int { return e.timerSeconds }

// HintUsed reports whether the hint was taken for the current question.
func (e *Engine) HintUsed() bool { return e.hintUsed }

// Token returns the live timer token, or zero when no countdown runs.
func (e *Engine) Token() TimerToken { return e.token }

// Current returns the question at the current index.
func (e *Engine) Current() (bank.Question, bool) {
	if e.index >= len(e.questions) {
		return bank.Question{}, false
	}
	return e.questions[e.index], true
}

// LastRecord returns the most recent record, if any.
func (e *Engine) LastRecord() (AnswerRecord, bool) {
	if len(e.records) == 0 {
		return AnswerRecord{}, false
	}
	return e.records[len(e.records)-1], true
}

// Records returns a copy of the records so far.
func (e *Engine) Records() []AnswerRecord {
	out := make([]AnswerRecord, len(e.records))
	copy(out, e.records)
	return out
}
