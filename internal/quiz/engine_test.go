package quiz

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/quizly/internal/bank"
)

func sampleQuestions() []bank.Question {
	return []bank.Question{
		{Prompt: "What is 7 + 5?", Options: []string{"10", "11", "12", "13"}, Answer: "12", Hint: "Count up from 7."},
		{Prompt: "What is 9 x 3?", Options: []string{"27", "24", "21", "30"}, Answer: "27"},
		{Prompt: "What is 20 - 8?", Options: []string{"14", "12", "10", "8"}, Answer: "12"},
	}
}

func newTestEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	fixed := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	opts = append([]Option{WithClock(func() time.Time { return fixed }), WithAttemptID("attempt-1")}, opts...)
	e, err := NewEngine("mathematics", 1, sampleQuestions(), opts...)
	require.NoError(t, err)
	return e
}

func TestNewEngine_EmptyQuestions(t *testing.T) {
	_, err := NewEngine("mathematics", 3, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, bank.ErrEmpty))
}

func TestNewEngine_GeneratesID(t *testing.T) {
	e, err := NewEngine("mathematics", 1, sampleQuestions())
	require.NoError(t, err)
	assert.NotEmpty(t, e.ID())
	assert.Equal(t, PhasePresenting, e.Phase())
	assert.Equal(t, TimerSeconds, e.Remaining())
}

func TestEngine_AllCorrect(t *testing.T) {
	e := newTestEngine(t)

	for _, q := range sampleQuestions() {
		tok := e.Start()
		require.NotZero(t, tok)
		rec, ok := e.Select(q.Answer)
		require.True(t, ok)
		assert.True(t, rec.IsCorrect)
		assert.Equal(t, PhaseAnswered, e.Phase())
		e.Advance()
	}

	assert.Equal(t, PhaseComplete, e.Phase())
	a, err := e.Result()
	require.NoError(t, err)
	assert.Equal(t, "attempt-1", a.ID)
	assert.Equal(t, 3, a.Score)
	assert.Equal(t, 3, a.QuestionCount)
	assert.Len(t, a.Records, 3)
	assert.Empty(t, a.Incorrect())
	assert.InDelta(t, 1.0, a.Ratio(), 1e-9)
	assert.False(t, a.StartedAt.IsZero())
	assert.False(t, a.FinishedAt.IsZero())
}

func TestEngine_SelectIsExactMatch(t *testing.T) {
	tests := []struct {
		name     string
		option   string
		expected bool
	}{
		{"exact", "12", true},
		{"leading space", " 12", false},
		{"other option", "11", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine(t)
			e.Start()
			rec, ok := e.Select(tt.option)
			require.True(t, ok)
			assert.Equal(t, tt.expected, rec.IsCorrect)
			assert.Equal(t, tt.option, rec.Selected)
			assert.Equal(t, "12", rec.Correct)
		})
	}
}

func TestEngine_CaseSensitive(t *testing.T) {
	e, err := NewEngine("history", 1, []bank.Question{
		{Prompt: "Capital of France?", Options: []string{"Paris", "paris"}, Answer: "Paris"},
	})
	require.NoError(t, err)
	e.Start()
	rec, _ := e.Select("paris")
	assert.False(t, rec.IsCorrect)
}

func TestEngine_SecondSelectIsNoop(t *testing.T) {
	e := newTestEngine(t)
	e.Start()

	first, ok := e.Select("11")
	require.True(t, ok)

	again, ok := e.Select("12")
	assert.False(t, ok)
	assert.Equal(t, first, again)
	assert.Equal(t, 0, e.Score())
	assert.Len(t, e.Records(), 1)
}

func TestEngine_TimeoutRecordsNoAnswer(t *testing.T) {
	e := newTestEngine(t, WithTimerSeconds(3))
	tok := e.Start()

	r := e.Tick(tok)
	assert.Equal(t, 2, r.Remaining)
	assert.False(t, r.TimedOut)
	r = e.Tick(tok)
	assert.Equal(t, 1, r.Remaining)

	r = e.Tick(tok)
	require.True(t, r.TimedOut)
	assert.Equal(t, 0, r.Remaining)
	assert.Equal(t, NoAnswer, r.Record.Selected)
	assert.False(t, r.Record.IsCorrect)
	assert.True(t, r.Record.TimedOut)
	assert.Equal(t, PhaseAnswered, e.Phase())
	assert.Zero(t, e.Token())
}

func TestEngine_TimerWinsOverLateSelection(t *testing.T) {
	e := newTestEngine(t, WithTimerSeconds(1))
	tok := e.Start()

	r := e.Tick(tok)
	require.True(t, r.TimedOut)

	_, ok := e.Select("12")
	assert.False(t, ok, "selection after the timeout must not change the record")
	rec, _ := e.LastRecord()
	assert.Equal(t, NoAnswer, rec.Selected)
	assert.Equal(t, 0, e.Score())
}

func TestEngine_SelectionCancelsTimer(t *testing.T) {
	e := newTestEngine(t, WithTimerSeconds(2))
	tok := e.Start()
	e.Select("12")

	r := e.Tick(tok)
	assert.True(t, r.Ignored)
	assert.False(t, r.TimedOut)
	assert.Len(t, e.Records(), 1)
}

func TestEngine_StaleTokenIgnored(t *testing.T) {
	e := newTestEngine(t, WithTimerSeconds(2))
	first := e.Start()
	e.Select("12")
	e.Advance()
	second := e.Start()
	require.NotEqual(t, first, second)

	r := e.Tick(first)
	assert.True(t, r.Ignored)
	assert.Equal(t, 2, e.Remaining())

	r = e.Tick(second)
	assert.False(t, r.Ignored)
	assert.Equal(t, 1, r.Remaining)

	assert.True(t, e.Tick(0).Ignored)
}

func TestEngine_RestartIssuesNewToken(t *testing.T) {
	e := newTestEngine(t, WithTimerSeconds(5))
	first := e.Start()
	e.Tick(first)
	second := e.Start()

	assert.Equal(t, 5, e.Remaining())
	assert.True(t, e.Tick(first).Ignored)
	assert.Equal(t, 4, e.Tick(second).Remaining)
}

func TestEngine_Hint(t *testing.T) {
	e := newTestEngine(t)
	e.Start()

	hint, ok := e.UseHint()
	require.True(t, ok)
	assert.Equal(t, "Count up from 7.", hint)

	_, ok = e.UseHint()
	assert.False(t, ok, "hint is single-use per question")

	rec, _ := e.Select("12")
	assert.True(t, rec.HintUsed)

	e.Advance()
	e.Start()
	assert.False(t, e.HintUsed())

	hint, ok = e.UseHint()
	require.True(t, ok)
	assert.Equal(t, NoHintText, hint)
}

func TestEngine_HintUnavailableAfterLock(t *testing.T) {
	e := newTestEngine(t)
	e.Start()
	e.Select("10")

	_, ok := e.UseHint()
	assert.False(t, ok)
}

func TestEngine_AdvanceRequiresAnswer(t *testing.T) {
	e := newTestEngine(t)
	e.Start()

	assert.Equal(t, PhasePresenting, e.Advance())
	assert.Equal(t, 0, e.Index())
}

func TestEngine_ResultBeforeComplete(t *testing.T) {
	e := newTestEngine(t)
	e.Start()
	_, err := e.Result()
	assert.ErrorIs(t, err, ErrNotComplete)
}

func TestEngine_MixedAttempt(t *testing.T) {
	e := newTestEngine(t, WithTimerSeconds(1))

	e.Start()
	e.Select("12")
	e.Advance()

	tok := e.Start()
	e.Tick(tok)
	e.Advance()

	e.Start()
	e.Select("14")
	assert.Equal(t, PhaseComplete, e.Advance())
	assert.Zero(t, e.Start(), "no question to open")

	a, err := e.Result()
	require.NoError(t, err)
	assert.Equal(t, 1, a.Score)

	wrong := a.Incorrect()
	require.Len(t, wrong, 2)
	assert.Equal(t, "What is 9 x 3?", wrong[0].Question)
	assert.Equal(t, NoAnswer, wrong[0].Selected)
	assert.Equal(t, "14", wrong[1].Selected)
	assert.Equal(t, 2, wrong[1].Index)
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "presenting", PhasePresenting.String())
	assert.Equal(t, "answered", PhaseAnswered.String())
	assert.Equal(t, "complete", PhaseComplete.String())
	assert.Equal(t, "unknown", Phase(42).String())
}
