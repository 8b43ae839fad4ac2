package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "quizly.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestMigrationCreatesTables(t *testing.T) {
	s := openTestStore(t)

	for _, table := range []string{"settings", "progress", "attempts", "llm_request_events", "global_sequence"} {
		var name string
		err := s.DB().QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %s: %v", table, err)
		}
	}
}

func TestOpen_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quizly.db")
	ctx := context.Background()

	s, err := Open(path)
	require.NoError(t, err)
	_, err = s.Progress().Raise(ctx, "mathematics", 4)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	level, ok, err := s.Progress().Unlocked(ctx, "mathematics")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 4, level)
}

func TestSettings(t *testing.T) {
	s := openTestStore(t)
	repo := s.Settings()
	ctx := context.Background()

	_, ok, err := repo.Get(ctx, "selectedTopic")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, repo.Set(ctx, "selectedTopic", "science"))
	require.NoError(t, repo.Set(ctx, "selectedTopic", "history"))
	require.NoError(t, repo.Set(ctx, "selectedLevel", "2"))

	v, ok, err := repo.Get(ctx, "selectedTopic")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "history", v)

	require.NoError(t, repo.Delete(ctx, "selectedTopic", "selectedLevel", "missing"))
	_, ok, err = repo.Get(ctx, "selectedLevel")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestProgress_RaiseIsMonotonic(t *testing.T) {
	s := openTestStore(t)
	repo := s.Progress()
	ctx := context.Background()

	steps := []struct {
		raise int
		want  int
	}{
		{2, 2},
		{5, 5},
		{3, 5},
		{5, 5},
		{6, 6},
	}
	for _, st := range steps {
		got, err := repo.Raise(ctx, "mathematics", st.raise)
		require.NoError(t, err)
		if got != st.want {
			t.Errorf("Raise(%d) = %d, want %d", st.raise, got, st.want)
		}
	}

	_, err := repo.Raise(ctx, "mathematics", 0)
	assert.Error(t, err)
}

func TestProgress_AllAndReset(t *testing.T) {
	s := openTestStore(t)
	repo := s.Progress()
	ctx := context.Background()

	_, err := repo.Raise(ctx, "science", 2)
	require.NoError(t, err)
	_, err = repo.Raise(ctx, "history", 3)
	require.NoError(t, err)

	all, err := repo.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "history", all[0].TopicID)
	assert.Equal(t, 3, all[0].Unlocked)
	assert.False(t, all[0].UpdatedAt.IsZero())

	require.NoError(t, repo.Reset(ctx, "history"))
	_, ok, err := repo.Unlocked(ctx, "history")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, repo.Reset(ctx, ""))
	all, err = repo.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestAttempts_AppendAndList(t *testing.T) {
	s := openTestStore(t)
	repo := s.Attempts()
	ctx := context.Background()
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	for i, topic := range []string{"mathematics", "science", "mathematics"} {
		err := repo.AppendAttempt(ctx, AttemptRecord{
			AttemptID: "attempt-" + string(rune('a'+i)),
			TopicID:   topic,
			Level:     1,
			Score:     i + 2,
			Total:     5,
			Passed:    i+2 >= 3,
			Answers: []AttemptAnswer{
				{Question: "What is 7 + 5?", Selected: "12", Correct: "12", IsCorrect: true},
				{Question: "What is 9 x 3?", Selected: "No Answer", Correct: "27", TimedOut: true},
			},
			StartedAt:  start.Add(time.Duration(i) * time.Minute),
			FinishedAt: start.Add(time.Duration(i)*time.Minute + 30*time.Second),
		})
		require.NoError(t, err)
	}

	all, err := repo.ListAttempts(ctx, QueryOpts{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "attempt-c", all[0].AttemptID, "newest first")
	assert.Greater(t, all[0].Sequence, all[1].Sequence)
	require.Len(t, all[0].Answers, 2)
	assert.True(t, all[0].Answers[1].TimedOut)
	assert.True(t, start.Add(2*time.Minute).Equal(all[0].StartedAt), "StartedAt = %v", all[0].StartedAt)

	maths, err := repo.ListAttempts(ctx, QueryOpts{TopicID: "mathematics", Limit: 1})
	require.NoError(t, err)
	require.Len(t, maths, 1)
	assert.Equal(t, "attempt-c", maths[0].AttemptID)
	assert.True(t, maths[0].Passed)
}

func TestSequenceCounter(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()
	ctx := context.Background()

	sc, err := newSequenceCounter(db)
	if err != nil {
		t.Fatalf("new sequence counter: %v", err)
	}

	var prev int64
	for i := 0; i < 5; i++ {
		seq, err := sc.Next(ctx)
		if err != nil {
			t.Fatalf("next %d: %v", i, err)
		}
		if seq <= prev {
			t.Errorf("seq[%d] = %d, want > %d", i, seq, prev)
		}
		prev = seq
	}
}

func TestLLMEvents(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	events := []LLMRequestEventData{
		{Provider: "gemini", Model: "gemini-2.5-flash", Purpose: "feedback", InputTokens: 100, OutputTokens: 300, LatencyMs: 900, Success: true, RequestBody: "[user]\nexplain", ResponseBody: "## Q1"},
		{Provider: "gemini", Model: "gemini-2.5-flash", Purpose: "feedback", InputTokens: 50, LatencyMs: 100, ErrorMessage: "rate limited"},
	}
	for _, e := range events {
		require.NoError(t, repo.AppendLLMRequest(ctx, e))
	}

	list, err := repo.QueryLLMEvents(ctx, QueryOpts{Limit: 10})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.False(t, list[0].Success)
	assert.Equal(t, "rate limited", list[0].ErrorMessage)

	got, err := repo.GetLLMEvent(ctx, list[1].ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "## Q1", got.ResponseBody)

	missing, err := repo.GetLLMEvent(ctx, 9999)
	require.NoError(t, err)
	assert.Nil(t, missing)

	usage, err := repo.LLMUsageByPurpose(ctx)
	require.NoError(t, err)
	require.Len(t, usage, 1)
	assert.Equal(t, PurposeUsage{Purpose: "feedback", Calls: 2, InputTokens: 150, OutputTokens: 300, AvgLatencyMs: 500}, usage[0])

	byModel, err := repo.LLMUsageByModel(ctx)
	require.NoError(t, err)
	assert.Equal(t, []ModelUsage{{Model: "gemini-2.5-flash", Calls: 2, InputTokens: 150, OutputTokens: 300}}, byModel)
}
