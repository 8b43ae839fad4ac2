package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/quizly/internal/bank"
	"github.com/abhisek/quizly/internal/store"
)

// execute runs the root command with args against a fresh database.
func execute(t *testing.T, dbPath string, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append(args, "--db", dbPath))
	require.NoError(t, rootCmd.ExecuteContext(context.Background()), out.String())
	return out.String()
}

func TestTopicsCommand(t *testing.T) {
	db := filepath.Join(t.TempDir(), "quizly.db")
	out := execute(t, db, "topics")

	assert.Contains(t, out, "mathematics")
	assert.Contains(t, out, "programming")
	assert.Contains(t, out, "soon")
}

func TestLevelsCommand(t *testing.T) {
	db := filepath.Join(t.TempDir(), "quizly.db")
	out := execute(t, db, "levels", "mathematics")

	assert.Contains(t, out, "unlocked: level 1 of 20")
	assert.Contains(t, out, "open")
	assert.Contains(t, out, "locked")
}

func TestProgressCommands(t *testing.T) {
	db := filepath.Join(t.TempDir(), "quizly.db")

	s, err := store.Open(db)
	require.NoError(t, err)
	_, err = s.Progress().Raise(context.Background(), "science", 3)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	var got map[string]int
	require.NoError(t, json.Unmarshal([]byte(execute(t, db, "progress", "show", "--json")), &got))
	assert.Equal(t, map[string]int{"science": 3}, got)

	assert.Contains(t, execute(t, db, "progress", "reset", "science"), "Progress reset for science.")

	got = nil
	require.NoError(t, json.Unmarshal([]byte(execute(t, db, "progress", "show", "--json")), &got))
	assert.Empty(t, got)
}

func TestLevelStatus(t *testing.T) {
	tests := []struct {
		number, count, unlocked int
		want                    string
	}{
		{1, 5, 1, "open"},
		{2, 5, 1, "locked"},
		{3, 0, 3, "coming soon"},
		{4, 0, 3, "locked"},
	}
	for _, tt := range tests {
		lv := bank.LevelInfo{Number: tt.number, QuestionCount: tt.count}
		assert.Equal(t, tt.want, levelStatus(lv, tt.unlocked), "level %d", tt.number)
	}
}

func TestLLMViewHTML(t *testing.T) {
	ctx := context.Background()
	db := filepath.Join(t.TempDir(), "quizly.db")

	s, err := store.Open(db)
	require.NoError(t, err)
	require.NoError(t, s.EventRepo().AppendLLMRequest(ctx, store.LLMRequestEventData{
		Provider:     "gemini",
		Model:        "gemini-2.5-flash",
		Purpose:      "feedback",
		Success:      true,
		ResponseBody: "## Q1\nUse **bold** and `x < y`",
	}))
	events, err := s.EventRepo().QueryLLMEvents(ctx, store.QueryOpts{Limit: 1})
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.NoError(t, s.Close())

	t.Cleanup(func() { _ = llmViewCmd.Flags().Set("html", "false") })
	out := execute(t, db, "llm", "view", strconv.Itoa(events[0].ID), "--html")

	assert.Contains(t, out, "<strong>bold</strong>")
	assert.Contains(t, out, "<code>x &lt; y</code>")
	assert.Contains(t, out, "## Q1<br>")
	assert.NotContains(t, out, "REQUEST")
}

func TestLoadBank_InvalidListsProblems(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "topics.json"),
		[]byte(`{"topics":[{"id":"geo","title":"Geography","description":"Maps"}]}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "questions.json"),
		[]byte(`{"geo":{"title":"G","levels":[{"level":1,"questions":[{"question":"q","options":["a","b"],"answer":"c"}]}]}}`), 0o644))
	t.Setenv("QUIZLY_DATA", dir)

	_, err := loadBank(&cobra.Command{})
	require.Error(t, err)
	assert.ErrorIs(t, err, bank.ErrInvalid)
	assert.Contains(t, err.Error(), "\n  - ")
}

func TestLoadBank_Unavailable(t *testing.T) {
	t.Setenv("QUIZLY_DATA", filepath.Join(t.TempDir(), "missing"))

	_, err := loadBank(&cobra.Command{})
	assert.ErrorIs(t, err, bank.ErrDataUnavailable)
}
