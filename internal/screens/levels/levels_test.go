package levels

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/abhisek/quizly/internal/bank"
	"github.com/abhisek/quizly/internal/progress"
	"github.com/abhisek/quizly/internal/router"
	"github.com/abhisek/quizly/internal/screen"
	"github.com/abhisek/quizly/internal/screens/placeholder"
	quizscreen "github.com/abhisek/quizly/internal/screens/quiz"
	"github.com/abhisek/quizly/internal/selection"
)

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func newDeps(t *testing.T, topic string) screen.Deps {
	t.Helper()
	b, err := bank.Default()
	if err != nil {
		t.Fatalf("bank.Default() error: %v", err)
	}
	sel := selection.New(selection.NewMemorySettings())
	if topic != "" {
		if err := sel.SetTopic(context.Background(), topic); err != nil {
			t.Fatal(err)
		}
	}
	return screen.Deps{
		Bank:      b,
		Progress:  progress.NewMemoryStore(),
		Selection: sel,
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// loaded delivers the result of load to s.
func loaded(t *testing.T, s *LevelsScreen) tea.Cmd {
	t.Helper()
	_, cmd := s.Update(s.load()())
	return cmd
}

func TestLevels_LockedLevelsDisabled(t *testing.T) {
	s := New(newDeps(t, "mathematics"))
	loaded(t, s)

	if s.Unlocked() != 1 {
		t.Fatalf("Unlocked = %d, want 1", s.Unlocked())
	}
	items := s.menu.Items
	if len(items) != 3 {
		t.Fatalf("got %d levels, want 3", len(items))
	}
	if items[0].Disabled {
		t.Error("level 1 should be playable")
	}
	for _, it := range items[1:] {
		if !it.Disabled || it.Tag != "Locked" {
			t.Errorf("%s = %+v, want locked", it.Label, it)
		}
	}

	// Down has nowhere to go.
	s.Update(specialKey(tea.KeyDown))
	if s.menu.Selected != 0 {
		t.Errorf("Selected = %d, want 0", s.menu.Selected)
	}
}

func TestLevels_PlayPushesQuiz(t *testing.T) {
	deps := newDeps(t, "mathematics")
	s := New(deps)
	loaded(t, s)

	_, cmd := s.Update(specialKey(tea.KeyEnter))
	if cmd == nil {
		t.Fatal("expected cmd")
	}
	msg, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatalf("expected PushScreenMsg, got %T", cmd())
	}
	if _, ok := msg.Screen.(*quizscreen.QuizScreen); !ok {
		t.Errorf("expected quiz screen, got %T", msg.Screen)
	}
	if level, err := deps.Selection.RequireLevel(context.Background()); err != nil || level != 1 {
		t.Errorf("selected level = %d, %v", level, err)
	}
}

func TestLevels_ResumeReloadsUnlocks(t *testing.T) {
	deps := newDeps(t, "mathematics")
	s := New(deps)
	loaded(t, s)

	ctx := context.Background()
	for _, lv := range []int{1, 2} {
		if err := deps.Progress.RecordPass(ctx, "mathematics", lv); err != nil {
			t.Fatal(err)
		}
	}
	if s.Resume() == nil {
		t.Fatal("Resume should reload")
	}
	loaded(t, s)

	if s.Unlocked() != 3 {
		t.Errorf("Unlocked = %d, want 3", s.Unlocked())
	}
	lv3 := s.menu.Items[2]
	if lv3.Disabled || lv3.Tag != "Coming Soon" {
		t.Errorf("level 3 = %+v, want coming soon", lv3)
	}

	s.menu.Selected = 2
	_, cmd := s.Update(specialKey(tea.KeyEnter))
	msg, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatalf("expected PushScreenMsg, got %T", cmd())
	}
	if _, ok := msg.Screen.(*placeholder.PlaceholderScreen); !ok {
		t.Errorf("expected placeholder, got %T", msg.Screen)
	}
}

func TestLevels_RedirectsHome(t *testing.T) {
	tests := []struct {
		name  string
		topic string
	}{
		{"no topic", ""},
		{"unknown topic", "astrology"},
		{"topic without content", "programming"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(newDeps(t, tt.topic))
			cmd := loaded(t, s)
			if cmd == nil {
				t.Fatal("expected redirect")
			}
			if _, ok := cmd().(router.PopToRootMsg); !ok {
				t.Errorf("expected PopToRootMsg, got %T", cmd())
			}
		})
	}
}

func TestLevels_View(t *testing.T) {
	s := New(newDeps(t, "mathematics"))
	if !strings.Contains(ansi.Strip(s.View(100, 30)), "Loading levels...") {
		t.Error("expected loading text")
	}
	loaded(t, s)

	view := ansi.Strip(s.View(100, 30))
	for _, want := range []string{"Mathematics", "Unlocked: level 1 of 20", "Level 1", "[Locked]"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if got := s.HeaderContext(); got != "Mathematics" {
		t.Errorf("HeaderContext = %q", got)
	}
}
