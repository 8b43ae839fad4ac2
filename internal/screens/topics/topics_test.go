package topics

import (
	"context"
	"io"
	"log/slog"
	"math/rand/v2"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/abhisek/quizly/internal/bank"
	"github.com/abhisek/quizly/internal/progress"
	"github.com/abhisek/quizly/internal/router"
	"github.com/abhisek/quizly/internal/screen"
	"github.com/abhisek/quizly/internal/screens/levels"
	"github.com/abhisek/quizly/internal/screens/placeholder"
	"github.com/abhisek/quizly/internal/selection"
)

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func newDeps(t *testing.T) screen.Deps {
	t.Helper()
	b, err := bank.Default()
	if err != nil {
		t.Fatalf("bank.Default() error: %v", err)
	}
	return screen.Deps{
		Bank:      b,
		Progress:  progress.NewMemoryStore(),
		Selection: selection.New(selection.NewMemorySettings()),
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		RNG:       rand.New(rand.NewPCG(1, 2)),
	}
}

func TestTopics_ChoosePushesLevels(t *testing.T) {
	deps := newDeps(t)
	s := New(deps)

	_, cmd := s.Update(specialKey(tea.KeyEnter))
	if cmd == nil {
		t.Fatal("expected cmd")
	}
	msg, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatalf("expected PushScreenMsg, got %T", cmd())
	}
	if _, ok := msg.Screen.(*levels.LevelsScreen); !ok {
		t.Errorf("expected levels screen, got %T", msg.Screen)
	}
	topic, err := deps.Selection.RequireTopic(context.Background())
	if err != nil || topic != "mathematics" {
		t.Errorf("selected topic = %q, %v", topic, err)
	}
}

func TestTopics_ComingSoon(t *testing.T) {
	deps := newDeps(t)
	s := New(deps)

	idx := -1
	for i, item := range s.menu.Items {
		if item.Label == "Programming" {
			idx = i
		}
	}
	if idx < 0 {
		t.Fatal("programming topic not listed")
	}
	if tag := s.menu.Items[idx].Tag; tag != "Coming Soon" {
		t.Errorf("Tag = %q, want Coming Soon", tag)
	}

	s.menu.Selected = idx
	_, cmd := s.Update(specialKey(tea.KeyEnter))
	msg, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatalf("expected PushScreenMsg, got %T", cmd())
	}
	if _, ok := msg.Screen.(*placeholder.PlaceholderScreen); !ok {
		t.Errorf("expected placeholder, got %T", msg.Screen)
	}
	if _, err := deps.Selection.RequireTopic(context.Background()); err == nil {
		t.Error("coming soon topic should not be selected")
	}
}

func TestTopics_HighlightSwitchesBackdrop(t *testing.T) {
	s := New(newDeps(t))
	if s.anim.Topic() != "mathematics" {
		t.Fatalf("backdrop topic = %q", s.anim.Topic())
	}

	s.Update(specialKey(tea.KeyDown))
	got, ok := s.Highlighted()
	if !ok || got.ID != "science" {
		t.Fatalf("Highlighted = %+v", got)
	}
	if s.anim.Topic() != "science" {
		t.Errorf("backdrop topic = %q, want science", s.anim.Topic())
	}
}

func TestTopics_View(t *testing.T) {
	s := New(newDeps(t))
	view := ansi.Strip(s.View(100, 30))
	for _, want := range []string{"Choose a Topic", "Mathematics", "Programming", "[Coming Soon]"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if s.Init() == nil {
		t.Error("expected backdrop to start")
	}
}

func TestTopics_EmptyBank(t *testing.T) {
	s := New(screen.Deps{})
	if _, ok := s.Highlighted(); ok {
		t.Error("expected no topic")
	}
	if !strings.Contains(ansi.Strip(s.View(100, 30)), "No topics found") {
		t.Error("expected empty message")
	}
}
