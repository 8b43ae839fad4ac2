package levels

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizly/internal/bank"
	"github.com/abhisek/quizly/internal/router"
	"github.com/abhisek/quizly/internal/screen"
	"github.com/abhisek/quizly/internal/screens/placeholder"
	quizscreen "github.com/abhisek/quizly/internal/screens/quiz"
	"github.com/abhisek/quizly/internal/selection"
	"github.com/abhisek/quizly/internal/ui/backdrop"
	"github.com/abhisek/quizly/internal/ui/components"
	"github.com/abhisek/quizly/internal/ui/layout"
	"github.com/abhisek/quizly/internal/ui/theme"
)

// levelsLoadedMsg carries the level list of the selected topic.
type levelsLoadedMsg struct {
	Topic    bank.Topic
	Levels   []bank.LevelInfo
	Unlocked int
	Err      error
}

// levelChosenMsg reports a failed level selection write.
type levelChosenMsg struct {
	Err error
}

// LevelsScreen lists the levels of the selected topic. Levels above the
// unlocked level are shown but cannot be played.
type LevelsScreen struct {
	deps screen.Deps

	topic    bank.Topic
	levels   []bank.LevelInfo
	unlocked int
	menu     components.Menu
	anim     *backdrop.Animation

	loaded bool
	err    error
}

var _ screen.Screen = (*LevelsScreen)(nil)

// New creates a LevelsScreen for the persisted topic selection.
func New(deps screen.Deps) *LevelsScreen {
	return &LevelsScreen{
		deps: deps,
		anim: backdrop.NewAnimation("", deps.RNG),
	}
}

func (s *LevelsScreen) Init() tea.Cmd {
	return tea.Batch(s.load(), s.anim.Start())
}

// Resume reloads the unlocked level, which a finished quiz may have raised.
func (s *LevelsScreen) Resume() tea.Cmd {
	return tea.Batch(s.load(), s.anim.Start())
}

func (s *LevelsScreen) load() tea.Cmd {
	deps := s.deps
	return func() tea.Msg {
		ctx := context.Background()
		topicID, err := deps.Selection.RequireTopic(ctx)
		if err != nil {
			return levelsLoadedMsg{Err: err}
		}
		topic, err := deps.Bank.Topic(topicID)
		if err != nil {
			return levelsLoadedMsg{Err: err}
		}
		levels, err := deps.Bank.Levels(topicID)
		if err != nil {
			return levelsLoadedMsg{Err: err}
		}
		if len(levels) == 0 {
			return levelsLoadedMsg{Err: fmt.Errorf("topic %q: %w", topicID, bank.ErrNotFound)}
		}
		return levelsLoadedMsg{
			Topic:    topic,
			Levels:   levels,
			Unlocked: deps.Progress.UnlockedLevel(ctx, topicID),
		}
	}
}

func (s *LevelsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if cmd, ok := s.anim.Update(msg); ok {
		return s, cmd
	}

	switch msg := msg.(type) {
	case levelsLoadedMsg:
		switch {
		case errors.Is(msg.Err, selection.ErrPreconditionMissing), errors.Is(msg.Err, bank.ErrNotFound):
			s.deps.Log().Debug("levels unavailable, returning home", "error", msg.Err)
			return s, func() tea.Msg { return router.PopToRootMsg{} }
		case msg.Err != nil:
			s.deps.Log().Error("load levels", "error", msg.Err)
			s.err = msg.Err
			return s, nil
		}
		s.err = nil
		s.loaded = true
		s.topic = msg.Topic
		s.levels = msg.Levels
		s.unlocked = msg.Unlocked
		s.anim.SetTopic(msg.Topic.ID)
		s.menu = s.buildMenu()
		return s, nil

	case levelChosenMsg:
		s.err = msg.Err
		return s, nil

	case tea.KeyMsg:
		var cmd tea.Cmd
		s.menu, cmd = s.menu.Update(msg)
		return s, cmd
	}

	return s, nil
}

func (s *LevelsScreen) buildMenu() components.Menu {
	items := make([]components.MenuItem, 0, len(s.levels))
	for _, lv := range s.levels {
		item := components.MenuItem{
			Label:       fmt.Sprintf("Level %d: %s", lv.Number, lv.Title),
			Description: fmt.Sprintf("%d questions", lv.QuestionCount),
		}
		switch {
		case lv.Number > s.unlocked:
			item.Disabled = true
			item.Tag = "Locked"
		case lv.QuestionCount == 0:
			item.Tag = "Coming Soon"
			item.Description = ""
			item.Action = s.comingSoon(lv)
		default:
			item.Action = s.play(lv.Number)
		}
		items = append(items, item)
	}

	prev := s.menu.Selected
	menu := components.NewMenu(items)
	if s.menu.Items != nil && prev < len(items) && !items[prev].Disabled {
		menu.Selected = prev
	}
	return menu
}

func (s *LevelsScreen) play(level int) func() tea.Cmd {
	return func() tea.Cmd {
		deps := s.deps
		return func() tea.Msg {
			if err := deps.Selection.SetLevel(context.Background(), level); err != nil {
				return levelChosenMsg{Err: err}
			}
			return router.PushScreenMsg{Screen: quizscreen.New(deps)}
		}
	}
}

func (s *LevelsScreen) comingSoon(lv bank.LevelInfo) func() tea.Cmd {
	title := fmt.Sprintf("Level %d", lv.Number)
	return func() tea.Cmd {
		return func() tea.Msg {
			return router.PushScreenMsg{Screen: placeholder.New(title, "This level has no questions yet.")}
		}
	}
}

// Unlocked returns the highest playable level shown.
func (s *LevelsScreen) Unlocked() int { return s.unlocked }

func (s *LevelsScreen) View(width, height int) string {
	bg := s.anim.View(width, height)

	var b strings.Builder
	switch {
	case s.err != nil:
		b.WriteString(theme.Incorrect.Render("Could not load levels."))
		b.WriteString("\n")
		b.WriteString(theme.Hint.Render(s.err.Error()))
	case !s.loaded:
		b.WriteString(theme.Hint.Render("Loading levels..."))
	default:
		heading := lipgloss.NewStyle().Bold(true).Foreground(theme.TopicAccent(s.topic.ID)).Render(s.topic.Title)
		b.WriteString(heading)
		b.WriteString("\n")
		b.WriteString(theme.Hint.Render(fmt.Sprintf("Unlocked: level %d of %d", s.unlocked, bank.TotalLevels)))
		b.WriteString("\n\n")
		// Leave room for the card border, heading and scroll markers.
		b.WriteString(strings.TrimRight(s.menu.ViewWindow(max(height-10, 4)), "\n"))
	}

	card := components.Card(b.String(), min(components.ContentWidth(width), 56))
	if bg == "" {
		return card
	}
	return backdrop.Compose(bg, card, width, height)
}

func (s *LevelsScreen) Title() string {
	return "Select a Level"
}

// HeaderContext shows the selected topic.
func (s *LevelsScreen) HeaderContext() string {
	return s.topic.Title
}

func (s *LevelsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Play"},
		{Key: "Esc", Description: "Back"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}
