package topics

import (
	"context"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizly/internal/bank"
	"github.com/abhisek/quizly/internal/router"
	"github.com/abhisek/quizly/internal/screen"
	"github.com/abhisek/quizly/internal/screens/levels"
	"github.com/abhisek/quizly/internal/screens/placeholder"
	"github.com/abhisek/quizly/internal/ui/backdrop"
	"github.com/abhisek/quizly/internal/ui/components"
	"github.com/abhisek/quizly/internal/ui/layout"
	"github.com/abhisek/quizly/internal/ui/theme"
)

// topicChosenMsg reports a failed topic selection write.
type topicChosenMsg struct {
	Err error
}

// TopicsScreen is the home screen: the list of topics to quiz on.
type TopicsScreen struct {
	deps   screen.Deps
	topics []bank.Topic
	menu   components.Menu
	anim   *backdrop.Animation
	err    error
}

var _ screen.Screen = (*TopicsScreen)(nil)

// New creates the topic list from the question bank.
func New(deps screen.Deps) *TopicsScreen {
	s := &TopicsScreen{deps: deps}
	if deps.Bank != nil {
		s.topics = deps.Bank.Topics()
	}

	items := make([]components.MenuItem, 0, len(s.topics))
	for _, t := range s.topics {
		item := components.MenuItem{
			Label:       t.Title,
			Description: t.Description,
			Action:      s.choose(t),
		}
		if lv, err := deps.Bank.Levels(t.ID); err != nil || len(lv) == 0 {
			item.Tag = "Coming Soon"
			item.Action = comingSoon(t)
		}
		items = append(items, item)
	}
	s.menu = components.NewMenu(items)

	first := ""
	if len(s.topics) > 0 {
		first = s.topics[0].ID
	}
	s.anim = backdrop.NewAnimation(first, deps.RNG)
	return s
}

func (s *TopicsScreen) choose(t bank.Topic) func() tea.Cmd {
	return func() tea.Cmd {
		deps := s.deps
		return func() tea.Msg {
			if err := deps.Selection.SetTopic(context.Background(), t.ID); err != nil {
				return topicChosenMsg{Err: err}
			}
			return router.PushScreenMsg{Screen: levels.New(deps)}
		}
	}
}

func comingSoon(t bank.Topic) func() tea.Cmd {
	return func() tea.Cmd {
		return func() tea.Msg {
			return router.PushScreenMsg{Screen: placeholder.New(t.Title, "")}
		}
	}
}

func (s *TopicsScreen) Init() tea.Cmd {
	return s.anim.Start()
}

// Resume restarts the backdrop, whose frames stopped while covered.
func (s *TopicsScreen) Resume() tea.Cmd {
	s.err = nil
	return s.anim.Start()
}

func (s *TopicsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if cmd, ok := s.anim.Update(msg); ok {
		return s, cmd
	}

	switch msg := msg.(type) {
	case topicChosenMsg:
		s.deps.Log().Error("save topic selection", "error", msg.Err)
		s.err = msg.Err
		return s, nil

	case tea.KeyMsg:
		var cmd tea.Cmd
		s.menu, cmd = s.menu.Update(msg)
		if s.menu.Selected < len(s.topics) {
			s.anim.SetTopic(s.topics[s.menu.Selected].ID)
		}
		return s, cmd
	}

	return s, nil
}

// Highlighted returns the topic under the cursor.
func (s *TopicsScreen) Highlighted() (bank.Topic, bool) {
	if s.menu.Selected < 0 || s.menu.Selected >= len(s.topics) {
		return bank.Topic{}, false
	}
	return s.topics[s.menu.Selected], true
}

func (s *TopicsScreen) View(width, height int) string {
	bg := ""
	if !layout.IsCompactHeight(height + layout.HeaderHeight + layout.FooterHeight) {
		bg = s.anim.View(width, height)
	}

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(theme.Primary).Render("Choose a Topic"))
	b.WriteString("\n")
	b.WriteString(theme.Hint.Render("Answer before the timer runs out!"))
	b.WriteString("\n\n")

	if len(s.topics) == 0 {
		b.WriteString(theme.Hint.Render("No topics found in the question bank."))
	} else {
		b.WriteString(strings.TrimRight(s.menu.ViewWindow(max(height-10, 3)), "\n"))
	}
	if s.err != nil {
		b.WriteString("\n\n")
		b.WriteString(theme.Incorrect.Render("Could not save your choice: " + s.err.Error()))
	}

	card := components.Card(b.String(), min(components.ContentWidth(width), 56))
	if bg == "" {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
	}
	return backdrop.Compose(bg, card, width, height)
}

func (s *TopicsScreen) Title() string {
	return "Topics"
}

func (s *TopicsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}
