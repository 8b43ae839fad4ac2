package results

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizly/internal/feedback"
	res "github.com/abhisek/quizly/internal/results"
	"github.com/abhisek/quizly/internal/router"
	"github.com/abhisek/quizly/internal/screen"
	"github.com/abhisek/quizly/internal/ui/components"
	"github.com/abhisek/quizly/internal/ui/layout"
	"github.com/abhisek/quizly/internal/ui/theme"
)

// Menu positions.
const (
	itemPlayAgain = iota
	itemFeedback
	itemHome
)

// lastRequest numbers feedback requests across all results screens, so a
// reply that outlives its screen can never match a newer one.
var lastRequest atomic.Int64

// resultsCheckedMsg carries the check of the persisted last attempt.
type resultsCheckedMsg struct {
	Err error
}

// feedbackMsg carries the AI feedback reply for request ID.
type feedbackMsg struct {
	ID   int64
	Text string
	Err  error
}

// ResultsScreen shows the score, the answer review and optional AI feedback.
type ResultsScreen struct {
	deps    screen.Deps
	summary res.Summary
	title   string

	menu     components.Menu
	viewport viewport.Model
	spinner  spinner.Model

	requesting bool
	requestID  int64
	feedback   string // raw markdown reply
	status     string // inline message in place of feedback

	rendered      string
	renderedWidth int
}

var _ screen.Screen = (*ResultsScreen)(nil)

// New creates a results screen for an evaluated attempt. topicTitle is used
// in the header.
func New(deps screen.Deps, summary res.Summary, topicTitle string) *ResultsScreen {
	s := &ResultsScreen{
		deps:    deps,
		summary: summary,
		title:   topicTitle,
		spinner: spinner.New(
			spinner.WithSpinner(spinner.MiniDot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(theme.Accent)),
		),
		viewport: viewport.New(),
	}
	s.menu = s.buildMenu()
	if summary.Perfect() {
		s.status = feedback.PerfectText
	}
	return s
}

func (s *ResultsScreen) buildMenu() components.Menu {
	fb := components.MenuItem{
		Label:  "Get AI Feedback",
		Action: s.requestFeedback,
	}
	switch {
	case s.summary.Perfect():
		fb.Label = feedback.PerfectText
		fb.Disabled = true
	case s.requesting:
		fb.Disabled = true
		fb.Tag = "thinking"
	}

	menu := components.NewMenu([]components.MenuItem{
		{Label: "Play Again", Action: func() tea.Cmd {
			return func() tea.Msg { return router.PopScreenMsg{} }
		}},
		fb,
		{Label: "Home", Action: func() tea.Cmd {
			return func() tea.Msg { return router.PopToRootMsg{} }
		}},
	})
	if s.menu.Items != nil {
		menu.Selected = s.menu.Selected
	}
	return menu
}

func (s *ResultsScreen) Init() tea.Cmd {
	sel := s.deps.Selection
	if sel == nil {
		return nil
	}
	return func() tea.Msg {
		_, err := sel.RequireResults(context.Background())
		return resultsCheckedMsg{Err: err}
	}
}

func (s *ResultsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case resultsCheckedMsg:
		if msg.Err != nil {
			s.deps.Log().Debug("results missing, returning home", "error", msg.Err)
			return s, func() tea.Msg { return router.PopToRootMsg{} }
		}
		return s, nil

	case feedbackMsg:
		return s.handleFeedback(msg)

	case spinner.TickMsg:
		if !s.requesting {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "pgdown":
			s.viewport.PageDown()
			return s, nil
		case "pgup":
			s.viewport.PageUp()
			return s, nil
		case "r":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
		var cmd tea.Cmd
		s.menu, cmd = s.menu.Update(msg)
		// Actions may have changed the feedback state.
		s.menu = s.buildMenu()
		return s, cmd
	}

	return s, nil
}

// requestFeedback starts the single in-flight feedback request.
func (s *ResultsScreen) requestFeedback() tea.Cmd {
	if s.requesting || s.summary.Perfect() {
		return nil
	}
	svc := s.deps.Feedback
	if svc == nil || !svc.Available() {
		s.status = feedback.UnavailableText
		s.feedback = ""
		return nil
	}

	s.requesting = true
	s.requestID = lastRequest.Add(1)
	s.status = feedback.ThinkingText
	s.feedback = ""

	id := s.requestID
	mistakes := feedback.MistakesFrom(s.summary.Review)
	explain := func() tea.Msg {
		text, err := svc.Explain(context.Background(), mistakes)
		return feedbackMsg{ID: id, Text: text, Err: err}
	}
	return tea.Batch(explain, s.spinner.Tick)
}

func (s *ResultsScreen) handleFeedback(msg feedbackMsg) (screen.Screen, tea.Cmd) {
	if !s.requesting || msg.ID != s.requestID {
		return s, nil
	}
	s.requesting = false
	s.rendered, s.renderedWidth = "", 0

	switch {
	case errors.Is(msg.Err, feedback.ErrBusy):
		s.status = "A feedback request is already running. Try again in a moment."
	case msg.Err != nil:
		s.deps.Log().Warn("feedback failed", "error", msg.Err)
		s.status = feedback.ErrorText
	default:
		s.status = ""
		s.feedback = msg.Text
	}
	s.menu = s.buildMenu()
	return s, nil
}

// Requesting reports whether a feedback request is in flight.
func (s *ResultsScreen) Requesting() bool { return s.requesting }

// Summary returns the evaluated attempt shown by the screen.
func (s *ResultsScreen) Summary() res.Summary { return s.summary }

func (s *ResultsScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	var top strings.Builder
	top.WriteString(s.renderScore(cw))
	top.WriteString("\n\n")
	top.WriteString(s.menu.View())

	head := lipgloss.PlaceHorizontal(width, lipgloss.Center, top.String())

	panelHeight := max(height-lipgloss.Height(head)-3, 3)
	s.viewport.SetWidth(cw)
	s.viewport.SetHeight(panelHeight)
	s.viewport.SetContent(s.renderPanel(cw))

	panel := components.Card(s.viewport.View(), cw+2)
	return head + "\n" + lipgloss.PlaceHorizontal(width, lipgloss.Center, panel)
}

func (s *ResultsScreen) renderScore(cw int) string {
	var b strings.Builder
	score := lipgloss.NewStyle().Bold(true).Foreground(theme.Accent).
		Render("Final Score: " + s.summary.ScoreText)
	b.WriteString(score)
	b.WriteString("\n")

	switch {
	case s.summary.Passed && s.summary.Unlocked > 0:
		b.WriteString(theme.Correct.Render(fmt.Sprintf("Level passed! Level %d unlocked.", s.summary.Unlocked)))
	case s.summary.Passed:
		b.WriteString(theme.Correct.Render("Level passed!"))
	default:
		b.WriteString(theme.Incorrect.Render(fmt.Sprintf("Not quite. Score %d%% or more to pass.", int(res.PassThreshold*100))))
	}

	if s.summary.Warning != "" {
		b.WriteString("\n")
		b.WriteString(theme.Warning.Width(cw).Render("! " + s.summary.Warning))
	}
	return b.String()
}

// renderPanel renders the answer review followed by the feedback area.
func (s *ResultsScreen) renderPanel(cw int) string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(theme.Text).Render("Your Answers:"))
	b.WriteString("\n\n")

	wrap := lipgloss.NewStyle().Width(cw)
	for i, r := range s.summary.Attempt.Records {
		b.WriteString(wrap.Foreground(theme.Text).Render(fmt.Sprintf("Q%d. %s", i+1, r.Question)))
		b.WriteString("\n")
		answer := "  Your answer: " + r.Selected
		if r.IsCorrect {
			b.WriteString(theme.Correct.Render(answer))
		} else {
			b.WriteString(theme.Incorrect.Render(answer))
			b.WriteString("\n")
			b.WriteString(lipgloss.NewStyle().Foreground(theme.Success).Render("  Correct answer: " + r.Correct))
		}
		b.WriteString("\n\n")
	}

	switch {
	case s.requesting:
		b.WriteString(s.spinner.View() + " " + theme.Hint.Render(s.status))
	case s.feedback != "":
		b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(theme.Primary).Render("AI Feedback"))
		b.WriteString("\n")
		b.WriteString(s.renderFeedback(cw))
	case s.status != "":
		b.WriteString(theme.Hint.Width(cw).Render(s.status))
	}
	return b.String()
}

// renderFeedback renders the markdown reply, cached per width.
func (s *ResultsScreen) renderFeedback(width int) string {
	if s.rendered != "" && s.renderedWidth == width {
		return s.rendered
	}
	out, err := feedback.RenderTerminal(s.feedback, width)
	if err != nil {
		s.deps.Log().Debug("feedback render failed", "error", err)
		out = s.feedback
	}
	s.rendered, s.renderedWidth = strings.TrimRight(out, "\n"), width
	return s.rendered
}

func (s *ResultsScreen) Title() string {
	return "Results"
}

// HeaderContext shows the topic and level of the attempt.
func (s *ResultsScreen) HeaderContext() string {
	if s.title == "" {
		return fmt.Sprintf("Level %d", s.summary.Attempt.Level)
	}
	return fmt.Sprintf("%s · Level %d", s.title, s.summary.Attempt.Level)
}

func (s *ResultsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "PgUp/PgDn", Description: "Scroll"},
		{Key: "R", Description: "Play again"},
		{Key: "Esc", Description: "Back"},
	}
}
