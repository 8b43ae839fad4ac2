package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizly/internal/bank"
	"github.com/abhisek/quizly/internal/feedback"
	"github.com/abhisek/quizly/internal/progress"
	"github.com/abhisek/quizly/internal/results"
	"github.com/abhisek/quizly/internal/router"
	"github.com/abhisek/quizly/internal/screen"
	"github.com/abhisek/quizly/internal/screens/topics"
	"github.com/abhisek/quizly/internal/selection"
	"github.com/abhisek/quizly/internal/ui/layout"
)

// Options holds the collaborators of the TUI. Bank, Progress, Selection and
// Results are required; Attempts and Feedback may be nil.
type Options struct {
	Bank      *bank.Bank
	Progress  progress.Store
	Selection *selection.Selection
	Results   *results.Aggregator
	Attempts  results.AttemptLog
	Feedback  *feedback.Service
	Logger    *slog.Logger

	// TimerSeconds overrides the per-question countdown when positive.
	TimerSeconds int
}

func (o Options) validate() error {
	switch {
	case o.Bank == nil:
		return fmt.Errorf("app: question bank is required")
	case o.Progress == nil:
		return fmt.Errorf("app: progress store is required")
	case o.Selection == nil:
		return fmt.Errorf("app: selection store is required")
	case o.Results == nil:
		return fmt.Errorf("app: results aggregator is required")
	}
	return nil
}

func (o Options) deps() screen.Deps {
	return screen.Deps{
		Bank:         o.Bank,
		Progress:     o.Progress,
		Selection:    o.Selection,
		Results:      o.Results,
		Attempts:     o.Attempts,
		Feedback:     o.Feedback,
		Logger:       o.Logger,
		TimerSeconds: o.TimerSeconds,
	}
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	width  int
	height int
}

// newAppModel creates a new AppModel with the topic list as home screen.
func newAppModel(opts Options) AppModel {
	return AppModel{
		router: router.New(topics.New(opts.deps())),
	}
}

func (m AppModel) Init() tea.Cmd {
	if active := m.router.Active(); active != nil {
		return active.Init()
	}
	return nil
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView(m.render())
	v.AltScreen = true
	return v
}

// render draws the header, active screen and footer into one frame.
func (m AppModel) render() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	title, context := "", ""
	if active != nil {
		title = active.Title()
		if cp, ok := active.(screen.ContextProvider); ok {
			context = cp.HeaderContext()
		}
	}

	header := layout.RenderHeader(title, context, m.width)
	footer := layout.RenderFooter(m.footerHints(active), m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

func (m AppModel) footerHints(active screen.Screen) []layout.KeyHint {
	if hp, ok := active.(screen.KeyHintProvider); ok {
		return hp.KeyHints()
	}
	if m.router.Depth() > 1 {
		return []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

// Run starts the Bubble Tea program and blocks until it exits or ctx is
// cancelled.
func Run(ctx context.Context, opts Options) error {
	if err := opts.validate(); err != nil {
		return err
	}
	p := tea.NewProgram(newAppModel(opts), tea.WithContext(ctx))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
