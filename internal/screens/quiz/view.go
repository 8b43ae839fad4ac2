package quiz

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	qz "github.com/abhisek/quizly/internal/quiz"
	"github.com/abhisek/quizly/internal/ui/components"
	"github.com/abhisek/quizly/internal/ui/theme"
)

// urgentSeconds turns the countdown red.
const urgentSeconds = 5

func headerContext(topicTitle string, level int) string {
	if topicTitle == "" {
		return fmt.Sprintf("Level %d", level)
	}
	return fmt.Sprintf("%s · Level %d", topicTitle, level)
}

func (s *QuizScreen) View(width, height int) string {
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)

	switch {
	case s.err != nil:
		return center.Foreground(theme.Error).
			Render("\n\nError loading quiz. Please try again later.\n\n" + s.err.Error())
	case s.loading || s.engine == nil:
		return center.Foreground(theme.TextDim).Render("\n\nLoading questions...")
	case s.finishing:
		return center.Foreground(theme.TextDim).Render("\n\nScoring your answers...")
	}

	q, ok := s.engine.Current()
	if !ok {
		return ""
	}
	cw := components.ContentWidth(width)

	var b strings.Builder

	// Progress and countdown.
	bar := components.NewProgressBar("Question", s.engine.Index()+1, s.engine.QuestionCount(), cw-12)
	bar.Fill = theme.TopicAccent(s.engine.TopicID())
	b.WriteString(bar.View())
	b.WriteString("  ")
	b.WriteString(s.renderTimer())
	b.WriteString("\n\n")

	// Question text.
	b.WriteString(lipgloss.NewStyle().Width(cw).Bold(true).Foreground(theme.Text).Render(q.Prompt))
	b.WriteString("\n\n")

	b.WriteString(s.choice.View())
	b.WriteString("\n")

	if s.hint != "" {
		b.WriteString(theme.Hint.Width(cw).Render("Hint: " + s.hint))
		b.WriteString("\n\n")
	}

	if s.engine.Phase() == qz.PhaseAnswered {
		b.WriteString(s.renderVerdict())
		b.WriteString("\n\n")
		prompt := "Press Enter for the next question"
		if s.engine.Index() == s.engine.QuestionCount()-1 {
			prompt = "Press Enter to see your results"
		}
		b.WriteString(theme.Hint.Render(prompt))
	}

	return lipgloss.PlaceHorizontal(width, lipgloss.Center, "\n"+b.String())
}

func (s *QuizScreen) renderTimer() string {
	remaining := s.engine.Remaining()
	style := lipgloss.NewStyle().Bold(true).Foreground(theme.Accent)
	if remaining <= urgentSeconds {
		style = style.Foreground(theme.Error)
	}
	return style.Render(fmt.Sprintf("⏱ %2ds", remaining))
}

func (s *QuizScreen) renderVerdict() string {
	rec, ok := s.engine.LastRecord()
	if !ok {
		return ""
	}
	switch {
	case rec.IsCorrect:
		return theme.Correct.Render("Correct!")
	case rec.TimedOut:
		return theme.Incorrect.Render("Time's up!") + "  " +
			theme.Body.Render("Correct answer: "+rec.Correct)
	default:
		return theme.Incorrect.Render("Incorrect.") + "  " +
			theme.Body.Render("Correct answer: "+rec.Correct)
	}
}
