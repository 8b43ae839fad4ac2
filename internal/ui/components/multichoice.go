package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizly/internal/ui/theme"
)

// MultiChoice is a multiple-choice selector component. Options are labelled
// A, B, C, ... and can be picked by letter, by number or with the arrows
// and Enter.
type MultiChoice struct {
	Options      []string
	CorrectIndex int
	Selected     int
	Submitted    bool

	// ChosenIndex is -1 until submitted, and stays -1 when locked without
	// a choice (timeout).
	ChosenIndex int
}

// NewMultiChoice creates a new multiple-choice component.
func NewMultiChoice(options []string, correctIndex int) MultiChoice {
	return MultiChoice{
		Options:      options,
		CorrectIndex: correctIndex,
		ChosenIndex:  -1,
	}
}

// Init returns nil.
func (m MultiChoice) Init() tea.Cmd {
	return nil
}

// Update handles keyboard navigation and selection.
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, tea.Cmd) {
	if m.Submitted {
		return m, nil
	}

	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	key := kmsg.String()
	switch key {
	case "up", "k":
		if m.Selected > 0 {
			m.Selected--
		}
	case "down", "j":
		if m.Selected < len(m.Options)-1 {
			m.Selected++
		}
	case "enter", "space":
		m.submit(m.Selected)
	default:
		if i, ok := OptionIndex(key); ok && i < len(m.Options) {
			m.submit(i)
		}
	}

	return m, nil
}

// Lock marks the component submitted without user input. chosen may be -1.
func (m *MultiChoice) Lock(chosen int) {
	m.Submitted = true
	m.ChosenIndex = chosen
}

// Chosen returns the submitted option text.
func (m MultiChoice) Chosen() (string, bool) {
	if !m.Submitted || m.ChosenIndex < 0 || m.ChosenIndex >= len(m.Options) {
		return "", false
	}
	return m.Options[m.ChosenIndex], true
}

func (m *MultiChoice) submit(i int) {
	m.Selected = i
	m.Submitted = true
	m.ChosenIndex = i
}

// OptionIndex maps "1".."9" and "a".."i" (either case) to an option index.
func OptionIndex(key string) (int, bool) {
	if len(key) != 1 {
		return 0, false
	}
	c := key[0]
	switch {
	case c >= '1' && c <= '9':
		return int(c - '1'), true
	case c >= 'a' && c <= 'i':
		return int(c - 'a'), true
	case c >= 'A' && c <= 'I':
		return int(c - 'A'), true
	}
	return 0, false
}

// Label returns the letter shown before option i.
func Label(i int) string {
	return string(rune('A' + i))
}

// View renders the options.
func (m MultiChoice) View() string {
	var b strings.Builder

	for i, opt := range m.Options {
		prefix := "  "
		if i == m.Selected && !m.Submitted {
			prefix = "▸ "
		}

		line := fmt.Sprintf("%s%s)  %s", prefix, Label(i), opt)

		if m.Submitted {
			switch {
			case i == m.CorrectIndex:
				line += "  ✓"
				b.WriteString(theme.Correct.Render(line))
			case i == m.ChosenIndex:
				line += "  ✗"
				b.WriteString(theme.Incorrect.Render(line))
			default:
				b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render(line))
			}
		} else if i == m.Selected {
			b.WriteString(theme.Selected.Render(line))
		} else {
			b.WriteString(theme.Unselected.Render(line))
		}
		b.WriteString("\n")
	}

	return b.String()
}

// IsCorrect returns true if the user chose the correct answer.
func (m MultiChoice) IsCorrect() bool {
	return m.Submitted && m.ChosenIndex == m.CorrectIndex
}
