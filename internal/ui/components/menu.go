package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizly/internal/ui/theme"
)

// MenuItem represents a single item in a navigation menu.
type MenuItem struct {
	Label       string
	Description string

	// Tag is shown after the label, e.g. "Coming Soon" or "Locked".
	Tag      string
	Action   func() tea.Cmd
	Disabled bool
}

// Menu is a vertical navigation menu.
type Menu struct {
	Items    []MenuItem
	Selected int
}

// NewMenu creates a new menu with the given items.
func NewMenu(items []MenuItem) Menu {
	selected := 0
	for i, item := range items {
		if !item.Disabled {
			selected = i
			break
		}
	}
	return Menu{
		Items:    items,
		Selected: selected,
	}
}

// Init returns nil (no initial command).
func (m Menu) Init() tea.Cmd {
	return nil
}

// Update handles keyboard navigation. Enter and Space activate the
// selected item.
func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch kmsg.String() {
	case "up", "k":
		for i := m.Selected - 1; i >= 0; i-- {
			if !m.Items[i].Disabled {
				m.Selected = i
				break
			}
		}
	case "down", "j":
		for i := m.Selected + 1; i < len(m.Items); i++ {
			if !m.Items[i].Disabled {
				m.Selected = i
				break
			}
		}
	case "enter", "space":
		if m.Selected >= 0 && m.Selected < len(m.Items) {
			item := m.Items[m.Selected]
			if item.Action != nil && !item.Disabled {
				return m, item.Action()
			}
		}
	}

	return m, nil
}

// Current returns the selected item, or false for an empty menu.
func (m Menu) Current() (MenuItem, bool) {
	if m.Selected < 0 || m.Selected >= len(m.Items) {
		return MenuItem{}, false
	}
	return m.Items[m.Selected], true
}

// View renders the menu.
func (m Menu) View() string {
	return m.render(0, len(m.Items))
}

// ViewWindow renders at most rows items, scrolled to keep the selection
// visible, with arrows marking hidden items.
func (m Menu) ViewWindow(rows int) string {
	if rows <= 0 || len(m.Items) <= rows {
		return m.View()
	}
	start := min(max(m.Selected-rows/2, 0), len(m.Items)-rows)
	end := start + rows

	var b strings.Builder
	if start > 0 {
		b.WriteString(theme.Disabled.Render("    ↑ more") + "\n")
	}
	b.WriteString(m.render(start, end))
	if end < len(m.Items) {
		b.WriteString(theme.Disabled.Render("    ↓ more") + "\n")
	}
	return b.String()
}

func (m Menu) render(start, end int) string {
	var b strings.Builder
	for i := start; i < end; i++ {
		item := m.Items[i]
		var line string
		switch {
		case item.Disabled:
			line = theme.Disabled.Render("    " + item.Label)
		case i == m.Selected:
			line = theme.Selected.Render("  ▸ " + item.Label)
		default:
			line = theme.Unselected.Render("    " + item.Label)
		}
		if item.Tag != "" {
			line += "  " + lipgloss.NewStyle().Foreground(theme.Accent).Render("["+item.Tag+"]")
		}
		b.WriteString(line + "\n")
		if item.Description != "" && i == m.Selected {
			b.WriteString(theme.Hint.Render("      "+item.Description) + "\n")
		}
	}
	return b.String()
}
