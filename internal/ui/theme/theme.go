package theme

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

// Color palette, dark background with a mint accent
var (
	Primary   = lipgloss.Color("#00F6A3") // Mint
	Secondary = lipgloss.Color("#38BDF8") // Sky
	Accent    = lipgloss.Color("#FACC15") // Yellow
	Success   = lipgloss.Color("#22C55E") // Green
	Error     = lipgloss.Color("#F43F5E") // Rose
	Text      = lipgloss.Color("#F8FAFC") // White
	TextDim   = lipgloss.Color("#94A3B8") // Slate
	BgCard    = lipgloss.Color("#1E293B") // Dark Slate
	Border    = lipgloss.Color("#334155") // Slate
)

// topicAccents colors the backdrop and headings of known topics.
var topicAccents = map[string]color.Color{
	"mathematics": lipgloss.Color("#00F6A3"),
	"science":     lipgloss.Color("#38BDF8"),
	"history":     lipgloss.Color("#F59E0B"),
}

// TopicAccent returns the accent color for a topic, Primary when unknown.
func TopicAccent(topicID string) color.Color {
	if c, ok := topicAccents[topicID]; ok {
		return c
	}
	return Primary
}

// Typography
var (
	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)
)

// States
var (
	Selected = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	Unselected = lipgloss.NewStyle().
			Foreground(Text)

	Disabled = lipgloss.NewStyle().
			Foreground(TextDim)

	Correct = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)

	Incorrect = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)

	Warning = lipgloss.NewStyle().
		Foreground(Accent)
)
