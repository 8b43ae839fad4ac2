package backdrop

import (
	"math/rand/v2"
	"strings"
	"sync/atomic"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizly/internal/ui/theme"
)

var lastID atomic.Int64

// FrameMsg advances the Animation with the matching ID.
type FrameMsg struct {
	Time time.Time
	ID   int
	tag  int
}

// Animation drives an Effect from bubbletea frame ticks. Frames addressed to
// another animation, or left over from an earlier tick chain, are ignored.
type Animation struct {
	id      int
	tag     int
	topicID string
	effect  Effect
	rng     *rand.Rand

	width, height int
}

// NewAnimation creates an animation for a topic. rng may be nil.
func NewAnimation(topicID string, rng *rand.Rand) *Animation {
	return &Animation{
		id:      int(lastID.Add(1)),
		topicID: topicID,
		effect:  New(topicID, rng),
		rng:     rng,
	}
}

// ID returns the animation's frame address.
func (a *Animation) ID() int { return a.id }

// Topic returns the topic the current effect was chosen for.
func (a *Animation) Topic() string { return a.topicID }

// SetTopic switches to the topic's effect. The grid is kept.
func (a *Animation) SetTopic(topicID string) {
	if topicID == a.topicID {
		return
	}
	prev := EffectFor(a.topicID)
	a.topicID = topicID
	if EffectFor(topicID) == prev {
		return
	}
	a.effect = New(topicID, a.rng)
	if a.width > 0 && a.height > 0 {
		a.effect.Init(a.width, a.height)
	}
}

// Start begins a new tick chain, orphaning any chain already running.
func (a *Animation) Start() tea.Cmd {
	a.tag++
	return a.tick()
}

func (a *Animation) tick() tea.Cmd {
	id, tag := a.id, a.tag
	return tea.Tick(Frame, func(t time.Time) tea.Msg {
		return FrameMsg{Time: t, ID: id, tag: tag}
	})
}

// Update animates on a frame addressed to a and schedules the next one.
// handled is false for any other message.
func (a *Animation) Update(msg tea.Msg) (cmd tea.Cmd, handled bool) {
	frame, ok := msg.(FrameMsg)
	if !ok || frame.ID != a.id {
		return nil, false
	}
	if frame.tag != a.tag {
		return nil, true
	}
	if a.width > 0 && a.height > 0 {
		a.effect.Animate(Frame)
	}
	return a.tick(), true
}

// resize initializes the effect when the grid size changes.
func (a *Animation) resize(width, height int) {
	if width == a.width && height == a.height {
		return
	}
	a.width, a.height = width, height
	if width > 0 && height > 0 {
		a.effect.Init(width, height)
	}
}

// View renders the effect dimmed in the topic's accent color.
func (a *Animation) View(width, height int) string {
	a.resize(width, height)
	if width <= 0 || height <= 0 {
		return ""
	}
	return lipgloss.NewStyle().
		Foreground(theme.TopicAccent(a.topicID)).
		Faint(true).
		Render(a.effect.Render())
}

// Compose centers fg over bg, a width x height backdrop.
func Compose(bg, fg string, width, height int) string {
	x := max((width-lipgloss.Width(fg))/2, 0)
	y := max((height-lipgloss.Height(fg))/2, 0)
	out := lipgloss.NewCanvas(
		lipgloss.NewLayer(bg),
		lipgloss.NewLayer(fg).X(x).Y(y).Z(1),
	).Render()
	return strings.ReplaceAll(out, "\r\n", "\n")
}
