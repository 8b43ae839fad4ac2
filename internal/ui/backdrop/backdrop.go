// Package backdrop draws the decorative animations behind the topic and
// level lists. Each topic maps to an Effect; unknown topics get the
// particle network.
package backdrop

import (
	"math/rand/v2"
	"strings"
	"time"
)

// FPS is the animation frame rate.
const FPS = 20

// Frame is the duration of one animation frame.
const Frame = time.Second / FPS

// maxStepsPerAnimate bounds catch-up work after a stall.
const maxStepsPerAnimate = 10

// Terminal cells are treated as cellW x cellH pixels so effects can keep
// the pixel-based tuning of the particle settings.
const (
	cellW = 8
	cellH = 16
)

// Effect is a per-topic animation strategy.
type Effect interface {
	// Init (re)seeds the effect for a grid of width x height cells.
	Init(width, height int)

	// Animate advances the effect by dt.
	Animate(dt time.Duration)

	// Render returns height lines of width cells. Empty before Init.
	Render() string
}

// Name identifies an effect kind.
type Name string

const (
	Network Name = "network"
	Orbit   Name = "orbit"
	Drift   Name = "drift"
)

var topicEffects = map[string]Name{
	"mathematics": Network,
	"science":     Orbit,
	"history":     Drift,
}

// EffectFor returns the effect kind used for a topic.
func EffectFor(topicID string) Name {
	if n, ok := topicEffects[topicID]; ok {
		return n
	}
	return Network
}

// New returns the effect for a topic. A nil rng uses a randomly seeded one.
func New(topicID string, rng *rand.Rand) Effect {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	switch EffectFor(topicID) {
	case Orbit:
		return NewOrbitEffect(rng)
	case Drift:
		return NewDriftEffect(rng)
	default:
		return NewNetworkEffect(DefaultNetworkSettings(), rng)
	}
}

// steps converts dt into a whole number of frames, at least one.
func steps(dt time.Duration) int {
	n := int(dt / Frame)
	return min(max(n, 1), maxStepsPerAnimate)
}

// grid is a width x height rune buffer.
type grid struct {
	w, h  int
	cells [][]rune
}

func newGrid(w, h int) *grid {
	g := &grid{w: w, h: h, cells: make([][]rune, h)}
	for y := range g.cells {
		g.cells[y] = []rune(strings.Repeat(" ", w))
	}
	return g
}

// set writes r at (x, y); out of range writes are dropped.
func (g *grid) set(x, y int, r rune) {
	if x < 0 || y < 0 || x >= g.w || y >= g.h {
		return
	}
	g.cells[y][x] = r
}

// setPx writes r at the cell containing pixel (px, py).
func (g *grid) setPx(px, py float64, r rune) {
	g.set(int(px/cellW), int(py/cellH), r)
}

// softSet writes r only over blank cells.
func (g *grid) softSet(x, y int, r rune) {
	if x < 0 || y < 0 || x >= g.w || y >= g.h || g.cells[y][x] != ' ' {
		return
	}
	g.cells[y][x] = r
}

func (g *grid) String() string {
	lines := make([]string, g.h)
	for y, row := range g.cells {
		lines[y] = string(row)
	}
	return strings.Join(lines, "\n")
}

// between returns a uniform value in [lo, hi).
func between(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}
