package backdrop

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/harmonica"
)

const (
	driftGravity   = 6.0 // px/s²
	windPeriod     = 3 * time.Second
	windAmplitude  = 24.0 // px
	motesPerCells  = 60
	minDriftMotes  = 10
	driftMoteGlyph = "·˙°∘"
)

type mote struct {
	proj  *harmonica.Projectile
	glyph rune
}

// DriftEffect is slowly falling dust swayed by a gusting wind.
type DriftEffect struct {
	rng *rand.Rand

	width, height int
	canvasW       float64
	canvasH       float64
	motes         []mote

	wind       float64
	windV      float64
	windTarget float64
	windSpring harmonica.Spring
	elapsed    time.Duration
}

// NewDriftEffect creates the drift effect.
func NewDriftEffect(rng *rand.Rand) *DriftEffect {
	return &DriftEffect{
		rng:        rng,
		windSpring: harmonica.NewSpring(harmonica.FPS(FPS), 1.5, 0.6),
	}
}

func (e *DriftEffect) Init(width, height int) {
	e.width, e.height = width, height
	e.canvasW = float64(width * cellW)
	e.canvasH = float64(height * cellH)

	n := max(width*height/motesPerCells, minDriftMotes)
	e.motes = make([]mote, n)
	for i := range e.motes {
		e.spawn(&e.motes[i], e.rng.Float64()*e.canvasH)
	}
	e.wind, e.windV, e.windTarget = 0, 0, 0
	e.elapsed = 0
}

// spawn places m at height y with a fresh velocity.
func (e *DriftEffect) spawn(m *mote, y float64) {
	glyphs := []rune(driftMoteGlyph)
	pos := harmonica.Point{X: e.rng.Float64() * e.canvasW, Y: y}
	vel := harmonica.Vector{X: between(e.rng, -6, 10), Y: between(e.rng, 4, 14)}
	m.proj = harmonica.NewProjectile(harmonica.FPS(FPS), pos, vel, harmonica.Vector{Y: driftGravity})
	m.glyph = glyphs[e.rng.IntN(len(glyphs))]
}

func (e *DriftEffect) Animate(dt time.Duration) {
	for range steps(dt) {
		e.elapsed += Frame
		if e.elapsed >= windPeriod {
			e.elapsed -= windPeriod
			e.windTarget = between(e.rng, -windAmplitude, windAmplitude)
		}
		e.wind, e.windV = e.windSpring.Update(e.wind, e.windV, e.windTarget)

		for i := range e.motes {
			m := &e.motes[i]
			pos := m.proj.Update()
			if pos.Y > e.canvasH {
				e.spawn(m, 0)
			}
		}
	}
}

// Wind returns the current horizontal sway in pixels.
func (e *DriftEffect) Wind() float64 {
	return e.wind
}

func (e *DriftEffect) Render() string {
	if e.width <= 0 || e.height <= 0 {
		return ""
	}
	g := newGrid(e.width, e.height)
	for _, m := range e.motes {
		pos := m.proj.Position()
		// Wrap sideways so motes blown off one edge come back on the other.
		x := math.Mod(pos.X+e.wind, e.canvasW)
		if x < 0 {
			x += e.canvasW
		}
		g.setPx(x, pos.Y, m.glyph)
	}
	return g.String()
}
