package backdrop

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/harmonica"
)

// NetworkSettings tunes the particle network. Speeds are in pixels per
// 1/60 s, the rate the settings were designed at.
type NetworkSettings struct {
	Count        int
	MinRadius    float64
	MaxRadius    float64
	MinSpeed     float64
	MaxSpeed     float64
	LineDistance float64
}

// DefaultNetworkSettings returns the stock particle network tuning.
func DefaultNetworkSettings() NetworkSettings {
	return NetworkSettings{
		Count:        50,
		MinRadius:    1,
		MaxRadius:    3,
		MinSpeed:     0.1,
		MaxSpeed:     0.5,
		LineDistance: 150,
	}
}

// lineReferenceWidth is the canvas width LineDistance is tuned for.
// Narrower canvases shrink the distance proportionally.
const lineReferenceWidth = 1280.0

type particle struct {
	proj   *harmonica.Projectile
	radius float64
}

// NetworkEffect is a field of drifting particles, with dotted links between
// particles closer than the line distance.
type NetworkEffect struct {
	settings NetworkSettings
	rng      *rand.Rand

	width, height int
	canvasW       float64
	canvasH       float64
	particles     []particle
}

// NewNetworkEffect creates a particle network.
func NewNetworkEffect(settings NetworkSettings, rng *rand.Rand) *NetworkEffect {
	return &NetworkEffect{settings: settings, rng: rng}
}

func (e *NetworkEffect) Init(width, height int) {
	e.width, e.height = width, height
	e.canvasW = float64(width * cellW)
	e.canvasH = float64(height * cellH)

	s := e.settings
	e.particles = make([]particle, s.Count)
	for i := range e.particles {
		pos := harmonica.Point{
			X: e.rng.Float64() * e.canvasW,
			Y: e.rng.Float64() * e.canvasH,
		}
		// Same skewed spread as the stock tuning: mostly drifting right/down.
		vel := harmonica.Vector{
			X: ((e.rng.Float64()-0.5)*(s.MaxSpeed-s.MinSpeed) + s.MinSpeed) * 60,
			Y: ((e.rng.Float64()-0.5)*(s.MaxSpeed-s.MinSpeed) + s.MinSpeed) * 60,
		}
		e.particles[i] = particle{
			proj:   harmonica.NewProjectile(harmonica.FPS(FPS), pos, vel, harmonica.Vector{}),
			radius: between(e.rng, s.MinRadius, s.MaxRadius),
		}
	}
}

func (e *NetworkEffect) Animate(dt time.Duration) {
	for range steps(dt) {
		for i := range e.particles {
			e.step(&e.particles[i])
		}
	}
}

// step moves one particle and bounces it off the canvas edges.
func (e *NetworkEffect) step(p *particle) {
	pos := p.proj.Update()
	vel := p.proj.Velocity()

	bounced := false
	if pos.X < 0 || pos.X > e.canvasW {
		vel.X = -vel.X
		pos.X = clamp(pos.X, 0, e.canvasW)
		bounced = true
	}
	if pos.Y < 0 || pos.Y > e.canvasH {
		vel.Y = -vel.Y
		pos.Y = clamp(pos.Y, 0, e.canvasH)
		bounced = true
	}
	if bounced {
		p.proj = harmonica.NewProjectile(harmonica.FPS(FPS), pos, vel, harmonica.Vector{})
	}
}

// lineDistance is the link threshold scaled to the current canvas.
func (e *NetworkEffect) lineDistance() float64 {
	return e.settings.LineDistance * math.Min(1, e.canvasW/lineReferenceWidth)
}

// Links returns the index pairs of particles close enough to be joined.
func (e *NetworkEffect) Links() [][2]int {
	limit := e.lineDistance()
	var links [][2]int
	for i := 0; i < len(e.particles); i++ {
		a := e.particles[i].proj.Position()
		for j := i + 1; j < len(e.particles); j++ {
			b := e.particles[j].proj.Position()
			if math.Hypot(a.X-b.X, a.Y-b.Y) < limit {
				links = append(links, [2]int{i, j})
			}
		}
	}
	return links
}

func (e *NetworkEffect) Render() string {
	if e.width <= 0 || e.height <= 0 {
		return ""
	}
	g := newGrid(e.width, e.height)

	for _, l := range e.Links() {
		a := e.particles[l[0]].proj.Position()
		b := e.particles[l[1]].proj.Position()
		drawLine(g, a, b)
	}
	for _, p := range e.particles {
		pos := p.proj.Position()
		g.setPx(pos.X, pos.Y, particleGlyph(p.radius))
	}
	return g.String()
}

// drawLine dots the cells strictly between a and b.
func drawLine(g *grid, a, b harmonica.Point) {
	x0, y0 := a.X/cellW, a.Y/cellH
	x1, y1 := b.X/cellW, b.Y/cellH
	n := int(math.Max(math.Abs(x1-x0), math.Abs(y1-y0)))
	for i := 1; i < n; i++ {
		t := float64(i) / float64(n)
		g.softSet(int(x0+(x1-x0)*t), int(y0+(y1-y0)*t), '·')
	}
}

func particleGlyph(radius float64) rune {
	switch {
	case radius < 1.67:
		return '∙'
	case radius < 2.33:
		return '•'
	default:
		return '●'
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}
