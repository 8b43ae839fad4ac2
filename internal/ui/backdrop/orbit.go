package backdrop

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/harmonica"
)

// breathPeriod is how often the orbit rings swap their target size.
const breathPeriod = 2 * time.Second

type ring struct {
	base    float64 // radius as a fraction of the half canvas
	tilt    float64 // radians
	omega   float64 // electron angular speed, radians per second
	angle   float64
	scale   float64
	scaleV  float64
	spring  harmonica.Spring
	squeeze float64 // minor/major axis ratio
}

// OrbitEffect draws an atom: a nucleus with electrons on tilted rings whose
// size eases in and out.
type OrbitEffect struct {
	rng *rand.Rand

	width, height int
	cx, cy        float64
	radius        float64
	rings         []ring
	stars         [][2]int
	elapsed       time.Duration
	expanded      bool
}

// NewOrbitEffect creates the orbit effect.
func NewOrbitEffect(rng *rand.Rand) *OrbitEffect {
	return &OrbitEffect{rng: rng}
}

func (e *OrbitEffect) Init(width, height int) {
	e.width, e.height = width, height
	canvasW := float64(width * cellW)
	canvasH := float64(height * cellH)
	e.cx, e.cy = canvasW/2, canvasH/2
	e.radius = math.Min(canvasW, canvasH) / 2

	e.rings = e.rings[:0]
	for i, base := range []float64{0.45, 0.7, 0.95} {
		e.rings = append(e.rings, ring{
			base:    base,
			tilt:    float64(i) * math.Pi / 3,
			omega:   between(e.rng, 0.6, 1.4) * float64(3-i),
			angle:   e.rng.Float64() * 2 * math.Pi,
			scale:   1,
			spring:  harmonica.NewSpring(harmonica.FPS(FPS), 3.0, 0.4),
			squeeze: 0.35,
		})
	}

	e.stars = e.stars[:0]
	for range width * height / 40 {
		e.stars = append(e.stars, [2]int{e.rng.IntN(max(width, 1)), e.rng.IntN(max(height, 1))})
	}
	e.elapsed = 0
	e.expanded = false
}

func (e *OrbitEffect) Animate(dt time.Duration) {
	for range steps(dt) {
		e.elapsed += Frame
		if e.elapsed >= breathPeriod {
			e.elapsed -= breathPeriod
			e.expanded = !e.expanded
		}
		target := 0.9
		if e.expanded {
			target = 1.1
		}
		for i := range e.rings {
			r := &e.rings[i]
			r.angle = math.Mod(r.angle+r.omega/FPS, 2*math.Pi)
			r.scale, r.scaleV = r.spring.Update(r.scale, r.scaleV, target)
		}
	}
}

// point returns the pixel position at angle a on ring r.
func (e *OrbitEffect) point(r ring, a float64) (float64, float64) {
	major := e.radius * r.base * r.scale
	minor := major * r.squeeze
	x, y := major*math.Cos(a), minor*math.Sin(a)
	sin, cos := math.Sincos(r.tilt)
	return e.cx + x*cos - y*sin, e.cy + x*sin + y*cos
}

// Electron returns the cell of the electron on ring i.
func (e *OrbitEffect) Electron(i int) (int, int) {
	x, y := e.point(e.rings[i], e.rings[i].angle)
	return int(x / cellW), int(y / cellH)
}

func (e *OrbitEffect) Render() string {
	if e.width <= 0 || e.height <= 0 {
		return ""
	}
	g := newGrid(e.width, e.height)

	for _, s := range e.stars {
		g.set(s[0], s[1], '.')
	}
	for _, r := range e.rings {
		const samples = 96
		for k := range samples {
			x, y := e.point(r, 2*math.Pi*float64(k)/samples)
			g.set(int(x/cellW), int(y/cellH), '·')
		}
	}
	for i := range e.rings {
		x, y := e.Electron(i)
		g.set(x, y, '●')
	}
	g.setPx(e.cx, e.cy, '◉')
	return g.String()
}
