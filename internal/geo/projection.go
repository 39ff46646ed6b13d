package geo

import "math"

const (
	MAP_WIDTH  = 960.0
	MAP_HEIGHT = 600.0
	MAP_SCALE  = 1100.0

	radians = math.Pi / 180
)

// Projection maps a longitude/latitude point to canvas pixels.
type Projection interface {
	Project(p Point) (x, y float64)
}

// conicEqualArea is Albers' conic equal-area projection with a longitude
// rotation, a projected center, a scale and a translate.
type conicEqualArea struct {
	n, c, r0 float64
	rotate   float64
	k        float64
	dx, dy   float64
}

func newConicEqualArea(parallel0, parallel1, rotateLon float64, center Point, scale float64, tx, ty float64) *conicEqualArea {
	sy0 := math.Sin(parallel0 * radians)
	n := (sy0 + math.Sin(parallel1*radians)) / 2
	c := 1 + sy0*(2*n-sy0)

	p := &conicEqualArea{
		n:      n,
		c:      c,
		r0:     math.Sqrt(c) / n,
		rotate: rotateLon * radians,
		k:      scale,
	}

	// center is given in rotated coordinates and lands on (tx, ty).
	cx, cy := p.raw(center[0]*radians, center[1]*radians)
	p.dx = tx - cx*scale
	p.dy = ty + cy*scale
	return p
}

func (p *conicEqualArea) raw(lambda, phi float64) (float64, float64) {
	r := math.Sqrt(p.c-2*p.n*math.Sin(phi)) / p.n
	lambda *= p.n
	return r * math.Sin(lambda), p.r0 - r*math.Cos(lambda)
}

func (p *conicEqualArea) Project(pt Point) (float64, float64) {
	lambda := pt[0]*radians + p.rotate
	if lambda > math.Pi {
		lambda -= 2 * math.Pi
	} else if lambda < -math.Pi {
		lambda += 2 * math.Pi
	}
	x, y := p.raw(lambda, pt[1]*radians)
	return p.dx + x*p.k, p.dy - y*p.k
}

// AlbersUSA composes the lower 48, Alaska and Hawaii insets the way the
// us-atlas maps are usually drawn.
type AlbersUSA struct {
	lower48 *conicEqualArea
	alaska  *conicEqualArea
	hawaii  *conicEqualArea
}

func NewAlbersUSA(scale, x, y float64) *AlbersUSA {
	return &AlbersUSA{
		lower48: newConicEqualArea(29.5, 45.5, 96, Point{-0.6, 38.7}, scale, x, y),
		alaska:  newConicEqualArea(55, 65, 154, Point{-2, 58.5}, scale*0.35, x-0.307*scale, y+0.201*scale),
		hawaii:  newConicEqualArea(8, 18, 157, Point{-3, 19.9}, scale, x-0.205*scale, y+0.212*scale),
	}
}

// DefaultProjection fits the 960x600 dashboard canvas.
func DefaultProjection() *AlbersUSA {
	return NewAlbersUSA(MAP_SCALE, MAP_WIDTH/2, MAP_HEIGHT/2)
}

func (a *AlbersUSA) Project(p Point) (float64, float64) {
	return a.inset(p).Project(p)
}

// ProjectRing projects a whole ring with one inset so shapes are never split
// between two of them.
func (a *AlbersUSA) ProjectRing(r Ring) [][2]float64 {
	if len(r) == 0 {
		return nil
	}
	inset := a.inset(r[0])
	out := make([][2]float64, len(r))
	for i, p := range r {
		x, y := inset.Project(p)
		out[i] = [2]float64{x, y}
	}
	return out
}

func (a *AlbersUSA) inset(p Point) *conicEqualArea {
	lon, lat := p[0], p[1]
	switch {
	case lat > 50 && (lon < -129 || lon > 170):
		return a.alaska
	case lat < 24 && lon < -150:
		return a.hawaii
	default:
		return a.lower48
	}
}
