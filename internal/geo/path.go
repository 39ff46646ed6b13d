package geo

import (
	"math"
	"strconv"
	"strings"
)

type Bounds struct {
	X0, Y0, X1, Y1 float64
}

func (b Bounds) Center() (float64, float64) {
	return (b.X0 + b.X1) / 2, (b.Y0 + b.Y1) / 2
}

func (b Bounds) Width() float64  { return b.X1 - b.X0 }
func (b Bounds) Height() float64 { return b.Y1 - b.Y0 }

func (b Bounds) Empty() bool {
	return math.IsInf(b.X0, 1)
}

func emptyBounds() Bounds {
	return Bounds{X0: math.Inf(1), Y0: math.Inf(1), X1: math.Inf(-1), Y1: math.Inf(-1)}
}

func (b *Bounds) extend(x, y float64) {
	b.X0 = math.Min(b.X0, x)
	b.Y0 = math.Min(b.Y0, y)
	b.X1 = math.Max(b.X1, x)
	b.Y1 = math.Max(b.Y1, y)
}

// ProjectedShape is a feature rendered to SVG path data in canvas pixels.
type ProjectedShape struct {
	ID     string
	Name   string
	D      string
	Bounds Bounds
}

// Path projects a feature and returns its SVG path data and pixel bounds.
func Path(f Feature, proj *AlbersUSA) ProjectedShape {
	var sb strings.Builder
	bounds := emptyBounds()

	for _, poly := range f.Polygons {
		for _, ring := range poly {
			points := proj.ProjectRing(ring)
			if len(points) < 2 {
				continue
			}
			for i, pt := range points {
				if i == 0 {
					sb.WriteByte('M')
				} else {
					sb.WriteByte('L')
				}
				sb.WriteString(formatCoord(pt[0]))
				sb.WriteByte(',')
				sb.WriteString(formatCoord(pt[1]))
				bounds.extend(pt[0], pt[1])
			}
			sb.WriteByte('Z')
		}
	}

	if bounds.Empty() {
		bounds = Bounds{}
	}
	return ProjectedShape{ID: f.ID, Name: f.Name, D: sb.String(), Bounds: bounds}
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(math.Round(v*10)/10, 'f', -1, 64)
}

const STATES_OBJECT = "states"

// ProjectStates decodes a us-atlas document and projects its states object.
func ProjectStates(data []byte, proj *AlbersUSA) ([]ProjectedShape, error) {
	topo, err := DecodeTopology(data)
	if err != nil {
		return nil, err
	}
	features, err := topo.Features(STATES_OBJECT)
	if err != nil {
		return nil, err
	}

	shapes := make([]ProjectedShape, 0, len(features))
	for _, f := range features {
		shapes = append(shapes, Path(f, proj))
	}
	return shapes, nil
}
