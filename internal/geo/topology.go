// Package geo decodes the us-atlas TopoJSON states layer and projects it onto
// the dashboard canvas.
package geo

import (
	"encoding/json"
	"fmt"
)

// Point is a longitude/latitude pair in degrees.
type Point [2]float64

type Ring []Point

// Polygon is an exterior ring followed by any holes.
type Polygon []Ring

type Feature struct {
	ID       string
	Name     string
	Polygons []Polygon
}

type Topology struct {
	Type      string                    `json:"type"`
	Transform *Transform                `json:"transform,omitempty"`
	Objects   map[string]TopologyObject `json:"objects"`
	Arcs      [][][]float64             `json:"arcs"`

	decoded [][]Point
}

// Transform is the quantization transform of a quantized topology.
type Transform struct {
	Scale     [2]float64 `json:"scale"`
	Translate [2]float64 `json:"translate"`
}

type TopologyObject struct {
	Type       string           `json:"type"`
	ID         json.RawMessage  `json:"id,omitempty"`
	Properties map[string]any   `json:"properties,omitempty"`
	Arcs       json.RawMessage  `json:"arcs,omitempty"`
	Geometries []TopologyObject `json:"geometries,omitempty"`
}

func DecodeTopology(data []byte) (*Topology, error) {
	var topo Topology
	if err := json.Unmarshal(data, &topo); err != nil {
		return nil, fmt.Errorf("[Geo] failed to unmarshal topology: %w", err)
	}
	if topo.Type != "Topology" {
		return nil, fmt.Errorf("[Geo] unexpected document type %q", topo.Type)
	}
	topo.decodeArcs()
	return &topo, nil
}

// decodeArcs resolves delta encoding and quantization once so features can
// share the absolute coordinates.
func (t *Topology) decodeArcs() {
	t.decoded = make([][]Point, len(t.Arcs))
	for i, arc := range t.Arcs {
		points := make([]Point, 0, len(arc))
		var x, y float64
		for _, pos := range arc {
			if len(pos) < 2 {
				continue
			}
			if t.Transform != nil {
				x += pos[0]
				y += pos[1]
				points = append(points, Point{
					x*t.Transform.Scale[0] + t.Transform.Translate[0],
					y*t.Transform.Scale[1] + t.Transform.Translate[1],
				})
			} else {
				points = append(points, Point{pos[0], pos[1]})
			}
		}
		t.decoded[i] = points
	}
}

// Features returns one feature per geometry of the named object. Geometries
// that are not polygons are skipped.
func (t *Topology) Features(object string) ([]Feature, error) {
	obj, ok := t.Objects[object]
	if !ok {
		return nil, fmt.Errorf("[Geo] topology has no object %q", object)
	}

	geometries := obj.Geometries
	if obj.Type != "GeometryCollection" {
		geometries = []TopologyObject{obj}
	}

	features := make([]Feature, 0, len(geometries))
	for _, g := range geometries {
		polygons, err := t.polygons(g)
		if err != nil {
			return nil, err
		}
		if polygons == nil {
			continue
		}
		features = append(features, Feature{
			ID:       decodeID(g.ID),
			Name:     propertyString(g.Properties, "name"),
			Polygons: polygons,
		})
	}
	return features, nil
}

func (t *Topology) polygons(g TopologyObject) ([]Polygon, error) {
	switch g.Type {
	case "Polygon":
		var rings [][]int
		if err := json.Unmarshal(g.Arcs, &rings); err != nil {
			return nil, fmt.Errorf("[Geo] bad polygon arcs: %w", err)
		}
		return []Polygon{t.polygon(rings)}, nil
	case "MultiPolygon":
		var polys [][][]int
		if err := json.Unmarshal(g.Arcs, &polys); err != nil {
			return nil, fmt.Errorf("[Geo] bad multipolygon arcs: %w", err)
		}
		out := make([]Polygon, 0, len(polys))
		for _, rings := range polys {
			out = append(out, t.polygon(rings))
		}
		return out, nil
	default:
		return nil, nil
	}
}

func (t *Topology) polygon(rings [][]int) Polygon {
	poly := make(Polygon, 0, len(rings))
	for _, arcs := range rings {
		poly = append(poly, t.ring(arcs))
	}
	return poly
}

// ring stitches arcs together. Consecutive arcs share an endpoint, so the last
// point collected is dropped before the next arc is appended. A negative index
// ~i means arc i traversed backwards.
func (t *Topology) ring(arcs []int) Ring {
	var ring Ring
	for _, idx := range arcs {
		reversed := idx < 0
		if reversed {
			idx = ^idx
		}
		if idx >= len(t.decoded) {
			continue
		}
		arc := t.decoded[idx]
		if len(ring) > 0 {
			ring = ring[:len(ring)-1]
		}
		if reversed {
			for i := len(arc) - 1; i >= 0; i-- {
				ring = append(ring, arc[i])
			}
		} else {
			ring = append(ring, arc...)
		}
	}
	return ring
}

func decodeID(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return string(raw)
}

func propertyString(props map[string]any, key string) string {
	if v, ok := props[key].(string); ok {
		return v
	}
	return ""
}
