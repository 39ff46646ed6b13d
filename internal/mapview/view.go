// Package mapview holds the choropleth's interaction state and renders it to SVG.
package mapview

import (
	"fmt"

	"github.com/spacesedan/sentimap/internal/aggregate"
	"github.com/spacesedan/sentimap/internal/geo"
	"github.com/spacesedan/sentimap/internal/models"
)

type Mode int

const (
	Idle Mode = iota
	Zoomed
)

func (m Mode) String() string {
	switch m {
	case Idle:
		return "idle"
	case Zoomed:
		return "zoomed"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

const (
	ChartFilled = "filled"

	ZOOM_SCALE = 3.0
	// Tooltip offset from the cursor, in canvas pixels.
	TOOLTIP_DX = 50.0
	TOOLTIP_DY = 10.0
)

// Transform is applied as translate(X, Y) scale(K).
type Transform struct {
	X, Y, K float64
}

var Identity = Transform{K: 1}

type Region struct {
	ID     string
	Name   string
	D      string
	Bounds geo.Bounds
	Fill   string
}

type Tooltip struct {
	Visible bool
	X, Y    float64
	Title   string
	Lines   []string
}

// View is the choropleth's view model. It is not safe for concurrent use;
// each request builds its own.
type View struct {
	Width, Height float64

	regions []Region
	index   map[string]int

	sentiments models.SentimentByState
	chartType  string

	mode      Mode
	transform Transform
	zoomedOn  string
	selected  string
	tooltip   Tooltip
}

func NewView(shapes []geo.ProjectedShape) *View {
	v := &View{
		Width:     geo.MAP_WIDTH,
		Height:    geo.MAP_HEIGHT,
		regions:   make([]Region, 0, len(shapes)),
		index:     make(map[string]int, len(shapes)),
		chartType: ChartFilled,
		transform: Identity,
	}
	for _, s := range shapes {
		if s.Name == "" {
			continue
		}
		v.index[s.Name] = len(v.regions)
		v.regions = append(v.regions, Region{ID: s.ID, Name: s.Name, D: s.D, Bounds: s.Bounds})
	}
	v.recolor()
	return v
}

func (v *View) Mode() Mode           { return v.mode }
func (v *View) Transform() Transform { return v.transform }
func (v *View) ZoomedOn() string     { return v.zoomedOn }
func (v *View) Selected() string     { return v.selected }
func (v *View) Tooltip() Tooltip     { return v.tooltip }
func (v *View) ChartType() string    { return v.chartType }

func (v *View) Regions() []Region {
	return append([]Region(nil), v.regions...)
}

func (v *View) Region(name string) (Region, bool) {
	i, ok := v.index[name]
	if !ok {
		return Region{}, false
	}
	return v.regions[i], true
}

// SetSentiments replaces the sentiment data and recomputes every fill.
func (v *View) SetSentiments(s models.SentimentByState) {
	v.sentiments = s
	v.recolor()
}

func (v *View) SetChartType(chartType string) {
	if chartType == "" {
		chartType = ChartFilled
	}
	v.chartType = chartType
	v.recolor()
}

func (v *View) recolor() {
	for i := range v.regions {
		v.regions[i].Fill = v.fill(v.regions[i].Name)
	}
}

func (v *View) fill(name string) string {
	if v.chartType != ChartFilled {
		return aggregate.ColorUnfilled
	}
	s := v.sentiments.Lookup(name)
	if s == nil {
		return aggregate.SentimentToColor(nil)
	}
	p := s.Percentages()
	return aggregate.SentimentToColor(&p)
}

// Click zooms onto a region, centering its bounding box on the canvas.
// Clicking another region while zoomed moves the zoom there.
func (v *View) Click(name string) bool {
	r, ok := v.Region(name)
	if !ok {
		return false
	}
	cx, cy := r.Bounds.Center()
	v.transform = Transform{
		X: v.Width/2 - ZOOM_SCALE*cx,
		Y: v.Height/2 - ZOOM_SCALE*cy,
		K: ZOOM_SCALE,
	}
	v.mode = Zoomed
	v.zoomedOn = name
	return true
}

// ContextMenu resets the zoom. It does nothing while idle.
func (v *View) ContextMenu() bool {
	if v.mode != Zoomed {
		return false
	}
	v.mode = Idle
	v.transform = Identity
	v.zoomedOn = ""
	return true
}

// MiddleClick selects a region, which opens its report.
func (v *View) MiddleClick(name string) bool {
	if _, ok := v.Region(name); !ok {
		return false
	}
	v.selected = name
	return true
}

func (v *View) ClearSelection() {
	v.selected = ""
}

func (v *View) Hover(name string, x, y float64) bool {
	if _, ok := v.Region(name); !ok {
		return false
	}
	v.tooltip = Tooltip{
		Visible: true,
		X:       x + TOOLTIP_DX,
		Y:       y + TOOLTIP_DY,
		Title:   name,
		Lines:   TooltipLines(v.sentiments.Lookup(name)),
	}
	return true
}

func (v *View) Move(x, y float64) {
	if !v.tooltip.Visible {
		return
	}
	v.tooltip.X = x + TOOLTIP_DX
	v.tooltip.Y = y + TOOLTIP_DY
}

func (v *View) Leave() {
	v.tooltip = Tooltip{}
}

// TooltipLines formats a sentiment as rounded percentages with one decimal.
func TooltipLines(s *models.Sentiment) []string {
	if s == nil {
		return []string{"No data"}
	}
	p := s.Percentages()
	return []string{
		fmt.Sprintf("Positive: %.1f %%", p.Positive),
		fmt.Sprintf("Neutral: %.1f %%", p.Neutral),
		fmt.Sprintf("Negative: %.1f %%", p.Negative),
	}
}
