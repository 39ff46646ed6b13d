package server

import (
	"fmt"
	"math"

	"github.com/spacesedan/sentimap/internal/aggregate"
	"github.com/spacesedan/sentimap/internal/clients"
)

const (
	PIE_CENTER = 100.0
	PIE_RADIUS = 90.0
)

type pieSlice struct {
	aggregate.EmotionSlice
	D string
}

// pieSlices turns angle ranges, in degrees clockwise from 12 o'clock, into SVG
// arc paths.
func pieSlices(slices []aggregate.EmotionSlice) []pieSlice {
	out := make([]pieSlice, 0, len(slices))
	for _, s := range slices {
		out = append(out, pieSlice{EmotionSlice: s, D: arcPath(s.StartAngle, s.EndAngle)})
	}
	return out
}

func arcPath(start, end float64) string {
	if end-start >= 360 {
		return fmt.Sprintf("M%.2f,%.2fm-%.2f,0a%.2f,%.2f 0 1,0 %.2f,0a%.2f,%.2f 0 1,0 -%.2f,0Z",
			PIE_CENTER, PIE_CENTER, PIE_RADIUS, PIE_RADIUS, PIE_RADIUS, 2*PIE_RADIUS, PIE_RADIUS, PIE_RADIUS, 2*PIE_RADIUS)
	}
	x0, y0 := polar(start)
	x1, y1 := polar(end)
	large := 0
	if end-start > 180 {
		large = 1
	}
	return fmt.Sprintf("M%.2f,%.2fL%.2f,%.2fA%.2f,%.2f 0 %d,1 %.2f,%.2fZ",
		PIE_CENTER, PIE_CENTER, x0, y0, PIE_RADIUS, PIE_RADIUS, large, x1, y1)
}

func polar(deg float64) (float64, float64) {
	rad := deg * math.Pi / 180
	return PIE_CENTER + PIE_RADIUS*math.Sin(rad), PIE_CENTER - PIE_RADIUS*math.Cos(rad)
}

// errorView is what a panel shows when its load failed.
type errorView struct {
	Message string
	Details []string
}

func newErrorView(err error) *errorView {
	if err == nil {
		return nil
	}
	v := &errorView{Message: err.Error()}
	if details := clients.ValidationErrors(err); len(details) > 0 {
		v.Message = "The backend rejected the request"
		for _, d := range details {
			v.Details = append(v.Details, fmt.Sprintf("%s: %s", clients.FormatLoc(d.Loc), d.Msg))
		}
	}
	return v
}
