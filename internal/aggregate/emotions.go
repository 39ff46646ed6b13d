package aggregate

import (
	"sort"
	"strings"
)

const DefaultEmotionColor = "#8884d8"

// EmotionColors covers the labels the backend's emotion model predicts.
var EmotionColors = map[string]string{
	"anger":        "#FF6347",
	"anticipation": "#FFA500",
	"disgust":      "#6B8E23",
	"fear":         "#6A5ACD",
	"joy":          "#FFD700",
	"love":         "#FF69B4",
	"optimism":     "#32CD32",
	"pessimism":    "#708090",
	"sadness":      "#1E90FF",
	"surprise":     "#00CED1",
	"trust":        "#20B2AA",
}

type EmotionSlice struct {
	Emotion    string
	Count      int
	Percentage float64
	StartAngle float64
	EndAngle   float64
	Color      string
}

// EmotionSlices groups counts by label (case-insensitive) and lays them out as
// pie slices, in degrees, largest first.
func EmotionSlices(counts map[string]int) []EmotionSlice {
	grouped := make(map[string]int, len(counts))
	total := 0
	for label, n := range counts {
		label = strings.ToLower(strings.TrimSpace(label))
		if label == "" || n <= 0 {
			continue
		}
		grouped[label] += n
		total += n
	}
	if total == 0 {
		return nil
	}

	slices := make([]EmotionSlice, 0, len(grouped))
	for label, n := range grouped {
		slices = append(slices, EmotionSlice{Emotion: label, Count: n})
	}
	sort.Slice(slices, func(i, j int) bool {
		if slices[i].Count != slices[j].Count {
			return slices[i].Count > slices[j].Count
		}
		return slices[i].Emotion < slices[j].Emotion
	})

	cumulative := 0.0
	for i := range slices {
		share := float64(slices[i].Count) / float64(total)
		angle := share * 360
		slices[i].Percentage = share * 100
		slices[i].StartAngle = cumulative
		slices[i].EndAngle = cumulative + angle
		slices[i].Color = emotionColor(slices[i].Emotion)
		cumulative += angle
	}
	return slices
}

// CountEmotions rebuilds emotion counts from a list of per-post predictions.
func CountEmotions(predicted []string) map[string]int {
	counts := make(map[string]int)
	for _, e := range predicted {
		if e != "" {
			counts[e]++
		}
	}
	return counts
}

func emotionColor(label string) string {
	if c, ok := EmotionColors[label]; ok {
		return c
	}
	return DefaultEmotionColor
}
