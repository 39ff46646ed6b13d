package aggregate

import "github.com/spacesedan/sentimap/internal/models"

const (
	ColorVeryNegative = "red"
	ColorNegative     = "#E96100"
	ColorNeutral      = "yellow"
	ColorBalanced     = "#E4AF14"
	ColorPositive     = "#69B34C"
	ColorVeryPositive = "#009E20"
	ColorUnknown      = "#9aa2a0"
	ColorUnfilled     = "#f5f5f5"
)

// SentimentToColor picks the choropleth fill for a sentiment given as 0-100
// percentages. The branches are evaluated top to bottom and some overlap, so
// the order matters: positive > 60 is only reached when nothing above matched.
func SentimentToColor(s *models.Sentiment) string {
	if s == nil {
		return ColorUnknown
	}

	positive, neutral, negative := s.Positive, s.Neutral, s.Negative

	if negative > 60 {
		return ColorVeryNegative
	} else if negative > 40 && negative <= 60 {
		return ColorNegative
	} else if neutral > 50 {
		return ColorNeutral
	} else if positive > 40 && positive <= 60 {
		return ColorPositive
	} else if positive > 60 {
		return ColorVeryPositive
	} else {
		return ColorBalanced
	}
}

type LegendEntry struct {
	Label string
	Color string
}

func Legend() []LegendEntry {
	return []LegendEntry{
		{Label: "Very Negative", Color: ColorVeryNegative},
		{Label: "Negative", Color: ColorNegative},
		{Label: ">50% Neutral", Color: ColorNeutral},
		{Label: "Balanced", Color: ColorBalanced},
		{Label: "Positive", Color: ColorPositive},
		{Label: "Very Positive", Color: ColorVeryPositive},
		{Label: "Unknown", Color: ColorUnknown},
	}
}
