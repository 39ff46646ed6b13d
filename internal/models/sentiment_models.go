package models

import "math"

// Sentiment scores are fractions in [0, 1] as returned by the backend.
type Sentiment struct {
	Positive float64 `json:"positive"`
	Neutral  float64 `json:"neutral"`
	Negative float64 `json:"negative"`
}

// SentimentByState is the payload of the sentiments route, keyed by state name.
type SentimentByState map[string]Sentiment

// Percentages returns a copy rescaled to 0-100 and rounded to whole numbers.
func (s Sentiment) Percentages() Sentiment {
	return Sentiment{
		Positive: math.Round(s.Positive * 100),
		Neutral:  math.Round(s.Neutral * 100),
		Negative: math.Round(s.Negative * 100),
	}
}

// Lookup returns the sentiment for a state, or nil when the backend had none.
func (m SentimentByState) Lookup(state string) *Sentiment {
	s, ok := m[state]
	if !ok {
		return nil
	}
	return &s
}
