package models

type StateEmotions struct {
	State             string         `json:"state"`
	Keyword           string         `json:"keyword"`
	PredictedEmotions []string       `json:"predicted_emotions"`
	EmotionCounts     map[string]int `json:"emotion_counts"`
}

// The college emotions route is declared as returning a CollegeWordCloud but
// the backend fills in the emotion fields, so both shapes decode into this.
type CollegeEmotions struct {
	CollegeWordCloud
	PredictedEmotions []string       `json:"predicted_emotions,omitempty"`
	EmotionCounts     map[string]int `json:"emotion_counts,omitempty"`
}
