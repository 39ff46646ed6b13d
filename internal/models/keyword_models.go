package models

// StateWordCloud is the word-frequency snapshot for one state, keyword and year.
// Word weights are counts for most keywords but the backend may return topic
// probabilities, so they decode as floats.
type StateWordCloud struct {
	State   string             `json:"state"`
	Keyword string             `json:"keyword"`
	Words   map[string]float64 `json:"words"`
}

// CollegeWordCloud is the same snapshot keyed by institution. State carries the
// college's state when the backend knows it.
type CollegeWordCloud struct {
	State       string             `json:"state,omitempty"`
	CollegeName string             `json:"college_name"`
	Keyword     string             `json:"keyword"`
	Words       map[string]float64 `json:"words"`
}
