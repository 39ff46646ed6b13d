package models

// ValidationError is one entry of a 422 response. Loc mixes strings and
// numbers, e.g. ["query", "year"] or ["body", 0, "name"].
type ValidationError struct {
	Loc  []any  `json:"loc"`
	Msg  string `json:"msg"`
	Type string `json:"type"`
}

type HTTPValidationError struct {
	Detail []ValidationError `json:"detail,omitempty"`
}
