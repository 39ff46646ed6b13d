package models

import "fmt"

// ReportQuery identifies one report: a word searched in a state or a college
// for a given year. Exactly one of State and College is set.
type ReportQuery struct {
	Word    string `json:"word"`
	State   string `json:"state,omitempty"`
	College string `json:"college,omitempty"`
	Year    int    `json:"year"`
}

func (q ReportQuery) IsCollege() bool {
	return q.College != ""
}

// Place is the state or college the report is about.
func (q ReportQuery) Place() string {
	if q.IsCollege() {
		return q.College
	}
	return q.State
}

func (q ReportQuery) Validate() error {
	if q.Word == "" {
		return fmt.Errorf("word is required")
	}
	if q.State == "" && q.College == "" {
		return fmt.Errorf("state or college is required")
	}
	if q.State != "" && q.College != "" {
		return fmt.Errorf("state and college are mutually exclusive")
	}
	return nil
}
