package model

import "encoding/json"

// SectionKind tags the shape of a submission theme
type SectionKind int

const (
	SectionUnrecognized SectionKind = iota
	SectionComment                  // free-text comment, rendered on its own
	SectionSummary                  // precomputed per-theme scores
	SectionInfo                     // label/value pairs
	SectionScored                   // question/note pairs
)

func (k SectionKind) String() string {
	switch k {
	case SectionComment:
		return "comment"
	case SectionSummary:
		return "summary"
	case SectionInfo:
		return "info"
	case SectionScored:
		return "scored"
	default:
		return "unrecognized"
	}
}

// InfoField is one label/value pair of an info section
type InfoField struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// ScoredAnswer is one rated question
type ScoredAnswer struct {
	Question string `json:"question"`
	Note     string `json:"note"`
}

// SummaryRow is one line of a precomputed summary section.
// Recommendation holds whatever the client sent; it is never used for rendering.
type SummaryRow struct {
	Theme          string `json:"theme"`
	Score          string `json:"score"`
	Recommendation string `json:"recommendation,omitempty"`
}

// Section is a classified theme. Only the fields matching Kind are set.
type Section struct {
	Name    string          `json:"name"`
	Kind    SectionKind     `json:"kind"`
	Comment string          `json:"comment,omitempty"`
	Info    []InfoField     `json:"info,omitempty"`
	Answers []ScoredAnswer  `json:"answers,omitempty"`
	Summary []SummaryRow    `json:"summary,omitempty"`
	Raw     json.RawMessage `json:"raw,omitempty"`
}

// ThemeScore is the derived average of one scored section
type ThemeScore struct {
	Theme      string  `json:"theme"`
	Average    float64 `json:"average"`
	HasAverage bool    `json:"hasAverage"`
	Level      string  `json:"level"`
}

// Respondent identifies who filled the form
type Respondent struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

// FullName joins first and last name, skipping empty parts
func (r Respondent) FullName() string {
	switch {
	case r.FirstName == "":
		return r.LastName
	case r.LastName == "":
		return r.FirstName
	default:
		return r.FirstName + " " + r.LastName
	}
}
