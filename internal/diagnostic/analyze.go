package diagnostic

import "diagform/internal/model"

// Analysis is everything derived from one submission
type Analysis struct {
	Sections      []model.Section
	HasComment    bool
	Comment       string
	Summary       *model.Section // last summary section seen
	SummaryCount  int
	ThemeScores   []model.ThemeScore
	GlobalAverage float64
	HasGlobal     bool
	Respondent    model.Respondent
}

// Analyze classifies a submission and computes its scores
func Analyze(sub *model.Submission, labels FieldLabels) *Analysis {
	sections := Classify(sub)
	a := &Analysis{Sections: sections}

	for i := range sections {
		switch sections[i].Kind {
		case model.SectionComment:
			a.HasComment = true
			a.Comment = sections[i].Comment
		case model.SectionSummary:
			a.Summary = &sections[i]
			a.SummaryCount++
		}
	}

	a.ThemeScores = ThemeScores(sections)
	a.GlobalAverage, a.HasGlobal = GlobalAverage(sections)
	a.Respondent = ExtractRespondent(sections, labels)
	return a
}

// ScoredSections returns the scored sections in order
func (a *Analysis) ScoredSections() []model.Section {
	var out []model.Section
	for _, s := range a.Sections {
		if s.Kind == model.SectionScored {
			out = append(out, s)
		}
	}
	return out
}

// ThemeScore returns the score computed for a scored theme
func (a *Analysis) ThemeScore(theme string) (model.ThemeScore, bool) {
	for _, ts := range a.ThemeScores {
		if ts.Theme == theme {
			return ts, true
		}
	}
	return model.ThemeScore{}, false
}
