package diagnostic

import (
	"diagform/internal/model"
	"math"
	"strings"

	"github.com/spf13/cast"
)

// InvalidScore is returned by Recommendation for non-numeric input
const InvalidScore = "Invalid score"

// MaturityLevel is one rung of the maturity scale, reached at Floor (inclusive)
type MaturityLevel struct {
	Floor float64
	Label string
}

// MaturityLevels is ordered from highest to lowest floor
var MaturityLevels = []MaturityLevel{
	{Floor: 4.5, Label: "Level 5/5: Optimized"},
	{Floor: 3.5, Label: "Level 4/5: Quantitatively Managed / Measured"},
	{Floor: 2.5, Label: "Level 3/5: Defined"},
	{Floor: 1.5, Label: "Level 2/5: Managed"},
}

// BaseLevel applies below the lowest floor
const BaseLevel = "Level 1/5: Initial"

// ParseScore reads a numeric note or score. Empty, non-numeric and non-finite values are rejected.
func ParseScore(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := cast.ToFloat64E(s)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// LevelFor maps a score to its maturity label
func LevelFor(score float64) string {
	for _, lvl := range MaturityLevels {
		if score >= lvl.Floor {
			return lvl.Label
		}
	}
	return BaseLevel
}

// Recommendation maps a raw score to its maturity label, or InvalidScore
func Recommendation(score string) string {
	v, ok := ParseScore(score)
	if !ok {
		return InvalidScore
	}
	return LevelFor(v)
}

// Round2 rounds half away from zero to two decimals
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ThemeAverage averages the parseable notes of a scored section.
// Unparseable notes count neither in the sum nor in the divisor.
func ThemeAverage(answers []model.ScoredAnswer) (float64, bool) {
	return mean(notesOf(answers))
}

// GlobalAverage averages every parseable note of every scored section.
// Summary sections are derived data and are ignored. Returns false when there is nothing to average.
func GlobalAverage(sections []model.Section) (float64, bool) {
	var notes []float64
	for _, s := range sections {
		if s.Kind == model.SectionScored {
			notes = append(notes, notesOf(s.Answers)...)
		}
	}
	return mean(notes)
}

// ThemeScores computes one ThemeScore per scored section, in order
func ThemeScores(sections []model.Section) []model.ThemeScore {
	var scores []model.ThemeScore
	for _, s := range sections {
		if s.Kind != model.SectionScored {
			continue
		}
		avg, ok := ThemeAverage(s.Answers)
		score := model.ThemeScore{Theme: s.Name, Average: avg, HasAverage: ok, Level: InvalidScore}
		if ok {
			score.Level = LevelFor(avg)
		}
		scores = append(scores, score)
	}
	return scores
}

func notesOf(answers []model.ScoredAnswer) []float64 {
	notes := make([]float64, 0, len(answers))
	for _, a := range answers {
		if v, ok := ParseScore(a.Note); ok {
			notes = append(notes, v)
		}
	}
	return notes
}

func mean(values []float64) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return Round2(sum / float64(len(values))), true
}
