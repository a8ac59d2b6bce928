// Package report renders analysed submissions into email markup and spreadsheets.
package report

import (
	"bytes"
	"diagform/internal/diagnostic"
	"diagform/internal/model"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"strconv"
)

//go:embed templates/*.html.tmpl
var templateFS embed.FS

var templates = template.Must(template.New("report").ParseFS(templateFS, "templates/*.html.tmpl"))

const (
	noAverage   = "no average"
	notProvided = "Not provided"
)

// Flavor selects which email is rendered
type Flavor int

const (
	FlavorAdmin Flavor = iota
	FlavorRespondent
)

// Options toggles optional parts of the rendering
type Options struct {
	// IncludeDetailForRespondent adds the per-theme detail to the respondent email
	IncludeDetailForRespondent bool
}

type emailView struct {
	Respondent    string
	FirstName     string
	Sections      []sectionView
	Comment       string
	Summary       []summaryView
	HasGlobal     bool
	GlobalAverage string
	IncludeDetail bool
}

type sectionView struct {
	Name    string
	Kind    string
	Info    []model.InfoField
	Rows    []questionView
	Average string
	Raw     string
}

type questionView struct {
	Ordinal string
	Text    string
	Note    string
}

type summaryView struct {
	Theme          string
	Score          string
	Recommendation string
}

// RenderEmail renders the admin or respondent email body.
// All submission text goes through html/template escaping.
func RenderEmail(a *diagnostic.Analysis, flavor Flavor, opts Options) (string, error) {
	view := buildEmailView(a)
	name := "admin"
	if flavor == FlavorRespondent {
		name = "respondent"
		view.IncludeDetail = opts.IncludeDetailForRespondent
	}
	return execute(name, view)
}

func buildEmailView(a *diagnostic.Analysis) emailView {
	view := emailView{
		Respondent: a.Respondent.FullName(),
		FirstName:  a.Respondent.FirstName,
		Comment:    a.Comment,
		HasGlobal:  a.HasGlobal,
	}
	if view.Respondent == "" {
		view.Respondent = "unknown respondent"
	}
	if a.HasGlobal {
		view.GlobalAverage = FormatAverage(a.GlobalAverage)
	}
	if a.Summary != nil {
		for _, row := range a.Summary.Summary {
			view.Summary = append(view.Summary, summaryView{
				Theme:          row.Theme,
				Score:          row.Score,
				Recommendation: diagnostic.Recommendation(row.Score),
			})
		}
	}

	for _, s := range a.Sections {
		switch s.Kind {
		case model.SectionComment, model.SectionSummary:
			continue
		case model.SectionInfo:
			view.Sections = append(view.Sections, sectionView{Name: s.Name, Kind: s.Kind.String(), Info: s.Info})
		case model.SectionScored:
			sv := sectionView{Name: s.Name, Kind: s.Kind.String(), Average: noAverage}
			for _, ans := range s.Answers {
				ordinal, text := diagnostic.SplitQuestion(ans.Question)
				sv.Rows = append(sv.Rows, questionView{Ordinal: ordinal, Text: text, Note: FormatNote(ans.Note)})
			}
			if ts, ok := a.ThemeScore(s.Name); ok && ts.HasAverage {
				sv.Average = fmt.Sprintf("%s / 5 (%s)", FormatAverage(ts.Average), ts.Level)
			}
			view.Sections = append(view.Sections, sv)
		default:
			view.Sections = append(view.Sections, sectionView{Name: s.Name, Kind: s.Kind.String(), Raw: prettyJSON(s.Raw)})
		}
	}
	return view
}

// FormatAverage prints an average with two decimals
func FormatAverage(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// FormatNote prints a parsed note in its shortest form, or the raw text when it is not numeric
func FormatNote(note string) string {
	if v, ok := diagnostic.ParseScore(note); ok {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return note
}

func prettyJSON(raw json.RawMessage) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return string(raw)
	}
	return buf.String()
}

func execute(name string, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s email: %w", name, err)
	}
	return buf.String(), nil
}
