package report

import (
	"diagform/internal/diagnostic"
	"diagform/internal/model"
)

// formTitles maps radar form numbers to their display title
var formTitles = map[int]string{
	1: "Strategic and Organizational Assessment",
	2: "Business Operations Assessment",
	3: "Technical and Data Management Assessment",
}

// FormTitle returns the title of a radar form, "Form <n>" when the number is unknown
func FormTitle(r *model.RadarSubmission) string {
	if title, ok := formTitles[r.FormNumber()]; ok {
		return title
	}
	return "Form " + r.FormNum.String()
}

// RadarRow is one answer line of a radar report
type RadarRow struct {
	Theme    string
	Ordinal  string
	Question string
	Note     string
	// Value is the parsed note; nil when the note is not numeric
	Value *float64
}

type radarView struct {
	Title         string
	Company       string
	CompanyField  string
	FirstName     string
	LastName      string
	Email         string
	Phone         string
	GlobalAverage string
	Comment       string
	Rows          []RadarRow
}

// RadarRows flattens the radar themes in submission order
func RadarRows(r *model.RadarSubmission) []RadarRow {
	var rows []RadarRow
	for _, theme := range r.Questions {
		for _, resp := range theme.Responses {
			ordinal, text := diagnostic.SplitQuestion(resp.Question)
			row := RadarRow{Theme: theme.Theme, Ordinal: ordinal, Question: text, Note: resp.Note.String()}
			if v, ok := diagnostic.ParseScore(resp.Note.String()); ok {
				row.Value = &v
			}
			rows = append(rows, row)
		}
	}
	return rows
}

// RenderRadarEmail renders the admin email of a radar submission
func RenderRadarEmail(r *model.RadarSubmission) (string, error) {
	view := radarView{
		Title:         FormTitle(r),
		Company:       orDefault(r.User.Company, "Unknown company"),
		CompanyField:  orDefault(r.User.Company, notProvided),
		FirstName:     orDefault(r.User.FirstName, notProvided),
		LastName:      orDefault(r.User.LastName, notProvided),
		Email:         orDefault(r.User.Email, notProvided),
		Phone:         orDefault(r.User.Phone.String(), notProvided),
		GlobalAverage: orDefault(r.GlobalAverage.String(), "N/A"),
		Comment:       r.Comment.String(),
		Rows:          RadarRows(r),
	}
	return execute("radar", view)
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
