package report

import (
	"diagform/internal/diagnostic"
	"diagform/internal/model"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Sheet names of the generated workbooks
const (
	SheetDetail       = "Responses by theme"
	SheetSummary      = "Summary"
	SheetRadarAnswers = "Responses"
	SheetRadarInfo    = "Information"
)

type column struct {
	Header string
	Width  float64
}

var (
	detailColumns = []column{
		{Header: "Theme", Width: 30},
		{Header: "N°", Width: 10},
		{Header: "Question", Width: 80},
		{Header: "Note", Width: 10},
	}
	summaryColumns = []column{
		{Header: "Theme", Width: 40},
		{Header: "Score", Width: 10},
		{Header: "Recommendation", Width: 60},
	}
	infoColumns = []column{
		{Header: "Field", Width: 20},
		{Header: "Value", Width: 60},
	}
)

// DetailRow is one scored answer in the detail sheet
type DetailRow struct {
	Theme    string
	Ordinal  string
	Question string
	Note     *float64
}

// SummaryRow is one line of the summary sheet
type SummaryRow struct {
	Theme          string
	Score          *float64
	Recommendation string
}

// DetailRows lists every scored answer across scored themes, in submission order
func DetailRows(a *diagnostic.Analysis) []DetailRow {
	var rows []DetailRow
	for _, s := range a.ScoredSections() {
		for _, ans := range s.Answers {
			ordinal, text := diagnostic.SplitQuestion(ans.Question)
			row := DetailRow{Theme: s.Name, Ordinal: ordinal, Question: text}
			if v, ok := diagnostic.ParseScore(ans.Note); ok {
				row.Note = &v
			}
			rows = append(rows, row)
		}
	}
	return rows
}

// SummaryRows lists the summary entries with their recommendation recomputed from the score
func SummaryRows(a *diagnostic.Analysis) []SummaryRow {
	if a.Summary == nil {
		return nil
	}
	rows := make([]SummaryRow, 0, len(a.Summary.Summary))
	for _, r := range a.Summary.Summary {
		row := SummaryRow{Theme: r.Theme, Recommendation: diagnostic.Recommendation(r.Score)}
		if v, ok := diagnostic.ParseScore(r.Score); ok {
			row.Score = &v
		}
		rows = append(rows, row)
	}
	return rows
}

// BuildWorkbook produces the two-sheet xlsx attached to the admin email
func BuildWorkbook(a *diagnostic.Analysis) ([]byte, error) {
	wb, err := newWorkbook()
	if err != nil {
		return nil, err
	}
	defer wb.close()

	detail := make([][]interface{}, 0)
	for _, r := range DetailRows(a) {
		detail = append(detail, []interface{}{r.Theme, r.Ordinal, r.Question, cellNumber(r.Note)})
	}
	if err := wb.writeSheet(SheetDetail, detailColumns, detail); err != nil {
		return nil, err
	}

	summary := make([][]interface{}, 0)
	for _, r := range SummaryRows(a) {
		summary = append(summary, []interface{}{r.Theme, cellNumber(r.Score), r.Recommendation})
	}
	if err := wb.writeSheet(SheetSummary, summaryColumns, summary); err != nil {
		return nil, err
	}
	return wb.bytes()
}

// BuildRadarWorkbook produces the answers + contact information workbook of a radar form
func BuildRadarWorkbook(r *model.RadarSubmission) ([]byte, error) {
	wb, err := newWorkbook()
	if err != nil {
		return nil, err
	}
	defer wb.close()

	answers := make([][]interface{}, 0)
	for _, row := range RadarRows(r) {
		answers = append(answers, []interface{}{row.Theme, row.Ordinal, row.Question, cellNumber(row.Value)})
	}
	if err := wb.writeSheet(SheetRadarAnswers, detailColumns, answers); err != nil {
		return nil, err
	}

	info := [][]interface{}{
		{"First name", r.User.FirstName},
		{"Last name", r.User.LastName},
		{"Email", r.User.Email},
		{"Phone", r.User.Phone.String()},
		{"Company", r.User.Company},
		{"Average score", radarAverageCell(r.GlobalAverage.String())},
		{"Comment", r.Comment.String()},
	}
	if err := wb.writeSheet(SheetRadarInfo, infoColumns, info); err != nil {
		return nil, err
	}
	return wb.bytes()
}

// workbook wraps an excelize file whose first sheet is renamed on first write
type workbook struct {
	file    *excelize.File
	sheets  int
	boldHdr int
}

func newWorkbook() (*workbook, error) {
	f := excelize.NewFile()
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("create header style: %w", err)
	}
	return &workbook{file: f, boldHdr: style}, nil
}

func (w *workbook) writeSheet(name string, cols []column, rows [][]interface{}) error {
	if w.sheets == 0 {
		if err := w.file.SetSheetName(w.file.GetSheetName(0), name); err != nil {
			return fmt.Errorf("rename sheet %q: %w", name, err)
		}
	} else if _, err := w.file.NewSheet(name); err != nil {
		return fmt.Errorf("create sheet %q: %w", name, err)
	}
	w.sheets++

	header := make([]interface{}, 0, len(cols))
	for i, c := range cols {
		header = append(header, c.Header)
		colName, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := w.file.SetColWidth(name, colName, colName, c.Width); err != nil {
			return fmt.Errorf("set width of %s!%s: %w", name, colName, err)
		}
	}
	if err := w.file.SetSheetRow(name, "A1", &header); err != nil {
		return fmt.Errorf("write header of %q: %w", name, err)
	}
	lastHeader, err := excelize.CoordinatesToCellName(len(cols), 1)
	if err != nil {
		return err
	}
	if err := w.file.SetCellStyle(name, "A1", lastHeader, w.boldHdr); err != nil {
		return fmt.Errorf("style header of %q: %w", name, err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := w.file.SetSheetRow(name, cell, &row); err != nil {
			return fmt.Errorf("write row %d of %q: %w", i+2, name, err)
		}
	}
	return nil
}

func (w *workbook) bytes() ([]byte, error) {
	w.file.SetActiveSheet(0)
	buf, err := w.file.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("encode workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func (w *workbook) close() {
	_ = w.file.Close()
}

// cellNumber keeps numeric cells numeric and leaves unparseable values blank
func cellNumber(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func radarAverageCell(raw string) interface{} {
	if v, ok := diagnostic.ParseScore(raw); ok {
		return v
	}
	return raw
}
