package report

import (
	"bytes"
	"diagform/internal/diagnostic"
	"diagform/internal/model"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func analyze(t *testing.T, body string) *diagnostic.Analysis {
	t.Helper()
	var sub model.Submission
	require.NoError(t, json.Unmarshal([]byte(body), &sub))
	return diagnostic.Analyze(&sub, diagnostic.DefaultFieldLabels())
}

const fullSubmission = `{
	"User Information": [
		{"label": "Nom", "value": "Ray"},
		{"label": "Prénom", "value": "Ana"},
		{"label": "E-mail", "value": "a@b.com"}
	],
	"Access": [
		{"question": "1. Has tooling?", "note": "4"},
		{"question": "2. Has training?", "note": "2"}
	],
	"Governance": [
		{"question": "Who owns data?", "note": "3"}
	],
	"Commentaire": "Great <b>form</b>",
	"Resume": [
		{"theme": "Access", "score": "3.0", "recommendation": "Level 5/5: Optimized"},
		{"theme": "Governance", "score": "oops"}
	]
}`

func TestRenderEmail_Admin(t *testing.T) {
	html, err := RenderEmail(analyze(t, fullSubmission), FlavorAdmin, Options{})
	require.NoError(t, err)

	assert.Contains(t, html, "<h2>User Information</h2>")
	assert.Contains(t, html, "<strong>Prénom:</strong> Ana")
	assert.Contains(t, html, "Has tooling?")
	assert.Contains(t, html, "3.00 / 5 (Level 3/5: Defined)")
	assert.Contains(t, html, "Great &lt;b&gt;form&lt;/b&gt;")
	assert.Contains(t, html, "Overall average score: 3.00 / 5")

	// live recommendation wins over the supplied one
	assert.Contains(t, html, "Level 3/5: Defined")
	assert.NotContains(t, html, "Level 5/5: Optimized")
	assert.Contains(t, html, diagnostic.InvalidScore)

	// themes keep submission order
	assert.Less(t, strings.Index(html, "<h2>Access</h2>"), strings.Index(html, "<h2>Governance</h2>"))
}

func TestRenderEmail_CommentPlaceholder(t *testing.T) {
	html, err := RenderEmail(analyze(t, `{"Access": [{"question": "1. Q", "note": "3"}]}`), FlavorAdmin, Options{})
	require.NoError(t, err)
	assert.Contains(t, html, "<em>No comment provided.</em>")

	html, err = RenderEmail(analyze(t, `{"Commentaire": "   "}`), FlavorAdmin, Options{})
	require.NoError(t, err)
	assert.Contains(t, html, "<em>No comment provided.</em>")
}

func TestRenderEmail_NoAverageBanner(t *testing.T) {
	html, err := RenderEmail(analyze(t, `{"Commentaire": "hi"}`), FlavorAdmin, Options{})
	require.NoError(t, err)
	assert.NotContains(t, html, "Overall average score")
}

func TestRenderEmail_EscapesUserText(t *testing.T) {
	html, err := RenderEmail(analyze(t, `{
		"<script>alert(1)</script>": [{"question": "1. <img src=x onerror=alert(1)>", "note": "3"}],
		"Odd": {"nested": "<i>x</i>"}
	}`), FlavorAdmin, Options{})
	require.NoError(t, err)

	assert.NotContains(t, html, "<script>alert(1)</script>")
	assert.NotContains(t, html, "<img src=x")
	assert.Contains(t, html, "&lt;script&gt;alert(1)&lt;/script&gt;")
	// unrecognized payloads are dumped, escaped
	assert.Contains(t, html, "<h2>Odd</h2>")
	assert.Contains(t, html, "&lt;i&gt;x&lt;/i&gt;")
}

func TestRenderEmail_Respondent(t *testing.T) {
	a := analyze(t, fullSubmission)

	html, err := RenderEmail(a, FlavorRespondent, Options{})
	require.NoError(t, err)
	assert.Contains(t, html, "Thank you for completing the questionnaire, Ana")
	assert.Contains(t, html, "<h2>Summary</h2>")
	assert.Contains(t, html, "Overall average score: 3.00 / 5")
	assert.NotContains(t, html, "Has tooling?")
	assert.NotContains(t, html, "Respondent comment")

	html, err = RenderEmail(a, FlavorRespondent, Options{IncludeDetailForRespondent: true})
	require.NoError(t, err)
	assert.Contains(t, html, "Has tooling?")
}

func TestDetailRows(t *testing.T) {
	rows := DetailRows(analyze(t, `{
		"Access": [{"question": "1. Has tooling?", "note": "4"}, {"question": "2. Has training?", "note": "x"}],
		"Other": [{"question": "Plain", "note": 2.5}]
	}`))
	require.Len(t, rows, 3)

	assert.Equal(t, "Access", rows[0].Theme)
	assert.Equal(t, "1", rows[0].Ordinal)
	assert.Equal(t, "Has tooling?", rows[0].Question)
	require.NotNil(t, rows[0].Note)
	assert.Equal(t, 4.0, *rows[0].Note)

	assert.Nil(t, rows[1].Note)

	assert.Equal(t, "", rows[2].Ordinal)
	assert.Equal(t, "Plain", rows[2].Question)
	assert.Equal(t, 2.5, *rows[2].Note)
}

func TestSummaryRows_LiveRecommendation(t *testing.T) {
	rows := SummaryRows(analyze(t, `{"Resume": [{"theme": "Access", "score": "3.0", "recommendation": "stale"}]}`))
	require.Len(t, rows, 1)
	assert.Equal(t, "Level 3/5: Defined", rows[0].Recommendation)
	assert.Equal(t, 3.0, *rows[0].Score)

	assert.Nil(t, SummaryRows(analyze(t, `{}`)))
}

func TestBuildWorkbook(t *testing.T) {
	data, err := BuildWorkbook(analyze(t, fullSubmission))
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetDetail, SheetSummary}, f.GetSheetList())

	detail, err := f.GetRows(SheetDetail)
	require.NoError(t, err)
	require.Len(t, detail, 4)
	assert.Equal(t, []string{"Theme", "N°", "Question", "Note"}, detail[0])
	assert.Equal(t, []string{"Access", "1", "Has tooling?", "4"}, detail[1])
	assert.Equal(t, []string{"Governance", "", "Who owns data?", "3"}, detail[3])

	summary, err := f.GetRows(SheetSummary)
	require.NoError(t, err)
	require.Len(t, summary, 3)
	assert.Equal(t, []string{"Theme", "Score", "Recommendation"}, summary[0])
	assert.Equal(t, []string{"Access", "3", "Level 3/5: Defined"}, summary[1])
	assert.Equal(t, []string{"Governance", "", diagnostic.InvalidScore}, summary[2])
}

func radarFixture(t *testing.T) *model.RadarSubmission {
	t.Helper()
	var r model.RadarSubmission
	require.NoError(t, json.Unmarshal([]byte(`{
		"questions": [
			{"theme": "Data", "responses": [{"question": "1) Catalog?", "note": 3}, {"question": "2) Lineage?", "note": "4"}]},
			{"theme": "People", "responses": [{"question": "Skills?", "note": "n/a"}]}
		],
		"comment": "",
		"globalAverage": 3.5,
		"formNum": 3,
		"user": {"firstName": "Ana", "lastName": "Ray", "email": "a@b.com", "company": "<Acme>"}
	}`), &r))
	return &r
}

func TestFormTitle(t *testing.T) {
	r := radarFixture(t)
	assert.Equal(t, "Technical and Data Management Assessment", FormTitle(r))

	r.FormNum = "7"
	assert.Equal(t, "Form 7", FormTitle(r))

	r.FormNum = "01"
	assert.Equal(t, "Form 01", FormTitle(r))

	r.FormNum = ""
	assert.Equal(t, "Form ", FormTitle(r))
}

func TestRenderRadarEmail(t *testing.T) {
	html, err := RenderRadarEmail(radarFixture(t))
	require.NoError(t, err)

	assert.Contains(t, html, "New maturity diagnostic received for &lt;Acme&gt;: Technical and Data Management Assessment")
	assert.Contains(t, html, "<strong>Phone:</strong> Not provided")
	assert.Contains(t, html, "<strong>Average score:</strong> 3.5")
	assert.Contains(t, html, "<em>No comment</em>")
	assert.Contains(t, html, "Catalog?")
}

func TestBuildRadarWorkbook(t *testing.T) {
	data, err := BuildRadarWorkbook(radarFixture(t))
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetRadarAnswers, SheetRadarInfo}, f.GetSheetList())

	answers, err := f.GetRows(SheetRadarAnswers)
	require.NoError(t, err)
	require.Len(t, answers, 4)
	assert.Equal(t, []string{"Data", "1", "Catalog?", "3"}, answers[1])
	assert.Equal(t, []string{"People", "", "Skills?"}, answers[3])

	info, err := f.GetRows(SheetRadarInfo)
	require.NoError(t, err)
	assert.Equal(t, []string{"Field", "Value"}, info[0])
	assert.Equal(t, []string{"First name", "Ana"}, info[1])
	assert.Equal(t, []string{"Average score", "3.5"}, info[6])
}
