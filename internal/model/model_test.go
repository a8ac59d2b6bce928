package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmission_KeepsKeyOrder(t *testing.T) {
	var sub Submission
	require.NoError(t, json.Unmarshal([]byte(`{"Zeta": 1, "Alpha": [2], "Mid": {"a": "b"}}`), &sub))

	names := make([]string, 0, sub.Len())
	for _, e := range sub.Entries() {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{"Zeta", "Alpha", "Mid"}, names)

	raw, ok := sub.Get("Alpha")
	require.True(t, ok)
	assert.JSONEq(t, `[2]`, string(raw))

	data, err := json.Marshal(&sub)
	require.NoError(t, err)
	assert.Equal(t, `{"Zeta":1,"Alpha":[2],"Mid":{"a":"b"}}`, string(data))
}

func TestSubmission_Set(t *testing.T) {
	sub := NewSubmission(
		ThemeEntry{Name: "A", Raw: json.RawMessage(`1`)},
		ThemeEntry{Name: "B", Raw: json.RawMessage(`2`)},
	)
	sub.Set("A", json.RawMessage(`3`))
	sub.Set("C", nil)

	data, err := json.Marshal(sub)
	require.NoError(t, err)
	assert.Equal(t, `{"A":3,"B":2,"C":null}`, string(data))

	var nilSub *Submission
	assert.Equal(t, 0, nilSub.Len())
	_, ok := nilSub.Get("A")
	assert.False(t, ok)
}

func TestSubmission_RejectsNonObject(t *testing.T) {
	var sub Submission
	assert.Error(t, json.Unmarshal([]byte(`[1, 2]`), &sub))
}

func TestFlexString(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`"3"`, "3"},
		{`3`, "3"},
		{`3.50`, "3.50"},
		{`true`, "true"},
		{`null`, ""},
		{`{"a":1}`, `{"a":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var f FlexString
			require.NoError(t, json.Unmarshal([]byte(tt.in), &f))
			assert.Equal(t, tt.want, f.String())
		})
	}
}

func TestRadarSubmission_FormNumber(t *testing.T) {
	var r RadarSubmission
	require.NoError(t, json.Unmarshal([]byte(`{"formNum": "2", "user": {"phone": 612345678}}`), &r))
	assert.Equal(t, 2, r.FormNumber())
	assert.Equal(t, "612345678", r.User.Phone.String())

	tests := []struct {
		in   FlexString
		want int
	}{
		{"3", 3},
		{" 1 ", 1},
		{"3.0", 3},
		{"01", 0},
		{"0x2", 0},
		{"+2", 0},
		{"+2.0", 0},
		{"02.0", 0},
		{"2.5", 0},
		{"abc", 0},
		{"", 0},
	}
	for _, tt := range tests {
		r.FormNum = tt.in
		assert.Equal(t, tt.want, r.FormNumber(), "formNum %q", tt.in)
	}
}

func TestRespondent_FullName(t *testing.T) {
	assert.Equal(t, "Ana Ray", Respondent{FirstName: "Ana", LastName: "Ray"}.FullName())
	assert.Equal(t, "Ray", Respondent{LastName: "Ray"}.FullName())
	assert.Equal(t, "", Respondent{}.FullName())
}
