package model

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

// FlexString accepts a JSON string, number, bool or null and keeps its text.
// Radar forms send notes and averages either quoted or bare.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return err
	}
	switch v.(type) {
	case map[string]interface{}, []interface{}:
		*f = FlexString(data)
	default:
		*f = FlexString(cast.ToString(v))
	}
	return nil
}

func (f FlexString) String() string { return string(f) }

// RadarAnswer is a rated question of a radar form
type RadarAnswer struct {
	Question string     `json:"question"`
	Note     FlexString `json:"note"`
}

// RadarTheme groups the answers of one radar axis
type RadarTheme struct {
	Theme     string        `json:"theme"`
	Responses []RadarAnswer `json:"responses"`
}

// RadarUser is the contact block sent with radar forms
type RadarUser struct {
	FirstName string     `json:"firstName"`
	LastName  string     `json:"lastName"`
	Email     string     `json:"email"`
	Phone     FlexString `json:"phone"`
	Company   string     `json:"company"`
}

// RadarSubmission is the pre-scored form posted to /submit-radar
type RadarSubmission struct {
	Questions     []RadarTheme `json:"questions"`
	Comment       FlexString   `json:"comment"`
	GlobalAverage FlexString   `json:"globalAverage"`
	FormNum       FlexString   `json:"formNum"`
	User          RadarUser    `json:"user"`
}

// FormNumber returns formNum as an integer, 0 when absent or malformed.
// Only plain decimal text counts: "2" and "2.0" are form 2, "02" and "0x2" are not.
func (r *RadarSubmission) FormNumber() int {
	s := strings.TrimSpace(string(r.FormNum))
	if n, err := strconv.Atoi(s); err == nil {
		if strconv.Itoa(n) != s {
			return 0
		}
		return n
	}
	if !strings.Contains(s, ".") || s[0] < '0' || s[0] > '9' || (s[0] == '0' && s[1] != '.') {
		return 0
	}
	f, err := cast.ToFloat64E(s)
	if err != nil || f != math.Trunc(f) {
		return 0
	}
	return int(f)
}
