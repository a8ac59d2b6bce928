package diagnostic

import (
	"bytes"
	"diagform/internal/model"
	"encoding/json"
	"strings"

	"github.com/spf13/cast"
)

const (
	commentKey    = "commentaire"
	summaryMarker = "resume"
)

// Classify tags every theme of a submission, in insertion order.
// Predicates are tried in a fixed priority: comment, summary, info, scored.
// Anything else is kept as unrecognized with its raw payload.
func Classify(sub *model.Submission) []model.Section {
	entries := sub.Entries()
	sections := make([]model.Section, 0, len(entries))
	for _, e := range entries {
		sections = append(sections, ClassifyTheme(e.Name, e.Raw))
	}
	return sections
}

// ClassifyTheme classifies a single theme payload. It never fails.
func ClassifyTheme(name string, raw json.RawMessage) model.Section {
	section := model.Section{Name: name, Raw: raw, Kind: model.SectionUnrecognized}
	normalized := NormalizeKey(name)

	if normalized == commentKey {
		section.Kind = model.SectionComment
		section.Comment = strings.TrimSpace(scalarText(raw))
		return section
	}

	items, isArray := decodeObjects(raw)

	if strings.Contains(normalized, summaryMarker) && isArray {
		section.Kind = model.SectionSummary
		section.Summary = make([]model.SummaryRow, 0, len(items))
		for _, item := range items {
			section.Summary = append(section.Summary, model.SummaryRow{
				Theme:          fieldText(item, "theme"),
				Score:          fieldText(item, "score"),
				Recommendation: fieldText(item, "recommendation"),
			})
		}
		return section
	}

	if !isArray || len(items) == 0 {
		return section
	}

	if everyHas(items, "label", "value") {
		section.Kind = model.SectionInfo
		section.Info = make([]model.InfoField, 0, len(items))
		for _, item := range items {
			section.Info = append(section.Info, model.InfoField{
				Label: fieldText(item, "label"),
				Value: fieldText(item, "value"),
			})
		}
		return section
	}

	if everyHas(items, "question", "note") {
		section.Kind = model.SectionScored
		section.Answers = make([]model.ScoredAnswer, 0, len(items))
		for _, item := range items {
			section.Answers = append(section.Answers, model.ScoredAnswer{
				Question: fieldText(item, "question"),
				Note:     fieldText(item, "note"),
			})
		}
		return section
	}

	return section
}

// decodeObjects reports whether raw is an array made only of JSON objects
func decodeObjects(raw json.RawMessage) ([]map[string]json.RawMessage, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, false
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(trimmed, &elems); err != nil {
		return nil, false
	}
	items := make([]map[string]json.RawMessage, 0, len(elems))
	for _, elem := range elems {
		elem = bytes.TrimSpace(elem)
		if len(elem) == 0 || elem[0] != '{' {
			return nil, false
		}
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(elem, &obj); err != nil {
			return nil, false
		}
		items = append(items, obj)
	}
	return items, true
}

func everyHas(items []map[string]json.RawMessage, keys ...string) bool {
	for _, item := range items {
		for _, k := range keys {
			if _, ok := item[k]; !ok {
				return false
			}
		}
	}
	return true
}

func fieldText(item map[string]json.RawMessage, key string) string {
	raw, ok := item[key]
	if !ok {
		return ""
	}
	return scalarText(raw)
}

// scalarText renders a JSON value as display text: strings unquoted, numbers
// verbatim, null empty, objects and arrays as compact JSON.
func scalarText(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return ""
	}
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return string(trimmed)
	}
	switch v.(type) {
	case map[string]interface{}, []interface{}:
		var buf bytes.Buffer
		if err := json.Compact(&buf, trimmed); err != nil {
			return string(trimmed)
		}
		return buf.String()
	default:
		return cast.ToString(v)
	}
}
