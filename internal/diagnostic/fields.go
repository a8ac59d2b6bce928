package diagnostic

import (
	"diagform/internal/model"
	"strings"
)

// DefaultUserInfoThemes are the theme keys holding respondent details
var DefaultUserInfoThemes = []string{"User Information", "Informations Utilisateur"}

// FieldLabels configures where respondent details are read from
type FieldLabels struct {
	UserInfoThemes []string
	FirstName      string
	LastName       string
	Email          string
}

// DefaultFieldLabels matches the labels used by the diagnostic forms
func DefaultFieldLabels() FieldLabels {
	return FieldLabels{
		UserInfoThemes: DefaultUserInfoThemes,
		FirstName:      "Prénom",
		LastName:       "Nom",
		Email:          "E-mail",
	}
}

// FieldValue returns the value of the first entry whose label matches, ignoring
// case and surrounding spaces, inside the first user-info theme present.
// Missing themes or labels yield "".
func FieldValue(sections []model.Section, userInfoThemes []string, label string) string {
	info := userInfoSection(sections, userInfoThemes)
	if info == nil {
		return ""
	}
	target := strings.TrimSpace(label)
	for _, f := range info.Info {
		if strings.EqualFold(strings.TrimSpace(f.Label), target) {
			return f.Value
		}
	}
	return ""
}

// ExtractRespondent resolves first name, last name and email
func ExtractRespondent(sections []model.Section, labels FieldLabels) model.Respondent {
	return model.Respondent{
		FirstName: strings.TrimSpace(FieldValue(sections, labels.UserInfoThemes, labels.FirstName)),
		LastName:  strings.TrimSpace(FieldValue(sections, labels.UserInfoThemes, labels.LastName)),
		Email:     strings.TrimSpace(FieldValue(sections, labels.UserInfoThemes, labels.Email)),
	}
}

func userInfoSection(sections []model.Section, themes []string) *model.Section {
	for _, theme := range themes {
		for i := range sections {
			if sections[i].Name == theme && sections[i].Kind == model.SectionInfo {
				return &sections[i]
			}
		}
	}
	return nil
}
