// Package dispatch turns rendered reports into outbound envelopes and delivers them.
package dispatch

import (
	"diagform/internal/model"
	"strings"
)

const (
	adminSubjectPrefix = "📝 Full diagnostic summary for"
	respondentSubject  = "📊 Your diagnostic summary"
	radarSubjectPrefix = "Maturity radar - "
)

// Settings carries the sender identity and the admin mailbox list
type Settings struct {
	FromName        string
	FromAddress     string
	AdminRecipients []string
}

// Rendered is the output of the report stage for one diagnostic submission
type Rendered struct {
	AdminHTML      string
	RespondentHTML string
	Respondent     model.Respondent
	Attachment     *model.Attachment
}

// Assemble builds the admin envelope and, when the respondent left an email, the
// respondent envelope. Nothing is sent here.
func Assemble(settings Settings, r Rendered) []model.Envelope {
	var envelopes []model.Envelope

	if admins := settings.admins(); len(admins) > 0 {
		env := settings.envelope(model.EnvelopeAdmin, admins, AdminSubject(r.Respondent), r.AdminHTML)
		if r.Attachment != nil {
			env.Attachments = []model.Attachment{*r.Attachment}
		}
		envelopes = append(envelopes, env)
	}

	if email := strings.TrimSpace(r.Respondent.Email); email != "" {
		envelopes = append(envelopes, settings.envelope(model.EnvelopeRespondent, []string{email}, respondentSubject, r.RespondentHTML))
	}
	return envelopes
}

// AssembleRadar builds the admin envelope of a radar submission, nil without admin recipients
func AssembleRadar(settings Settings, title, html string, attachment *model.Attachment) *model.Envelope {
	admins := settings.admins()
	if len(admins) == 0 {
		return nil
	}
	env := settings.envelope(model.EnvelopeAdmin, admins, radarSubjectPrefix+title, html)
	if attachment != nil {
		env.Attachments = []model.Attachment{*attachment}
	}
	return &env
}

// AdminSubject is the subject line of the admin email
func AdminSubject(r model.Respondent) string {
	return strings.TrimSpace(adminSubjectPrefix + " " + r.FullName())
}

func (s Settings) envelope(kind model.EnvelopeKind, to []string, subject, html string) model.Envelope {
	return model.Envelope{
		Kind:     kind,
		FromName: s.FromName,
		From:     s.FromAddress,
		To:       to,
		Subject:  subject,
		HTML:     html,
	}
}

func (s Settings) admins() []string {
	var out []string
	for _, addr := range s.AdminRecipients {
		if addr = strings.TrimSpace(addr); addr != "" {
			out = append(out, addr)
		}
	}
	return out
}
