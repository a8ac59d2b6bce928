package model

import "time"

// EnvelopeKind tells who an envelope is meant for
type EnvelopeKind string

const (
	EnvelopeAdmin      EnvelopeKind = "admin"
	EnvelopeRespondent EnvelopeKind = "respondent"
)

// SpreadsheetContentType is the MIME type of xlsx attachments
const SpreadsheetContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Attachment is a file carried by an envelope
type Attachment struct {
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
	Data        []byte `json:"-"`
}

// Envelope is a fully assembled outbound message
type Envelope struct {
	Kind        EnvelopeKind `json:"kind"`
	FromName    string       `json:"fromName"`
	From        string       `json:"from"`
	To          []string     `json:"to"`
	Subject     string       `json:"subject"`
	HTML        string       `json:"-"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

// Snapshot is the write-once audit copy of a raw submission
type Snapshot struct {
	Name         string    `json:"name" bson:"_id"`
	SubmissionID string    `json:"submissionId" bson:"submissionId"`
	ReceivedAt   time.Time `json:"receivedAt" bson:"receivedAt"`
	Data         []byte    `json:"-" bson:"-"`
}

// SubmissionResult is what the pipeline reports back after a successful run
type SubmissionResult struct {
	SubmissionID  string         `json:"submissionId"`
	SnapshotName  string         `json:"snapshotName"`
	ArtifactName  string         `json:"artifactName,omitempty"`
	GlobalAverage *float64       `json:"globalAverage,omitempty"`
	Envelopes     []EnvelopeKind `json:"envelopes"`
}
