package service

// Feed event types
const (
	EventDiagnosticReceived = "diagnostic_received"
	EventRadarReceived      = "radar_received"
)

// Broadcaster interface for the admin live feed (avoids import cycle)
type Broadcaster interface {
	Publish(msgType string, payload interface{})
}

// FeedEvent is the payload pushed to the admin live feed after a submission
type FeedEvent struct {
	SubmissionID  string   `json:"submissionId"`
	Respondent    string   `json:"respondent"`
	Company       string   `json:"company,omitempty"`
	Title         string   `json:"title,omitempty"`
	GlobalAverage *float64 `json:"globalAverage,omitempty"`
}
