package service

import (
	"context"
	"diagform/internal/diagnostic"
	"diagform/internal/dispatch"
	"diagform/internal/model"
	"diagform/internal/report"
	"diagform/internal/repository"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const snapshotTimeLayout = "2006-01-02T15:04:05.000Z"

// DiagnosticService runs the full submission pipeline
type DiagnosticService struct {
	snapshots   repository.SnapshotStore
	artifacts   *repository.ArtifactDir
	mailer      dispatch.Mailer
	settings    dispatch.Settings
	labels      diagnostic.FieldLabels
	opts        report.Options
	logger      *zap.Logger
	broadcaster Broadcaster

	now   func() time.Time
	newID func() string
}

// NewDiagnosticService creates a new diagnostic service
func NewDiagnosticService(
	snapshots repository.SnapshotStore,
	artifacts *repository.ArtifactDir,
	mailer dispatch.Mailer,
	settings dispatch.Settings,
	labels diagnostic.FieldLabels,
	opts report.Options,
	logger *zap.Logger,
) *DiagnosticService {
	return &DiagnosticService{
		snapshots: snapshots,
		artifacts: artifacts,
		mailer:    mailer,
		settings:  settings,
		labels:    labels,
		opts:      opts,
		logger:    logger,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// SetBroadcaster sets the admin feed broadcaster
func (s *DiagnosticService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// Submit analyses, stores, renders and mails one submission. Steps run in order
// and the first failure aborts the rest.
func (s *DiagnosticService) Submit(ctx context.Context, sub *model.Submission) (*model.SubmissionResult, error) {
	id := s.newID()
	receivedAt := s.now().UTC()
	log := s.logger.With(zap.String("submissionId", id))

	a := diagnostic.Analyze(sub, s.labels)
	if a.SummaryCount > 1 {
		log.Warn("several summary themes, keeping the last one",
			zap.Int("count", a.SummaryCount), zap.String("kept", a.Summary.Name))
	}
	if a.Respondent.Email == "" {
		log.Warn("no respondent email, respondent copy skipped")
	}

	name := SnapshotName(a.Respondent, receivedAt)
	data, err := json.MarshalIndent(sub, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	if err := s.snapshots.Put(ctx, &model.Snapshot{
		Name:         name,
		SubmissionID: id,
		ReceivedAt:   receivedAt,
		Data:         data,
	}); err != nil {
		return nil, fmt.Errorf("save snapshot: %w", err)
	}
	log.Info("snapshot saved", zap.String("name", name))

	adminHTML, err := report.RenderEmail(a, report.FlavorAdmin, s.opts)
	if err != nil {
		return nil, err
	}
	var respondentHTML string
	if a.Respondent.Email != "" {
		if respondentHTML, err = report.RenderEmail(a, report.FlavorRespondent, s.opts); err != nil {
			return nil, err
		}
	}

	workbook, err := report.BuildWorkbook(a)
	if err != nil {
		return nil, fmt.Errorf("build workbook: %w", err)
	}
	artifactName := ArtifactName(name)
	if _, err := s.artifacts.Write(artifactName, workbook); err != nil {
		return nil, err
	}

	envelopes := dispatch.Assemble(s.settings, dispatch.Rendered{
		AdminHTML:      adminHTML,
		RespondentHTML: respondentHTML,
		Respondent:     a.Respondent,
		Attachment: &model.Attachment{
			Filename:    artifactName,
			ContentType: model.SpreadsheetContentType,
			Data:        workbook,
		},
	})
	if len(s.settings.AdminRecipients) == 0 {
		log.Warn("no admin recipients configured, admin copy skipped")
	}

	result := &model.SubmissionResult{
		SubmissionID: id,
		SnapshotName: name,
		ArtifactName: artifactName,
	}
	if a.HasGlobal {
		avg := a.GlobalAverage
		result.GlobalAverage = &avg
	}
	for _, env := range envelopes {
		if err := s.mailer.Send(ctx, env); err != nil {
			return nil, fmt.Errorf("send %s email: %w", env.Kind, err)
		}
		result.Envelopes = append(result.Envelopes, env.Kind)
	}

	if s.broadcaster != nil {
		s.broadcaster.Publish(EventDiagnosticReceived, FeedEvent{
			SubmissionID:  id,
			Respondent:    a.Respondent.FullName(),
			GlobalAverage: result.GlobalAverage,
		})
	}
	log.Info("diagnostic processed", zap.Int("emails", len(result.Envelopes)))
	return result, nil
}

// SnapshotName builds the write-once snapshot file name of a submission
func SnapshotName(r model.Respondent, receivedAt time.Time) string {
	stamp := receivedAt.UTC().Format(snapshotTimeLayout)
	stamp = strings.NewReplacer(":", "-", ".", "-").Replace(stamp)
	return fmt.Sprintf("responses-%s-%s-%s.json",
		diagnostic.CleanFileComponent(r.LastName),
		diagnostic.CleanFileComponent(r.FirstName),
		stamp,
	)
}

// ArtifactName is the spreadsheet name paired with a snapshot
func ArtifactName(snapshotName string) string {
	return strings.TrimSuffix(snapshotName, ".json") + ".xlsx"
}
