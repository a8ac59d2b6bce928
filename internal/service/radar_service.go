package service

import (
	"context"
	"diagform/internal/diagnostic"
	"diagform/internal/dispatch"
	"diagform/internal/model"
	"diagform/internal/report"
	"diagform/internal/repository"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RadarService mails maturity radar submissions to the admins
type RadarService struct {
	artifacts   *repository.ArtifactDir
	mailer      dispatch.Mailer
	settings    dispatch.Settings
	logger      *zap.Logger
	broadcaster Broadcaster

	newID func() string
}

// NewRadarService creates a new radar service
func NewRadarService(artifacts *repository.ArtifactDir, mailer dispatch.Mailer, settings dispatch.Settings, logger *zap.Logger) *RadarService {
	return &RadarService{
		artifacts: artifacts,
		mailer:    mailer,
		settings:  settings,
		logger:    logger,
		newID:     uuid.NewString,
	}
}

// SetBroadcaster sets the admin feed broadcaster
func (s *RadarService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// Submit renders the radar report and sends it to the admins. The spreadsheet
// only lives on disk while the email is being sent.
func (s *RadarService) Submit(ctx context.Context, r *model.RadarSubmission) (*model.SubmissionResult, error) {
	id := s.newID()
	title := report.FormTitle(r)
	log := s.logger.With(zap.String("submissionId", id), zap.String("form", title))

	html, err := report.RenderRadarEmail(r)
	if err != nil {
		return nil, err
	}
	workbook, err := report.BuildRadarWorkbook(r)
	if err != nil {
		return nil, fmt.Errorf("build radar workbook: %w", err)
	}

	result := &model.SubmissionResult{SubmissionID: id}
	if v, ok := diagnostic.ParseScore(r.GlobalAverage.String()); ok {
		result.GlobalAverage = &v
	}

	name := RadarArtifactName(title, id)
	env := dispatch.AssembleRadar(s.settings, title, html, &model.Attachment{
		Filename:    name,
		ContentType: model.SpreadsheetContentType,
		Data:        workbook,
	})
	if env == nil {
		log.Warn("no admin recipients configured, radar not sent")
	} else {
		if _, err := s.artifacts.Write(name, workbook); err != nil {
			return nil, err
		}
		defer func() {
			if err := s.artifacts.Remove(name); err != nil {
				log.Warn("failed to remove radar artifact", zap.Error(err))
			}
		}()

		if err := s.mailer.Send(ctx, *env); err != nil {
			return nil, fmt.Errorf("send radar email: %w", err)
		}
		result.ArtifactName = name
		result.Envelopes = []model.EnvelopeKind{env.Kind}
	}

	if s.broadcaster != nil {
		s.broadcaster.Publish(EventRadarReceived, FeedEvent{
			SubmissionID:  id,
			Respondent:    model.Respondent{FirstName: r.User.FirstName, LastName: r.User.LastName}.FullName(),
			Company:       r.User.Company,
			Title:         title,
			GlobalAverage: result.GlobalAverage,
		})
	}
	log.Info("radar processed", zap.Int("emails", len(result.Envelopes)))
	return result, nil
}

// RadarArtifactName names the temporary radar spreadsheet
func RadarArtifactName(title, id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return fmt.Sprintf("radar-%s-%s.xlsx", diagnostic.CleanFileComponent(title), id)
}
