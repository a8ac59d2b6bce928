package service

import (
	"context"
	"diagform/internal/diagnostic"
	"diagform/internal/dispatch"
	"diagform/internal/model"
	"diagform/internal/report"
	"diagform/internal/repository"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeStore struct {
	puts []*model.Snapshot
	err  error
}

func (f *fakeStore) Put(_ context.Context, s *model.Snapshot) error {
	if f.err != nil {
		return f.err
	}
	f.puts = append(f.puts, s)
	return nil
}

type fakeMailer struct {
	sent   []model.Envelope
	failOn model.EnvelopeKind
	// seen is called on every send, before the result is decided
	seen func(model.Envelope)
}

func (f *fakeMailer) Send(_ context.Context, env model.Envelope) error {
	if f.seen != nil {
		f.seen(env)
	}
	if env.Kind == f.failOn {
		return errors.New("relay refused")
	}
	f.sent = append(f.sent, env)
	return nil
}

type fakeBroadcaster struct {
	types    []string
	payloads []interface{}
}

func (f *fakeBroadcaster) Publish(msgType string, payload interface{}) {
	f.types = append(f.types, msgType)
	f.payloads = append(f.payloads, payload)
}

var settings = dispatch.Settings{
	FromName:        "Diagnostics",
	FromAddress:     "noreply@example.com",
	AdminRecipients: []string{"admin@example.com"},
}

const scenarioA = `{
	"User Information": [
		{"label": "Nom", "value": "Ray"},
		{"label": "Prénom", "value": "Ana"},
		{"label": "E-mail", "value": "a@b.com"}
	],
	"Access": [
		{"question": "1. Has tooling?", "note": "4"},
		{"question": "2. Has training?", "note": "2"}
	]
}`

func decode(t *testing.T, body string) *model.Submission {
	t.Helper()
	var sub model.Submission
	require.NoError(t, json.Unmarshal([]byte(body), &sub))
	return &sub
}

func newDiagnostic(t *testing.T, store repository.SnapshotStore, mailer dispatch.Mailer, s dispatch.Settings) (*DiagnosticService, string) {
	t.Helper()
	dir := t.TempDir()
	artifacts, err := repository.NewArtifactDir(dir)
	require.NoError(t, err)
	svc := NewDiagnosticService(store, artifacts, mailer, s, diagnostic.DefaultFieldLabels(), report.Options{}, zap.NewNop())
	svc.now = func() time.Time { return time.Date(2024, 3, 5, 9, 7, 1, 123_000_000, time.UTC) }
	svc.newID = func() string { return "0b7c3f52-0000-4000-8000-000000000000" }
	return svc, dir
}

func TestSnapshotName(t *testing.T) {
	at := time.Date(2024, 3, 5, 9, 7, 1, 123_000_000, time.FixedZone("CET", 3600))
	name := SnapshotName(model.Respondent{FirstName: "Hélène", LastName: "Dupont-Roy"}, at)
	assert.Equal(t, "responses-Dupont-Roy-Helene-2024-03-05T08-07-01-123Z.json", name)

	assert.Equal(t, "responses---2024-03-05T08-07-01-123Z.json", SnapshotName(model.Respondent{}, at))
	assert.Equal(t, "responses-a-b.xlsx", ArtifactName("responses-a-b.json"))
}

func TestDiagnosticService_Submit(t *testing.T) {
	store := &fakeStore{}
	mailer := &fakeMailer{}
	feed := &fakeBroadcaster{}
	svc, dir := newDiagnostic(t, store, mailer, settings)
	svc.SetBroadcaster(feed)

	res, err := svc.Submit(context.Background(), decode(t, scenarioA))
	require.NoError(t, err)

	wantName := "responses-Ray-Ana-2024-03-05T09-07-01-123Z.json"
	assert.Equal(t, wantName, res.SnapshotName)
	assert.Equal(t, []model.EnvelopeKind{model.EnvelopeAdmin, model.EnvelopeRespondent}, res.Envelopes)
	require.NotNil(t, res.GlobalAverage)
	assert.Equal(t, 3.0, *res.GlobalAverage)

	require.Len(t, store.puts, 1)
	snap := store.puts[0]
	assert.Equal(t, wantName, snap.Name)
	assert.Equal(t, "0b7c3f52-0000-4000-8000-000000000000", snap.SubmissionID)
	assert.JSONEq(t, scenarioA, string(snap.Data))

	// the spreadsheet is kept next to the snapshot
	assert.FileExists(t, filepath.Join(dir, "responses-Ray-Ana-2024-03-05T09-07-01-123Z.xlsx"))

	require.Len(t, mailer.sent, 2)
	admin := mailer.sent[0]
	assert.Equal(t, "📝 Full diagnostic summary for Ana Ray", admin.Subject)
	assert.Contains(t, admin.HTML, "3.00 / 5 (Level 3/5: Defined)")
	require.Len(t, admin.Attachments, 1)
	assert.Equal(t, model.SpreadsheetContentType, admin.Attachments[0].ContentType)
	assert.Equal(t, []string{"a@b.com"}, mailer.sent[1].To)

	assert.Equal(t, []string{EventDiagnosticReceived}, feed.types)
	assert.Equal(t, "Ana Ray", feed.payloads[0].(FeedEvent).Respondent)
}

func TestDiagnosticService_NoRespondentEmail(t *testing.T) {
	mailer := &fakeMailer{}
	svc, _ := newDiagnostic(t, &fakeStore{}, mailer, settings)

	res, err := svc.Submit(context.Background(), decode(t, `{
		"User Information": [{"label": "Nom", "value": "Ray"}],
		"Access": [{"question": "1. Q", "note": "5"}]
	}`))
	require.NoError(t, err)
	assert.Equal(t, []model.EnvelopeKind{model.EnvelopeAdmin}, res.Envelopes)
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "📝 Full diagnostic summary for Ray", mailer.sent[0].Subject)
}

func TestDiagnosticService_SnapshotFailureStopsPipeline(t *testing.T) {
	mailer := &fakeMailer{}
	svc, dir := newDiagnostic(t, &fakeStore{err: repository.ErrSnapshotExists}, mailer, settings)

	_, err := svc.Submit(context.Background(), decode(t, scenarioA))
	assert.ErrorIs(t, err, repository.ErrSnapshotExists)
	assert.Empty(t, mailer.sent)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDiagnosticService_AdminSendFailure(t *testing.T) {
	mailer := &fakeMailer{failOn: model.EnvelopeAdmin}
	feed := &fakeBroadcaster{}
	svc, _ := newDiagnostic(t, &fakeStore{}, mailer, settings)
	svc.SetBroadcaster(feed)

	_, err := svc.Submit(context.Background(), decode(t, scenarioA))
	require.Error(t, err)
	// respondent is never mailed once the admin send failed
	assert.Empty(t, mailer.sent)
	assert.Empty(t, feed.types)
}

func TestDiagnosticService_EmptySubmission(t *testing.T) {
	mailer := &fakeMailer{}
	svc, _ := newDiagnostic(t, &fakeStore{}, mailer, settings)

	res, err := svc.Submit(context.Background(), decode(t, `{}`))
	require.NoError(t, err)
	assert.Nil(t, res.GlobalAverage)
	require.Len(t, mailer.sent, 1)
	assert.NotContains(t, mailer.sent[0].HTML, "Overall average score")
}

const radarBody = `{
	"questions": [
		{"theme": "Data", "responses": [{"question": "1) Catalog?", "note": 3}]}
	],
	"comment": "ok",
	"globalAverage": "3",
	"formNum": "2",
	"user": {"firstName": "Ana", "lastName": "Ray", "company": "Acme"}
}`

func TestRadarService_Submit(t *testing.T) {
	dir := t.TempDir()
	artifacts, err := repository.NewArtifactDir(dir)
	require.NoError(t, err)

	var onDisk bool
	mailer := &fakeMailer{}
	mailer.seen = func(env model.Envelope) {
		_, statErr := os.Stat(filepath.Join(dir, env.Attachments[0].Filename))
		onDisk = statErr == nil
	}
	feed := &fakeBroadcaster{}
	svc := NewRadarService(artifacts, mailer, settings, zap.NewNop())
	svc.newID = func() string { return "deadbeef-0000-4000-8000-000000000000" }
	svc.SetBroadcaster(feed)

	var r model.RadarSubmission
	require.NoError(t, json.Unmarshal([]byte(radarBody), &r))

	res, err := svc.Submit(context.Background(), &r)
	require.NoError(t, err)
	assert.Equal(t, "radar-Business-Operations-Assessment-deadbeef.xlsx", res.ArtifactName)
	assert.Equal(t, 3.0, *res.GlobalAverage)

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "Maturity radar - Business Operations Assessment", mailer.sent[0].Subject)
	assert.True(t, onDisk)

	// removed once sent
	assert.NoFileExists(t, filepath.Join(dir, res.ArtifactName))
	assert.Equal(t, []string{EventRadarReceived}, feed.types)
	assert.Equal(t, "Acme", feed.payloads[0].(FeedEvent).Company)
}

func TestRadarService_SendFailureStillRemovesFile(t *testing.T) {
	dir := t.TempDir()
	artifacts, err := repository.NewArtifactDir(dir)
	require.NoError(t, err)
	svc := NewRadarService(artifacts, &fakeMailer{failOn: model.EnvelopeAdmin}, settings, zap.NewNop())

	var r model.RadarSubmission
	require.NoError(t, json.Unmarshal([]byte(radarBody), &r))

	_, err = svc.Submit(context.Background(), &r)
	require.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRadarService_NoAdmins(t *testing.T) {
	mailer := &fakeMailer{}
	svc := NewRadarService(nil, mailer, dispatch.Settings{}, zap.NewNop())

	var r model.RadarSubmission
	require.NoError(t, json.Unmarshal([]byte(radarBody), &r))

	res, err := svc.Submit(context.Background(), &r)
	require.NoError(t, err)
	assert.Empty(t, res.Envelopes)
	assert.Empty(t, mailer.sent)
}
