package handler

import (
	"context"
	"diagform/internal/model"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// DiagnosticSubmitter runs the diagnostic pipeline
type DiagnosticSubmitter interface {
	Submit(ctx context.Context, sub *model.Submission) (*model.SubmissionResult, error)
}

// DiagnosticHandler handles full diagnostic submissions
type DiagnosticHandler struct {
	svc    DiagnosticSubmitter
	logger *zap.Logger
}

// NewDiagnosticHandler creates a new diagnostic handler
func NewDiagnosticHandler(svc DiagnosticSubmitter, logger *zap.Logger) *DiagnosticHandler {
	return &DiagnosticHandler{svc: svc, logger: logger}
}

// Submit handles POST /submit
func (h *DiagnosticHandler) Submit(w http.ResponseWriter, r *http.Request) {
	body, ok := readObject(w, r)
	if !ok {
		return
	}
	var sub model.Submission
	if err := json.Unmarshal(body, &sub); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	h.logger.Debug("diagnostic received", zap.ByteString("body", body))

	// a client hanging up must not leave a half-sent submission behind
	res, err := h.svc.Submit(context.WithoutCancel(r.Context()), &sub)
	if err != nil {
		h.logger.Error("diagnostic submission failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, serverError)
		return
	}

	h.logger.Info("diagnostic submission handled",
		zap.String("submissionId", res.SubmissionID),
		zap.String("snapshot", res.SnapshotName),
	)
	writeJSON(w, http.StatusOK, messageResponse{Message: "Responses saved and emails sent successfully."})
}
