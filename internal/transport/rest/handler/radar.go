package handler

import (
	"context"
	"diagform/internal/model"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// RadarSubmitter runs the radar pipeline
type RadarSubmitter interface {
	Submit(ctx context.Context, r *model.RadarSubmission) (*model.SubmissionResult, error)
}

// RadarHandler handles maturity radar submissions
type RadarHandler struct {
	svc    RadarSubmitter
	logger *zap.Logger
}

// NewRadarHandler creates a new radar handler
func NewRadarHandler(svc RadarSubmitter, logger *zap.Logger) *RadarHandler {
	return &RadarHandler{svc: svc, logger: logger}
}

// Submit handles POST /submit-radar
func (h *RadarHandler) Submit(w http.ResponseWriter, r *http.Request) {
	body, ok := readObject(w, r)
	if !ok {
		return
	}
	var req model.RadarSubmission
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	h.logger.Debug("radar received", zap.ByteString("body", body))

	if _, err := h.svc.Submit(context.WithoutCancel(r.Context()), &req); err != nil {
		h.logger.Error("radar submission failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, serverError)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Maturity radar sent successfully"})
}
