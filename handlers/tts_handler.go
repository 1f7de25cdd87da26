package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/upb/drivel-server/models"
	"github.com/upb/drivel-server/utils"
)

// HandleTextToSpeech handles POST /text-to-speech
// Responds with MP3 audio.
func (h *SpeechHandler) HandleTextToSpeech(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.requestLogger(ctx)

	req := models.NewTTSRequest()
	if err := utils.DecodeJSON(r.Body, req); err != nil {
		logger.Warn("failed to parse text-to-speech request", zap.Error(err))
		HandleValidationError(w, err, logger)
		return
	}

	if err := req.Validate(h.models.SpeakingRateMin, h.models.SpeakingRateMax); err != nil {
		logger.Warn("text-to-speech request validation failed", zap.Error(err))
		HandleValidationError(w, err, logger)
		return
	}

	audio, err := h.service.Synthesize(ctx, req)
	if err != nil {
		HandleServiceError(w, err, logger)
		return
	}

	if err := utils.WriteBytes(w, http.StatusOK, models.AudioContentType, audio); err != nil {
		logger.Error("failed to write audio response", zap.Error(err))
	}
}
