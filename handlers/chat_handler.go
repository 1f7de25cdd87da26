package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/upb/drivel-server/models"
	"github.com/upb/drivel-server/utils"
)

// HandleChat handles POST /chat-responses
// Responds with the provider's completion choices as a JSON list.
func (h *SpeechHandler) HandleChat(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.requestLogger(ctx)

	req := models.NewChatRequest(h.models.GPTModel)
	if err := utils.DecodeJSON(r.Body, req); err != nil {
		logger.Warn("failed to parse chat request", zap.Error(err))
		HandleValidationError(w, err, logger)
		return
	}

	if err := req.Validate(); err != nil {
		logger.Warn("chat request validation failed", zap.Error(err))
		HandleValidationError(w, err, logger)
		return
	}

	choices, err := h.service.ChatCompletion(ctx, req)
	if err != nil {
		HandleServiceError(w, err, logger)
		return
	}

	if err := utils.WriteOK(w, choices); err != nil {
		logger.Error("failed to write chat response", zap.Error(err))
	}
}
