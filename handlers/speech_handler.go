package handlers

import (
	"context"

	"go.uber.org/zap"

	"github.com/upb/drivel-server/config"
	"github.com/upb/drivel-server/middleware"
	"github.com/upb/drivel-server/models"
)

// SpeechService defines the provider operations behind the speech endpoints
type SpeechService interface {
	ChatCompletion(ctx context.Context, req *models.ChatRequest) ([]models.ChatChoice, error)
	Transcribe(ctx context.Context, req *models.STTRequest) (*models.Transcription, error)
	Synthesize(ctx context.Context, req *models.TTSRequest) ([]byte, error)
}

// SpeechHandler handles the chat, speech-to-text and text-to-speech endpoints.
// Requests are validated before the service is called.
type SpeechHandler struct {
	service        SpeechService
	models         config.ModelsConfig
	maxUploadBytes int64
	logger         *zap.Logger
}

// NewSpeechHandler creates a new SpeechHandler
func NewSpeechHandler(service SpeechService, modelsCfg config.ModelsConfig, maxUploadBytes int64, logger *zap.Logger) *SpeechHandler {
	return &SpeechHandler{
		service:        service,
		models:         modelsCfg,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

// requestLogger tags log lines with the request ID and, on authenticated
// requests, the token subject.
func (h *SpeechHandler) requestLogger(ctx context.Context) *zap.Logger {
	logger := h.logger.With(zap.String("request_id", middleware.GetRequestIDFromContext(ctx)))
	if claims := middleware.GetClaimsFromContext(ctx); claims != nil {
		logger = logger.With(zap.String("subject", claims.Subject))
	}
	return logger
}
