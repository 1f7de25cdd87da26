package handlers

import (
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/upb/drivel-server/models"
	"github.com/upb/drivel-server/services"
	"github.com/upb/drivel-server/utils"
)

// AudioFileField is the multipart field carrying the upload
const AudioFileField = "audio_file"

// HandleSpeechToText handles POST /speech-to-text
// Query parameters model and language override the configured defaults.
func (h *SpeechHandler) HandleSpeechToText(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.requestLogger(ctx)

	if h.maxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	}

	req, err := h.readUpload(r)
	if err != nil {
		logger.Warn("failed to read audio upload", zap.Error(err))

		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			if err := utils.WriteError(w, http.StatusRequestEntityTooLarge, "audio file exceeds the upload limit"); err != nil {
				logger.Error("failed to write upload limit response", zap.Error(err))
			}
			return
		}
		HandleServiceError(w, err, logger)
		return
	}

	transcription, err := h.service.Transcribe(ctx, req)
	if err != nil {
		HandleServiceError(w, err, logger)
		return
	}

	if err := utils.WriteOK(w, transcription); err != nil {
		logger.Error("failed to write transcription response", zap.Error(err))
	}
}

func (h *SpeechHandler) readUpload(r *http.Request) (*models.STTRequest, error) {
	file, header, err := r.FormFile(AudioFileField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return nil, err
		case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
			return nil, utils.NewQueryError("body", AudioFileField, "Field required")
		}
		return nil, utils.NewFieldError(AudioFileField, "Invalid multipart form data")
	}
	defer file.Close()

	audio, err := io.ReadAll(file)
	if err != nil {
		return nil, services.WrapInternal(services.ErrInvalidAudioUpload.Message, err)
	}

	model := r.URL.Query().Get("model")
	if model == "" {
		model = h.models.STTModel
	}
	language := r.URL.Query().Get("language")
	if language == "" {
		language = h.models.STTLanguage
	}

	return &models.STTRequest{
		Audio:       audio,
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Model:       model,
		Language:    language,
	}, nil
}
