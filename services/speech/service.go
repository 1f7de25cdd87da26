// Package speech forwards validated chat, transcription and synthesis
// requests to the shared provider clients.
package speech

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/upb/drivel-server/internal/observability"
	"github.com/upb/drivel-server/models"
	"github.com/upb/drivel-server/services"
	"github.com/upb/drivel-server/services/providers"
)

// Operation names used in logs and metrics
const (
	OperationChat       = "chat"
	OperationTranscribe = "transcribe"
	OperationSynthesize = "synthesize"
)

// Service forwards requests to the provider clients
type Service struct {
	openai  *providers.Holder[providers.OpenAIClient]
	tts     *providers.Holder[providers.Synthesizer]
	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewService creates a new speech service. metrics may be nil.
func NewService(
	openai *providers.Holder[providers.OpenAIClient],
	tts *providers.Holder[providers.Synthesizer],
	metrics *observability.Metrics,
	logger *zap.Logger,
) *Service {
	return &Service{
		openai:  openai,
		tts:     tts,
		metrics: metrics,
		logger:  logger,
	}
}

// ChatCompletion returns the provider's completion choices
func (s *Service) ChatCompletion(ctx context.Context, req *models.ChatRequest) ([]models.ChatChoice, error) {
	client, err := s.openai.Get(ctx)
	if err != nil {
		return nil, s.clientUnavailable(s.openai.Name(), err)
	}

	start := time.Now()
	choices, err := client.ChatCompletion(ctx, req)
	s.observe(s.openai.Name(), OperationChat, err, start,
		zap.String("model", req.Model),
		zap.Int("messages", len(req.Messages)),
		zap.Int("choices", len(choices)))
	if err != nil {
		return nil, providerFailure("chat completion failed", s.openai.Name(), err)
	}

	return choices, nil
}

// Transcribe converts uploaded audio to text
func (s *Service) Transcribe(ctx context.Context, req *models.STTRequest) (*models.Transcription, error) {
	client, err := s.openai.Get(ctx)
	if err != nil {
		return nil, s.clientUnavailable(s.openai.Name(), err)
	}

	start := time.Now()
	result, err := client.Transcribe(ctx, req)
	s.observe(s.openai.Name(), OperationTranscribe, err, start,
		zap.String("model", req.Model),
		zap.String("language", req.Language),
		zap.String("filename", req.Filename),
		zap.Int("bytes", len(req.Audio)))
	if err != nil {
		return nil, providerFailure("transcription failed", s.openai.Name(), err)
	}

	return result, nil
}

// Synthesize converts text to MP3 audio
func (s *Service) Synthesize(ctx context.Context, req *models.TTSRequest) ([]byte, error) {
	client, err := s.tts.Get(ctx)
	if err != nil {
		return nil, s.clientUnavailable(s.tts.Name(), err)
	}

	start := time.Now()
	audio, err := client.Synthesize(ctx, req)
	s.observe(s.tts.Name(), OperationSynthesize, err, start,
		zap.String("voice", req.Name),
		zap.Float64("speaking_rate", req.SpeakingRate),
		zap.Int("bytes", len(audio)))
	if err != nil {
		return nil, providerFailure("speech synthesis failed", s.tts.Name(), err)
	}

	return audio, nil
}

func (s *Service) clientUnavailable(provider string, err error) error {
	s.logger.Error("provider client unavailable",
		zap.String("provider", provider),
		zap.Error(err))
	return services.WrapInternal(services.ErrClientUnavailable.Message, err).
		WithDetail("provider", provider)
}

func (s *Service) observe(provider, operation string, err error, start time.Time, fields ...zap.Field) {
	duration := time.Since(start)
	s.metrics.RecordProviderCall(provider, operation, err, duration)

	fields = append(fields,
		zap.String("provider", provider),
		zap.String("operation", operation),
		zap.Duration("duration", duration))
	if err != nil {
		s.logger.Warn("provider call failed", append(fields, zap.Error(err))...)
		return
	}
	s.logger.Debug("provider call completed", fields...)
}

func providerFailure(message, provider string, err error) error {
	domainErr := services.WrapExternal(message, err).WithDetail("provider", provider)
	if status := providers.StatusCode(err); status != 0 {
		domainErr.WithDetail("status", status)
	}
	return domainErr
}
