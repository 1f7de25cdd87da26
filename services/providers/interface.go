package providers

import (
	"context"
	"errors"
	"time"

	"github.com/upb/drivel-server/models"
)

// ErrEmptyCompletion is returned when a provider answers without any choice
var ErrEmptyCompletion = errors.New("provider returned no completion choices")

// ChatCompleter performs chat completions
type ChatCompleter interface {
	// ChatCompletion returns the provider's choices verbatim
	ChatCompletion(ctx context.Context, req *models.ChatRequest) ([]models.ChatChoice, error)
}

// Transcriber converts recorded speech to text
type Transcriber interface {
	Transcribe(ctx context.Context, req *models.STTRequest) (*models.Transcription, error)
}

// Synthesizer converts text to encoded audio
type Synthesizer interface {
	// Synthesize returns MP3 audio bytes
	Synthesize(ctx context.Context, req *models.TTSRequest) ([]byte, error)
}

// OpenAIClient is the combined chat and transcription client
type OpenAIClient interface {
	ChatCompleter
	Transcriber
}

// ProviderConfig holds common configuration for providers
type ProviderConfig struct {
	// APIKey for authentication
	APIKey string

	// OrgID for organization-specific endpoints
	OrgID string

	// ProjectID scopes usage to a project (optional)
	ProjectID string

	// BaseURL for the API (optional override)
	BaseURL string

	// Timeout for requests
	Timeout time.Duration

	// MaxRetries for failed requests. Zero disables retries.
	MaxRetries int
}

// ProviderError represents an error from a provider
type ProviderError struct {
	// Provider that generated the error
	Provider string

	// Code is the error code
	Code string

	// Message is the error message
	Message string

	// StatusCode is the HTTP status code (if applicable)
	StatusCode int

	// Cause is the underlying error
	Cause error
}

// Error implements the error interface
func (e *ProviderError) Error() string {
	if e.Cause != nil && e.Message == "" {
		return e.Cause.Error()
	}
	return e.Message
}

// Unwrap implements error unwrapping
func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// NewProviderError creates a new provider error
func NewProviderError(provider, code, message string, statusCode int, cause error) *ProviderError {
	return &ProviderError{
		Provider:   provider,
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
		Cause:      cause,
	}
}

// StatusCode extracts the provider HTTP status from err, or 0
func StatusCode(err error) int {
	var provErr *ProviderError
	if errors.As(err, &provErr) {
		return provErr.StatusCode
	}
	return 0
}
