// Package google adapts the Google Cloud Text-to-Speech API.
package google

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/texttospeech/v1"

	"github.com/upb/drivel-server/config"
	"github.com/upb/drivel-server/models"
	"github.com/upb/drivel-server/services/providers"
)

// ProviderName identifies this provider in the registry
const ProviderName = "text-to-speech"

var _ providers.Synthesizer = (*TTSAdapter)(nil)

// TTSAdapter synthesizes speech with Google Cloud Text-to-Speech.
// Credentials come from the environment (Application Default Credentials).
type TTSAdapter struct {
	svc *texttospeech.Service
}

// NewTTSAdapter creates the Text-to-Speech client
func NewTTSAdapter(ctx context.Context, opts ...option.ClientOption) (*TTSAdapter, error) {
	svc, err := texttospeech.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create text-to-speech client: %w", err)
	}
	return &TTSAdapter{svc: svc}, nil
}

// NewFactory returns a constructor for the Text-to-Speech client
func NewFactory(cfg config.TextToSpeechConfig, opts ...option.ClientOption) providers.Factory[providers.Synthesizer] {
	if cfg.Endpoint != "" {
		opts = append([]option.ClientOption{option.WithEndpoint(cfg.Endpoint)}, opts...)
	}
	return func(ctx context.Context) (providers.Synthesizer, error) {
		adapter, err := NewTTSAdapter(ctx, opts...)
		if err != nil {
			return nil, err
		}
		return adapter, nil
	}
}

// Synthesize renders the request text as MP3 audio
func (a *TTSAdapter) Synthesize(ctx context.Context, req *models.TTSRequest) ([]byte, error) {
	call := a.svc.Text.Synthesize(&texttospeech.SynthesizeSpeechRequest{
		Input: &texttospeech.SynthesisInput{Text: req.Text},
		Voice: &texttospeech.VoiceSelectionParams{
			LanguageCode: req.LanguageCode,
			Name:         req.Name,
		},
		AudioConfig: &texttospeech.AudioConfig{
			AudioEncoding: models.AudioEncodingMP3,
			SpeakingRate:  req.SpeakingRate,
		},
	})

	resp, err := call.Context(ctx).Do()
	if err != nil {
		return nil, convertError(err)
	}

	audio, err := base64.StdEncoding.DecodeString(resp.AudioContent)
	if err != nil {
		return nil, providers.NewProviderError(ProviderName, "DECODE_ERROR", "invalid audio content", 0, err)
	}

	return audio, nil
}

func convertError(err error) error {
	var apierr *googleapi.Error
	if errors.As(err, &apierr) {
		msg := apierr.Message
		if msg == "" {
			msg = err.Error()
		}
		return providers.NewProviderError(ProviderName, fmt.Sprint(apierr.Code), msg, apierr.Code, err)
	}
	return providers.NewProviderError(ProviderName, "REQUEST_ERROR", "", 0, err)
}
