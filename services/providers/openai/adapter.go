package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"golang.org/x/sync/errgroup"

	"github.com/upb/drivel-server/config"
	"github.com/upb/drivel-server/models"
	"github.com/upb/drivel-server/secrets"
	"github.com/upb/drivel-server/services/providers"
)

// ProviderName identifies this provider in the registry
const ProviderName = "openai"

var _ providers.OpenAIClient = (*OpenAIAdapter)(nil)

// OpenAIAdapter serves chat completions and transcriptions through the
// official OpenAI SDK
type OpenAIAdapter struct {
	client openai.Client
}

// NewOpenAIAdapter creates a new OpenAI adapter
func NewOpenAIAdapter(config providers.ProviderConfig, extra ...option.RequestOption) (*OpenAIAdapter, error) {
	if strings.TrimSpace(config.APIKey) == "" {
		return nil, errors.New("openai: api key required")
	}

	opts := []option.RequestOption{
		option.WithAPIKey(config.APIKey),
		option.WithMaxRetries(config.MaxRetries),
	}
	if org := strings.TrimSpace(config.OrgID); org != "" {
		opts = append(opts, option.WithOrganization(org))
	}
	if project := strings.TrimSpace(config.ProjectID); project != "" {
		opts = append(opts, option.WithProject(project))
	}
	if config.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(strings.TrimRight(config.BaseURL, "/")+"/"))
	}
	if config.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(config.Timeout))
	}
	opts = append(opts, extra...)

	return &OpenAIAdapter{client: openai.NewClient(opts...)}, nil
}

// NewFactory returns a constructor that resolves fresh credentials and builds
// an adapter. The project ID is only resolved when withProject is set.
func NewFactory(resolver secrets.Resolver, cfg config.OpenAIConfig, withProject bool, extra ...option.RequestOption) providers.Factory[providers.OpenAIClient] {
	return func(ctx context.Context) (providers.OpenAIClient, error) {
		var apiKey, orgID, projectID string

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			v, err := resolver.Resolve(gctx, secrets.APIKey)
			apiKey = v
			return err
		})
		g.Go(func() error {
			v, err := resolver.Resolve(gctx, secrets.OrganizationID)
			orgID = v
			return err
		})
		if withProject {
			g.Go(func() error {
				v, err := resolver.Resolve(gctx, secrets.ProjectID)
				projectID = v
				return err
			})
		}
		if err := g.Wait(); err != nil {
			return nil, fmt.Errorf("resolve openai credentials: %w", err)
		}

		adapter, err := NewOpenAIAdapter(providers.ProviderConfig{
			APIKey:     apiKey,
			OrgID:      orgID,
			ProjectID:  projectID,
			BaseURL:    cfg.BaseURL,
			Timeout:    cfg.Timeout,
			MaxRetries: cfg.MaxRetries,
		}, extra...)
		if err != nil {
			return nil, err
		}
		return adapter, nil
	}
}

// ChatCompletion performs a chat completion request and returns every
// choice exactly as the provider sent it
func (a *OpenAIAdapter) ChatCompletion(ctx context.Context, req *models.ChatRequest) ([]models.ChatChoice, error) {
	resp, err := a.client.Chat.Completions.New(ctx, buildChatParams(req))
	if err != nil {
		return nil, convertError(err)
	}

	if resp == nil || len(resp.Choices) == 0 {
		return nil, providers.NewProviderError(ProviderName, "EMPTY_COMPLETION", "", 0, providers.ErrEmptyCompletion)
	}

	choices := make([]models.ChatChoice, 0, len(resp.Choices))
	for _, choice := range resp.Choices {
		raw := choice.RawJSON()
		if raw == "" {
			data, err := json.Marshal(choice)
			if err != nil {
				return nil, fmt.Errorf("encode choice: %w", err)
			}
			raw = string(data)
		}
		choices = append(choices, models.ChatChoice(raw))
	}

	return choices, nil
}

// Transcribe performs speech-to-text via the Audio Transcriptions API
func (a *OpenAIAdapter) Transcribe(ctx context.Context, req *models.STTRequest) (*models.Transcription, error) {
	params := openai.AudioTranscriptionNewParams{
		File:  openai.File(bytes.NewReader(req.Audio), req.Filename, req.ContentType),
		Model: openai.AudioModel(req.Model),
	}
	if lang := strings.TrimSpace(req.Language); lang != "" {
		params.Language = openai.String(lang)
	}

	resp, err := a.client.Audio.Transcriptions.New(ctx, params)
	if err != nil {
		return nil, convertError(err)
	}

	return &models.Transcription{Text: resp.Text}, nil
}

func buildChatParams(req *models.ChatRequest) openai.ChatCompletionNewParams {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.Messages))
	for _, msg := range req.Messages {
		switch msg.Role {
		case models.RoleSystem:
			messages = append(messages, openai.SystemMessage(msg.Content))
		case models.RoleAssistant:
			messages = append(messages, openai.ChatCompletionMessageParamOfAssistant(msg.Content))
		default:
			messages = append(messages, openai.UserMessage(msg.Content))
		}
	}

	params := openai.ChatCompletionNewParams{
		Model:     openai.ChatModel(req.Model),
		Messages:  messages,
		MaxTokens: openai.Int(int64(req.MaxTokens)),
		N:         openai.Int(int64(req.N)),
	}
	if req.Temperature != nil {
		params.Temperature = openai.Float(*req.Temperature)
	}
	if req.TopP != nil {
		params.TopP = openai.Float(*req.TopP)
	}
	if len(req.Stop) == 1 {
		params.Stop.OfString = openai.String(req.Stop[0])
	} else if len(req.Stop) > 1 {
		params.Stop.OfStringArray = append(params.Stop.OfStringArray, req.Stop...)
	}
	if req.User != "" {
		params.User = openai.String(req.User)
	}
	return params
}

func convertError(err error) error {
	var apierr *openai.Error
	if errors.As(err, &apierr) {
		msg := apierr.Message
		if msg == "" {
			msg = err.Error()
		}
		return providers.NewProviderError(ProviderName, apierr.Code, msg, apierr.StatusCode, err)
	}
	return providers.NewProviderError(ProviderName, "REQUEST_ERROR", "", 0, err)
}
