package app

import (
	"context"
	"fmt"

	openaioption "github.com/openai/openai-go/v3/option"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/upb/drivel-server/auth"
	"github.com/upb/drivel-server/config"
	"github.com/upb/drivel-server/internal/observability"
	"github.com/upb/drivel-server/middleware"
	"github.com/upb/drivel-server/secrets"
	"github.com/upb/drivel-server/services/providers"
	"github.com/upb/drivel-server/services/providers/google"
	"github.com/upb/drivel-server/services/providers/openai"
	"github.com/upb/drivel-server/services/speech"
)

// Dependencies holds all application dependencies.
// This is the central wiring point for dependency injection.
type Dependencies struct {
	// Infrastructure
	Config  *config.Config
	Logger  *zap.Logger
	Metrics *observability.Metrics

	// Secrets is chosen once from the environment tag
	Secrets secrets.Resolver

	// Provider clients, built on first use
	OpenAI           *providers.Holder[providers.OpenAIClient]
	TextToSpeech     *providers.Holder[providers.Synthesizer]
	ProviderRegistry *providers.Registry

	// Services
	Speech *speech.Service

	// Auth, nil when AUTH_JWT_SECRET is unset
	AuthMiddleware *middleware.AuthMiddleware
}

// Option customizes how dependencies are built
type Option func(*options)

type options struct {
	resolver      secrets.Resolver
	secretOptions []option.ClientOption
	openaiOptions []openaioption.RequestOption
	ttsOptions    []option.ClientOption
}

// WithSecretsResolver replaces the environment-selected resolver
func WithSecretsResolver(resolver secrets.Resolver) Option {
	return func(o *options) { o.resolver = resolver }
}

// WithSecretManagerOptions passes client options to the Secret Manager client
func WithSecretManagerOptions(opts ...option.ClientOption) Option {
	return func(o *options) { o.secretOptions = append(o.secretOptions, opts...) }
}

// WithOpenAIOptions passes request options to the OpenAI client
func WithOpenAIOptions(opts ...openaioption.RequestOption) Option {
	return func(o *options) { o.openaiOptions = append(o.openaiOptions, opts...) }
}

// WithTextToSpeechOptions passes client options to the Text-to-Speech client
func WithTextToSpeechOptions(opts ...option.ClientOption) Option {
	return func(o *options) { o.ttsOptions = append(o.ttsOptions, opts...) }
}

// NewDependencies creates and wires up all application dependencies.
// No provider is contacted here; clients are constructed on first use.
func NewDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger, opts ...Option) (*Dependencies, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	if err := deps.initMetrics(cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}

	deps.initSecrets(cfg, o)

	if err := deps.initProviders(cfg, o); err != nil {
		return nil, fmt.Errorf("failed to initialize providers: %w", err)
	}

	deps.Speech = speech.NewService(deps.OpenAI, deps.TextToSpeech, deps.Metrics, logger)

	deps.initAuth(cfg)

	logger.Info("all dependencies initialized successfully",
		zap.String("environment", cfg.Environment),
		zap.Strings("providers", deps.ProviderRegistry.ListProviders()))
	return deps, nil
}

func (d *Dependencies) initMetrics(cfg *config.Config) error {
	if !cfg.Observability.MetricsEnabled {
		d.Logger.Info("metrics disabled")
		return nil
	}

	metrics, err := observability.NewMetrics()
	if err != nil {
		return err
	}
	d.Metrics = metrics
	return nil
}

func (d *Dependencies) initSecrets(cfg *config.Config, o *options) {
	if o.resolver != nil {
		d.Secrets = o.resolver
		return
	}

	d.Secrets = secrets.New(cfg, o.secretOptions...)
	d.Logger.Info("secret resolver selected",
		zap.String("environment", cfg.Environment),
		zap.String("resolver", fmt.Sprintf("%T", d.Secrets)))
}

// initProviders registers one holder per provider
func (d *Dependencies) initProviders(cfg *config.Config, o *options) error {
	withProject := cfg.Secrets.OpenAIProjectIDName != ""

	d.OpenAI = providers.NewHolder(openai.ProviderName,
		openai.NewFactory(d.Secrets, cfg.Providers.OpenAI, withProject, o.openaiOptions...))
	d.TextToSpeech = providers.NewHolder(google.ProviderName,
		google.NewFactory(cfg.Providers.TextToSpeech, o.ttsOptions...))

	registry := providers.NewRegistry()
	if err := registry.Register(d.OpenAI); err != nil {
		return err
	}
	if err := registry.Register(d.TextToSpeech); err != nil {
		return err
	}

	d.ProviderRegistry = registry
	return nil
}

func (d *Dependencies) initAuth(cfg *config.Config) {
	if !cfg.AuthEnabled() {
		d.Logger.Warn("AUTH_JWT_SECRET not set, provider endpoints are unauthenticated")
		return
	}

	d.AuthMiddleware = middleware.NewAuthMiddleware(auth.NewValidator(cfg.Auth), d.Logger)
	d.Logger.Info("bearer token authentication enabled")
}

// Close gracefully shuts down all dependencies
func (d *Dependencies) Close(ctx context.Context) error {
	if d.Logger == nil {
		return nil
	}

	if d.ProviderRegistry != nil {
		d.Logger.Info("shutting down dependencies",
			zap.Any("providers", d.ProviderRegistry.Status()))
	}
	_ = d.Logger.Sync()

	return nil
}
