package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/upb/drivel-server/internal/observability"
	"github.com/upb/drivel-server/models"
)

const (
	// EnvDevelopment resolves secrets through Secret Manager.
	EnvDevelopment = "dev"
	// EnvProduction resolves secrets from mounted files.
	EnvProduction = "prod"

	defaultYAMLFile = ".env.yaml"
)

// Config represents the complete application configuration.
// It is built once by New and shared read-only afterwards.
type Config struct {
	Environment   string
	ProjectName   string
	APIPrefix     string
	Server        ServerConfig
	Secrets       SecretsConfig
	Models        ModelsConfig
	Providers     ProvidersConfig
	Auth          AuthConfig
	Observability ObservabilityConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
	MaxUploadBytes  int64
	AllowedOrigins  []string
}

// SecretsConfig names the OpenAI credentials and where they live.
// The names double as Secret Manager secret IDs and as file names under Folder.
type SecretsConfig struct {
	GCPProjectNumber         string
	OpenAIKeyName            string
	OpenAIOrganizationIDName string
	OpenAIProjectIDName      string // optional
	Folder                   string
}

// ModelsConfig holds model defaults and request bounds.
type ModelsConfig struct {
	GPTModel        string
	STTModel        string
	STTLanguage     string
	SpeakingRateMin float64
	SpeakingRateMax float64
}

// ProvidersConfig holds provider endpoint overrides.
type ProvidersConfig struct {
	OpenAI       OpenAIConfig
	TextToSpeech TextToSpeechConfig
}

// OpenAIConfig holds OpenAI provider configuration
type OpenAIConfig struct {
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
}

// TextToSpeechConfig holds Google Cloud Text-to-Speech configuration.
type TextToSpeechConfig struct {
	Endpoint string // empty uses the public Google endpoint
}

// AuthConfig enables bearer-token authentication on the provider endpoints.
// Authentication is disabled when JWTSecret is empty.
type AuthConfig struct {
	JWTSecret string
	Issuer    string
}

// ObservabilityConfig holds monitoring and logging configuration
type ObservabilityConfig struct {
	LogLevel       string
	LogFormat      string // json or console
	MetricsEnabled bool
}

// New creates a new Config instance from .env, the YAML settings file and the
// process environment. YAML values win over environment variables.
func New(ctx context.Context) (*Config, error) {
	_ = godotenv.Load(".env")

	src, err := loadYAML(getEnv("CONFIG_FILE", defaultYAMLFile))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Environment: strings.ToLower(src.str("ENV", EnvDevelopment)),
		ProjectName: src.str("PROJECT_NAME", "drivel-server"),
		APIPrefix:   src.str("API_V1_STR", "/api/v1"),
		Server: ServerConfig{
			Host:            src.str("SERVER_HOST", "0.0.0.0"),
			Port:            src.port(),
			ReadTimeout:     src.duration("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:    src.duration("SERVER_WRITE_TIMEOUT", 120*time.Second),
			RequestTimeout:  src.duration("SERVER_REQUEST_TIMEOUT", 110*time.Second),
			ShutdownTimeout: src.duration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
			MaxUploadBytes:  int64(src.int("SERVER_MAX_UPLOAD_MB", 25)) << 20,
			AllowedOrigins:  src.list("CORS_ALLOWED_ORIGINS", []string{"*"}),
		},
		Secrets: SecretsConfig{
			GCPProjectNumber:         src.str("GCP_PROJECT_NUMBER", ""),
			OpenAIKeyName:            src.str("GCP_SECRET_NAME_OPENAI_KEY", ""),
			OpenAIOrganizationIDName: src.str("GCP_SECRET_NAME_OPENAI_ORGANIZATION_ID", ""),
			OpenAIProjectIDName:      src.str("GCP_SECRET_NAME_OPENAI_PROJECT_ID", ""),
			Folder:                   src.str("SECRETS_FOLDER", ""),
		},
		Models: ModelsConfig{
			GPTModel:        src.str("GPT_MODEL", models.DefaultChatModel),
			STTModel:        src.str("STT_MODEL", "whisper-1"),
			STTLanguage:     src.str("STT_LANGUAGE", "es"),
			SpeakingRateMin: src.float("TTS_SPEAKING_RATE_MIN", 0.25),
			SpeakingRateMax: src.float("TTS_SPEAKING_RATE_MAX", 4.0),
		},
		Providers: ProvidersConfig{
			OpenAI: OpenAIConfig{
				BaseURL:    src.str("OPENAI_BASE_URL", ""),
				Timeout:    src.duration("OPENAI_TIMEOUT", 0),
				MaxRetries: src.int("OPENAI_MAX_RETRIES", 0),
			},
			TextToSpeech: TextToSpeechConfig{
				Endpoint: src.str("TTS_ENDPOINT", ""),
			},
		},
		Auth: AuthConfig{
			JWTSecret: src.str("AUTH_JWT_SECRET", ""),
			Issuer:    src.str("AUTH_JWT_ISSUER", ""),
		},
		Observability: ObservabilityConfig{
			LogLevel:       src.str("LOG_LEVEL", "info"),
			LogFormat:      src.str("LOG_FORMAT", "json"),
			MetricsEnabled: src.bool("METRICS_ENABLED", true),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks if all required configuration fields are set
func (c *Config) Validate() error {
	if c.Environment != EnvDevelopment && c.Environment != EnvProduction {
		return fmt.Errorf("ENV must be %q or %q, got %q", EnvDevelopment, EnvProduction, c.Environment)
	}

	if !strings.HasPrefix(c.APIPrefix, "/") {
		return fmt.Errorf("API_V1_STR must start with '/', got %q", c.APIPrefix)
	}

	if c.Secrets.OpenAIKeyName == "" {
		return errors.New("GCP_SECRET_NAME_OPENAI_KEY is required")
	}
	if c.Secrets.OpenAIOrganizationIDName == "" {
		return errors.New("GCP_SECRET_NAME_OPENAI_ORGANIZATION_ID is required")
	}
	if c.IsProduction() && c.Secrets.Folder == "" {
		return errors.New("SECRETS_FOLDER is required in production")
	}
	if c.IsDevelopment() && c.Secrets.GCPProjectNumber == "" {
		return errors.New("GCP_PROJECT_NUMBER is required in development")
	}

	if !models.IsChatModel(c.Models.GPTModel) {
		return fmt.Errorf("GPT_MODEL %q is not a supported chat model", c.Models.GPTModel)
	}
	if c.Models.SpeakingRateMin <= 0 || c.Models.SpeakingRateMin > c.Models.SpeakingRateMax {
		return fmt.Errorf("invalid speaking rate interval [%v, %v]", c.Models.SpeakingRateMin, c.Models.SpeakingRateMax)
	}

	if _, err := zapcore.ParseLevel(strings.ToLower(c.Observability.LogLevel)); err != nil {
		return fmt.Errorf("LOG_LEVEL %q is not a valid level", c.Observability.LogLevel)
	}
	switch strings.ToLower(c.Observability.LogFormat) {
	case observability.FormatJSON, observability.FormatConsole:
	default:
		return fmt.Errorf("LOG_FORMAT must be %q or %q, got %q",
			observability.FormatJSON, observability.FormatConsole, c.Observability.LogFormat)
	}

	return nil
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Environment == EnvDevelopment
}

// AuthEnabled reports whether provider endpoints require a bearer token.
func (c *Config) AuthEnabled() bool {
	return c.Auth.JWTSecret != ""
}

// Address returns the HTTP server address
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// OpenAIAPIKeyFile is the mounted file holding the OpenAI API key.
func (s *SecretsConfig) OpenAIAPIKeyFile() string {
	return filepath.Join(s.Folder, "api-key", s.OpenAIKeyName)
}

// OpenAIOrganizationIDFile is the mounted file holding the OpenAI organization ID.
func (s *SecretsConfig) OpenAIOrganizationIDFile() string {
	return filepath.Join(s.Folder, "org-id", s.OpenAIOrganizationIDName)
}

// OpenAIProjectIDFile is the mounted file holding the OpenAI project ID.
func (s *SecretsConfig) OpenAIProjectIDFile() string {
	return filepath.Join(s.Folder, "proj-id", s.OpenAIProjectIDName)
}

// Helper functions

// source resolves keys from the YAML settings file first, then the environment.
type source map[string]string

func loadYAML(path string) (source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return source{}, nil
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	src := source{}
	flatten(src, "", raw)
	return src, nil
}

// flatten turns nested YAML maps into SECTION_KEY entries.
func flatten(dst source, prefix string, raw map[string]any) {
	for k, v := range raw {
		key := strings.ToUpper(k)
		if prefix != "" {
			key = prefix + "_" + key
		}
		switch val := v.(type) {
		case map[string]any:
			flatten(dst, key, val)
		case []any:
			parts := make([]string, 0, len(val))
			for _, item := range val {
				parts = append(parts, fmt.Sprint(item))
			}
			dst[key] = strings.Join(parts, ",")
		case nil:
		default:
			dst[key] = fmt.Sprint(val)
		}
	}
}

func (s source) str(key, defaultValue string) string {
	if value, ok := s[key]; ok && value != "" {
		return value
	}
	return getEnv(key, defaultValue)
}

// port returns the server port from PORT or SERVER_PORT (default: 8080)
func (s source) port() int {
	for _, key := range []string{"PORT", "SERVER_PORT"} {
		if p, err := strconv.Atoi(s.str(key, "")); err == nil {
			return p
		}
	}
	return 8080
}

func (s source) int(key string, defaultValue int) int {
	value, err := strconv.Atoi(s.str(key, ""))
	if err != nil {
		return defaultValue
	}
	return value
}

func (s source) bool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(s.str(key, ""))
	if err != nil {
		return defaultValue
	}
	return value
}

func (s source) float(key string, defaultValue float64) float64 {
	value, err := strconv.ParseFloat(s.str(key, ""), 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func (s source) duration(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(s.str(key, ""))
	if err != nil {
		return defaultValue
	}
	return value
}

func (s source) list(key string, defaultValue []string) []string {
	raw := s.str(key, "")
	if raw == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
