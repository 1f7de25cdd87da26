package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points the loader at an empty directory and a missing YAML file
// and clears every key the tests rely on.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	for _, key := range []string{
		"ENV", "PROJECT_NAME", "API_V1_STR", "PORT", "SERVER_PORT", "SERVER_HOST",
		"GCP_PROJECT_NUMBER", "GCP_SECRET_NAME_OPENAI_KEY", "GCP_SECRET_NAME_OPENAI_ORGANIZATION_ID",
		"GCP_SECRET_NAME_OPENAI_PROJECT_ID", "SECRETS_FOLDER", "GPT_MODEL", "STT_MODEL", "STT_LANGUAGE",
		"TTS_SPEAKING_RATE_MIN", "TTS_SPEAKING_RATE_MAX", "LOG_LEVEL", "LOG_FORMAT", "METRICS_ENABLED",
		"AUTH_JWT_SECRET", "CORS_ALLOWED_ORIGINS", "SERVER_READ_TIMEOUT", "OPENAI_TIMEOUT",
	} {
		t.Setenv(key, "")
	}
	t.Setenv("CONFIG_FILE", filepath.Join(dir, ".env.yaml"))
	return dir
}

func setDevSecrets(t *testing.T) {
	t.Helper()
	t.Setenv("GCP_PROJECT_NUMBER", "123456")
	t.Setenv("GCP_SECRET_NAME_OPENAI_KEY", "openai-key")
	t.Setenv("GCP_SECRET_NAME_OPENAI_ORGANIZATION_ID", "openai-org")
}

func TestNew(t *testing.T) {
	t.Run("default configuration", func(t *testing.T) {
		isolate(t)
		setDevSecrets(t)

		cfg, err := New(context.Background())
		require.NoError(t, err)

		assert.Equal(t, EnvDevelopment, cfg.Environment)
		assert.Equal(t, "drivel-server", cfg.ProjectName)
		assert.Equal(t, "/api/v1", cfg.APIPrefix)
		assert.Equal(t, "0.0.0.0", cfg.Server.Host)
		assert.Equal(t, 8080, cfg.Server.Port)
		assert.Equal(t, int64(25<<20), cfg.Server.MaxUploadBytes)
		assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
		assert.Equal(t, "gpt-3.5-turbo", cfg.Models.GPTModel)
		assert.Equal(t, "whisper-1", cfg.Models.STTModel)
		assert.Equal(t, "es", cfg.Models.STTLanguage)
		assert.Equal(t, 0.25, cfg.Models.SpeakingRateMin)
		assert.Equal(t, 4.0, cfg.Models.SpeakingRateMax)
		assert.Equal(t, 0, cfg.Providers.OpenAI.MaxRetries)
		assert.Zero(t, cfg.Providers.OpenAI.Timeout)
		assert.Equal(t, "info", cfg.Observability.LogLevel)
		assert.Equal(t, "json", cfg.Observability.LogFormat)
		assert.True(t, cfg.Observability.MetricsEnabled)
		assert.False(t, cfg.AuthEnabled())
	})

	t.Run("environment overrides", func(t *testing.T) {
		isolate(t)
		setDevSecrets(t)
		t.Setenv("PORT", "9000")
		t.Setenv("GPT_MODEL", "gpt-4o")
		t.Setenv("TTS_SPEAKING_RATE_MAX", "2")
		t.Setenv("SERVER_READ_TIMEOUT", "5s")
		t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
		t.Setenv("AUTH_JWT_SECRET", "s3cret")

		cfg, err := New(context.Background())
		require.NoError(t, err)

		assert.Equal(t, 9000, cfg.Server.Port)
		assert.Equal(t, "gpt-4o", cfg.Models.GPTModel)
		assert.Equal(t, 2.0, cfg.Models.SpeakingRateMax)
		assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
		assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
		assert.True(t, cfg.AuthEnabled())
	})

	t.Run("yaml wins over environment", func(t *testing.T) {
		dir := isolate(t)
		setDevSecrets(t)
		t.Setenv("GPT_MODEL", "gpt-4")

		yaml := []byte(`
ENV: prod
secrets_folder: /var/secrets
gpt_model: gpt-4o-mini
server:
  port: 7000
cors_allowed_origins:
  - https://drivel.example
`)
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.yaml"), yaml, 0o600))

		cfg, err := New(context.Background())
		require.NoError(t, err)

		assert.True(t, cfg.IsProduction())
		assert.Equal(t, "gpt-4o-mini", cfg.Models.GPTModel)
		assert.Equal(t, 7000, cfg.Server.Port)
		assert.Equal(t, []string{"https://drivel.example"}, cfg.Server.AllowedOrigins)
		assert.Equal(t, "/var/secrets/api-key/openai-key", cfg.Secrets.OpenAIAPIKeyFile())
		assert.Equal(t, "/var/secrets/org-id/openai-org", cfg.Secrets.OpenAIOrganizationIDFile())
	})

	t.Run("yaml log settings", func(t *testing.T) {
		dir := isolate(t)
		setDevSecrets(t)
		t.Setenv("LOG_LEVEL", "warn")

		yaml := []byte("log_level: debug\nlog_format: console\nproject_name: drivel-staging\n")
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.yaml"), yaml, 0o600))

		cfg, err := New(context.Background())
		require.NoError(t, err)

		assert.Equal(t, "debug", cfg.Observability.LogLevel)
		assert.Equal(t, "console", cfg.Observability.LogFormat)
		assert.Equal(t, "drivel-staging", cfg.ProjectName)
	})

	t.Run("invalid log level", func(t *testing.T) {
		isolate(t)
		setDevSecrets(t)
		t.Setenv("LOG_LEVEL", "verbose")

		_, err := New(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "LOG_LEVEL")
	})

	t.Run("dotenv file is loaded", func(t *testing.T) {
		dir := isolate(t)
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(
			"GCP_PROJECT_NUMBER=42\nGCP_SECRET_NAME_OPENAI_KEY=k\nGCP_SECRET_NAME_OPENAI_ORGANIZATION_ID=o\n"), 0o600))
		for _, key := range []string{"GCP_PROJECT_NUMBER", "GCP_SECRET_NAME_OPENAI_KEY", "GCP_SECRET_NAME_OPENAI_ORGANIZATION_ID"} {
			require.NoError(t, os.Unsetenv(key))
		}

		cfg, err := New(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "42", cfg.Secrets.GCPProjectNumber)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		dir := isolate(t)
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.yaml"), []byte("ENV: [dev"), 0o600))

		_, err := New(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse")
	})

	t.Run("validation failure", func(t *testing.T) {
		isolate(t)

		_, err := New(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "config validation failed")
	})
}

func validConfig() *Config {
	return &Config{
		Environment: EnvDevelopment,
		APIPrefix:   "/api/v1",
		Secrets: SecretsConfig{
			GCPProjectNumber:         "123456",
			OpenAIKeyName:            "openai-key",
			OpenAIOrganizationIDName: "openai-org",
		},
		Models: ModelsConfig{
			GPTModel:        "gpt-3.5-turbo",
			SpeakingRateMin: 0.25,
			SpeakingRateMax: 4.0,
		},
		Observability: ObservabilityConfig{LogLevel: "info", LogFormat: "json"},
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid development", mutate: func(c *Config) {}},
		{
			name:   "valid production",
			mutate: func(c *Config) { c.Environment = EnvProduction; c.Secrets.Folder = "/secrets" },
		},
		{
			name:    "unknown environment",
			mutate:  func(c *Config) { c.Environment = "staging" },
			wantErr: "ENV must be",
		},
		{
			name:    "api prefix without slash",
			mutate:  func(c *Config) { c.APIPrefix = "api" },
			wantErr: "API_V1_STR",
		},
		{
			name:    "missing key secret name",
			mutate:  func(c *Config) { c.Secrets.OpenAIKeyName = "" },
			wantErr: "GCP_SECRET_NAME_OPENAI_KEY",
		},
		{
			name:    "missing organization secret name",
			mutate:  func(c *Config) { c.Secrets.OpenAIOrganizationIDName = "" },
			wantErr: "GCP_SECRET_NAME_OPENAI_ORGANIZATION_ID",
		},
		{
			name:    "production without secrets folder",
			mutate:  func(c *Config) { c.Environment = EnvProduction },
			wantErr: "SECRETS_FOLDER",
		},
		{
			name:    "development without project number",
			mutate:  func(c *Config) { c.Secrets.GCPProjectNumber = "" },
			wantErr: "GCP_PROJECT_NUMBER",
		},
		{
			name:    "unsupported model",
			mutate:  func(c *Config) { c.Models.GPTModel = "gpt-2" },
			wantErr: "not a supported chat model",
		},
		{
			name:    "inverted speaking rate interval",
			mutate:  func(c *Config) { c.Models.SpeakingRateMin = 5 },
			wantErr: "invalid speaking rate interval",
		},
		{
			name:   "upper case log level",
			mutate: func(c *Config) { c.Observability.LogLevel = "DEBUG"; c.Observability.LogFormat = "console" },
		},
		{
			name:    "unknown log level",
			mutate:  func(c *Config) { c.Observability.LogLevel = "verbose" },
			wantErr: "LOG_LEVEL",
		},
		{
			name:    "unknown log format",
			mutate:  func(c *Config) { c.Observability.LogFormat = "xml" },
			wantErr: "LOG_FORMAT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestServerConfig_Address(t *testing.T) {
	cfg := &ServerConfig{Host: "localhost", Port: 8080}
	assert.Equal(t, "localhost:8080", cfg.Address())
}

func TestSecretsConfig_ProjectIDFile(t *testing.T) {
	cfg := &SecretsConfig{Folder: "/mnt/secrets", OpenAIProjectIDName: "openai-proj"}
	assert.Equal(t, "/mnt/secrets/proj-id/openai-proj", cfg.OpenAIProjectIDFile())
}

func TestSource(t *testing.T) {
	t.Setenv("DRIVEL_TEST_INT", "12")
	t.Setenv("DRIVEL_TEST_BAD_INT", "twelve")
	t.Setenv("DRIVEL_TEST_BOOL", "false")
	t.Setenv("DRIVEL_TEST_FLOAT", "0.5")
	t.Setenv("DRIVEL_TEST_DURATION", "250ms")

	src := source{"DRIVEL_TEST_FROM_YAML": "yaml"}

	assert.Equal(t, 12, src.int("DRIVEL_TEST_INT", 1))
	assert.Equal(t, 1, src.int("DRIVEL_TEST_BAD_INT", 1))
	assert.False(t, src.bool("DRIVEL_TEST_BOOL", true))
	assert.Equal(t, 0.5, src.float("DRIVEL_TEST_FLOAT", 1))
	assert.Equal(t, 250*time.Millisecond, src.duration("DRIVEL_TEST_DURATION", time.Second))
	assert.Equal(t, "yaml", src.str("DRIVEL_TEST_FROM_YAML", "default"))
	assert.Equal(t, "default", src.str("DRIVEL_TEST_UNSET", "default"))
}
