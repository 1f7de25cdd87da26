// Package secrets resolves the OpenAI credentials used to build provider
// clients. Production reads mounted secret files; development asks Google
// Secret Manager. Nothing is cached.
package secrets

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"strings"

	"google.golang.org/api/option"
	"google.golang.org/api/secretmanager/v1"

	"github.com/upb/drivel-server/config"
)

// Names of the secrets a Resolver understands.
const (
	APIKey         = "api_key"
	OrganizationID = "org_id"
	ProjectID      = "proj_id"
)

// ErrSecretUnavailable is matched by every resolution failure.
var ErrSecretUnavailable = errors.New("secret unavailable")

// Resolver returns the value of a named secret
type Resolver interface {
	Resolve(ctx context.Context, name string) (string, error)
}

// New selects the resolver for the configured environment.
func New(cfg *config.Config, opts ...option.ClientOption) Resolver {
	if cfg.IsProduction() {
		return NewFileResolver(cfg.Secrets)
	}
	return NewSecretManagerResolver(cfg.Secrets, opts...)
}

func unavailable(name string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrSecretUnavailable, name, err)
}

// FileResolver reads secrets from files mounted under the secrets folder.
type FileResolver struct {
	paths map[string]string
}

// NewFileResolver creates a FileResolver for the configured file layout
func NewFileResolver(cfg config.SecretsConfig) *FileResolver {
	paths := map[string]string{
		APIKey:         cfg.OpenAIAPIKeyFile(),
		OrganizationID: cfg.OpenAIOrganizationIDFile(),
	}
	if cfg.OpenAIProjectIDName != "" {
		paths[ProjectID] = cfg.OpenAIProjectIDFile()
	}
	return &FileResolver{paths: paths}
}

// Resolve reads the secret file and trims surrounding whitespace
func (r *FileResolver) Resolve(ctx context.Context, name string) (string, error) {
	path, ok := r.paths[name]
	if !ok {
		return "", unavailable(name, errors.New("secret is not configured"))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", unavailable(name, err)
	}

	return strings.TrimSpace(string(data)), nil
}

// SecretManagerResolver reads the latest version of each secret from
// Google Secret Manager.
type SecretManagerResolver struct {
	projectNumber string
	secretIDs     map[string]string
	opts          []option.ClientOption
}

// NewSecretManagerResolver creates a resolver for the configured project.
// opts are passed to the Secret Manager client on every call.
func NewSecretManagerResolver(cfg config.SecretsConfig, opts ...option.ClientOption) *SecretManagerResolver {
	ids := map[string]string{
		APIKey:         cfg.OpenAIKeyName,
		OrganizationID: cfg.OpenAIOrganizationIDName,
	}
	if cfg.OpenAIProjectIDName != "" {
		ids[ProjectID] = cfg.OpenAIProjectIDName
	}
	return &SecretManagerResolver{
		projectNumber: cfg.GCPProjectNumber,
		secretIDs:     ids,
		opts:          opts,
	}
}

// VersionName is the resource name of the latest version of secretID
func (r *SecretManagerResolver) VersionName(secretID string) string {
	return fmt.Sprintf("projects/%s/secrets/%s/versions/latest", r.projectNumber, secretID)
}

// Resolve fetches the secret payload over the network
func (r *SecretManagerResolver) Resolve(ctx context.Context, name string) (string, error) {
	secretID, ok := r.secretIDs[name]
	if !ok || secretID == "" {
		return "", unavailable(name, errors.New("secret is not configured"))
	}

	svc, err := secretmanager.NewService(ctx, r.opts...)
	if err != nil {
		return "", unavailable(name, fmt.Errorf("create secret manager client: %w", err))
	}

	resp, err := svc.Projects.Secrets.Versions.Access(r.VersionName(secretID)).Context(ctx).Do()
	if err != nil {
		return "", unavailable(name, err)
	}
	if resp.Payload == nil {
		return "", unavailable(name, errors.New("empty payload"))
	}

	data, err := base64.StdEncoding.DecodeString(resp.Payload.Data)
	if err != nil {
		return "", unavailable(name, fmt.Errorf("decode payload: %w", err))
	}

	return string(data), nil
}
