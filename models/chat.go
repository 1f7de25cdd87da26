package models

import (
	"encoding/json"

	"github.com/upb/drivel-server/utils"
)

const (
	// DefaultMaxTokens bounds the completion length when the request omits max_tokens.
	DefaultMaxTokens = 150
	// DefaultChoices is the number of completions generated when n is omitted.
	DefaultChoices = 1
)

// ChatMessage is a single turn of a conversation
type ChatMessage struct {
	Role    string `json:"role" validate:"oneof=system user assistant"`
	Content string `json:"content"`
}

// ChatRequest represents the body of a chat-responses call.
// Optional sampling fields are forwarded only when set.
type ChatRequest struct {
	Messages    []ChatMessage `json:"messages" validate:"required,dive"`
	Model       string        `json:"model"`
	MaxTokens   int           `json:"max_tokens" validate:"gt=0"`
	N           int           `json:"n" validate:"gt=0"`
	Temperature *float64      `json:"temperature,omitempty" validate:"omitempty,gte=0,lte=2"`
	TopP        *float64      `json:"top_p,omitempty" validate:"omitempty,gte=0,lte=1"`
	Stop        []string      `json:"stop,omitempty" validate:"omitempty,max=4"`
	User        string        `json:"user,omitempty"`
}

// NewChatRequest returns a request pre-filled with defaults, ready to be
// decoded over.
func NewChatRequest(defaultModel string) *ChatRequest {
	if defaultModel == "" {
		defaultModel = DefaultChatModel
	}
	return &ChatRequest{
		Model:     defaultModel,
		MaxTokens: DefaultMaxTokens,
		N:         DefaultChoices,
	}
}

// Validate applies the request rules in order and returns the first failure.
func (r *ChatRequest) Validate() error {
	if err := utils.ValidateStruct(r); err != nil {
		return err
	}

	if err := utils.ValidateOneOf(r.Model, "model", ChatModels); err != nil {
		return err
	}

	if len(r.Messages) == 0 || r.Messages[0].Role != RoleSystem {
		return utils.NewFieldError("messages", "messages must start with a system message")
	}

	if !r.hasRole(RoleUser) {
		return utils.NewFieldError("messages", "messages must contain at least one user message")
	}

	return nil
}

func (r *ChatRequest) hasRole(role string) bool {
	for _, m := range r.Messages {
		if m.Role == role {
			return true
		}
	}
	return false
}

// ChatChoice is a provider completion choice forwarded byte for byte.
type ChatChoice = json.RawMessage
