package models

// Message roles accepted in a chat conversation.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// DefaultChatModel is used when neither the request nor GPT_MODEL names one.
const DefaultChatModel = "gpt-3.5-turbo"

// ChatModels is the fixed set of chat models a request may name.
var ChatModels = []string{
	"gpt-4o",
	"gpt-4o-mini",
	"gpt-4-turbo",
	"gpt-4",
	"gpt-3.5-turbo",
	"gpt-3.5-turbo-16k",
}

// IsChatModel reports whether model belongs to ChatModels.
func IsChatModel(model string) bool {
	for _, m := range ChatModels {
		if m == model {
			return true
		}
	}
	return false
}
