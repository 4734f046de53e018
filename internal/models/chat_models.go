package models

const (
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
)

type ChatTurn struct {
	Role    string `json:"role" jsonschema:"enum=user,enum=assistant,enum=model"`
	Content string `json:"content"`
}

type ChatRequest struct {
	Message string     `json:"message" jsonschema:"minLength=1"`
	History []ChatTurn `json:"history,omitempty"`
}

type ChatResponse struct {
	Reply string `json:"reply"`
	Error string `json:"error,omitempty"`
}
