package domain

import "time"

// Role of a transcript entry
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleError     Role = "error"
	RoleLoading   Role = "loading"
)

// ChatMessage is a single rendered transcript turn. It is never persisted.
type ChatMessage struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Title     string    `json:"title,omitempty"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

// CompletionMessage is one entry of the chat-completion request message list
type CompletionMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompletionRequest is the body POSTed to the chat-completion endpoint
type CompletionRequest struct {
	Model     string              `json:"model"`
	Messages  []CompletionMessage `json:"messages"`
	MaxTokens int                 `json:"max_tokens"`
}

// CompletionChoice is one generated alternative
type CompletionChoice struct {
	Index        int               `json:"index"`
	Message      CompletionMessage `json:"message"`
	FinishReason string            `json:"finish_reason,omitempty"`
}

// CompletionErrorBody is the application-level error payload
type CompletionErrorBody struct {
	Message string `json:"message"`
	Type    string `json:"type,omitempty"`
	Code    any    `json:"code,omitempty"`
}

// CompletionResponse is either {choices: [...]} or {error: {...}}
type CompletionResponse struct {
	ID      string               `json:"id,omitempty"`
	Model   string               `json:"model,omitempty"`
	Choices []CompletionChoice   `json:"choices"`
	Error   *CompletionErrorBody `json:"error,omitempty"`
}
