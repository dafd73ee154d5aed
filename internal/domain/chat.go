package domain

import (
	"context"
	"errors"
)

// Chat failure taxonomy. The gateway's rate-limit and payment conditions
// must reach the user as distinct messages; everything else is generic.
var (
	ErrRateLimited     = errors.New("chat gateway rate limit exceeded")
	ErrPaymentRequired = errors.New("chat gateway requires payment")
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is one turn of the conversation history.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// VideoContext grounds the conversation in a single video's content.
type VideoContext struct {
	Title      string   `json:"title"`
	Transcript string   `json:"transcript"`
	Summary    string   `json:"summary"`
	KeyPoints  []string `json:"keyPoints"`
}

// ChatClient sends a grounded conversation to the LLM gateway and returns
// the assistant's reply.
type ChatClient interface {
	Complete(ctx context.Context, systemPrompt string, history []ChatMessage) (string, error)
	Model() string
}
