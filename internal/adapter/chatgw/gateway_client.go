// Package chatgw talks to the OpenAI-compatible completion gateway that
// answers questions about a single video.
package chatgw

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"

	"cryptopulse/internal/domain"
)

// GatewayClient implements domain.ChatClient against the configured
// completion endpoint.
type GatewayClient struct {
	client openai.Client
	model  string
	logger *slog.Logger
}

func NewGatewayClient(baseURL, apiKey, model string, httpClient *http.Client, logger *slog.Logger) *GatewayClient {
	client := openai.NewClient(
		option.WithBaseURL(baseURL),
		option.WithAPIKey(apiKey),
		option.WithHTTPClient(httpClient),
		// The gateway enforces its own quota; retrying into a 429 only
		// delays the user-facing rate-limit message.
		option.WithMaxRetries(0),
	)
	return &GatewayClient{
		client: client,
		model:  model,
		logger: logger,
	}
}

// Complete sends the grounded conversation and returns the assistant reply.
// Rate-limit and payment conditions map to their domain sentinels so the
// HTTP layer can surface them distinctly.
func (g *GatewayClient) Complete(ctx context.Context, systemPrompt string, history []domain.ChatMessage) (string, error) {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(history)+1)
	messages = append(messages, openai.SystemMessage(systemPrompt))
	for _, m := range history {
		switch m.Role {
		case domain.RoleAssistant:
			messages = append(messages, openai.AssistantMessage(m.Content))
		default:
			messages = append(messages, openai.UserMessage(m.Content))
		}
	}

	resp, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(g.model),
		Messages: messages,
	})
	if err != nil {
		return "", g.mapError(err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("gateway returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// Model returns the configured model identifier.
func (g *GatewayClient) Model() string {
	return g.model
}

func (g *GatewayClient) mapError(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusTooManyRequests:
			return domain.ErrRateLimited
		case http.StatusPaymentRequired:
			return domain.ErrPaymentRequired
		}
		g.logger.Error("chat gateway error",
			slog.Int("status", apiErr.StatusCode),
			slog.String("error", apiErr.Error()))
		return fmt.Errorf("chat gateway returned %d", apiErr.StatusCode)
	}
	return fmt.Errorf("call chat gateway: %w", err)
}

var _ domain.ChatClient = (*GatewayClient)(nil)
