package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"cryptopulse/internal/domain"
	"cryptopulse/internal/infra/metrics"
)

// ChatInput carries one question turn: the full conversation history (the
// caller resubmits it every time, so a failed send loses nothing), the
// video context, and the answer language.
type ChatInput struct {
	Messages []domain.ChatMessage
	Context  domain.VideoContext
	Language string
}

type ChatOutput struct {
	Reply string
	Model string
}

var errEmptyConversation = errors.New("conversation history is empty")

// ChatUsecase grounds the gateway call in the video context and classifies
// failures so each reaches the user as a distinct message.
type ChatUsecase struct {
	client  domain.ChatClient
	prompts *ChatPromptBuilder
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func NewChatUsecase(client domain.ChatClient, logger *slog.Logger, m *metrics.Metrics) *ChatUsecase {
	return &ChatUsecase{
		client:  client,
		prompts: NewChatPromptBuilder(),
		logger:  logger,
		metrics: m,
	}
}

func (uc *ChatUsecase) Execute(ctx context.Context, input ChatInput) (*ChatOutput, error) {
	if len(input.Messages) == 0 {
		return nil, errEmptyConversation
	}
	last := input.Messages[len(input.Messages)-1]
	if strings.TrimSpace(last.Content) == "" {
		return nil, errEmptyConversation
	}

	systemPrompt := uc.prompts.Build(input.Context, input.Language)

	reply, err := uc.client.Complete(ctx, systemPrompt, input.Messages)
	if err != nil {
		uc.metrics.ChatRequests.WithLabelValues(chatOutcome(err)).Inc()
		uc.logger.Warn("chat completion failed",
			slog.String("video_title", input.Context.Title),
			slog.String("error", err.Error()))
		// Sentinels pass through untouched so the transport layer can
		// tell rate-limit and payment conditions apart.
		if errors.Is(err, domain.ErrRateLimited) || errors.Is(err, domain.ErrPaymentRequired) {
			return nil, err
		}
		return nil, fmt.Errorf("generate chat reply: %w", err)
	}

	uc.metrics.ChatRequests.WithLabelValues(metrics.ChatOutcomeOK).Inc()
	return &ChatOutput{
		Reply: reply,
		Model: uc.client.Model(),
	}, nil
}

func chatOutcome(err error) string {
	switch {
	case errors.Is(err, domain.ErrRateLimited):
		return metrics.ChatOutcomeRateLimited
	case errors.Is(err, domain.ErrPaymentRequired):
		return metrics.ChatOutcomePayment
	default:
		return metrics.ChatOutcomeError
	}
}
