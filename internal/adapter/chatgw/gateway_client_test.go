package chatgw_test

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cryptopulse/internal/adapter/chatgw"
	"cryptopulse/internal/domain"
)

func newGateway(t *testing.T, handler http.Handler) *chatgw.GatewayClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return chatgw.NewGatewayClient(
		server.URL, "test-key", "google/gemini-3-flash-preview",
		&http.Client{Timeout: 5 * time.Second}, slog.Default())
}

func TestComplete_ReturnsAssistantReply(t *testing.T) {
	gw := newGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var payload struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "google/gemini-3-flash-preview", payload.Model)
		require.Len(t, payload.Messages, 3)
		assert.Equal(t, "system", payload.Messages[0].Role)
		assert.Equal(t, "user", payload.Messages[1].Role)
		assert.Equal(t, "assistant", payload.Messages[2].Role)

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"choices":[{"message":{"role":"assistant","content":"The video is bullish on ETH."}}]}`)
	}))

	reply, err := gw.Complete(context.Background(), "you are a helpful analyst", []domain.ChatMessage{
		{Role: domain.RoleUser, Content: "what does the video say about ETH?"},
		{Role: domain.RoleAssistant, Content: "let me check"},
	})
	require.NoError(t, err)
	assert.Equal(t, "The video is bullish on ETH.", reply)
}

func TestComplete_MapsRateLimit(t *testing.T) {
	gw := newGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"error":{"message":"rate limit exceeded"}}`)
	}))

	_, err := gw.Complete(context.Background(), "sys", []domain.ChatMessage{{Role: domain.RoleUser, Content: "hi"}})
	assert.ErrorIs(t, err, domain.ErrRateLimited)
}

func TestComplete_MapsPaymentRequired(t *testing.T) {
	gw := newGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusPaymentRequired)
		fmt.Fprint(w, `{"error":{"message":"insufficient credits"}}`)
	}))

	_, err := gw.Complete(context.Background(), "sys", []domain.ChatMessage{{Role: domain.RoleUser, Content: "hi"}})
	assert.ErrorIs(t, err, domain.ErrPaymentRequired)
}

func TestComplete_WrapsOtherGatewayErrors(t *testing.T) {
	gw := newGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"error":{"message":"upstream exploded"}}`)
	}))

	_, err := gw.Complete(context.Background(), "sys", []domain.ChatMessage{{Role: domain.RoleUser, Content: "hi"}})
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrRateLimited)
	assert.NotErrorIs(t, err, domain.ErrPaymentRequired)
}

func TestComplete_NoChoices(t *testing.T) {
	gw := newGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"choices":[]}`)
	}))

	_, err := gw.Complete(context.Background(), "sys", []domain.ChatMessage{{Role: domain.RoleUser, Content: "hi"}})
	assert.Error(t, err)
}
