// Package dash_http exposes the dashboard's REST API.
package dash_http

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"cryptopulse/internal/domain"
	"cryptopulse/internal/usecase"
)

type Handler struct {
	aggregator *usecase.Aggregator
	sessions   *usecase.SessionManager
	chat       *usecase.ChatUsecase
	enumerator domain.DateEnumerator
	maxDays    int
	logger     *slog.Logger
}

func NewHandler(
	aggregator *usecase.Aggregator,
	sessions *usecase.SessionManager,
	chat *usecase.ChatUsecase,
	enumerator domain.DateEnumerator,
	maxDays int,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		aggregator: aggregator,
		sessions:   sessions,
		chat:       chat,
		enumerator: enumerator,
		maxDays:    maxDays,
		logger:     logger,
	}
}

// GET /v1/dates
func (h *Handler) ListDates(c echo.Context) error {
	dates, err := h.enumerator.Dates(c.Request().Context())
	if err != nil {
		// Degrade to an empty list; the dashboard shows "no data".
		h.logger.Error("date enumeration failed", slog.String("error", err.Error()))
		dates = []string{}
	}
	return c.JSON(http.StatusOK, map[string]any{"dates": dates})
}

// GET /v1/videos?days=N
func (h *Handler) ListVideos(c echo.Context) error {
	days := h.daysParam(c)
	set := h.aggregator.GetAll(c.Request().Context(), days)
	return c.JSON(http.StatusOK, map[string]any{"videos": set})
}

// GET /v1/channels?days=N
func (h *Handler) ListChannels(c echo.Context) error {
	days := h.daysParam(c)
	set := h.aggregator.GetAll(c.Request().Context(), days)
	return c.JSON(http.StatusOK, map[string]any{
		"channels": domain.DeriveChannels(set.Flatten()),
	})
}

// GET /v1/sentiment/trend?days=N&channels=a,b
func (h *Handler) SentimentTrend(c echo.Context) error {
	days := h.daysParam(c)
	var selected []string
	if raw := c.QueryParam("channels"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				selected = append(selected, trimmed)
			}
		}
	}

	set := h.aggregator.GetAll(c.Request().Context(), days)
	return c.JSON(http.StatusOK, map[string]any{
		"trend": usecase.TrendSeries(set.Flatten(), selected),
	})
}

type sessionResponse struct {
	ID          string               `json:"id"`
	Videos      []domain.VideoRecord `json:"videos"`
	Channels    []domain.ChannelInfo `json:"channels"`
	HasMore     bool                 `json:"has_more"`
	VisibleDays int                  `json:"visible_days"`
}

// POST /v1/sessions
func (h *Handler) CreateSession(c echo.Context) error {
	session := h.sessions.Create(c.Request().Context())
	return c.JSON(http.StatusCreated, sessionView(session))
}

// POST /v1/sessions/:id/advance
func (h *Handler) AdvanceSession(c echo.Context) error {
	session, ok := h.sessions.Get(c.Param("id"))
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "session not found"})
	}
	session.Advance(c.Request().Context())
	return c.JSON(http.StatusOK, sessionView(session))
}

// GET /v1/sessions/:id
func (h *Handler) GetSession(c echo.Context) error {
	session, ok := h.sessions.Get(c.Param("id"))
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "session not found"})
	}
	return c.JSON(http.StatusOK, sessionView(session))
}

func sessionView(session *usecase.FeedSession) sessionResponse {
	records := session.Records()
	return sessionResponse{
		ID:          session.ID(),
		Videos:      records,
		Channels:    domain.DeriveChannels(records),
		HasMore:     session.HasMore(),
		VisibleDays: session.VisibleDays(),
	}
}

type chatRequest struct {
	Messages []domain.ChatMessage `json:"messages"`
	Context  domain.VideoContext  `json:"context"`
	Language string               `json:"language"`
}

// POST /v1/chat
//
// The three gateway failure modes map to distinct statuses and messages;
// the conversation history lives with the caller, so nothing is lost on a
// failed send.
func (h *Handler) Chat(c echo.Context) error {
	var req chatRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	output, err := h.chat.Execute(c.Request().Context(), usecase.ChatInput{
		Messages: req.Messages,
		Context:  req.Context,
		Language: req.Language,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRateLimited):
			return c.JSON(http.StatusTooManyRequests, map[string]string{
				"error": "Rate limits exceeded, please try again later.",
			})
		case errors.Is(err, domain.ErrPaymentRequired):
			return c.JSON(http.StatusPaymentRequired, map[string]string{
				"error": "Payment required, please add funds.",
			})
		default:
			h.logger.Error("chat request failed", slog.String("error", err.Error()))
			return c.JSON(http.StatusBadGateway, map[string]string{
				"error": "AI gateway error",
			})
		}
	}

	return c.JSON(http.StatusOK, map[string]string{
		"response": output.Reply,
		"model":    output.Model,
	})
}

// POST /internal/cache/clear
func (h *Handler) ClearCache(c echo.Context) error {
	h.aggregator.Clear()
	return c.JSON(http.StatusOK, map[string]string{"status": "cleared"})
}

func (h *Handler) daysParam(c echo.Context) int {
	if raw := c.QueryParam("days"); raw != "" {
		if days, err := strconv.Atoi(raw); err == nil && days > 0 && days <= h.maxDays {
			return days
		}
	}
	return h.maxDays
}
