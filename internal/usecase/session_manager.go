package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"cryptopulse/internal/domain"
)

// SessionManager owns the live feed sessions. Sessions are evicted after
// their TTL or when capacity is exceeded; an evicted session simply means
// the next UI request starts a fresh one.
type SessionManager struct {
	sessions   *expirable.LRU[string, *FeedSession]
	store      domain.SummaryStore
	roster     domain.ChannelLister
	enumerator domain.DateEnumerator
	maxDays    int
	initial    int
	increment  int
	logger     *slog.Logger
}

func NewSessionManager(
	store domain.SummaryStore,
	roster domain.ChannelLister,
	enumerator domain.DateEnumerator,
	maxDays, initial, increment int,
	capacity int,
	ttl time.Duration,
	logger *slog.Logger,
) *SessionManager {
	return &SessionManager{
		sessions:   expirable.NewLRU[string, *FeedSession](capacity, nil, ttl),
		store:      store,
		roster:     roster,
		enumerator: enumerator,
		maxDays:    maxDays,
		initial:    initial,
		increment:  increment,
		logger:     logger,
	}
}

// Create enumerates the candidate dates, builds a session with the initial
// window, and loads it. Enumeration failure degrades to an empty session.
func (m *SessionManager) Create(ctx context.Context) *FeedSession {
	dates, err := m.enumerator.Dates(ctx)
	if err != nil {
		m.logger.Error("date enumeration failed for new session",
			slog.String("error", err.Error()))
		dates = nil
	}
	if m.maxDays > 0 && len(dates) > m.maxDays {
		dates = dates[:m.maxDays]
	}

	session := NewFeedSession(uuid.NewString(), dates, m.initial, m.increment, m.store, m.roster, m.logger)
	session.Reconcile(ctx)
	m.sessions.Add(session.ID(), session)

	m.logger.Info("feed session created",
		slog.String("session_id", session.ID()),
		slog.Int("candidate_dates", len(dates)))
	return session
}

// Get looks up a live session by id.
func (m *SessionManager) Get(id string) (*FeedSession, bool) {
	return m.sessions.Get(id)
}
