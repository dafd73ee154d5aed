package usecase

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"cryptopulse/internal/domain"
	"cryptopulse/internal/infra/logger"
)

// FeedSession drives the incremental-loading window for one UI session. It
// holds the flat deduplicated record set loaded so far, the candidate date
// list (newest first), and the visible-count cursor. Dates whose records
// are already loaded are never fetched again within the session.
type FeedSession struct {
	id     string
	store  domain.SummaryStore
	roster domain.ChannelLister
	logger *slog.Logger

	mu         sync.Mutex
	candidates []string
	visible    int
	increment  int
	inFlight   bool
	records    []domain.VideoRecord
	seen       map[string]bool
	attempted  map[string]bool
}

func NewFeedSession(
	id string,
	candidates []string,
	initial, increment int,
	store domain.SummaryStore,
	roster domain.ChannelLister,
	logger *slog.Logger,
) *FeedSession {
	if initial > len(candidates) {
		initial = len(candidates)
	}
	return &FeedSession{
		id:         id,
		store:      store,
		roster:     roster,
		logger:     logger,
		candidates: candidates,
		visible:    initial,
		increment:  increment,
		seen:       make(map[string]bool),
		attempted:  make(map[string]bool),
	}
}

func (s *FeedSession) ID() string { return s.id }

// Advance widens the visible window by the configured increment, capped at
// the candidate list length, then reconciles the loaded set against it.
func (s *FeedSession) Advance(ctx context.Context) {
	s.mu.Lock()
	s.visible += s.increment
	if s.visible > len(s.candidates) {
		s.visible = len(s.candidates)
	}
	s.mu.Unlock()

	s.Reconcile(ctx)
}

// Reconcile fetches whichever visible dates are not yet represented in the
// loaded record set. While a batch is in flight the cursor may move, but no
// second batch starts; the running batch re-checks the cursor after its
// merge, so a widened window is picked up without overlap.
func (s *FeedSession) Reconcile(ctx context.Context) {
	for {
		s.mu.Lock()
		if s.inFlight {
			s.mu.Unlock()
			return
		}
		missing := s.missingDatesLocked()
		if len(missing) == 0 {
			s.mu.Unlock()
			return
		}
		s.inFlight = true
		for _, date := range missing {
			s.attempted[date] = true
		}
		s.mu.Unlock()

		batch := s.fetchDates(ctx, missing)

		s.mu.Lock()
		s.mergeLocked(batch)
		s.inFlight = false
		s.mu.Unlock()
	}
}

// Records returns a copy of the loaded set, newest first.
func (s *FeedSession) Records() []domain.VideoRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.VideoRecord, len(s.records))
	copy(out, s.records)
	return out
}

// HasMore reports whether the candidate list extends beyond the visible
// window, so the caller knows to keep listening for scroll triggers.
func (s *FeedSession) HasMore() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.visible < len(s.candidates)
}

// VisibleDays returns the current window size.
func (s *FeedSession) VisibleDays() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.visible
}

// missingDatesLocked returns the visible dates not yet represented among
// the loaded records' sort dates. Dates already fetched this session are
// skipped even when empty, so a day without data is queried at most once.
func (s *FeedSession) missingDatesLocked() []string {
	target := s.candidates
	if s.visible < len(target) {
		target = target[:s.visible]
	}

	loaded := make(map[string]bool, len(s.records))
	for _, rec := range s.records {
		loaded[rec.SortDate] = true
	}

	var missing []string
	for _, date := range target {
		if !loaded[date] && !s.attempted[date] {
			missing = append(missing, date)
		}
	}
	return missing
}

func (s *FeedSession) fetchDates(ctx context.Context, dates []string) []domain.VideoRecord {
	ctx = logger.WithPipeline(logger.WithSessionID(ctx, s.id), "session")

	results := make([][]domain.VideoRecord, len(dates))
	g, gctx := errgroup.WithContext(ctx)
	for i, date := range dates {
		g.Go(func() error {
			dctx := logger.WithFetchDate(gctx, date)
			channels := s.roster.Channels(dctx, date)
			perChannel := make([][]domain.VideoRecord, len(channels))
			cg, cctx := errgroup.WithContext(dctx)
			for j, channel := range channels {
				cg.Go(func() error {
					perChannel[j] = s.store.FetchDay(logger.WithChannel(cctx, channel), date, channel)
					return nil
				})
			}
			_ = cg.Wait()
			for _, recs := range perChannel {
				results[i] = append(results[i], recs...)
			}
			return nil
		})
	}
	_ = g.Wait()

	var flat []domain.VideoRecord
	for _, recs := range results {
		flat = append(flat, recs...)
	}

	s.logger.Debug("session batch fetched",
		slog.String("session_id", s.id),
		slog.Int("dates", len(dates)),
		slog.Int("records", len(flat)))
	return flat
}

func (s *FeedSession) mergeLocked(batch []domain.VideoRecord) {
	for _, rec := range batch {
		if s.seen[rec.Key()] {
			continue
		}
		s.seen[rec.Key()] = true
		s.records = append(s.records, rec)
	}
	domain.SortByPublishedDesc(s.records)
}
