package usecase

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"cryptopulse/internal/domain"
	"cryptopulse/internal/infra/logger"
	"cryptopulse/internal/infra/metrics"
)

// DaySet is the aggregated view of the store: date -> channel -> records.
type DaySet map[string]map[string][]domain.VideoRecord

// Flatten collapses the nested mapping into a single record slice.
func (s DaySet) Flatten() []domain.VideoRecord {
	var out []domain.VideoRecord
	for _, channels := range s {
		for _, records := range channels {
			out = append(out, records...)
		}
	}
	return out
}

// Aggregator fans out per-date-per-channel fetches and memoizes the
// assembled result with a time-based expiry. There is no invalidation
// signal from the data producer; the TTL is the sole consistency mechanism.
type Aggregator struct {
	store      domain.SummaryStore
	roster     domain.ChannelLister
	enumerator domain.DateEnumerator
	ttl        time.Duration
	now        func() time.Time
	logger     *slog.Logger
	metrics    *metrics.Metrics

	mu          sync.Mutex
	cached      DaySet
	lastRefresh time.Time
}

// AggregatorOption tweaks construction; used by tests to inject a clock.
type AggregatorOption func(*Aggregator)

// WithClock replaces the wall clock used for TTL decisions.
func WithClock(now func() time.Time) AggregatorOption {
	return func(a *Aggregator) {
		a.now = now
	}
}

func NewAggregator(
	store domain.SummaryStore,
	roster domain.ChannelLister,
	enumerator domain.DateEnumerator,
	ttl time.Duration,
	logger *slog.Logger,
	m *metrics.Metrics,
	opts ...AggregatorOption,
) *Aggregator {
	a := &Aggregator{
		store:      store,
		roster:     roster,
		enumerator: enumerator,
		ttl:        ttl,
		now:        time.Now,
		logger:     logger,
		metrics:    m,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// GetAll returns the aggregated set for the most recent maxDays dates. A
// fresh cached value is returned unchanged with no network activity. A
// directory-listing failure degrades to an empty set rather than an error;
// individual fetch failures are already absorbed by the store.
//
// The mutex is held across a rebuild so concurrent callers share one
// refresh instead of racing the store.
func (a *Aggregator) GetAll(ctx context.Context, maxDays int) DaySet {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.cached != nil && a.now().Sub(a.lastRefresh) < a.ttl {
		a.metrics.AggregateCacheHit.Inc()
		return a.cached
	}

	a.metrics.AggregateRefresh.Inc()
	set := a.rebuild(ctx, maxDays)
	a.cached = set
	a.lastRefresh = a.now()
	return set
}

// Clear drops the cached value unconditionally, forcing the next GetAll to
// refetch.
func (a *Aggregator) Clear() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.cached = nil
	a.lastRefresh = time.Time{}
}

func (a *Aggregator) rebuild(ctx context.Context, maxDays int) DaySet {
	ctx = logger.WithPipeline(ctx, "aggregate")

	dates, err := a.enumerator.Dates(ctx)
	if err != nil {
		a.logger.Error("date enumeration failed", slog.String("error", err.Error()))
		return DaySet{}
	}
	if maxDays > 0 && len(dates) > maxDays {
		dates = dates[:maxDays]
	}

	// One goroutine per date, each fanning out to its channels. Every unit
	// converts failure to an empty result before joining, so the group
	// itself never fails.
	perDate := make([]map[string][]domain.VideoRecord, len(dates))
	g, gctx := errgroup.WithContext(ctx)
	for i, date := range dates {
		g.Go(func() error {
			perDate[i] = a.fetchDate(gctx, date)
			return nil
		})
	}
	_ = g.Wait()

	set := DaySet{}
	for i, date := range dates {
		if len(perDate[i]) > 0 {
			set[date] = perDate[i]
		}
	}

	a.logger.Info("aggregated summary data",
		slog.Int("dates_queried", len(dates)),
		slog.Int("dates_with_data", len(set)))
	return set
}

func (a *Aggregator) fetchDate(ctx context.Context, date string) map[string][]domain.VideoRecord {
	ctx = logger.WithFetchDate(ctx, date)
	channels := a.roster.Channels(ctx, date)
	if len(channels) == 0 {
		return nil
	}

	results := make([][]domain.VideoRecord, len(channels))
	g, gctx := errgroup.WithContext(ctx)
	for i, channel := range channels {
		g.Go(func() error {
			results[i] = dedupeRecords(a.store.FetchDay(logger.WithChannel(gctx, channel), date, channel))
			return nil
		})
	}
	_ = g.Wait()

	data := make(map[string][]domain.VideoRecord)
	for i, channel := range channels {
		if len(results[i]) > 0 {
			data[channel] = results[i]
		}
	}
	return data
}

// dedupeRecords keeps the first occurrence of each record identity.
func dedupeRecords(records []domain.VideoRecord) []domain.VideoRecord {
	if len(records) < 2 {
		return records
	}
	seen := make(map[string]bool, len(records))
	out := records[:0]
	for _, rec := range records {
		if seen[rec.Key()] {
			continue
		}
		seen[rec.Key()] = true
		out = append(out, rec)
	}
	return out
}
