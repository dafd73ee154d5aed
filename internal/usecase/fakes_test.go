package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"cryptopulse/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeStore serves canned records keyed by "date/channel" and counts every
// FetchDay call so tests can assert cache and dedupe behavior.
type fakeStore struct {
	mu       sync.Mutex
	data     map[string][]domain.VideoRecord
	listings map[string][]string
	calls    map[string]int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		data:     make(map[string][]domain.VideoRecord),
		listings: make(map[string][]string),
		calls:    make(map[string]int),
	}
}

func (s *fakeStore) add(date, channel string, records ...domain.VideoRecord) {
	key := date + "/" + channel
	s.data[key] = append(s.data[key], records...)
}

func (s *fakeStore) FetchDay(_ context.Context, date, channel string) []domain.VideoRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls[date+"/"+channel]++
	return s.data[date+"/"+channel]
}

func (s *fakeStore) ListDay(_ context.Context, date string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listings[date]
}

func (s *fakeStore) roster() domain.ChannelLister {
	return domain.ListedRoster{Store: s}
}

func (s *fakeStore) fetchCount(date, channel string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[date+"/"+channel]
}

func (s *fakeStore) totalFetches() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, n := range s.calls {
		total += n
	}
	return total
}

type fakeEnumerator struct {
	mu    sync.Mutex
	dates []string
	err   error
	calls int
}

func (e *fakeEnumerator) Dates(context.Context) ([]string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls++
	if e.err != nil {
		return nil, e.err
	}
	return e.dates, nil
}

var errListingDown = errors.New("listing unavailable")

// rec builds a minimal summarized record for the given coordinates.
func rec(date, channel, videoID string, score int) domain.VideoRecord {
	published, _ := time.Parse(domain.DayFormat, date)
	return domain.VideoRecord{
		ChannelHandle: channel,
		VideoID:       videoID,
		Title:         fmt.Sprintf("%s on %s", channel, date),
		PublishedAt:   published,
		SortDate:      date,
		SummaryEN:     "summary",
		Sentiment:     domain.SentimentNeutral,
		Score:         score,
	}
}
