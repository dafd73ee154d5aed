package ghstore

import (
	"context"

	"cryptopulse/internal/domain"
)

// ListingEnumerator derives the candidate dates from the store's directory
// listing, keeping only day-named directories at or after the floor date.
type ListingEnumerator struct {
	client *Client
	floor  string
}

func NewListingEnumerator(client *Client, floor string) *ListingEnumerator {
	return &ListingEnumerator{client: client, floor: floor}
}

func (e *ListingEnumerator) Dates(ctx context.Context) ([]string, error) {
	all, err := e.client.listDates(ctx)
	if err != nil {
		return nil, err
	}
	if e.floor == "" {
		return all, nil
	}

	// ISO day strings compare lexicographically.
	dates := all[:0]
	for _, d := range all {
		if d >= e.floor {
			dates = append(dates, d)
		}
	}
	return dates, nil
}

var _ domain.DateEnumerator = (*ListingEnumerator)(nil)
