package domain

import "context"

// SummaryStore reads per-channel-per-day summary documents from the remote
// content store.
//
// FetchDay never fails: a missing file means the channel did not publish
// that day, and any other transport or parse problem is logged by the
// implementation and reported as an empty slice. One broken file must not
// block the rest of a day's data.
type SummaryStore interface {
	// FetchDay returns the normalized records for one channel on one date.
	FetchDay(ctx context.Context, date, channel string) []VideoRecord
	// ListDay returns the channel handles that have a file under the date's
	// directory. A listing failure yields an empty slice.
	ListDay(ctx context.Context, date string) []string
}

// ChannelLister resolves the set of channels to query for a given date.
type ChannelLister interface {
	Channels(ctx context.Context, date string) []string
}

// DateEnumerator produces the candidate calendar dates, deduplicated and
// strictly descending (most recent first), as YYYY-MM-DD strings.
type DateEnumerator interface {
	Dates(ctx context.Context) ([]string, error)
}

// StaticRoster queries a fixed, configured set of channels for every date.
type StaticRoster []string

func (r StaticRoster) Channels(context.Context, string) []string {
	out := make([]string, len(r))
	copy(out, r)
	return out
}

// ListedRoster discovers channels per date from the store's directory
// listing.
type ListedRoster struct {
	Store SummaryStore
}

func (r ListedRoster) Channels(ctx context.Context, date string) []string {
	return r.Store.ListDay(ctx, date)
}
