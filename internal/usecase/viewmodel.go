package usecase

import (
	"math"
	"sort"

	"cryptopulse/internal/domain"
)

// Pure derivations over the loaded record set. These are recomputed after
// each state change instead of tracked reactively; the state transitions
// are few and explicit (batch merge, cursor advance, cache clear).

// TrendPoint is one day of the sentiment chart, ordered ascending for
// consumption by the chart.
type TrendPoint struct {
	Date     string         `json:"date"`
	Average  int            `json:"average"`
	Channels map[string]int `json:"channels"`
}

// DailyChannelAverages groups records by (sort date, channel) and averages
// the sentiment score per group, rounded to the nearest integer.
func DailyChannelAverages(records []domain.VideoRecord) map[string]map[string]int {
	type acc struct {
		sum   int
		count int
	}
	buckets := make(map[string]map[string]*acc)
	for _, rec := range records {
		if buckets[rec.SortDate] == nil {
			buckets[rec.SortDate] = make(map[string]*acc)
		}
		if buckets[rec.SortDate][rec.ChannelHandle] == nil {
			buckets[rec.SortDate][rec.ChannelHandle] = &acc{}
		}
		a := buckets[rec.SortDate][rec.ChannelHandle]
		a.sum += rec.Score
		a.count++
	}

	out := make(map[string]map[string]int, len(buckets))
	for date, channels := range buckets {
		out[date] = make(map[string]int, len(channels))
		for handle, a := range channels {
			out[date][handle] = int(math.Round(float64(a.sum) / float64(a.count)))
		}
	}
	return out
}

// TrendSeries computes the rolling average series for the chart. For each
// date, ascending, the average is taken over the per-channel averages of
// the selected channels that posted that day; a day where none of the
// selected channels posted yields 0. A nil or empty selection means every
// observed channel. Per-channel averages for all channels are reported on
// each point regardless of selection, matching the chart's per-line data.
func TrendSeries(records []domain.VideoRecord, selected []string) []TrendPoint {
	type acc struct {
		sum   int
		count int
	}
	buckets := make(map[string]map[string]*acc)
	for _, rec := range records {
		if buckets[rec.SortDate] == nil {
			buckets[rec.SortDate] = make(map[string]*acc)
		}
		if buckets[rec.SortDate][rec.ChannelHandle] == nil {
			buckets[rec.SortDate][rec.ChannelHandle] = &acc{}
		}
		a := buckets[rec.SortDate][rec.ChannelHandle]
		a.sum += rec.Score
		a.count++
	}

	selectedSet := make(map[string]bool, len(selected))
	for _, handle := range selected {
		selectedSet[handle] = true
	}
	allSelected := len(selectedSet) == 0

	dates := make([]string, 0, len(buckets))
	for date := range buckets {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	points := make([]TrendPoint, 0, len(dates))
	for _, date := range dates {
		point := TrendPoint{
			Date:     date,
			Channels: make(map[string]int),
		}
		var total float64
		var qualifying int
		for handle, a := range buckets[date] {
			avg := float64(a.sum) / float64(a.count)
			point.Channels[handle] = int(math.Round(avg))
			if allSelected || selectedSet[handle] {
				total += avg
				qualifying++
			}
		}
		if qualifying > 0 {
			point.Average = int(math.Round(total / float64(qualifying)))
		}
		points = append(points, point)
	}
	return points
}
