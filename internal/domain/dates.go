package domain

import (
	"context"
	"fmt"
	"regexp"
	"time"
)

// DayPattern matches the store's date directory names.
var DayPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// RangeEnumerator generates dates without any network call: today stepping
// backward one day at a time down to the floor date. Used when the store
// does not expose a reliable directory listing.
type RangeEnumerator struct {
	Floor string
	Now   func() time.Time
}

func NewRangeEnumerator(floor string) (*RangeEnumerator, error) {
	if !DayPattern.MatchString(floor) {
		return nil, fmt.Errorf("invalid floor date %q", floor)
	}
	return &RangeEnumerator{Floor: floor, Now: time.Now}, nil
}

func (e *RangeEnumerator) Dates(context.Context) ([]string, error) {
	floor, err := time.Parse(DayFormat, e.Floor)
	if err != nil {
		return nil, fmt.Errorf("parse floor date: %w", err)
	}

	day := e.Now().UTC().Truncate(24 * time.Hour)
	var dates []string
	for !day.Before(floor) {
		dates = append(dates, day.Format(DayFormat))
		day = day.AddDate(0, 0, -1)
	}
	return dates, nil
}
