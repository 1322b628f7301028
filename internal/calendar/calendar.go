// Package calendar answers "is this a trading day" over a static holiday set.
// All comparisons are date-only in a single fixed location so the same
// instant never flips between trading and non-trading across callers.
package calendar

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// Calendar is a weekend/holiday predicate. It is an injected value, not
// package state, so tests can pin any holiday set.
type Calendar struct {
	loc      *time.Location
	holidays map[string]struct{}
}

// New creates a calendar for the given location and holiday dates.
// Holiday times are reduced to their date in loc; an empty list is valid
// (no entry means not a holiday).
func New(loc *time.Location, holidays []time.Time) *Calendar {
	c := &Calendar{
		loc:      loc,
		holidays: make(map[string]struct{}, len(holidays)),
	}
	for _, h := range holidays {
		c.holidays[h.In(loc).Format(dateLayout)] = struct{}{}
	}
	return c
}

// NewFromStrings creates a calendar from "2006-01-02" holiday strings, the
// form they take in the strategy config file.
func NewFromStrings(loc *time.Location, dates []string) (*Calendar, error) {
	holidays := make([]time.Time, 0, len(dates))
	for _, d := range dates {
		t, err := time.ParseInLocation(dateLayout, d, loc)
		if err != nil {
			return nil, fmt.Errorf("invalid holiday date %q: %w", d, err)
		}
		holidays = append(holidays, t)
	}
	return New(loc, holidays), nil
}

// Location returns the calendar's fixed location.
func (c *Calendar) Location() *time.Location {
	return c.loc
}

// IsNonTradingDay reports whether t falls on a weekend or a configured
// holiday. Total for any date: dates outside the holiday set are trading
// days unless they are weekends.
func (c *Calendar) IsNonTradingDay(t time.Time) bool {
	local := t.In(c.loc)
	switch local.Weekday() {
	case time.Saturday, time.Sunday:
		return true
	}
	_, holiday := c.holidays[local.Format(dateLayout)]
	return holiday
}
