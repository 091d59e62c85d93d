package domain

import (
	"strings"
	"time"

	apperrors "github.com/shelterops/adoption-forecast/internal/core/errors"
)

// Filter narrows a record set before aggregation. Nil fields match every
// record; set fields compose with logical AND.
type Filter struct {
	Weekday *time.Weekday
	Species *string
	Month   *time.Month
}

// Matches reports whether r passes every set constraint.
func (f Filter) Matches(r AdoptionRecord) bool {
	if f.Weekday != nil && r.Weekday != *f.Weekday {
		return false
	}
	if f.Species != nil && r.Species != *f.Species {
		return false
	}
	if f.Month != nil && r.Month != *f.Month {
		return false
	}
	return true
}

// IsZero reports whether the filter has no constraints set.
func (f Filter) IsZero() bool {
	return f.Weekday == nil && f.Species == nil && f.Month == nil
}

// WeekdayOrder is the fixed calendar week order used for every
// weekday-distribution output, independent of observation order.
var WeekdayOrder = [7]time.Weekday{
	time.Monday,
	time.Tuesday,
	time.Wednesday,
	time.Thursday,
	time.Friday,
	time.Saturday,
	time.Sunday,
}

var weekdayByName = map[string]time.Weekday{
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
	"sunday":    time.Sunday,
}

// ParseWeekday resolves an English weekday name to its time.Weekday value.
// Matching is case-insensitive.
func ParseWeekday(name string) (time.Weekday, error) {
	wd, ok := weekdayByName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, apperrors.ErrInvalidWeekday
	}
	return wd, nil
}

// ParseMonth validates a 1-12 month number.
func ParseMonth(m int) (time.Month, error) {
	if m < 1 || m > 12 {
		return 0, apperrors.ErrInvalidMonth
	}
	return time.Month(m), nil
}
