// Package period resolves symbolic calendar periods into concrete date ranges
// Fetch routines use it to bound what they request from upstream APIs
// All day math happens in the caller's timezone derived from a UTC reference
// instant so a client calling at 1am UTC still gets the right local calendar day
// Pure and stateless: same instant plus same zone always yields the same range
package period

import (
	"errors"
	"fmt"
	"time"
)

// DefaultTimezone is used when a caller passes an empty zone name
const DefaultTimezone = "America/Chicago"

// Recognized period types for Resolve
const (
	TypeToday  = "today"
	TypeDays   = "days"
	TypeWeeks  = "weeks"
	TypeMonths = "months"
)

// Sane bounds for calendar year resolution
const (
	MinYear = 1970
	MaxYear = 2100
)

// Error kinds returned by the resolver
// logging is left to callers so the resolver owns no process-wide state
var (
	ErrUnsupportedPeriod = errors.New("unsupported period type")
	ErrMalformedDuration = errors.New("malformed iso duration")
	ErrBadTimezone       = errors.New("unknown timezone")
	ErrBadNumber         = errors.New("period number must be >= 1")
	ErrYearOutOfRange    = errors.New("year out of range")
)

// Range is a concrete timezone-aware window with Start <= End
// when End derives from a calendar boundary it is the last representable
// microsecond of the local day 23:59:59.999999
type Range struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the range, end inclusive
func (r Range) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// String renders the range for logs
func (r Range) String() string {
	return r.Start.Format(time.RFC3339) + " .. " + r.End.Format(time.RFC3339)
}

// Spec carries period parameters between transport layers and the resolver
// Number zero means the default of one
type Spec struct {
	Type   string `json:"type"`
	Number int    `json:"number,omitempty"`
	Tz     string `json:"tz,omitempty"`
}

// Window resolves the spec against ref
func (s Spec) Window(ref time.Time) (Range, error) {
	return Resolve(s.Type, s.Number, s.Tz, ref)
}

// Location loads an IANA zone name, defaulting when tz is empty
func Location(tz string) (*time.Location, error) {
	if tz == "" {
		tz = DefaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrBadTimezone, tz)
	}
	return loc, nil
}

// Resolve maps a period type and count to a concrete range in tz
// number zero means one; the end is always the local end of today
//
//	today     start = local midnight of the current day
//	days n    start = local midnight of today minus n-1 days
//	weeks n   start = local midnight of today minus 7n days
//	months n  start = local midnight of today minus 30n days
//
// months deliberately approximates a month as 30 days, matching what
// downstream consumers already depend on
// any other period type fails with ErrUnsupportedPeriod and no range
func Resolve(periodType string, number int, tz string, ref time.Time) (Range, error) {
	if number == 0 {
		number = 1
	}
	if number < 1 {
		return Range{}, fmt.Errorf("%w: got %d", ErrBadNumber, number)
	}
	loc, err := Location(tz)
	if err != nil {
		return Range{}, err
	}

	local := ref.In(loc)
	var start time.Time
	switch periodType {
	case TypeToday:
		start = midnight(local)
	case TypeDays:
		start = midnight(local.AddDate(0, 0, -(number - 1)))
	case TypeWeeks:
		start = midnight(local.AddDate(0, 0, -7*number))
	case TypeMonths:
		start = midnight(local.AddDate(0, 0, -30*number))
	default:
		return Range{}, fmt.Errorf("%w: %q", ErrUnsupportedPeriod, periodType)
	}
	return Range{Start: start, End: endOfDay(local)}, nil
}

// ResolveNow is Resolve against the wall clock
func ResolveNow(periodType string, number int, tz string) (Range, error) {
	return Resolve(periodType, number, tz, time.Now().UTC())
}

// ResolveYear maps a calendar year to a range in tz
// a nil year or the current year yields Jan 1 through the reference instant
// so callers tracking an in-progress year get data to date rather than a
// window padded with the empty future; a past year yields the full year
// through Dec 31 23:59:59.999999 local
func ResolveYear(year *int, tz string, ref time.Time) (Range, error) {
	loc, err := Location(tz)
	if err != nil {
		return Range{}, err
	}

	local := ref.In(loc)
	cur := local.Year()

	y := cur
	if year != nil {
		y = *year
	}
	if y < MinYear || y > MaxYear || y > cur {
		return Range{}, fmt.Errorf("%w: %d", ErrYearOutOfRange, y)
	}

	start := time.Date(y, time.January, 1, 0, 0, 0, 0, loc)
	if y == cur {
		return Range{Start: start, End: local}, nil
	}
	return Range{Start: start, End: endOfDay(time.Date(y, time.December, 31, 0, 0, 0, 0, loc))}, nil
}

// ResolveYearNow is ResolveYear against the wall clock
func ResolveYearNow(year *int, tz string) (Range, error) {
	return ResolveYear(year, tz, time.Now().UTC())
}

// midnight returns 00:00:00 of t's calendar day in t's location
func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// endOfDay returns 23:59:59.999999 of t's calendar day in t's location
func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 999999000, t.Location())
}
