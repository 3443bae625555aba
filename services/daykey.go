package services

import (
	"time"
)

// DayLayout is the canonical, lexicographically sortable day string format.
const DayLayout = "2006-01-02"

// DayKey formats t as a day string in t's own location.
func DayKey(t time.Time) string {
	return t.Format(DayLayout)
}

// ParseDay validates a canonical day string. Anything that does not round-trip
// exactly (missing zero padding, trailing text, impossible dates) is rejected.
func ParseDay(day string) (time.Time, error) {
	t, err := time.ParseInLocation(DayLayout, day, time.UTC)
	if err != nil || t.Format(DayLayout) != day {
		return time.Time{}, invalidf("malformed day %q, want YYYY-MM-DD", day)
	}
	return t, nil
}

// PreviousDay returns the calendar day before day. day must be canonical.
func PreviousDay(day string) (string, error) {
	t, err := ParseDay(day)
	if err != nil {
		return "", err
	}
	return DayKey(t.AddDate(0, 0, -1)), nil
}

// DayResolver maps wall-clock time onto the service's canonical local calendar.
type DayResolver struct {
	loc *time.Location
	now func() time.Time
}

// NewDayResolver builds a resolver for the named location ("Local" or an IANA name).
func NewDayResolver(name string) (*DayResolver, error) {
	loc := time.Local
	if name != "" && name != "Local" {
		l, err := time.LoadLocation(name)
		if err != nil {
			return nil, err
		}
		loc = l
	}
	return &DayResolver{loc: loc, now: time.Now}, nil
}

// Today returns the current day string in the resolver's calendar.
func (r *DayResolver) Today() string {
	return r.DayOf(r.now())
}

// DayOf returns the day string of t in the resolver's calendar.
func (r *DayResolver) DayOf(t time.Time) string {
	return DayKey(t.In(r.loc))
}

// Resolve returns day unchanged when set, else today. The result is always validated.
func (r *DayResolver) Resolve(day string) (string, error) {
	if day == "" {
		return r.Today(), nil
	}
	if _, err := ParseDay(day); err != nil {
		return "", err
	}
	return day, nil
}
