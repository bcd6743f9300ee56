package engine

import (
	"fmt"
	"time"
)

// DayLayout is the text form of a Day.
const DayLayout = "2006-01-02"

// DefaultRolloverHour is the local hour at which a new effective day begins.
const DefaultRolloverHour = 6

// Day is a calendar date with no time of day and no zone.
type Day struct {
	Year  int
	Month time.Month
	Day   int
}

// DayOf returns the calendar date of t in t's own location.
func DayOf(t time.Time) Day {
	y, m, d := t.Date()
	return Day{Year: y, Month: m, Day: d}
}

func ParseDay(s string) (Day, error) {
	t, err := time.Parse(DayLayout, s)
	if err != nil {
		return Day{}, fmt.Errorf("parse day %q: %w", s, err)
	}
	return DayOf(t), nil
}

// Time returns midnight UTC of d. Only used for date arithmetic.
func (d Day) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

func (d Day) AddDays(n int) Day { return DayOf(d.Time().AddDate(0, 0, n)) }

func (d Day) Weekday() time.Weekday { return d.Time().Weekday() }

func (d Day) IsZero() bool { return d == Day{} }

// Compare returns -1, 0 or +1 as d is before, equal to or after o.
func (d Day) Compare(o Day) int { return d.Time().Compare(o.Time()) }

func (d Day) Before(o Day) bool { return d.Compare(o) < 0 }

func (d Day) After(o Day) bool { return d.Compare(o) > 0 }

// DaysUntil returns the number of calendar days from d to o.
func (d Day) DaysUntil(o Day) int {
	return int(o.Time().Sub(d.Time()).Hours() / 24)
}

func (d Day) String() string { return d.Time().Format(DayLayout) }

func (d Day) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

func (d *Day) UnmarshalText(text []byte) error {
	parsed, err := ParseDay(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Calendar maps instants to effective days.
type Calendar struct {
	// RolloverHour is the hour (0..23) in Location before which an instant still
	// belongs to the previous calendar day.
	RolloverHour int
	Location     *time.Location
}

func DefaultCalendar() Calendar {
	return Calendar{RolloverHour: DefaultRolloverHour, Location: time.Local}
}

// EffectiveDay returns the day that t counts toward.
func (c Calendar) EffectiveDay(t time.Time) Day {
	loc := c.Location
	if loc == nil {
		loc = time.Local
	}
	local := t.In(loc)
	if local.Hour() < c.RolloverHour {
		local = local.AddDate(0, 0, -1)
	}
	return DayOf(local)
}

// NextBoundary returns the first instant after t that starts a new effective day.
func (c Calendar) NextBoundary(t time.Time) time.Time {
	loc := c.Location
	if loc == nil {
		loc = time.Local
	}
	next := c.EffectiveDay(t).AddDays(1)
	return time.Date(next.Year, next.Month, next.Day, c.RolloverHour, 0, 0, 0, loc)
}
