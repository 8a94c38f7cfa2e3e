package clock

import (
	"fmt"
	"time"
)

// Civil interprets wall-clock time in a single fixed civil offset. All
// "today"/"now" decisions for sessions and sweeps go through one instance so
// the offset stays configuration instead of a constant scattered around.
type Civil struct {
	loc *time.Location
	now func() time.Time
}

// NewCivil builds a Civil clock at the given UTC offset in hours.
func NewCivil(offsetHours int) *Civil {
	name := fmt.Sprintf("UTC%+d", offsetHours)
	return &Civil{
		loc: time.FixedZone(name, offsetHours*3600),
		now: time.Now,
	}
}

// NewCivilAt builds a Civil clock with a fixed now, for deterministic tests.
func NewCivilAt(offsetHours int, at time.Time) *Civil {
	c := NewCivil(offsetHours)
	c.now = func() time.Time { return at }
	return c
}

// Location exposes the fixed civil location.
func (c *Civil) Location() *time.Location {
	return c.loc
}

// Now returns the current instant in civil time.
func (c *Civil) Now() time.Time {
	return c.now().In(c.loc)
}

// Today returns midnight of the current civil day.
func (c *Civil) Today() time.Time {
	return c.DateOf(c.Now())
}

// DateOf truncates an instant to its civil calendar day.
func (c *Civil) DateOf(t time.Time) time.Time {
	t = t.In(c.loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, c.loc)
}

// Weekday returns the named civil weekday of an instant.
func (c *Civil) Weekday(t time.Time) string {
	return t.In(c.loc).Weekday().String()
}

// Combine attaches a nominal time of day ("15:04" or "15:04:05") to a
// calendar day.
func (c *Civil) Combine(day time.Time, timeOfDay string) (time.Time, error) {
	layout := "15:04:05"
	if len(timeOfDay) == len("15:04") {
		layout = "15:04"
	}
	parsed, err := time.Parse(layout, timeOfDay)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse time of day %q: %w", timeOfDay, err)
	}
	day = c.DateOf(day)
	return time.Date(day.Year(), day.Month(), day.Day(),
		parsed.Hour(), parsed.Minute(), parsed.Second(), 0, c.loc), nil
}

// StartOfDay returns 00:00:00 of the given day.
func (c *Civil) StartOfDay(day time.Time) time.Time {
	return c.DateOf(day)
}

// EndOfDay returns 23:59:59 of the given day, the clamp boundary that keeps a
// session window non-empty.
func (c *Civil) EndOfDay(day time.Time) time.Time {
	day = c.DateOf(day)
	return time.Date(day.Year(), day.Month(), day.Day(), 23, 59, 59, 0, c.loc)
}
