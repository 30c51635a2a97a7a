// Package opsday maps wall-clock instants to operational days. The shop's
// business day does not start at midnight: it runs from a fixed shift hour
// (04:00 local by default) to the same hour the next day, and the day is
// keyed by the civil date preceding its boundary.
package opsday

import (
	"fmt"
	"time"
)

// DefaultShiftHour is the local hour at which a new operational day begins.
const DefaultShiftHour = 4

// Calendar performs operational-day boundary math in a fixed timezone.
type Calendar struct {
	loc       *time.Location
	shiftHour int
}

// Day describes one operational day: its UTC window and its archive labels.
type Day struct {
	Key         string
	Year        int
	MonthNumber int
	MonthLabel  string
	DayNumber   int
	// StartLocal is the boundary instant in the calendar's timezone.
	StartLocal time.Time
	// Start and End are the half-open UTC query window [Start, End).
	Start time.Time
	End   time.Time
}

// NewCalendar builds a calendar for the named IANA timezone.
func NewCalendar(timezone string, shiftHour int) (*Calendar, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("opsday: load timezone %q: %w", timezone, err)
	}
	if shiftHour < 0 || shiftHour > 23 {
		return nil, fmt.Errorf("opsday: shift hour %d out of range", shiftHour)
	}
	return &Calendar{loc: loc, shiftHour: shiftHour}, nil
}

// Location returns the calendar's timezone.
func (c *Calendar) Location() *time.Location {
	return c.loc
}

// DayStart returns the boundary instant of the operational day containing now.
// Before the shift hour the day that started yesterday is still running.
func (c *Calendar) DayStart(now time.Time) time.Time {
	local := now.In(c.loc)
	base := time.Date(local.Year(), local.Month(), local.Day(), c.shiftHour, 0, 0, 0, c.loc)
	if local.Before(base) {
		base = base.AddDate(0, 0, -1)
	}
	return base
}

// DayAt resolves the full operational day containing the given instant.
func (c *Calendar) DayAt(now time.Time) Day {
	return c.dayFromStart(c.DayStart(now))
}

// PreviousDay returns the operational day immediately before d.
func (c *Calendar) PreviousDay(d Day) Day {
	return c.dayFromStart(d.StartLocal.AddDate(0, 0, -1))
}

func (c *Calendar) dayFromStart(startLocal time.Time) Day {
	end := startLocal.AddDate(0, 0, 1)
	// The key carries the previous civil date: the day starting 04:00 on
	// March 10 closes out March 9's trade and is archived under it.
	labelDate := startLocal.AddDate(0, 0, -1)
	return Day{
		Key:         labelDate.Format("2006-01-02"),
		Year:        startLocal.Year(),
		MonthNumber: int(startLocal.Month()),
		MonthLabel:  startLocal.Format("01"),
		DayNumber:   startLocal.Day(),
		StartLocal:  startLocal,
		Start:       startLocal.UTC(),
		End:         end.UTC(),
	}
}

// Contains reports whether t falls inside the day's half-open UTC window.
func (d Day) Contains(t time.Time) bool {
	return !t.Before(d.Start) && t.Before(d.End)
}
