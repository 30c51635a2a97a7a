package opsday

import (
	"testing"
	"time"
)

func mustCalendar(t *testing.T) *Calendar {
	t.Helper()
	cal, err := NewCalendar("Africa/Cairo", DefaultShiftHour)
	if err != nil {
		t.Fatalf("new calendar: %v", err)
	}
	return cal
}

func TestDayStartBeforeShiftHourRollsBack(t *testing.T) {
	cal := mustCalendar(t)
	now := time.Date(2024, 3, 10, 3, 59, 0, 0, cal.Location())
	start := cal.DayStart(now)
	want := time.Date(2024, 3, 9, 4, 0, 0, 0, cal.Location())
	if !start.Equal(want) {
		t.Fatalf("got %v want %v", start, want)
	}
}

func TestDayStartAtShiftHour(t *testing.T) {
	cal := mustCalendar(t)
	now := time.Date(2024, 3, 10, 4, 0, 0, 0, cal.Location())
	start := cal.DayStart(now)
	want := time.Date(2024, 3, 10, 4, 0, 0, 0, cal.Location())
	if !start.Equal(want) {
		t.Fatalf("got %v want %v", start, want)
	}
}

func TestDayKeyReflectsShiftDate(t *testing.T) {
	cal := mustCalendar(t)
	day := cal.DayAt(time.Date(2024, 3, 10, 4, 0, 0, 0, cal.Location()))
	if day.Key != "2024-03-09" {
		t.Fatalf("got key %q", day.Key)
	}
	if day.Year != 2024 || day.MonthNumber != 3 || day.MonthLabel != "03" || day.DayNumber != 10 {
		t.Fatalf("unexpected labels: %+v", day)
	}
}

func TestDayKeyIndependentOfShiftHour(t *testing.T) {
	for _, hour := range []int{1, 4, 23} {
		cal, err := NewCalendar("Africa/Cairo", hour)
		if err != nil {
			t.Fatalf("new calendar: %v", err)
		}
		day := cal.DayAt(time.Date(2024, 3, 10, hour, 0, 0, 0, cal.Location()))
		if day.Key != "2024-03-09" {
			t.Fatalf("shift hour %d: got key %q", hour, day.Key)
		}
	}
}

func TestDayWindowIsHalfOpen24h(t *testing.T) {
	cal := mustCalendar(t)
	day := cal.DayAt(time.Date(2024, 3, 10, 12, 0, 0, 0, cal.Location()))
	// Cairo is UTC+2 in March.
	if !day.Start.Equal(time.Date(2024, 3, 10, 2, 0, 0, 0, time.UTC)) {
		t.Fatalf("start %v", day.Start)
	}
	if !day.End.Equal(time.Date(2024, 3, 11, 2, 0, 0, 0, time.UTC)) {
		t.Fatalf("end %v", day.End)
	}
	if !day.Contains(day.Start) {
		t.Fatal("start should be inside the window")
	}
	if day.Contains(day.End) {
		t.Fatal("end should be outside the window")
	}
}

func TestPreviousDay(t *testing.T) {
	cal := mustCalendar(t)
	today := cal.DayAt(time.Date(2024, 3, 10, 12, 0, 0, 0, cal.Location()))
	prev := cal.PreviousDay(today)
	if prev.Key != "2024-03-08" {
		t.Fatalf("got key %q", prev.Key)
	}
	if !prev.End.Equal(today.Start) {
		t.Fatalf("previous day must abut today: %v vs %v", prev.End, today.Start)
	}
}

func TestNewCalendarRejectsBadInput(t *testing.T) {
	if _, err := NewCalendar("Not/AZone", 4); err == nil {
		t.Fatal("expected timezone error")
	}
	if _, err := NewCalendar("Africa/Cairo", 24); err == nil {
		t.Fatal("expected shift hour error")
	}
}
