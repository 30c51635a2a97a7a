package coerce

import (
	"testing"
	"time"
)

func TestTimestampEpochSeconds(t *testing.T) {
	ts, ok := Timestamp(int64(1710043200))
	if !ok {
		t.Fatal("expected epoch seconds to parse")
	}
	if got := ts.UTC(); !got.Equal(time.Date(2024, 3, 10, 4, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected instant %v", got)
	}
}

func TestTimestampEpochMillis(t *testing.T) {
	ts, ok := Timestamp(float64(1710043200000))
	if !ok {
		t.Fatal("expected epoch millis to parse")
	}
	if got := ts.UTC(); !got.Equal(time.Date(2024, 3, 10, 4, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected instant %v", got)
	}
}

func TestTimestampStrings(t *testing.T) {
	cases := map[string]time.Time{
		"2024-03-10T04:00:00Z":      time.Date(2024, 3, 10, 4, 0, 0, 0, time.UTC),
		"2024-03-10T04:00:00+02:00": time.Date(2024, 3, 10, 2, 0, 0, 0, time.UTC),
		"2024-03-10 04:00:00":       time.Date(2024, 3, 10, 4, 0, 0, 0, time.UTC),
		"2024-03-10":                time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
	}
	for input, want := range cases {
		ts, ok := Timestamp(input)
		if !ok {
			t.Fatalf("expected %q to parse", input)
		}
		if !ts.UTC().Equal(want) {
			t.Fatalf("%q: got %v want %v", input, ts.UTC(), want)
		}
	}
}

func TestTimestampRejectsGarbage(t *testing.T) {
	for _, v := range []any{nil, "", "not a date", false, map[string]any{}, 0, time.Time{}} {
		if _, ok := Timestamp(v); ok {
			t.Fatalf("expected %#v to be rejected", v)
		}
	}
}

func TestNumberDecimalComma(t *testing.T) {
	if got := Number("12,5"); got != 12.5 {
		t.Fatalf("got %v", got)
	}
	if got := Number(" 7.25 "); got != 7.25 {
		t.Fatalf("got %v", got)
	}
	if got := Number("abc"); got != 0 {
		t.Fatalf("got %v", got)
	}
	if got := Number(nil); got != 0 {
		t.Fatalf("got %v", got)
	}
	if got := Number(3); got != 3 {
		t.Fatalf("got %v", got)
	}
}

func TestCountRounds(t *testing.T) {
	if got := Count("2,6"); got != 3 {
		t.Fatalf("got %d", got)
	}
	if got := Count(1.4); got != 1 {
		t.Fatalf("got %d", got)
	}
	if got := Count(true); got != 0 {
		t.Fatalf("got %d", got)
	}
}

func TestBoolIsStrict(t *testing.T) {
	if !Bool(true) {
		t.Fatal("true should be true")
	}
	for _, v := range []any{false, nil, "true", 1} {
		if Bool(v) {
			t.Fatalf("expected %#v to be false", v)
		}
	}
}
