// Package coerce normalizes the loosely typed values stored by the POS.
// Sale documents are written by several client versions over the years, so a
// timestamp may arrive as a native time, an epoch number in seconds or
// milliseconds, or a formatted string, and numbers may use a decimal comma.
// Every function here fails soft: a value that cannot be interpreted becomes
// "absent" or zero, never an error.
package coerce

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Epoch values below this threshold are interpreted as seconds.
const epochMillisThreshold = 10_000_000_000

var stringLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Timestamp interprets v as an instant. The second return value reports
// whether the value was present and parseable.
func Timestamp(v any) (time.Time, bool) {
	switch t := v.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		if t.IsZero() {
			return time.Time{}, false
		}
		return t, true
	case *time.Time:
		if t == nil || t.IsZero() {
			return time.Time{}, false
		}
		return *t, true
	case int:
		return fromEpoch(int64(t))
	case int32:
		return fromEpoch(int64(t))
	case int64:
		return fromEpoch(t)
	case float32:
		return fromEpoch(int64(t))
	case float64:
		return fromEpoch(int64(t))
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return time.Time{}, false
		}
		for _, layout := range stringLayouts {
			if parsed, err := time.Parse(layout, s); err == nil {
				return parsed, true
			}
		}
		return time.Time{}, false
	default:
		return time.Time{}, false
	}
}

func fromEpoch(raw int64) (time.Time, bool) {
	if raw == 0 {
		return time.Time{}, false
	}
	if raw < epochMillisThreshold {
		return time.Unix(raw, 0).UTC(), true
	}
	return time.UnixMilli(raw).UTC(), true
}

// Number interprets v as a float64. Strings may use a decimal comma.
// Anything else, including parse failures, yields 0.
func Number(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case string:
		normalized := strings.Replace(strings.TrimSpace(n), ",", ".", 1)
		parsed, err := strconv.ParseFloat(normalized, 64)
		if err != nil {
			return 0
		}
		return parsed
	default:
		return 0
	}
}

// Count interprets v as a whole quantity, rounding to the nearest integer.
func Count(v any) int {
	return int(math.Round(Number(v)))
}

// Bool interprets v as a strict boolean flag: only a stored true is true.
func Bool(v any) bool {
	b, ok := v.(bool)
	return ok && b
}
