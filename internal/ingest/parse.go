package ingest

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// Accepted timestamp layouts, tried in order. Fractional seconds are accepted
// after the seconds field of every layout that has one.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05 Z07:00",
	"2006-01-02 15:04:05 -0700",
	"2006-01-02 15:04:05 MST",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseTimestamp parses s in UTC. An empty value is null.
func ParseTimestamp(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, fmt.Errorf("unrecognised timestamp %q", s)
}

// ParseInt accepts integers and integral floats such as "25.0". An empty value is null.
func ParseInt(s string) (*int, error) {
	if s == "" {
		return nil, nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		return &n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) || f < math.MinInt || f >= math.MaxInt {
		return nil, fmt.Errorf("invalid integer %q", s)
	}
	n := int(f)
	return &n, nil
}

func ParseFloat(s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("invalid number %q", s)
	}
	return &f, nil
}

func parseID(s string) (int64, error) {
	if s == "" {
		return 0, fmt.Errorf("missing identifier")
	}
	n, err := ParseInt(s)
	if err != nil {
		return 0, fmt.Errorf("invalid identifier %q", s)
	}
	return int64(*n), nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
