package performance

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// DateRange is a closed interval. A zero bound is unbounded.
type DateRange struct {
	Start time.Time
	End   time.Time
}

func (r DateRange) Contains(t time.Time) bool {
	if !r.Start.IsZero() && t.Before(r.Start) {
		return false
	}
	if !r.End.IsZero() && t.After(r.End) {
		return false
	}
	return true
}

func (r DateRange) IsZero() bool {
	return r.Start.IsZero() && r.End.IsZero()
}

// ParseDateRange accepts YYYY-MM-DD (UTC midnight) or RFC 3339 for either bound.
// Empty strings leave the bound open.
func ParseDateRange(start, end string) (DateRange, error) {
	var r DateRange
	var err error
	if start != "" {
		if r.Start, err = parseDate(start); err != nil {
			return DateRange{}, fmt.Errorf("invalid startDate: %w", err)
		}
	}
	if end != "" {
		if r.End, err = parseDate(end); err != nil {
			return DateRange{}, fmt.Errorf("invalid endDate: %w", err)
		}
	}
	if !r.Start.IsZero() && !r.End.IsZero() && r.End.Before(r.Start) {
		return DateRange{}, fmt.Errorf("endDate %s is before startDate %s", end, start)
	}
	return r, nil
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// Key is a stable representation used in cache keys.
func (r DateRange) Key() string {
	return formatBound(r.Start) + ".." + formatBound(r.End)
}

func formatBound(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}
