package dates

import (
	"strings"
	"time"
)

// Value is a date as it arrives from the backend. The concrete variant is
// chosen once, when the payload is decoded (see Date.UnmarshalJSON), so
// normalization only ever switches over this closed set.
type Value interface {
	isValue()
}

// Native is a date that is already a time.Time.
type Native struct {
	Time time.Time
}

// ISOString is an ISO-8601 date or date-time string.
type ISOString struct {
	Text string
}

// ComponentTuple is a decomposed timestamp:
// [year, month, day, hour?, minute?, second?, nanosecond?] with a 1-based month.
type ComponentTuple struct {
	Parts []int
}

func (Native) isValue()         {}
func (ISOString) isValue()      {}
func (ComponentTuple) isValue() {}

// isoLayouts are tried in order. Layouts without an offset are interpreted
// in the caller's location.
var isoLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Normalize converts v into a time.Time using the local time zone for
// values that carry no offset. The boolean is false when v holds no usable
// date; the returned time is then the zero value.
func Normalize(v Value) (time.Time, bool) {
	return NormalizeIn(v, time.Local)
}

// NormalizeIn is Normalize with an explicit location.
func NormalizeIn(v Value, loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.Local
	}

	switch v := v.(type) {
	case Native:
		if v.Time.IsZero() {
			return time.Time{}, false
		}
		return v.Time, true
	case ISOString:
		return parseISO(v.Text, loc)
	case ComponentTuple:
		return fromComponents(v.Parts, loc)
	default:
		return time.Time{}, false
	}
}

func parseISO(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, true
	}
	for _, layout := range isoLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// fromComponents builds a time from a component tuple. time.Month is
// 1-based, the same as the wire format, so the month is used directly.
// Out-of-range components yield no value instead of being rolled over.
func fromComponents(parts []int, loc *time.Location) (time.Time, bool) {
	if len(parts) < 3 || len(parts) > 7 {
		return time.Time{}, false
	}

	at := func(i int) int {
		if i < len(parts) {
			return parts[i]
		}
		return 0
	}

	year, month, day := parts[0], parts[1], parts[2]
	hour, minute, second, nano := at(3), at(4), at(5), at(6)

	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 || second < 0 || second > 59 {
		return time.Time{}, false
	}
	if nano < 0 || nano > 999_999_999 {
		return time.Time{}, false
	}

	t := time.Date(year, time.Month(month), day, hour, minute, second, nano, loc)
	// time.Date rolls Feb 30 into March.
	if t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}
