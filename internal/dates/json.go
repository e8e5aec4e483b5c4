package dates

import (
	"bytes"
	"encoding/json"
	"time"
)

// wireLayout is the pattern the backend uses for LocalDateTime fields.
const wireLayout = "2006-01-02T15:04:05"

// Date is a JSON-decodable date field. The zero Date holds no value.
type Date struct {
	Value Value
}

// Of wraps a time.Time.
func Of(t time.Time) Date {
	return Date{Value: Native{Time: t}}
}

// Time normalizes the date in the local zone.
func (d Date) Time() (time.Time, bool) {
	return Normalize(d.Value)
}

// IsSet reports whether the date normalizes to a usable time.
func (d Date) IsSet() bool {
	_, ok := d.Time()
	return ok
}

// Format formats the date, or returns "" when it holds no value.
func (d Date) Format(style Style) string {
	return FormatValue(d.Value, style)
}

// UnmarshalJSON picks the variant from the JSON shape. Shapes that cannot be
// a date decode to no value rather than failing the enclosing document.
func (d *Date) UnmarshalJSON(b []byte) error {
	d.Value = nil

	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}

	switch b[0] {
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return nil
		}
		d.Value = ISOString{Text: s}
	case '[':
		var raw []json.Number
		if err := json.Unmarshal(b, &raw); err != nil {
			return nil
		}
		parts := make([]int, 0, len(raw))
		for _, n := range raw {
			i, err := n.Int64()
			if err != nil {
				return nil
			}
			parts = append(parts, int(i))
		}
		d.Value = ComponentTuple{Parts: parts}
	}
	return nil
}

// MarshalJSON writes the backend's wire pattern, or null.
func (d Date) MarshalJSON() ([]byte, error) {
	t, ok := d.Time()
	if !ok {
		return []byte("null"), nil
	}
	return json.Marshal(t.Format(wireLayout))
}
