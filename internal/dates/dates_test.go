package dates

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_TupleMonthIsOneBased(t *testing.T) {
	got, ok := NormalizeIn(ComponentTuple{Parts: []int{2023, 8, 15, 9, 30, 0}}, time.UTC)
	require.True(t, ok)

	assert.Equal(t, 2023, got.Year())
	assert.Equal(t, time.August, got.Month())
	assert.Equal(t, 15, got.Day())
	assert.Equal(t, 9, got.Hour())
	assert.Equal(t, 30, got.Minute())
	assert.Equal(t, 0, got.Second())
}

func TestNormalize_TupleShapes(t *testing.T) {
	tests := []struct {
		name  string
		parts []int
		want  time.Time
		ok    bool
	}{
		{"date only", []int{2024, 1, 31}, time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC), true},
		{"with nanos", []int{2024, 12, 1, 23, 59, 59, 500}, time.Date(2024, time.December, 1, 23, 59, 59, 500, time.UTC), true},
		{"too short", []int{2024, 1}, time.Time{}, false},
		{"too long", []int{2024, 1, 1, 0, 0, 0, 0, 0}, time.Time{}, false},
		{"month zero", []int{2024, 0, 10}, time.Time{}, false},
		{"month thirteen", []int{2024, 13, 10}, time.Time{}, false},
		{"feb 30", []int{2023, 2, 30}, time.Time{}, false},
		{"hour 24", []int{2023, 2, 3, 24, 0, 0}, time.Time{}, false},
		{"empty", nil, time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NormalizeIn(ComponentTuple{Parts: tt.parts}, time.UTC)
			assert.Equal(t, tt.ok, ok)
			assert.True(t, tt.want.Equal(got), "got %v, want %v", got, tt.want)
		})
	}
}

func TestNormalize_ISOString(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want time.Time
	}{
		{"local date-time", "2023-07-23T00:00:00", time.Date(2023, time.July, 23, 0, 0, 0, 0, time.UTC)},
		{"fractional seconds", "2023-07-23T10:15:30.250", time.Date(2023, time.July, 23, 10, 15, 30, 250_000_000, time.UTC)},
		{"minutes only", "2023-07-23T10:15", time.Date(2023, time.July, 23, 10, 15, 0, 0, time.UTC)},
		{"bare date", "2023-07-23", time.Date(2023, time.July, 23, 0, 0, 0, 0, time.UTC)},
		{"with offset", "2023-07-23T10:00:00+02:00", time.Date(2023, time.July, 23, 8, 0, 0, 0, time.UTC)},
		{"zulu", "2023-07-23T10:00:00Z", time.Date(2023, time.July, 23, 10, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NormalizeIn(ISOString{Text: tt.in}, time.UTC)
			require.True(t, ok)
			assert.True(t, tt.want.Equal(got), "got %v, want %v", got, tt.want)
		})
	}
}

func TestNormalize_NoValue(t *testing.T) {
	tests := []struct {
		name string
		in   Value
	}{
		{"nil", nil},
		{"garbage string", ISOString{Text: "not-a-date"}},
		{"empty string", ISOString{Text: ""}},
		{"blank string", ISOString{Text: "   "}},
		{"zero native", Native{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Normalize(tt.in)
			assert.False(t, ok)
			assert.True(t, got.IsZero())
		})
	}
}

func TestNormalize_NativePassesThrough(t *testing.T) {
	loc := time.FixedZone("test", 5*3600)
	in := time.Date(2022, time.March, 4, 5, 6, 7, 8, loc)

	got, ok := Normalize(Native{Time: in})
	require.True(t, ok)
	assert.Equal(t, in, got)
}

func TestFormat(t *testing.T) {
	tm := time.Date(2023, time.August, 15, 9, 30, 0, 0, time.UTC)

	assert.Equal(t, "8/15/23", Format(tm, Short))
	assert.Equal(t, "Aug 15, 2023", Format(tm, Medium))
	assert.Equal(t, "August 15, 2023", Format(tm, Long))
	assert.Equal(t, "Tuesday, August 15, 2023", Format(tm, Full))
}

func TestFormat_NoValueIsEmptyForEveryStyle(t *testing.T) {
	none, ok := Normalize(nil)
	require.False(t, ok)

	for _, style := range []Style{Short, Medium, Long, Full} {
		assert.Equal(t, "", Format(none, style), "style %s", style)
		assert.Equal(t, "", FormatValue(ISOString{Text: "not-a-date"}, style), "style %s", style)
	}
}

func TestParseStyle(t *testing.T) {
	for in, want := range map[string]Style{
		"short": Short, "Medium": Medium, "": Medium, "LONG": Long, " full ": Full,
	} {
		got, err := ParseStyle(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseStyle("tiny")
	assert.Error(t, err)
}

func TestDate_UnmarshalJSON(t *testing.T) {
	type payload struct {
		D Date `json:"d"`
	}

	tests := []struct {
		name string
		body string
		want Value
	}{
		{"tuple", `{"d":[2023,8,15,9,30,0]}`, ComponentTuple{Parts: []int{2023, 8, 15, 9, 30, 0}}},
		{"string", `{"d":"2023-08-15T09:30:00"}`, ISOString{Text: "2023-08-15T09:30:00"}},
		{"null", `{"d":null}`, nil},
		{"absent", `{}`, nil},
		{"number", `{"d":42}`, nil},
		{"object", `{"d":{"year":2023}}`, nil},
		{"fractional tuple", `{"d":[2023.5,8,15]}`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p payload
			require.NoError(t, json.Unmarshal([]byte(tt.body), &p))
			assert.Equal(t, tt.want, p.D.Value)
		})
	}
}

func TestDate_DecodedTupleNormalizes(t *testing.T) {
	var d Date
	require.NoError(t, json.Unmarshal([]byte(`[2023,8,15,9,30,0,0]`), &d))

	got, ok := NormalizeIn(d.Value, time.UTC)
	require.True(t, ok)
	assert.Equal(t, time.August, got.Month())
}

func TestDate_MarshalJSON(t *testing.T) {
	b, err := json.Marshal(Of(time.Date(2023, time.August, 15, 9, 30, 0, 0, time.Local)))
	require.NoError(t, err)
	assert.Equal(t, `"2023-08-15T09:30:00"`, string(b))

	b, err = json.Marshal(Date{})
	require.NoError(t, err)
	assert.Equal(t, `null`, string(b))
}
