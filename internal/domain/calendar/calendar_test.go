package calendar

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ist(t *testing.T) *time.Location {
	t.Helper()
	loc, err := LoadLocation(DefaultTimezone)
	require.NoError(t, err)
	return loc
}

func TestDateOf_UsesCivilTimezone(t *testing.T) {
	loc := ist(t)

	// 2024-06-09T20:00Z ya es 10 de junio en IST (+05:30).
	instant := time.Date(2024, 6, 9, 20, 0, 0, 0, time.UTC)
	assert.Equal(t, NewDate(2024, 6, 10), DateOf(instant, loc))
	assert.Equal(t, NewDate(2024, 6, 9), DateOf(instant, time.UTC))
}

func TestDate_AddDaysAndDaysUntil(t *testing.T) {
	d := NewDate(2024, 2, 27)

	assert.Equal(t, NewDate(2024, 3, 1), d.AddDays(3)) // año bisiesto
	assert.Equal(t, NewDate(2024, 2, 20), d.AddDays(-7))
	assert.Equal(t, 3, d.DaysUntil(NewDate(2024, 3, 1)))
	assert.Equal(t, -3, NewDate(2024, 3, 1).DaysUntil(d))
}

func TestDate_Bounds(t *testing.T) {
	loc := ist(t)
	start, end := NewDate(2024, 6, 10).Bounds(loc)

	assert.Equal(t, time.Date(2024, 6, 9, 18, 30, 0, 0, time.UTC), start.UTC())
	assert.Equal(t, time.Date(2024, 6, 10, 18, 29, 59, 999999999, time.UTC), end.UTC())
	assert.Equal(t, NewDate(2024, 6, 10), DateOf(end, loc))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-06-10")
	require.NoError(t, err)
	assert.Equal(t, "2024-06-10", d.String())

	empty, err := ParseDate("  ")
	require.NoError(t, err)
	assert.True(t, empty.IsZero())

	_, err = ParseDate("10/06/2024")
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestDate_JSON(t *testing.T) {
	var out struct {
		Due Date `json:"due"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"due":"2024-06-13"}`), &out))
	assert.Equal(t, NewDate(2024, 6, 13), out.Due)

	b, err := json.Marshal(out)
	require.NoError(t, err)
	assert.JSONEq(t, `{"due":"2024-06-13"}`, string(b))
}

func TestCalendar_TodayWithFixedClock(t *testing.T) {
	loc := ist(t)
	fixed := time.Date(2024, 6, 10, 9, 0, 0, 0, loc)
	cal := New(loc, func() time.Time { return fixed })

	assert.Equal(t, NewDate(2024, 6, 10), cal.Today())
	assert.Equal(t, fixed, cal.Now())
}
