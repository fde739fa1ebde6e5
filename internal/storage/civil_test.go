package storage

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		d, err := ParseDate("2024-06-10")
		require.NoError(t, err)
		require.Equal(t, Date{Year: 2024, Month: 6, Day: 10}, d)
		require.Equal(t, "2024-06-10", d.String())
	})

	t.Run("invalid", func(t *testing.T) {
		for _, s := range []string{"", "10/06/2024", "2024-6-10", "2024-13-01", "2024-02-30", "not a date"} {
			_, err := ParseDate(s)
			require.ErrorIs(t, err, ErrInvalidDate, "input %q", s)
		}
	})
}

func TestParseClock(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		tests := []struct {
			in      string
			minutes int
		}{
			{"00:00", 0},
			{"09:05", 545},
			{"23:59", 1439},
		}
		for _, tt := range tests {
			c, err := ParseClock(tt.in)
			require.NoError(t, err)
			require.Equal(t, tt.minutes, c.Minutes())
			require.Equal(t, tt.in, c.String())
		}
	})

	t.Run("invalid", func(t *testing.T) {
		invalid := []string{
			"", "24:00", "10:60", "9:30", "10-30", "10:30:00", "ab:cd",
			// Near-misses must be rejected outright, never coerced to a
			// nearby valid time.
			"12:3x", "12: 3", "+2:30", "1 :30", "12:-3",
		}
		for _, s := range invalid {
			_, err := ParseClock(s)
			require.ErrorIs(t, err, ErrInvalidClock, "input %q", s)
		}
	})
}

func TestStatusRoundtrip(t *testing.T) {
	for _, s := range []Status{Pending, Approved, Rejected} {
		parsed, err := ParseStatus(s.String())
		require.NoError(t, err)
		require.Equal(t, s, parsed)
	}

	_, err := ParseStatus("CANCELLED")
	require.Error(t, err)
}

func TestEventJSON(t *testing.T) {
	// The wire format keeps the textual date/time forms of the original data.
	e := Event{
		ID:     "e1",
		Title:  "fair",
		Date:   Date{Year: 2024, Month: 6, Day: 10},
		Clock:  Clock(9*60 + 30),
		Status: Approved,
	}
	data, err := json.Marshal(e)
	require.NoError(t, err)
	require.Contains(t, string(data), `"date":"2024-06-10"`)
	require.Contains(t, string(data), `"time":"09:30"`)
	require.Contains(t, string(data), `"status":"APPROVED"`)

	var decoded Event
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Equal(t, e, decoded)

	var bad Event
	require.Error(t, json.Unmarshal([]byte(`{"date":"2024-06-10","time":"25:00"}`), &bad))
}
