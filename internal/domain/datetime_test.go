package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatDateTime(t *testing.T) {
	edt := time.FixedZone("EDT", -4*3600)
	instant := time.Date(2024, 8, 21, 15, 4, 5, 123000000, edt)

	tests := []struct {
		name      string
		precision Precision
		expected  string
	}{
		{"year", PrecisionYear, "2024"},
		{"month", PrecisionMonth, "2024-08"},
		{"day", PrecisionDay, "2024-08-21"},
		{"hour", PrecisionHour, "2024-08-21T15-0400"},
		{"minute", PrecisionMinute, "2024-08-21T15:04-0400"},
		{"second", PrecisionSecond, "2024-08-21T15:04:05-0400"},
		{"millisecond", PrecisionMillisecond, "2024-08-21T15:04:05.123000-0400"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := FormatDateTime(instant, tt.precision, edt)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}

	t.Run("unsupported precision codes", func(t *testing.T) {
		for _, p := range []Precision{0, 8, -1} {
			_, err := FormatDateTime(instant, p, edt)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "unsupported precision")
		}
	})

	t.Run("localizes to the given timezone", func(t *testing.T) {
		utc := time.Date(2024, 8, 21, 19, 4, 5, 0, time.UTC)
		result, err := FormatDateTime(utc, PrecisionSecond, edt)
		require.NoError(t, err)
		assert.Equal(t, "2024-08-21T15:04:05-0400", result)
	})

	t.Run("nil location keeps the instant's own zone", func(t *testing.T) {
		result, err := FormatDateTime(instant, PrecisionSecond, nil)
		require.NoError(t, err)
		assert.Equal(t, "2024-08-21T15:04:05-0400", result)
	})

	t.Run("idempotent", func(t *testing.T) {
		first, err := FormatDateTime(instant, PrecisionMinute, edt)
		require.NoError(t, err)
		second, err := FormatDateTime(instant, PrecisionMinute, edt)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})
}

func TestFormatTimeOfDay(t *testing.T) {
	edt := time.FixedZone("EDT", -4*3600)
	instant := time.Date(2024, 8, 21, 15, 4, 5, 123000000, edt)

	tests := []struct {
		name      string
		precision Precision
		expected  string
	}{
		{"year has no time component", PrecisionYear, ""},
		{"month has no time component", PrecisionMonth, ""},
		{"day has no time component", PrecisionDay, ""},
		{"hour", PrecisionHour, "15-0400"},
		{"minute", PrecisionMinute, "15:04-0400"},
		{"second", PrecisionSecond, "15:04:05-0400"},
		{"millisecond", PrecisionMillisecond, "15:04:05.123000-0400"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := FormatTimeOfDay(instant, tt.precision, edt)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}

	t.Run("unsupported precision code", func(t *testing.T) {
		_, err := FormatTimeOfDay(instant, 9, edt)
		require.Error(t, err)
	})
}
