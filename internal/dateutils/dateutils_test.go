package dateutils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
	}{
		{"european", "02.10.2025", "2025-10-02"},
		{"iso passes through", "2025-10-02", "2025-10-02"},
		{"surrounding spaces", " 01.10.2025 ", "2025-10-01"},
		{"two parts unchanged", "02.10", "02.10"},
		{"four parts unchanged", "1.2.3.4", "1.2.3.4"},
		{"garbage unchanged", "yesterday", "yesterday"},
		{"empty stays empty", "", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, NormalizeDate(tc.raw))
		})
	}
}

func TestNormalizeDate_Idempotent(t *testing.T) {
	once := NormalizeDate("24.12.2024")
	assert.Equal(t, once, NormalizeDate(once))
}

func TestMonthKey(t *testing.T) {
	assert.Equal(t, "2025-10", MonthKey("2025-10-02"))
	assert.Equal(t, "2025", MonthKey("2025"))
	assert.Equal(t, "", MonthKey(""))
}

func TestParseISO(t *testing.T) {
	got, err := ParseISO("2025-10-02")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, time.October, 2, 0, 0, 0, 0, time.UTC), got)

	_, err = ParseISO("02.10.2025")
	assert.Error(t, err)
}

func TestCompareDates(t *testing.T) {
	assert.Equal(t, -1, CompareDates("2025-10-01", "2025-10-02"))
	assert.Equal(t, 1, CompareDates("2025-11-01", "2025-10-31"))
	assert.Equal(t, 0, CompareDates("2025-10-01", "2025-10-01"))
	assert.Equal(t, -1, CompareDates("abc", "abd"))
}

func TestValidMonth(t *testing.T) {
	assert.True(t, ValidMonth("2025-10"))
	assert.False(t, ValidMonth("2025-13"))
	assert.False(t, ValidMonth("10-2025"))
}
