package dcinside

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2025-09-01 12:34:56", time.Date(2025, 9, 1, 12, 34, 56, 0, KST)},
		{"2025.09.01 12:34:56", time.Date(2025, 9, 1, 12, 34, 56, 0, KST)},
		{"2025-09-01 12:34", time.Date(2025, 9, 1, 12, 34, 0, 0, KST)},
		{"2025.09.01", time.Date(2025, 9, 1, 0, 0, 0, 0, KST)},
		{" 2025-09-01 ", time.Date(2025, 9, 1, 0, 0, 0, 0, KST)},
	}

	for _, tt := range tests {
		got, err := ParseTimestamp(tt.in)
		require.NoError(t, err, "input %q", tt.in)
		assert.True(t, got.Equal(tt.want), "input %q: got %v", tt.in, got)
	}

	_, err := ParseTimestamp("not a date")
	assert.ErrorIs(t, err, ErrParse)
}

func TestParseTimestamp_KSTOffset(t *testing.T) {
	got, err := ParseTimestamp("2025-09-01 12:00:00")
	require.NoError(t, err)

	_, offset := got.Zone()
	assert.Equal(t, 9*60*60, offset)
}

func TestParseListingDate_UsesDatePortionOnly(t *testing.T) {
	got, err := ParseListingDate("2025-03-15 18:22:01")
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2025, 3, 15, 0, 0, 0, 0, KST)))
}

func TestParseGallogDate(t *testing.T) {
	got, err := ParseGallogDate("2025.03.15")
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2025, 3, 15, 0, 0, 0, 0, KST)))
}

func TestParseCommentDate_FullForm(t *testing.T) {
	now := time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)

	got, err := ParseCommentDate("2024.06.02 10:00:00", now)
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2024, 6, 2, 10, 0, 0, 0, KST)))
}

// A yearless comment date is patched with the current KST year.
func TestParseCommentDate_YearPatch(t *testing.T) {
	now := time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)

	got, err := ParseCommentDate("09.01 12:34:56", now)
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2025, 9, 1, 12, 34, 56, 0, KST)),
		"got %v", got)
}

// Feb 29 keeps its day in a leap year and normalizes to Mar 1 otherwise.
func TestParseCommentDate_LeapDay(t *testing.T) {
	leap := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	got, err := ParseCommentDate("02.29 12:00:00", leap)
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2024, 2, 29, 12, 0, 0, 0, KST)), "got %v", got)

	nonLeap := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	got, err = ParseCommentDate("02.29 12:00:00", nonLeap)
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2025, 3, 1, 12, 0, 0, 0, KST)), "got %v", got)
}

func TestParseCommentDate_Invalid(t *testing.T) {
	_, err := ParseCommentDate("??", time.Now())
	assert.ErrorIs(t, err, ErrParse)
}
