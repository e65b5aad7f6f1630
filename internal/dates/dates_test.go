package dates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeekStart(t *testing.T) {
	cases := map[string]string{
		"2025-01-27": "2025-01-27", // Monday
		"2025-01-29": "2025-01-27",
		"2025-02-02": "2025-01-27", // Sunday belongs to the previous Monday
		"2025-02-03": "2025-02-03",
	}
	for in, want := range cases {
		d, err := Parse(in)
		require.NoError(t, err)
		assert.Equal(t, want, Format(WeekStart(d)), in)
	}
}

func TestWeekDates(t *testing.T) {
	d, err := Parse("2025-01-30")
	require.NoError(t, err)

	got := Strings(WeekDates(d))
	assert.Equal(t, []string{
		"2025-01-27", "2025-01-28", "2025-01-29", "2025-01-30",
		"2025-01-31", "2025-02-01", "2025-02-02",
	}, got)
}

func TestRange(t *testing.T) {
	start, _ := Parse("2024-12-30")
	end, _ := Parse("2025-01-02")
	assert.Equal(t, []string{"2024-12-30", "2024-12-31", "2025-01-01", "2025-01-02"}, Strings(Range(start, end)))
	assert.Empty(t, Range(end, start))
}

func TestSubDaysAndOffsetWeek(t *testing.T) {
	d := time.Date(2025, 3, 1, 15, 30, 0, 0, time.UTC)
	assert.Equal(t, "2025-02-28", Format(SubDays(d, 1)))
	assert.Equal(t, 0, SubDays(d, 1).Hour())
	assert.Equal(t, "2025-03-08", Format(OffsetWeek(d, 1)))
	assert.Equal(t, "2025-02-22", Format(OffsetWeek(d, -1)))
}

func TestParseRejectsMalformed(t *testing.T) {
	_, err := Parse("27.01.2025")
	assert.Error(t, err)
	assert.False(t, Valid("2025-13-01"))
	assert.True(t, Valid("2025-12-01"))
}
