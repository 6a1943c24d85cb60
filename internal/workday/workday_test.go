package workday_test

import (
	"testing"
	"time"

	"spice-hr/internal/workday"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestIsWeekend(t *testing.T) {
	assert.False(t, workday.IsWeekend(date(2024, time.January, 1)))  // Monday
	assert.False(t, workday.IsWeekend(date(2024, time.January, 5)))  // Friday
	assert.True(t, workday.IsWeekend(date(2024, time.January, 6)))   // Saturday
	assert.True(t, workday.IsWeekend(date(2024, time.January, 7)))   // Sunday
	assert.False(t, workday.IsWeekend(date(2024, time.January, 8)))  // Monday
}

func TestNextWorkingDay(t *testing.T) {
	t.Run("midweek advances one day", func(t *testing.T) {
		got := workday.NextWorkingDay(date(2024, time.January, 2)) // Tuesday
		assert.Equal(t, date(2024, time.January, 3), got)
	})

	t.Run("friday skips the weekend", func(t *testing.T) {
		got := workday.NextWorkingDay(date(2024, time.January, 5)) // Friday
		assert.Equal(t, date(2024, time.January, 8), got)
	})

	t.Run("saturday lands on monday", func(t *testing.T) {
		got := workday.NextWorkingDay(date(2024, time.January, 6))
		assert.Equal(t, date(2024, time.January, 8), got)
	})
}

func TestCountWorkingDays(t *testing.T) {
	t.Run("single weekday counts one", func(t *testing.T) {
		d := date(2024, time.January, 3) // Wednesday
		assert.Equal(t, 1, workday.CountWorkingDays(d, d))
	})

	t.Run("full monday to friday week", func(t *testing.T) {
		got := workday.CountWorkingDays(date(2024, time.January, 1), date(2024, time.January, 5))
		assert.Equal(t, 5, got)
	})

	t.Run("range spanning a weekend", func(t *testing.T) {
		// Thu Jan 4 .. Tue Jan 9: Thu, Fri, Mon, Tue
		got := workday.CountWorkingDays(date(2024, time.January, 4), date(2024, time.January, 9))
		assert.Equal(t, 4, got)
	})

	t.Run("weekend only range counts zero", func(t *testing.T) {
		got := workday.CountWorkingDays(date(2024, time.January, 6), date(2024, time.January, 7))
		assert.Equal(t, 0, got)
	})

	t.Run("end before start counts zero", func(t *testing.T) {
		got := workday.CountWorkingDays(date(2024, time.January, 5), date(2024, time.January, 1))
		assert.Equal(t, 0, got)
	})

	t.Run("inductive recurrence over a month", func(t *testing.T) {
		start := date(2024, time.January, 1)
		for end := start.AddDate(0, 0, 1); end.Month() == time.January; end = end.AddDate(0, 0, 1) {
			want := workday.CountWorkingDays(start, end.AddDate(0, 0, -1))
			if !workday.IsWeekend(end) {
				want++
			}
			assert.Equal(t, want, workday.CountWorkingDays(start, end), "end=%s", end.Format("2006-01-02"))
		}
	})

	t.Run("time of day is ignored", func(t *testing.T) {
		start := time.Date(2024, time.January, 1, 23, 30, 0, 0, time.UTC)
		end := time.Date(2024, time.January, 5, 0, 15, 0, 0, time.UTC)
		assert.Equal(t, 5, workday.CountWorkingDays(start, end))
	})
}
