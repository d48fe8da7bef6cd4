package hours

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func denver(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(TimezoneName)
	require.NoError(t, err)
	return loc
}

func TestIsOpenMatchesScheduleTable(t *testing.T) {
	loc := denver(t)
	cal := NewCalendar(DefaultSchedule, loc)

	tests := []struct {
		name string
		at   time.Time
		open bool
	}{
		{"weekday mid-morning", time.Date(2025, 6, 11, 10, 0, 0, 0, loc), true},
		{"weekday at opening minute", time.Date(2025, 6, 11, 7, 0, 0, 0, loc), true},
		{"weekday just before opening", time.Date(2025, 6, 11, 6, 59, 0, 0, loc), false},
		{"weekday at closing minute", time.Date(2025, 6, 11, 17, 0, 0, 0, loc), false},
		{"weekday evening", time.Date(2025, 6, 11, 20, 30, 0, 0, loc), false},
		{"saturday morning", time.Date(2025, 6, 14, 9, 0, 0, 0, loc), true},
		{"saturday afternoon", time.Date(2025, 6, 14, 13, 0, 0, 0, loc), false},
		{"sunday", time.Date(2025, 6, 15, 10, 0, 0, 0, loc), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := cal.At(tt.at)
			require.Equal(t, tt.open, snap.IsOpen)
		})
	}
}

func TestNextOpenDescriptions(t *testing.T) {
	loc := denver(t)
	cal := NewCalendar(DefaultSchedule, loc)

	tests := []struct {
		name     string
		at       time.Time
		nextOpen string
	}{
		{"before opening same day", time.Date(2025, 6, 11, 6, 30, 0, 0, loc), "today at 7:00 AM"},
		{"wednesday evening", time.Date(2025, 6, 11, 18, 0, 0, 0, loc), "Thursday at 7:00 AM"},
		{"saturday afternoon skips sunday", time.Date(2025, 6, 14, 13, 0, 0, 0, loc), "Monday at 7:00 AM"},
		{"sunday", time.Date(2025, 6, 15, 10, 0, 0, 0, loc), "Monday at 7:00 AM"},
		{"friday night", time.Date(2025, 6, 13, 22, 0, 0, 0, loc), "Saturday at 8:00 AM"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := cal.At(tt.at)
			require.False(t, snap.IsOpen)
			require.Equal(t, tt.nextOpen, snap.NextOpen)
		})
	}
}

func TestNextOpenEmptyWhileOpen(t *testing.T) {
	loc := denver(t)
	cal := NewCalendar(DefaultSchedule, loc)

	snap := cal.At(time.Date(2025, 6, 11, 10, 0, 0, 0, loc))
	require.True(t, snap.IsOpen)
	require.Empty(t, snap.NextOpen)
}

func TestCandidateDatesAreStrictlyFuture(t *testing.T) {
	loc := denver(t)
	cal := NewCalendar(DefaultSchedule, loc)

	// A Monday: "next Monday" must still advance a full week.
	monday := time.Date(2025, 6, 9, 8, 0, 0, 0, loc)
	snap := cal.At(monday)

	require.Equal(t, "Monday, June 16, 2025", snap.NextMonday)
	require.Equal(t, "Tuesday, June 10, 2025", snap.NextTuesday)
	require.Equal(t, "Tuesday, June 10, 2025", snap.TomorrowDate)
	require.Equal(t, "Tuesday, June 10, 2025", snap.NextBusinessDay)
}

func TestNextWeekdayLandsOnNamedDay(t *testing.T) {
	loc := denver(t)

	for offset := 0; offset < 7; offset++ {
		at := time.Date(2025, 6, 9, 12, 0, 0, 0, loc).AddDate(0, 0, offset)

		nextMon := nextWeekday(at, time.Monday)
		require.Equal(t, time.Monday, nextMon.Weekday())
		require.True(t, nextMon.After(at), "next Monday from %s must be strictly future", at)

		nextTue := nextWeekday(at, time.Tuesday)
		require.Equal(t, time.Tuesday, nextTue.Weekday())
		require.True(t, nextTue.After(at))
	}
}

func TestTomorrowOmittedWhenFullyClosed(t *testing.T) {
	loc := denver(t)
	cal := NewCalendar(DefaultSchedule, loc)

	// Saturday: tomorrow is Sunday, closed all day.
	snap := cal.At(time.Date(2025, 6, 14, 9, 0, 0, 0, loc))
	require.Empty(t, snap.TomorrowDate)
	require.Equal(t, "Monday, June 16, 2025", snap.NextBusinessDay)
}

func TestSnapshotScheduleAndCurrentTime(t *testing.T) {
	loc := denver(t)
	cal := NewCalendar(DefaultSchedule, loc)

	snap := cal.At(time.Date(2025, 6, 11, 10, 15, 0, 0, loc))
	require.Equal(t, "Wednesday, June 11, 2025 at 10:15 AM", snap.CurrentTime)
	require.Contains(t, snap.Schedule, "Monday: 7:00 AM to 5:00 PM")
	require.Contains(t, snap.Schedule, "Saturday: 8:00 AM to 12:00 PM")
	require.Contains(t, snap.Schedule, "Sunday: closed")
}
