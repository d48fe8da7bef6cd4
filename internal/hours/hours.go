// Package hours decides whether the business is open and pre-computes every
// date the assistant is allowed to speak. All date arithmetic for a call
// happens here, once, so the conversational layer never does its own math:
// a miscalculated "tomorrow" read out loud becomes a broken promise.
package hours

import (
	"fmt"
	"strings"
	"time"
)

// TimezoneName is the single business timezone all schedules are expressed
// in. Per-client timezones are a known simplification we have not needed.
const TimezoneName = "America/Denver"

// longDateLayout is the format customer-facing dates are spoken in.
const longDateLayout = "Monday, January 2, 2006"

// DaySchedule is one weekday's open window in local hours. The zero value
// means closed all day.
type DaySchedule struct {
	OpenHour  int
	CloseHour int
}

// Closed reports whether the day has no open window.
func (d DaySchedule) Closed() bool {
	return d.CloseHour <= d.OpenHour
}

// WeeklySchedule maps weekdays to their open windows. Absent weekdays are closed.
type WeeklySchedule map[time.Weekday]DaySchedule

// DefaultSchedule is the yard's posted hours: weekdays 7–5, Saturday
// mornings, closed Sunday.
var DefaultSchedule = WeeklySchedule{
	time.Monday:    {OpenHour: 7, CloseHour: 17},
	time.Tuesday:   {OpenHour: 7, CloseHour: 17},
	time.Wednesday: {OpenHour: 7, CloseHour: 17},
	time.Thursday:  {OpenHour: 7, CloseHour: 17},
	time.Friday:    {OpenHour: 7, CloseHour: 17},
	time.Saturday:  {OpenHour: 8, CloseHour: 12},
}

// Snapshot is the derived business-hours state for one instant. It is
// recomputed on every call and never persisted, so it can never go stale.
type Snapshot struct {
	IsOpen      bool
	CurrentTime string // local time, long form
	NextOpen    string // "" while open; "today at 7:00 AM" or "Monday at 7:00 AM"
	Schedule    string // human-readable weekly schedule

	// Candidate callback days, all strictly in the future and all long-form.
	TomorrowDate    string // "" when tomorrow is fully closed
	NextBusinessDay string
	NextMonday      string
	NextTuesday     string
}

// Calendar evaluates a weekly schedule in one fixed location. It is a pure
// value: At does no I/O and is fully determined by its argument.
type Calendar struct {
	schedule WeeklySchedule
	loc      *time.Location
}

// NewCalendar creates a calendar over the given schedule and location.
func NewCalendar(schedule WeeklySchedule, loc *time.Location) *Calendar {
	return &Calendar{schedule: schedule, loc: loc}
}

// Default returns a calendar over the posted schedule in the business timezone.
func Default() (*Calendar, error) {
	loc, err := time.LoadLocation(TimezoneName)
	if err != nil {
		return nil, fmt.Errorf("failed to load business timezone: %w", err)
	}
	return NewCalendar(DefaultSchedule, loc), nil
}

// At computes the snapshot for the given instant.
func (c *Calendar) At(now time.Time) Snapshot {
	local := now.In(c.loc)

	snap := Snapshot{
		CurrentTime:     local.Format("Monday, January 2, 2006 at 3:04 PM"),
		Schedule:        c.describeSchedule(),
		NextBusinessDay: c.nextOpenDay(local).Format(longDateLayout),
		NextMonday:      nextWeekday(local, time.Monday).Format(longDateLayout),
		NextTuesday:     nextWeekday(local, time.Tuesday).Format(longDateLayout),
	}

	tomorrow := local.AddDate(0, 0, 1)
	if !c.dayFor(tomorrow).Closed() {
		snap.TomorrowDate = tomorrow.Format(longDateLayout)
	}

	day := c.dayFor(local)
	minute := local.Hour()*60 + local.Minute()
	if !day.Closed() && minute >= day.OpenHour*60 && minute < day.CloseHour*60 {
		snap.IsOpen = true
		return snap
	}

	snap.NextOpen = c.describeNextOpen(local, day, minute)
	return snap
}

// describeNextOpen finds the next open slot relative to the local instant.
// Still before today's opening it is "today at HH:MM"; otherwise walk forward
// day by day, skipping fully-closed days.
func (c *Calendar) describeNextOpen(local time.Time, today DaySchedule, minute int) string {
	if !today.Closed() && minute < today.OpenHour*60 {
		return fmt.Sprintf("today at %s", formatHour(today.OpenHour))
	}

	for i := 1; i <= 7; i++ {
		d := local.AddDate(0, 0, i)
		sched := c.dayFor(d)
		if sched.Closed() {
			continue
		}
		return fmt.Sprintf("%s at %s", d.Weekday().String(), formatHour(sched.OpenHour))
	}

	// Unreachable with any schedule that has at least one open day.
	return ""
}

// nextOpenDay returns the first non-closed day strictly after the local instant.
func (c *Calendar) nextOpenDay(local time.Time) time.Time {
	d := local.AddDate(0, 0, 1)
	for i := 0; i < 7; i++ {
		if !c.dayFor(d).Closed() {
			return d
		}
		d = d.AddDate(0, 0, 1)
	}
	return d
}

// nextWeekday returns the next occurrence of the named weekday, always at
// least one day out even when the instant already falls on that weekday.
// "Next Monday" said on a Monday means the following week.
func nextWeekday(local time.Time, target time.Weekday) time.Time {
	d := local.AddDate(0, 0, 1)
	for d.Weekday() != target {
		d = d.AddDate(0, 0, 1)
	}
	return d
}

func (c *Calendar) dayFor(t time.Time) DaySchedule {
	return c.schedule[t.Weekday()]
}

// describeSchedule renders the weekly schedule as one spoken-friendly line.
func (c *Calendar) describeSchedule() string {
	var parts []string
	for wd := time.Monday; ; wd = (wd + 1) % 7 {
		sched := c.schedule[wd]
		if sched.Closed() {
			parts = append(parts, fmt.Sprintf("%s: closed", wd.String()))
		} else {
			parts = append(parts, fmt.Sprintf("%s: %s to %s",
				wd.String(), formatHour(sched.OpenHour), formatHour(sched.CloseHour)))
		}
		if wd == time.Sunday {
			break
		}
	}
	return strings.Join(parts, ", ")
}

// formatHour renders a local hour as spoken clock time, e.g. "7:00 AM".
func formatHour(hour int) string {
	return time.Date(2000, 1, 1, hour, 0, 0, 0, time.UTC).Format("3:04 PM")
}
