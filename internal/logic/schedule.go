package logic

import (
	"slices"
	"strings"
	"time"
)

// Clock is the wall-clock view used for routine matching.
type Clock struct {
	Day  string // SUNDAY..SATURDAY, or UNKNOWN
	Time string // HH:MM
}

// UnknownClock is used while the system clock is unavailable. It matches
// no routine day.
var UnknownClock = Clock{Day: "UNKNOWN", Time: "00:00"}

// minSyncedYear guards against an RTC-less board that has booted without
// network time and still reports the epoch.
const minSyncedYear = 2020

// NewClock converts t into a Clock. A zero or unsynchronised time yields
// UnknownClock.
func NewClock(t time.Time) Clock {
	if t.IsZero() || t.Year() < minSyncedYear {
		return UnknownClock
	}
	return Clock{
		Day:  strings.ToUpper(t.Weekday().String()),
		Time: t.Format("15:04"),
	}
}

// ValidClock reports whether s is a valid 24h HH:MM time.
func ValidClock(s string) bool {
	_, err := time.Parse("15:04", s)
	return err == nil && len(s) == 5
}

// ClockMinutes converts HH:MM into minutes since midnight. Each half is read
// as a leading integer, so malformed text degrades to 0 rather than failing.
func ClockMinutes(s string) int {
	hh, mm := s, ""
	if i := strings.IndexByte(s, ':'); i >= 0 {
		hh, mm = s[:i], s[i+1:]
	}
	h, _ := leadingInt(hh)
	m, _ := leadingInt(mm)
	return h*60 + m
}

// InTimeRange reports whether now falls inside [start, end], inclusive.
// When start is after end the range wraps past midnight.
func InTimeRange(now, start, end string) bool {
	cur := ClockMinutes(now)
	from := ClockMinutes(start)
	to := ClockMinutes(end)
	if from <= to {
		return cur >= from && cur <= to
	}
	return cur >= from || cur <= to
}

// OnDay reports whether the routine is scheduled for day.
func (r Routine) OnDay(day string) bool {
	return slices.Contains(r.Days, day)
}

// ConditionMet reports whether the humidity satisfies the routine's
// threshold: above it for a dry routine, below it otherwise.
func (r Routine) ConditionMet(humidity float64) bool {
	if r.IsDry {
		return humidity > r.Threshold()
	}
	return humidity < r.Threshold()
}

// Mode returns the actuation mode the routine asks for.
func (r Routine) Mode() Mode {
	if r.IsDry {
		return ModeDehumidify
	}
	return ModeHumidify
}

// Match is the routine selected by MatchRoutine.
type Match struct {
	Index   int
	Routine Routine
}

// MatchRoutine returns the first routine, in collection order, that is
// scheduled for the current day and time, whose humidity condition holds
// and whose environment is within bounds. Evaluation stops at the first
// match.
func MatchRoutine(now Clock, reading Reading, bounds SafetyBounds, routines *Routines) (Match, bool) {
	if routines == nil {
		return Match{}, false
	}
	safe := IsSafe(reading, bounds)
	for i, r := range routines.All() {
		if !r.IsActive || !r.OnDay(now.Day) {
			continue
		}
		if !InTimeRange(now.Time, r.StartTime, r.EndTime) {
			continue
		}
		if !r.ConditionMet(reading.Humidity) || !safe {
			continue
		}
		return Match{Index: i, Routine: r}, true
	}
	return Match{}, false
}
