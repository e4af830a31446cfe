package mode

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Mode is derived from the wall clock on every minute tick.
type Mode string

const (
	Normal  Mode = "normal"
	Bedtime Mode = "bedtime"
	Wake    Mode = "wake"
)

const (
	DefaultBedtime = "22:00"
	DefaultGetUp   = "08:00"
)

// Schedule holds the two "HH:MM" times of day that force sleep and wake.
type Schedule struct {
	Bedtime string
	GetUp   string
}

func DefaultSchedule() Schedule {
	return Schedule{Bedtime: DefaultBedtime, GetUp: DefaultGetUp}
}

// Clock formats now the way schedule times are written.
func Clock(now time.Time) string {
	return now.Format("15:04")
}

// ParseClock parses "HH:MM" (single-digit hours allowed) into minutes past
// midnight.
func ParseClock(s string) (int, error) {
	h, m, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, fmt.Errorf("invalid time %q: want HH:MM", s)
	}
	hour, err := strconv.Atoi(h)
	if err != nil || hour < 0 || hour > 23 || len(h) > 2 {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	minute, err := strconv.Atoi(m)
	if err != nil || minute < 0 || minute > 59 || len(m) != 2 {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}
	return hour*60 + minute, nil
}

// FormatClock is the inverse of ParseClock.
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// Normalize validates both times and rewrites them as zero-padded HH:MM.
func (s Schedule) Normalize() (Schedule, error) {
	bed, err := ParseClock(s.Bedtime)
	if err != nil {
		return s, fmt.Errorf("bedtime: %w", err)
	}
	up, err := ParseClock(s.GetUp)
	if err != nil {
		return s, fmt.Errorf("get-up time: %w", err)
	}
	if bed == up {
		return s, fmt.Errorf("bedtime and get-up time are both %s", FormatClock(bed))
	}
	return Schedule{Bedtime: FormatClock(bed), GetUp: FormatClock(up)}, nil
}

// Derive compares the current minute with the schedule. Invalid schedule
// times never match.
func Derive(now time.Time, s Schedule) Mode {
	current := now.Hour()*60 + now.Minute()
	if up, err := ParseClock(s.GetUp); err == nil && up == current {
		return Wake
	}
	if bed, err := ParseClock(s.Bedtime); err == nil && bed == current {
		return Bedtime
	}
	return Normal
}

// InSleepWindow reports whether now falls between bedtime (inclusive) and
// get-up time (exclusive), including windows that cross midnight.
func InSleepWindow(now time.Time, s Schedule) bool {
	bed, err := ParseClock(s.Bedtime)
	if err != nil {
		return false
	}
	up, err := ParseClock(s.GetUp)
	if err != nil || bed == up {
		return false
	}
	t := now.Hour()*60 + now.Minute()
	if bed < up {
		return t >= bed && t < up
	}
	return t >= bed || t < up
}

// Describe returns a one-line summary such as "asleep until 08:00".
func Describe(now time.Time, s Schedule) string {
	if InSleepWindow(now, s) {
		return "asleep until " + s.GetUp
	}
	return "awake until " + s.Bedtime
}
