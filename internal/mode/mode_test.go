package mode

import (
	"testing"
	"time"
)

func at(hhmm string) time.Time {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		panic(err)
	}
	return time.Date(2024, 6, 1, t.Hour(), t.Minute(), 30, 0, time.Local)
}

func TestDerive(t *testing.T) {
	s := DefaultSchedule()
	tests := []struct {
		name     string
		now      string
		schedule Schedule
		expected Mode
	}{
		{name: "bedtime minute", now: "22:00", schedule: s, expected: Bedtime},
		{name: "wake minute", now: "08:00", schedule: s, expected: Wake},
		{name: "minute after bedtime", now: "22:01", schedule: s, expected: Normal},
		{name: "afternoon", now: "14:37", schedule: s, expected: Normal},
		{name: "unpadded schedule", now: "07:30", schedule: Schedule{Bedtime: "23:15", GetUp: "7:30"}, expected: Wake},
		{name: "invalid schedule never matches", now: "22:00", schedule: Schedule{Bedtime: "late", GetUp: "early"}, expected: Normal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Derive(at(tt.now), tt.schedule)
			if result != tt.expected {
				t.Errorf("Derive(%s) = %q, want %q", tt.now, result, tt.expected)
			}
		})
	}
}

func TestInSleepWindow(t *testing.T) {
	tests := []struct {
		name     string
		now      string
		schedule Schedule
		expected bool
	}{
		{name: "before midnight", now: "23:30", schedule: DefaultSchedule(), expected: true},
		{name: "after midnight", now: "03:00", schedule: DefaultSchedule(), expected: true},
		{name: "at bedtime", now: "22:00", schedule: DefaultSchedule(), expected: true},
		{name: "at get-up", now: "08:00", schedule: DefaultSchedule(), expected: false},
		{name: "midday", now: "12:00", schedule: DefaultSchedule(), expected: false},
		{name: "day sleeper inside", now: "10:00", schedule: Schedule{Bedtime: "09:00", GetUp: "17:00"}, expected: true},
		{name: "day sleeper outside", now: "18:00", schedule: Schedule{Bedtime: "09:00", GetUp: "17:00"}, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InSleepWindow(at(tt.now), tt.schedule); got != tt.expected {
				t.Errorf("InSleepWindow(%s) = %v, want %v", tt.now, got, tt.expected)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	got, err := Schedule{Bedtime: "9:05", GetUp: " 07:00"}.Normalize()
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if got.Bedtime != "09:05" || got.GetUp != "07:00" {
		t.Errorf("Normalize = %+v", got)
	}

	for _, bad := range []Schedule{
		{Bedtime: "24:00", GetUp: "08:00"},
		{Bedtime: "22:60", GetUp: "08:00"},
		{Bedtime: "22:00", GetUp: "8"},
		{Bedtime: "22:00", GetUp: "22:00"},
		{Bedtime: "22:0", GetUp: "08:00"},
	} {
		if _, err := bad.Normalize(); err == nil {
			t.Errorf("Normalize(%+v) accepted an invalid schedule", bad)
		}
	}
}

func TestDescribe(t *testing.T) {
	s := DefaultSchedule()
	if got := Describe(at("23:00"), s); got != "asleep until 08:00" {
		t.Errorf("Describe at night = %q", got)
	}
	if got := Describe(at("09:00"), s); got != "awake until 22:00" {
		t.Errorf("Describe by day = %q", got)
	}
}

func TestClock(t *testing.T) {
	if got := Clock(at("07:05")); got != "07:05" {
		t.Errorf("Clock = %q, want 07:05", got)
	}
}
