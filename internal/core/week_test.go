package core

import (
	"testing"
	"time"
)

func TestWeekStart(t *testing.T) {
	cases := []struct {
		in   Date
		want Date
	}{
		{NewDate(2024, time.January, 10), NewDate(2024, time.January, 6)}, // Wednesday
		{NewDate(2024, time.January, 6), NewDate(2024, time.January, 6)},  // Saturday itself
		{NewDate(2024, time.January, 7), NewDate(2024, time.January, 6)},  // Sunday
		{NewDate(2024, time.January, 12), NewDate(2024, time.January, 6)}, // Friday, last day
		{NewDate(2024, time.January, 13), NewDate(2024, time.January, 13)},
		{NewDate(2024, time.March, 1), NewDate(2024, time.February, 24)}, // leap February
		{NewDate(2025, time.January, 2), NewDate(2024, time.December, 28)},
	}
	for _, tc := range cases {
		if got := tc.in.WeekStart(); !got.Equal(tc.want) {
			t.Errorf("WeekStart(%s) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestWeekStartProperties(t *testing.T) {
	// Walk a full year of dates and check the boundary invariants.
	d := NewDate(2024, time.January, 1)
	for i := 0; i < 366; i++ {
		ws := d.WeekStart()
		if ws.Weekday() != time.Saturday {
			t.Fatalf("WeekStart(%s) = %s is not a Saturday", d, ws)
		}
		if d.Before(ws) || d.After(ws.AddDays(6)) {
			t.Fatalf("%s outside its own week [%s, %s]", d, ws, ws.AddDays(6))
		}
		if again := ws.WeekStart(); !again.Equal(ws) {
			t.Fatalf("WeekStart not idempotent for %s: %s != %s", d, again, ws)
		}
		if we := d.WeekEnd(); !we.Equal(ws.AddDays(6)) {
			t.Fatalf("WeekEnd(%s) = %s, want %s", d, we, ws.AddDays(6))
		}
		d = d.AddDays(1)
	}
}

func TestWeekdayName(t *testing.T) {
	if got := NewDate(2024, time.January, 10).WeekdayName(); got != "Wednesday" {
		t.Errorf("WeekdayName = %q, want Wednesday", got)
	}
}

func TestMonthPeriod(t *testing.T) {
	cases := []struct {
		year        int
		month       time.Month
		first, last Date
	}{
		{2024, time.January, NewDate(2024, time.January, 1), NewDate(2024, time.January, 31)},
		{2024, time.February, NewDate(2024, time.February, 1), NewDate(2024, time.February, 29)},
		{2023, time.February, NewDate(2023, time.February, 1), NewDate(2023, time.February, 28)},
		{2024, time.December, NewDate(2024, time.December, 1), NewDate(2024, time.December, 31)},
	}
	for _, tc := range cases {
		first, last := MonthPeriod(tc.year, tc.month)
		if !first.Equal(tc.first) || !last.Equal(tc.last) {
			t.Errorf("MonthPeriod(%d, %s) = [%s, %s], want [%s, %s]",
				tc.year, tc.month, first, last, tc.first, tc.last)
		}
	}
}
