package utils

import (
	"testing"
	"time"
)

func TestStartOfWeek_MondayStart(t *testing.T) {
	cases := []struct {
		in   time.Time
		want time.Time
	}{
		{time.Date(2026, 3, 2, 14, 30, 0, 0, time.Local), time.Date(2026, 3, 2, 0, 0, 0, 0, time.Local)},  // a Monday
		{time.Date(2026, 3, 4, 9, 0, 0, 0, time.Local), time.Date(2026, 3, 2, 0, 0, 0, 0, time.Local)},    // Wednesday
		{time.Date(2026, 3, 8, 23, 59, 0, 0, time.Local), time.Date(2026, 3, 2, 0, 0, 0, 0, time.Local)},  // Sunday belongs to the prior Monday
		{time.Date(2026, 3, 9, 0, 0, 0, 0, time.Local), time.Date(2026, 3, 9, 0, 0, 0, 0, time.Local)},    // next Monday
	}
	for _, c := range cases {
		if got := StartOfWeek(c.in); !got.Equal(c.want) {
			t.Fatalf("StartOfWeek(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestTruncateToDate(t *testing.T) {
	in := time.Date(2026, 3, 2, 14, 30, 45, 12, time.Local)
	got := TruncateToDate(in)
	if got.Hour() != 0 || got.Minute() != 0 || got.Second() != 0 || got.Nanosecond() != 0 {
		t.Fatalf("TruncateToDate left time-of-day: %v", got)
	}
	if !SameDate(in, got) {
		t.Fatalf("TruncateToDate changed the date: %v -> %v", in, got)
	}
}

func TestSameDate(t *testing.T) {
	a := time.Date(2026, 3, 2, 23, 59, 0, 0, time.Local)
	b := time.Date(2026, 3, 2, 0, 1, 0, 0, time.Local)
	c := time.Date(2026, 3, 3, 0, 1, 0, 0, time.Local)
	if !SameDate(a, b) {
		t.Fatal("same calendar day must match")
	}
	if SameDate(a, c) {
		t.Fatal("different days must not match")
	}
}
