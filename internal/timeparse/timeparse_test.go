// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package timeparse

import (
	"testing"
	"time"
)

// Mid-year reference so "date this year" cases exist on both sides of it.
var reference = time.Date(2026, time.June, 15, 12, 0, 0, 0, KST)

func TestResolveRelative(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
	}{
		{"30s", 30 * time.Second},
		{"5m", 5 * time.Minute},
		{"3h", 3 * time.Hour},
		{"1s", time.Second},
		{"120m", 120 * time.Minute},
		{"23H", 23 * time.Hour},
		{"45S", 45 * time.Second},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ResolveRelative(tt.in, reference)
			if !ok {
				t.Fatalf("ResolveRelative(%q) failed", tt.in)
			}
			want := reference.Add(-tt.want)
			if !got.Equal(want) {
				t.Errorf("ResolveRelative(%q) = %v, want %v", tt.in, got, want)
			}
		})
	}
}

func TestResolveRelativeRejects(t *testing.T) {
	for _, in := range []string{"5d", "5w", "abc", "", "5", "h5", "Jan 24", "-5h"} {
		if _, ok := ResolveRelative(in, reference); ok {
			t.Errorf("ResolveRelative(%q) should fail", in)
		}
	}
}

func TestResolveDateThisYear(t *testing.T) {
	got, ok := ResolveDate("Jan 24", reference)
	if !ok {
		t.Fatal("ResolveDate failed")
	}
	want := time.Date(2026, time.January, 24, 0, 0, 0, 0, KST)
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestResolveDateFutureRollsBackYear(t *testing.T) {
	// Dec 31 is after the June reference, so it must belong to last year.
	got, ok := ResolveDate("Dec 31", reference)
	if !ok {
		t.Fatal("ResolveDate failed")
	}
	if got.Year() != reference.Year()-1 {
		t.Errorf("year = %d, want %d", got.Year(), reference.Year()-1)
	}
}

func TestResolveDatePastStaysCurrentYear(t *testing.T) {
	got, ok := ResolveDate("Mar 1", reference)
	if !ok {
		t.Fatal("ResolveDate failed")
	}
	if got.Year() != reference.Year() {
		t.Errorf("year = %d, want %d", got.Year(), reference.Year())
	}
}

func TestResolveDateWithYear(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"Jan 24, 2025", time.Date(2025, time.January, 24, 0, 0, 0, 0, KST)},
		{"Dec 31 2024", time.Date(2024, time.December, 31, 0, 0, 0, 0, KST)},
		{"Feb 29, 2024", time.Date(2024, time.February, 29, 0, 0, 0, 0, KST)},
		{"jul 4, 2023", time.Date(2023, time.July, 4, 0, 0, 0, 0, KST)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ResolveDate(tt.in, reference)
			if !ok {
				t.Fatalf("ResolveDate(%q) failed", tt.in)
			}
			if !got.Equal(tt.want) {
				t.Errorf("ResolveDate(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestResolveDateRejects(t *testing.T) {
	invalid := []string{
		"Feb 30",
		"Feb 31, 2026",
		"Feb 29, 2023", // not a leap year
		"Xyz 24",
		"January 24", // full month names never appear
		"24 Jan",
		"2026-01-24",
		"",
		"5h",
	}
	for _, in := range invalid {
		if _, ok := ResolveDate(in, reference); ok {
			t.Errorf("ResolveDate(%q) should fail", in)
		}
	}
}

func TestResolveTriesAllFormats(t *testing.T) {
	if got, ok := Resolve("2h", reference); !ok || !got.Equal(reference.Add(-2*time.Hour)) {
		t.Errorf("Resolve(2h) = %v, %v", got, ok)
	}
	if _, ok := Resolve("Jan 24", reference); !ok {
		t.Error("Resolve(Jan 24) failed")
	}
	if _, ok := Resolve("Jan 24, 2025", reference); !ok {
		t.Error("Resolve(Jan 24, 2025) failed")
	}
	for _, in := range []string{"invalid", "", "   "} {
		if _, ok := Resolve(in, reference); ok {
			t.Errorf("Resolve(%q) should fail", in)
		}
	}
}

func TestWithinWindow(t *testing.T) {
	tests := []struct {
		in    string
		hours int
		want  bool
	}{
		{"1h", 24, true},
		{"12h", 24, true},
		{"23h", 24, true},
		{"24h", 24, true}, // boundary is inclusive
		{"25h", 24, false},
		{"5m", 24, true},
		{"30s", 24, true},
		{"2h", 1, false},
		// Midnight of Jun 14 is 36h before the noon reference.
		{"Jun 14", 24, false},
		{"Jun 14", 48, true},
		{"Jun 15", 24, true},
		// Fail-closed on anything unparseable.
		{"", 24, false},
		{"garbage", 24, false},
		{"Feb 30", 24, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := WithinWindow(tt.in, tt.hours, reference); got != tt.want {
				t.Errorf("WithinWindow(%q, %d) = %v, want %v", tt.in, tt.hours, got, tt.want)
			}
		})
	}
}
