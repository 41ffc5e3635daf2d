// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package timeparse resolves the timestamp strings X displays on timeline
// posts into absolute instants. Three formats appear in the wild:
//
//	relative:          "5s", "30m", "3h"
//	date, no year:     "Jan 24"
//	date with year:    "Jan 24, 2025" (comma optional)
//
// All resolution happens against a single reference instant in KST so that
// window comparisons never drift across timezones.
package timeparse

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// KST is the fixed display timezone for all timestamp resolution.
var KST = time.FixedZone("KST", 9*60*60)

var (
	relativePattern     = regexp.MustCompile(`(?i)^(\d+)([smh])$`)
	dateThisYearPattern = regexp.MustCompile(`(?i)^(Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)\s+(\d{1,2})$`)
	dateWithYearPattern = regexp.MustCompile(`(?i)^(Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)\s+(\d{1,2}),?\s+(\d{4})$`)
)

var monthsByToken = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// Now returns the current instant in KST, the reference used when callers do
// not supply one.
func Now() time.Time {
	return time.Now().In(KST)
}

// ResolveRelative parses a relative timestamp ("5s", "30m", "3h") as an
// offset before ref. The second return value is false when the string does
// not match the relative grammar.
func ResolveRelative(s string, ref time.Time) (time.Time, bool) {
	m := relativePattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return time.Time{}, false
	}

	n, err := strconv.Atoi(m[1])
	if err != nil {
		return time.Time{}, false
	}

	var unit time.Duration
	switch strings.ToLower(m[2]) {
	case "s":
		unit = time.Second
	case "m":
		unit = time.Minute
	case "h":
		unit = time.Hour
	default:
		return time.Time{}, false
	}

	return ref.Add(-time.Duration(n) * unit), true
}

// ResolveDate parses a calendar timestamp ("Jan 24", "Jan 24, 2025") to
// midnight KST of that date. For dates without a year, the reference's year
// is assumed; a resulting date strictly after ref rolls back one year, since
// the site never displays future dates.
func ResolveDate(s string, ref time.Time) (time.Time, bool) {
	s = strings.TrimSpace(s)

	if m := dateWithYearPattern.FindStringSubmatch(s); m != nil {
		month := monthsByToken[strings.ToLower(m[1])]
		day, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		return midnight(year, month, day)
	}

	if m := dateThisYearPattern.FindStringSubmatch(s); m != nil {
		month := monthsByToken[strings.ToLower(m[1])]
		day, _ := strconv.Atoi(m[2])

		resolved, ok := midnight(ref.Year(), month, day)
		if !ok {
			return time.Time{}, false
		}
		if resolved.After(ref) {
			return midnight(ref.Year()-1, month, day)
		}
		return resolved, true
	}

	return time.Time{}, false
}

// Resolve parses any supported timestamp format against ref. Relative forms
// are tried first, as they are the most common for recent posts.
func Resolve(s string, ref time.Time) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	if t, ok := ResolveRelative(s, ref); ok {
		return t, true
	}
	return ResolveDate(s, ref)
}

// WithinWindow reports whether the timestamp string resolves to an instant
// within the last `hours` hours of ref. Unparseable input is never within
// the window.
func WithinWindow(s string, hours int, ref time.Time) bool {
	resolved, ok := Resolve(s, ref)
	if !ok {
		return false
	}
	cutoff := ref.Add(-time.Duration(hours) * time.Hour)
	return !resolved.Before(cutoff)
}

// midnight builds the start of the given date in KST, rejecting day-of-month
// values that do not exist in that year (time.Date would normalize Feb 30 to
// Mar 2 instead of failing).
func midnight(year int, month time.Month, day int) (time.Time, bool) {
	t := time.Date(year, month, day, 0, 0, 0, 0, KST)
	if t.Year() != year || t.Month() != month || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}
