// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package views normalizes the view-count strings X displays on posts.
// Counts appear plain ("500"), grouped ("1,200", "1.200", "1 200"), or
// abbreviated ("1.2K", "15M", "1B"), and the decimal separator may be a
// comma or a dot depending on locale.
package views

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	abbreviatedPattern = regexp.MustCompile(`^\s*([0-9]+(?:[.,][0-9]+)?)\s*([KMBkmb])\s*$`)
	plainPattern       = regexp.MustCompile(`^\s*([0-9]{1,3}(?:[,.\s][0-9]{3})*|[0-9]+)\s*$`)
	nonDigits          = regexp.MustCompile(`[^0-9]`)
)

var suffixMultipliers = map[string]int{
	"k": 1_000,
	"m": 1_000_000,
	"b": 1_000_000_000,
}

// Parse converts a displayed view-count string to an integer. The second
// return value is false when the string matches neither grammar.
func Parse(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	// Abbreviated format first; it is what X shows for almost every post.
	if m := abbreviatedPattern.FindStringSubmatch(s); m != nil {
		mult, ok := suffixMultipliers[strings.ToLower(m[2])]
		if !ok {
			return 0, false
		}
		return parseScaled(m[1], mult)
	}

	if m := plainPattern.FindStringSubmatch(s); m != nil {
		cleaned := stripGrouping(m[1])
		n, err := strconv.Atoi(cleaned)
		if err != nil {
			return 0, false
		}
		return n, true
	}

	return 0, false
}

// parseScaled multiplies a decimal string by mult using integer arithmetic,
// truncating any fractional remainder toward zero ("1.99K" is 1990,
// "1.2345K" is 1234). Float multiplication would misreport values like 1.99
// whose binary representation falls just short.
func parseScaled(number string, mult int) (int, bool) {
	number = strings.ReplaceAll(number, ",", ".")
	whole, frac, hasFrac := strings.Cut(number, ".")

	n, err := strconv.Atoi(whole)
	if err != nil {
		return 0, false
	}
	total := n * mult

	if hasFrac && frac != "" {
		f, err := strconv.Atoi(frac)
		if err != nil {
			return 0, false
		}
		scale := 1
		for i := 0; i < len(frac); i++ {
			scale *= 10
		}
		total += f * mult / scale
	}

	return total, true
}

// stripGrouping removes thousands separators from a grouped number string.
// A dot is treated as a thousands separator whenever every digit group after
// it has exactly three digits; the grouped grammar guarantees that here, so
// dots, commas, and spaces are all stripped positionally. Mixed separators
// are stripped as noise.
func stripGrouping(s string) string {
	s = strings.ReplaceAll(s, " ", "")

	dots := strings.Count(s, ".")
	commas := strings.Count(s, ",")

	switch {
	case commas > 0 && dots == 0:
		return strings.ReplaceAll(s, ",", "")
	case dots > 0 && commas == 0:
		return strings.ReplaceAll(s, ".", "")
	default:
		return nonDigits.ReplaceAllString(s, "")
	}
}

// Format renders an integer count the way X abbreviates it: one decimal
// place with a K/M/B suffix above each scale boundary, trailing ".0"
// dropped, plain digits below 1000. Abbreviation is lossy; Parse(Format(v))
// equals v only for counts with at most one significant fractional digit at
// their scale.
func Format(count int) string {
	switch {
	case count >= 1_000_000_000:
		return formatScaled(count, 1_000_000_000, "B")
	case count >= 1_000_000:
		return formatScaled(count, 1_000_000, "M")
	case count >= 1_000:
		return formatScaled(count, 1_000, "K")
	default:
		return strconv.Itoa(count)
	}
}

func formatScaled(count, scale int, suffix string) string {
	s := fmt.Sprintf("%.1f", float64(count)/float64(scale))
	s = strings.TrimSuffix(s, ".0")
	return s + suffix
}
