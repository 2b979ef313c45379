// Package dates converts post dates between their canonical YYYY-MM-DD form
// and the strings shown on pages and in the feed. Every conversion is anchored
// to UTC so a post never drifts to the previous day on hosts west of Greenwich.
package dates

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	// CanonicalLayout is the fixed-width form used for sorting and storage.
	CanonicalLayout = "2006-01-02"
	displayLayout   = "Jan 2, 2006"
	// RSS wants RFC 822 dates; GMT is the conventional zone name there.
	pubDateLayout = "Mon, 02 Jan 2006 15:04:05 GMT"
)

// timestampRe matches the YAML 1.1 timestamp forms that carry a time of day:
// a T or whitespace separator, optional fraction and an optional zone that is
// Z or a numeric offset whose hour may be a single digit.
var timestampRe = regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})(?:[Tt]|[ \t]+)(\d{1,2}):(\d{2}):(\d{2})(?:\.\d*)?(?:[ \t]*(Z|([-+])(\d{1,2})(?::?(\d{2}))?))?$`)

// Parse reads a canonical YYYY-MM-DD string into UTC midnight of that day.
func Parse(canonical string) (time.Time, error) {
	parts := strings.Split(canonical, "-")
	if len(parts) != 3 || len(parts[0]) != 4 || len(parts[1]) != 2 || len(parts[2]) != 2 {
		return time.Time{}, fmt.Errorf("date %q is not in YYYY-MM-DD form", canonical)
	}
	var ymd [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return time.Time{}, fmt.Errorf("date %q: %w", canonical, err)
		}
		ymd[i] = n
	}
	t := time.Date(ymd[0], time.Month(ymd[1]), ymd[2], 0, 0, 0, 0, time.UTC)
	// time.Date normalizes out-of-range values (2024-02-30 -> Mar 1); reject those.
	if t.Year() != ymd[0] || int(t.Month()) != ymd[1] || t.Day() != ymd[2] {
		return time.Time{}, fmt.Errorf("date %q does not exist", canonical)
	}
	return t, nil
}

// Canonical renders t's UTC calendar day as YYYY-MM-DD.
func Canonical(t time.Time) string {
	return t.UTC().Format(CanonicalLayout)
}

// Display renders a canonical date as "Jan 5, 2024".
func Display(canonical string) (string, error) {
	t, err := Parse(canonical)
	if err != nil {
		return "", err
	}
	return t.Format(displayLayout), nil
}

// PubDate renders a canonical date as an RFC 822 timestamp at UTC midnight.
func PubDate(canonical string) (string, error) {
	t, err := Parse(canonical)
	if err != nil {
		return "", err
	}
	return t.Format(pubDateLayout), nil
}

// Normalize converts a front matter date value to canonical form. Structured
// time values and timestamp strings are reduced to their UTC calendar day; a
// timestamp without a zone is read as UTC.
func Normalize(v any) (string, error) {
	switch d := v.(type) {
	case time.Time:
		return Canonical(d), nil
	case *time.Time:
		if d == nil {
			return "", fmt.Errorf("date is missing")
		}
		return Canonical(*d), nil
	case string:
		s := strings.TrimSpace(d)
		if s == "" {
			return "", fmt.Errorf("date is missing")
		}
		if len(s) == len(CanonicalLayout) {
			if _, err := Parse(s); err != nil {
				return "", err
			}
			return s, nil
		}
		t, err := parseTimestamp(s)
		if err != nil {
			return "", err
		}
		return Canonical(t), nil
	case nil:
		return "", fmt.Errorf("date is missing")
	default:
		return "", fmt.Errorf("unsupported date value %v (%T)", v, v)
	}
}

func parseTimestamp(s string) (time.Time, error) {
	m := timestampRe.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, fmt.Errorf("date %q is neither YYYY-MM-DD nor a timestamp", s)
	}
	n := make([]int, 6)
	for i := range n {
		n[i], _ = strconv.Atoi(m[i+1])
	}
	if n[3] > 23 || n[4] > 59 || n[5] > 60 {
		return time.Time{}, fmt.Errorf("date %q has an invalid time of day", s)
	}

	loc := time.UTC
	if m[8] != "" {
		hh, _ := strconv.Atoi(m[9])
		mm := 0
		if m[10] != "" {
			mm, _ = strconv.Atoi(m[10])
		}
		if hh > 23 || mm > 59 {
			return time.Time{}, fmt.Errorf("date %q has an invalid zone offset", s)
		}
		offset := hh*3600 + mm*60
		if m[8] == "-" {
			offset = -offset
		}
		loc = time.FixedZone("", offset)
	}

	t := time.Date(n[0], time.Month(n[1]), n[2], n[3], n[4], n[5], 0, loc)
	if t.Year() != n[0] || int(t.Month()) != n[1] || t.Day() != n[2] {
		return time.Time{}, fmt.Errorf("date %q does not exist", s)
	}
	return t, nil
}
