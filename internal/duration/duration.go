// Package duration converts step durations between the "H:MM" strings
// shown to cooks and the integer minutes stored in recipe documents.
package duration

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ErrMalformedDuration is returned by ParseMinutes for strings that are
// not of the form "M", "MM", "H:MM" or "HH:MM".
var ErrMalformedDuration = errors.New("malformed duration")

var hmSpec = regexp.MustCompile(`^((\d\d?):)?(\d\d?)$`)

// MaxMinutes is the largest value that survives FromMinutes followed by
// ToMinutes ("99:59").
const MaxMinutes = 99*60 + 59

// ToMinutes converts "H:MM" (hours optional) to whole minutes. Strings that
// do not match exactly, surrounding whitespace included, yield 0. Existing
// documents rely on this lenient behavior; use ParseMinutes where a bad
// value should be reported.
func ToMinutes(spec string) int {
	m, ok := match(spec)
	if !ok {
		return 0
	}
	return m
}

// ParseMinutes is the strict form of ToMinutes. Surrounding whitespace is
// trimmed first so values typed on a command line or query string parse.
func ParseMinutes(spec string) (int, error) {
	m, ok := match(strings.TrimSpace(spec))
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrMalformedDuration, spec)
	}
	return m, nil
}

func match(spec string) (int, bool) {
	groups := hmSpec.FindStringSubmatch(spec)
	if groups == nil {
		return 0, false
	}

	hours := 0
	if groups[2] != "" {
		hours, _ = strconv.Atoi(groups[2])
	}
	minutes, _ := strconv.Atoi(groups[3])
	return hours*60 + minutes, true
}

// FromMinutes formats minutes for display. With at least one hour the
// minutes are zero-padded ("1:05"); below an hour they are not ("5").
// Negative values format as "0".
func FromMinutes(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	hours := minutes / 60
	remainder := minutes - hours*60
	if hours > 0 {
		return fmt.Sprintf("%d:%02d", hours, remainder)
	}
	return strconv.Itoa(remainder)
}

// Format renders d truncated to whole minutes.
func Format(d time.Duration) string {
	return FromMinutes(int(d / time.Minute))
}

// Minutes converts whole minutes to a time.Duration.
func Minutes(m int) time.Duration {
	return time.Duration(m) * time.Minute
}
