// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package timestamp normalizes the creation timestamps found in content
// front matter into a canonical instant representation. Two textually
// different but semantically equal timestamps normalize to the same Instant,
// which is what makes the derived identifiers reproducible across builds.
package timestamp

import (
	"fmt"
	"strings"
	"time"
)

// Instant is a normalized creation moment. A missing time-of-day normalizes
// to midnight. Timestamps written with an explicit UTC offset are converted
// to UTC, so "12:00+02:00" and "10:00Z" are the same Instant. A timestamp
// written without any zone is "floating": it is never silently treated as
// UTC, so a bare "2019-03-04" and an explicit "2019-03-04T00:00:00Z" stay
// distinct instants.
type Instant struct {
	Year    int
	Month   time.Month
	Day     int
	Seconds int // seconds since midnight, in UTC when Zoned

	// Zoned records whether the source timestamp carried an explicit
	// UTC offset. It participates in the canonical serialization.
	Zoned bool
}

// MalformedError reports a creation timestamp that could not be parsed into
// at least a valid calendar date. The caller decides whether to skip the
// item or abort the build; the parse is never retried.
type MalformedError struct {
	Input string
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("malformed creation timestamp %q", e.Input)
}

// layouts are tried in order, most specific first. The two groups differ
// only in the date/time separator ("T" per RFC 3339, or a space as commonly
// hand-written in front matter).
var (
	zonedLayouts = []string{
		"2006-01-02T15:04:05Z07:00",
		"2006-01-02T15:04Z07:00",
		"2006-01-02 15:04:05Z07:00",
		"2006-01-02 15:04Z07:00",
	}
	floatingLayouts = []string{
		"2006-01-02T15:04:05",
		"2006-01-02T15:04",
		"2006-01-02 15:04:05",
		"2006-01-02 15:04",
		"2006-01-02",
	}
)

// Parse normalizes a raw timestamp string into an Instant. Accepted forms
// are a bare date, a date with time (minute or second precision), and a
// date with time and UTC offset ("Z" or "±hh:mm"). Returns *MalformedError
// when none of the accepted forms match.
func Parse(s string) (Instant, error) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return Instant{}, &MalformedError{Input: s}
	}

	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return fromTime(t.UTC(), true), nil
		}
	}
	for _, layout := range floatingLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return fromTime(t, false), nil
		}
	}
	return Instant{}, &MalformedError{Input: s}
}

func fromTime(t time.Time, zoned bool) Instant {
	return Instant{
		Year:    t.Year(),
		Month:   t.Month(),
		Day:     t.Day(),
		Seconds: t.Hour()*3600 + t.Minute()*60 + t.Second(),
		Zoned:   zoned,
	}
}

// Canonical serializes the instant with fixed field order and width, so
// equal instants always produce identical bytes. This is the hashing input
// and must never change shape without accepting that every published
// identifier changes with it.
func (i Instant) Canonical() string {
	zone := "floating"
	if i.Zoned {
		zone = "utc"
	}
	return fmt.Sprintf("%04d-%02d-%02dT%05d@%s", i.Year, int(i.Month), i.Day, i.Seconds, zone)
}

// String returns a human-readable form for logs and error messages.
func (i Instant) String() string {
	h := i.Seconds / 3600
	m := i.Seconds % 3600 / 60
	s := i.Seconds % 60
	zone := " (floating)"
	if i.Zoned {
		zone = "Z"
	}
	return fmt.Sprintf("%04d-%02d-%02d %02d:%02d:%02d%s", i.Year, int(i.Month), i.Day, h, m, s, zone)
}
