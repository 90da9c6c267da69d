// Package timezone provides timezone utilities for the Pengingat application.
//
// This package handles timezone parsing and the conversion between civil
// date/time strings and absolute instants, so that no conversion silently
// depends on the host machine's zone.
package timezone

import (
	"time"
	// Embedded zone data keeps Asia/Jakarta resolvable on hosts without zoneinfo.
	_ "time/tzdata"

	apperrors "github.com/hrygo/pengingat/server/internal/errors"
)

// Common timezone constants
const (
	// TimezoneUTC is the UTC timezone identifier
	TimezoneUTC = "UTC"

	// TimezoneAsiaJakarta is Western Indonesia Time (WIB, UTC+7)
	TimezoneAsiaJakarta = "Asia/Jakarta"

	// TimezoneAsiaMakassar is Central Indonesia Time (WITA, UTC+8)
	TimezoneAsiaMakassar = "Asia/Makassar"

	// TimezoneAsiaJayapura is Eastern Indonesia Time (WIT, UTC+9)
	TimezoneAsiaJayapura = "Asia/Jayapura"

	// DefaultTimezone is used when no timezone is specified.
	DefaultTimezone = TimezoneAsiaJakarta
)

// Common timezone locations (pre-loaded for performance)
var (
	// LocationAsiaJakarta is the pre-loaded Asia/Jakarta location
	LocationAsiaJakarta = MustParseTimezone(TimezoneAsiaJakarta)

	// LocationAsiaMakassar is the pre-loaded Asia/Makassar location
	LocationAsiaMakassar = MustParseTimezone(TimezoneAsiaMakassar)

	// LocationAsiaJayapura is the pre-loaded Asia/Jayapura location
	LocationAsiaJayapura = MustParseTimezone(TimezoneAsiaJayapura)
)

// ParseTimezone parses an IANA timezone identifier (e.g., "Asia/Jakarta").
// An empty identifier yields the default timezone. If the timezone is
// invalid, returns the default timezone and an INVALID_TIMEZONE error.
func ParseTimezone(tz string) (*time.Location, error) {
	switch tz {
	case "":
		tz = DefaultTimezone
	case TimezoneUTC:
		return time.UTC, nil
	}

	loc, err := time.LoadLocation(tz)
	if err != nil {
		fallback, _ := time.LoadLocation(DefaultTimezone)
		return fallback, apperrors.InvalidTimezone(tz, err)
	}

	return loc, nil
}

// MustParseTimezone parses a timezone or panics if invalid.
// Use this for constants that are known to be valid at compile time.
func MustParseTimezone(tz string) *time.Location {
	loc, err := ParseTimezone(tz)
	if err != nil {
		panic(err)
	}
	return loc
}

// IsValidTimezone checks if a timezone identifier is valid.
func IsValidTimezone(tz string) bool {
	_, err := ParseTimezone(tz)
	return err == nil
}

// StartOfDay returns the start of the day (00:00:00) in the given timezone.
func StartOfDay(t time.Time, tz *time.Location) time.Time {
	if tz == nil {
		tz = LocationAsiaJakarta
	}
	local := t.In(tz)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, tz)
}

// NowInTimezone returns the current time in the given timezone.
func NowInTimezone(tz *time.Location) time.Time {
	if tz == nil {
		tz = LocationAsiaJakarta
	}
	return time.Now().In(tz)
}
