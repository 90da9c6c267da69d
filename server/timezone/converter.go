package timezone

import (
	"regexp"
	"time"

	apperrors "github.com/hrygo/pengingat/server/internal/errors"
)

const (
	// DisplayLayout renders an instant as "20 Oct 2025 at 18:00".
	DisplayLayout = "2 Jan 2006 at 15:04"

	isoTimeLayout = "15:04"
)

var (
	isoDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	isoTimePattern = regexp.MustCompile(`^\d{2}:\d{2}$`)
)

// ToAbsoluteInstant interprets isoDate ("YYYY-MM-DD") and isoTime ("HH:mm")
// as wall-clock time in loc and returns the corresponding instant in UTC.
// Malformed or out-of-range input is rejected with INVALID_DATE,
// INVALID_TIME or INVALID_TIMEZONE.
func ToAbsoluteInstant(isoDate, isoTime string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		return time.Time{}, apperrors.InvalidTimezone("", nil)
	}
	if !isoDatePattern.MatchString(isoDate) {
		return time.Time{}, apperrors.InvalidDate(isoDate, nil)
	}
	if !isoTimePattern.MatchString(isoTime) {
		return time.Time{}, apperrors.InvalidTime(isoTime, nil)
	}

	date, err := time.Parse(time.DateOnly, isoDate)
	if err != nil {
		return time.Time{}, apperrors.InvalidDate(isoDate, err)
	}
	clock, err := time.Parse(isoTimeLayout, isoTime)
	if err != nil {
		return time.Time{}, apperrors.InvalidTime(isoTime, err)
	}

	local := time.Date(date.Year(), date.Month(), date.Day(),
		clock.Hour(), clock.Minute(), 0, 0, loc)
	return local.UTC(), nil
}

// FormatForDisplay renders the civil date and time back to a human string,
// using loc both to build the instant and to render it.
func FormatForDisplay(isoDate, isoTime string, loc *time.Location) (string, error) {
	instant, err := ToAbsoluteInstant(isoDate, isoTime, loc)
	if err != nil {
		return "", err
	}
	return instant.In(loc).Format(DisplayLayout), nil
}

// FormatInstant renders an instant in the given timezone using DisplayLayout.
func FormatInstant(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = LocationAsiaJakarta
	}
	return t.In(loc).Format(DisplayLayout)
}
