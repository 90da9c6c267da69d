package aitime

import "time"

// ambiguity records why a resolution could not settle on a single hour.
type ambiguity int

const (
	unambiguous ambiguity = iota
	// a bare 1-11 hour with no time-of-day word
	ambiguousMeridiem
	// a date with no time information at all
	ambiguousNoTime
)

// Resolve combines the signals of an intent into a civil date and time.
// The day is taken from the reference's civil date in reference.Location().
func Resolve(intent ParsedIntent, reference time.Time) ResolutionResult {
	if !intent.HasTemporalSignal() {
		return clarificationResult(intent.ActivityText, generalPrompt(intent.ActivityText))
	}

	hour, minute, amb := resolveClock(intent)
	switch amb {
	case ambiguousMeridiem:
		return clarificationResult(intent.ActivityText, meridiemPrompt(intent))
	case ambiguousNoTime:
		return clarificationResult(intent.ActivityText, generalPrompt(intent.ActivityText))
	}

	offset := 0
	if intent.RelativeOffsetDays != nil {
		offset = *intent.RelativeOffsetDays
	}
	target := time.Date(reference.Year(), reference.Month(), reference.Day()+offset,
		hour, minute, 0, 0, reference.Location())

	return resolvedResult(intent.ActivityText, target.Format(time.DateOnly), target.Format("15:04"))
}

// resolveClock applies the meridiem and default-hour rules.
func resolveClock(intent ParsedIntent) (hour, minute int, amb ambiguity) {
	if t := intent.ExplicitTime; t != nil {
		switch {
		// 12-23 is already 24-hour; 0 is midnight
		case t.Hour >= 12 || t.Hour == 0:
			return t.Hour, t.Minute, unambiguous
		case intent.TimeOfDay != TimeOfDayNone:
			if intent.TimeOfDay.IsPostMeridiem() {
				return t.Hour + 12, t.Minute, unambiguous
			}
			return t.Hour, t.Minute, unambiguous
		default:
			return t.Hour, t.Minute, ambiguousMeridiem
		}
	}

	if intent.TimeOfDay != TimeOfDayNone {
		return intent.TimeOfDay.DefaultHour(), 0, unambiguous
	}

	return fallbackHour, 0, ambiguousNoTime
}
