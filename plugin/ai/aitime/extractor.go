package aitime

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	// "jam 6", "jam 18", "jam 8:30"
	jamPattern = regexp.MustCompile(`\bjam\s+(\d{1,2})(?::(\d{2}))?\b`)
	// standalone "3:30", "15:00"
	clockPattern = regexp.MustCompile(`\b(\d{1,2}):(\d{2})\b`)
)

// activityCutset is trimmed from both ends of the recovered activity text.
const activityCutset = ",.;:!? "

// ExtractIntent scans a message for relative-date keywords, time-of-day
// keywords and literal times, and recovers the remaining activity text.
// It never fails; unrecognised input yields an intent with fewer fields set.
func ExtractIntent(message string) ParsedIntent {
	return extractIntent(message, DefaultActivityLabel)
}

func extractIntent(message, fallbackLabel string) ParsedIntent {
	normalized := Normalize(message)

	intent := ParsedIntent{
		RawInput:     message,
		Date:         detectDate(normalized),
		TimeOfDay:    detectTimeOfDay(normalized),
		ExplicitTime: detectExplicitTime(normalized),
	}
	if intent.Date != DateNone {
		offset := intent.Date.OffsetDays()
		intent.RelativeOffsetDays = &offset
	}

	intent.ActivityText = recoverActivityText(message)
	if intent.ActivityText == "" {
		intent.ActivityText = fallbackLabel
	}
	return intent
}

func detectDate(normalized string) DateDescriptor {
	for _, k := range dateKeywords {
		if strings.Contains(normalized, k.keyword) {
			return k.descriptor
		}
	}
	return DateNone
}

func detectTimeOfDay(normalized string) TimeOfDay {
	for _, t := range timeOfDayOrder {
		if strings.Contains(normalized, timeOfDayTable[t].keyword) {
			return t
		}
	}
	return TimeOfDayNone
}

// detectExplicitTime tries "jam H[:MM]" first and a bare "H:MM" second.
// A match whose hour or minute is out of range does not count.
func detectExplicitTime(normalized string) *ClockTime {
	if m := jamPattern.FindStringSubmatch(normalized); m != nil {
		if t, ok := newClockTime(m[1], m[2]); ok {
			return t
		}
	}
	if m := clockPattern.FindStringSubmatch(normalized); m != nil {
		if t, ok := newClockTime(m[1], m[2]); ok {
			return t
		}
	}
	return nil
}

func newClockTime(hourText, minuteText string) (*ClockTime, bool) {
	hour, err := strconv.Atoi(hourText)
	if err != nil || hour < 0 || hour > 23 {
		return nil, false
	}

	literal := hourText
	minute := 0
	if minuteText != "" {
		minute, err = strconv.Atoi(minuteText)
		if err != nil || minute < 0 || minute > 59 {
			return nil, false
		}
		literal += ":" + minuteText
	}

	return &ClockTime{Hour: hour, Minute: minute, Literal: literal}, true
}

// recoverActivityText strips temporal and filler vocabulary from the original
// message, keeping the user's casing for the label.
func recoverActivityText(message string) string {
	text := message
	for _, p := range activityStripPatterns {
		text = p.ReplaceAllString(text, " ")
	}
	text = strings.Join(strings.Fields(text), " ")
	return strings.Trim(text, activityCutset)
}
