package aitime

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// DateDescriptor is the relative-day keyword found in a message.
type DateDescriptor int

const (
	DateNone             DateDescriptor = iota
	DateToday                           // "hari ini", "today"
	DateTomorrow                        // "besok", "tomorrow"
	DateDayAfterTomorrow                // "lusa"
)

var dateDescriptorNames = [...]string{
	DateNone:             "",
	DateToday:            "hari ini",
	DateTomorrow:         "besok",
	DateDayAfterTomorrow: "lusa",
}

// String returns the canonical Indonesian keyword, or "" for DateNone.
func (d DateDescriptor) String() string {
	if int(d) >= 0 && int(d) < len(dateDescriptorNames) {
		return dateDescriptorNames[d]
	}
	return fmt.Sprintf("DateDescriptor(%d)", int(d))
}

// OffsetDays returns the day offset implied by the descriptor.
func (d DateDescriptor) OffsetDays() int {
	switch d {
	case DateTomorrow:
		return 1
	case DateDayAfterTomorrow:
		return 2
	default:
		return 0
	}
}

// MarshalJSON encodes the descriptor as its keyword.
func (d DateDescriptor) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// TimeOfDay is a vague time-of-day keyword found in a message.
type TimeOfDay int

const (
	TimeOfDayNone         TimeOfDay = iota
	TimeOfDayEarlyMorning           // "dini hari"
	TimeOfDayMorning                // "pagi"
	TimeOfDayMidday                 // "siang"
	TimeOfDayAfternoon              // "sore"
	TimeOfDayEvening                // "malam"
)

// String returns the Indonesian keyword, or "" for TimeOfDayNone.
func (t TimeOfDay) String() string {
	if entry, ok := timeOfDayTable[t]; ok {
		return entry.keyword
	}
	if t == TimeOfDayNone {
		return ""
	}
	return fmt.Sprintf("TimeOfDay(%d)", int(t))
}

// DefaultHour is the hour used when the keyword appears without a number.
func (t TimeOfDay) DefaultHour() int {
	return timeOfDayTable[t].defaultHour
}

// Band returns the inclusive hour range the keyword usually covers.
func (t TimeOfDay) Band() (first, last int) {
	entry := timeOfDayTable[t]
	return entry.band[0], entry.band[1]
}

// IsPostMeridiem reports whether a 1-11 hour paired with the keyword means PM.
func (t TimeOfDay) IsPostMeridiem() bool {
	return timeOfDayTable[t].postMeridiem
}

// MarshalJSON encodes the keyword.
func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// ClockTime is a literal numeric time found in a message, before any
// meridiem decision.
type ClockTime struct {
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
	// Literal is the time as written ("6", "14:30"), echoed in prompts.
	Literal string `json:"literal"`
}

// String returns the literal as written, or H:MM when no literal is recorded.
func (c ClockTime) String() string {
	if c.Literal != "" {
		return c.Literal
	}
	if c.Minute == 0 {
		return strconv.Itoa(c.Hour)
	}
	return fmt.Sprintf("%d:%02d", c.Hour, c.Minute)
}

// ParsedIntent holds the temporal signals extracted from one message.
type ParsedIntent struct {
	ActivityText       string         `json:"activity_text"`
	Date               DateDescriptor `json:"date_descriptor"`
	RelativeOffsetDays *int           `json:"relative_offset_days,omitempty"`
	TimeOfDay          TimeOfDay      `json:"time_descriptor"`
	ExplicitTime       *ClockTime     `json:"explicit_time,omitempty"`
	RawInput           string         `json:"raw_input"`
}

// HasTemporalSignal reports whether any date, time-of-day, or numeric time fired.
func (p ParsedIntent) HasTemporalSignal() bool {
	return p.Date != DateNone || p.TimeOfDay != TimeOfDayNone || p.ExplicitTime != nil
}

// Status tells which variant of ResolutionResult is populated.
type Status string

const (
	StatusResolved           Status = "resolved"
	StatusNeedsClarification Status = "needs_clarification"
)

// ResolutionResult is the outcome of resolving a temporal expression.
// When Status is StatusResolved, IsoDate, IsoTime and FormattedReminder are
// set and ClarificationPrompt is empty; otherwise only ClarificationPrompt is.
type ResolutionResult struct {
	Status              Status `json:"status"`
	ActivityText        string `json:"activity_text"`
	IsoDate             string `json:"iso_date,omitempty"`
	IsoTime             string `json:"iso_time,omitempty"`
	FormattedReminder   string `json:"formatted_reminder,omitempty"`
	ClarificationPrompt string `json:"clarification_prompt,omitempty"`
}

// IsResolved reports whether the result carries a date and time.
func (r ResolutionResult) IsResolved() bool {
	return r.Status == StatusResolved
}

func resolvedResult(activity, isoDate, isoTime string) ResolutionResult {
	return ResolutionResult{
		Status:            StatusResolved,
		ActivityText:      activity,
		IsoDate:           isoDate,
		IsoTime:           isoTime,
		FormattedReminder: fmt.Sprintf("%s — %s — %s", activity, isoDate, isoTime),
	}
}

func clarificationResult(activity, prompt string) ResolutionResult {
	return ResolutionResult{
		Status:              StatusNeedsClarification,
		ActivityText:        activity,
		ClarificationPrompt: prompt,
	}
}
