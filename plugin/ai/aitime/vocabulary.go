package aitime

import (
	"regexp"
	"sort"
)

// DefaultActivityLabel replaces an activity text that is empty once every
// temporal and filler word has been removed.
const DefaultActivityLabel = "Pengingat"

// fallbackHour is used when only a date was given; the result is still
// treated as ambiguous.
const fallbackHour = 9

// dateKeywords is scanned in order; the first keyword contained in the
// normalized message wins.
var dateKeywords = []struct {
	keyword    string
	descriptor DateDescriptor
}{
	{"hari ini", DateToday},
	{"today", DateToday},
	{"besok", DateTomorrow},
	{"tomorrow", DateTomorrow},
	{"lusa", DateDayAfterTomorrow},
}

// timeOfDayOrder is the scan order for time-of-day keywords.
var timeOfDayOrder = []TimeOfDay{
	TimeOfDayMorning,
	TimeOfDayMidday,
	TimeOfDayAfternoon,
	TimeOfDayEvening,
	TimeOfDayEarlyMorning,
}

type timeOfDaySpec struct {
	keyword      string
	band         [2]int
	defaultHour  int
	postMeridiem bool
}

// timeOfDayTable maps each keyword to its hour band and default hour.
var timeOfDayTable = map[TimeOfDay]timeOfDaySpec{
	TimeOfDayMorning:      {keyword: "pagi", band: [2]int{5, 10}, defaultHour: 8},
	TimeOfDayMidday:       {keyword: "siang", band: [2]int{11, 14}, defaultHour: 12},
	TimeOfDayAfternoon:    {keyword: "sore", band: [2]int{15, 17}, defaultHour: 16, postMeridiem: true},
	TimeOfDayEvening:      {keyword: "malam", band: [2]int{18, 23}, defaultHour: 19, postMeridiem: true},
	TimeOfDayEarlyMorning: {keyword: "dini hari", band: [2]int{0, 4}, defaultHour: 2},
}

// fillerTerms are conversational words stripped from the activity text.
var fillerTerms = []string{
	"tolong",
	"ingatkan",
	"ingatkan saya",
	"remind me",
	"reminder",
	"ya",
	"dong",
	"please",
}

// timeWordTerms are the bare time markers stripped from the activity text.
var timeWordTerms = []string{"jam", "pukul"}

// numericTimePatterns remove literal times from the activity text.
var numericTimePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bjam\s+\d{1,2}(?::\d{2})?`),
	regexp.MustCompile(`(?i)\bpukul\s+\d{1,2}(?::\d{2})?`),
	regexp.MustCompile(`\b\d{1,2}:\d{2}\b`),
}

// activityStripPatterns is the full replace-list applied to the original
// message, numeric times first, then whole words with longer phrases before
// the words they contain.
var activityStripPatterns = buildActivityStripPatterns()

func buildActivityStripPatterns() []*regexp.Regexp {
	terms := make([]string, 0, len(dateKeywords)+len(timeOfDayTable)+len(fillerTerms)+len(timeWordTerms))
	for _, k := range dateKeywords {
		terms = append(terms, k.keyword)
	}
	for _, t := range timeOfDayOrder {
		terms = append(terms, timeOfDayTable[t].keyword)
	}
	terms = append(terms, fillerTerms...)
	terms = append(terms, timeWordTerms...)
	sort.SliceStable(terms, func(i, j int) bool {
		return len(terms[i]) > len(terms[j])
	})

	patterns := make([]*regexp.Regexp, 0, len(numericTimePatterns)+len(terms))
	patterns = append(patterns, numericTimePatterns...)
	for _, term := range terms {
		patterns = append(patterns, regexp.MustCompile(`(?i)\b`+regexp.QuoteMeta(term)+`\b`))
	}
	return patterns
}
