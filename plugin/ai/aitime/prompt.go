package aitime

import "fmt"

// unspecifiedDateWord stands in for the date when a clarification echoes a
// message that named no day.
const unspecifiedDateWord = "nanti"

// generalPrompt asks for both the date and the time.
func generalPrompt(activity string) string {
	return fmt.Sprintf(
		`Baik, saya catat "%s". Kapan kamu mau diingatkan? Bisa kasih tau tanggal dan jamnya? Contoh: "besok jam 6 sore" atau "hari ini jam 3 siang".`,
		activity,
	)
}

// meridiemPrompt asks whether a bare 1-11 hour is morning or evening.
func meridiemPrompt(intent ParsedIntent) string {
	dateWord := intent.Date.String()
	if dateWord == "" {
		dateWord = unspecifiedDateWord
	}
	literal := intent.ExplicitTime.String()
	return fmt.Sprintf(
		`Oke, "%s" %s jam %s. Tapi jam %s pagi atau malam? Bisa tambahkan "%s", "%s", "%s", atau "%s"?`,
		intent.ActivityText, dateWord, literal, literal,
		TimeOfDayMorning, TimeOfDayMidday, TimeOfDayAfternoon, TimeOfDayEvening,
	)
}
