package reminder

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrygo/pengingat/server/timezone"
	"github.com/hrygo/pengingat/store"
)

func exportFixtures() []*store.Reminder {
	return []*store.Reminder{
		{
			UID: "pending1", Title: "minum obat", CreatedTs: 1760842800,
			TriggerTs: 1760958000, IsoDate: "2025-10-20", IsoTime: "18:00",
			Status: store.ReminderPending,
		},
		{
			UID: "done1", Title: "meeting", CreatedTs: 1760842800,
			TriggerTs: 1760859000, IsoDate: "2025-10-19", IsoTime: "14:30",
			Status: store.ReminderDone,
		},
		{
			UID: "cancelled1", Title: "beli susu", CreatedTs: 1760842800,
			TriggerTs: 1761008400, IsoDate: "2025-10-21", IsoTime: "08:00",
			Status: store.ReminderCancelled,
		},
	}
}

func TestExportICS(t *testing.T) {
	data, err := ExportICS(exportFixtures(), testReference)
	require.NoError(t, err)

	out := strings.ReplaceAll(string(data), "\r\n", "\n")
	assert.True(t, strings.HasPrefix(out, "BEGIN:VCALENDAR\n"))
	assert.Contains(t, out, "VERSION:2.0")
	assert.Contains(t, out, "PRODID:"+icalProductID)
	assert.Equal(t, 2, strings.Count(out, "BEGIN:VEVENT"))
	assert.Equal(t, 1, strings.Count(out, "BEGIN:VALARM"))

	assert.Contains(t, out, "UID:pending1@pengingat")
	assert.Contains(t, out, "SUMMARY:minum obat")
	assert.Contains(t, out, "DTSTART:20251020T110000Z")
	assert.Contains(t, out, "DTEND:20251020T111500Z")
	assert.Contains(t, out, "DTSTAMP:20251019T030000Z")
	assert.Contains(t, out, "TRIGGER:PT0S")

	assert.Contains(t, out, "UID:done1@pengingat")
	assert.NotContains(t, out, "cancelled1")
}

func TestExportFeed(t *testing.T) {
	rss, err := ExportFeed(exportFixtures(), "http://localhost:8081", timezone.LocationAsiaJakarta, testReference)
	require.NoError(t, err)

	assert.Contains(t, rss, "<rss")
	assert.Contains(t, rss, "<title>Pengingat</title>")
	assert.Equal(t, 3, strings.Count(rss, "<item>"))
	assert.Contains(t, rss, "<title>minum obat</title>")
	assert.Contains(t, rss, "http://localhost:8081/api/v1/reminders/pending1")
	assert.Contains(t, rss, "20 Oct 2025 at 18:00 (pending)")
	assert.Contains(t, rss, "21 Oct 2025 at 08:00 (cancelled)")
}

func TestExportFeed_UsesStoredTimezone(t *testing.T) {
	papua := &store.Reminder{
		UID: "papua1", Title: "rapat", CreatedTs: 1760842800,
		TriggerTs: 1760950800, Timezone: timezone.TimezoneAsiaJayapura,
		IsoDate: "2025-10-20", IsoTime: "18:00",
		Status: store.ReminderPending,
	}
	unknown := &store.Reminder{
		UID: "unknown1", Title: "olahraga", CreatedTs: 1760842800,
		TriggerTs: 1760958000, Timezone: "Mars/Olympus",
		IsoDate: "2025-10-20", IsoTime: "18:00",
		Status: store.ReminderPending,
	}

	rss, err := ExportFeed([]*store.Reminder{papua, unknown}, "http://localhost:8081", timezone.LocationAsiaJakarta, testReference)
	require.NoError(t, err)

	assert.Contains(t, rss, "Sun, 19 Oct 2025 12:00:00 +0900")
	// channel pubDate plus the item with an unknown zone
	assert.Equal(t, 2, strings.Count(rss, "Sun, 19 Oct 2025 10:00:00 +0700"))
	assert.Equal(t, 2, strings.Count(rss, "20 Oct 2025 at 18:00 (pending)"))
}

func TestStoredLocation(t *testing.T) {
	fallback := timezone.LocationAsiaJakarta

	assert.Equal(t, fallback, StoredLocation(&store.Reminder{}, fallback))
	assert.Equal(t, fallback, StoredLocation(&store.Reminder{Timezone: "Mars/Olympus"}, fallback))
	assert.Equal(t, timezone.TimezoneAsiaJayapura, StoredLocation(&store.Reminder{Timezone: timezone.TimezoneAsiaJayapura}, fallback).String())
}

func TestExportFeed_RejectsMalformedReminder(t *testing.T) {
	bad := []*store.Reminder{{UID: "bad", Title: "x", IsoDate: "20-10-2025", IsoTime: "18:00"}}
	_, err := ExportFeed(bad, "http://localhost", time.UTC, testReference)
	assert.Error(t, err)
}
