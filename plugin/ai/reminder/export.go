package reminder

import (
	"bytes"
	"fmt"
	"time"

	"github.com/emersion/go-ical"
	"github.com/gorilla/feeds"
	"github.com/pkg/errors"

	"github.com/hrygo/pengingat/server/timezone"
	"github.com/hrygo/pengingat/store"
)

const (
	icalProductID = "-//pengingat//reminders//ID"
	// reminders span a fixed slot in calendar clients
	eventDuration = 15 * time.Minute
)

// ExportICS renders reminders as an iCalendar document. Cancelled reminders
// are left out; pending reminders carry a display alarm at trigger time.
func ExportICS(reminders []*store.Reminder, now time.Time) ([]byte, error) {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, icalProductID)

	for _, r := range reminders {
		if r.Status == store.ReminderCancelled {
			continue
		}
		start := r.TriggerTime().UTC()

		event := ical.NewEvent()
		event.Props.SetText(ical.PropUID, r.UID+"@pengingat")
		event.Props.SetDateTime(ical.PropDateTimeStamp, now.UTC())
		event.Props.SetDateTime(ical.PropDateTimeStart, start)
		event.Props.SetDateTime(ical.PropDateTimeEnd, start.Add(eventDuration))
		event.Props.SetText(ical.PropSummary, r.Title)
		event.Props.SetText(ical.PropDescription, FormatReminder(r))

		event.Props.SetText(ical.PropStatus, "CONFIRMED")
		if r.Status == store.ReminderPending {
			event.Children = append(event.Children, newAlarm(r.Title))
		}
		cal.Children = append(cal.Children, event.Component)
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, errors.Wrap(err, "failed to encode calendar")
	}
	return buf.Bytes(), nil
}

func newAlarm(title string) *ical.Component {
	alarm := ical.NewComponent(ical.CompAlarm)
	alarm.Props.SetText(ical.PropAction, "DISPLAY")
	alarm.Props.SetText(ical.PropDescription, title)
	trigger := ical.NewProp(ical.PropTrigger)
	trigger.Value = "PT0S"
	alarm.Props.Set(trigger)
	return alarm
}

// ExportFeed renders reminders as an RSS 2.0 feed. Item times and descriptions
// are shown in each reminder's stored timezone, or loc when it has none; links
// point below baseURL.
func ExportFeed(reminders []*store.Reminder, baseURL string, loc *time.Location, now time.Time) (string, error) {
	feed := &feeds.Feed{
		Title:       "Pengingat",
		Link:        &feeds.Link{Href: baseURL},
		Description: "Upcoming reminders",
		Created:     now,
	}

	for _, r := range reminders {
		itemLoc := StoredLocation(r, loc)
		display, err := timezone.FormatForDisplay(r.IsoDate, r.IsoTime, itemLoc)
		if err != nil {
			return "", errors.Wrapf(err, "failed to format reminder %s", r.UID)
		}
		feed.Items = append(feed.Items, &feeds.Item{
			Title:       r.Title,
			Link:        &feeds.Link{Href: fmt.Sprintf("%s/api/v1/reminders/%s", baseURL, r.UID)},
			Description: fmt.Sprintf("%s (%s)", display, r.Status),
			Id:          r.UID,
			Created:     time.Unix(r.CreatedTs, 0).In(itemLoc),
		})
	}

	rss, err := feed.ToRss()
	if err != nil {
		return "", errors.Wrap(err, "failed to encode feed")
	}
	return rss, nil
}

// StoredLocation returns the timezone r was resolved in, or fallback when the
// stored identifier is empty or unknown.
func StoredLocation(r *store.Reminder, fallback *time.Location) *time.Location {
	if r.Timezone == "" {
		return fallback
	}
	loc, err := timezone.ParseTimezone(r.Timezone)
	if err != nil {
		return fallback
	}
	return loc
}
