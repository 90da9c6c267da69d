package v1

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hrygo/pengingat/plugin/ai/aitime"
	"github.com/hrygo/pengingat/plugin/ai/reminder"
	apperrors "github.com/hrygo/pengingat/server/internal/errors"
	"github.com/hrygo/pengingat/server/middleware"
	"github.com/hrygo/pengingat/server/timezone"
	"github.com/hrygo/pengingat/store"
)

// feedLimit caps the reminders listed in the RSS feed.
const feedLimit = 50

// CreateReminderRequest is the body of POST /api/v1/reminders.
type CreateReminderRequest struct {
	Message   string     `json:"message"`
	Reference *time.Time `json:"reference,omitempty"`
}

// CreateReminderResponse carries the resolution and, when it resolved, the
// stored reminder.
type CreateReminderResponse struct {
	Resolution aitime.ResolutionResult `json:"resolution"`
	Reminder   *Reminder               `json:"reminder,omitempty"`
}

// UpdateReminderRequest is the body of PATCH /api/v1/reminders/:uid.
type UpdateReminderRequest struct {
	Status string `json:"status"`
}

// ListRemindersResponse is the body of GET /api/v1/reminders.
type ListRemindersResponse struct {
	Reminders []*Reminder `json:"reminders"`
}

// Reminder is the API representation of a stored reminder.
type Reminder struct {
	UID               string `json:"uid"`
	Title             string `json:"title"`
	RawInput          string `json:"raw_input"`
	Status            string `json:"status"`
	Timezone          string `json:"timezone"`
	IsoDate           string `json:"iso_date"`
	IsoTime           string `json:"iso_time"`
	TriggerTime       string `json:"trigger_time"`
	Display           string `json:"display"`
	FormattedReminder string `json:"formatted_reminder"`
	CreateTime        string `json:"create_time"`
	UpdateTime        string `json:"update_time"`
}

func convertReminderFromStore(r *store.Reminder, fallback *time.Location) *Reminder {
	loc := reminder.StoredLocation(r, fallback)
	trigger := r.TriggerTime()
	return &Reminder{
		UID:               r.UID,
		Title:             r.Title,
		RawInput:          r.RawInput,
		Status:            r.Status.String(),
		Timezone:          loc.String(),
		IsoDate:           r.IsoDate,
		IsoTime:           r.IsoTime,
		TriggerTime:       trigger.Format(time.RFC3339),
		Display:           timezone.FormatInstant(trigger, loc),
		FormattedReminder: reminder.FormatReminder(r),
		CreateTime:        time.Unix(r.CreatedTs, 0).UTC().Format(time.RFC3339),
		UpdateTime:        time.Unix(r.UpdatedTs, 0).UTC().Format(time.RFC3339),
	}
}

func (s *APIV1Service) convertReminders(list []*store.Reminder) []*Reminder {
	out := make([]*Reminder, 0, len(list))
	for _, r := range list {
		out = append(out, convertReminderFromStore(r, s.ReminderService.Location()))
	}
	return out
}

// CreateReminder resolves a message and stores the reminder. A message that
// needs clarification is answered with 200 and nothing is stored.
// POST /api/v1/reminders
func (s *APIV1Service) CreateReminder(c echo.Context) error {
	var req CreateReminderRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.InvalidArgument("invalid request body")
	}

	result, err := s.ReminderService.CreateFromMessage(c.Request().Context(), middleware.UserID(c), req.Message, req.Reference)
	if err != nil {
		return err
	}
	s.Metrics.RecordResolution(result.Resolution.IsResolved())

	resp := CreateReminderResponse{Resolution: result.Resolution}
	if result.Reminder == nil {
		return c.JSON(http.StatusOK, resp)
	}
	resp.Reminder = convertReminderFromStore(result.Reminder, s.ReminderService.Location())
	return c.JSON(http.StatusCreated, resp)
}

// ListReminders lists the caller's reminders, optionally narrowed by a CEL
// filter such as `status == "pending"`.
// GET /api/v1/reminders?filter=<cel>
func (s *APIV1Service) ListReminders(c echo.Context) error {
	list, err := s.ReminderService.List(c.Request().Context(), middleware.UserID(c), c.QueryParam("filter"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ListRemindersResponse{Reminders: s.convertReminders(list)})
}

// GetReminder returns one reminder.
// GET /api/v1/reminders/:uid
func (s *APIV1Service) GetReminder(c echo.Context) error {
	r, err := s.ReminderService.Get(c.Request().Context(), middleware.UserID(c), c.Param("uid"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, convertReminderFromStore(r, s.ReminderService.Location()))
}

// UpdateReminder changes a reminder's status.
// PATCH /api/v1/reminders/:uid
func (s *APIV1Service) UpdateReminder(c echo.Context) error {
	var req UpdateReminderRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.InvalidArgument("invalid request body")
	}
	if req.Status == "" {
		return apperrors.InvalidArgument("status is required")
	}

	r, err := s.ReminderService.SetStatus(c.Request().Context(), middleware.UserID(c), c.Param("uid"), store.ReminderStatus(req.Status))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, convertReminderFromStore(r, s.ReminderService.Location()))
}

// DeleteReminder deletes a reminder.
// DELETE /api/v1/reminders/:uid
func (s *APIV1Service) DeleteReminder(c echo.Context) error {
	if err := s.ReminderService.Delete(c.Request().Context(), middleware.UserID(c), c.Param("uid")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ExportReminderCalendar renders the caller's reminders as iCalendar.
// GET /api/v1/reminders.ics
func (s *APIV1Service) ExportReminderCalendar(c echo.Context) error {
	list, err := s.ReminderService.List(c.Request().Context(), middleware.UserID(c), c.QueryParam("filter"))
	if err != nil {
		return err
	}
	data, err := reminder.ExportICS(list, s.now())
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, "text/calendar; charset=utf-8", data)
}

// ExportReminderFeed renders the caller's upcoming reminders as RSS.
// GET /api/v1/reminders.rss
func (s *APIV1Service) ExportReminderFeed(c echo.Context) error {
	now := s.now()
	list, err := s.ReminderService.Upcoming(c.Request().Context(), middleware.UserID(c), now, feedLimit)
	if err != nil {
		return err
	}
	baseURL := c.Scheme() + "://" + c.Request().Host
	rss, err := reminder.ExportFeed(list, baseURL, s.ReminderService.Location(), now)
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, "application/rss+xml; charset=utf-8", []byte(rss))
}
