package v1

import (
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hrygo/pengingat/internal/profile"
	"github.com/hrygo/pengingat/plugin/ai/aitime"
	"github.com/hrygo/pengingat/plugin/ai/reminder"
	"github.com/hrygo/pengingat/server/internal/observability"
)

// APIV1Service serves the temporal and reminder REST API.
type APIV1Service struct {
	Profile         *profile.Profile
	TemporalService aitime.TemporalService
	ReminderService *reminder.Service
	Scheduler       *reminder.Scheduler
	Metrics         *observability.Metrics

	logger *slog.Logger
	now    func() time.Time
}

// NewAPIV1Service wires the API onto the given services. scheduler and
// metrics may be nil.
func NewAPIV1Service(profile *profile.Profile, temporal aitime.TemporalService, reminders *reminder.Service, scheduler *reminder.Scheduler, metrics *observability.Metrics, logger *slog.Logger) *APIV1Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if metrics == nil {
		metrics = observability.NewMetrics()
	}
	return &APIV1Service{
		Profile:         profile,
		TemporalService: temporal,
		ReminderService: reminders,
		Scheduler:       scheduler,
		Metrics:         metrics,
		logger:          logger,
		now:             time.Now,
	}
}

// RegisterRoutes registers all API routes on the echo instance.
func (s *APIV1Service) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", s.Healthz)

	api := e.Group("/api/v1")
	api.POST(`/temporal\:parse`, s.ParseTemporal)
	api.POST(`/temporal\:convert`, s.ConvertTemporal)

	api.POST("/reminders", s.CreateReminder)
	api.GET("/reminders", s.ListReminders)
	api.GET("/reminders.ics", s.ExportReminderCalendar)
	api.GET("/reminders.rss", s.ExportReminderFeed)
	api.GET("/reminders/:uid", s.GetReminder)
	api.PATCH("/reminders/:uid", s.UpdateReminder)
	api.DELETE("/reminders/:uid", s.DeleteReminder)

	api.GET("/metrics", s.GetMetrics)
}
