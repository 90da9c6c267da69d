package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hrygo/pengingat/plugin/ai/reminder"
	"github.com/hrygo/pengingat/server/internal/observability"
)

// MetricsResponse represents the system metrics overview.
type MetricsResponse struct {
	Counters       *observability.MetricsSnapshot `json:"counters"`
	SuccessRate    float64                        `json:"success_rate"`
	ResolutionRate float64                        `json:"resolution_rate"`
	Scheduler      *reminder.Stats                `json:"scheduler,omitempty"`
}

// GetMetrics returns request and resolution counters since startup.
// GET /api/v1/metrics
func (s *APIV1Service) GetMetrics(c echo.Context) error {
	snapshot := s.Metrics.Snapshot()
	resp := MetricsResponse{
		Counters:       snapshot,
		SuccessRate:    snapshot.SuccessRate(),
		ResolutionRate: snapshot.ResolutionRate(),
	}
	if s.Scheduler != nil {
		stats := s.Scheduler.Stats()
		resp.Scheduler = &stats
	}
	return c.JSON(http.StatusOK, resp)
}
