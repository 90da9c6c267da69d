package v1

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hrygo/pengingat/plugin/ai/aitime"
	apperrors "github.com/hrygo/pengingat/server/internal/errors"
	"github.com/hrygo/pengingat/server/timezone"
)

// ParseTemporalRequest is the body of POST /api/v1/temporal:parse.
type ParseTemporalRequest struct {
	Message string `json:"message"`
	// Reference defaults to the server clock.
	Reference *time.Time `json:"reference,omitempty"`
}

// ParseTemporalResponse extends the resolution with the absolute trigger
// instant when the expression resolved.
type ParseTemporalResponse struct {
	aitime.ResolutionResult
	TriggerTime string `json:"trigger_time,omitempty"`
	Display     string `json:"display,omitempty"`
}

// ConvertTemporalRequest is the body of POST /api/v1/temporal:convert.
type ConvertTemporalRequest struct {
	IsoDate string `json:"iso_date"`
	IsoTime string `json:"iso_time"`
	// Timezone defaults to the server timezone.
	Timezone string `json:"timezone,omitempty"`
}

// ConvertTemporalResponse is the absolute instant of a civil date and time.
type ConvertTemporalResponse struct {
	Instant  string `json:"instant"`
	Unix     int64  `json:"unix"`
	Timezone string `json:"timezone"`
	Display  string `json:"display"`
}

// ParseTemporal resolves a message into a civil date and time.
// POST /api/v1/temporal:parse
func (s *APIV1Service) ParseTemporal(c echo.Context) error {
	var req ParseTemporalRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.InvalidArgument("invalid request body")
	}

	ctx := c.Request().Context()
	result := s.TemporalService.ParseTemporalExpression(ctx, req.Message, req.Reference)
	s.Metrics.RecordResolution(result.IsResolved())

	resp := ParseTemporalResponse{ResolutionResult: result}
	if result.IsResolved() {
		loc := s.TemporalService.Location()
		instant, err := timezone.ToAbsoluteInstant(result.IsoDate, result.IsoTime, loc)
		if err != nil {
			return err
		}
		resp.TriggerTime = instant.Format(time.RFC3339)
		resp.Display = timezone.FormatInstant(instant, loc)
	}
	return c.JSON(http.StatusOK, resp)
}

// ConvertTemporal converts a civil date and time into an absolute instant.
// POST /api/v1/temporal:convert
func (s *APIV1Service) ConvertTemporal(c echo.Context) error {
	var req ConvertTemporalRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.InvalidArgument("invalid request body")
	}

	loc := s.TemporalService.Location()
	if req.Timezone != "" {
		parsed, err := timezone.ParseTimezone(req.Timezone)
		if err != nil {
			return err
		}
		loc = parsed
	}

	instant, err := timezone.ToAbsoluteInstant(req.IsoDate, req.IsoTime, loc)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ConvertTemporalResponse{
		Instant:  instant.Format(time.RFC3339),
		Unix:     instant.Unix(),
		Timezone: loc.String(),
		Display:  timezone.FormatInstant(instant, loc),
	})
}

// Healthz reports liveness.
// GET /healthz
func (s *APIV1Service) Healthz(c echo.Context) error {
	resp := map[string]any{"status": "ok"}
	if s.Profile != nil {
		resp["version"] = s.Profile.Version
	}
	return c.JSON(http.StatusOK, resp)
}
