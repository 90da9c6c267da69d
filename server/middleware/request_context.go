package middleware

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	apperrors "github.com/hrygo/pengingat/server/internal/errors"
	"github.com/hrygo/pengingat/server/internal/observability"
)

const (
	// HeaderRequestID carries the request ID in both directions.
	HeaderRequestID = "X-Request-ID"
	// HeaderUserID names the calling user. Authentication happens upstream.
	HeaderUserID = "X-User-ID"

	// DefaultUserID is used when a request has no X-User-ID header.
	DefaultUserID int32 = 1
)

// RequestContext installs an observability.RequestContext on every request,
// echoes the request ID, logs a summary line and feeds metrics.
// metrics may be nil.
func RequestContext(logger *slog.Logger, metrics *observability.Metrics) echo.MiddlewareFunc {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID, err := parseUserID(c.Request().Header.Get(HeaderUserID))
			if err != nil {
				status, body := apperrors.ToResponse(err)
				return c.JSON(status, body)
			}

			req := c.Request()
			reqCtx := observability.NewRequestContextWithID(logger, req.Header.Get(HeaderRequestID), c.Path(), userID)
			ctx := observability.WithRequestContext(req.Context(), reqCtx)
			c.SetRequest(req.WithContext(ctx))
			c.Response().Header().Set(HeaderRequestID, reqCtx.RequestID)

			err = next(c)
			if err != nil {
				// let echo's error handler write the response before we read the status
				c.Error(err)
			}

			status := c.Response().Status
			if metrics != nil {
				metrics.RecordRequest(reqCtx.Route, status, reqCtx.Duration())
			}
			reqCtx.Info(ctx, "request completed",
				slog.String("method", req.Method),
				slog.Int(observability.LogFieldStatus, status),
				slog.Int64(observability.LogFieldDuration, reqCtx.DurationMs()),
			)
			return nil
		}
	}
}

// UserID returns the caller installed by RequestContext, or DefaultUserID.
func UserID(c echo.Context) int32 {
	if reqCtx, ok := observability.FromContext(c.Request().Context()); ok {
		return reqCtx.UserID
	}
	return DefaultUserID
}

func parseUserID(raw string) (int32, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultUserID, nil
	}
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || id <= 0 {
		return 0, apperrors.InvalidArgument("X-User-ID must be a positive integer").WithContext("header", raw)
	}
	return int32(id), nil
}
