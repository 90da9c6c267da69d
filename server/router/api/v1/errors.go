package v1

import (
	stderrors "errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hrygo/pengingat/plugin/ai/reminder"
	apperrors "github.com/hrygo/pengingat/server/internal/errors"
	"github.com/hrygo/pengingat/server/internal/observability"
	"github.com/hrygo/pengingat/store"
)

// toAppError maps domain sentinels onto coded errors. Errors that are
// already coded pass through unchanged.
func toAppError(err error) error {
	var appErr *apperrors.AppError
	if stderrors.As(err, &appErr) {
		return err
	}

	switch {
	case stderrors.Is(err, reminder.ErrNotFound):
		return apperrors.Wrap(err, apperrors.ErrCodeNotFound, "reminder not found")
	case stderrors.Is(err, reminder.ErrInvalidTransition), stderrors.Is(err, store.ErrInvalidFilter):
		return apperrors.Wrap(err, apperrors.ErrCodeInvalidArgument, err.Error())
	}
	return err
}

// errorResponse resolves the status and body for err. Router errors from
// echo keep their status.
func errorResponse(err error) (int, apperrors.ErrorResponse) {
	var httpErr *echo.HTTPError
	if stderrors.As(err, &httpErr) {
		msg, ok := httpErr.Message.(string)
		if !ok {
			msg = http.StatusText(httpErr.Code)
		}
		code := apperrors.ErrCodeInternal
		switch {
		case httpErr.Code == http.StatusNotFound:
			code = apperrors.ErrCodeNotFound
		case httpErr.Code == http.StatusTooManyRequests:
			code = apperrors.ErrCodeRateLimitExceeded
		case httpErr.Code < http.StatusInternalServerError:
			code = apperrors.ErrCodeInvalidArgument
		}
		return httpErr.Code, apperrors.ErrorResponse{Code: code, Message: msg}
	}
	return apperrors.ToResponse(toAppError(err))
}

// HTTPErrorHandler writes every handler error as an ErrorResponse.
func HTTPErrorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		ctx := c.Request().Context()
		status, body := errorResponse(err)
		if status >= http.StatusInternalServerError {
			observability.LoggerFromContext(ctx, logger).
				ErrorContext(ctx, "request failed", slog.String("error", err.Error()))
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, body)
		}
		if err != nil {
			logger.Error("failed to write error response", slog.String("error", err.Error()))
		}
	}
}
