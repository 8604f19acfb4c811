package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"logistics/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// StatusCode maps an application error to the HTTP status answered for it.
func StatusCode(err error) int {
	var httpErr *echo.HTTPError

	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &httpErr):
		return httpErr.Code
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrVersionIsInvalid):
		return http.StatusConflict
	case errors.Is(err, errs.ErrRoutePlanningFailed),
		errors.Is(err, errs.ErrGeocodeFailed):
		return http.StatusBadGateway
	case errors.Is(err, errs.ErrInvalidTransition),
		errors.Is(err, errs.ErrNotArrived),
		errors.Is(err, errs.ErrAlreadyArrived),
		errors.Is(err, errs.ErrOutOfSequence),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func errorBody(status int, err error) Error {
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		if msg, ok := httpErr.Message.(string); ok {
			return Error{Code: status, Message: msg}
		}
		return Error{Code: status, Message: http.StatusText(status)}
	}

	// Upstream and internal failures may carry provider or driver details;
	// those stay in the log.
	var planningErr *errs.RoutePlanningFailedError
	var geocodeErr *errs.GeocodeFailedError
	switch {
	case status == http.StatusBadGateway && errors.As(err, &planningErr):
		return Error{Code: status, Message: fmt.Sprintf("%s: %s -> %s",
			errs.ErrRoutePlanningFailed, planningErr.Origin, planningErr.Destination)}
	case status == http.StatusBadGateway && errors.As(err, &geocodeErr):
		return Error{Code: status, Message: fmt.Sprintf("%s: %s", errs.ErrGeocodeFailed, geocodeErr.Address)}
	case status >= http.StatusInternalServerError:
		return Error{Code: status, Message: http.StatusText(status)}
	}
	return Error{Code: status, Message: err.Error()}
}

// fail renders err as an Error body.
func (s *Server) fail(ctx echo.Context, err error) error {
	status := StatusCode(err)
	if status >= http.StatusInternalServerError {
		s.logger.ErrorContext(ctx.Request().Context(), "request failed",
			slog.String("path", ctx.Path()),
			slog.Any("error", err))
	}
	return ctx.JSON(status, errorBody(status, err))
}

// HTTPErrorHandler renders errors that escape handlers, such as unknown routes
// and recovered panics, with the same body as handler errors.
func (s *Server) HTTPErrorHandler(err error, ctx echo.Context) {
	if ctx.Response().Committed {
		return
	}
	if ctx.Request().Method == http.MethodHead {
		_ = ctx.NoContent(StatusCode(err))
		return
	}
	_ = s.fail(ctx, err)
}
