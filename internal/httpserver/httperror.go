package httpserver

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/minishop/backend/internal/service"
)

// ErrorHandler renders every error as {message, error?}; the underlying
// fault detail is exposed for 5xx responses only.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := "Internal server error"
	var internal error

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if s, ok := he.Message.(string); ok {
			message = s
		} else {
			message = fmt.Sprintf("%v", he.Message)
		}
		internal = he.Internal
	} else {
		internal = err
	}

	body := map[string]any{"message": message}
	if code >= http.StatusInternalServerError && internal != nil {
		body["error"] = internal.Error()
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(code)
		return
	}
	_ = c.JSON(code, body)
}

// serviceError maps the service error taxonomy onto HTTP statuses.
func serviceError(err error, fallback string) *echo.HTTPError {
	switch {
	case errors.Is(err, service.ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, service.Reason(err, "invalid request"))
	case errors.Is(err, service.ErrInvalidCredentials):
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid credentials")
	case errors.Is(err, service.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, service.Reason(err, "not found"))
	case errors.Is(err, service.ErrConflict):
		return echo.NewHTTPError(http.StatusConflict, service.Reason(err, "conflict"))
	}
	return echo.NewHTTPError(http.StatusInternalServerError, fallback).SetInternal(err)
}
