package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"super-tasks/internal/repository"
	"super-tasks/internal/schedule"
	"super-tasks/internal/service"
)

type errorBody struct {
	OK     bool   `json:"ok"`
	Error  string `json:"error,omitempty"`
	Errors any    `json:"errors,omitempty"`
}

// paramError is a malformed query parameter or body.
type paramError struct {
	msg string
}

func (e *paramError) Error() string { return e.msg }

func badRequest(msg string) error {
	return &paramError{msg: msg}
}

// fail maps service and repository errors onto responses.
func (s *Server) fail(c echo.Context, err error) error {
	m := metricsFrom(c)
	var (
		ve *service.ValidationError
		pe *paramError
	)
	switch {
	case errors.As(err, &ve):
		m.SetErrorStage("validation")
		return c.JSON(http.StatusUnprocessableEntity, errorBody{Errors: ve.Messages()})
	case errors.Is(err, repository.ErrNotFound):
		m.SetErrorStage("not_found")
		return c.JSON(http.StatusNotFound, errorBody{Error: "not_found"})
	case errors.Is(err, schedule.ErrUnknownView):
		m.SetErrorStage("params")
		return c.JSON(http.StatusBadRequest, errorBody{Error: "invalid_view"})
	case errors.As(err, &pe):
		m.SetErrorStage("params")
		return c.JSON(http.StatusBadRequest, errorBody{Error: pe.msg})
	default:
		m.SetErrorStage("internal")
		s.logger.WithError(err).WithField("route", c.Path()).Error("request failed")
		return c.JSON(http.StatusInternalServerError, errorBody{Error: "internal_error"})
	}
}

// handleHTTPError renders errors that escape handlers, such as unknown routes.
func (s *Server) handleHTTPError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		_ = s.fail(c, err)
		return
	}
	if he.Internal != nil {
		s.logger.WithError(he.Internal).WithField("route", c.Path()).Debug("http error")
	}
	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(he.Code)
		return
	}
	_ = c.JSON(he.Code, errorBody{Error: errorCode(he.Code)})
}

// errorCode turns a status into a snake_case code, e.g. 405 -> method_not_allowed.
func errorCode(status int) string {
	switch status {
	case http.StatusNotFound:
		return "not_found"
	case http.StatusUnauthorized:
		return "unauthorized"
	}
	text := http.StatusText(status)
	if text == "" {
		return "error"
	}
	return strings.ReplaceAll(strings.ToLower(text), " ", "_")
}
