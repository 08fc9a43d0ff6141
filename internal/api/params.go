package api

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"super-tasks/internal/model"
	"super-tasks/internal/repository"
	"super-tasks/internal/schedule"
)

// location resolves the tz query parameter, falling back to the server zone.
func (s *Server) location(c echo.Context) (*time.Location, error) {
	tz := strings.TrimSpace(c.QueryParam("tz"))
	if tz == "" {
		return s.opts.Location, nil
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, badRequest("invalid tz")
	}
	return loc, nil
}

// dateRange reads from/to. A bare date covers that whole day in loc.
func dateRange(c echo.Context, loc *time.Location) (repository.DateRange, error) {
	from, err := parseBound(c.QueryParam("from"), loc, false)
	if err != nil {
		return repository.DateRange{}, badRequest("invalid from")
	}
	to, err := parseBound(c.QueryParam("to"), loc, true)
	if err != nil {
		return repository.DateRange{}, badRequest("invalid to")
	}
	return repository.DateRange{From: from, To: to}, nil
}

func parseBound(raw string, loc *time.Location, end bool) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	d, err := time.ParseInLocation(model.DateLayout, raw, loc)
	if err != nil {
		return nil, err
	}
	if end {
		d = schedule.EndOfDay(d, loc)
	}
	return &d, nil
}

// parseAnchor accepts a date or an instant; empty means now.
func parseAnchor(raw string, loc *time.Location, now time.Time) (time.Time, error) {
	t, err := parseBound(raw, loc, false)
	if err != nil {
		return time.Time{}, badRequest("invalid anchor")
	}
	if t == nil {
		return now, nil
	}
	return *t, nil
}

// pathID treats a malformed id like a missing record.
func pathID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("id %q: %w", c.Param("id"), repository.ErrNotFound)
	}
	return uint(id), nil
}

func queryID(c echo.Context, name string) (uint, error) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return 0, nil
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, badRequest("invalid " + name)
	}
	return uint(id), nil
}

// truthy follows form conventions: empty, 0, f, false, off and no are false.
func truthy(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "0", "f", "false", "off", "no", "n":
		return false
	default:
		return true
	}
}
