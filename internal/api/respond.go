package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func respond[T any](s *Server, c echo.Context, status int, v T, err error) error {
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(status, v)
}

// respondList renders an empty result as [] rather than null.
func respondList[T any](s *Server, c echo.Context, items []T, err error) error {
	if err != nil {
		return s.fail(c, err)
	}
	if items == nil {
		items = []T{}
	}
	metricsFrom(c).SetItemsReturned(len(items))
	return c.JSON(http.StatusOK, items)
}

func (s *Server) noContent(c echo.Context, err error) error {
	if err != nil {
		return s.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
