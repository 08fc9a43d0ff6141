package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"super-tasks/internal/service"
)

func (s *Server) listMealMenus(c echo.Context) error {
	menus, err := s.svc.Meal.ListMenus(c.Request().Context())
	return respondList(s, c, menus, err)
}

func (s *Server) showMealMenu(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return s.fail(c, err)
	}
	menu, err := s.svc.Meal.GetMenu(c.Request().Context(), id)
	return respond(s, c, http.StatusOK, menu, err)
}

func (s *Server) createMealMenu(c echo.Context) error {
	var in service.MealMenuInput
	if err := bindResource(c, "meal_menu", &in); err != nil {
		return s.fail(c, err)
	}
	menu, err := s.svc.Meal.CreateMenu(c.Request().Context(), in)
	return respond(s, c, http.StatusCreated, menu, err)
}

func (s *Server) updateMealMenu(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return s.fail(c, err)
	}
	var in service.MealMenuInput
	if err := bindResource(c, "meal_menu", &in); err != nil {
		return s.fail(c, err)
	}
	menu, err := s.svc.Meal.UpdateMenu(c.Request().Context(), id, in)
	return respond(s, c, http.StatusOK, menu, err)
}

func (s *Server) deleteMealMenu(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return s.fail(c, err)
	}
	return s.noContent(c, s.svc.Meal.DeleteMenu(c.Request().Context(), id))
}

func (s *Server) listMealLogs(c echo.Context) error {
	loc, err := s.location(c)
	if err != nil {
		return s.fail(c, err)
	}
	window, err := dateRange(c, loc)
	if err != nil {
		return s.fail(c, err)
	}
	logs, err := s.svc.Meal.ListLogs(c.Request().Context(), currentUserID(c), window)
	return respondList(s, c, logs, err)
}

func (s *Server) showMealLog(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return s.fail(c, err)
	}
	log, err := s.svc.Meal.GetLog(c.Request().Context(), currentUserID(c), id)
	return respond(s, c, http.StatusOK, log, err)
}

func (s *Server) createMealLog(c echo.Context) error {
	var in service.MealLogInput
	if err := bindResource(c, "meal_log", &in); err != nil {
		return s.fail(c, err)
	}
	log, err := s.svc.Meal.CreateLog(c.Request().Context(), currentUserID(c), in)
	return respond(s, c, http.StatusCreated, log, err)
}

func (s *Server) updateMealLog(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return s.fail(c, err)
	}
	var in service.MealLogInput
	if err := bindResource(c, "meal_log", &in); err != nil {
		return s.fail(c, err)
	}
	log, err := s.svc.Meal.UpdateLog(c.Request().Context(), currentUserID(c), id, in)
	return respond(s, c, http.StatusOK, log, err)
}

func (s *Server) deleteMealLog(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return s.fail(c, err)
	}
	return s.noContent(c, s.svc.Meal.DeleteLog(c.Request().Context(), currentUserID(c), id))
}
