package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"super-tasks/internal/service"
)

func (s *Server) listTrainingMenus(c echo.Context) error {
	menus, err := s.svc.Training.ListMenus(c.Request().Context())
	return respondList(s, c, menus, err)
}

func (s *Server) showTrainingMenu(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return s.fail(c, err)
	}
	menu, err := s.svc.Training.GetMenu(c.Request().Context(), id)
	return respond(s, c, http.StatusOK, menu, err)
}

func (s *Server) createTrainingMenu(c echo.Context) error {
	var in service.TrainingMenuInput
	if err := bindResource(c, "training_menu", &in); err != nil {
		return s.fail(c, err)
	}
	menu, err := s.svc.Training.CreateMenu(c.Request().Context(), in)
	return respond(s, c, http.StatusCreated, menu, err)
}

func (s *Server) updateTrainingMenu(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return s.fail(c, err)
	}
	var in service.TrainingMenuInput
	if err := bindResource(c, "training_menu", &in); err != nil {
		return s.fail(c, err)
	}
	menu, err := s.svc.Training.UpdateMenu(c.Request().Context(), id, in)
	return respond(s, c, http.StatusOK, menu, err)
}

func (s *Server) deleteTrainingMenu(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return s.fail(c, err)
	}
	return s.noContent(c, s.svc.Training.DeleteMenu(c.Request().Context(), id))
}

func (s *Server) listTrainingLogs(c echo.Context) error {
	loc, err := s.location(c)
	if err != nil {
		return s.fail(c, err)
	}
	window, err := dateRange(c, loc)
	if err != nil {
		return s.fail(c, err)
	}
	logs, err := s.svc.Training.ListLogs(c.Request().Context(), currentUserID(c), window)
	return respondList(s, c, logs, err)
}

func (s *Server) showTrainingLog(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return s.fail(c, err)
	}
	log, err := s.svc.Training.GetLog(c.Request().Context(), currentUserID(c), id)
	return respond(s, c, http.StatusOK, log, err)
}

func (s *Server) createTrainingLog(c echo.Context) error {
	var in service.TrainingLogInput
	if err := bindResource(c, "training_log", &in); err != nil {
		return s.fail(c, err)
	}
	log, err := s.svc.Training.CreateLog(c.Request().Context(), currentUserID(c), in)
	return respond(s, c, http.StatusCreated, log, err)
}

func (s *Server) updateTrainingLog(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return s.fail(c, err)
	}
	var in service.TrainingLogInput
	if err := bindResource(c, "training_log", &in); err != nil {
		return s.fail(c, err)
	}
	log, err := s.svc.Training.UpdateLog(c.Request().Context(), currentUserID(c), id, in)
	return respond(s, c, http.StatusOK, log, err)
}

func (s *Server) deleteTrainingLog(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return s.fail(c, err)
	}
	return s.noContent(c, s.svc.Training.DeleteLog(c.Request().Context(), currentUserID(c), id))
}
