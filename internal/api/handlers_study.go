package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"super-tasks/internal/service"
)

func (s *Server) listStudyGoals(c echo.Context) error {
	goals, err := s.svc.Study.ListGoals(c.Request().Context(), currentUserID(c))
	return respondList(s, c, goals, err)
}

func (s *Server) showStudyGoal(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return s.fail(c, err)
	}
	goal, err := s.svc.Study.GetGoal(c.Request().Context(), currentUserID(c), id)
	return respond(s, c, http.StatusOK, goal, err)
}

func (s *Server) createStudyGoal(c echo.Context) error {
	var in service.StudyGoalInput
	if err := bindResource(c, "study_goal", &in); err != nil {
		return s.fail(c, err)
	}
	goal, err := s.svc.Study.CreateGoal(c.Request().Context(), currentUserID(c), in)
	return respond(s, c, http.StatusCreated, goal, err)
}

func (s *Server) updateStudyGoal(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return s.fail(c, err)
	}
	var in service.StudyGoalInput
	if err := bindResource(c, "study_goal", &in); err != nil {
		return s.fail(c, err)
	}
	goal, err := s.svc.Study.UpdateGoal(c.Request().Context(), currentUserID(c), id, in)
	return respond(s, c, http.StatusOK, goal, err)
}

func (s *Server) deleteStudyGoal(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return s.fail(c, err)
	}
	return s.noContent(c, s.svc.Study.DeleteGoal(c.Request().Context(), currentUserID(c), id))
}

func (s *Server) listStudyLogs(c echo.Context) error {
	loc, err := s.location(c)
	if err != nil {
		return s.fail(c, err)
	}
	window, err := dateRange(c, loc)
	if err != nil {
		return s.fail(c, err)
	}
	logs, err := s.svc.Study.ListLogs(c.Request().Context(), currentUserID(c), window)
	return respondList(s, c, logs, err)
}

func (s *Server) showStudyLog(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return s.fail(c, err)
	}
	log, err := s.svc.Study.GetLog(c.Request().Context(), currentUserID(c), id)
	return respond(s, c, http.StatusOK, log, err)
}

func (s *Server) createStudyLog(c echo.Context) error {
	var in service.StudyLogInput
	if err := bindResource(c, "study_log", &in); err != nil {
		return s.fail(c, err)
	}
	log, err := s.svc.Study.CreateLog(c.Request().Context(), currentUserID(c), in)
	return respond(s, c, http.StatusCreated, log, err)
}

func (s *Server) updateStudyLog(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return s.fail(c, err)
	}
	var in service.StudyLogInput
	if err := bindResource(c, "study_log", &in); err != nil {
		return s.fail(c, err)
	}
	log, err := s.svc.Study.UpdateLog(c.Request().Context(), currentUserID(c), id, in)
	return respond(s, c, http.StatusOK, log, err)
}

func (s *Server) deleteStudyLog(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return s.fail(c, err)
	}
	return s.noContent(c, s.svc.Study.DeleteLog(c.Request().Context(), currentUserID(c), id))
}
