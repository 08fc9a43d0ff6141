package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"super-tasks/internal/schedule"
	"super-tasks/internal/service"
)

func (s *Server) listMentorTasks(c echo.Context) error {
	tasks, err := s.svc.Mentor.ListTasks(c.Request().Context())
	return respondList(s, c, tasks, err)
}

func (s *Server) showMentorTask(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return s.fail(c, err)
	}
	task, err := s.svc.Mentor.GetTask(c.Request().Context(), id)
	return respond(s, c, http.StatusOK, task, err)
}

func (s *Server) createMentorTask(c echo.Context) error {
	var in service.MentorTaskInput
	if err := bindResource(c, "mentor_task", &in); err != nil {
		return s.fail(c, err)
	}
	task, err := s.svc.Mentor.CreateTask(c.Request().Context(), in)
	return respond(s, c, http.StatusCreated, task, err)
}

func (s *Server) updateMentorTask(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return s.fail(c, err)
	}
	var in service.MentorTaskInput
	if err := bindResource(c, "mentor_task", &in); err != nil {
		return s.fail(c, err)
	}
	task, err := s.svc.Mentor.UpdateTask(c.Request().Context(), id, in)
	return respond(s, c, http.StatusOK, task, err)
}

func (s *Server) deleteMentorTask(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return s.fail(c, err)
	}
	return s.noContent(c, s.svc.Mentor.DeleteTask(c.Request().Context(), id))
}

// listMentorLogs filters on deadline with from/to, status=completed|pending and overdue.
func (s *Server) listMentorLogs(c echo.Context) error {
	now := s.opts.Now()
	loc, err := s.location(c)
	if err != nil {
		return s.fail(c, err)
	}
	window, err := dateRange(c, loc)
	if err != nil {
		return s.fail(c, err)
	}
	q := service.LogQuery{
		Deadline: window,
		Status:   strings.ToLower(strings.TrimSpace(c.QueryParam("status"))),
		Overdue:  truthy(c.QueryParam("overdue")),
	}
	logs, err := s.svc.Mentor.ListLogs(c.Request().Context(), currentUserID(c), q, now)
	return respondList(s, c, logs, err)
}

func (s *Server) showMentorLog(c echo.Context) error {
	now := s.opts.Now()
	id, err := pathID(c)
	if err != nil {
		return s.fail(c, err)
	}
	view, err := s.svc.Mentor.GetLog(c.Request().Context(), currentUserID(c), id, now)
	return respond(s, c, http.StatusOK, view, err)
}

func (s *Server) createMentorLog(c echo.Context) error {
	now := s.opts.Now()
	var in service.MentorTaskLogInput
	if err := bindResource(c, "mentor_task_log", &in); err != nil {
		return s.fail(c, err)
	}
	view, err := s.svc.Mentor.CreateLog(c.Request().Context(), currentUserID(c), in, now)
	return respond(s, c, http.StatusCreated, view, err)
}

func (s *Server) updateMentorLog(c echo.Context) error {
	now := s.opts.Now()
	id, err := pathID(c)
	if err != nil {
		return s.fail(c, err)
	}
	var in service.MentorTaskLogInput
	if err := bindResource(c, "mentor_task_log", &in); err != nil {
		return s.fail(c, err)
	}
	view, err := s.svc.Mentor.UpdateLog(c.Request().Context(), currentUserID(c), id, in, now)
	return respond(s, c, http.StatusOK, view, err)
}

func (s *Server) deleteMentorLog(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return s.fail(c, err)
	}
	return s.noContent(c, s.svc.Mentor.DeleteLog(c.Request().Context(), currentUserID(c), id))
}

func (s *Server) completeMentorLog(c echo.Context) error {
	return s.transitionMentorLog(c, s.svc.Mentor.Complete)
}

func (s *Server) reopenMentorLog(c echo.Context) error {
	return s.transitionMentorLog(c, s.svc.Mentor.Reopen)
}

type transitionFunc func(ctx context.Context, userID, id uint, now time.Time) (service.LogView, error)

func (s *Server) transitionMentorLog(c echo.Context, move transitionFunc) error {
	now := s.opts.Now()
	id, err := pathID(c)
	if err != nil {
		return s.fail(c, err)
	}
	view, err := move(c.Request().Context(), currentUserID(c), id, now)
	return respond(s, c, http.StatusOK, view, err)
}

// mentorCalendar renders one month, week or day page around anchor.
func (s *Server) mentorCalendar(c echo.Context) error {
	now := s.opts.Now()
	loc, err := s.location(c)
	if err != nil {
		return s.fail(c, err)
	}
	view, err := schedule.ParseView(c.QueryParam("view"))
	if err != nil {
		return s.fail(c, err)
	}
	anchor, err := parseAnchor(c.QueryParam("anchor"), loc, now)
	if err != nil {
		return s.fail(c, err)
	}
	taskID, err := queryID(c, "task_id")
	if err != nil {
		return s.fail(c, err)
	}

	cal, err := s.svc.Mentor.Calendar(c.Request().Context(), currentUserID(c), service.CalendarQuery{
		View:     view,
		Anchor:   anchor,
		Location: loc,
		Category: strings.TrimSpace(c.QueryParam("category")),
		TaskID:   taskID,
		Now:      now,
	})
	if err != nil {
		return s.fail(c, err)
	}
	metricsFrom(c).SetItemsReturned(cal.Summary.Total)
	return c.JSON(http.StatusOK, cal)
}
