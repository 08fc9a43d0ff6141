// Package api exposes the JSON HTTP API over echo.
package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	log "github.com/sirupsen/logrus"

	"super-tasks/internal/service"
)

// Services bundles everything the handlers call.
type Services struct {
	Auth      *service.AuthService
	Training  *service.TrainingService
	Meal      *service.MealService
	Study     *service.StudyService
	Mentor    *service.MentorService
	Dashboard *service.DashboardService
	Category  *service.CategoryService
}

type Options struct {
	SessionSecret  []byte
	CookieSecure   bool
	CookieSameSite http.SameSite
	CORSOrigins    []string
	// Location is the viewer zone used when a request has no tz parameter.
	Location *time.Location
	// Now is captured once per request. Defaults to time.Now.
	Now func() time.Time
	// Health reports whether backing stores are reachable.
	Health func(context.Context) error
}

type Server struct {
	svc      Services
	opts     Options
	sessions *sessions
	logger   *log.Logger
}

// New builds an echo instance with middleware and every route registered.
func New(svc Services, opts Options, logger *log.Logger) *echo.Echo {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if logger == nil {
		logger = log.StandardLogger()
	}
	s := &Server{
		svc:      svc,
		opts:     opts,
		sessions: newSessions(opts.SessionSecret, opts.CookieSecure, opts.CookieSameSite),
		logger:   logger,
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.JSONSerializer = sonicSerializer{}
	e.HTTPErrorHandler = s.handleHTTPError

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(s.requestMetrics)
	e.Use(middleware.Recover())
	if len(opts.CORSOrigins) > 0 {
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins:     opts.CORSOrigins,
			AllowCredentials: true,
			AllowHeaders: []string{
				echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderXCSRFToken,
			},
		}))
	}
	e.Use(middleware.CSRFWithConfig(middleware.CSRFConfig{
		TokenLookup:    "header:" + echo.HeaderXCSRFToken,
		CookieName:     csrfCookie,
		CookiePath:     "/",
		CookieSecure:   opts.CookieSecure,
		CookieSameSite: opts.CookieSameSite,
		ErrorHandler: func(err error, c echo.Context) error {
			metricsFrom(c).SetErrorStage("csrf")
			return c.JSON(http.StatusForbidden, errorBody{Error: "invalid_csrf"})
		},
	}))

	s.register(e)
	return e
}

func (s *Server) register(e *echo.Echo) {
	e.GET("/up", s.health)

	g := e.Group("/api")
	g.GET("/health_check", s.health)
	g.GET("/csrf", s.csrf)
	g.POST("/signup", s.signUp)
	g.POST("/login", s.login)
	g.DELETE("/logout", s.logout)
	g.GET("/me", s.me)

	a := g.Group("", s.requireUser)
	a.PUT("/me/telegram", s.linkTelegram)
	a.GET("/categories", s.categories)
	a.GET("/dashboard", s.dashboard)

	a.GET("/training_menus", s.listTrainingMenus)
	a.GET("/training_menus/:id", s.showTrainingMenu)
	a.POST("/training_menus", s.createTrainingMenu)
	a.PATCH("/training_menus/:id", s.updateTrainingMenu)
	a.PUT("/training_menus/:id", s.updateTrainingMenu)
	a.DELETE("/training_menus/:id", s.deleteTrainingMenu)

	a.GET("/training_logs", s.listTrainingLogs)
	a.GET("/training_logs/:id", s.showTrainingLog)
	a.POST("/training_logs", s.createTrainingLog)
	a.PATCH("/training_logs/:id", s.updateTrainingLog)
	a.PUT("/training_logs/:id", s.updateTrainingLog)
	a.DELETE("/training_logs/:id", s.deleteTrainingLog)

	a.GET("/meal_menus", s.listMealMenus)
	a.GET("/meal_menus/:id", s.showMealMenu)
	a.POST("/meal_menus", s.createMealMenu)
	a.PATCH("/meal_menus/:id", s.updateMealMenu)
	a.PUT("/meal_menus/:id", s.updateMealMenu)
	a.DELETE("/meal_menus/:id", s.deleteMealMenu)

	a.GET("/meal_logs", s.listMealLogs)
	a.GET("/meal_logs/:id", s.showMealLog)
	a.POST("/meal_logs", s.createMealLog)
	a.PATCH("/meal_logs/:id", s.updateMealLog)
	a.PUT("/meal_logs/:id", s.updateMealLog)
	a.DELETE("/meal_logs/:id", s.deleteMealLog)

	a.GET("/study_goals", s.listStudyGoals)
	a.GET("/study_goals/:id", s.showStudyGoal)
	a.POST("/study_goals", s.createStudyGoal)
	a.PATCH("/study_goals/:id", s.updateStudyGoal)
	a.PUT("/study_goals/:id", s.updateStudyGoal)
	a.DELETE("/study_goals/:id", s.deleteStudyGoal)

	a.GET("/study_logs", s.listStudyLogs)
	a.GET("/study_logs/:id", s.showStudyLog)
	a.POST("/study_logs", s.createStudyLog)
	a.PATCH("/study_logs/:id", s.updateStudyLog)
	a.PUT("/study_logs/:id", s.updateStudyLog)
	a.DELETE("/study_logs/:id", s.deleteStudyLog)

	a.GET("/mentor_tasks", s.listMentorTasks)
	a.GET("/mentor_tasks/:id", s.showMentorTask)
	a.POST("/mentor_tasks", s.createMentorTask)
	a.PATCH("/mentor_tasks/:id", s.updateMentorTask)
	a.PUT("/mentor_tasks/:id", s.updateMentorTask)
	a.DELETE("/mentor_tasks/:id", s.deleteMentorTask)

	a.GET("/mentor_task_logs", s.listMentorLogs)
	a.GET("/mentor_task_logs/:id", s.showMentorLog)
	a.POST("/mentor_task_logs", s.createMentorLog)
	a.PATCH("/mentor_task_logs/:id", s.updateMentorLog)
	a.PUT("/mentor_task_logs/:id", s.updateMentorLog)
	a.DELETE("/mentor_task_logs/:id", s.deleteMentorLog)
	a.POST("/mentor_task_logs/:id/complete", s.completeMentorLog)
	a.POST("/mentor_task_logs/:id/reopen", s.reopenMentorLog)

	a.GET("/mentor_calendar", s.mentorCalendar)
}

func (s *Server) health(c echo.Context) error {
	if s.opts.Health != nil {
		if err := s.opts.Health(c.Request().Context()); err != nil {
			s.logger.WithError(err).Warn("health check failed")
			return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		}
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) csrf(c echo.Context) error {
	token, _ := c.Get(middleware.DefaultCSRFConfig.ContextKey).(string)
	return c.JSON(http.StatusOK, map[string]string{"csrfToken": token})
}

// ParseSameSite maps lax, strict and none; anything else is the browser default.
func ParseSameSite(raw string) http.SameSite {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "lax":
		return http.SameSiteLaxMode
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteDefaultMode
	}
}
