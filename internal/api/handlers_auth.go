package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"super-tasks/internal/model"
	"super-tasks/internal/service"
)

type userView struct {
	ID             uint   `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	TelegramChatID *int64 `json:"telegram_chat_id"`
}

func newUserView(u *model.User) userView {
	return userView{ID: u.ID, Name: u.Name, Email: u.Email, TelegramChatID: u.TelegramChatID}
}

type userResponse struct {
	OK   bool     `json:"ok"`
	User userView `json:"user"`
}

type loginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) signUp(c echo.Context) error {
	var in service.SignUpInput
	if err := bindResource(c, "user", &in); err != nil {
		return s.fail(c, err)
	}
	user, err := s.svc.Auth.SignUp(c.Request().Context(), in)
	if err != nil {
		var ve *service.ValidationError
		if errors.As(err, &ve) {
			metricsFrom(c).SetErrorStage("validation")
			return c.JSON(http.StatusUnprocessableEntity, errorBody{Errors: ve.FieldMessages()})
		}
		return s.fail(c, err)
	}
	if err := s.sessions.issue(c, user.ID); err != nil {
		return s.fail(c, err)
	}
	metricsFrom(c).SetUserID(user.ID)
	return c.JSON(http.StatusCreated, userResponse{OK: true, User: newUserView(user)})
}

func (s *Server) login(c echo.Context) error {
	var in loginInput
	if err := bindResource(c, "session", &in); err != nil {
		return s.fail(c, err)
	}
	user, err := s.svc.Auth.Authenticate(c.Request().Context(), in.Email, in.Password)
	if errors.Is(err, service.ErrInvalidCredentials) {
		metricsFrom(c).SetErrorStage("auth")
		return c.JSON(http.StatusUnauthorized, errorBody{Error: "invalid_credentials"})
	}
	if err != nil {
		return s.fail(c, err)
	}
	if err := s.sessions.issue(c, user.ID); err != nil {
		return s.fail(c, err)
	}
	metricsFrom(c).SetUserID(user.ID)
	return c.JSON(http.StatusOK, userResponse{OK: true, User: newUserView(user)})
}

func (s *Server) logout(c echo.Context) error {
	s.sessions.clear(c)
	return c.JSON(http.StatusOK, map[string]bool{"ok": true})
}

type meResponse struct {
	SignedIn bool      `json:"signedIn"`
	User     *userView `json:"user,omitempty"`
}

func (s *Server) me(c echo.Context) error {
	id, err := s.sessions.userID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, meResponse{})
	}
	user, err := s.svc.Auth.User(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, meResponse{})
	}
	metricsFrom(c).SetUserID(id)
	view := newUserView(user)
	return c.JSON(http.StatusOK, meResponse{SignedIn: true, User: &view})
}

type telegramInput struct {
	ChatID *int64 `json:"chat_id"`
}

func (s *Server) linkTelegram(c echo.Context) error {
	var in telegramInput
	if err := bindResource(c, "telegram", &in); err != nil {
		return s.fail(c, err)
	}
	user, err := s.svc.Auth.LinkTelegram(c.Request().Context(), currentUserID(c), in.ChatID)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, userResponse{OK: true, User: newUserView(user)})
}

func (s *Server) categories(c echo.Context) error {
	opts, err := s.svc.Category.List(c.Request().Context())
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, opts)
}

func (s *Server) dashboard(c echo.Context) error {
	now := s.opts.Now()
	loc, err := s.location(c)
	if err != nil {
		return s.fail(c, err)
	}
	d, err := s.svc.Dashboard.Build(c.Request().Context(), currentUserID(c), now, loc)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, d)
}
