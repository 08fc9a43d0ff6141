package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"super-tasks/internal/repository"
)

const (
	sessionCookie = "_super_tasks_session"
	csrfCookie    = "CSRF-TOKEN"
	sessionTTL    = 14 * 24 * time.Hour

	ctxUserID = "user_id"
)

var errNoSession = errors.New("no session")

// sessions keeps the signed-in user in an HS256 JWT cookie.
type sessions struct {
	secret   []byte
	secure   bool
	sameSite http.SameSite
	parser   *jwt.Parser
}

func newSessions(secret []byte, secure bool, sameSite http.SameSite) *sessions {
	return &sessions{
		secret:   secret,
		secure:   secure,
		sameSite: sameSite,
		parser:   jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})),
	}
}

func (s *sessions) issue(c echo.Context, userID uint) error {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(uint64(userID), 10),
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(sessionTTL)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return fmt.Errorf("sign session: %w", err)
	}
	c.SetCookie(s.cookie(signed, int(sessionTTL.Seconds()), now.Add(sessionTTL)))
	return nil
}

func (s *sessions) clear(c echo.Context) {
	c.SetCookie(s.cookie("", -1, time.Unix(0, 0)))
}

func (s *sessions) cookie(value string, maxAge int, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     sessionCookie,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: s.sameSite,
	}
}

// userID returns the id carried by a valid, unexpired session cookie.
func (s *sessions) userID(c echo.Context) (uint, error) {
	ck, err := c.Cookie(sessionCookie)
	if err != nil || ck.Value == "" {
		return 0, errNoSession
	}
	var claims jwt.RegisteredClaims
	_, err = s.parser.ParseWithClaims(ck.Value, &claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		return 0, fmt.Errorf("parse session: %w", err)
	}
	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("session subject %q: %w", claims.Subject, errNoSession)
	}
	return uint(id), nil
}

// requireUser rejects requests without a session for an existing user.
func (s *Server) requireUser(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := s.sessions.userID(c)
		if err != nil {
			metricsFrom(c).SetErrorStage("auth")
			return c.JSON(http.StatusUnauthorized, errorBody{Error: "unauthorized"})
		}
		if _, err := s.svc.Auth.User(c.Request().Context(), id); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				s.sessions.clear(c)
				metricsFrom(c).SetErrorStage("auth")
				return c.JSON(http.StatusUnauthorized, errorBody{Error: "unauthorized"})
			}
			return s.fail(c, err)
		}
		c.Set(ctxUserID, id)
		metricsFrom(c).SetUserID(id)
		return next(c)
	}
}

func currentUserID(c echo.Context) uint {
	id, _ := c.Get(ctxUserID).(uint)
	return id
}
