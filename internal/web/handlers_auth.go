package web

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"github.com/nhle/todolist/internal/auth"
	"github.com/nhle/todolist/internal/form"
)

const (
	msgDuplicateAccount = "You've already signed up with that email or username. Please log in instead."
	msgBadLogin         = "Sorry, that email and password combination does not match our records."
)

func (s *Server) index(c echo.Context) error {
	return c.Render(http.StatusOK, "index", newPage(c, "Welcome"))
}

func (s *Server) registerForm(c echo.Context) error {
	return c.Render(http.StatusOK, "register", newPage(c, "Register"))
}

func (s *Server) register(c echo.Context) error {
	values, err := c.FormParams()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed form")
	}

	p := newPage(c, "Register")
	p.Form = values

	reg, err := form.ParseRegistration(values)
	if ve, ok := form.AsValidationError(err); ok {
		p.Errors = ve
		return c.Render(http.StatusUnprocessableEntity, "register", p)
	}

	u, err := s.auth.Register(c.Request().Context(), reg)
	if errors.Is(err, auth.ErrDuplicateAccount) {
		p.Message = msgDuplicateAccount
		return c.Render(http.StatusConflict, "register", p)
	}
	if err != nil {
		return err
	}
	registrationsTotal.Inc()

	if err := s.sessions.Issue(c.Response(), u.ID); err != nil {
		return err
	}
	return c.Redirect(http.StatusFound, fmt.Sprintf("/home/%d", u.ID))
}

func (s *Server) loginForm(c echo.Context) error {
	p := newPage(c, "Log In")
	p.Action = loginAction(c.QueryParam("next"))
	return c.Render(http.StatusOK, "login", p)
}

func (s *Server) login(c echo.Context) error {
	values, err := c.FormParams()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed form")
	}

	next := c.QueryParam("next")
	p := newPage(c, "Log In")
	p.Form = values
	p.Action = loginAction(next)

	cred, err := form.ParseCredentials(values)
	if ve, ok := form.AsValidationError(err); ok {
		p.Errors = ve
		return c.Render(http.StatusUnprocessableEntity, "login", p)
	}

	u, err := s.auth.Login(c.Request().Context(), cred)
	if errors.Is(err, auth.ErrUnknownAccount) || errors.Is(err, auth.ErrInvalidCredentials) {
		loginsTotal.WithLabelValues("rejected").Inc()
		p.Message = msgBadLogin
		return c.Render(http.StatusUnauthorized, "login", p)
	}
	if err != nil {
		return err
	}

	if next != "" && !auth.IsSafeRedirect(c.Scheme(), c.Request().Host, next) {
		loginsTotal.WithLabelValues("unsafe_redirect").Inc()
		return echo.NewHTTPError(http.StatusNotFound)
	}
	loginsTotal.WithLabelValues("ok").Inc()

	if err := s.sessions.Issue(c.Response(), u.ID); err != nil {
		return err
	}
	if next == "" {
		next = fmt.Sprintf("/home/%d", u.ID)
	}
	return c.Redirect(http.StatusFound, next)
}

func (s *Server) logout(c echo.Context) error {
	s.sessions.Clear(c.Response())
	return c.Redirect(http.StatusFound, "/")
}

// loginAction keeps the post-login target on the form's action URL.
func loginAction(next string) string {
	if next == "" {
		return "/login"
	}
	return "/login?next=" + url.QueryEscape(next)
}
