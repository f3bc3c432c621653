package web

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"

	"github.com/nhle/todolist/internal/auth"
	"github.com/nhle/todolist/internal/logger"
)

const csrfContextKey = "csrf"

func (s *Server) recoverMiddleware() echo.MiddlewareFunc {
	return middleware.RecoverWithConfig(middleware.RecoverConfig{
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			s.log.WithError(err).WithField("stack", string(stack)).Error("panic recovered")
			return err
		},
	})
}

func requestIDMiddleware() echo.MiddlewareFunc {
	return middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	})
}

// requestLogger logs one line per request once the response is written.
func (s *Server) requestLogger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		req := c.Request()
		entry := logger.WithRequestID(s.log, c.Response().Header().Get(echo.HeaderXRequestID))
		entry.Debugf("request started: %s %s", req.Method, req.URL.Path)

		if err := next(c); err != nil {
			c.Error(err)
		}

		fields := logrus.Fields{
			"method":      req.Method,
			"path":        req.URL.Path,
			"route":       c.Path(),
			"status":      c.Response().Status,
			"duration_ms": time.Since(start).Milliseconds(),
			"remote_ip":   c.RealIP(),
			"user_agent":  req.UserAgent(),
		}
		if u, ok := auth.UserFromContext(c.Request().Context()); ok {
			fields["user_id"] = u.ID
		}
		entry.WithFields(fields).Info("request completed")
		return nil
	}
}

func securityHeaders() echo.MiddlewareFunc {
	return middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:         "0",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		ContentSecurityPolicy: "default-src 'self'; form-action 'self'; frame-ancestors 'none'",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		HSTSMaxAge:            31536000,
	})
}

func (s *Server) csrfMiddleware() echo.MiddlewareFunc {
	return middleware.CSRFWithConfig(middleware.CSRFConfig{
		TokenLookup:    "form:csrf_token",
		ContextKey:     csrfContextKey,
		CookieName:     "_csrf",
		CookiePath:     "/",
		CookieHTTPOnly: true,
		CookieSecure:   s.cfg.SecureCookies,
		CookieSameSite: http.SameSiteLaxMode,
		Skipper: func(c echo.Context) bool {
			switch c.Path() {
			case "/metrics", "/healthz":
				return true
			}
			return false
		},
	})
}

// loadSession resolves the session cookie and stores the user in the
// request context. Bad or stale cookies leave the request anonymous.
func (s *Server) loadSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		userID, err := s.sessions.Resolve(req)
		if err != nil {
			return next(c)
		}

		u, err := s.auth.User(req.Context(), userID)
		if errors.Is(err, auth.ErrInvalidSession) {
			s.sessions.Clear(c.Response())
			return next(c)
		}
		if err != nil {
			return err
		}

		c.SetRequest(req.WithContext(auth.WithUser(req.Context(), u)))
		return next(c)
	}
}

// requireUser redirects anonymous requests to the login page, keeping the
// requested URI as the post-login target.
func (s *Server) requireUser(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, ok := auth.UserFromContext(c.Request().Context()); ok {
			return next(c)
		}
		target := fmt.Sprintf("/login?next=%s", url.QueryEscape(c.Request().RequestURI))
		return c.Redirect(http.StatusFound, target)
	}
}

// sameOrigin rejects requests another site started. Check-off and delete
// change state over GET, which the CSRF token check does not cover.
func sameOrigin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		switch req.Header.Get("Sec-Fetch-Site") {
		case "cross-site", "same-site":
			return echo.NewHTTPError(http.StatusForbidden, "cross-site request")
		}
		for _, h := range []string{echo.HeaderOrigin, "Referer"} {
			v := req.Header.Get(h)
			if v == "" {
				continue
			}
			if !sameHost(v, req.Host) {
				return echo.NewHTTPError(http.StatusForbidden, "cross-site request")
			}
		}
		return next(c)
	}
}

func sameHost(rawURL, host string) bool {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return false
	}
	return strings.EqualFold(u.Host, host)
}
