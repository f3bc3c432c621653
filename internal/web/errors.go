package web

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nhle/todolist/internal/logger"
	"github.com/nhle/todolist/internal/store"
	"github.com/nhle/todolist/internal/todo"
)

// statusFor maps an error returned by a handler to an HTTP status.
func statusFor(err error) int {
	var he *echo.HTTPError
	switch {
	case errors.As(err, &he):
		return he.Code
	case errors.Is(err, todo.ErrNotFound), errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, todo.ErrForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// handleError renders the error page for anything a handler returned.
func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := statusFor(err)
	if code >= http.StatusInternalServerError {
		logger.WithRequestID(s.log, c.Response().Header().Get(echo.HeaderXRequestID)).
			WithError(err).
			WithField("path", c.Request().URL.Path).
			Error("request failed")
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		p := newPage(c, http.StatusText(code))
		p.Code = code
		err = c.Render(code, "error", p)
	}
	if err != nil {
		s.log.WithError(err).Error("rendering error page")
	}
}
