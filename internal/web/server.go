// Package web serves the to-do application over HTTP with echo.
package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/nhle/todolist/internal/auth"
	"github.com/nhle/todolist/internal/model"
	"github.com/nhle/todolist/internal/store"
	"github.com/nhle/todolist/internal/todo"
)

const shutdownTimeout = 10 * time.Second

// Server wires the services to the HTTP routes.
type Server struct {
	echo     *echo.Echo
	cfg      model.ServerConfig
	log      *logrus.Entry
	store    store.Store
	auth     *auth.Service
	sessions *auth.SessionManager
	tasks    *todo.Service
}

// NewServer builds a server over st. cfg.Session.Secret must already be
// resolved.
func NewServer(cfg *model.AppConfig, st store.Store, log *logrus.Entry) (*Server, error) {
	hasher, err := auth.NewPasswordHasher(cfg.Auth.BcryptCost)
	if err != nil {
		return nil, err
	}
	sessions, err := auth.NewSessionManager(cfg.Session.Secret, cfg.Session.CookieName, cfg.Server.SecureCookies)
	if err != nil {
		return nil, err
	}
	renderer, err := newRenderer()
	if err != nil {
		return nil, fmt.Errorf("loading templates: %w", err)
	}

	s := &Server{
		echo:     echo.New(),
		cfg:      cfg.Server,
		log:      log,
		store:    st,
		auth:     auth.NewService(st, hasher, log),
		sessions: sessions,
		tasks:    todo.NewService(st, log),
	}

	e := s.echo
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = renderer
	e.HTTPErrorHandler = s.handleError

	s.routes()
	return s, nil
}

func (s *Server) routes() {
	e := s.echo

	e.Use(s.recoverMiddleware())
	e.Use(requestIDMiddleware())
	e.Use(s.requestLogger)
	e.Use(metricsMiddleware)
	e.Use(securityHeaders())
	if s.cfg.CSRF {
		e.Use(s.csrfMiddleware())
	}
	e.Use(s.loadSession)

	e.StaticFS("/static", echo.MustSubFS(staticFS, "static"))
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/healthz", s.healthz)

	e.GET("/", s.index)
	e.GET("/register", s.registerForm)
	e.POST("/register", s.register)
	e.GET("/login", s.loginForm)
	e.POST("/login", s.login)

	g := e.Group("", s.requireUser)
	g.GET("/logout", s.logout)
	g.GET("/home/:user_id", s.home)
	g.POST("/home/:user_id", s.createTask)
	g.GET("/check-off/:task_id", s.completeTask, sameOrigin)
	g.GET("/edit/:task_id", s.editForm)
	g.POST("/edit/:task_id", s.editTask)
	g.GET("/delete/:task_id", s.deleteTask, sameOrigin)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

// Start listens on the configured address until ctx is cancelled, then
// shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.WithField("addr", s.cfg.Addr).Info("server listening")
		errCh <- s.echo.Start(s.cfg.Addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving http: %w", err)
	case <-ctx.Done():
	}

	s.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}

func (s *Server) healthz(c echo.Context) error {
	if err := s.store.Ping(c.Request().Context()); err != nil {
		s.log.WithError(err).Warn("health check failed")
		return c.String(http.StatusServiceUnavailable, "unavailable")
	}
	return c.String(http.StatusOK, "ok")
}
