// Copyright (c) 2025 qiaoxue
// BridgeLab - bridge engineering classroom backend
// This source code is licensed under the MIT license found in the LICENSE file.

// package httpapi exposes the backend over HTTP. It is a thin layer: it
// binds and validates payloads, calls into the domain packages, and maps
// their errors to status codes and localized messages.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/qiaoxue/bridgelab/internal/chat"
	"github.com/qiaoxue/bridgelab/internal/config"
	"github.com/qiaoxue/bridgelab/internal/db"
	"github.com/qiaoxue/bridgelab/internal/logging"
	"github.com/qiaoxue/bridgelab/internal/student"
)

const shutdownTimeout = 10 * time.Second

// Server wires the HTTP routes to the domain services.
type Server struct {
	echo *echo.Echo
	cfg  config.Config

	adapter db.Adapter
	repo    *student.Repository
	auth    *student.Authenticator
	chat    *chat.Service
}

// structValidator adapts go-playground/validator to echo's Validator
// interface.
type structValidator struct {
	validate *validator.Validate
}

func (v *structValidator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

// NewServer builds the echo application with all routes registered.
func NewServer(cfg config.Config, adapter db.Adapter, chatSvc *chat.Service) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = &structValidator{validate: validator.New()}

	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	repo := student.NewRepository(adapter)
	s := &Server{
		echo:    e,
		cfg:     cfg,
		adapter: adapter,
		repo:    repo,
		auth:    student.NewAuthenticator(repo),
		chat:    chatSvc,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	api := s.echo.Group("/api")

	api.POST("/auth/login", s.handleLogin)

	api.GET("/students", s.handleListStudents)
	api.POST("/students", s.handleAddStudent)
	api.POST("/students/batch", s.handleBatchAdd)
	api.DELETE("/students", s.handleBatchDelete)
	api.GET("/students/stats", s.handleStats)
	api.GET("/students/:group", s.handleGroupMembers)
	api.PUT("/students/id/:id", s.handleUpdateStudent)
	api.DELETE("/students/id/:id", s.handleDeleteStudent)

	api.GET("/diagnostic", s.handleDiagnostic)
	api.POST("/chat", s.handleChat)
	api.POST("/bridge/score", s.handleBridgeScore)
}

// Start runs the listener until the context is canceled or the listener
// fails.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.echo.Start(s.cfg.Server.Address)
	}()
	logging.Infof("http: listening on %s", s.cfg.Server.Address)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return s.echo.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

// ServeHTTP lets tests drive the router without a listener.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}
