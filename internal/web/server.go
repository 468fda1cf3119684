// Package web serves the therapy tracker's JSON API with gin. The
// transport resolves caller identity from bearer tokens and hands a
// principal to the service layer; it holds no business rules itself.
package web

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/solacehq/solace/internal/auth"
	"github.com/solacehq/solace/internal/service"
)

type Server struct {
	engine *gin.Engine
	port   int
	logger *slog.Logger
}

func NewServer(port int, svc *service.TherapyService, a *auth.Authenticator, logger *slog.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	engine.Use(gin.Recovery(), RequestID(), RequestLogger(logger))

	h := NewHandler(svc, logger)

	engine.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	api := engine.Group("/api/v1")
	api.GET("/stats", h.Stats)

	authed := api.Group("")
	authed.Use(Authenticate(a, logger))
	{
		authed.POST("/profile", h.Register)
		authed.GET("/profile", h.GetProfile)
		authed.POST("/profile/activity", h.TouchActivity)

		authed.POST("/sessions", h.StartSession)
		authed.GET("/sessions", h.ListSessions)
		authed.POST("/sessions/:id/end", h.EndSession)

		authed.GET("/report", h.ProgressReport)
		authed.GET("/report/summary", h.SessionSummary)

		authed.POST("/reflection", h.Reflection)
		authed.POST("/analysis/trauma", h.AssessTrauma)
	}

	return &Server{engine: engine, port: port, logger: logger}
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("starting server", "port", s.port)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("server shutdown error", "error", err)
		}
	}()

	err := server.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}
