package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"taskhub/internal/tasks"
)

// Server provides HTTP handlers for the task tracker.
type Server struct {
	engine    *gin.Engine
	tasks     *tasks.Service
	logger    *slog.Logger
	staticDir string
}

// New constructs the HTTP server with routes and middleware configured.
func New(service *tasks.Service, logger *slog.Logger, staticDir string) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(logger))

	srv := &Server{
		engine:    router,
		tasks:     service,
		logger:    logger,
		staticDir: staticDir,
	}

	srv.registerRoutes()
	return srv
}

// Engine exposes the underlying Gin engine.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// registerRoutes wires all API and static handlers together.
func (s *Server) registerRoutes() {
	api := s.engine.Group("/api")
	{
		api.GET("/healthz", s.handleHealth)

		taskRoutes := api.Group("/tasks")
		{
			taskRoutes.GET("", s.handleListTasks)
			taskRoutes.POST("", s.handleCreateTask)
			taskRoutes.GET(":id", s.handleGetTask)
			taskRoutes.PUT(":id", s.handleUpdateTask)
			taskRoutes.PATCH(":id/complete", s.handleCompleteTask)
			taskRoutes.DELETE(":id", s.handleDeleteTask)
		}

		analytics := api.Group("/analytics")
		{
			analytics.GET("/completion", s.handleCompletionStats)
			analytics.GET("/productivity", s.handleProductivityMetrics)
		}
	}

	s.mountStatic()
}

// handleHealth provides a basic readiness endpoint.
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// respondError maps a service error to a status code. Internal detail is
// logged, never returned to the client.
func (s *Server) respondError(c *gin.Context, err error) {
	var taskErr *tasks.Error
	if !errors.As(err, &taskErr) {
		s.logger.Error("request failed", slog.String("path", c.FullPath()), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	switch taskErr.Kind {
	case tasks.KindValidation, tasks.KindNotFound:
		s.logger.Debug("request rejected", slog.String("path", c.FullPath()), slog.String("error", err.Error()))
		c.JSON(taskErr.StatusCode(), gin.H{"error": taskErr.Message})
	case tasks.KindStore:
		s.logger.Error("store failure", slog.String("path", c.FullPath()), slog.String("error", err.Error()))
		c.JSON(taskErr.StatusCode(), gin.H{"error": "an unexpected error occurred"})
	default:
		s.logger.Error("request failed", slog.String("path", c.FullPath()), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// respondSuccess writes the payload as JSON.
func respondSuccess(c *gin.Context, status int, payload any) {
	if payload == nil {
		c.Status(status)
		return
	}
	c.JSON(status, payload)
}
