package server

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"taskhub/internal/models"
	"taskhub/internal/tasks"
)

type createTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

// Identity and timestamp fields in the body are ignored.
type updateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
}

// bindJSON decodes the body and reports a validation error on failure.
func (s *Server) bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		s.logger.Debug("invalid request body", slog.String("path", c.FullPath()), slog.String("error", err.Error()))
		s.respondError(c, tasks.NewValidationError("invalid request format, please check your JSON syntax"))
		return false
	}
	return true
}

// handleListTasks returns all tasks, optionally filtered by ?status=.
func (s *Server) handleListTasks(c *gin.Context) {
	list, err := s.tasks.List(c.Request.Context(), c.Query("status"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, list)
}

// handleCreateTask inserts a new pending task.
func (s *Server) handleCreateTask(c *gin.Context) {
	var req createTaskRequest
	if !s.bindJSON(c, &req) {
		return
	}
	if req.Title == nil {
		s.respondError(c, tasks.NewValidationError("title is required"))
		return
	}

	task, err := s.tasks.Create(c.Request.Context(), *req.Title, getString(req.Description))
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, task)
}

// handleGetTask fetches a single task.
func (s *Server) handleGetTask(c *gin.Context) {
	task, err := s.tasks.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, task)
}

// handleUpdateTask merges the supplied title, description and status.
func (s *Server) handleUpdateTask(c *gin.Context) {
	var req updateTaskRequest
	if !s.bindJSON(c, &req) {
		return
	}

	task, err := s.tasks.Update(c.Request.Context(), c.Param("id"), models.TaskPatch{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
	})
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, task)
}

// handleCompleteTask marks a task completed.
func (s *Server) handleCompleteTask(c *gin.Context) {
	task, err := s.tasks.Complete(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, task)
}

// handleDeleteTask removes a task completely.
func (s *Server) handleDeleteTask(c *gin.Context) {
	task, err := s.tasks.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"message": "Task deleted successfully", "task": task})
}

func getString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
