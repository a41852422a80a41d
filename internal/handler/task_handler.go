package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"todolist/internal/export"
	"todolist/internal/model"
	dtos "todolist/internal/model/DTOs"
	"todolist/internal/service"
)

// TaskHandler holds dependencies for HTTP handlers. Every mutating handler
// answers with the full list so clients can redraw their table from it.
type TaskHandler struct {
	svc service.TaskService
	exp *export.Exporter
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(s service.TaskService) *TaskHandler {
	return &TaskHandler{svc: s, exp: export.NewExporter(s)}
}

// RegisterRoutes mounts the task endpoints on rg.
func (h *TaskHandler) RegisterRoutes(rg gin.IRouter) {
	rg.GET("/tasks", h.ListTasks)
	rg.GET("/tasks/export", h.ExportTasks)
	rg.POST("/tasks", h.CreateTask)
	rg.PUT("/tasks/:title", h.UpdateTask)
	rg.POST("/tasks/:title/complete", h.CompleteTask)
	rg.DELETE("/tasks/:title", h.DeleteTask)
}

func (h *TaskHandler) respondList(c *gin.Context, status int) {
	items := dtos.FromList(h.svc.List(c.Request.Context()))
	c.Header("X-Total-Count", strconv.Itoa(len(items)))
	c.JSON(status, gin.H{
		"items": items,
		"total": len(items),
	})
}

// respondError maps validation failures to 400 with their message and
// anything else to 500 with a generic one.
func respondError(c *gin.Context, err error, action string) {
	if errors.Is(err, model.ErrInvalidInput) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to " + action})
}

// ListTasks handles GET /tasks
func (h *TaskHandler) ListTasks(c *gin.Context) {
	h.respondList(c, http.StatusOK)
}

// CreateTask handles POST /tasks
func (h *TaskHandler) CreateTask(c *gin.Context) {
	var dto dtos.CreateTaskDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	dto.Title = strings.TrimSpace(dto.Title)
	ok, err := h.svc.Add(c.Request.Context(), dto.Title, dto.IsPriority(), dto.DueDate)
	if err != nil {
		respondError(c, err, "create task")
		return
	}
	if !ok {
		c.JSON(http.StatusConflict, gin.H{"error": fmt.Sprintf("a task titled %q already exists", dto.Title)})
		return
	}
	h.respondList(c, http.StatusCreated)
}

// UpdateTask handles PUT /tasks/:title
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	title := c.Param("title")
	if strings.TrimSpace(title) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing title"})
		return
	}
	var dto dtos.UpdateTaskDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	dto.Title = strings.TrimSpace(dto.Title)
	ok, err := h.svc.Edit(c.Request.Context(), title, dto.Title, dto.IsPriority(), dto.DueDate)
	if err != nil {
		respondError(c, err, "update task")
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return
	}
	h.respondList(c, http.StatusOK)
}

// CompleteTask handles POST /tasks/:title/complete
func (h *TaskHandler) CompleteTask(c *gin.Context) {
	title := c.Param("title")
	ok, err := h.svc.MarkComplete(c.Request.Context(), title)
	if err != nil {
		respondError(c, err, "complete task")
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return
	}
	h.respondList(c, http.StatusOK)
}

// DeleteTask handles DELETE /tasks/:title
// Deleting an unknown title is not an error.
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	if _, err := h.svc.Remove(c.Request.Context(), c.Param("title")); err != nil {
		respondError(c, err, "delete task")
		return
	}
	h.respondList(c, http.StatusOK)
}

// ExportTasks handles GET /tasks/export?format=json|csv|pdf
func (h *TaskHandler) ExportTasks(c *gin.Context) {
	format := strings.ToLower(c.DefaultQuery("format", "json"))
	data, err := h.exp.Export(c.Request.Context(), format)
	if err != nil {
		if errors.Is(err, export.ErrUnknownFormat) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to export tasks"})
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="tasks.%s"`, format))
	c.Data(http.StatusOK, export.ContentType(format), data)
}
