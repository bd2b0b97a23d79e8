package handler

import (
	"fmt"
	"log/slog"
	"net/http"

	"taskboard/internal/domain/models"
	"taskboard/internal/domain/services"
	"taskboard/internal/httputil"
	"taskboard/internal/realtime"
)

// TaskHandler handles task HTTP requests
type TaskHandler struct {
	tasks  services.TaskService
	fanout *realtime.Fanout
	logger *slog.Logger
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(tasks services.TaskService, fanout *realtime.Fanout, logger *slog.Logger) *TaskHandler {
	return &TaskHandler{
		tasks:  tasks,
		fanout: fanout,
		logger: logger,
	}
}

// List retrieves tasks across the user's projects
// GET /api/tasks?project_id=N&category=today|upcoming
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	projectID, err := httputil.QueryInt64(r, "project_id")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	category, err := parseCategory(r.URL.Query().Get("category"))
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	tasks, err := h.tasks.GetAll(r.Context(), &services.ListTasksRequest{
		UserID:    userID,
		ProjectID: projectID,
		Category:  category,
	})
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, tasks)
}

// Create creates a new task
// POST /api/tasks
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req services.NewTaskRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	task, err := h.tasks.Create(r.Context(), userID, &req)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	h.fanout.ProjectDetailChanged(r.Context(), userID, task.ProjectID)

	httputil.RespondJSON(w, http.StatusCreated, task)
}

// Get retrieves a task by ID
// GET /api/tasks/{id}
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	taskID, err := httputil.PathID(r, "id")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	task, err := h.tasks.GetOne(r.Context(), userID, taskID)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, task)
}

// Update updates a task
// PATCH /api/tasks/{id}
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	taskID, err := httputil.PathID(r, "id")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req services.UpdateTaskRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	task, err := h.tasks.Update(r.Context(), taskID, userID, &req)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	h.fanout.ProjectDetailChanged(r.Context(), userID, task.ProjectID)

	httputil.RespondJSON(w, http.StatusOK, task)
}

// Delete soft-deletes a task
// DELETE /api/tasks/{id}
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	taskID, err := httputil.PathID(r, "id")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	task, err := h.tasks.SoftDelete(r.Context(), taskID, userID)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	h.fanout.ProjectDetailChanged(r.Context(), userID, task.ProjectID)

	w.WriteHeader(http.StatusNoContent)
}

// parseCategory maps the category query parameter onto a task category.
// An empty value selects everything.
func parseCategory(raw string) (models.TaskCategory, error) {
	switch raw {
	case "", "all":
		return models.CategoryAll, nil
	case "today":
		return models.CategoryToday, nil
	case "upcoming":
		return models.CategoryUpcoming, nil
	default:
		return 0, fmt.Errorf("invalid category %q (want all, today or upcoming)", raw)
	}
}
