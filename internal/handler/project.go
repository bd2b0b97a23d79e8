package handler

import (
	"log/slog"
	"net/http"

	"taskboard/internal/domain/services"
	"taskboard/internal/httputil"
	"taskboard/internal/realtime"
)

// ProjectHandler handles project HTTP requests
type ProjectHandler struct {
	projects services.ProjectService
	fanout   *realtime.Fanout
	logger   *slog.Logger
}

// NewProjectHandler creates a new project handler
func NewProjectHandler(projects services.ProjectService, fanout *realtime.Fanout, logger *slog.Logger) *ProjectHandler {
	return &ProjectHandler{
		projects: projects,
		fanout:   fanout,
		logger:   logger,
	}
}

// List retrieves all projects for the user
// GET /api/projects
func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	projects, err := h.projects.GetAll(r.Context(), userID)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, projects)
}

// Create creates a new project with the caller as Owner
// POST /api/projects
func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req services.NewProjectRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	project, err := h.projects.Create(r.Context(), userID, &req)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	h.fanout.ProjectsListChanged(r.Context(), userID)

	httputil.RespondJSON(w, http.StatusCreated, project)
}

// Get retrieves a project by ID
// GET /api/projects/{id}
func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	projectID, err := httputil.PathID(r, "id")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	project, err := h.projects.GetOne(r.Context(), userID, projectID)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, project)
}

// Update updates a project
// PATCH /api/projects/{id}
func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	projectID, err := httputil.PathID(r, "id")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req services.UpdateProjectRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	project, err := h.projects.Update(r.Context(), projectID, userID, &req)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	h.fanout.ProjectChanged(r.Context(), userID, projectID)

	httputil.RespondJSON(w, http.StatusOK, project)
}

// Delete soft-deletes a project
// DELETE /api/projects/{id}
func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	projectID, err := httputil.PathID(r, "id")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if _, err := h.projects.SoftDelete(r.Context(), projectID, userID); err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	h.fanout.ProjectChanged(r.Context(), userID, projectID)

	w.WriteHeader(http.StatusNoContent)
}
