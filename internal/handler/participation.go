package handler

import (
	"log/slog"
	"net/http"

	"taskboard/internal/domain/services"
	"taskboard/internal/httputil"
	"taskboard/internal/realtime"
)

// ParticipationHandler handles project membership HTTP requests
type ParticipationHandler struct {
	participations services.ParticipationService
	fanout         *realtime.Fanout
	logger         *slog.Logger
}

// NewParticipationHandler creates a new participation handler
func NewParticipationHandler(
	participations services.ParticipationService,
	fanout *realtime.Fanout,
	logger *slog.Logger,
) *ParticipationHandler {
	return &ParticipationHandler{
		participations: participations,
		fanout:         fanout,
		logger:         logger,
	}
}

// List retrieves the roster of a project
// GET /api/projects/{id}/participants
func (h *ParticipationHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	projectID, err := httputil.PathID(r, "id")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	roster, err := h.participations.GetParticipants(r.Context(), userID, projectID)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, roster)
}

// Add grants a role to a user on a project
// POST /api/projects/{id}/participants
func (h *ParticipationHandler) Add(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	projectID, err := httputil.PathID(r, "id")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req services.NewParticipationRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.ProjectID = projectID

	edge, err := h.participations.Add(r.Context(), userID, &req)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	h.fanout.ParticipantAdded(r.Context(), userID, projectID)

	httputil.RespondJSON(w, http.StatusCreated, edge)
}

// Remove revokes one role, or every role when none is given, of a user on
// a project
// DELETE /api/projects/{id}/participants
func (h *ParticipationHandler) Remove(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	projectID, err := httputil.PathID(r, "id")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req services.DeleteParticipationRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.ProjectID = projectID

	if err := h.participations.Delete(r.Context(), userID, &req); err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	h.fanout.ParticipantRemoved(r.Context(), userID, projectID, req.UserID)

	w.WriteHeader(http.StatusNoContent)
}
