package handler

import (
	"log/slog"
	"net/http"

	"taskboard/internal/domain/services"
	"taskboard/internal/httputil"
	"taskboard/internal/realtime"
)

// UserHandler handles profile HTTP requests
type UserHandler struct {
	users  services.UserService
	fanout *realtime.Fanout
	logger *slog.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(users services.UserService, fanout *realtime.Fanout, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		users:  users,
		fanout: fanout,
		logger: logger,
	}
}

// Me retrieves the authenticated user's profile
// GET /api/users/me
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	profile, err := h.users.GetByID(r.Context(), userID)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, profile)
}

// Get retrieves a user's profile by ID
// GET /api/users/{id}
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUserID(w, r); !ok {
		return
	}

	targetID, err := httputil.PathID(r, "id")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	profile, err := h.users.GetByID(r.Context(), targetID)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, profile)
}

// Find searches users by profile fields, used to pick participants to add
// POST /api/users/search
func (h *UserHandler) Find(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req services.FindUsersRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	users, err := h.users.Find(r.Context(), userID, &req)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, users)
}

// Update applies profile changes for the authenticated user
// PATCH /api/users/me
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req services.UpdateUserRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	profile, err := h.users.Update(r.Context(), userID, &req)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	h.fanout.ProfileChanged(r.Context(), userID)

	httputil.RespondJSON(w, http.StatusOK, profile)
}
