package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"taskboard/internal/domain"
	"taskboard/internal/httputil"
)

// handleError maps domain errors to HTTP responses. Typed domain errors
// carry their own status; anything else is a 500 and gets logged with the
// request path so the original cause is not lost.
func handleError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var httpErr domain.HTTPError
	if errors.As(err, &httpErr) {
		httputil.RespondError(w, httpErr.StatusCode(), httpErr.Error())
		return
	}

	logger.Error("unhandled error",
		"error", err,
		"method", r.Method,
		"path", r.URL.Path,
	)
	httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
}

// requireUserID extracts the authenticated user id set by the auth
// middleware, writing a 401 when it is missing.
func requireUserID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	userID, ok := httputil.GetUserID(r)
	if !ok {
		httputil.RespondError(w, http.StatusUnauthorized, "authentication required")
		return 0, false
	}
	return userID, true
}
