package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"taskboard/internal/handler/sse"
	"taskboard/internal/httputil"
	"taskboard/internal/realtime"
)

// EventsHandler owns the SSE event stream and the subscription commands a
// client issues against its own connection
type EventsHandler struct {
	hub    *realtime.Hub
	config *sse.Config
	logger *slog.Logger
}

// NewEventsHandler creates a new events handler
func NewEventsHandler(hub *realtime.Hub, config *sse.Config, logger *slog.Logger) *EventsHandler {
	if config == nil {
		config = sse.DefaultConfig()
	}
	return &EventsHandler{
		hub:    hub,
		config: config,
		logger: logger,
	}
}

// streamMessage is one queued event on its way to a connection.
type streamMessage struct {
	event   string
	payload any
}

// streamClient adapts a buffered channel to the hub's sender contract.
// Send never blocks; when the queue is full the event is reported as
// undeliverable and the broadcast moves on.
type streamClient struct {
	queue chan streamMessage
}

func newStreamClient(buffer int) *streamClient {
	return &streamClient{queue: make(chan streamMessage, buffer)}
}

func (c *streamClient) Send(event string, payload any) error {
	select {
	case c.queue <- streamMessage{event: event, payload: payload}:
		return nil
	default:
		return errors.New("send queue full")
	}
}

// Stream handles the long-lived event stream
// GET /api/events
func (h *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUserID(w, r); !ok {
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		httputil.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	client := newStreamClient(h.config.SendBuffer)
	connID := h.hub.Connect(client)
	defer h.hub.Disconnect(connID)

	h.logger.Info("event stream established",
		"connection_id", connID,
	)

	writer := sse.NewEventWriter(w, flusher)

	// The connection id is the handle for all subscription commands, so it
	// goes out first
	if err := writer.WriteEvent(realtime.EventConnected, realtime.ConnectedPayload{ConnectionID: connID}); err != nil {
		h.logger.Warn("initial write failed, closing stream",
			"connection_id", connID,
			"error", err,
		)
		return
	}

	ticker := time.NewTicker(h.config.KeepAliveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			h.logger.Info("event stream closed by client",
				"connection_id", connID,
			)
			return

		case msg := <-client.queue:
			if err := writer.WriteEvent(msg.event, msg.payload); err != nil {
				h.logger.Info("client disconnected during event write",
					"connection_id", connID,
					"error", err,
				)
				return
			}

		case <-ticker.C:
			if err := writer.WriteKeepAlive(); err != nil {
				h.logger.Info("client disconnected during keepalive",
					"connection_id", connID,
					"error", err,
				)
				return
			}
		}
	}
}

// Login subscribes the connection to the authenticated user's channel
// POST /api/events/{id}/login
func (h *EventsHandler) Login(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	connID, ok := h.connectionID(w, r)
	if !ok {
		return
	}

	h.hub.Login(connID, userID)
	w.WriteHeader(http.StatusNoContent)
}

// Logout drops every channel subscription of the connection, keeping the
// stream itself open
// POST /api/events/{id}/logout
func (h *EventsHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUserID(w, r); !ok {
		return
	}

	connID, ok := h.connectionID(w, r)
	if !ok {
		return
	}

	h.hub.Logout(connID)
	w.WriteHeader(http.StatusNoContent)
}

// ViewProject subscribes the connection to a project's channel
// POST /api/events/{id}/projects/{projectId}
func (h *EventsHandler) ViewProject(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUserID(w, r); !ok {
		return
	}

	connID, ok := h.connectionID(w, r)
	if !ok {
		return
	}

	projectID, err := httputil.PathID(r, "projectId")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.hub.RegisterViewProject(connID, projectID)
	w.WriteHeader(http.StatusNoContent)
}

// LeaveProject removes the connection from a project's channel
// DELETE /api/events/{id}/projects/{projectId}
func (h *EventsHandler) LeaveProject(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUserID(w, r); !ok {
		return
	}

	connID, ok := h.connectionID(w, r)
	if !ok {
		return
	}

	projectID, err := httputil.PathID(r, "projectId")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.hub.RemoveFromViewingProject(connID, projectID)
	w.WriteHeader(http.StatusNoContent)
}

// connectionID validates the connection path value against the set of live
// connections. Commands for unknown connections get a 404 rather than a
// silent no-op so clients notice a stale handle after a reconnect.
func (h *EventsHandler) connectionID(w http.ResponseWriter, r *http.Request) (string, bool) {
	connID := r.PathValue("id")
	if connID == "" || !h.hub.Registry().Known(connID) {
		httputil.RespondError(w, http.StatusNotFound, "unknown connection")
		return "", false
	}
	return connID, true
}
