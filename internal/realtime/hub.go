package realtime

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// Sender delivers one event to one live transport session. Implementations
// must not block: a slow consumer is the transport's problem, never the
// broadcaster's. A returned error marks that one delivery as failed and is
// logged; it does not abort the broadcast.
type Sender interface {
	Send(event string, payload any) error
}

// Hub owns connection lifecycle and subscription commands, delegating all
// membership bookkeeping to the Registry. Domain services never touch it
// directly; they run their transaction first and the boundary layer asks
// the hub to broadcast afterwards.
type Hub struct {
	registry *Registry
	logger   *slog.Logger

	mu      sync.RWMutex
	senders map[string]Sender
}

// NewHub creates a hub with an empty registry.
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		registry: NewRegistry(),
		logger:   logger,
		senders:  make(map[string]Sender),
	}
}

// Registry exposes the membership index for read-side inspection in tests.
func (h *Hub) Registry() *Registry {
	return h.registry
}

// Connect registers a new live connection and returns its id.
func (h *Hub) Connect(sender Sender) string {
	id := uuid.NewString()

	h.mu.Lock()
	h.senders[id] = sender
	h.mu.Unlock()

	h.registry.Register(id)

	h.logger.Debug("connection opened", "connection_id", id)
	return id
}

// Disconnect removes the connection and all of its memberships. This is the
// only guaranteed cleanup path, so every transport termination route -
// graceful close, network loss, write failure - must end up here.
func (h *Hub) Disconnect(connID string) {
	h.registry.Remove(connID)

	h.mu.Lock()
	delete(h.senders, connID)
	h.mu.Unlock()

	h.logger.Debug("connection closed", "connection_id", connID)
}

// Login joins the connection to the caller's own user channel. Membership
// only gates delivery; data authorization stays with the domain services.
func (h *Hub) Login(connID string, userID int64) {
	h.registry.Join(connID, UserChannel(userID))
	h.logger.Debug("connection logged in", "connection_id", connID, "user_id", userID)
}

// Logout clears every channel membership of the connection while the
// transport session stays open.
func (h *Hub) Logout(connID string) {
	h.registry.ClearAll(connID)
	h.logger.Debug("connection logged out", "connection_id", connID)
}

// RegisterViewProject subscribes the connection to a project's channel,
// used when a client opens the project detail view.
func (h *Hub) RegisterViewProject(connID string, projectID int64) {
	h.registry.Join(connID, ProjectChannel(projectID))
}

// RemoveFromViewingProject unsubscribes the connection from a project's
// channel.
func (h *Hub) RemoveFromViewingProject(connID string, projectID int64) {
	h.registry.Leave(connID, ProjectChannel(projectID))
}

// Broadcast delivers (event, payload) to every connection currently in the
// channel. Delivery is best-effort per connection: one failed send is
// logged and skipped, the rest still receive, and the caller never sees an
// error. The member snapshot reflects the registry at the instant of the
// call.
func (h *Hub) Broadcast(channel, event string, payload any) {
	members := h.registry.MembersOf(channel)
	if len(members) == 0 {
		return
	}

	for _, connID := range members {
		h.mu.RLock()
		sender, ok := h.senders[connID]
		h.mu.RUnlock()
		if !ok {
			// Disconnected between snapshot and delivery; drop silently.
			continue
		}

		if err := sender.Send(event, payload); err != nil {
			h.logger.Warn("broadcast delivery failed",
				"channel", channel,
				"event", event,
				"connection_id", connID,
				"error", err,
			)
		}
	}

	h.logger.Debug("broadcast dispatched",
		"channel", channel,
		"event", event,
		"recipients", len(members),
	)
}
