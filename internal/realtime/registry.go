package realtime

import (
	"fmt"
	"sync"
)

// UserChannel names the private channel of one account.
func UserChannel(userID int64) string {
	return fmt.Sprintf("User%d", userID)
}

// ProjectChannel names the shared channel of one project.
func ProjectChannel(projectID int64) string {
	return fmt.Sprintf("Project%d", projectID)
}

// Registry is the in-memory many-to-many index between live connection ids
// and channel names. It is the single source of truth for channel
// membership and is safe for arbitrary interleaving of joins, leaves and
// disconnects. Channels exist only while at least one connection is a
// member; an empty channel is dropped from the index immediately.
type Registry struct {
	mu             sync.RWMutex
	channelsByConn map[string]map[string]struct{}
	connsByChannel map[string]map[string]struct{}
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		channelsByConn: make(map[string]map[string]struct{}),
		connsByChannel: make(map[string]map[string]struct{}),
	}
}

// Register adds a connection with no memberships. Registering an
// already-known connection is a no-op.
func (r *Registry) Register(conn string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.channelsByConn[conn]; ok {
		return
	}
	r.channelsByConn[conn] = make(map[string]struct{})
}

// Remove removes the connection and every membership edge it holds.
// Unknown connections are ignored.
func (r *Registry) Remove(conn string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	channels, ok := r.channelsByConn[conn]
	if !ok {
		return
	}
	for channel := range channels {
		r.dropEdge(conn, channel)
	}
	delete(r.channelsByConn, conn)
}

// Join adds one membership edge. A join for an unknown connection is a
// no-op: a late-arriving join after disconnect must not resurrect state.
func (r *Registry) Join(conn, channel string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	channels, ok := r.channelsByConn[conn]
	if !ok {
		return
	}
	channels[channel] = struct{}{}

	members, ok := r.connsByChannel[channel]
	if !ok {
		members = make(map[string]struct{})
		r.connsByChannel[channel] = members
	}
	members[conn] = struct{}{}
}

// Leave removes one membership edge, dropping the channel if it becomes
// empty.
func (r *Registry) Leave(conn, channel string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	channels, ok := r.channelsByConn[conn]
	if !ok {
		return
	}
	delete(channels, channel)
	r.dropEdge(conn, channel)
}

// ClearAll removes every membership edge of a connection while keeping the
// connection itself registered. Used when a user signs out but the
// transport session stays open.
func (r *Registry) ClearAll(conn string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	channels, ok := r.channelsByConn[conn]
	if !ok {
		return
	}
	for channel := range channels {
		r.dropEdge(conn, channel)
	}
	r.channelsByConn[conn] = make(map[string]struct{})
}

// MembersOf returns a snapshot of the connections currently in a channel.
// An unknown or empty channel yields an empty slice, never an error.
func (r *Registry) MembersOf(channel string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members := r.connsByChannel[channel]
	snapshot := make([]string, 0, len(members))
	for conn := range members {
		snapshot = append(snapshot, conn)
	}
	return snapshot
}

// Channels returns a snapshot of the channels a connection is a member of.
func (r *Registry) Channels(conn string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	channels := r.channelsByConn[conn]
	snapshot := make([]string, 0, len(channels))
	for channel := range channels {
		snapshot = append(snapshot, channel)
	}
	return snapshot
}

// Known reports whether the connection is registered.
func (r *Registry) Known(conn string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.channelsByConn[conn]
	return ok
}

// dropEdge removes conn from the channel's member set and garbage-collects
// the channel when it empties. Caller must hold the write lock.
func (r *Registry) dropEdge(conn, channel string) {
	members, ok := r.connsByChannel[channel]
	if !ok {
		return
	}
	delete(members, conn)
	if len(members) == 0 {
		delete(r.connsByChannel, channel)
	}
}
