package sse

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// EventWriter writes named SSE events to a response stream
// Not safe for concurrent use; the stream handler serializes writes through it
type EventWriter struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

// NewEventWriter creates an event writer over an SSE response
func NewEventWriter(w http.ResponseWriter, flusher http.Flusher) *EventWriter {
	return &EventWriter{
		w:       w,
		flusher: flusher,
	}
}

// WriteEvent writes a named event with a JSON-encoded payload and flushes
func (e *EventWriter) WriteEvent(event string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal event %q: %w", event, err)
	}

	if _, err := fmt.Fprintf(e.w, "event: %s\ndata: %s\n\n", event, data); err != nil {
		return fmt.Errorf("write event %q: %w", event, err)
	}

	e.flusher.Flush()
	return nil
}

// WriteKeepAlive writes an SSE comment (: keepalive\n\n) and flushes
// Returns error if connection is closed or write fails
func (e *EventWriter) WriteKeepAlive() error {
	// SSE spec: Lines starting with : are comments (ignored by client)
	if _, err := fmt.Fprintf(e.w, ": keepalive\n\n"); err != nil {
		return fmt.Errorf("write keepalive failed: %w", err)
	}

	e.flusher.Flush()

	// Health check: a zero-byte write detects closed connections
	if _, err := e.w.Write([]byte{}); err != nil {
		return fmt.Errorf("connection closed: %w", err)
	}

	return nil
}
