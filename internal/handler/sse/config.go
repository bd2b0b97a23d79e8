package sse

import "time"

// Config holds configuration for SSE connections
type Config struct {
	// KeepAliveInterval is how often to send keep-alive pings to prevent
	// idle proxies from dropping the stream
	KeepAliveInterval time.Duration

	// SendBuffer is the per-connection outbound queue size; a consumer
	// that falls this far behind starts losing events (each payload is a
	// full-state refresh, so the next one catches them up)
	SendBuffer int
}

// DefaultConfig returns the default SSE configuration
func DefaultConfig() *Config {
	return &Config{
		KeepAliveInterval: 10 * time.Second,
		SendBuffer:        64,
	}
}
