package api

import "time"

// Config holds configuration for the HTTP API server.
type Config struct {
	// Addr is the listen address, e.g. ":5000".
	Addr string
	// StreamInterval is how often the websocket feed pushes a state
	// snapshot.
	StreamInterval time.Duration
}

// DefaultConfig returns a Config with reasonable defaults.
func DefaultConfig() Config {
	return Config{
		Addr:           ":5000",
		StreamInterval: time.Second,
	}
}
