// Package api provides interfaces for dependency injection
package api

import (
	"context"
	"log/slog"
)

// ServerStarter defines the interface for starting the API server
type ServerStarter interface {
	// StartServer serves store until ctx is cancelled
	StartServer(ctx context.Context, store ReplayStore, config ServerConfig, logger *slog.Logger) error
}

// ServerFactory creates server instances
type ServerFactory interface {
	// CreateServerStarter creates a server starter
	CreateServerStarter() ServerStarter
}
