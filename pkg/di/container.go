// Package di provides dependency injection container
package di

import (
	"io"
	"log/slog"

	"github.com/ssargent/shadowrec/pkg/api"     //nolint:depguard
	"github.com/ssargent/shadowrec/pkg/catalog" //nolint:depguard
	"github.com/ssargent/shadowrec/pkg/config"  //nolint:depguard
	"github.com/ssargent/shadowrec/pkg/logging"
	"github.com/ssargent/shadowrec/pkg/rec"
)

// Container holds all the dependencies for the application
type Container struct {
	config        *config.Config
	logger        *slog.Logger
	codec         *rec.Codec
	serverFactory api.ServerFactory
}

// NewContainer creates a container from cfg. Logs go to logOut. A nil cfg
// uses config.Default.
func NewContainer(cfg *config.Config, logOut io.Writer) *Container {
	if cfg == nil {
		cfg = config.Default()
	}
	logger := logging.New(logOut, cfg.Logging.Level, cfg.Logging.Format)

	return &Container{
		config:        cfg,
		logger:        logger,
		codec:         rec.NewCodec(rec.WithLogger(logger)),
		serverFactory: api.NewServerFactory(),
	}
}

// Config returns the configuration the container was built from
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the application logger
func (c *Container) Logger() *slog.Logger {
	return c.logger
}

// Codec returns the shared REC codec
func (c *Container) Codec() *rec.Codec {
	return c.codec
}

// OpenCatalog opens the replay catalog under the configured data directory
func (c *Container) OpenCatalog() (*catalog.Catalog, error) {
	return catalog.Open(c.config.DataDir, c.codec, c.logger)
}

// ServerConfig derives the API server settings
func (c *Container) ServerConfig() api.ServerConfig {
	return api.ServerConfig{
		Port:          c.config.Port,
		Bind:          c.config.Bind,
		APIKey:        c.config.Security.APIKey,
		MaxUploadSize: c.config.Replay.MaxUploadSize,
	}
}

// GetServerFactory returns the server factory
func (c *Container) GetServerFactory() api.ServerFactory {
	return c.serverFactory
}

// SetServerFactory allows overriding the server factory (for testing)
func (c *Container) SetServerFactory(factory api.ServerFactory) {
	c.serverFactory = factory
}
