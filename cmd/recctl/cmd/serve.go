/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var (
		port   int
		bind   string
		apiKey string
	)

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the REST API server",
		Long: `Start the shadowrec REST API over the replay catalog.

Settings come from the config file; flags override them. Every /api/v1 route
requires the X-API-Key header. Prometheus metrics are served on /metrics.

Examples:
  recctl serve
  recctl serve --port 9000 --bind 0.0.0.0 --api-key mysecretkey`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := containerFrom(cmd)
			if err != nil {
				return err
			}

			serverConfig := c.ServerConfig()
			if cmd.Flags().Changed("port") {
				serverConfig.Port = port
			}
			if cmd.Flags().Changed("bind") {
				serverConfig.Bind = bind
			}
			if apiKey != "" {
				serverConfig.APIKey = apiKey
			}
			if serverConfig.APIKey == "" {
				return fmt.Errorf("no API key configured: run 'recctl init' or pass --api-key")
			}

			store, err := openCatalog(cmd)
			if err != nil {
				return err
			}
			defer store.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			starter := c.GetServerFactory().CreateServerStarter()
			if err := starter.StartServer(ctx, store, serverConfig, c.Logger()); err != nil {
				return fmt.Errorf("server error: %w", err)
			}
			return nil
		},
	}

	serveCmd.Flags().IntVarP(&port, "port", "p", 8080, "Port to listen on")
	serveCmd.Flags().StringVar(&bind, "bind", "127.0.0.1", "Address to bind")
	serveCmd.Flags().StringVar(&apiKey, "api-key", "", "API key for authentication")
	return serveCmd
}
