/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ssargent/shadowrec/pkg/config"
	"github.com/ssargent/shadowrec/pkg/di"
)

type containerKey struct{}

// rootOptions are the persistent flags shared by every command
type rootOptions struct {
	configPath string
	dataDir    string
	logLevel   string
	logFormat  string
}

// NewRootCmd builds the recctl command tree
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "recctl",
		Short: "recctl - inspect, edit and catalog REC replay files",
		Long: `recctl reads and writes legacy REC replay files.

It can print a replay's summary, list and edit its move records, re-encode it,
and keep replays in a local catalog that the REST API serves.

Examples:
  recctl info match.rec
  recctl moves match.rec --format json
  recctl insert-move match.rec 3 --tick 120 --action up+punch
  recctl import match.rec && recctl serve`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, opts)
			if err != nil {
				return err
			}
			c := di.NewContainer(cfg, cmd.ErrOrStderr())
			cmd.SetContext(context.WithValue(cmd.Context(), containerKey{}, c))
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "",
		"Config file (default "+config.DefaultPath()+")")
	rootCmd.PersistentFlags().StringVarP(&opts.dataDir, "data-dir", "d", "", "Catalog data directory")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&opts.logFormat, "log-format", "", "Log format (text, json)")

	rootCmd.AddCommand(
		newInfoCmd(),
		newMovesCmd(),
		newPlaybackCmd(),
		newDeleteMoveCmd(),
		newInsertMoveCmd(),
		newResaveCmd(),
		newImportCmd(),
		newListCmd(),
		newExportCmd(),
		newServeCmd(),
		newInitCmd(opts),
	)
	return rootCmd
}

// Execute runs the root command. This is called by main.main().
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// resolveConfig loads the config file when one exists and applies flag
// overrides on top.
func resolveConfig(cmd *cobra.Command, opts *rootOptions) (*config.Config, error) {
	path := opts.configPath
	if path == "" {
		path = config.DefaultPath()
	}

	cfg := config.Default()
	if config.Exists(path) {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	} else if cmd.Flags().Changed("config") && cmd.Name() != "init" {
		return nil, fmt.Errorf("config file does not exist: %s", path)
	}

	if opts.dataDir != "" {
		cfg.DataDir = opts.dataDir
	}
	if opts.logLevel != "" {
		cfg.Logging.Level = opts.logLevel
	}
	if opts.logFormat != "" {
		cfg.Logging.Format = opts.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func containerFrom(cmd *cobra.Command) (*di.Container, error) {
	c, ok := cmd.Context().Value(containerKey{}).(*di.Container)
	if !ok {
		return nil, fmt.Errorf("dependency container not initialized")
	}
	return c, nil
}
