/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ssargent/shadowrec/pkg/config"
)

func newInitCmd(opts *rootOptions) *cobra.Command {
	var (
		force     bool
		printKeys bool
	)

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create a configuration with a generated API key",
		Long: `Write a configuration file with a freshly generated API key.

An existing file is left alone unless --force is given.

Examples:
  recctl init
  recctl init --config ./recctl.yaml --data-dir ./replays --print-keys`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath := opts.configPath
			if configPath == "" {
				configPath = config.DefaultPath()
			}

			if config.Exists(configPath) && !force {
				cmd.Printf("Configuration already exists at %s. Use --force to overwrite.\n", configPath)
				return nil
			}

			cfg, err := config.Bootstrap(configPath, opts.dataDir)
			if err != nil {
				return fmt.Errorf("failed to bootstrap config: %w", err)
			}

			cmd.Printf("Configuration created at %s\n", configPath)
			cmd.Printf("Data directory: %s\n", cfg.DataDir)
			if printKeys {
				cmd.Printf("API key: %s\n", cfg.Security.APIKey)
			}
			cmd.Printf("\nYou can now start the server with:\n")
			cmd.Printf("  recctl serve --config %s\n", configPath)
			return nil
		},
	}

	initCmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing configuration")
	initCmd.Flags().BoolVar(&printKeys, "print-keys", false, "Print the generated API key")
	return initCmd
}
