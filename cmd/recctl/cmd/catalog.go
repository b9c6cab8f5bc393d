package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/ssargent/shadowrec/pkg/catalog"
)

// openCatalog opens the configured catalog. Callers close it.
func openCatalog(cmd *cobra.Command) (*catalog.Catalog, error) {
	c, err := containerFrom(cmd)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(c.Config().DataDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}
	store, err := c.OpenCatalog()
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	return store, nil
}

func newImportCmd() *cobra.Command {
	var name string

	importCmd := &cobra.Command{
		Use:   "import <file>...",
		Short: "Add replays to the catalog",
		Long: `Validate each file as a REC replay and store it in the catalog.

Examples:
  recctl import match.rec
  recctl import finals/*.rec
  recctl import match.rec --name "grand final"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if name != "" && len(args) > 1 {
				return fmt.Errorf("--name can only be used with a single file")
			}

			store, err := openCatalog(cmd)
			if err != nil {
				return err
			}
			defer store.Close()

			for _, path := range args {
				data, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("failed to read %s: %w", path, err)
				}

				label := name
				if label == "" {
					label = filepath.Base(path)
				}
				entry, err := store.Import(label, data)
				if err != nil {
					return fmt.Errorf("failed to import %s: %w", path, err)
				}
				cmd.Printf("%s\t%s\t%d moves\n", entry.ID, entry.Name, entry.Summary.Moves)
			}
			return nil
		},
	}

	importCmd.Flags().StringVarP(&name, "name", "n", "", "Catalog name (defaults to the file name)")
	return importCmd
}

func newListCmd() *cobra.Command {
	var format string

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List the replays in the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openCatalog(cmd)
			if err != nil {
				return err
			}
			defer store.Close()

			entries, err := store.List()
			if err != nil {
				return fmt.Errorf("failed to list replays: %w", err)
			}

			return output(cmd.OutOrStdout(), format, entries, func(w *tabwriter.Writer) {
				if len(entries) == 0 {
					fmt.Fprintln(w, "No replays found")
					return
				}
				fmt.Fprintln(w, "ID\tNAME\tMOVES\tSCORES\tSIZE\tUPDATED")
				for _, e := range entries {
					fmt.Fprintf(w, "%s\t%s\t%d\t%d-%d\t%d\t%s\n",
						e.ID, e.Name, e.Summary.Moves,
						e.Summary.Scores[0], e.Summary.Scores[1],
						e.Size, e.UpdatedAt.Format(time.RFC3339))
				}
			})
		},
	}

	listCmd.Flags().StringVarP(&format, "format", "f", formatTable, "Output format (table, json, yaml)")
	return listCmd
}

func newExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export <id> <out>",
		Short: "Write a catalog replay to a file",
		Long: `Write the stored bytes of a catalog replay to out.

Examples:
  recctl export 2aTbVVGxTvRbWqH8oN6fL2YPuUl final.rec`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := catalog.ParseID(args[0])
			if err != nil {
				return err
			}

			store, err := openCatalog(cmd)
			if err != nil {
				return err
			}
			defer store.Close()

			data, err := store.Raw(id)
			if err != nil {
				return fmt.Errorf("failed to read replay: %w", err)
			}
			if err := os.WriteFile(args[1], data, 0600); err != nil {
				return fmt.Errorf("failed to write %s: %w", args[1], err)
			}
			cmd.Printf("Exported %s (%d bytes) to %s\n", id, len(data), args[1])
			return nil
		},
	}
}
