package cmd

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ssargent/shadowrec/pkg/rec"
)

// infoView is what info prints for a replay
type infoView struct {
	Path        string      `json:"path" yaml:"path"`
	TrailerSize int         `json:"trailer_size" yaml:"trailer_size"`
	Summary     rec.Summary `json:"summary" yaml:"summary"`
}

func newInfoCmd() *cobra.Command {
	var format string

	infoCmd := &cobra.Command{
		Use:   "info <file>",
		Short: "Show a summary of a replay",
		Long: `Decode a REC file and print its scores, move counts and tick range.

Examples:
  recctl info match.rec
  recctl info match.rec --format yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := loadReplay(cmd, args[0])
			if err != nil {
				return err
			}

			view := infoView{Path: args[0], TrailerSize: len(f.Trailer), Summary: f.Summary()}
			return output(cmd.OutOrStdout(), format, view, func(w *tabwriter.Writer) {
				s := view.Summary
				fmt.Fprintf(w, "File:\t%s\n", view.Path)
				fmt.Fprintf(w, "Encoded size:\t%d bytes\n", s.EncodedSize)
				fmt.Fprintf(w, "Scores:\t%d - %d\n", s.Scores[0], s.Scores[1])
				fmt.Fprintf(w, "Moves:\t%d (%d extended)\n", s.Moves, s.ExtendedMoves)
				if s.Moves > 0 {
					fmt.Fprintf(w, "Ticks:\t%d - %d\n", s.FirstTick, s.LastTick)
					fmt.Fprintf(w, "Players:\t%s\n", formatPlayerMoves(s.PlayerMoves))
				}
				if view.TrailerSize > 0 {
					fmt.Fprintf(w, "Trailer:\t%d bytes\n", view.TrailerSize)
				}
			})
		},
	}

	infoCmd.Flags().StringVarP(&format, "format", "f", formatTable, "Output format (table, json, yaml)")
	return infoCmd
}

func formatPlayerMoves(counts map[uint8]int) string {
	players := make([]int, 0, len(counts))
	for p := range counts {
		players = append(players, int(p))
	}
	sort.Ints(players)

	parts := make([]string, 0, len(players))
	for _, p := range players {
		parts = append(parts, fmt.Sprintf("%d: %d", p, counts[uint8(p)]))
	}
	return strings.Join(parts, ", ")
}

// loadReplay decodes path with the container's codec
func loadReplay(cmd *cobra.Command, path string) (*rec.File, error) {
	c, err := containerFrom(cmd)
	if err != nil {
		return nil, err
	}
	f, err := c.Codec().Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load replay: %w", err)
	}
	return f, nil
}

// saveReplay encodes f to path with the container's codec
func saveReplay(cmd *cobra.Command, f *rec.File, path string) error {
	c, err := containerFrom(cmd)
	if err != nil {
		return err
	}
	if err := c.Codec().Save(f, path); err != nil {
		return fmt.Errorf("failed to save replay: %w", err)
	}
	return nil
}
