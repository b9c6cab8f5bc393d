package cmd

import (
	"encoding/hex"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ssargent/shadowrec/pkg/rec"
)

func newMovesCmd() *cobra.Command {
	var format string

	movesCmd := &cobra.Command{
		Use:   "moves <file>",
		Short: "List the move records of a replay",
		Long: `List every move record in file order, including extended records.

Examples:
  recctl moves match.rec
  recctl moves match.rec --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := loadReplay(cmd, args[0])
			if err != nil {
				return err
			}

			moves := f.Moves.All()
			return output(cmd.OutOrStdout(), format, moves, func(w *tabwriter.Writer) {
				if len(moves) == 0 {
					fmt.Fprintln(w, "No moves found")
					return
				}
				fmt.Fprintln(w, "INDEX\tTICK\tPLAYER\tEXTRA\tACTION\tDATA")
				for i, m := range moves {
					action, data := m.Action.String(), ""
					if m.Extended() {
						action = fmt.Sprintf("raw 0x%02x", m.RawAction)
						data = hex.EncodeToString(m.ExtraData[:])
					}
					fmt.Fprintf(w, "%d\t%d\t%d\t%d\t%s\t%s\n", i, m.Tick, m.PlayerID, m.Extra, action, data)
				}
			})
		},
	}

	movesCmd.Flags().StringVarP(&format, "format", "f", formatTable, "Output format (table, json, yaml)")
	return movesCmd
}

func newPlaybackCmd() *cobra.Command {
	var format string

	playbackCmd := &cobra.Command{
		Use:   "playback <file>",
		Short: "Print the input stream a replay plays back",
		Long: `Print the non-extended moves of a replay in tick order, as a simulation
would consume them.

Examples:
  recctl playback match.rec --format yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := loadReplay(cmd, args[0])
			if err != nil {
				return err
			}

			inputs := f.Playback()
			return output(cmd.OutOrStdout(), format, inputs, func(w *tabwriter.Writer) {
				fmt.Fprintln(w, "TICK\tPLAYER\tACTION")
				for _, in := range inputs {
					fmt.Fprintf(w, "%d\t%d\t%s\n", in.Tick, in.PlayerID, in.Action)
				}
			})
		},
	}

	playbackCmd.Flags().StringVarP(&format, "format", "f", formatTable, "Output format (table, json, yaml)")
	return playbackCmd
}

// parseExtraData decodes the 7-byte payload of an extended record from hex
func parseExtraData(s string) ([7]byte, error) {
	var data [7]byte
	if s == "" {
		return data, nil
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return data, fmt.Errorf("invalid extra data: %w", err)
	}
	if len(b) != len(data) {
		return data, fmt.Errorf("extra data must be %d bytes, got %d", len(data), len(b))
	}
	copy(data[:], b)
	return data, nil
}

// buildMove assembles a move from insert-move flags
func buildMove(tick uint32, player, extra, raw uint8, action, data string) (rec.Move, error) {
	m := rec.Move{Tick: tick, PlayerID: player, Extra: extra}
	if m.Extended() {
		payload, err := parseExtraData(data)
		if err != nil {
			return m, err
		}
		m.RawAction = raw
		m.ExtraData = payload
		return m, nil
	}

	a, err := rec.ParseAction(action)
	if err != nil {
		return m, fmt.Errorf("invalid action: %w", err)
	}
	m.Action = a
	m.RawAction = rec.EncodeAction(a)
	return m, nil
}
