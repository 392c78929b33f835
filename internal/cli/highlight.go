package cli

import (
	"errors"
	"fmt"

	"breakerbox/internal/highlight"

	"github.com/spf13/cobra"
)

// HighlightCmd returns the highlight command
func HighlightCmd() *cobra.Command {
	var (
		breakerID string
		deviceID  string
		circuit   []string
		slots     int
	)

	cmd := &cobra.Command{
		Use:   "highlight <snapshot.yaml>",
		Short: "Show which devices a breaker feeds, or which breaker feeds a device",
		Long: `Resolve a highlight selection against a panel snapshot.

  --breaker ID    devices fed by the breaker (tandem half ids like 14-A work too)
  --device ID     the device's breaker and the other devices on it
  --circuit a,b   several breakers at once and all of their devices

The panel grid is printed below with the lit breakers marked *.

Examples:
  panelctl highlight main-panel.yaml --breaker kitchen
  panelctl highlight main-panel.yaml --device fridge-outlet
  panelctl highlight main-panel.yaml --circuit dryer,washer`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			set := 0
			for _, on := range []bool{breakerID != "", deviceID != "", len(circuit) > 0} {
				if on {
					set++
				}
			}
			if set != 1 {
				return errors.New("exactly one of --breaker, --device or --circuit is required")
			}

			snap, err := LoadSnapshot(args[0])
			if err != nil {
				return err
			}

			engine := snap.Engine()
			var state highlight.State
			switch {
			case breakerID != "":
				state, err = engine.ByBreaker(breakerID)
			case deviceID != "":
				state, err = engine.ByDevice(deviceID)
			default:
				state, err = engine.ByCircuit(circuit)
			}
			if err != nil {
				return err
			}

			grid, err := buildGrid(snap, slots)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			RenderHighlight(out, snap, state)
			fmt.Fprintln(out)
			RenderGrid(out, panelName(snap, args[0]), grid, state)
			return nil
		},
	}

	cmd.Flags().StringVar(&breakerID, "breaker", "", "breaker id")
	cmd.Flags().StringVar(&deviceID, "device", "", "device id")
	cmd.Flags().StringSliceVar(&circuit, "circuit", nil, "comma-separated breaker ids")
	cmd.Flags().IntVar(&slots, "slots", 0, "total slots (overrides the snapshot)")

	return cmd
}
