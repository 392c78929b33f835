package cli

import (
	"encoding/json"
	"fmt"

	"breakerbox/internal/config"
	"breakerbox/internal/highlight"
	"breakerbox/internal/layout"

	"github.com/spf13/cobra"
)

// GridCmd returns the grid command
func GridCmd() *cobra.Command {
	var (
		slots  int
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "grid <snapshot.yaml>",
		Short: "Render a panel snapshot as a two-column slot grid",
		Long: `Lay out the breakers of a panel snapshot the way they sit in the panel.

Odd slots are on the left, even slots on the right. Slots covered by a
multi-pole breaker show as │, shared tandem slots as A|B. Data problems
(unparseable positions, conflicts, slots outside the panel) are listed
after the grid.

Examples:
  panelctl grid main-panel.yaml
  panelctl grid main-panel.yaml --slots 24
  panelctl grid main-panel.json --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := LoadSnapshot(args[0])
			if err != nil {
				return err
			}

			grid, err := buildGrid(snap, slots)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(grid)
			}

			RenderGrid(out, panelName(snap, args[0]), grid, highlight.None())
			return nil
		},
	}

	cmd.Flags().IntVar(&slots, "slots", 0, "total slots (overrides the snapshot)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the grid as JSON")

	return cmd
}

func buildGrid(snap *Snapshot, override int) (*layout.Grid, error) {
	total := snap.Slots(config.Load().DefaultTotalSlots)
	if override > 0 {
		total = override
	}
	grid, err := layout.BuildGrid(snap.LayoutBreakers(), total)
	if err != nil {
		return nil, fmt.Errorf("build grid: %w", err)
	}
	return grid, nil
}

func panelName(snap *Snapshot, path string) string {
	if snap.Panel.Name != "" {
		return snap.Panel.Name
	}
	return path
}
