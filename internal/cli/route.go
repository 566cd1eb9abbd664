package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/campaigncanvas/pkg/geometry"
)

// routeCommand prints the anchors and path of every drawable edge.
func (c *CLI) routeCommand() *cobra.Command {
	var (
		asJSON    bool
		curvature float64
		fromStore bool
		tenant    string
	)

	cmd := &cobra.Command{
		Use:   "route <file|->",
		Short: "Print the routed edges of a board",
		Long: `Route resolves each edge of a board to its source and target handles, the
anchor points on the block borders and the SVG path for its style. Edges
whose source or target block is missing are reported and skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := c.renderSource(cmd.Context(), args[0], renderOpts{fromStore: fromStore, tenant: tenant})
			if err != nil {
				return err
			}
			edges := src.Route(curvature)

			if asJSON {
				if edges == nil {
					edges = []geometry.RoutedEdge{}
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(edges)
			}

			t := newTable("Edge", "From", "To", "Style", "Handles", "Path")
			for _, e := range edges {
				t.Row(e.EdgeID, e.Source, e.Target, string(e.Style),
					fmt.Sprintf("%s %s %s", e.Handles.Source, iconArrow, e.Handles.Target),
					e.Path.String())
			}
			fmt.Fprintln(cmd.OutOrStdout(), t.Render())
			if skipped := len(src.Edges) - len(edges); skipped > 0 {
				printWarning("%d edge(s) reference missing blocks and were skipped", skipped)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	cmd.Flags().Float64Var(&curvature, "curvature", geometry.DefaultCurvature, "bezier edge curvature")
	cmd.Flags().BoolVar(&fromStore, "from-store", false, "read the board from the configured store by id")
	tenantFlag(cmd, &tenant)
	return cmd
}
