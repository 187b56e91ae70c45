package cli

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/turtacn/cytodyn/internal/domain/cellline"
)

func newCellLinesCommand(opts *rootOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:     "cell-lines",
		Aliases: []string{"celllines", "cl"},
		Short:   "List the cell-line profiles available for simulation",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			catalog, err := cellline.NewCatalogWithOverlay(cfg.Catalog.OverlayPath)
			if err != nil {
				return err
			}
			summaries := catalog.Summaries()

			if output == "json" {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(summaries)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tTYPE\tORIGIN\tDOUBLING (H)\tDRUG CLASSES")
			for _, s := range summaries {
				fmt.Fprintf(w, "%s\t%s\t%s\t%.1f\t%s\n",
					s.Name, s.Type, s.Origin, s.DoublingTime, strings.Join(s.DrugClasses, ", "))
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "table", "output format (table, json)")
	return cmd
}
