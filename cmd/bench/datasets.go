package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/stellarlinkco/agent-bench/internal/dataset"
)

func newDatasetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "datasets",
		Short: "List built-in benchmark datasets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tDESCRIPTION")
			for _, name := range dataset.Names() {
				loader, ok := dataset.ByName(name, 0)
				if !ok {
					continue
				}
				fmt.Fprintf(tw, "%s\t%s\n", loader.Name(), loader.Description())
			}
			return tw.Flush()
		},
	}
}
