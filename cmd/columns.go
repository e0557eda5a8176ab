package cmd

import (
	"github.com/spf13/cobra"

	"github.com/oakwood-commons/gridcol/pkg/settings"
)

func newColumnsCommand(root *rootOptions) *cobra.Command {
	src := &sourceOptions{}
	var output string
	cmd := &cobra.Command{
		Use:   "columns [rows-file]",
		Short: "Show the column descriptors built for a layout",
		Long: `Show the key, header, style, sortable flag and formatter of every column.
When rows are given, the SAMPLE column renders the first row.`,
		Example: `  gridcol columns -f products.yaml
  gridcol columns --schema product.schema.json -c name -c price
  gridcol columns items.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := src.loadRows(cmd, args, false)
			if err != nil {
				return err
			}
			run := runSettings(cmd)
			if cmd.Flags().Changed("output") {
				run.Output = output
			}
			engine, cols, err := src.build(cmd, rows, renderer(root, run))
			if err != nil {
				return err
			}
			var sample map[string]any
			if len(rows) > 0 {
				sample = rows[0]
			}
			return engine.Describe(cmd.OutOrStdout(), run.Output, cols, sample)
		},
	}
	src.register(cmd.Flags())
	cmd.Flags().StringVarP(&output, "output", "o", settings.OutputTable, "output format: table|csv|json|yaml")
	return cmd
}
