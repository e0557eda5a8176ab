package cmd

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/oakwood-commons/gridcol/internal/limiter"
	"github.com/oakwood-commons/gridcol/pkg/core"
	"github.com/oakwood-commons/gridcol/pkg/layout"
	"github.com/oakwood-commons/gridcol/pkg/logger"
	"github.com/oakwood-commons/gridcol/pkg/settings"
)

type cellsOptions struct {
	output     string
	sortBy     string
	width      int
	rowNumbers bool
	window     limiter.Config
}

func newCellsCommand(root *rootOptions) *cobra.Command {
	src := &sourceOptions{}
	opts := &cellsOptions{}
	cmd := &cobra.Command{
		Use:   "cells [rows-file]",
		Short: "Render rows through the built columns",
		Example: `  gridcol cells -f products.yaml items.json
  cat items.ndjson | gridcol cells --schema product.schema.json --sort price:desc
  gridcol cells items.csv -c name -c price -o json --limit 10`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.window.Validate(); err != nil {
				return err
			}
			run := runSettings(cmd)
			if cmd.Flags().Changed("output") {
				run.Output = opts.output
			}
			if !slices.Contains(settings.OutputFormats(), run.Output) {
				return fmt.Errorf("unsupported output format %q (expected %s)", run.Output, strings.Join(settings.OutputFormats(), "|"))
			}
			if cmd.Flags().Changed("width") {
				run.Width = opts.width
			}
			run.Limit = opts.window.Limit

			rows, err := src.loadRows(cmd, args, true)
			if err != nil {
				return err
			}
			r := renderer(root, run)
			r.RowNumbers = r.RowNumbers || opts.rowNumbers
			engine, cols, err := src.build(cmd, rows, r)
			if err != nil {
				return err
			}
			if opts.sortBy != "" {
				key, desc, err := layout.ParseSortKey(opts.sortBy)
				if err != nil {
					return err
				}
				if err := layout.Sort(cols, rows, key, desc); err != nil {
					return err
				}
			}
			shown := limiter.Apply(opts.window, rows)
			logger.FromContext(cmd.Context()).V(1).Info("rendering cells",
				"rows", len(rows), "shown", len(shown), "output", run.Output)
			return engine.RenderColumns(cmd.OutOrStdout(), run.Output, cols, shown)
		},
	}
	src.register(cmd.Flags())
	fs := cmd.Flags()
	fs.StringVarP(&opts.output, "output", "o", settings.OutputTable, "output format: table|csv|json|yaml")
	fs.StringVar(&opts.sortBy, "sort", "", "sort rows by column key; append :desc for descending")
	fs.IntVar(&opts.width, "width", 0, "table width in cells (default terminal width)")
	fs.BoolVar(&opts.rowNumbers, "row-numbers", false, "number table rows")
	fs.IntVar(&opts.window.Limit, "limit", 0, "render at most N rows")
	fs.IntVar(&opts.window.Offset, "offset", 0, "skip the first N rows")
	fs.IntVar(&opts.window.Tail, "tail", 0, "render only the last N rows (excludes --limit)")
	return cmd
}

func renderer(root *rootOptions, run *settings.Run) core.TableRenderer {
	return core.TableRenderer{
		NoColor:    run.NoColor,
		Width:      run.Width,
		RowNumbers: root.cfg.RowNumbers,
		Colors:     core.Colors(root.cfg.Colors),
	}
}
