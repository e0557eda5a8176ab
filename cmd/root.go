// Package cmd implements the gridcol command line.
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/oakwood-commons/gridcol/internal/config"
	"github.com/oakwood-commons/gridcol/pkg/logger"
	"github.com/oakwood-commons/gridcol/pkg/settings"
)

type rootOptions struct {
	debug      bool
	noColor    bool
	configFile string

	cfg config.Config
}

// NewRootCommand builds the gridcol command tree.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   settings.CliBinaryName,
		Short: "Build data grid columns from property paths and metadata",
		Long: `gridcol derives grid column descriptors (key, header, style, sortable,
formatter) from property paths plus display metadata taken from a layout
file, a JSON Schema or both, and renders rows through them.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.setup(cmd)
		},
	}

	cmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "enable debug logging on stderr")
	cmd.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "disable color output")
	cmd.PersistentFlags().StringVar(&opts.configFile, "config-file", "", "path to a YAML config file (default $XDG_CONFIG_HOME/gridcol/config.yaml)")

	cmd.AddCommand(
		newColumnsCommand(opts),
		newCellsCommand(opts),
		newConfigCommand(opts),
		newVersionCommand(),
	)
	return cmd
}

func (o *rootOptions) setup(cmd *cobra.Command) error {
	var level int8
	if o.debug {
		level = -1
	}
	lgr := logger.Get(level)
	lgr = logger.WithValues(lgr, logger.CommandKey, cmd.Name())

	cfgPath := config.ResolvePath(o.configFile)
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfgPath != "" {
		lgr.V(1).Info("loaded config", "path", cfgPath)
	}
	o.cfg = cfg

	run := settings.NewCliParams()
	run.MinLogLevel = level
	run.NoColor = cfg.NoColor
	if flagChanged(cmd.Flags(), "no-color") || os.Getenv("NO_COLOR") != "" {
		run.NoColor = o.noColor || os.Getenv("NO_COLOR") != ""
	}
	if cfg.Output != "" {
		run.Output = cfg.Output
	}
	run.Width = cfg.Width

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = logger.WithLogger(ctx, lgr)
	ctx = settings.IntoContext(ctx, run)
	cmd.SetContext(ctx)
	return nil
}

func flagChanged(fs *pflag.FlagSet, name string) bool {
	f := fs.Lookup(name)
	return f != nil && f.Changed
}

func runSettings(cmd *cobra.Command) *settings.Run {
	if s, ok := settings.FromContext(cmd.Context()); ok {
		return s
	}
	return settings.NewCliParams()
}

// Execute runs the root command against os.Args.
func Execute() error {
	return ExecuteContext(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
}

// ExecuteContext runs the command tree with explicit arguments and streams.
func ExecuteContext(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer) error {
	root := NewRootCommand()
	root.SetArgs(args)
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)
	return root.ExecuteContext(ctx)
}
