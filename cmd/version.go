package cmd

import (
	"encoding/json"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/oakwood-commons/gridcol/pkg/settings"
)

func newVersionCommand() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print gridcol version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := settings.VersionInformation
			w := cmd.OutOrStdout()
			switch output {
			case "json":
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(info)
			case "yaml":
				return yaml.NewEncoder(w).Encode(info)
			case "", "text":
				_, err := fmt.Fprintf(w, "%s %s (commit %s, built %s, %s)\n",
					settings.CliBinaryName, info.BuildVersion, info.Commit, info.BuildTime, runtime.Version())
				return err
			}
			return fmt.Errorf("unsupported output format %q", output)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "text", "output format: text|json|yaml")
	return cmd
}
