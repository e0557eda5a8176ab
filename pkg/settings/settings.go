// Package settings holds build metadata and per-run configuration for the
// gridcol CLI.
package settings

// CliBinaryName is the canonical binary name.
const CliBinaryName = "gridcol"

// Output formats accepted by the cells command.
const (
	OutputTable = "table"
	OutputCSV   = "csv"
	OutputJSON  = "json"
	OutputYAML  = "yaml"
)

// VersionInformation is set at build time via ldflags.
var VersionInformation = VersionInfo{
	Commit:       "unknown",
	BuildVersion: "v0.0.0-nightly",
	BuildTime:    "unknown",
}

// VersionInfo describes the running binary.
type VersionInfo struct {
	Commit       string `json:"commit" yaml:"commit"`
	BuildVersion string `json:"version" yaml:"version"`
	BuildTime    string `json:"buildTime" yaml:"buildTime"`
}

// Run holds the settings of a single CLI invocation.
type Run struct {
	MinLogLevel int8
	NoColor     bool
	Output      string
	// Limit caps the number of rendered rows; 0 renders all.
	Limit int
	Width int
}

// NewCliParams returns the CLI defaults: info logging, colored table output.
func NewCliParams() *Run {
	return &Run{
		MinLogLevel: 0,
		Output:      OutputTable,
	}
}

// OutputFormats lists the valid values for Run.Output.
func OutputFormats() []string {
	return []string{OutputTable, OutputCSV, OutputJSON, OutputYAML}
}
