// Package config loads gridcol CLI defaults from an embedded YAML file
// merged with an optional user file.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

//go:embed default_config.yaml
var defaultConfigYAML []byte

// Config holds CLI defaults. Flags given on the command line win.
type Config struct {
	Output     string `yaml:"output"`
	NoColor    bool   `yaml:"noColor"`
	RowNumbers bool   `yaml:"rowNumbers"`
	Width      int    `yaml:"width"`
	Colors     Colors `yaml:"colors"`
}

// Colors are lipgloss color strings: ANSI codes or hex values.
type Colors struct {
	HeaderFG  string `yaml:"headerFG"`
	HeaderBG  string `yaml:"headerBG"`
	Key       string `yaml:"key"`
	Value     string `yaml:"value"`
	Separator string `yaml:"separator"`
}

// DefaultYAML returns a copy of the embedded defaults.
func DefaultYAML() []byte {
	return append([]byte(nil), defaultConfigYAML...)
}

// Load returns the defaults overlaid with the file at path. An empty path
// returns the defaults alone.
func Load(path string) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(defaultConfigYAML, &cfg); err != nil {
		return cfg, fmt.Errorf("decode default config: %w", err)
	}
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	// Decoding onto the defaults keeps every key the file leaves out.
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("decode %s: %w", path, err)
	}
	return cfg, nil
}

// ResolvePath returns explicit when set, otherwise the user config file
// under $XDG_CONFIG_HOME/gridcol or ~/.config/gridcol when it exists.
func ResolvePath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	var candidate string
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		candidate = filepath.Join(xdg, "gridcol", "config.yaml")
	} else if home, err := os.UserHomeDir(); err == nil {
		candidate = filepath.Join(home, ".config", "gridcol", "config.yaml")
	}
	if candidate == "" {
		return ""
	}
	if st, err := os.Stat(candidate); err == nil && !st.IsDir() {
		return candidate
	}
	return ""
}
