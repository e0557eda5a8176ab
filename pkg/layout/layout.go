// Package layout declares grid columns over untyped rows in YAML or TOML.
// A layout names the columns to show, per-column overrides and a metadata
// table, and builds them into grid columns over map rows.
package layout

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-logr/logr"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/oakwood-commons/gridcol/internal/expr"
	"github.com/oakwood-commons/gridcol/pkg/grid"
)

// Row is the row type layouts build columns for.
type Row = map[string]any

// Format is a layout file encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

var (
	// ErrNoColumns is returned by Validate for a layout without columns.
	ErrNoColumns = errors.New("layout declares no columns")
	// ErrDuplicatePath is returned by Validate when two columns share a path.
	ErrDuplicatePath = errors.New("duplicate column path")
)

// Layout is a named, ordered column set.
type Layout struct {
	Name     string           `yaml:"name,omitempty" toml:"name,omitempty"`
	Metadata grid.MapProvider `yaml:"metadata,omitempty" toml:"metadata,omitempty"`
	Columns  []ColumnSpec     `yaml:"columns" toml:"columns"`
}

// ColumnSpec declares one column.
type ColumnSpec struct {
	// Path is the dotted property path; it becomes the column key.
	Path   string `yaml:"path" toml:"path"`
	Header string `yaml:"header,omitempty" toml:"header,omitempty"`
	Style  string `yaml:"style,omitempty" toml:"style,omitempty"`
	// Sortable defaults to true when omitted.
	Sortable *bool `yaml:"sortable,omitempty" toml:"sortable,omitempty"`
	// Value is a CEL expression over the row "_". When set it replaces the
	// property value as the cell content.
	Value string `yaml:"value,omitempty" toml:"value,omitempty"`
	// Format is a composite format template. It takes precedence over the
	// metadata template, and is applied to the Value result when Value is set.
	Format string `yaml:"format,omitempty" toml:"format,omitempty"`
}

// FormatFromPath picks the encoding from a file extension. Unknown
// extensions are read as YAML, which also accepts JSON.
func FormatFromPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return FormatTOML
	}
	return FormatYAML
}

// Parse decodes a layout and validates it.
func Parse(data []byte, f Format) (*Layout, error) {
	var l Layout
	switch f {
	case FormatTOML:
		if err := toml.Unmarshal(data, &l); err != nil {
			return nil, fmt.Errorf("invalid TOML layout: %w", err)
		}
	case FormatYAML, "":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&l); err != nil {
			return nil, fmt.Errorf("invalid YAML layout: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported layout format %q", f)
	}
	if err := l.Validate(); err != nil {
		return nil, err
	}
	return &l, nil
}

// LoadFile reads and parses a layout file.
func LoadFile(path string) (*Layout, error) {
	return LoadFileWithLogger(path, logr.Discard())
}

// LoadFileWithLogger is like LoadFile but logs the format dispatch.
func LoadFileWithLogger(path string, lgr logr.Logger) (*Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read layout %s: %w", path, err)
	}
	f := FormatFromPath(path)
	lgr.V(1).Info("loading layout", "path", path, "format", f)
	l, err := Parse(data, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return l, nil
}

// Infer builds a layout showing every top-level key found in rows, sorted.
func Infer(rows []Row) *Layout {
	seen := map[string]struct{}{}
	for _, row := range rows {
		for k := range row {
			if k != "" && !strings.Contains(k, ".") {
				seen[k] = struct{}{}
			}
		}
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return FromPaths(keys)
}

// FromPaths builds a layout with one plain column per path.
func FromPaths(paths []string) *Layout {
	l := &Layout{Columns: make([]ColumnSpec, 0, len(paths))}
	for _, p := range paths {
		l.Columns = append(l.Columns, ColumnSpec{Path: p})
	}
	return l
}

// Validate checks for at least one column, non-empty unique paths and
// compilable value expressions.
func (l *Layout) Validate() error {
	_, err := l.compile()
	return err
}

// compile validates the layout and returns the compiled value expression of
// each column, nil for columns without one.
func (l *Layout) compile() ([]*expr.Program, error) {
	if len(l.Columns) == 0 {
		return nil, ErrNoColumns
	}
	var ev *expr.Evaluator
	programs := make([]*expr.Program, len(l.Columns))
	seen := make(map[string]int, len(l.Columns))
	for i, c := range l.Columns {
		if _, err := grid.Field[Row](c.Path); err != nil {
			return nil, fmt.Errorf("column %d: %w", i, err)
		}
		if j, dup := seen[c.Path]; dup {
			return nil, fmt.Errorf("columns %d and %d: %w %q", j, i, ErrDuplicatePath, c.Path)
		}
		seen[c.Path] = i
		if c.Value == "" {
			continue
		}
		if ev == nil {
			var err error
			if ev, err = expr.NewEvaluator(); err != nil {
				return nil, err
			}
		}
		prg, err := ev.Compile(c.Value)
		if err != nil {
			return nil, fmt.Errorf("column %d (%q) value: %w", i, c.Path, err)
		}
		programs[i] = prg
	}
	return programs, nil
}

// Build turns the layout into grid columns. Metadata is looked up in the
// column's own format first, then the layout's metadata table, then extra.
func (l *Layout) Build(extra grid.MetadataProvider) ([]grid.Column[Row], error) {
	return l.BuildWithLogger(extra, logr.Discard())
}

// BuildWithLogger is like Build. Value expressions that fail on a row render
// as "" and the failure is logged at V(1).
func (l *Layout) BuildWithLogger(extra grid.MetadataProvider, lgr logr.Logger) ([]grid.Column[Row], error) {
	programs, err := l.compile()
	if err != nil {
		return nil, err
	}

	var base grid.Chain
	if l.Metadata != nil {
		base = append(base, l.Metadata)
	}
	if extra != nil {
		base = append(base, extra)
	}
	b := grid.NewBuilder[Row](base)

	cols := make([]grid.Column[Row], 0, len(l.Columns))
	for i, c := range l.Columns {
		opts := grid.Options[Row]{
			Header:   c.Header,
			Style:    c.Style,
			Sortable: c.Sortable,
		}
		if prg := programs[i]; prg != nil {
			opts.Format = valueFormatter(prg, c.Format, lgr.WithValues("column", c.Path))
		}
		p, err := grid.Field[Row](c.Path)
		if err != nil {
			return nil, fmt.Errorf("column %d (%q): %w", i, c.Path, err)
		}
		builder := b
		if c.Format != "" && c.Value == "" {
			override := grid.MapProvider{c.Path: {FormatString: c.Format}}
			builder = grid.NewBuilder[Row](append(grid.Chain{override}, base...))
		}
		col, err := builder.Column(p, opts)
		if err != nil {
			return nil, fmt.Errorf("column %d (%q): %w", i, c.Path, err)
		}
		cols = append(cols, col)
	}
	return cols, nil
}

func valueFormatter(prg *expr.Program, tmpl string, lgr logr.Logger) func(Row) string {
	return func(row Row) string {
		text, err := prg.Text(row, tmpl)
		if err != nil {
			lgr.V(1).Info("value expression failed", "expression", prg.String(), "error", err.Error())
			return ""
		}
		return text
	}
}

// Headers returns the header of each column.
func Headers(cols []grid.Column[Row]) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = c.Header
	}
	return out
}

// Cells renders every row through cols.
func Cells(cols []grid.Column[Row], rows []Row) [][]string {
	out := make([][]string, len(rows))
	for i, row := range rows {
		line := make([]string, len(cols))
		for j, c := range cols {
			line[j] = c.Cell(row)
		}
		out[i] = line
	}
	return out
}
