// Package core is the embedding API for gridcol: it builds columns for map
// rows from a layout and metadata, and renders them as a table, CSV, JSON
// or YAML.
package core

import (
	"errors"
	"image/color"
	"io"
	"strconv"

	"charm.land/lipgloss/v2"
	"github.com/go-logr/logr"

	"github.com/oakwood-commons/gridcol/internal/formatter"
	"github.com/oakwood-commons/gridcol/pkg/grid"
	"github.com/oakwood-commons/gridcol/pkg/layout"
)

// Row is a single map row.
type Row = layout.Row

// Column is a built column over map rows.
type Column = grid.Column[Row]

// Table is rendered grid text: one header and one cell per column.
type Table struct {
	Keys    []string
	Headers []string
	Styles  []string
	Rows    [][]string
}

// Renderer writes a Table in an output format.
type Renderer interface {
	Render(w io.Writer, output string, t Table) error
}

// Colors are lipgloss color strings (ANSI codes or hex). Empty fields use
// the built-in defaults.
type Colors struct {
	HeaderFG  string
	HeaderBG  string
	Key       string
	Value     string
	Separator string
}

// Engine builds and renders columns.
type Engine struct {
	Layout   *layout.Layout
	Metadata grid.MetadataProvider
	Renderer Renderer
	Logger   logr.Logger
}

var errNoRenderer = errors.New("renderer is not configured")

// Option configures the Engine.
type Option func(*Engine)

// WithLayout fixes the column set. Without a layout, columns are inferred
// from the keys of the rows being rendered.
func WithLayout(l *layout.Layout) Option {
	return func(e *Engine) {
		e.Layout = l
	}
}

// WithMetadata adds a provider consulted after the layout's own metadata.
func WithMetadata(p grid.MetadataProvider) Option {
	return func(e *Engine) {
		e.Metadata = p
	}
}

// WithRenderer replaces the default renderer.
func WithRenderer(r Renderer) Option {
	return func(e *Engine) {
		e.Renderer = r
	}
}

// WithLogger sets the logger for layout building and value expressions.
func WithLogger(lgr logr.Logger) Option {
	return func(e *Engine) {
		e.Logger = lgr
	}
}

// TableRenderer is the default Renderer, backed by the terminal table
// and document writers.
type TableRenderer struct {
	NoColor    bool
	Width      int
	RowNumbers bool
	Colors     Colors
}

// Render implements Renderer.
func (r TableRenderer) Render(w io.Writer, output string, t Table) error {
	g := formatter.Grid{Keys: t.Keys, Headers: t.Headers, Rows: t.Rows}
	for _, s := range t.Styles {
		g.Hints = append(g.Hints, formatter.ParseHint(s))
	}
	return formatter.Write(w, output, g, formatter.TableOptions{
		NoColor:    r.NoColor,
		TotalWidth: r.Width,
		RowNumbers: r.RowNumbers,
		Colors: formatter.TableColors{
			HeaderFG:       colorOrNil(r.Colors.HeaderFG),
			HeaderBG:       colorOrNil(r.Colors.HeaderBG),
			KeyColor:       colorOrNil(r.Colors.Key),
			ValueColor:     colorOrNil(r.Colors.Value),
			SeparatorColor: colorOrNil(r.Colors.Separator),
		},
	})
}

func colorOrNil(s string) color.Color {
	if s == "" {
		return nil
	}
	return lipgloss.Color(s)
}

// New creates an Engine. A configured layout is validated here.
func New(opts ...Option) (*Engine, error) {
	e := &Engine{Logger: logr.Discard()}
	for _, opt := range opts {
		opt(e)
	}
	if e.Renderer == nil {
		e.Renderer = TableRenderer{}
	}
	if e.Layout != nil {
		if err := e.Layout.Validate(); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// Columns builds the column set for rows.
func (e *Engine) Columns(rows []Row) ([]Column, error) {
	l := e.Layout
	if l == nil {
		l = layout.Infer(rows)
	}
	return l.BuildWithLogger(e.Metadata, e.Logger)
}

// Table renders rows through cols.
func (e *Engine) Table(cols []Column, rows []Row) Table {
	t := Table{
		Headers: layout.Headers(cols),
		Rows:    layout.Cells(cols, rows),
	}
	for _, c := range cols {
		t.Keys = append(t.Keys, c.Key)
		t.Styles = append(t.Styles, c.Style)
	}
	return t
}

// Render builds columns for rows and writes the rendered cells.
func (e *Engine) Render(w io.Writer, output string, rows []Row) error {
	cols, err := e.Columns(rows)
	if err != nil {
		return err
	}
	return e.RenderColumns(w, output, cols, rows)
}

// RenderColumns writes rows rendered through prebuilt cols.
func (e *Engine) RenderColumns(w io.Writer, output string, cols []Column, rows []Row) error {
	if e.Renderer == nil {
		return errNoRenderer
	}
	return e.Renderer.Render(w, output, e.Table(cols, rows))
}

// Describe writes one line per column: key, header, style, sortable and
// whether a formatter is set. A non-nil sample adds its rendered cell.
func (e *Engine) Describe(w io.Writer, output string, cols []Column, sample Row) error {
	if e.Renderer == nil {
		return errNoRenderer
	}
	t := Table{
		Keys:    []string{"key", "header", "style", "sortable", "formatter"},
		Headers: []string{"KEY", "HEADER", "STYLE", "SORTABLE", "FORMATTER"},
	}
	if sample != nil {
		t.Keys = append(t.Keys, "sample")
		t.Headers = append(t.Headers, "SAMPLE")
	}
	for _, c := range cols {
		line := []string{c.Key, c.Header, c.Style, strconv.FormatBool(c.Sortable), strconv.FormatBool(c.Format != nil)}
		if sample != nil {
			line = append(line, c.Cell(sample))
		}
		t.Rows = append(t.Rows, line)
	}
	return e.Renderer.Render(w, output, t)
}
