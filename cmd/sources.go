package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/oakwood-commons/gridcol/pkg/core"
	"github.com/oakwood-commons/gridcol/pkg/grid"
	"github.com/oakwood-commons/gridcol/pkg/layout"
	"github.com/oakwood-commons/gridcol/pkg/loader"
	"github.com/oakwood-commons/gridcol/pkg/logger"
)

var errNoColumns = errors.New("no columns: pass --layout, --column, --schema or row data")

// sourceOptions are the inputs shared by columns and cells.
type sourceOptions struct {
	layoutFile string
	schemaFile string
	dataFile   string
	columns    []string
}

func (s *sourceOptions) register(fs *pflag.FlagSet) {
	fs.StringVarP(&s.layoutFile, "layout", "f", "", "layout file (YAML or TOML) declaring columns and metadata")
	fs.StringVar(&s.schemaFile, "schema", "", "JSON Schema supplying titles and x-gridcol-format templates")
	fs.StringVarP(&s.dataFile, "data", "d", "", "row file (JSON, NDJSON, YAML, TOML or CSV); '-' reads stdin")
	fs.StringArrayVarP(&s.columns, "column", "c", nil, "property path to show; repeatable, ignored with --layout")
}

// loadRows reads rows from --data, the first argument, or piped stdin.
// required reports whether missing input is an error.
func (s *sourceOptions) loadRows(cmd *cobra.Command, args []string, required bool) ([]layout.Row, error) {
	lgr := *logger.FromContext(cmd.Context())
	path := s.dataFile
	if path == "" && len(args) > 0 {
		path = args[0]
	}

	if path != "" && path != "-" {
		return loader.LoadFileWithLogger(path, lgr)
	}
	in := cmd.InOrStdin()
	if path == "" && isTerminal(in) {
		if required {
			return nil, errors.New("no row data: pass a file, --data or pipe rows on stdin")
		}
		return nil, nil
	}
	data, err := io.ReadAll(in)
	if err != nil {
		return nil, fmt.Errorf("failed to read from stdin: %w", err)
	}
	lgr.V(1).Info("read stdin", "bytes", len(data))
	if len(data) == 0 && !required {
		return nil, nil
	}
	return loader.LoadRowsWithLogger(data, lgr)
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	st, err := f.Stat()
	return err == nil && st.Mode()&os.ModeCharDevice != 0
}

// resolveLayout picks the layout: the --layout file, the --column paths,
// the schema's leaf paths, then the keys found in rows.
func (s *sourceOptions) resolveLayout(lgr logr.Logger, schema *grid.SchemaProvider, rows []layout.Row) (*layout.Layout, error) {
	switch {
	case s.layoutFile != "":
		return layout.LoadFileWithLogger(s.layoutFile, lgr)
	case len(s.columns) > 0:
		return s.validated(layout.FromPaths(s.columns))
	case schema != nil:
		return s.validated(layout.FromPaths(schema.Paths()))
	case len(rows) > 0:
		return s.validated(layout.Infer(rows))
	}
	return nil, errNoColumns
}

func (s *sourceOptions) validated(l *layout.Layout) (*layout.Layout, error) {
	if err := l.Validate(); err != nil {
		if errors.Is(err, layout.ErrNoColumns) {
			return nil, errNoColumns
		}
		return nil, err
	}
	return l, nil
}

func (s *sourceOptions) loadSchema(lgr logr.Logger) (*grid.SchemaProvider, error) {
	if s.schemaFile == "" {
		return nil, nil
	}
	data, err := os.ReadFile(s.schemaFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema %s: %w", s.schemaFile, err)
	}
	schema, err := grid.ParseSchema(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.schemaFile, err)
	}
	lgr.V(1).Info("loaded schema", "path", s.schemaFile, "properties", len(schema.Paths()))
	return schema, nil
}

// build resolves the layout and builds its columns with an engine that
// renders through r. Paths the schema does not declare get no schema
// metadata instead of failing.
func (s *sourceOptions) build(cmd *cobra.Command, rows []layout.Row, r core.Renderer) (*core.Engine, []core.Column, error) {
	lgr := *logger.FromContext(cmd.Context())
	schema, err := s.loadSchema(lgr)
	if err != nil {
		return nil, nil, err
	}
	l, err := s.resolveLayout(lgr, schema, rows)
	if err != nil {
		return nil, nil, err
	}

	opts := []core.Option{core.WithLayout(l), core.WithLogger(lgr), core.WithRenderer(r)}
	if schema != nil {
		opts = append(opts, core.WithMetadata(lenient(schema, lgr)))
	}
	engine, err := core.New(opts...)
	if err != nil {
		return nil, nil, err
	}
	cols, err := engine.Columns(rows)
	if err != nil {
		return nil, nil, err
	}
	lgr.V(1).Info("built columns", "layout", l.Name, "count", len(cols))
	return engine, cols, nil
}

func lenient(p grid.MetadataProvider, lgr logr.Logger) grid.MetadataProvider {
	return grid.ProviderFunc(func(t reflect.Type, path string) (grid.Metadata, error) {
		m, err := p.Lookup(t, path)
		if errors.Is(err, grid.ErrUnknownProperty) {
			lgr.V(1).Info("schema does not declare property", "path", path)
			return grid.Metadata{}, nil
		}
		return m, err
	})
}
