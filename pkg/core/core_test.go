package core

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/gridcol/pkg/grid"
	"github.com/oakwood-commons/gridcol/pkg/layout"
)

type fakeRenderer struct {
	output string
	table  Table
}

func (f *fakeRenderer) Render(_ io.Writer, output string, t Table) error {
	f.output = output
	f.table = t
	return nil
}

var rows = []Row{
	{"name": "pen", "price": 1.5},
	{"name": "cap", "price": 12.0},
}

func TestRenderInfersColumns(t *testing.T) {
	engine, err := New(WithMetadata(grid.MapProvider{"price": {DisplayName: "Price", FormatString: "{0:C}"}}))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, engine.Render(&buf, "csv", rows))
	assert.Equal(t, "name,Price\npen,$1.50\ncap,$12.00\n", buf.String())
}

func TestRenderUsesInjectedRenderer(t *testing.T) {
	fake := &fakeRenderer{}
	l := &layout.Layout{Columns: []layout.ColumnSpec{
		{Path: "price", Header: "Cost", Style: "num"},
	}}
	engine, err := New(WithLayout(l), WithRenderer(fake))
	require.NoError(t, err)

	require.NoError(t, engine.Render(io.Discard, "table", rows))
	assert.Equal(t, "table", fake.output)
	assert.Equal(t, Table{
		Keys:    []string{"price"},
		Headers: []string{"Cost"},
		Styles:  []string{"num"},
		Rows:    [][]string{{"1.5"}, {"12"}},
	}, fake.table)
}

func TestNewValidatesLayout(t *testing.T) {
	_, err := New(WithLayout(&layout.Layout{}))
	assert.ErrorIs(t, err, layout.ErrNoColumns)
}

func TestDescribe(t *testing.T) {
	engine, err := New(WithRenderer(TableRenderer{NoColor: true}))
	require.NoError(t, err)
	cols, err := engine.Columns(rows)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, engine.Describe(&buf, "csv", cols, rows[0]))
	assert.Equal(t, "KEY,HEADER,STYLE,SORTABLE,FORMATTER,SAMPLE\nname,name,,true,false,pen\nprice,price,,true,false,1.5\n", buf.String())

	buf.Reset()
	require.NoError(t, engine.Describe(&buf, "csv", cols, nil))
	assert.Equal(t, "KEY,HEADER,STYLE,SORTABLE,FORMATTER\nname,name,,true,false\nprice,price,,true,false\n", buf.String())
}

func TestTableRendererColors(t *testing.T) {
	r := TableRenderer{Width: 40, Colors: Colors{HeaderFG: "#ffffff"}}
	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, "table", Table{Headers: []string{"A"}, Rows: [][]string{{"x"}}}))
	assert.Contains(t, buf.String(), "A")
	assert.Nil(t, colorOrNil(""))
}

func TestEngineWithoutRenderer(t *testing.T) {
	var engine Engine
	cols, err := engine.Columns(rows)
	require.NoError(t, err)

	assert.ErrorIs(t, engine.Describe(io.Discard, "csv", cols, rows[0]), errNoRenderer)
	assert.ErrorIs(t, engine.RenderColumns(io.Discard, "csv", cols, rows), errNoRenderer)
}
