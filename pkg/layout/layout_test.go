package layout

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-logr/logr/testr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/gridcol/pkg/grid"
)

const productsYAML = `
name: products
metadata:
  price: {displayName: Unit Price, format: "${0:0.00}"}
  vendor.country: {displayName: Origin}
columns:
  - path: name
  - path: price
    style: num
  - path: vendor.country
    sortable: false
  - path: total
    header: Total
    value: "_.price * double(_.quantity)"
    format: "{0:N1}"
  - path: quantity
    format: "{0:D3}"
`

const productsTOML = `
name = "products"

[metadata.price]
displayName = "Unit Price"
format = "${0:0.00}"

[[columns]]
path = "name"

[[columns]]
path = "price"
sortable = false
`

var rows = []Row{
	{"name": "pen", "price": 1.5, "quantity": 4, "vendor": map[string]any{"country": "NO"}},
	{"name": "cap", "price": 12.0, "quantity": 1},
}

func TestParseYAML(t *testing.T) {
	l, err := Parse([]byte(productsYAML), FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, "products", l.Name)
	require.Len(t, l.Columns, 5)
	assert.Equal(t, "Unit Price", l.Metadata["price"].DisplayName)
	require.NotNil(t, l.Columns[2].Sortable)
	assert.False(t, *l.Columns[2].Sortable)
}

func TestParseTOML(t *testing.T) {
	l, err := Parse([]byte(productsTOML), FormatTOML)
	require.NoError(t, err)
	require.Len(t, l.Columns, 2)
	assert.Equal(t, "${0:0.00}", l.Metadata["price"].FormatString)

	cols, err := l.Build(nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "Unit Price"}, Headers(cols))
	assert.False(t, cols[1].Sortable)
	assert.Equal(t, "$1.50", cols[1].Cell(rows[0]))
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"no columns", "name: empty\n", ErrNoColumns},
		{"duplicate path", "columns:\n  - path: a\n  - path: a\n", ErrDuplicatePath},
		{"empty path", "columns:\n  - header: A\n", grid.ErrEmptyPath},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input), FormatYAML)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	t.Run("bad expression", func(t *testing.T) {
		_, err := Parse([]byte("columns:\n  - path: a\n    value: \"_.a +\"\n"), FormatYAML)
		require.Error(t, err)
		assert.Contains(t, err.Error(), `column 0 ("a") value`)
	})

	t.Run("unknown field", func(t *testing.T) {
		_, err := Parse([]byte("columns:\n  - path: a\n    width: 3\n"), FormatYAML)
		assert.Error(t, err)
	})

	t.Run("unsupported format", func(t *testing.T) {
		_, err := Parse([]byte("columns: []"), Format("xml"))
		assert.Error(t, err)
	})
}

func TestBuild(t *testing.T) {
	l, err := Parse([]byte(productsYAML), FormatYAML)
	require.NoError(t, err)

	cols, err := l.BuildWithLogger(nil, testr.New(t))
	require.NoError(t, err)

	assert.Equal(t, []string{"name", "Unit Price", "Origin", "Total", "quantity"}, Headers(cols))
	assert.Equal(t, "num", cols[1].Style)
	assert.False(t, cols[2].Sortable)
	assert.True(t, cols[3].Sortable)

	assert.Equal(t, [][]string{
		{"pen", "$1.50", "NO", "6.0", "004"},
		{"cap", "$12.00", "", "12.0", "001"},
	}, Cells(cols, rows))
}

func TestCompileKeepsOneProgramPerColumn(t *testing.T) {
	l := &Layout{Columns: []ColumnSpec{
		{Path: "name"},
		{Path: "total", Value: "_.price * 2.0", Format: "{0:N1}"},
	}}
	programs, err := l.compile()
	require.NoError(t, err)
	require.Len(t, programs, 2)
	assert.Nil(t, programs[0])
	require.NotNil(t, programs[1])
	assert.Equal(t, "_.price * 2.0", programs[1].String())

	cols, err := l.Build(nil)
	require.NoError(t, err)
	assert.Equal(t, "5.0", cols[1].Cell(Row{"price": 2.5}))

	l.Columns[1].Value = "_.price *"
	_, err = l.Build(nil)
	assert.ErrorContains(t, err, `column 1 ("total") value`)
}

func TestBuildValueFailureRendersEmpty(t *testing.T) {
	l := &Layout{Columns: []ColumnSpec{{Path: "label", Value: "_.missing.upperAscii()"}}}
	cols, err := l.BuildWithLogger(nil, testr.New(t))
	require.NoError(t, err)
	assert.Equal(t, "", cols[0].Cell(Row{"label": "x"}))
}

func TestBuildExtraProvider(t *testing.T) {
	l := FromPaths([]string{"name", "price"})
	l.Metadata = grid.MapProvider{"price": {DisplayName: "Cost"}}
	extra := grid.MapProvider{
		"price": {DisplayName: "Ignored", FormatString: "{0:C}"},
		"name":  {PropertyName: "Product"},
	}

	cols, err := l.Build(extra)
	require.NoError(t, err)
	assert.Equal(t, []string{"Product", "Cost"}, Headers(cols))
	assert.Equal(t, "$12.00", cols[1].Cell(rows[1]))
}

func TestInfer(t *testing.T) {
	l := Infer(rows)
	paths := make([]string, len(l.Columns))
	for i, c := range l.Columns {
		paths[i] = c.Path
	}
	assert.Equal(t, []string{"name", "price", "quantity", "vendor"}, paths)
	assert.ErrorIs(t, Infer(nil).Validate(), ErrNoColumns)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	tomlPath := filepath.Join(dir, "products.toml")
	require.NoError(t, os.WriteFile(tomlPath, []byte(productsTOML), 0o600))
	l, err := LoadFileWithLogger(tomlPath, testr.New(t))
	require.NoError(t, err)
	assert.Len(t, l.Columns, 2)

	yamlPath := filepath.Join(dir, "products.yml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(productsYAML), 0o600))
	l, err = LoadFile(yamlPath)
	require.NoError(t, err)
	assert.Len(t, l.Columns, 5)

	badPath := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(badPath, []byte("name: x\n"), 0o600))
	_, err = LoadFile(badPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), badPath)

	assert.Equal(t, FormatTOML, FormatFromPath("a.TOML"))
	assert.Equal(t, FormatYAML, FormatFromPath("a.json"))
}
