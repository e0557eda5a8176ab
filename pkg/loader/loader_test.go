package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-logr/logr/testr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRows(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Row
	}{
		{
			name:  "single object",
			input: `{"name": "pen", "price": 1.5}`,
			want:  []Row{{"name": "pen", "price": 1.5}},
		},
		{
			name:  "array of objects",
			input: `[{"name": "pen"}, {"name": "cap"}]`,
			want:  []Row{{"name": "pen"}, {"name": "cap"}},
		},
		{
			name:  "pretty printed array",
			input: "[\n  {\"name\": \"pen\"},\n  {\"name\": \"cap\"}\n]",
			want:  []Row{{"name": "pen"}, {"name": "cap"}},
		},
		{
			name:  "rows wrapper",
			input: `{"rows": [{"name": "pen"}]}`,
			want:  []Row{{"name": "pen"}},
		},
		{
			name:  "ndjson",
			input: "{\"name\": \"pen\"}\n{\"name\": \"cap\"}\n",
			want:  []Row{{"name": "pen"}, {"name": "cap"}},
		},
		{
			name:  "yaml list",
			input: "- name: pen\n  price: 2\n- name: cap\n  price: 3\n",
			want:  []Row{{"name": "pen", "price": 2}, {"name": "cap", "price": 3}},
		},
		{
			name:  "multi-document yaml",
			input: "name: pen\n---\nname: cap\n",
			want:  []Row{{"name": "pen"}, {"name": "cap"}},
		},
		{
			name:  "toml array of tables",
			input: "[[rows]]\nname = \"pen\"\n\n[[rows]]\nname = \"cap\"\n",
			want:  []Row{{"name": "pen"}, {"name": "cap"}},
		},
		{
			name:  "csv content",
			input: "name,price\npen,1.50\n",
			want:  []Row{{"name": "pen", "price": 1.5}},
		},
		{
			name:  "empty array",
			input: `[]`,
			want:  []Row{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LoadRows([]byte(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadRowsErrors(t *testing.T) {
	_, err := LoadRows([]byte("   \n"))
	assert.ErrorIs(t, err, ErrEmptyInput)

	_, err = LoadRows([]byte(`[1, 2, 3]`))
	assert.ErrorIs(t, err, ErrNotARow)

	_, err = LoadRows([]byte(`just a string`))
	assert.ErrorIs(t, err, ErrNotARow)

	_, err = LoadRows([]byte("{\"a\": 1}\n{broken\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestLoadCSV(t *testing.T) {
	rows, err := LoadCSV([]byte("name,price,qty,zip,active\npen,1.50,4,0042,true\ncap\n"))
	require.NoError(t, err)
	assert.Equal(t, []Row{
		{"name": "pen", "price": 1.5, "qty": int64(4), "zip": "0042", "active": true},
		{"name": "cap", "price": "", "qty": "", "zip": "", "active": ""},
	}, rows)

	rows, err = LoadCSV(nil)
	require.NoError(t, err)
	assert.Empty(t, rows)

	_, err = LoadCSV([]byte("a,\"b\n"))
	assert.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	csvPath := filepath.Join(dir, "items.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("name\npen\n"), 0o600))
	rows, err := LoadFileWithLogger(csvPath, testr.New(t))
	require.NoError(t, err)
	assert.Equal(t, []Row{{"name": "pen"}}, rows)

	yamlPath := filepath.Join(dir, "items.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("rows:\n  - name: cap\n"), 0o600))
	rows, err = LoadFile(yamlPath)
	require.NoError(t, err)
	assert.Equal(t, []Row{{"name": "cap"}}, rows)

	_, err = LoadFile(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

func TestCSVValue(t *testing.T) {
	tests := []struct {
		in   string
		want any
	}{
		{"", ""},
		{"pen", "pen"},
		{"10", int64(10)},
		{"-3", int64(-3)},
		{"0", int64(0)},
		{"9.5", 9.5},
		{"0.25", 0.25},
		{"-0.5", -0.5},
		{"1e3", 1000.0},
		{"007", "007"},
		{"0x1F", "0x1F"},
		{"NaN", "NaN"},
		{"Inf", "Inf"},
		{"-", "-"},
		{"TRUE", true},
		{"false", false},
		{"yes", "yes"},
		{"99999999999999999999", 1e20},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, csvValue(tt.in))
		})
	}
}

func TestIsLikelyCSV(t *testing.T) {
	assert.True(t, isLikelyCSV("a,b\n1,2"))
	assert.False(t, isLikelyCSV("a,b"))
	assert.False(t, isLikelyCSV("a,b\n1,2,3"))
	assert.False(t, isLikelyCSV("- a, b\n- c, d"))
	assert.False(t, isLikelyCSV("k: a, b\nj: c, d"))
}

func TestIsLikelyTOML(t *testing.T) {
	assert.True(t, isLikelyTOML([]string{"[server]", "port = 80"}))
	assert.True(t, isLikelyTOML([]string{"name = \"pen\""}))
	assert.False(t, isLikelyTOML([]string{"[1, 2, 3]"}))
	assert.False(t, isLikelyTOML([]string{"name: pen"}))
}
