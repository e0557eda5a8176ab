package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Grid is a rendered column set: one key, header and hint per column and
// one cell per column in each row.
type Grid struct {
	Keys    []string
	Headers []string
	Hints   []ColumnHint
	Rows    [][]string
}

// Write renders g to w in the named output format.
func Write(w io.Writer, output string, g Grid, opts TableOptions) error {
	switch output {
	case "table", "":
		_, err := io.WriteString(w, RenderTable(g.Headers, g.Hints, g.Rows, opts))
		return err
	case "csv":
		return WriteCSV(w, g)
	case "json":
		return WriteJSON(w, g)
	case "yaml":
		return WriteYAML(w, g)
	}
	return fmt.Errorf("unsupported output format %q", output)
}

// WriteCSV writes a header line followed by one record per row.
func WriteCSV(w io.Writer, g Grid) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(g.Headers); err != nil {
		return err
	}
	for _, row := range g.Rows {
		if err := cw.Write(pad(row, len(g.Headers))); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteJSON writes an array of objects keyed by column key, in column order.
func WriteJSON(w io.Writer, g Grid) error {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for r, row := range g.Rows {
		if r > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('{')
		for i, key := range g.Keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			k, _ := json.Marshal(key)
			v, _ := json.Marshal(cell(row, i))
			buf.Write(k)
			buf.WriteByte(':')
			buf.Write(v)
		}
		buf.WriteByte('}')
	}
	buf.WriteByte(']')

	var out bytes.Buffer
	if err := json.Indent(&out, buf.Bytes(), "", "  "); err != nil {
		return err
	}
	out.WriteByte('\n')
	_, err := out.WriteTo(w)
	return err
}

// WriteYAML writes a sequence of mappings keyed by column key, in column order.
func WriteYAML(w io.Writer, g Grid) error {
	seq := &yaml.Node{Kind: yaml.SequenceNode}
	for _, row := range g.Rows {
		m := &yaml.Node{Kind: yaml.MappingNode}
		for i, key := range g.Keys {
			m.Content = append(m.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: cell(row, i)},
			)
		}
		seq.Content = append(seq.Content, m)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(seq); err != nil {
		return err
	}
	return enc.Close()
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

func pad(row []string, n int) []string {
	if len(row) >= n {
		return row
	}
	out := make([]string, n)
	copy(out, row)
	return out
}
