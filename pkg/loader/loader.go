// Package loader reads row sets for column rendering. Input may be JSON,
// newline-delimited JSON, YAML (single or multi-document), TOML or CSV; every
// format is normalized to a slice of string-keyed maps.
package loader

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-logr/logr"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// RowsKey is the key under which an object document may carry its rows.
const RowsKey = "rows"

// Row is a single record keyed by property name.
type Row = map[string]any

var (
	// ErrEmptyInput is returned when there is nothing to parse.
	ErrEmptyInput = errors.New("empty input")
	// ErrNotARow is returned when a record does not decode to an object.
	ErrNotARow = errors.New("record is not an object")
)

var (
	tomlSection  = regexp.MustCompile(`^\s*\[{1,2}(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+')+(?:\.(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+'))*\]{1,2}\s*$`)
	tomlKeyValue = regexp.MustCompile(`^\s*(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+')+(?:\.(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+'))*\s*=\s*.+$`)
)

// LoadRows parses data into rows, auto-detecting the format.
// A top-level array yields one row per element, an object with a "rows"
// array yields those elements, and any other object is a single row.
func LoadRows(data []byte) ([]Row, error) {
	return LoadRowsWithLogger(data, logr.Discard())
}

// LoadRowsWithLogger is like LoadRows but records the detected format.
func LoadRowsWithLogger(data []byte, lgr logr.Logger) ([]Row, error) {
	input := strings.TrimSpace(string(data))
	if input == "" {
		return nil, ErrEmptyInput
	}

	docs, kind, err := decode(input)
	if err != nil {
		return nil, err
	}
	lgr.V(1).Info("decoded input", "format", kind, "documents", len(docs))
	return collect(docs)
}

// LoadFile reads path and parses it into rows.
func LoadFile(path string) ([]Row, error) {
	return LoadFileWithLogger(path, logr.Discard())
}

// LoadFileWithLogger is like LoadFile but logs extension-based dispatch.
// Files ending in .csv are parsed as CSV with a header line; everything else
// goes through content detection.
func LoadFileWithLogger(path string, lgr logr.Logger) ([]Row, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	lgr = lgr.WithValues("path", path)
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		lgr.V(1).Info("parsing by extension", "format", "csv")
		return LoadCSV(data)
	}
	return LoadRowsWithLogger(data, lgr)
}

// LoadCSV converts CSV data into rows keyed by the header line. Cells that
// spell a whole integer, float or boolean load as int64, float64 or bool;
// everything else stays a string. Short records leave the missing cells
// as "".
func LoadCSV(data []byte) ([]Row, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(records) == 0 {
		return []Row{}, nil
	}
	headers := records[0]
	rows := make([]Row, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(Row, len(headers))
		for j, header := range headers {
			value := ""
			if j < len(record) {
				value = record[j]
			}
			row[header] = csvValue(value)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// csvValue resolves a CSV cell. Numbers with leading zeros ("007", "0x1F")
// stay text, as do NaN and infinities.
func csvValue(s string) any {
	switch s {
	case "true", "True", "TRUE":
		return true
	case "false", "False", "FALSE":
		return false
	}
	digits := strings.TrimLeft(s, "+-")
	if digits == "" || len(digits) > 1 && digits[0] == '0' && digits[1] != '.' {
		return s
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return f
	}
	return s
}

func decode(input string) ([]any, string, error) {
	if strings.Contains(input, "\n---") || strings.HasPrefix(input, "---") {
		docs, err := loadMultiDocYAML(input)
		return docs, "yaml", err
	}

	lines := strings.Split(input, "\n")
	if len(lines) > 1 && isLikelyNDJSON(lines) {
		docs, err := loadNDJSON(lines)
		return docs, "ndjson", err
	}

	// TOML section headers look like JSON arrays, so check them first.
	if isLikelyTOML(lines) {
		doc, err := loadTOML(input)
		return []any{doc}, "toml", err
	}

	if isLikelyCSV(input) {
		rows, err := LoadCSV([]byte(input))
		if err != nil {
			return nil, "csv", err
		}
		docs := make([]any, len(rows))
		for i, r := range rows {
			docs[i] = r
		}
		return docs, "csv", nil
	}

	if strings.HasPrefix(input, "{") || strings.HasPrefix(input, "[") {
		var doc any
		if err := json.Unmarshal([]byte(input), &doc); err == nil {
			return []any{doc}, "json", nil
		}
	}

	var doc any
	if err := yaml.Unmarshal([]byte(input), &doc); err != nil {
		return nil, "yaml", fmt.Errorf("invalid YAML: %w", err)
	}
	return []any{doc}, "yaml", nil
}

// collect flattens decoded documents into rows.
func collect(docs []any) ([]Row, error) {
	var rows []Row
	for i, doc := range docs {
		switch v := doc.(type) {
		case []any:
			for j, elem := range v {
				row, ok := asRow(elem)
				if !ok {
					return nil, fmt.Errorf("document %d, element %d: %w", i, j, ErrNotARow)
				}
				rows = append(rows, row)
			}
		default:
			row, ok := asRow(v)
			if !ok {
				return nil, fmt.Errorf("document %d: %w", i, ErrNotARow)
			}
			if nested, ok := row[RowsKey].([]any); ok {
				more, err := collect([]any{nested})
				if err != nil {
					return nil, fmt.Errorf("document %d: %w", i, err)
				}
				rows = append(rows, more...)
				continue
			}
			rows = append(rows, row)
		}
	}
	if rows == nil {
		rows = []Row{}
	}
	return rows, nil
}

func asRow(v any) (Row, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		row := make(Row, len(m))
		for k, val := range m {
			row[fmt.Sprint(k)] = val
		}
		return row, true
	}
	return nil, false
}

func loadMultiDocYAML(input string) ([]any, error) {
	var results []any
	decoder := yaml.NewDecoder(strings.NewReader(input))
	for {
		var doc any
		if err := decoder.Decode(&doc); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("invalid multi-document YAML: %w", err)
		}
		if doc != nil {
			results = append(results, doc)
		}
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("no documents found in multi-document YAML")
	}
	return results, nil
}

func loadNDJSON(lines []string) ([]any, error) {
	results := make([]any, 0, len(lines))
	for n, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var obj any
		if err := json.Unmarshal([]byte(line), &obj); err != nil {
			return nil, fmt.Errorf("line %d: invalid JSON: %w", n+1, err)
		}
		results = append(results, obj)
	}
	return results, nil
}

// isLikelyNDJSON reports whether a majority of non-empty lines start with
// '{' or '['. YAML lists of bare scalars would otherwise be misclassified.
func isLikelyNDJSON(lines []string) bool {
	jsonCount, nonEmpty := 0, 0
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		nonEmpty++
		if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
			jsonCount++
		}
	}
	// A pretty-printed JSON document starts with a bracket on its own line.
	if strings.TrimSpace(lines[0]) == "[" || strings.TrimSpace(lines[0]) == "{" {
		return false
	}
	return nonEmpty > 1 && jsonCount > nonEmpty/2
}

// isLikelyCSV requires at least a header and one record, all with the same
// number of fields (more than one), and a header free of YAML and TOML
// punctuation.
func isLikelyCSV(input string) bool {
	header, _, _ := strings.Cut(input, "\n")
	if strings.IndexAny(header, "{[-#") == 0 || strings.ContainsAny(header, ":=") {
		return false
	}
	records, err := csv.NewReader(strings.NewReader(input)).ReadAll()
	if err != nil || len(records) < 2 || len(records[0]) < 2 {
		return false
	}
	return true
}

// isLikelyTOML looks for [section] headers or a majority of key = value lines.
func isLikelyTOML(lines []string) bool {
	sections, keyValues, nonEmpty := 0, 0, 0
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		nonEmpty++
		if tomlSection.MatchString(line) {
			sections++
		}
		if tomlKeyValue.MatchString(line) {
			keyValues++
		}
	}
	return sections > 0 || (nonEmpty > 0 && keyValues > nonEmpty/2)
}

func loadTOML(input string) (any, error) {
	var data map[string]any
	if err := toml.Unmarshal([]byte(input), &data); err != nil {
		return nil, fmt.Errorf("invalid TOML: %w", err)
	}
	return data, nil
}
