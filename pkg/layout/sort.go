package layout

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/oakwood-commons/gridcol/pkg/grid"
)

var (
	// ErrUnknownColumn is returned when a sort key names no column.
	ErrUnknownColumn = errors.New("unknown column")
	// ErrNotSortable is returned when sorting by a column that disallows it.
	ErrNotSortable = errors.New("column is not sortable")
)

// ParseSortKey splits "key" or "key:desc" / "key:asc".
func ParseSortKey(s string) (key string, desc bool, err error) {
	key, dir, found := strings.Cut(s, ":")
	if !found {
		return key, false, nil
	}
	switch strings.ToLower(dir) {
	case "asc", "ascending":
		return key, false, nil
	case "desc", "descending":
		return key, true, nil
	}
	return "", false, fmt.Errorf("invalid sort direction %q", dir)
}

// Sort orders rows in place by the raw value of the column with key. Absent
// values sort first in both directions. Numbers compare numerically and
// everything else by its cell text.
func Sort(cols []grid.Column[Row], rows []Row, key string, desc bool) error {
	idx := slices.IndexFunc(cols, func(c grid.Column[Row]) bool { return c.Key == key })
	if idx < 0 {
		return fmt.Errorf("%w %q", ErrUnknownColumn, key)
	}
	col := cols[idx]
	if !col.Sortable {
		return fmt.Errorf("%w: %q", ErrNotSortable, key)
	}
	slices.SortStableFunc(rows, func(a, b Row) int {
		va, vb := col.Value(a), col.Value(b)
		switch {
		case va == nil && vb == nil:
			return 0
		case va == nil:
			return -1
		case vb == nil:
			return 1
		}
		c := compare(col, a, b, va, vb)
		if desc {
			return -c
		}
		return c
	})
	return nil
}

func compare(col grid.Column[Row], a, b Row, va, vb any) int {
	if fa, ok := number(va); ok {
		if fb, ok := number(vb); ok {
			return cmp.Compare(fa, fb)
		}
	}
	if ta, ok := va.(time.Time); ok {
		if tb, ok := vb.(time.Time); ok {
			return ta.Compare(tb)
		}
	}
	return strings.Compare(col.Cell(a), col.Cell(b))
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float64:
		return n, true
	case float32:
		return float64(n), true
	}
	return 0, false
}
