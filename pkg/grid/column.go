// Package grid builds column descriptors for data grids. A column's key,
// header and cell formatter are derived from a property reference on the
// row model plus optional metadata (display name, property name, format
// template) supplied by a MetadataProvider.
//
//	price := grid.Prop("Price", func(p Product) float64 { return p.Price })
//	col, err := grid.For(grid.TagProvider{}, price, grid.Options[Product]{})
//
// Rendering the grid itself is left to the consumer of the columns.
package grid

import (
	"github.com/oakwood-commons/gridcol/internal/format"
)

// Column describes one grid column over rows of type T.
type Column[T any] struct {
	// Key is the property path. It identifies the column for row data and
	// sort requests and is never empty.
	Key string

	// Header is the column title. Never empty.
	Header string

	// Style is an opaque styling token passed through unchanged.
	Style string

	// Sortable reports whether the grid should offer sorting.
	Sortable bool

	// Format renders a row's cell text. Nil means the grid's default
	// rendering applies.
	Format func(row T) string

	get func(T) any
}

// Value returns the raw property value for row.
func (c Column[T]) Value(row T) any {
	if c.get == nil {
		return nil
	}
	return c.get(row)
}

// Cell returns the display text for row: Format when set, otherwise the
// value stringified with absent values rendered as "".
func (c Column[T]) Cell(row T) string {
	if c.Format != nil {
		return c.Format(row)
	}
	v := c.Value(row)
	if isAbsent(v) {
		return ""
	}
	return format.Value(v, "")
}
