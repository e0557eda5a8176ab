package grid

import (
	"fmt"

	"github.com/oakwood-commons/gridcol/internal/format"
)

// Options are the optional per-column overrides. The zero value means: no
// header override, no explicit formatter, no style, sortable.
type Options[T any] struct {
	// Header overrides the metadata-derived header.
	Header string

	// Format is an explicit cell formatter. It always wins over a metadata
	// format template.
	Format func(row T) string

	// Style is passed through to the column unchanged.
	Style string

	// Sortable defaults to true when nil.
	Sortable *bool
}

// Bool returns a pointer to v, for Options.Sortable.
func Bool(v bool) *bool {
	return &v
}

// For builds the column for property p.
//
// The header is the first non-empty of opts.Header, the metadata display
// name, the metadata property name and the last segment of the path. When
// opts.Format is nil and the metadata carries a format template, the column
// formats cells by applying the template to the row's value, with absent
// values rendered as "".
//
// Errors from provider are returned unchanged. A nil provider supplies no
// metadata.
func For[T any](provider MetadataProvider, p Property[T], opts Options[T]) (Column[T], error) {
	key := p.Path
	if err := validatePath(key); err != nil {
		return Column[T]{}, err
	}

	var meta Metadata
	if provider != nil {
		m, err := provider.Lookup(p.Type(), key)
		if err != nil {
			return Column[T]{}, err
		}
		meta = m
	}

	formatter := opts.Format
	if formatter == nil && meta.FormatString != "" {
		formatter = templateFormatter(meta.FormatString, p)
	}

	return Column[T]{
		Key:      key,
		Header:   firstNonEmpty(opts.Header, meta.DisplayName, meta.PropertyName, lastSegment(key)),
		Style:    opts.Style,
		Sortable: opts.Sortable == nil || *opts.Sortable,
		Format:   formatter,
		get:      p.get,
	}, nil
}

func templateFormatter[T any](tmpl string, p Property[T]) func(T) string {
	return func(row T) string {
		v := p.Get(row)
		if isAbsent(v) {
			v = ""
		}
		return format.Apply(tmpl, v)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// Spec pairs a property with its overrides, for Builder.Columns.
type Spec[T any] struct {
	Property Property[T]
	Options  Options[T]
}

// Builder builds columns over rows of type T against one metadata provider.
// It holds no state beyond the provider and is safe for concurrent use.
type Builder[T any] struct {
	provider MetadataProvider
}

// NewBuilder returns a Builder reading metadata from provider.
func NewBuilder[T any](provider MetadataProvider) *Builder[T] {
	return &Builder[T]{provider: provider}
}

// Column builds a single column. See For.
func (b *Builder[T]) Column(p Property[T], opts Options[T]) (Column[T], error) {
	return For(b.provider, p, opts)
}

// Columns builds an ordered column set, stopping at the first error.
func (b *Builder[T]) Columns(specs ...Spec[T]) ([]Column[T], error) {
	cols := make([]Column[T], 0, len(specs))
	for i, s := range specs {
		col, err := b.Column(s.Property, s.Options)
		if err != nil {
			return nil, fmt.Errorf("column %d (%q): %w", i, s.Property.Path, err)
		}
		cols = append(cols, col)
	}
	return cols, nil
}
