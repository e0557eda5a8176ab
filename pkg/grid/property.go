package grid

import (
	"fmt"
	"reflect"
	"strings"
)

// Property identifies a field of the row model T. It carries the stable,
// dotted path used as the column key and an accessor resolved once when the
// property is constructed.
type Property[T any] struct {
	// Path is the dotted property path, e.g. "Address.City".
	Path string

	get func(T) any
}

// Prop returns a property with an explicit path and a typed accessor.
//
//	price := grid.Prop("Price", func(p Product) float64 { return p.Price })
func Prop[T, V any](path string, get func(T) V) Property[T] {
	return Property[T]{
		Path: path,
		get:  func(row T) any { return get(row) },
	}
}

// Field resolves a dotted path against T by reflection. Struct segments
// match the Go field name first and the json tag name second; pointers are
// dereferenced. Segments below a map or interface are looked up per row.
func Field[T any](path string) (Property[T], error) {
	steps, _, err := resolve(reflect.TypeFor[T](), path)
	if err != nil {
		return Property[T]{}, err
	}
	return Property[T]{
		Path: path,
		get: func(row T) any {
			return walk(reflect.ValueOf(&row).Elem(), steps)
		},
	}, nil
}

// MustField is like Field but panics if the path does not resolve.
func MustField[T any](path string) Property[T] {
	p, err := Field[T](path)
	if err != nil {
		panic(err)
	}
	return p
}

// Type returns the row model type.
func (p Property[T]) Type() reflect.Type {
	return reflect.TypeFor[T]()
}

// Get returns the property value for row. Properties without an accessor
// return nil.
func (p Property[T]) Get(row T) any {
	if p.get == nil {
		return nil
	}
	return p.get(row)
}

// step is one resolved path segment. index is set when the segment was
// resolved statically to a struct field.
type step struct {
	name  string
	index []int
}

// resolve walks path through t. It returns one step per segment and, when
// the last segment is a statically known struct field, that field.
func resolve(t reflect.Type, path string) ([]step, *reflect.StructField, error) {
	if err := validatePath(path); err != nil {
		return nil, nil, err
	}
	segs := strings.Split(path, ".")
	steps := make([]step, 0, len(segs))
	var last *reflect.StructField
	dynamic := false

	for i, seg := range segs {
		last = nil
		if dynamic || t == nil {
			steps = append(steps, step{name: seg})
			continue
		}
		for t.Kind() == reflect.Ptr {
			t = t.Elem()
		}
		switch t.Kind() { //nolint:exhaustive // other kinds have no named members
		case reflect.Struct:
			sf, ok := findField(t, seg)
			if !ok {
				return nil, nil, fmt.Errorf("%w: %s has no field %q (path %q)", ErrUnknownProperty, t, seg, strings.Join(segs[:i+1], "."))
			}
			steps = append(steps, step{name: seg, index: sf.Index})
			last = &sf
			t = sf.Type
		case reflect.Map:
			if t.Key().Kind() != reflect.String {
				return nil, nil, fmt.Errorf("%w: %s is not keyed by string (path %q)", ErrUnknownProperty, t, path)
			}
			steps = append(steps, step{name: seg})
			t = t.Elem()
		case reflect.Interface:
			steps = append(steps, step{name: seg})
			dynamic = true
		default:
			return nil, nil, fmt.Errorf("%w: cannot select %q from %s (path %q)", ErrUnknownProperty, seg, t, path)
		}
	}
	return steps, last, nil
}

// validatePath rejects empty paths and paths with empty segments.
func validatePath(path string) error {
	if path == "" {
		return ErrEmptyPath
	}
	for _, seg := range strings.Split(path, ".") {
		if seg == "" {
			return fmt.Errorf("%w: empty segment in %q", ErrUnknownProperty, path)
		}
	}
	return nil
}

// findField looks up an exported field by Go name, then by json tag name.
func findField(t reflect.Type, name string) (reflect.StructField, bool) {
	if sf, ok := t.FieldByName(name); ok && sf.IsExported() {
		return sf, true
	}
	for _, sf := range reflect.VisibleFields(t) {
		if !sf.IsExported() || sf.Anonymous {
			continue
		}
		tag, _, _ := strings.Cut(sf.Tag.Get("json"), ",")
		if tag == name {
			return sf, true
		}
	}
	return reflect.StructField{}, false
}

// walk evaluates steps against v. Missing keys and nil pointers yield nil.
func walk(v reflect.Value, steps []step) any {
	for _, s := range steps {
		v = indirect(v)
		if !v.IsValid() {
			return nil
		}
		switch v.Kind() { //nolint:exhaustive // other kinds have no named members
		case reflect.Struct:
			var f reflect.Value
			var err error
			if len(s.index) > 0 {
				f, err = v.FieldByIndexErr(s.index)
			} else if sf, ok := findField(v.Type(), s.name); ok {
				f, err = v.FieldByIndexErr(sf.Index)
			} else {
				return nil
			}
			if err != nil {
				return nil
			}
			v = f
		case reflect.Map:
			if v.Type().Key().Kind() != reflect.String {
				return nil
			}
			v = v.MapIndex(reflect.ValueOf(s.name).Convert(v.Type().Key()))
		default:
			return nil
		}
	}
	if !v.IsValid() || !v.CanInterface() {
		return nil
	}
	return v.Interface()
}

// indirect dereferences pointers and interfaces, returning the zero Value
// for nil.
func indirect(v reflect.Value) reflect.Value {
	for v.IsValid() && (v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface) {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}

// lastSegment returns the final dotted segment of path.
func lastSegment(path string) string {
	if i := strings.LastIndexByte(path, '.'); i >= 0 {
		return path[i+1:]
	}
	return path
}

// isAbsent reports whether v is nil or a nil pointer, map, slice or interface.
func isAbsent(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() { //nolint:exhaustive // only nillable kinds matter
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
