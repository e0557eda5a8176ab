package grid

import (
	"reflect"
)

// Default struct tag keys read by TagProvider.
const (
	DefaultDisplayTag = "display"
	DefaultFormatTag  = "format"
)

// Metadata holds display facts about a property. Empty strings are absent.
type Metadata struct {
	// DisplayName is the human-readable name, preferred for headers.
	DisplayName string `yaml:"displayName,omitempty" json:"displayName,omitempty" toml:"displayName,omitempty"`

	// PropertyName is the raw property name.
	PropertyName string `yaml:"propertyName,omitempty" json:"propertyName,omitempty" toml:"propertyName,omitempty"`

	// FormatString is a composite format template such as "{0:C}".
	FormatString string `yaml:"format,omitempty" json:"format,omitempty" toml:"format,omitempty"`
}

// MetadataProvider looks up display metadata for a property path on a row
// model type. Implementations must be deterministic and read-only.
type MetadataProvider interface {
	Lookup(modelType reflect.Type, path string) (Metadata, error)
}

// ProviderFunc adapts a function to MetadataProvider.
type ProviderFunc func(modelType reflect.Type, path string) (Metadata, error)

// Lookup calls f.
func (f ProviderFunc) Lookup(modelType reflect.Type, path string) (Metadata, error) {
	return f(modelType, path)
}

// MapProvider serves metadata from a static map keyed by property path.
// Unknown paths have no metadata.
type MapProvider map[string]Metadata

// Lookup returns the entry for path.
func (m MapProvider) Lookup(_ reflect.Type, path string) (Metadata, error) {
	return m[path], nil
}

// Chain consults providers in order. For each field the first non-empty
// value wins; the first error is returned unchanged.
type Chain []MetadataProvider

// Lookup merges metadata from every provider in the chain.
func (c Chain) Lookup(modelType reflect.Type, path string) (Metadata, error) {
	var out Metadata
	for _, p := range c {
		if p == nil {
			continue
		}
		m, err := p.Lookup(modelType, path)
		if err != nil {
			return Metadata{}, err
		}
		if out.DisplayName == "" {
			out.DisplayName = m.DisplayName
		}
		if out.PropertyName == "" {
			out.PropertyName = m.PropertyName
		}
		if out.FormatString == "" {
			out.FormatString = m.FormatString
		}
	}
	return out, nil
}

// TagProvider reads metadata from struct tags on the field a path resolves
// to:
//
//	type Product struct {
//		Price float64 `display:"Unit Price" format:"${0:0.00}"`
//	}
//
// PropertyName is the Go field name. Paths that end below a map or an
// interface have no metadata; paths naming a missing struct field fail with
// ErrUnknownProperty.
type TagProvider struct {
	// DisplayTag is the tag key for the display name. Defaults to "display".
	DisplayTag string
	// FormatTag is the tag key for the format template. Defaults to "format".
	FormatTag string
}

// Lookup resolves path on modelType and reads its tags.
func (p TagProvider) Lookup(modelType reflect.Type, path string) (Metadata, error) {
	_, sf, err := resolve(modelType, path)
	if err != nil {
		return Metadata{}, err
	}
	if sf == nil {
		return Metadata{}, nil
	}
	displayTag, formatTag := p.DisplayTag, p.FormatTag
	if displayTag == "" {
		displayTag = DefaultDisplayTag
	}
	if formatTag == "" {
		formatTag = DefaultFormatTag
	}
	return Metadata{
		DisplayName:  sf.Tag.Get(displayTag),
		PropertyName: sf.Name,
		FormatString: sf.Tag.Get(formatTag),
	}, nil
}
