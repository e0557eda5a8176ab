package grid

import "errors"

var (
	// ErrEmptyPath is returned when a property reference has no path.
	ErrEmptyPath = errors.New("property path is empty")

	// ErrUnknownProperty is returned when a path does not resolve to a
	// property of the row model.
	ErrUnknownProperty = errors.New("unknown property")
)
