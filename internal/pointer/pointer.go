// Package pointer builds the optional fields of partial updates, where nil leaves a field unchanged.
package pointer

// Ref returns a pointer to a copy of v
func Ref[T any](v T) *T {
	return &v
}

// NonZero returns nil for the zero value so that unset input is omitted from a patch
func NonZero[T comparable](v T) *T {
	var zero T
	if v == zero {
		return nil
	}
	return &v
}
