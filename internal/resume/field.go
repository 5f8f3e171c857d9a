package resume

// Field is the outcome of one extractor: either a value or an explicit "not found".
// Absence is never encoded in the value itself; sentinel strings only appear when rendering.
type Field[T any] struct {
	value T
	found bool
}

// Found wraps a matched value.
func Found[T any](v T) Field[T] {
	return Field[T]{value: v, found: true}
}

// NotFound is the absent result for an extractor.
func NotFound[T any]() Field[T] {
	return Field[T]{}
}

// Get returns the value and whether the extractor matched anything.
func (f Field[T]) Get() (T, bool) {
	return f.value, f.found
}

func (f Field[T]) IsFound() bool { return f.found }

// Or returns the value when found, otherwise fallback.
func (f Field[T]) Or(fallback T) T {
	if f.found {
		return f.value
	}
	return fallback
}
