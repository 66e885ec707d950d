package pointers

// Pointer casts T type to *T
func Pointer[T any](t T) *T {
	return &t
}

// Value dereferences p, returning null when p is nil.
func Value[T any](p *T, null T) T {
	if p == nil {
		return null
	}
	return *p
}
