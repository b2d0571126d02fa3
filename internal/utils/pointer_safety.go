package utils

// Value dereferences v, returning the zero value for nil. Used for optional vendor fields.
func Value[T any](v *T) T {
	if v == nil {
		return *new(T)
	}
	return *v
}

func Ptr[T any](v T) *T {
	return &v
}
