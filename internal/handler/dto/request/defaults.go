package request

// valueOr applies the default for an optional body field.
func valueOr[T any](v *T, def T) T {
	if v == nil {
		return def
	}
	return *v
}
