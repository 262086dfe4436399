package patch

// Coalesce returns the value pointed to by ptr if it's not nil, otherwise returns fallback
func Coalesce[T any](ptr *T, fallback T) T {
	if ptr != nil {
		return *ptr
	}
	return fallback
}

// Set overwrites dst with the pointed-to value only when ptr is present.
// Reports whether an assignment happened so callers can track dirty fields.
func Set[T any](dst *T, ptr *T) bool {
	if ptr == nil {
		return false
	}
	*dst = *ptr
	return true
}
