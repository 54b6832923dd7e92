package common

// Coalesce returns the first argument that is not the zero value of T. It fills configuration
// defaults, e.g. Coalesce(cfg.Producers, 4).
//
// Parameters:
//   - values: candidates in order of preference
//
// Returns:
//   - T: the first non-zero candidate, or the zero value if there is none
func Coalesce[T comparable](values ...T) T {
	var zero T
	for _, v := range values {
		if v != zero {
			return v
		}
	}
	return zero
}
