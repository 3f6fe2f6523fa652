package pagination

const (
	// DefaultLimit is the page size when a client sends no limit. Sized for
	// a register screen's transaction history view.
	DefaultLimit = 25
	// MaxLimit caps how many rows a single listing can request.
	MaxLimit = 100
)

// NormalizeLimit clamps a client-supplied limit into [1, MaxLimit], falling
// back to DefaultLimit for zero or negative values.
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}
