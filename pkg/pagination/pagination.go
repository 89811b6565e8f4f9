package pagination

const (
	// DefaultLimit is the standard page size when a limit is not provided.
	DefaultLimit = 10
	// MaxLimit caps how many rows a cursor query can request.
	MaxLimit = 100
	// DiscoverMaxLimit caps the randomized discovery feed page size.
	DiscoverMaxLimit = 50
	// DiscoverOverFetch is the candidate multiplier used before sampling.
	// A heuristic, not a correctness requirement.
	DiscoverOverFetch = 3
)

// NormalizeLimit clamps the requested page size into [1, MaxLimit],
// falling back to DefaultLimit when unset.
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// NormalizeDiscoverLimit clamps the discovery feed page size into
// [1, DiscoverMaxLimit], falling back to DefaultLimit when unset.
func NormalizeDiscoverLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > DiscoverMaxLimit {
		return DiscoverMaxLimit
	}
	return limit
}

// LimitWithBuffer returns the normalized limit plus one. Fetching the extra
// row tells us whether another page exists without a second query.
func LimitWithBuffer(limit int) int {
	return NormalizeLimit(limit) + 1
}

// DiscoverFetchSize returns how many candidates the discovery feed pulls
// before shuffling down to the normalized limit.
func DiscoverFetchSize(limit int) int {
	return NormalizeDiscoverLimit(limit) * DiscoverOverFetch
}
