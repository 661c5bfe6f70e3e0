package util

import "strconv"

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Window turns the raw page and size query values into an offset and limit.
// Pages are 1-based; a missing or malformed page means the first one, and a
// size outside 1..MaxPageSize means DefaultPageSize.
func Window(page, size string) (offset, limit int) {
	p, err := strconv.Atoi(page)
	if err != nil || p < 1 {
		p = 1
	}
	limit, err = strconv.Atoi(size)
	if err != nil || limit < 1 || limit > MaxPageSize {
		limit = DefaultPageSize
	}
	return (p - 1) * limit, limit
}

// ParseID parses a positive decimal identifier.
func ParseID(s string) (uint, bool) {
	v, err := strconv.ParseUint(s, 10, 0)
	if err != nil || v == 0 {
		return 0, false
	}
	return uint(v), true
}
