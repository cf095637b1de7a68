package util

import "strconv"

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

func ParseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

// Clamp normalizes page/limit to the supported window and returns the
// matching offset. Junk values degrade to defaults, never to an error.
func Clamp(page, limit int) (normPage, normLimit, offset int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return page, limit, (page - 1) * limit
}

func Pages(total int64, limit int) int64 {
	return (total + int64(limit) - 1) / int64(limit)
}
