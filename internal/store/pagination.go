package store

import "math"

// Page size bounds used when a caller does not configure its own.
const (
	DefaultPageSize = 6
	MaxPageSize     = 100

	// MaxPage is the highest page number a listing accepts.
	MaxPage = 1_000_000
)

// PageParams selects one page of a page-number paginated listing.
type PageParams struct {
	Page  int // 1-based page number
	Limit int // items per page
}

// Normalize clamps the parameters: page stays within [1, MaxPage] and limit
// falls back to defaultSize without exceeding maxSize.
func (p *PageParams) Normalize(defaultSize, maxSize int) {
	if defaultSize <= 0 {
		defaultSize = DefaultPageSize
	}
	if maxSize <= 0 {
		maxSize = MaxPageSize
	}
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Page > MaxPage {
		p.Page = MaxPage
	}
	if p.Limit <= 0 {
		p.Limit = defaultSize
	}
	if p.Limit > maxSize {
		p.Limit = maxSize
	}
}

// Offset returns the number of rows to skip. It saturates at math.MaxInt
// instead of wrapping.
func (p PageParams) Offset() int {
	if p.Page < 1 || p.Limit <= 0 {
		return 0
	}
	if p.Page-1 > math.MaxInt/p.Limit {
		return math.MaxInt
	}
	return (p.Page - 1) * p.Limit
}

// PaginatedResult is one page of items plus the total across all pages.
type PaginatedResult[T any] struct {
	Items []T
	Total int
}

// HasNext reports whether a page follows the one described by p.
func (r PaginatedResult[T]) HasNext(p PageParams) bool {
	offset := p.Offset()
	return offset < r.Total && offset+len(r.Items) < r.Total
}

// HasPrevious reports whether a page precedes the one described by p.
func (r PaginatedResult[T]) HasPrevious(p PageParams) bool {
	return p.Page > 1
}
