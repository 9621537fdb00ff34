package store

// Page sizes for offset pagination.
const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// PageParams is a 1-based offset/limit page request.
type PageParams struct {
	Page     int // 1-based page number
	PageSize int // rows per media kind
}

// DefaultPageParams returns the first page with the default size.
func DefaultPageParams() PageParams {
	return PageParams{Page: 1, PageSize: DefaultPageSize}
}

// Validate clamps out-of-range values to usable ones.
func (p *PageParams) Validate() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize <= 0 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
}

// Offset returns (page-1)*pageSize.
func (p PageParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// Limit returns the page size.
func (p PageParams) Limit() int {
	return p.PageSize
}

// PagedResult is a window of rows plus the total across all pages.
type PagedResult[T any] struct {
	Count int `json:"count"`
	Rows  []T `json:"rows"`
}
