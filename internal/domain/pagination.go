package domain

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type PaginationParams struct {
	Page     int `json:"page" query:"page"`
	PageSize int `json:"page_size" query:"page_size"`
}

func DefaultPagination() PaginationParams {
	return PaginationParams{Page: 1, PageSize: defaultPageSize}
}

// Validate clamps out-of-range values in place so repositories and response
// envelopes always compute from the same page window.
func (p *PaginationParams) Validate() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = defaultPageSize
	}
	if p.PageSize > maxPageSize {
		p.PageSize = maxPageSize
	}
}

func (p *PaginationParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// ClampLimit bounds an unpaginated row limit, falling back to def when the
// caller's value is missing or out of range.
func ClampLimit(limit, def, max int) int {
	if limit < 1 || limit > max {
		return def
	}
	return limit
}

type PaginatedResponse[T any] struct {
	Data       []T   `json:"data"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

func NewPaginatedResponse[T any](data []T, page, pageSize int, totalItems int64) PaginatedResponse[T] {
	// Clamp here too; non-HTTP callers may hand in raw params.
	params := PaginationParams{Page: page, PageSize: pageSize}
	params.Validate()

	totalPages := int((totalItems + int64(params.PageSize) - 1) / int64(params.PageSize))

	return PaginatedResponse[T]{
		Data:       data,
		Page:       params.Page,
		PageSize:   params.PageSize,
		TotalItems: totalItems,
		TotalPages: totalPages,
		HasNext:    params.Page < totalPages,
		HasPrev:    params.Page > 1,
	}
}
