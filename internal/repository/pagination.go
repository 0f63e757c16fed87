package repository

const (
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// PageParams is a normalized page request.
type PageParams struct {
	Page int
	Size int
}

func (p PageParams) Normalize() PageParams {
	page := max(p.Page, DefaultPage)
	size := p.Size
	if size < 1 {
		size = DefaultPageSize
	}
	size = min(size, MaxPageSize)
	return PageParams{Page: page, Size: size}
}

func (p PageParams) Offset() int {
	return (p.Page - 1) * p.Size
}

// PageMeta describes one page slice of a filtered result set. Total counts
// every row matching the filter, not just the returned page.
type PageMeta struct {
	Page       int   `json:"page"`
	Size       int   `json:"size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
	HasNext    bool  `json:"hasNext"`
	HasPrev    bool  `json:"hasPrev"`
}

func NewPageMeta(params PageParams, total int64) PageMeta {
	totalPages := 0
	if total > 0 {
		totalPages = int((total + int64(params.Size) - 1) / int64(params.Size))
	}
	return PageMeta{
		Page:       params.Page,
		Size:       params.Size,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    params.Page < totalPages,
		HasPrev:    params.Page > 1,
	}
}
