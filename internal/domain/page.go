package domain

const (
	// DefaultLimit applies when the caller omits limit.
	DefaultLimit = 50
	// MaxLimit is the hard cap; anything above is clamped, not rejected.
	MaxLimit = 100
)

// ListParams carries common listing inputs parsed from the query string.
type ListParams struct {
	Limit  int
	Offset int
}

// Normalize clamps limit/offset into their allowed ranges.
func (p ListParams) Normalize() ListParams {
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

// PageMeta describes a page of results.
type PageMeta struct {
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// Page is a paginated result set.
type Page[T any] struct {
	Data []T      `json:"data"`
	Meta PageMeta `json:"meta"`
}

// NewPage wraps items with pagination metadata, never returning nil Data.
func NewPage[T any](items []T, total int, params ListParams) *Page[T] {
	if items == nil {
		items = []T{}
	}
	return &Page[T]{
		Data: items,
		Meta: PageMeta{Total: total, Limit: params.Limit, Offset: params.Offset},
	}
}
