package domain

// Page is one slice of a paged listing.
type Page[T any] struct {
	Items      []T   `json:"items"`
	TotalCount int64 `json:"total_count"`
	HasMore    bool  `json:"has_more"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
}

// NewPage builds a Page and derives HasMore from the window position.
func NewPage[T any](items []T, total int64, page, limit int) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Items:      items,
		TotalCount: total,
		HasMore:    int64(page*limit) < total,
		Page:       page,
		Limit:      limit,
	}
}

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// NormalizePage clamps page to >= 1 and limit to [1, MaxPageLimit],
// substituting DefaultPageLimit for a non-positive limit.
func NormalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	return page, limit
}
