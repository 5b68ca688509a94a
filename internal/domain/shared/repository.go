package shared

// ListOptions carries paging and sorting for list queries
type ListOptions struct {
	Skip     int
	Take     int
	OrderBy  string
	OrderDir string
}

// DefaultListOptions returns list options with default values
func DefaultListOptions() ListOptions {
	return ListOptions{
		Take:     20,
		OrderBy:  "id",
		OrderDir: "asc",
	}
}

// Normalize clamps paging values into a sane range
func (o ListOptions) Normalize() ListOptions {
	if o.Skip < 0 {
		o.Skip = 0
	}
	if o.Take <= 0 || o.Take > 100 {
		o.Take = 20
	}
	if o.OrderBy == "" {
		o.OrderBy = "id"
	}
	if o.OrderDir != "desc" {
		o.OrderDir = "asc"
	}
	return o
}

// PaginatedList is a page of items plus the total count
type PaginatedList[T any] struct {
	Items      []T   `json:"items"`
	TotalItems int64 `json:"totalItems"`
}

// NewPaginatedList creates a new paginated list
func NewPaginatedList[T any](items []T, total int64) PaginatedList[T] {
	if items == nil {
		items = make([]T, 0)
	}
	return PaginatedList[T]{Items: items, TotalItems: total}
}
