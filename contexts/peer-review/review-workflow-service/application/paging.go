package application

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Page normalizes 1-based page/limit into an offset and limit.
func Page(page int, limit int) (offset int, size int) {
	if page < 1 {
		page = 1
	}
	switch {
	case limit <= 0:
		limit = DefaultPageSize
	case limit > MaxPageSize:
		limit = MaxPageSize
	}
	return (page - 1) * limit, limit
}
