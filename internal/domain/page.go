package domain

const (
	DefaultPageSize int32 = 20
	MaxPageSize     int32 = 100
)

// NormalizePage applies defaults and bounds to offset pagination input.
func NormalizePage(page, pageSize int32) (int32, int32) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return page, pageSize
}

// Offset returns the row offset for a normalised page.
func Offset(page, pageSize int32) int32 {
	return (page - 1) * pageSize
}
