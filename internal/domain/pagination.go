package domain

// PaginationParams selects one page of a list ordered by the repository.
type PaginationParams struct {
	Page     int
	PageSize int
}

// Offset is the number of rows before the first row of Page. Pages start at 1.
func (p PaginationParams) Offset() int {
	if p.Page <= 1 || p.PageSize <= 0 {
		return 0
	}
	return (p.Page - 1) * p.PageSize
}
