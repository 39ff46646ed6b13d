package report

const PER_PAGE = 5

type Pagination struct {
	Page       int
	PerPage    int
	TotalPages int
	Total      int
	// Start and End bound the page within the filtered list, End exclusive.
	Start, End  int
	HasPrevious bool
	HasNext     bool
}

// Paginate clamps page into [1, max(1, TotalPages)]. A non-positive perPage
// falls back to PER_PAGE.
func Paginate(total, page, perPage int) Pagination {
	if perPage <= 0 {
		perPage = PER_PAGE
	}
	if total < 0 {
		total = 0
	}

	totalPages := (total + perPage - 1) / perPage
	if page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}

	start := (page - 1) * perPage
	end := start + perPage
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return Pagination{
		Page:        page,
		PerPage:     perPage,
		TotalPages:  totalPages,
		Total:       total,
		Start:       start,
		End:         end,
		HasPrevious: page > 1,
		HasNext:     page < totalPages,
	}
}
