package table

import "github.com/kailas-cloud/riskboard/internal/domain/view"

// DefaultPageSize applies when the caller passes a non-positive page size.
const DefaultPageSize = 10

// DefaultWindow is the number of page links shown around the current page.
const DefaultWindow = 5

// Page is one page of a filtered and sorted table.
type Page[T any] struct {
	Items      []T
	Total      int
	Page       int
	PageSize   int
	TotalPages int
}

// Paginate returns the 1-based page of items. Pages past the end are empty.
func Paginate[T any](items []T, page, pageSize int) []T {
	page, pageSize = normalize(page, pageSize)
	start := (page - 1) * pageSize
	if start >= len(items) {
		return []T{}
	}
	end := min(start+pageSize, len(items))
	return items[start:end]
}

// TotalPages returns the number of pages needed for total rows.
func TotalPages(total, pageSize int) int {
	_, pageSize = normalize(1, pageSize)
	return (total + pageSize - 1) / pageSize
}

// Window returns the page numbers to display around page, at most width of them.
func Window(page, totalPages, width int) []int {
	if totalPages <= 0 {
		return nil
	}
	if width <= 0 {
		width = DefaultWindow
	}
	page = max(1, min(page, totalPages))
	start := max(1, page-width/2)
	end := min(totalPages, start+width-1)
	if end-start+1 < width {
		start = max(1, end-width+1)
	}
	out := make([]int, 0, end-start+1)
	for p := start; p <= end; p++ {
		out = append(out, p)
	}
	return out
}

// Apply filters, sorts and paginates rows.
func Apply[T Row](rows []T, schema Schema, fs view.FilterSet, sc view.SortConfig, page, pageSize int) Page[T] {
	page, pageSize = normalize(page, pageSize)
	all := Sort(Filter(rows, schema, fs), schema, sc)
	return Page[T]{
		Items:      Paginate(all, page, pageSize),
		Total:      len(all),
		Page:       page,
		PageSize:   pageSize,
		TotalPages: TotalPages(len(all), pageSize),
	}
}

// ApplyQuery is Apply driven by a view.Query.
func ApplyQuery[T Row](rows []T, schema Schema, q view.Query) Page[T] {
	return Apply(rows, schema, q.Filters, q.Sort, q.Page, q.PageSize)
}

func normalize(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return page, pageSize
}
