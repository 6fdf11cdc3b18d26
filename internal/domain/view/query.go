// Package view holds the user-controlled view state of a table: sort keys,
// filters and the paging position.
package view

// Query is the complete view state for one table request.
// PageSize 0 means "use the stored preference".
type Query struct {
	Filters  FilterSet
	Sort     SortConfig
	Page     int
	PageSize int
}
