package search

import (
	"fmt"
	"slices"

	"github.com/kailas-cloud/riskboard/internal/domain"
	"github.com/kailas-cloud/riskboard/internal/domain/result"
	"github.com/kailas-cloud/riskboard/internal/domain/view"
)

// OrderBy selects the result ordering key.
type OrderBy string

// Orderings.
const (
	ByRelevance OrderBy = "relevance"
	ByDate      OrderBy = "date"
)

// ParseOrderBy parses s, defaulting to ByRelevance when empty.
func ParseOrderBy(s string) (OrderBy, error) {
	switch OrderBy(s) {
	case "":
		return ByRelevance, nil
	case ByRelevance, ByDate:
		return OrderBy(s), nil
	}
	return "", domain.NewFieldError("sort_by", fmt.Sprintf("must be %q or %q", ByRelevance, ByDate))
}

// Order sorts results in place by key and direction. The sort is stable:
// ties keep their input order. Results without a parseable date sort after
// dated ones in both directions when ordering by date. An empty direction
// means descending.
func Order(results []result.Result, by OrderBy, dir view.Direction) {
	desc := dir != view.Asc
	slices.SortStableFunc(results, func(a, b result.Result) int {
		var c int
		switch by {
		case ByDate:
			ta, oka := a.Published()
			tb, okb := b.Published()
			switch {
			case !oka && !okb:
				return 0
			case !oka:
				return 1
			case !okb:
				return -1
			}
			c = ta.Compare(tb)
		default:
			c = a.Score() - b.Score()
		}
		if desc {
			return -c
		}
		return c
	})
}
