package table

import (
	"cmp"
	"slices"

	"github.com/kailas-cloud/riskboard/internal/domain/level"
	"github.com/kailas-cloud/riskboard/internal/domain/record"
)

// Facet is the number of rows carrying one value of a column.
type Facet struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Facets counts the values of field across rows. Level columns list every
// level in rank order, source level columns every grade; other columns are
// ordered by count descending then value. ok is false for unknown fields
// and date columns.
func Facets[T Row](rows []T, schema Schema, field string) (facets []Facet, ok bool) {
	col, ok := schema.Column(field)
	if !ok || col.Kind == KindDate {
		return nil, false
	}
	src := col.source()
	counts := make(map[string]int)
	for _, r := range rows {
		raw := r.Field(src)
		switch col.Kind {
		case KindLevel:
			counts[string(level.Parse(raw))]++
		case KindSourceLevel:
			counts[string(level.ParseSource(raw))]++
		case KindList:
			for _, item := range record.ParseList(raw) {
				counts[item]++
			}
		default:
			if raw != "" {
				counts[raw]++
			}
		}
	}

	switch col.Kind {
	case KindLevel:
		for _, l := range level.All() {
			facets = append(facets, Facet{Value: string(l), Count: counts[string(l)]})
			delete(counts, string(l))
		}
	case KindSourceLevel:
		for _, g := range level.AllSources() {
			facets = append(facets, Facet{Value: string(g), Count: counts[string(g)]})
			delete(counts, string(g))
		}
	}

	rest := make([]Facet, 0, len(counts))
	for v, n := range counts {
		rest = append(rest, Facet{Value: v, Count: n})
	}
	slices.SortFunc(rest, func(a, b Facet) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Value, b.Value)
	})
	return append(facets, rest...), true
}
