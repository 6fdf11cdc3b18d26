package table

import (
	"slices"

	"github.com/kailas-cloud/riskboard/internal/domain/level"
	"github.com/kailas-cloud/riskboard/internal/domain/record"
	"github.com/kailas-cloud/riskboard/internal/domain/view"
)

// Filter returns the rows satisfying every constrained field of fs, in input
// order. Fields missing from schema are ignored.
func Filter[T Row](rows []T, schema Schema, fs view.FilterSet) []T {
	preds := compile(schema, fs)
	if len(preds) == 0 {
		return slices.Clone(rows)
	}
	out := make([]T, 0, len(rows))
	for _, r := range rows {
		if matchAll(r, preds) {
			out = append(out, r)
		}
	}
	return out
}

// Matches reports whether a single row passes fs.
func Matches[T Row](row T, schema Schema, fs view.FilterSet) bool {
	return matchAll(row, compile(schema, fs))
}

type predicate func(Row) bool

func matchAll(r Row, preds []predicate) bool {
	for _, p := range preds {
		if !p(r) {
			return false
		}
	}
	return true
}

func compile(schema Schema, fs view.FilterSet) []predicate {
	var preds []predicate
	for _, field := range fs.Fields() {
		col, ok := schema.Column(field)
		if !ok || col.Kind == KindDate {
			continue
		}
		preds = append(preds, valuePredicate(col, fs.Values(field)))
	}
	if dr := fs.DateRange(); dr.IsActive() {
		if col, ok := schema.DateColumn(); ok {
			src := col.source()
			preds = append(preds, func(r Row) bool {
				t, ok := record.ParseTime(r.Field(src))
				return ok && dr.Contains(t)
			})
		}
	}
	return preds
}

func valuePredicate(col Column, values []string) predicate {
	src := col.source()
	switch col.Kind {
	case KindLevel:
		accept := make(map[level.Level]struct{}, len(values))
		for _, v := range values {
			accept[level.Parse(v)] = struct{}{}
		}
		return func(r Row) bool {
			_, ok := accept[level.Parse(r.Field(src))]
			return ok
		}
	case KindSourceLevel:
		accept := make(map[level.Source]struct{}, len(values))
		for _, v := range values {
			accept[level.ParseSource(v)] = struct{}{}
		}
		return func(r Row) bool {
			_, ok := accept[level.ParseSource(r.Field(src))]
			return ok
		}
	case KindList:
		accept := toSet(values)
		return func(r Row) bool {
			for _, item := range record.ParseList(r.Field(src)) {
				if _, ok := accept[item]; ok {
					return true
				}
			}
			return false
		}
	default:
		accept := toSet(values)
		return func(r Row) bool {
			_, ok := accept[r.Field(src)]
			return ok
		}
	}
}

func toSet(values []string) map[string]struct{} {
	out := make(map[string]struct{}, len(values))
	for _, v := range values {
		out[v] = struct{}{}
	}
	return out
}
