package riskboard

import (
	"fmt"
	"time"

	"github.com/kailas-cloud/riskboard/internal/domain"
	domprefs "github.com/kailas-cloud/riskboard/internal/domain/preferences"
	"github.com/kailas-cloud/riskboard/internal/domain/result"
	"github.com/kailas-cloud/riskboard/internal/domain/view"
	searchuc "github.com/kailas-cloud/riskboard/internal/usecase/search"
	"github.com/kailas-cloud/riskboard/internal/usecase/table"
)

func toViewQuery(q Query) (view.Query, error) {
	sc, err := view.ParseSortList(q.Sort)
	if err != nil {
		return view.Query{}, domain.NewFieldError("sort", err.Error())
	}
	dr := view.DateRange{Start: q.From}
	if !q.To.IsZero() {
		dr.End = endOfDay(q.To)
	}
	fs, err := view.NewFilterSet(q.Filters, dr)
	if err != nil {
		return view.Query{}, domain.NewFieldError("filter", err.Error())
	}
	return view.Query{Filters: fs, Sort: sc, Page: q.Page, PageSize: q.PageSize}, nil
}

// endOfDay widens a date-only bound to the whole day.
func endOfDay(t time.Time) time.Time {
	if t.Hour() != 0 || t.Minute() != 0 || t.Second() != 0 || t.Nanosecond() != 0 {
		return t
	}
	return t.Add(24*time.Hour - time.Nanosecond)
}

func fromTablePage[T, U any](p table.Page[T], conv func(T) U) Page[U] {
	items := make([]U, len(p.Items))
	for i, it := range p.Items {
		items[i] = conv(it)
	}
	return Page[U]{
		Items:      items,
		Total:      p.Total,
		Page:       p.Page,
		PageSize:   p.PageSize,
		TotalPages: p.TotalPages,
	}
}

func same[T any](v T) T { return v }

func toSearchRequest(r SearchRequest) (searchuc.Request, error) {
	by, err := searchuc.ParseOrderBy(r.OrderBy)
	if err != nil {
		return searchuc.Request{}, err
	}
	dir := view.Direction(r.Direction)
	if dir != "" && !dir.IsValid() {
		return searchuc.Request{}, domain.NewFieldError("order", fmt.Sprintf("must be %q or %q", view.Asc, view.Desc))
	}
	return searchuc.Request{
		Query:     r.Query,
		By:        by,
		Direction: dir,
		Page:      r.Page,
		PageSize:  r.PageSize,
	}, nil
}

func fromResult(r result.Result) SearchHit {
	return SearchHit{
		Kind:      string(r.Kind()),
		Score:     r.Score(),
		Title:     r.Title(),
		Time:      r.Time(),
		Company:   r.Company(),
		Summary:   r.Summary(),
		RiskLevel: r.RiskLevel(),
		OppLevel:  r.OppLevel(),
		NewsID:    r.NewsIndex(),
	}
}

func fromResults(rs []result.Result) []SearchHit {
	out := make([]SearchHit, len(rs))
	for i, r := range rs {
		out[i] = fromResult(r)
	}
	return out
}

func fromPreferences(p domprefs.Preferences) Preferences {
	sizes := make(map[string]int)
	for v, s := range p.PageSizes() {
		sizes[string(v)] = int(s)
	}
	return Preferences{
		PageSizes:    sizes,
		NewsSections: p.NewsSections(),
		CorpSections: p.CorpSections(),
	}
}
