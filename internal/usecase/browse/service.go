// Package browse serves the news table, the company list and the watchlist
// view, plus detail, facet and export reads over the current snapshot.
package browse

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/kailas-cloud/riskboard/internal/domain"
	domprefs "github.com/kailas-cloud/riskboard/internal/domain/preferences"
	"github.com/kailas-cloud/riskboard/internal/domain/record"
	"github.com/kailas-cloud/riskboard/internal/domain/view"
	"github.com/kailas-cloud/riskboard/internal/usecase/table"
)

// NewsDetail is one news row with its parsed lists and linked companies.
type NewsDetail struct {
	News      record.News
	RiskTypes []string
	OppTypes  []string
	Companies []record.Company
}

// CompanyDetail is one company with its parsed lists and the news naming it.
type CompanyDetail struct {
	Company   record.Company
	RiskTypes []string
	OppTypes  []string
	News      []record.News
}

// Service reads views of the dataset.
type Service struct {
	data      DatasetReader
	prefs     PageSizer
	watchlist WatchlistReader
}

// New creates a browse service. watchlist may be nil when watchlists are disabled.
func New(data DatasetReader, prefs PageSizer, watchlist WatchlistReader) *Service {
	return &Service{data: data, prefs: prefs, watchlist: watchlist}
}

// News returns one page of the news table.
func (s *Service) News(ctx context.Context, profile string, q view.Query) table.Page[record.News] {
	q.PageSize = s.pageSize(ctx, profile, domprefs.ViewNewsTable, q.PageSize)
	return table.ApplyQuery(s.data.Snapshot().News(), table.NewsSchema, q)
}

// Companies returns one page of the company list.
func (s *Service) Companies(ctx context.Context, profile string, q view.Query) table.Page[record.Company] {
	q.PageSize = s.pageSize(ctx, profile, domprefs.ViewCorpList, q.PageSize)
	return table.ApplyQuery(s.data.Snapshot().Companies(), table.CompanySchema, q)
}

// Watchlist returns one page of the profile's watched companies.
func (s *Service) Watchlist(ctx context.Context, profile string, q view.Query) (table.Page[record.Company], error) {
	if s.watchlist == nil {
		return table.Page[record.Company]{}, fmt.Errorf("watchlist: %w", domain.ErrNotFound)
	}
	rows, err := s.watchlist.Companies(ctx, profile)
	if err != nil {
		return table.Page[record.Company]{}, fmt.Errorf("watchlist companies: %w", err)
	}
	q.PageSize = s.pageSize(ctx, profile, domprefs.ViewCorpList, q.PageSize)
	return table.ApplyQuery(rows, table.CompanySchema, q), nil
}

// NewsByID returns the news row at file index id.
func (s *Service) NewsByID(id int) (NewsDetail, error) {
	snap := s.data.Snapshot()
	n, ok := snap.NewsByID(id)
	if !ok {
		return NewsDetail{}, fmt.Errorf("news %d: %w", id, domain.ErrNotFound)
	}
	return NewsDetail{
		News:      n,
		RiskTypes: n.RiskTypeList(),
		OppTypes:  n.OppTypeList(),
		Companies: snap.LinkedCompanies(n),
	}, nil
}

var newestFirst = mustSort(view.SortEntry{Field: record.ColTime, Direction: view.Desc})

func mustSort(entries ...view.SortEntry) view.SortConfig {
	sc, err := view.NewSortConfig(entries...)
	if err != nil {
		panic(err)
	}
	return sc
}

// Company returns the company named name with the news that mentions it,
// newest first.
func (s *Service) Company(name string) (CompanyDetail, error) {
	snap := s.data.Snapshot()
	c, ok := snap.Company(name)
	if !ok {
		return CompanyDetail{}, fmt.Errorf("company %q: %w", name, domain.ErrNotFound)
	}
	return CompanyDetail{
		Company:   c,
		RiskTypes: record.ParseList(c.RiskTypes),
		OppTypes:  record.ParseList(c.OppTypes),
		News:      table.Sort(snap.NewsAbout(c.Name), table.NewsSchema, newestFirst),
	}, nil
}

// NewsFacets returns value counts of a news column.
func (s *Service) NewsFacets(field string) ([]table.Facet, error) {
	return facets(s.data.Snapshot().News(), table.NewsSchema, field)
}

// CompanyFacets returns value counts of a company column.
func (s *Service) CompanyFacets(field string) ([]table.Facet, error) {
	return facets(s.data.Snapshot().Companies(), table.CompanySchema, field)
}

// ExportNews returns every row matching q in view order, or only the rows
// whose ids are listed, in the order given.
func (s *Service) ExportNews(q view.Query, ids []int) []record.News {
	snap := s.data.Snapshot()
	if len(ids) > 0 {
		out := make([]record.News, 0, len(ids))
		for _, id := range ids {
			if n, ok := snap.NewsByID(id); ok {
				out = append(out, n)
			}
		}
		return out
	}
	return table.Sort(table.Filter(snap.News(), table.NewsSchema, q.Filters), table.NewsSchema, q.Sort)
}

// ExportCompanies returns every company matching q in view order, or only
// the named companies.
func (s *Service) ExportCompanies(q view.Query, names []string) []record.Company {
	snap := s.data.Snapshot()
	if len(names) > 0 {
		out := make([]record.Company, 0, len(names))
		for _, n := range names {
			if c, ok := snap.Company(n); ok && !slices.ContainsFunc(out, func(o record.Company) bool {
				return strings.EqualFold(o.Name, c.Name)
			}) {
				out = append(out, c)
			}
		}
		return out
	}
	return table.Sort(table.Filter(snap.Companies(), table.CompanySchema, q.Filters), table.CompanySchema, q.Sort)
}

func (s *Service) pageSize(ctx context.Context, profile string, v domprefs.View, requested int) int {
	if requested > 0 || s.prefs == nil {
		return requested
	}
	return s.prefs.PageSize(ctx, profile, v)
}

func facets[T table.Row](rows []T, schema table.Schema, field string) ([]table.Facet, error) {
	out, ok := table.Facets(rows, schema, field)
	if !ok {
		return nil, domain.NewFieldError(field, "not a filterable column")
	}
	return out, nil
}
