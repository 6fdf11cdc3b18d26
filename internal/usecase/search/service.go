// Package search implements keyword relevance search over the company and
// news collections.
package search

import (
	"context"
	"strings"

	"go.uber.org/zap"

	domprefs "github.com/kailas-cloud/riskboard/internal/domain/preferences"
	"github.com/kailas-cloud/riskboard/internal/domain/result"
	"github.com/kailas-cloud/riskboard/internal/domain/view"
	"github.com/kailas-cloud/riskboard/internal/metrics"
	"github.com/kailas-cloud/riskboard/internal/usecase/table"
)

// Request is one search page request. PageSize 0 uses the stored
// search_results preference.
type Request struct {
	Query     string
	By        OrderBy
	Direction view.Direction
	Page      int
	PageSize  int
}

// Response splits the ordered hits: every company match, and one page of news.
type Response struct {
	Query     string
	Companies []result.Result
	News      table.Page[result.Result]
}

// Service runs relevance search against the current dataset snapshot.
type Service struct {
	data    DatasetReader
	prefs   PageSizer
	weights Weights
	logger  *zap.Logger
}

// New creates a search service. Zero weights fall back to DefaultWeights.
func New(data DatasetReader, prefs PageSizer, weights Weights, logger *zap.Logger) *Service {
	return &Service{data: data, prefs: prefs, weights: weights.orDefault(), logger: logger}
}

// Weights returns the effective scoring weights.
func (s *Service) Weights() Weights { return s.weights }

// All returns every hit for query, ordered.
func (s *Service) All(query string, by OrderBy, dir view.Direction) []result.Result {
	snap := s.data.Snapshot()
	results := Match(query, snap.Companies(), snap.News(), s.weights)
	Order(results, by, dir)
	return results
}

// Search runs req for profile.
func (s *Service) Search(ctx context.Context, profile string, req Request) Response {
	results := s.All(req.Query, req.By, req.Direction)
	query := strings.TrimSpace(req.Query)

	outcome := "hit"
	if len(results) == 0 {
		outcome = "empty"
	}
	metrics.SearchQueriesTotal.WithLabelValues(outcome).Inc()

	companies := make([]result.Result, 0)
	news := make([]result.Result, 0, len(results))
	for _, r := range results {
		if r.IsNews() {
			news = append(news, r)
		} else {
			companies = append(companies, r)
		}
	}

	size := req.PageSize
	if size <= 0 && s.prefs != nil {
		size = s.prefs.PageSize(ctx, profile, domprefs.ViewSearchResults)
	}
	page := paginate(news, req.Page, size)

	s.logger.Debug("search",
		zap.String("query", query),
		zap.Int("companies", len(companies)),
		zap.Int("news", len(news)),
	)
	return Response{Query: query, Companies: companies, News: page}
}

func paginate(items []result.Result, page, size int) table.Page[result.Result] {
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = table.DefaultPageSize
	}
	return table.Page[result.Result]{
		Items:      table.Paginate(items, page, size),
		Total:      len(items),
		Page:       page,
		PageSize:   size,
		TotalPages: table.TotalPages(len(items), size),
	}
}
