package riskboard

import (
	"context"

	"github.com/kailas-cloud/riskboard/internal/domain/record"
	"github.com/kailas-cloud/riskboard/internal/domain/view"
	"github.com/kailas-cloud/riskboard/internal/usecase/browse"
	"github.com/kailas-cloud/riskboard/internal/usecase/table"
)

// --- browseUseCase mock ---

type mockBrowseUC struct {
	newsFn      func(ctx context.Context, profile string, q view.Query) table.Page[record.News]
	watchlistFn func(ctx context.Context, profile string, q view.Query) (table.Page[record.Company], error)
	companyFn   func(name string) (browse.CompanyDetail, error)
}

func (m *mockBrowseUC) News(ctx context.Context, profile string, q view.Query) table.Page[record.News] {
	return m.newsFn(ctx, profile, q)
}

func (m *mockBrowseUC) Companies(context.Context, string, view.Query) table.Page[record.Company] {
	return table.Page[record.Company]{}
}

func (m *mockBrowseUC) Watchlist(ctx context.Context, profile string, q view.Query) (table.Page[record.Company], error) {
	return m.watchlistFn(ctx, profile, q)
}

func (m *mockBrowseUC) NewsByID(int) (browse.NewsDetail, error) {
	return browse.NewsDetail{}, nil
}

func (m *mockBrowseUC) Company(name string) (browse.CompanyDetail, error) {
	return m.companyFn(name)
}

func (m *mockBrowseUC) NewsFacets(string) ([]table.Facet, error)    { return nil, nil }
func (m *mockBrowseUC) CompanyFacets(string) ([]table.Facet, error) { return nil, nil }

// --- watchlistUseCase mock ---

type mockWatchlistUC struct {
	isWatchedFn func(ctx context.Context, profile, name string) (bool, error)
}

func (m *mockWatchlistUC) Add(context.Context, string, string) (record.Company, error) {
	return record.Company{}, nil
}

func (m *mockWatchlistUC) Remove(context.Context, string, string) error { return nil }

func (m *mockWatchlistUC) IsWatched(ctx context.Context, profile, name string) (bool, error) {
	return m.isWatchedFn(ctx, profile, name)
}

// --- helpers ---

func testClient(b browseUseCase, w watchlistUseCase) *Client {
	return &Client{profile: "tester", browseSvc: b, watchSvc: w}
}
