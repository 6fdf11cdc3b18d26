package riskboard

import (
	"context"
	"errors"
	"testing"

	"github.com/kailas-cloud/riskboard/internal/domain/record"
	"github.com/kailas-cloud/riskboard/internal/domain/view"
	"github.com/kailas-cloud/riskboard/internal/usecase/browse"
	"github.com/kailas-cloud/riskboard/internal/usecase/table"
)

func TestClient_News_PassesProfileAndQuery(t *testing.T) {
	mock := &mockBrowseUC{
		newsFn: func(_ context.Context, profile string, q view.Query) table.Page[record.News] {
			if profile != "tester" {
				t.Errorf("profile = %q, want tester", profile)
			}
			if q.Page != 2 || q.Sort.String() != "time:desc" {
				t.Errorf("query = %+v", q)
			}
			return table.Page[record.News]{Items: []record.News{{ID: 3, Title: "x"}}, Total: 11, Page: 2, PageSize: 10, TotalPages: 2}
		},
	}
	c := testClient(mock, nil)

	p, err := c.News(context.Background(), Query{Sort: []string{"time:desc"}, Page: 2})
	if err != nil {
		t.Fatal(err)
	}
	if len(p.Items) != 1 || p.Items[0].ID != 3 || p.TotalPages != 2 {
		t.Errorf("page = %+v", p)
	}
}

func TestClient_Company_NotFound(t *testing.T) {
	mock := &mockBrowseUC{
		companyFn: func(name string) (browse.CompanyDetail, error) {
			return browse.CompanyDetail{}, ErrNotFound
		},
	}
	c := testClient(mock, &mockWatchlistUC{})

	_, err := c.Company(context.Background(), "Nope")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestClient_Company_WatchlistError(t *testing.T) {
	mock := &mockBrowseUC{
		companyFn: func(name string) (browse.CompanyDetail, error) {
			return browse.CompanyDetail{Company: record.Company{Name: name}}, nil
		},
	}
	watch := &mockWatchlistUC{
		isWatchedFn: func(context.Context, string, string) (bool, error) {
			return false, errors.New("store down")
		},
	}
	c := testClient(mock, watch)

	if _, err := c.Company(context.Background(), "Acme Corp"); err == nil {
		t.Fatal("expected error")
	}
}

func TestClient_Watchlist_Error(t *testing.T) {
	mock := &mockBrowseUC{
		watchlistFn: func(context.Context, string, view.Query) (table.Page[record.Company], error) {
			return table.Page[record.Company]{}, errors.New("store down")
		},
	}
	c := testClient(mock, nil)

	if _, err := c.Watchlist(context.Background(), Query{}); err == nil {
		t.Fatal("expected error")
	}
}
