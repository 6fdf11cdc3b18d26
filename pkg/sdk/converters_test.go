package riskboard

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/kailas-cloud/riskboard/internal/domain/record"
	"github.com/kailas-cloud/riskboard/internal/domain/result"
	"github.com/kailas-cloud/riskboard/internal/domain/view"
	searchuc "github.com/kailas-cloud/riskboard/internal/usecase/search"
	"github.com/kailas-cloud/riskboard/internal/usecase/table"
)

func TestToViewQuery(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	vq, err := toViewQuery(Query{
		Sort:     []string{"risklev:desc", "time"},
		Filters:  map[string][]string{"source_level": {"A", "B"}},
		From:     from,
		To:       to,
		Page:     2,
		PageSize: 20,
	})
	if err != nil {
		t.Fatal(err)
	}
	if got := vq.Sort.String(); got != "risklev:desc,time:asc" {
		t.Errorf("sort = %q", got)
	}
	if diff := cmp.Diff([]string{"A", "B"}, vq.Filters.Values("source_level")); diff != "" {
		t.Errorf("filter (-want +got):\n%s", diff)
	}
	dr := vq.Filters.DateRange()
	if !dr.Start.Equal(from) {
		t.Errorf("start = %v", dr.Start)
	}
	if !dr.Contains(time.Date(2024, 1, 31, 18, 0, 0, 0, time.UTC)) {
		t.Error("end bound should include the whole last day")
	}
	if vq.Page != 2 || vq.PageSize != 20 {
		t.Errorf("page = %d, size = %d", vq.Page, vq.PageSize)
	}
}

func TestToViewQuery_Invalid(t *testing.T) {
	tests := []struct {
		name string
		q    Query
	}{
		{"bad direction", Query{Sort: []string{"time:up"}}},
		{"duplicate sort", Query{Sort: []string{"time", "time:desc"}}},
		{"reversed range", Query{
			From: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
			To:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := toViewQuery(tt.q)
			if !errors.Is(err, ErrInvalidQuery) {
				t.Errorf("err = %v, want ErrInvalidQuery", err)
			}
		})
	}
}

func TestEndOfDay_KeepsExplicitTime(t *testing.T) {
	at := time.Date(2024, 1, 31, 12, 30, 0, 0, time.UTC)
	if got := endOfDay(at); !got.Equal(at) {
		t.Errorf("endOfDay(%v) = %v", at, got)
	}
}

func TestToSearchRequest(t *testing.T) {
	got, err := toSearchRequest(SearchRequest{Query: "acme", OrderBy: "date", Direction: "asc", Page: 3})
	if err != nil {
		t.Fatal(err)
	}
	want := searchuc.Request{Query: "acme", By: searchuc.ByDate, Direction: view.Asc, Page: 3}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}

	if _, err := toSearchRequest(SearchRequest{OrderBy: "popularity"}); !errors.Is(err, ErrInvalidQuery) {
		t.Errorf("bad order by: err = %v", err)
	}
	if _, err := toSearchRequest(SearchRequest{Direction: "sideways"}); !errors.Is(err, ErrInvalidQuery) {
		t.Errorf("bad direction: err = %v", err)
	}
}

func TestFromResult(t *testing.T) {
	n := record.News{ID: 7, Title: "Acme wins", Time: "2024-03-01", Company: "Acme Corp", RiskLevel: "Low", OppLevel: "High"}
	got := fromResult(result.NewNews(n, n.ID, 6))
	want := SearchHit{
		Kind: "news", Score: 6, Title: "Acme wins", Time: "2024-03-01", Company: "Acme Corp",
		RiskLevel: "Low", OppLevel: "High", NewsID: 7,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}

	c := fromResult(result.NewCompany(record.Company{Name: "Acme Corp"}, 4))
	if c.Kind != "company" || c.NewsID != -1 {
		t.Errorf("company hit = %+v", c)
	}
}

func TestFromTablePage(t *testing.T) {
	p := table.Page[int]{Items: []int{1, 2}, Total: 5, Page: 1, PageSize: 2, TotalPages: 3}
	got := fromTablePage(p, func(i int) string { return string(rune('a' + i)) })
	want := Page[string]{Items: []string{"b", "c"}, Total: 5, Page: 1, PageSize: 2, TotalPages: 3}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}
