package search

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"

	"github.com/kailas-cloud/riskboard/internal/dataset"
	"github.com/kailas-cloud/riskboard/internal/domain/level"
	domprefs "github.com/kailas-cloud/riskboard/internal/domain/preferences"
	"github.com/kailas-cloud/riskboard/internal/domain/record"
	"github.com/kailas-cloud/riskboard/internal/domain/result"
	"github.com/kailas-cloud/riskboard/internal/domain/view"
	"github.com/kailas-cloud/riskboard/internal/metrics"
)

// --- Mocks ---

type staticData struct{ snap *dataset.Snapshot }

func (d staticData) Snapshot() *dataset.Snapshot { return d.snap }

type fixedPageSize int

func (f fixedPageSize) PageSize(context.Context, string, domprefs.View) int { return int(f) }

func titlesOf(rs []result.Result) []string {
	out := make([]string, len(rs))
	for i := range rs {
		out[i] = rs[i].Title()
	}
	return out
}

// --- Match ---

func TestMatch_CompanyScore(t *testing.T) {
	companies := []record.Company{{Name: "Acme Corp"}, {Name: "acme"}, {Name: "Foo Corp"}}

	got := Match("Acme", companies, nil, DefaultWeights)
	if len(got) != 2 {
		t.Fatalf("expected 2 hits, got %d: %v", len(got), titlesOf(got))
	}
	for _, r := range got {
		if r.Score() != 4 {
			t.Errorf("%s: score = %d, want 4", r.Title(), r.Score())
		}
		if r.Kind() != result.KindCompany || r.NewsIndex() != -1 {
			t.Errorf("%s: unexpected company hit shape", r.Title())
		}
	}
}

func TestMatch_CompanyQueryIsNotTrimmed(t *testing.T) {
	companies := []record.Company{{Name: "Acme"}, {Name: "Acme Corp"}}
	got := Match("acme ", companies, nil, DefaultWeights)
	if len(got) != 1 || got[0].Title() != "Acme Corp" {
		t.Errorf("got %v, want only Acme Corp", titlesOf(got))
	}
}

func TestMatch_CompanyNeedsWholeQuery(t *testing.T) {
	companies := []record.Company{{Name: "Acme Corp"}}
	if got := Match("acme bank", companies, nil, DefaultWeights); len(got) != 0 {
		t.Errorf("expected no hits, got %v", titlesOf(got))
	}
}

func TestMatch_NewsScore(t *testing.T) {
	news := []record.News{
		{ID: 0, Title: "Acme wins deal", Summary: "nothing here"},
		{ID: 1, Title: "Quiet day", Summary: "no news"},
		{ID: 2, Title: "Markets", Summary: "Acme deal closes"},
		{ID: 3, Title: "Acme deal", Summary: "acme deal"},
	}

	got := Match("acme deal", nil, news, DefaultWeights)
	scores := map[int]int{}
	for _, r := range got {
		scores[r.NewsIndex()] = r.Score()
	}
	want := map[int]int{0: 6, 2: 4, 3: 10}
	if diff := cmp.Diff(want, scores); diff != "" {
		t.Errorf("scores mismatch (-want +got):\n%s", diff)
	}
}

func TestMatch_BlankQuery(t *testing.T) {
	if got := Match("   ", []record.Company{{Name: "Acme"}}, nil, DefaultWeights); got != nil {
		t.Errorf("expected nil, got %v", titlesOf(got))
	}
}

func TestMatch_CustomWeights(t *testing.T) {
	got := Match("acme", []record.Company{{Name: "Acme"}}, nil, Weights{Company: 10})
	if got[0].Score() != 10 {
		t.Errorf("score = %d, want 10", got[0].Score())
	}
}

// --- Order ---

func TestOrder_RelevanceDescIsStable(t *testing.T) {
	news := []record.News{
		{ID: 0, Title: "Acme wins deal"},
		{ID: 1, Title: "Foo wins Acme deal"},
	}
	got := Match("Acme", nil, news, DefaultWeights)
	Order(got, ByRelevance, view.Desc)

	if diff := cmp.Diff([]string{"Acme wins deal", "Foo wins Acme deal"}, titlesOf(got)); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
	if got[0].Score() != 3 || got[1].Score() != 3 {
		t.Errorf("scores = %d,%d, want 3,3", got[0].Score(), got[1].Score())
	}
}

func TestOrder_RelevanceAsc(t *testing.T) {
	rs := []result.Result{
		result.NewNews(record.News{Title: "b"}, 0, 5),
		result.NewNews(record.News{Title: "a"}, 1, 2),
		result.NewCompany(record.Company{Name: "c"}, 4),
	}
	Order(rs, ByRelevance, view.Asc)
	if diff := cmp.Diff([]string{"a", "c", "b"}, titlesOf(rs)); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestOrder_DateUndatedLast(t *testing.T) {
	rs := []result.Result{
		result.NewCompany(record.Company{Name: "company"}, 4),
		result.NewNews(record.News{Title: "old", Time: "2024-01-01"}, 0, 3),
		result.NewNews(record.News{Title: "new", Time: "2024-06-01"}, 1, 3),
		result.NewNews(record.News{Title: "broken", Time: "soon"}, 2, 3),
	}

	desc := append([]result.Result(nil), rs...)
	Order(desc, ByDate, view.Desc)
	if diff := cmp.Diff([]string{"new", "old", "company", "broken"}, titlesOf(desc)); diff != "" {
		t.Errorf("desc mismatch (-want +got):\n%s", diff)
	}

	asc := append([]result.Result(nil), rs...)
	Order(asc, ByDate, view.Asc)
	if diff := cmp.Diff([]string{"old", "new", "company", "broken"}, titlesOf(asc)); diff != "" {
		t.Errorf("asc mismatch (-want +got):\n%s", diff)
	}
}

func TestParseOrderBy(t *testing.T) {
	if by, err := ParseOrderBy(""); err != nil || by != ByRelevance {
		t.Errorf("empty: %q, %v", by, err)
	}
	if _, err := ParseOrderBy("popularity"); err == nil {
		t.Error("expected error for unknown ordering")
	}
}

// --- Service ---

func newService(pageSize int) *Service {
	news := make([]record.News, 0, 25)
	for i := range 25 {
		news = append(news, record.News{
			ID:        i,
			Title:     "Acme update",
			Time:      time.Date(2024, 1, 1+i, 0, 0, 0, 0, time.UTC).Format(time.DateOnly),
			RiskLevel: level.Low,
		})
	}
	companies := []record.Company{{Name: "Acme Corp", RiskLevel: level.High}}
	snap := dataset.NewSnapshot(news, companies, time.Now())
	return New(staticData{snap}, fixedPageSize(pageSize), Weights{}, zap.NewNop())
}

func TestService_PaginatesNewsOnly(t *testing.T) {
	svc := newService(10)
	resp := svc.Search(context.Background(), "u1", Request{Query: "acme ", Page: 3})

	if len(resp.Companies) != 1 || resp.Companies[0].RiskLevel() != level.High {
		t.Fatalf("companies = %v", titlesOf(resp.Companies))
	}
	if resp.News.Total != 25 || resp.News.TotalPages != 3 || len(resp.News.Items) != 5 {
		t.Errorf("news page = total %d pages %d items %d", resp.News.Total, resp.News.TotalPages, len(resp.News.Items))
	}
	if resp.Query != "acme" {
		t.Errorf("Query = %q", resp.Query)
	}
}

func TestService_ExplicitPageSizeAndDateOrder(t *testing.T) {
	svc := newService(10)
	resp := svc.Search(context.Background(), "u1", Request{Query: "acme", By: ByDate, PageSize: 20})

	if resp.News.PageSize != 20 || len(resp.News.Items) != 20 {
		t.Fatalf("page size = %d, items = %d", resp.News.PageSize, len(resp.News.Items))
	}
	if resp.News.Items[0].NewsIndex() != 24 {
		t.Errorf("newest first: got index %d", resp.News.Items[0].NewsIndex())
	}
	if svc.Weights() != DefaultWeights {
		t.Errorf("Weights() = %+v", svc.Weights())
	}
}

func TestService_CountsQueries(t *testing.T) {
	svc := newService(10)
	hit := testutil.ToFloat64(metrics.SearchQueriesTotal.WithLabelValues("hit"))
	empty := testutil.ToFloat64(metrics.SearchQueriesTotal.WithLabelValues("empty"))

	svc.Search(context.Background(), "u1", Request{Query: "acme"})
	svc.Search(context.Background(), "u1", Request{Query: "zzz"})

	if got := testutil.ToFloat64(metrics.SearchQueriesTotal.WithLabelValues("hit")); got != hit+1 {
		t.Errorf("hit = %v, want %v", got, hit+1)
	}
	if got := testutil.ToFloat64(metrics.SearchQueriesTotal.WithLabelValues("empty")); got != empty+1 {
		t.Errorf("empty = %v, want %v", got, empty+1)
	}
}
