package chi

import (
	"bytes"
	"encoding/csv"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/parquet-go/parquet-go"

	"github.com/kailas-cloud/riskboard/internal/domain"
	"github.com/kailas-cloud/riskboard/internal/domain/record"
)

func newsIDs(items []record.News) []int {
	out := make([]int, len(items))
	for i, n := range items {
		out[i] = n.ID
	}
	return out
}

func TestHealthCheck(t *testing.T) {
	env := newTestEnv(t)
	rr := env.do(t, http.MethodGet, "/health", "", "")

	if rr.Code != http.StatusOK {
		t.Fatalf("health: got %d: %s", rr.Code, rr.Body.String())
	}
	var resp HealthResponse
	decode(t, rr, &resp)
	want := HealthResponse{Status: "ok", Checks: map[string]string{"storage": "ok", "dataset": "ok"}}
	if diff := cmp.Diff(want, resp); diff != "" {
		t.Errorf("health mismatch (-want +got):\n%s", diff)
	}
}

func TestLogin_DemoUser(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)

	rr := env.do(t, http.MethodGet, "/api/v1/auth/me", token, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("me: got %d", rr.Code)
	}
	var me UserResponse
	decode(t, rr, &me)
	if me.Email != demoEmail || me.ProfileID != demoEmail || me.APIKey {
		t.Errorf("unexpected principal: %+v", me)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	env := newTestEnv(t)
	rr := env.do(t, http.MethodPost, "/api/v1/auth/login", "", `{"email":"test@hsbc.hk","password":"nope"}`)
	assertError(t, rr, http.StatusUnauthorized, CodeInvalidCredentials)
}

func TestLogin_BadBody(t *testing.T) {
	env := newTestEnv(t)
	rr := env.do(t, http.MethodPost, "/api/v1/auth/login", "", `{`)
	assertError(t, rr, http.StatusBadRequest, CodeBadRequest)
}

func TestRegister_ThenLogin(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, http.MethodPost, "/api/v1/auth/register", "",
		`{"email":"Ana@Example.com","password":"hunter22","name":"Ana"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("register: got %d: %s", rr.Code, rr.Body.String())
	}
	var u UserResponse
	decode(t, rr, &u)
	if u.Email != "ana@example.com" || u.ProfileID == "" {
		t.Errorf("unexpected user: %+v", u)
	}

	rr = env.do(t, http.MethodPost, "/api/v1/auth/login", "", `{"email":"ana@example.com","password":"hunter22"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("login after register: got %d", rr.Code)
	}

	rr = env.do(t, http.MethodPost, "/api/v1/auth/register", "", `{"email":"ana@example.com","password":"hunter22"}`)
	assertError(t, rr, http.StatusConflict, CodeAlreadyExists)
}

func TestRegister_DemoEmailTaken(t *testing.T) {
	env := newTestEnv(t)
	rr := env.do(t, http.MethodPost, "/api/v1/auth/register", "", `{"email":"test@hsbc.hk","password":"abcdefg"}`)
	assertError(t, rr, http.StatusConflict, CodeAlreadyExists)
}

func TestLogout_RevokesSession(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)

	rr := env.do(t, http.MethodPost, "/api/v1/auth/logout", token, "")
	if rr.Code != http.StatusNoContent {
		t.Fatalf("logout: got %d", rr.Code)
	}
	rr = env.do(t, http.MethodGet, "/api/v1/auth/me", token, "")
	assertError(t, rr, http.StatusUnauthorized, CodeUnauthorized)
}

func TestListNews_SortFilterPage(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name      string
		query     string
		wantIDs   []int
		wantTotal int
		wantPages int
	}{
		{"file order", "", []int{0, 1, 2}, 3, 1},
		{"time asc", "?sort=time:asc", []int{2, 1, 0}, 3, 1},
		{"risk desc", "?sort=risklev:desc", []int{1, 2, 0}, 3, 1},
		{"filter level", "?filter.risklev=High,Medium", []int{1, 2}, 2, 1},
		{"filter list", "?filter.risktye=Legal", []int{1}, 1, 1},
		{"date range", "?from=2024-02-01&to=2024-03-01", []int{0, 1}, 2, 1},
		{"second page", "?sort=time:desc&page_size=2&page=2", []int{2}, 3, 2},
		{"past the end", "?page_size=2&page=9", []int{}, 3, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := env.do(t, http.MethodGet, "/api/v1/news"+tt.query, testAPIKey, "")
			if rr.Code != http.StatusOK {
				t.Fatalf("got %d: %s", rr.Code, rr.Body.String())
			}
			var page PageResponse[record.News]
			decode(t, rr, &page)
			if diff := cmp.Diff(tt.wantIDs, newsIDs(page.Items)); diff != "" {
				t.Errorf("ids mismatch (-want +got):\n%s", diff)
			}
			if page.Total != tt.wantTotal || page.TotalPages != tt.wantPages {
				t.Errorf("total=%d pages=%d, want %d/%d", page.Total, page.TotalPages, tt.wantTotal, tt.wantPages)
			}
		})
	}
}

func TestListNews_InvalidQuery(t *testing.T) {
	env := newTestEnv(t)

	for _, q := range []string{"?sort=time:sideways", "?page=abc", "?from=yesterday", "?from=2024-03-01&to=2024-01-01"} {
		t.Run(q, func(t *testing.T) {
			rr := env.do(t, http.MethodGet, "/api/v1/news"+q, testAPIKey, "")
			assertError(t, rr, http.StatusBadRequest, CodeValidationFailed)
		})
	}
}

func TestGetNews(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, http.MethodGet, "/api/v1/news/1", testAPIKey, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("got %d: %s", rr.Code, rr.Body.String())
	}
	var d NewsDetailResponse
	decode(t, rr, &d)
	if d.News.Title != "Foo wins Acme deal" {
		t.Errorf("title = %q", d.News.Title)
	}
	if diff := cmp.Diff([]string{"Legal", "Credit"}, d.RiskTypes); diff != "" {
		t.Errorf("risk types (-want +got):\n%s", diff)
	}
	var names []string
	for _, c := range d.Companies {
		names = append(names, c.Name)
	}
	if diff := cmp.Diff([]string{"Foo Corp", "Acme Corp"}, names); diff != "" {
		t.Errorf("linked companies (-want +got):\n%s", diff)
	}

	assertError(t, env.do(t, http.MethodGet, "/api/v1/news/99", testAPIKey, ""), http.StatusNotFound, CodeNotFound)
	assertError(t, env.do(t, http.MethodGet, "/api/v1/news/abc", testAPIKey, ""),
		http.StatusBadRequest, CodeValidationFailed)
}

func TestNewsFacets(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, http.MethodGet, "/api/v1/news/facets/risklev", testAPIKey, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("got %d: %s", rr.Code, rr.Body.String())
	}
	var resp FacetsResponse
	decode(t, rr, &resp)
	var values []string
	for _, f := range resp.Values {
		values = append(values, f.Value)
	}
	if diff := cmp.Diff([]string{"None", "Low", "Medium", "High"}, values); diff != "" {
		t.Errorf("facet values (-want +got):\n%s", diff)
	}

	rr = env.do(t, http.MethodGet, "/api/v1/news/facets/bogus", testAPIKey, "")
	assertError(t, rr, http.StatusBadRequest, CodeValidationFailed)
}

func TestCompanyDetail_AndWatchlist(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)

	rr := env.do(t, http.MethodGet, "/api/v1/companies/Acme%20Corp", token, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("company: got %d: %s", rr.Code, rr.Body.String())
	}
	var d CompanyDetailResponse
	decode(t, rr, &d)
	if diff := cmp.Diff([]int{0, 1}, newsIDs(d.News)); diff != "" {
		t.Errorf("related news (-want +got):\n%s", diff)
	}
	if d.Watched {
		t.Error("company should not be watched yet")
	}

	rr = env.do(t, http.MethodPut, "/api/v1/watchlist/acme%20corp", token, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("watch: got %d: %s", rr.Code, rr.Body.String())
	}
	var added record.Company
	decode(t, rr, &added)
	if added.Name != "Acme Corp" {
		t.Errorf("watched name = %q, want canonical Acme Corp", added.Name)
	}

	rr = env.do(t, http.MethodGet, "/api/v1/watchlist", token, "")
	var page PageResponse[record.Company]
	decode(t, rr, &page)
	if page.Total != 1 || page.Items[0].Name != "Acme Corp" {
		t.Errorf("watchlist = %+v", page)
	}

	// other profiles see their own list
	rr = env.do(t, http.MethodGet, "/api/v1/watchlist", testAPIKey, "")
	decode(t, rr, &page)
	if page.Total != 0 {
		t.Errorf("api profile watchlist total = %d, want 0", page.Total)
	}

	rr = env.do(t, http.MethodGet, "/api/v1/companies/Acme%20Corp", token, "")
	decode(t, rr, &d)
	if !d.Watched {
		t.Error("company should be watched")
	}

	if rr = env.do(t, http.MethodDelete, "/api/v1/watchlist/Acme%20Corp", token, ""); rr.Code != http.StatusNoContent {
		t.Fatalf("unwatch: got %d", rr.Code)
	}
	assertError(t, env.do(t, http.MethodDelete, "/api/v1/watchlist/Acme%20Corp", token, ""),
		http.StatusNotFound, CodeNotFound)
	assertError(t, env.do(t, http.MethodPut, "/api/v1/watchlist/Nope", token, ""),
		http.StatusNotFound, CodeNotFound)
}

func TestSearch(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, http.MethodGet, "/api/v1/search?q=Acme", testAPIKey, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("got %d: %s", rr.Code, rr.Body.String())
	}
	var resp SearchResponse
	decode(t, rr, &resp)

	if len(resp.Companies) != 1 || resp.Companies[0].Title != "Acme Corp" || resp.Companies[0].Score != 4 {
		t.Errorf("companies = %+v", resp.Companies)
	}
	if resp.News.Total != 2 {
		t.Fatalf("news total = %d, want 2", resp.News.Total)
	}
	for i, wantID := range []int{0, 1} {
		item := resp.News.Items[i]
		if item.NewsID == nil || *item.NewsID != wantID || item.Score != 3 {
			t.Errorf("news[%d] = %+v, want id %d score 3", i, item, wantID)
		}
	}

	rr = env.do(t, http.MethodGet, "/api/v1/search?q=Acme&sort_by=date&order=asc", testAPIKey, "")
	decode(t, rr, &resp)
	if got := *resp.News.Items[0].NewsID; got != 1 {
		t.Errorf("oldest first: got id %d, want 1", got)
	}

	assertError(t, env.do(t, http.MethodGet, "/api/v1/search?q=x&sort_by=bogus", testAPIKey, ""),
		http.StatusBadRequest, CodeValidationFailed)
	assertError(t, env.do(t, http.MethodGet, "/api/v1/search?q=x&order=up", testAPIKey, ""),
		http.StatusBadRequest, CodeValidationFailed)
}

func TestPreferences_SetAppliesToViews(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)

	rr := env.do(t, http.MethodGet, "/api/v1/preferences", token, "")
	var prefs PreferencesResponse
	decode(t, rr, &prefs)
	if prefs.Display["news_table_page_size"] != 10 {
		t.Errorf("default news page size = %d", prefs.Display["news_table_page_size"])
	}

	rr = env.do(t, http.MethodPut, "/api/v1/preferences/news_table_page_size", token, `2`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("page size 2 should be rejected, got %d", rr.Code)
	}
	rr = env.do(t, http.MethodPut, "/api/v1/preferences/news_table_page_size", token, `20`)
	if rr.Code != http.StatusOK {
		t.Fatalf("set: got %d: %s", rr.Code, rr.Body.String())
	}
	decode(t, rr, &prefs)
	if prefs.Display["news_table_page_size"] != 20 {
		t.Errorf("news page size = %d, want 20", prefs.Display["news_table_page_size"])
	}

	rr = env.do(t, http.MethodGet, "/api/v1/news", token, "")
	var page PageResponse[record.News]
	decode(t, rr, &page)
	if page.PageSize != 20 {
		t.Errorf("news page size = %d, want 20 from preferences", page.PageSize)
	}

	// another profile keeps the default
	rr = env.do(t, http.MethodGet, "/api/v1/news", testAPIKey, "")
	decode(t, rr, &page)
	if page.PageSize != 10 {
		t.Errorf("api profile page size = %d, want 10", page.PageSize)
	}
}

func TestPreferences_Errors(t *testing.T) {
	env := newTestEnv(t)

	assertError(t, env.do(t, http.MethodPut, "/api/v1/preferences/colour", testAPIKey, `1`),
		http.StatusBadRequest, CodeInvalidPreference)
	assertError(t, env.do(t, http.MethodPut, "/api/v1/preferences/corp_sections", testAPIKey, `not json`),
		http.StatusBadRequest, CodeBadRequest)
	assertError(t, env.do(t, http.MethodPut, "/api/v1/preferences/corp_list_page_size", testAPIKey, `15`),
		http.StatusBadRequest, CodeInvalidPreference)
}

func TestPreferences_ResetSections(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, http.MethodPut, "/api/v1/preferences/news_sections", testAPIKey,
		`[{"id":"news_summary","label":"News Summary","enabled":false},
		  {"id":"risk_analysis","label":"Risk Analysis","enabled":true},
		  {"id":"opportunity_analysis","label":"Opportunity Analysis","enabled":true},
		  {"id":"sentiment_analysis","label":"Sentiment Analysis","enabled":true},
		  {"id":"other_sources","label":"Other Sources","enabled":true}]`)
	if rr.Code != http.StatusOK {
		t.Fatalf("set sections: got %d: %s", rr.Code, rr.Body.String())
	}
	var prefs PreferencesResponse
	decode(t, rr, &prefs)
	if prefs.NewsSections[0].ID != "news_summary" || prefs.NewsSections[0].Enabled {
		t.Errorf("sections not applied: %+v", prefs.NewsSections[0])
	}

	rr = env.do(t, http.MethodDelete, "/api/v1/preferences/news_sections", testAPIKey, "")
	decode(t, rr, &prefs)
	if prefs.NewsSections[0].ID != "risk_analysis" {
		t.Errorf("reset first section = %q, want risk_analysis", prefs.NewsSections[0].ID)
	}
}

func TestExportNews_CSV(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, http.MethodGet, "/api/v1/news/export?sort=time:asc&filter.risklev=High,Medium", testAPIKey, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("got %d: %s", rr.Code, rr.Body.String())
	}
	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("content type = %q", ct)
	}
	rows, err := csv.NewReader(rr.Body).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if diff := cmp.Diff(record.NewsColumns, rows[0]); diff != "" {
		t.Errorf("header (-want +got):\n%s", diff)
	}
	var titles []string
	for _, r := range rows[1:] {
		titles = append(titles, r[0])
	}
	if diff := cmp.Diff([]string{"Markets calm", "Foo wins Acme deal"}, titles); diff != "" {
		t.Errorf("rows (-want +got):\n%s", diff)
	}
}

func TestExportNews_SelectedIDsParquet(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, http.MethodGet, "/api/v1/news/export?format=parquet&ids=2,0", testAPIKey, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("got %d: %s", rr.Code, rr.Body.String())
	}
	body := rr.Body.Bytes()
	rows, err := parquet.Read[record.News](bytes.NewReader(body), int64(len(body)))
	if err != nil {
		t.Fatalf("read parquet: %v", err)
	}
	if diff := cmp.Diff([]int{2, 0}, newsIDs(rows)); diff != "" {
		t.Errorf("ids (-want +got):\n%s", diff)
	}
}

func TestExportCompanies_SelectedNames(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, http.MethodGet, "/api/v1/companies/export?name=Bar%20Ltd&name=acme%20corp", testAPIKey, "")
	rows, err := csv.NewReader(rr.Body).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(rows) != 3 || rows[1][0] != "Bar Ltd" || rows[2][0] != "Acme Corp" {
		t.Errorf("rows = %v", rows)
	}

	assertError(t, env.do(t, http.MethodGet, "/api/v1/companies/export?format=xml", testAPIKey, ""),
		http.StatusBadRequest, CodeValidationFailed)
}

func TestAnalyzeNews(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, http.MethodPost, "/api/v1/analysis/news/0?lang=zh", testAPIKey, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("got %d: %s", rr.Code, rr.Body.String())
	}
	if got := rr.Header().Get("X-Analysis-Tokens"); got != "42" {
		t.Errorf("X-Analysis-Tokens = %q, want 42", got)
	}
	var brief BriefResponse
	decode(t, rr, &brief)
	if brief.Key != "0" || brief.Language != "zh" || brief.Text != "Acme looks fine." {
		t.Errorf("brief = %+v", brief)
	}

	assertError(t, env.do(t, http.MethodPost, "/api/v1/analysis/news/7", testAPIKey, ""),
		http.StatusNotFound, CodeNotFound)
	assertError(t, env.do(t, http.MethodPost, "/api/v1/analysis/news/0?lang=fr", testAPIKey, ""),
		http.StatusBadRequest, CodeValidationFailed)
}

func TestAnalyzeCompany_ProviderError(t *testing.T) {
	env := newTestEnv(t)
	env.completer.err = errors.Join(domain.ErrAnalysisProvider, errors.New("boom"))

	rr := env.do(t, http.MethodPost, "/api/v1/analysis/companies/Acme%20Corp", testAPIKey, "")
	assertError(t, rr, http.StatusBadGateway, CodeAnalysisProvider)
}

func TestAnalyze_QuotaExceeded(t *testing.T) {
	env := newTestEnv(t)
	env.completer.err = domain.ErrAnalysisQuotaExceeded

	rr := env.do(t, http.MethodPost, "/api/v1/analysis/companies/Acme%20Corp", testAPIKey, "")
	assertError(t, rr, http.StatusPaymentRequired, CodeAnalysisQuota)
}

func TestAnalysisUsage_TracksBudget(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, http.MethodGet, "/api/v1/analysis/usage", testAPIKey, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("got %d: %s", rr.Code, rr.Body.String())
	}
	var before UsageResponse
	decode(t, rr, &before)
	if before.Period != "day" || !before.Enabled || before.Tokens != 0 || before.Budget.TokensLimit != testDailyBudget {
		t.Errorf("before = %+v", before)
	}

	// 42 tokens per brief against a budget of 100: the fourth call is rejected.
	for i := range 3 {
		if rr := env.do(t, http.MethodPost, "/api/v1/analysis/news/0", testAPIKey, ""); rr.Code != http.StatusOK {
			t.Fatalf("brief %d: got %d: %s", i, rr.Code, rr.Body.String())
		}
	}
	assertError(t, env.do(t, http.MethodPost, "/api/v1/analysis/news/0", testAPIKey, ""),
		http.StatusPaymentRequired, CodeAnalysisQuota)

	var after UsageResponse
	decode(t, env.do(t, http.MethodGet, "/api/v1/analysis/usage?period=day", testAPIKey, ""), &after)
	if after.Tokens != 126 || !after.Budget.IsExhausted || after.Budget.TokensRemaining != 0 {
		t.Errorf("after = %+v", after)
	}

	var month UsageResponse
	decode(t, env.do(t, http.MethodGet, "/api/v1/analysis/usage?period=month", testAPIKey, ""), &month)
	if month.Tokens != 126 || month.Budget.TokensLimit != 0 || month.Budget.TokensRemaining != -1 {
		t.Errorf("month = %+v", month)
	}

	assertError(t, env.do(t, http.MethodGet, "/api/v1/analysis/usage?period=year", testAPIKey, ""),
		http.StatusBadRequest, CodeValidationFailed)
}

func TestDatasets(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, http.MethodPost, "/api/v1/datasets/reload", testAPIKey, "")
	if rr.Code != http.StatusOK || env.datasets.loads != 1 {
		t.Fatalf("reload: got %d, loads %d", rr.Code, env.datasets.loads)
	}

	env.datasets.err = errors.New("fetch failed")
	rr = env.do(t, http.MethodPost, "/api/v1/datasets/reload", testAPIKey, "")
	assertError(t, rr, http.StatusBadGateway, CodeDatasetLoadFailed)

	rr = env.do(t, http.MethodGet, "/api/v1/datasets/status", testAPIKey, "")
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), `"news_rows":3`) {
		t.Errorf("status: %d %s", rr.Code, rr.Body.String())
	}
}

func TestRequiresAuth(t *testing.T) {
	env := newTestEnv(t)
	rr := env.do(t, http.MethodGet, "/api/v1/news", "", "")
	assertError(t, rr, http.StatusUnauthorized, CodeUnauthorized)
}
