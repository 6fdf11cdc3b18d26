package chi

import (
	"time"

	domprefs "github.com/kailas-cloud/riskboard/internal/domain/preferences"
	"github.com/kailas-cloud/riskboard/internal/domain/record"
	domusage "github.com/kailas-cloud/riskboard/internal/domain/usage"
	"github.com/kailas-cloud/riskboard/internal/domain/result"
	analysisuc "github.com/kailas-cloud/riskboard/internal/usecase/analysis"
	"github.com/kailas-cloud/riskboard/internal/usecase/browse"
	searchuc "github.com/kailas-cloud/riskboard/internal/usecase/search"
	"github.com/kailas-cloud/riskboard/internal/usecase/table"
)

// PageResponse is one page of a table plus the page links to render.
type PageResponse[T any] struct {
	Items      []T   `json:"items"`
	Total      int   `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
	Pages      []int `json:"pages"`
}

func pageToResponse[T, R any](p table.Page[T], conv func(T) R) PageResponse[R] {
	items := make([]R, len(p.Items))
	for i, it := range p.Items {
		items[i] = conv(it)
	}
	pages := table.Window(p.Page, p.TotalPages, table.DefaultWindow)
	if pages == nil {
		pages = []int{}
	}
	return PageResponse[R]{
		Items:      items,
		Total:      p.Total,
		Page:       p.Page,
		PageSize:   p.PageSize,
		TotalPages: p.TotalPages,
		Pages:      pages,
	}
}

func identity[T any](v T) T { return v }

// NewsDetailResponse is GET /news/{id}.
type NewsDetailResponse struct {
	News      record.News      `json:"news"`
	RiskTypes []string         `json:"risk_types"`
	OppTypes  []string         `json:"opportunity_types"`
	Companies []record.Company `json:"companies"`
}

func newsDetailToResponse(d browse.NewsDetail) NewsDetailResponse {
	return NewsDetailResponse{
		News:      d.News,
		RiskTypes: nonNil(d.RiskTypes),
		OppTypes:  nonNil(d.OppTypes),
		Companies: nonNil(d.Companies),
	}
}

// CompanyDetailResponse is GET /companies/{name}.
type CompanyDetailResponse struct {
	Company   record.Company `json:"company"`
	RiskTypes []string       `json:"risk_types"`
	OppTypes  []string       `json:"opportunity_types"`
	News      []record.News  `json:"news"`
	Watched   bool           `json:"watched"`
}

func companyDetailToResponse(d browse.CompanyDetail, watched bool) CompanyDetailResponse {
	return CompanyDetailResponse{
		Company:   d.Company,
		RiskTypes: nonNil(d.RiskTypes),
		OppTypes:  nonNil(d.OppTypes),
		News:      nonNil(d.News),
		Watched:   watched,
	}
}

// FacetsResponse is GET /{table}/facets/{field}.
type FacetsResponse struct {
	Field  string        `json:"field"`
	Values []table.Facet `json:"values"`
}

// SearchResultItem is one company or news hit.
type SearchResultItem struct {
	Kind      result.Kind `json:"kind"`
	Score     int         `json:"score"`
	Title     string      `json:"title"`
	Time      string      `json:"time,omitempty"`
	Company   string      `json:"company"`
	Summary   string      `json:"summary"`
	RiskLevel string      `json:"risk_level"`
	OppLevel  string      `json:"opportunity_level"`
	NewsID    *int        `json:"news_id,omitempty"`
}

func searchResultToResponse(r result.Result) SearchResultItem {
	item := SearchResultItem{
		Kind:      r.Kind(),
		Score:     r.Score(),
		Title:     r.Title(),
		Time:      r.Time(),
		Company:   r.Company(),
		Summary:   r.Summary(),
		RiskLevel: string(r.RiskLevel()),
		OppLevel:  string(r.OppLevel()),
	}
	if r.IsNews() {
		id := r.NewsIndex()
		item.NewsID = &id
	}
	return item
}

// SearchResponse is GET /search.
type SearchResponse struct {
	Query     string                         `json:"query"`
	Companies []SearchResultItem             `json:"companies"`
	News      PageResponse[SearchResultItem] `json:"news"`
}

func searchToResponse(r searchuc.Response) SearchResponse {
	companies := make([]SearchResultItem, len(r.Companies))
	for i, c := range r.Companies {
		companies[i] = searchResultToResponse(c)
	}
	return SearchResponse{
		Query:     r.Query,
		Companies: companies,
		News:      pageToResponse(r.News, searchResultToResponse),
	}
}

// PreferencesResponse mirrors the persisted preferences document.
type PreferencesResponse struct {
	Display      map[string]int     `json:"display"`
	NewsSections []domprefs.Section `json:"news_sections"`
	CorpSections []domprefs.Section `json:"corp_sections"`
}

func preferencesToResponse(p domprefs.Preferences) PreferencesResponse {
	display := make(map[string]int, len(domprefs.Views()))
	for _, k := range domprefs.Keys() {
		if v, ok := k.PageSizeView(); ok {
			display[string(k)] = int(p.PageSize(v))
		}
	}
	return PreferencesResponse{
		Display:      display,
		NewsSections: p.NewsSections(),
		CorpSections: p.CorpSections(),
	}
}

// LoginRequest is POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest is POST /auth/register.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// UserResponse describes the authenticated caller.
type UserResponse struct {
	Email     string `json:"email,omitempty"`
	Name      string `json:"name,omitempty"`
	ProfileID string `json:"profile_id"`
	APIKey    bool   `json:"api_key,omitempty"`
}

// SessionResponse is returned by a successful login.
type SessionResponse struct {
	Token     string       `json:"token"`
	TokenType string       `json:"token_type"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

// BriefResponse is POST /analysis/{subject}/{key}.
type BriefResponse struct {
	Subject     analysisuc.Subject  `json:"subject"`
	Key         string              `json:"key"`
	Language    analysisuc.Language `json:"language"`
	Text        string              `json:"text"`
	Model       string              `json:"model"`
	Cached      bool                `json:"cached"`
	GeneratedAt time.Time           `json:"generated_at"`
}

func briefToResponse(b analysisuc.Brief) BriefResponse {
	return BriefResponse{
		Subject:     b.Subject,
		Key:         b.Key,
		Language:    b.Language,
		Text:        b.Text,
		Model:       b.Model,
		Cached:      b.Cached,
		GeneratedAt: b.GeneratedAt,
	}
}

// UsageResponse is GET /analysis/usage.
type UsageResponse struct {
	Period      domusage.Period `json:"period"`
	PeriodStart time.Time       `json:"period_start"`
	PeriodEnd   time.Time       `json:"period_end"`
	Enabled     bool            `json:"enabled"`
	Tokens      int64           `json:"tokens"`
	Budget      BudgetResponse  `json:"budget"`
}

// BudgetResponse is the budget part of UsageResponse. TokensRemaining is
// -1 when unlimited.
type BudgetResponse struct {
	TokensLimit     int64     `json:"tokens_limit"`
	TokensRemaining int64     `json:"tokens_remaining"`
	IsExhausted     bool      `json:"is_exhausted"`
	ResetsAt        time.Time `json:"resets_at"`
}

func usageToResponse(r domusage.Report, enabled bool) UsageResponse {
	b := r.Budget()
	return UsageResponse{
		Period:      r.Period(),
		PeriodStart: r.PeriodStart(),
		PeriodEnd:   r.PeriodEnd(),
		Enabled:     enabled,
		Tokens:      r.Tokens(),
		Budget: BudgetResponse{
			TokensLimit:     b.TokensLimit(),
			TokensRemaining: b.TokensRemaining(),
			IsExhausted:     b.IsExhausted(),
			ResetsAt:        b.ResetsAt(),
		},
	}
}

// HealthResponse is GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
