package riskboard

import (
	"time"

	"github.com/kailas-cloud/riskboard/internal/dataset"
	"github.com/kailas-cloud/riskboard/internal/domain/level"
	domprefs "github.com/kailas-cloud/riskboard/internal/domain/preferences"
	"github.com/kailas-cloud/riskboard/internal/domain/record"
	searchuc "github.com/kailas-cloud/riskboard/internal/usecase/search"
	"github.com/kailas-cloud/riskboard/internal/usecase/table"
)

// Row and value types shared with the engine.
type (
	News          = record.News
	Company       = record.Company
	Level         = level.Level
	Facet         = table.Facet
	Section       = domprefs.Section
	DatasetStatus = dataset.Status
	Weights       = searchuc.Weights
)

// Query is the view state of one table request.
type Query struct {
	Sort     []string            // "field:asc" or "field:desc", highest priority first
	Filters  map[string][]string // field → accepted values
	From, To time.Time           // inclusive date range; applies only when both are set
	Page     int                 // 1-based
	PageSize int                 // 0 uses the stored preference
}

// Page is one page of a table.
type Page[T any] struct {
	Items      []T
	Total      int
	Page       int
	PageSize   int
	TotalPages int
}

// NewsDetail is a news row with its parsed type lists and linked companies.
type NewsDetail struct {
	News      News
	RiskTypes []string
	OppTypes  []string
	Companies []Company
}

// CompanyDetail is a company with its parsed type lists and the news naming it.
type CompanyDetail struct {
	Company   Company
	RiskTypes []string
	OppTypes  []string
	News      []News
	Watched   bool
}

// SearchRequest is one search page request.
type SearchRequest struct {
	Query     string
	OrderBy   string // "relevance" (default) or "date"
	Direction string // "asc" or "desc" (default)
	Page      int
	PageSize  int // 0 uses the stored preference
}

// SearchHit is a single search result.
type SearchHit struct {
	Kind      string // "company" or "news"
	Score     int
	Title     string
	Time      string
	Company   string
	Summary   string
	RiskLevel Level
	OppLevel  Level
	NewsID    int // -1 for company hits
}

// SearchResult holds every company hit and one page of news hits.
type SearchResult struct {
	Query     string
	Companies []SearchHit
	News      Page[SearchHit]
}

// Preferences is the settings document of the client's profile.
type Preferences struct {
	PageSizes    map[string]int
	NewsSections []Section
	CorpSections []Section
}
