// Package preferences defines per-user display settings: page sizes per view
// and the ordered detail sections of the news and company pages.
package preferences

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/kailas-cloud/riskboard/internal/domain"
)

// PageSize is the number of rows on one page.
type PageSize int

// Allowed page sizes.
const (
	PageSize10 PageSize = 10
	PageSize20 PageSize = 20
	PageSize30 PageSize = 30
	PageSize50 PageSize = 50

	DefaultPageSize = PageSize10
)

var pageSizes = []PageSize{PageSize10, PageSize20, PageSize30, PageSize50}

// PageSizes returns the allowed page sizes in ascending order.
func PageSizes() []PageSize { return slices.Clone(pageSizes) }

// IsValid reports whether p is one of the allowed sizes.
func (p PageSize) IsValid() bool { return slices.Contains(pageSizes, p) }

// ParsePageSize parses and validates a page size.
func ParsePageSize(s string) (PageSize, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: page size %q is not a number", domain.ErrInvalidPreference, s)
	}
	p := PageSize(n)
	if !p.IsValid() {
		return 0, fmt.Errorf("%w: page size %d not in %v", domain.ErrInvalidPreference, n, pageSizes)
	}
	return p, nil
}

// View identifies a paginated screen.
type View string

// Paginated views.
const (
	ViewSearchResults View = "search_results"
	ViewNewsTable     View = "news_table"
	ViewCorpList      View = "corp_list"
)

// Views returns all paginated views.
func Views() []View { return []View{ViewSearchResults, ViewNewsTable, ViewCorpList} }

// Key names a settable preference.
type Key string

// Preference keys.
const (
	KeySearchResultsPageSize Key = "search_results_page_size"
	KeyNewsTablePageSize     Key = "news_table_page_size"
	KeyCorpListPageSize      Key = "corp_list_page_size"
	KeyNewsSections          Key = "news_sections"
	KeyCorpSections          Key = "corp_sections"
)

// Keys returns every preference key.
func Keys() []Key {
	return []Key{
		KeySearchResultsPageSize, KeyNewsTablePageSize, KeyCorpListPageSize,
		KeyNewsSections, KeyCorpSections,
	}
}

// ParseKey validates a preference key.
func ParseKey(s string) (Key, error) {
	k := Key(s)
	if !slices.Contains(Keys(), k) {
		return "", fmt.Errorf("%w: unknown key %q", domain.ErrInvalidPreference, s)
	}
	return k, nil
}

// PageSizeView returns the view a page-size key controls.
func (k Key) PageSizeView() (View, bool) {
	switch k {
	case KeySearchResultsPageSize:
		return ViewSearchResults, true
	case KeyNewsTablePageSize:
		return ViewNewsTable, true
	case KeyCorpListPageSize:
		return ViewCorpList, true
	}
	return "", false
}

// IsSections reports whether k holds a section list.
func (k Key) IsSections() bool { return k == KeyNewsSections || k == KeyCorpSections }

// Section is one toggleable block of a detail page.
type Section struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	Enabled bool   `json:"enabled"`
}

// Preferences is the full settings document of one profile.
type Preferences struct {
	pageSizes    map[View]PageSize
	newsSections []Section
	corpSections []Section
}

// DefaultNewsSections returns the default news detail sections.
func DefaultNewsSections() []Section {
	return []Section{
		{ID: "risk_analysis", Label: "Risk Analysis", Enabled: true},
		{ID: "opportunity_analysis", Label: "Opportunity Analysis", Enabled: true},
		{ID: "sentiment_analysis", Label: "Sentiment Analysis", Enabled: true},
		{ID: "news_summary", Label: "News Summary", Enabled: true},
		{ID: "other_sources", Label: "Other Sources", Enabled: true},
	}
}

// DefaultCorpSections returns the default company detail sections.
func DefaultCorpSections() []Section {
	return []Section{
		{ID: "risk_analysis", Label: "Risk Analysis", Enabled: true},
		{ID: "opportunity_analysis", Label: "Opportunity Analysis", Enabled: true},
		{ID: "sentiment_analysis", Label: "Sentiment Analysis", Enabled: true},
		{ID: "company_summary", Label: "Company Summary", Enabled: true},
		{ID: "network_analysis", Label: "Network Analysis", Enabled: true},
	}
}

// Defaults returns the settings used when nothing is stored.
func Defaults() Preferences {
	return Preferences{
		pageSizes: map[View]PageSize{
			ViewSearchResults: DefaultPageSize,
			ViewNewsTable:     DefaultPageSize,
			ViewCorpList:      DefaultPageSize,
		},
		newsSections: DefaultNewsSections(),
		corpSections: DefaultCorpSections(),
	}
}

// New builds Preferences from stored values, falling back to defaults for
// anything missing or invalid.
func New(pageSizes map[View]PageSize, newsSections, corpSections []Section) Preferences {
	p := Defaults()
	for v, size := range pageSizes {
		if _, ok := p.pageSizes[v]; ok && size.IsValid() {
			p.pageSizes[v] = size
		}
	}
	if validateSections(newsSections, DefaultNewsSections()) == nil {
		p.newsSections = slices.Clone(newsSections)
	}
	if validateSections(corpSections, DefaultCorpSections()) == nil {
		p.corpSections = slices.Clone(corpSections)
	}
	return p
}

// PageSize returns the page size of v, or the default for unknown views.
func (p Preferences) PageSize(v View) PageSize {
	if s, ok := p.pageSizes[v]; ok {
		return s
	}
	return DefaultPageSize
}

// PageSizes returns a copy of all page sizes.
func (p Preferences) PageSizes() map[View]PageSize {
	out := make(map[View]PageSize, len(p.pageSizes))
	for k, v := range p.pageSizes {
		out[k] = v
	}
	return out
}

// NewsSections returns the news detail sections in display order.
func (p Preferences) NewsSections() []Section { return slices.Clone(p.newsSections) }

// CorpSections returns the company detail sections in display order.
func (p Preferences) CorpSections() []Section { return slices.Clone(p.corpSections) }

// WithPageSize returns a copy with the page size of v replaced.
func (p Preferences) WithPageSize(v View, size PageSize) (Preferences, error) {
	if _, ok := p.pageSizes[v]; !ok {
		return p, fmt.Errorf("%w: unknown view %q", domain.ErrInvalidPreference, v)
	}
	if !size.IsValid() {
		return p, fmt.Errorf("%w: page size %d not in %v", domain.ErrInvalidPreference, size, pageSizes)
	}
	out := p.clone()
	out.pageSizes[v] = size
	return out, nil
}

// WithSections returns a copy with the section list of key replaced.
// The list must be a reordering of the known sections, each exactly once.
func (p Preferences) WithSections(key Key, sections []Section) (Preferences, error) {
	var defaults []Section
	switch key {
	case KeyNewsSections:
		defaults = DefaultNewsSections()
	case KeyCorpSections:
		defaults = DefaultCorpSections()
	default:
		return p, fmt.Errorf("%w: %q is not a section list", domain.ErrInvalidPreference, key)
	}
	if err := validateSections(sections, defaults); err != nil {
		return p, err
	}
	out := p.clone()
	if key == KeyNewsSections {
		out.newsSections = slices.Clone(sections)
	} else {
		out.corpSections = slices.Clone(sections)
	}
	return out, nil
}

// Reset returns a copy with key restored to its default value.
func (p Preferences) Reset(key Key) (Preferences, error) {
	out := p.clone()
	if v, ok := key.PageSizeView(); ok {
		out.pageSizes[v] = DefaultPageSize
		return out, nil
	}
	switch key {
	case KeyNewsSections:
		out.newsSections = DefaultNewsSections()
	case KeyCorpSections:
		out.corpSections = DefaultCorpSections()
	default:
		return p, fmt.Errorf("%w: unknown key %q", domain.ErrInvalidPreference, key)
	}
	return out, nil
}

func (p Preferences) clone() Preferences {
	return Preferences{
		pageSizes:    p.PageSizes(),
		newsSections: slices.Clone(p.newsSections),
		corpSections: slices.Clone(p.corpSections),
	}
}

func validateSections(sections, known []Section) error {
	if len(sections) != len(known) {
		return fmt.Errorf("%w: expected %d sections, got %d", domain.ErrInvalidPreference, len(known), len(sections))
	}
	labels := make(map[string]string, len(known))
	for _, s := range known {
		labels[s.ID] = s.Label
	}
	seen := make(map[string]struct{}, len(sections))
	for _, s := range sections {
		if _, ok := labels[s.ID]; !ok {
			return fmt.Errorf("%w: unknown section %q", domain.ErrInvalidPreference, s.ID)
		}
		if _, dup := seen[s.ID]; dup {
			return fmt.Errorf("%w: duplicate section %q", domain.ErrInvalidPreference, s.ID)
		}
		seen[s.ID] = struct{}{}
	}
	return nil
}
