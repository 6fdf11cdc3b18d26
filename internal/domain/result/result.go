// Package result defines the merged company/news hit returned by relevance search.
package result

import (
	"time"

	"github.com/kailas-cloud/riskboard/internal/domain/level"
	"github.com/kailas-cloud/riskboard/internal/domain/record"
)

// Kind tags the variant of a Result.
type Kind string

// Result kinds.
const (
	KindCompany Kind = "company"
	KindNews    Kind = "news"
)

// Result is a single search hit.
type Result struct {
	kind      Kind
	score     int
	title     string
	time      string
	company   string
	summary   string
	riskLevel level.Level
	oppLevel  level.Level
	newsIndex int
}

// NewCompany creates a company hit. Negative scores are clamped to zero.
func NewCompany(c record.Company, score int) Result {
	return Result{
		kind:      KindCompany,
		score:     max(score, 0),
		title:     c.Name,
		company:   c.Name,
		summary:   c.RiskSummary,
		riskLevel: c.RiskLevel,
		oppLevel:  c.OppLevel,
		newsIndex: -1,
	}
}

// NewNews creates a news hit pointing back at row index in the news table.
func NewNews(n record.News, index, score int) Result {
	return Result{
		kind:      KindNews,
		score:     max(score, 0),
		title:     n.Title,
		time:      n.Time,
		company:   n.Company,
		summary:   n.Summary,
		riskLevel: n.RiskLevel,
		oppLevel:  n.OppLevel,
		newsIndex: index,
	}
}

// Kind returns the variant tag.
func (r *Result) Kind() Kind { return r.kind }

// Score returns the relevance score.
func (r *Result) Score() int { return r.score }

// Title returns the display title (company name for company hits).
func (r *Result) Title() string { return r.title }

// Time returns the raw publication time; empty for company hits.
func (r *Result) Time() string { return r.time }

// Published parses Time.
func (r *Result) Published() (time.Time, bool) { return record.ParseTime(r.time) }

// Company returns the company name.
func (r *Result) Company() string { return r.company }

// Summary returns the display summary.
func (r *Result) Summary() string { return r.summary }

// RiskLevel returns the risk level.
func (r *Result) RiskLevel() level.Level { return r.riskLevel }

// OppLevel returns the opportunity level.
func (r *Result) OppLevel() level.Level { return r.oppLevel }

// NewsIndex returns the row index into the news table, or -1 for company hits.
func (r *Result) NewsIndex() int { return r.newsIndex }

// IsNews reports whether r is a news hit.
func (r *Result) IsNews() bool { return r.kind == KindNews }
