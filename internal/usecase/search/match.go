package search

import (
	"strings"

	"github.com/kailas-cloud/riskboard/internal/domain/record"
	"github.com/kailas-cloud/riskboard/internal/domain/result"
)

// Weights are the per-field multipliers of the relevance score.
type Weights struct {
	Company int `yaml:"company"`
	Title   int `yaml:"title"`
	Summary int `yaml:"summary"`
}

// DefaultWeights rank a company name hit above a title hit above a summary hit.
var DefaultWeights = Weights{Company: 4, Title: 3, Summary: 2}

// orDefault fills non-positive weights from DefaultWeights.
func (w Weights) orDefault() Weights {
	if w.Company <= 0 {
		w.Company = DefaultWeights.Company
	}
	if w.Title <= 0 {
		w.Title = DefaultWeights.Title
	}
	if w.Summary <= 0 {
		w.Summary = DefaultWeights.Summary
	}
	return w
}

// Terms splits a query into lowercase whitespace-separated terms.
// Repeated terms are kept and count once per occurrence.
func Terms(query string) []string {
	return strings.Fields(strings.ToLower(query))
}

// Match scores companies and news against query. Companies come first in
// file order, then news in file order. A blank query matches nothing.
//
// A company is included when its name contains the whole lowercased query,
// surrounding spaces included; a news row when any term occurs in its title
// or summary.
func Match(query string, companies []record.Company, news []record.News, w Weights) []result.Result {
	w = w.orDefault()
	whole := strings.ToLower(query)
	terms := Terms(query)
	if len(terms) == 0 {
		return nil
	}

	var out []result.Result
	for _, c := range companies {
		name := strings.ToLower(c.Name)
		if !strings.Contains(name, whole) {
			continue
		}
		out = append(out, result.NewCompany(c, w.Company*hits(name, terms)))
	}
	for _, n := range news {
		title := strings.ToLower(n.Title)
		summary := strings.ToLower(n.Summary)
		th, sh := hits(title, terms), hits(summary, terms)
		if th == 0 && sh == 0 {
			continue
		}
		out = append(out, result.NewNews(n, n.ID, w.Title*th+w.Summary*sh))
	}
	return out
}

func hits(text string, terms []string) int {
	n := 0
	for _, t := range terms {
		if strings.Contains(text, t) {
			n++
		}
	}
	return n
}
