package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	riskboard "github.com/kailas-cloud/riskboard/pkg/sdk"
)

const maxCell = 60

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	titleStyle  = lipgloss.NewStyle().Bold(true)
	mutedStyle  = lipgloss.NewStyle().Faint(true)
	levelStyles = map[riskboard.Level]lipgloss.Style{
		"High":   lipgloss.NewStyle().Foreground(lipgloss.Color("#D32F2F")),
		"Medium": lipgloss.NewStyle().Foreground(lipgloss.Color("#F9A825")),
		"Low":    lipgloss.NewStyle().Foreground(lipgloss.Color("#2E7D32")),
	}
)

// render writes v as JSON, or the text produced by text.
func (a *app) render(v any, text func() string) error {
	if a.output == "json" {
		enc := json.NewEncoder(a.out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	_, err := fmt.Fprintln(a.out, text())
	return err
}

func grid(headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...).
		Rows(rows...).
		String()
}

func level(l riskboard.Level) string {
	if s, ok := levelStyles[l]; ok {
		return s.Render(string(l))
	}
	return string(l)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func footer[T any](p riskboard.Page[T]) string {
	return mutedStyle.Render(fmt.Sprintf("page %d of %d, %d rows", p.Page, max(p.TotalPages, 1), p.Total))
}

func renderNewsPage(p riskboard.Page[riskboard.News]) string {
	rows := make([][]string, len(p.Items))
	for i, n := range p.Items {
		rows[i] = []string{
			strconv.Itoa(n.ID), n.Time, truncate(n.Title, maxCell), n.Company,
			level(n.RiskLevel), level(n.OppLevel), string(n.SourceLevel),
		}
	}
	return grid([]string{"ID", "Time", "Title", "Company", "Risk", "Opportunity", "Source"}, rows) + "\n" + footer(p)
}

func renderCompanyPage(p riskboard.Page[riskboard.Company]) string {
	rows := make([][]string, len(p.Items))
	for i, c := range p.Items {
		rows[i] = []string{c.Name, level(c.RiskLevel), level(c.OppLevel), truncate(c.RiskSummary, maxCell)}
	}
	return grid([]string{"Company", "Risk", "Opportunity", "Risk summary"}, rows) + "\n" + footer(p)
}

func renderNewsDetail(d riskboard.NewsDetail) string {
	n := d.News
	var b strings.Builder
	fmt.Fprintln(&b, titleStyle.Render(n.Title))
	fmt.Fprintf(&b, "%s  %s (%s)\n\n", n.Time, n.Source, n.SourceLevel.Label())
	if n.Summary != "" {
		fmt.Fprintf(&b, "%s\n\n", n.Summary)
	}
	fmt.Fprintf(&b, "Risk:        %s  %s\n", level(n.RiskLevel), strings.Join(d.RiskTypes, ", "))
	if n.RiskExplanation != "" {
		fmt.Fprintf(&b, "             %s\n", n.RiskExplanation)
	}
	fmt.Fprintf(&b, "Opportunity: %s  %s\n", level(n.OppLevel), strings.Join(d.OppTypes, ", "))
	if n.OppExplanation != "" {
		fmt.Fprintf(&b, "             %s\n", n.OppExplanation)
	}
	if len(d.Companies) > 0 {
		names := make([]string, len(d.Companies))
		for i, c := range d.Companies {
			names[i] = c.Name
		}
		fmt.Fprintf(&b, "Companies:   %s\n", strings.Join(names, ", "))
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderCompanyDetail(d riskboard.CompanyDetail) string {
	c := d.Company
	var b strings.Builder
	name := titleStyle.Render(c.Name)
	if d.Watched {
		name += mutedStyle.Render("  (watched)")
	}
	fmt.Fprintln(&b, name)
	fmt.Fprintf(&b, "Risk:        %s  %s\n", level(c.RiskLevel), strings.Join(d.RiskTypes, ", "))
	if c.RiskSummary != "" {
		fmt.Fprintf(&b, "             %s\n", c.RiskSummary)
	}
	fmt.Fprintf(&b, "Opportunity: %s  %s\n", level(c.OppLevel), strings.Join(d.OppTypes, ", "))
	if c.OpportunitySummary != "" {
		fmt.Fprintf(&b, "             %s\n", c.OpportunitySummary)
	}
	if len(d.News) > 0 {
		rows := make([][]string, len(d.News))
		for i, n := range d.News {
			rows[i] = []string{n.Time, truncate(n.Title, maxCell), level(n.RiskLevel), level(n.OppLevel)}
		}
		fmt.Fprintln(&b)
		b.WriteString(grid([]string{"Time", "Title", "Risk", "Opportunity"}, rows))
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderSearch(res riskboard.SearchResult) string {
	var b strings.Builder
	if len(res.Companies) == 0 && res.News.Total == 0 {
		return fmt.Sprintf("no results for %q", res.Query)
	}
	if len(res.Companies) > 0 {
		rows := make([][]string, len(res.Companies))
		for i, h := range res.Companies {
			rows[i] = []string{strconv.Itoa(h.Score), h.Title, level(h.RiskLevel), level(h.OppLevel)}
		}
		fmt.Fprintln(&b, titleStyle.Render("Companies"))
		fmt.Fprintln(&b, grid([]string{"Score", "Company", "Risk", "Opportunity"}, rows))
	}
	if res.News.Total > 0 {
		rows := make([][]string, len(res.News.Items))
		for i, h := range res.News.Items {
			rows[i] = []string{strconv.Itoa(h.Score), strconv.Itoa(h.NewsID), h.Time, truncate(h.Title, maxCell), level(h.RiskLevel)}
		}
		fmt.Fprintln(&b, titleStyle.Render("News"))
		fmt.Fprintln(&b, grid([]string{"Score", "ID", "Time", "Title", "Risk"}, rows))
		b.WriteString(footer(res.News))
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderFacets(field string, facets []riskboard.Facet) string {
	rows := make([][]string, len(facets))
	for i, f := range facets {
		rows[i] = []string{f.Value, strconv.Itoa(f.Count)}
	}
	return grid([]string{field, "Rows"}, rows)
}
