package analysis

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/riskboard/internal/domain"
	"github.com/kailas-cloud/riskboard/internal/domain/record"
)

// Language selects the brief's output language.
type Language string

// Supported languages.
const (
	English Language = "en"
	Chinese Language = "zh"
)

// ParseLanguage parses s, defaulting to English when empty.
func ParseLanguage(s string) (Language, error) {
	switch Language(strings.ToLower(strings.TrimSpace(s))) {
	case "", English:
		return English, nil
	case Chinese:
		return Chinese, nil
	}
	return "", domain.NewFieldError("lang", "must be en or zh")
}

// DefaultSystemPrompt is the analyst persona installed with domain.NewSystemCompleter.
const DefaultSystemPrompt = "You are a credit and market risk analyst at a global bank. " +
	"Write concise, factual briefs for relationship managers. Do not invent figures."

// maxRelatedHeadlines bounds the headlines quoted in a company prompt.
const maxRelatedHeadlines = 5

func instruction(lang Language) string {
	if lang == Chinese {
		return "Respond in Traditional Chinese."
	}
	return "Respond in English."
}

func newsPrompt(n record.News, lang Language) string {
	var b strings.Builder
	b.WriteString("Analyze this news item and write a short risk and opportunity brief:\n\n")
	fmt.Fprintf(&b, "Title: %s\n", n.Title)
	fmt.Fprintf(&b, "Published: %s\n", orDash(n.Time))
	fmt.Fprintf(&b, "Source: %s (reputation %s)\n", orDash(n.Source), n.SourceLevel.Label())
	fmt.Fprintf(&b, "Companies: %s\n", orDash(strings.Join(n.CompanyList(), ", ")))
	fmt.Fprintf(&b, "Summary: %s\n", orDash(n.Summary))
	fmt.Fprintf(&b, "Risk level: %s; types: %s\n", n.RiskLevel, orDash(strings.Join(n.RiskTypeList(), ", ")))
	if n.RiskExplanation != "" {
		fmt.Fprintf(&b, "Risk rationale: %s\n", n.RiskExplanation)
	}
	fmt.Fprintf(&b, "Opportunity level: %s; types: %s\n", n.OppLevel, orDash(strings.Join(n.OppTypeList(), ", ")))
	if n.OppExplanation != "" {
		fmt.Fprintf(&b, "Opportunity rationale: %s\n", n.OppExplanation)
	}
	if n.SentimentLevel != "" {
		fmt.Fprintf(&b, "Sentiment: %s\n", n.SentimentLevel)
	}
	b.WriteString("\nStructure the brief as:\n")
	b.WriteString("1. Risk Assessment (60-100 words)\n")
	b.WriteString("2. Opportunity Assessment (60-100 words)\n")
	b.WriteString("3. What to Watch (2-3 bullet points)\n")
	b.WriteString(instruction(lang))
	return b.String()
}

func companyPrompt(c record.Company, related []record.News, lang Language) string {
	var b strings.Builder
	b.WriteString("Write a short counterparty brief for this company:\n\n")
	fmt.Fprintf(&b, "Company: %s\n", c.Name)
	fmt.Fprintf(&b, "Overall risk level: %s; types: %s\n", c.RiskLevel, orDash(strings.Join(record.ParseList(c.RiskTypes), ", ")))
	fmt.Fprintf(&b, "Risk summary: %s\n", orDash(c.RiskSummary))
	fmt.Fprintf(&b, "Overall opportunity level: %s; types: %s\n", c.OppLevel, orDash(strings.Join(record.ParseList(c.OppTypes), ", ")))
	fmt.Fprintf(&b, "Opportunity summary: %s\n", orDash(c.OpportunitySummary))
	if len(related) > 0 {
		b.WriteString("Recent headlines:\n")
		for _, n := range related[:min(len(related), maxRelatedHeadlines)] {
			fmt.Fprintf(&b, "- %s (%s, risk %s)\n", n.Title, orDash(n.Time), n.RiskLevel)
		}
	}
	b.WriteString("\nStructure the brief as:\n")
	b.WriteString("1. Credit and Operational Risk (80-120 words)\n")
	b.WriteString("2. Business Opportunities (80-120 words)\n")
	b.WriteString("3. Suggested Next Steps (2-3 bullet points)\n")
	b.WriteString(instruction(lang))
	return b.String()
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
