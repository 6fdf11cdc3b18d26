package record

import (
	"time"

	"github.com/kailas-cloud/riskboard/internal/domain/level"
)

// News CSV columns.
const (
	ColTitle             = "title"
	ColTime              = "time"
	ColSource            = "source"
	ColSourceLevel       = "source_level"
	ColSourceReason      = "source_reason"
	ColCompany           = "company"
	ColSummary           = "summary"
	ColRiskLevel         = "risklev"
	ColRiskTypes         = "Risk Types"
	ColRiskExplanation   = "riskexp"
	ColOppLevel          = "opplev"
	ColOppTypes          = "Opportunity Types"
	ColOppExplanation    = "oppoexp"
	ColSentimentLevel    = "sentlev"
	ColSentimentReason   = "sentwhy"
	ColIsRepresentative  = "is_representative"
	ColDuplicateNewsInfo = "duplicate_news_info"
)

// Aliases accepted by Field so callers can use the short column ids the
// dashboard shows.
const (
	FieldRiskTypes = "risktye"
	FieldOppTypes  = "opptye"
)

// NewsColumns is the export header order.
var NewsColumns = []string{
	ColTitle, ColTime, ColSource, ColSourceLevel, ColSourceReason, ColCompany, ColSummary,
	ColRiskLevel, ColRiskTypes, ColRiskExplanation, ColOppLevel, ColOppTypes, ColOppExplanation,
	ColSentimentLevel, ColSentimentReason, ColIsRepresentative, ColDuplicateNewsInfo,
}

// News is one row of the news file. ID is the row index in the file.
type News struct {
	ID                int          `json:"id" parquet:"id"`
	Title             string       `json:"title" parquet:"title"`
	Time              string       `json:"time" parquet:"time"`
	Source            string       `json:"source" parquet:"source"`
	SourceLevel       level.Source `json:"source_level" parquet:"source_level"`
	SourceReason      string       `json:"source_reason" parquet:"source_reason"`
	Company           string       `json:"company" parquet:"company"`
	Summary           string       `json:"summary" parquet:"summary"`
	RiskLevel         level.Level  `json:"risklev" parquet:"risklev"`
	RiskTypes         string       `json:"risk_types" parquet:"risk_types"`
	RiskExplanation   string       `json:"riskexp" parquet:"riskexp"`
	OppLevel          level.Level  `json:"opplev" parquet:"opplev"`
	OppTypes          string       `json:"opportunity_types" parquet:"opportunity_types"`
	OppExplanation    string       `json:"oppoexp" parquet:"oppoexp"`
	SentimentLevel    string       `json:"sentlev" parquet:"sentlev"`
	SentimentReason   string       `json:"sentwhy" parquet:"sentwhy"`
	IsRepresentative  string       `json:"is_representative" parquet:"is_representative"`
	DuplicateNewsInfo string       `json:"duplicate_news_info" parquet:"duplicate_news_info"`
}

// NewsFromRecord builds a News row, substituting defaults for missing fields.
func NewsFromRecord(id int, r Record) News {
	return News{
		ID:                id,
		Title:             r.Get(ColTitle),
		Time:              r.Get(ColTime),
		Source:            r.Get(ColSource),
		SourceLevel:       level.ParseSource(r.Get(ColSourceLevel)),
		SourceReason:      r.Get(ColSourceReason),
		Company:           r.Get(ColCompany),
		Summary:           r.Get(ColSummary),
		RiskLevel:         level.Parse(r.Get(ColRiskLevel)),
		RiskTypes:         r.Get(ColRiskTypes),
		RiskExplanation:   r.Get(ColRiskExplanation),
		OppLevel:          level.Parse(r.Get(ColOppLevel)),
		OppTypes:          r.Get(ColOppTypes),
		OppExplanation:    r.Get(ColOppExplanation),
		SentimentLevel:    r.Get(ColSentimentLevel),
		SentimentReason:   r.Get(ColSentimentReason),
		IsRepresentative:  r.Get(ColIsRepresentative),
		DuplicateNewsInfo: r.Get(ColDuplicateNewsInfo),
	}
}

// Field returns the string value of a column by CSV header or alias.
func (n News) Field(name string) string {
	switch name {
	case ColTitle:
		return n.Title
	case ColTime:
		return n.Time
	case ColSource:
		return n.Source
	case ColSourceLevel:
		return string(n.SourceLevel)
	case ColSourceReason:
		return n.SourceReason
	case ColCompany:
		return n.Company
	case ColSummary:
		return n.Summary
	case ColRiskLevel:
		return string(n.RiskLevel)
	case ColRiskTypes, FieldRiskTypes:
		return n.RiskTypes
	case ColRiskExplanation:
		return n.RiskExplanation
	case ColOppLevel:
		return string(n.OppLevel)
	case ColOppTypes, FieldOppTypes:
		return n.OppTypes
	case ColOppExplanation:
		return n.OppExplanation
	case ColSentimentLevel:
		return n.SentimentLevel
	case ColSentimentReason:
		return n.SentimentReason
	case ColIsRepresentative:
		return n.IsRepresentative
	case ColDuplicateNewsInfo:
		return n.DuplicateNewsInfo
	}
	return ""
}

// Row returns the values in NewsColumns order.
func (n News) Row() []string {
	out := make([]string, len(NewsColumns))
	for i, c := range NewsColumns {
		out[i] = n.Field(c)
	}
	return out
}

// Published returns the parsed publication time.
func (n News) Published() (time.Time, bool) { return ParseTime(n.Time) }

// RiskTypeList returns the parsed risk types.
func (n News) RiskTypeList() []string { return ParseList(n.RiskTypes) }

// OppTypeList returns the parsed opportunity types.
func (n News) OppTypeList() []string { return ParseList(n.OppTypes) }

// CompanyList returns the companies mentioned by the row.
func (n News) CompanyList() []string { return ParseList(n.Company) }
