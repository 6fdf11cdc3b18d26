package record

import "github.com/kailas-cloud/riskboard/internal/domain/level"

// Company CSV columns.
const (
	ColCompanyName        = "Company"
	ColOverallRisk        = "Overall Risk Level"
	ColCompanyRiskTypes   = "Risk Types"
	ColRiskSummary        = "Risk Summary"
	ColOverallOpportunity = "Overall Opportunity Level"
	ColCompanyOppTypes    = "Opportunity Types"
	ColOpportunitySummary = "Opportunity Summary"
)

// Short field ids used by the corp list views.
const (
	FieldCompany     = "company"
	FieldRisk        = "risk"
	FieldOpportunity = "opportunity"
)

// CompanyColumns is the export header order.
var CompanyColumns = []string{
	ColCompanyName, ColOverallRisk, ColCompanyRiskTypes, ColRiskSummary,
	ColOverallOpportunity, ColCompanyOppTypes, ColOpportunitySummary,
}

// Company is one row of the company file, identified by Name.
type Company struct {
	Name               string      `json:"company" parquet:"company"`
	RiskLevel          level.Level `json:"risk_level" parquet:"risk_level"`
	RiskTypes          string      `json:"risk_types" parquet:"risk_types"`
	RiskSummary        string      `json:"risk_summary" parquet:"risk_summary"`
	OppLevel           level.Level `json:"opportunity_level" parquet:"opportunity_level"`
	OppTypes           string      `json:"opportunity_types" parquet:"opportunity_types"`
	OpportunitySummary string      `json:"opportunity_summary" parquet:"opportunity_summary"`
}

// CompanyFromRecord builds a Company row, substituting defaults for missing fields.
func CompanyFromRecord(r Record) Company {
	return Company{
		Name:               r.Get(ColCompanyName),
		RiskLevel:          level.Parse(r.Get(ColOverallRisk)),
		RiskTypes:          r.Get(ColCompanyRiskTypes),
		RiskSummary:        r.Get(ColRiskSummary),
		OppLevel:           level.Parse(r.Get(ColOverallOpportunity)),
		OppTypes:           r.Get(ColCompanyOppTypes),
		OpportunitySummary: r.Get(ColOpportunitySummary),
	}
}

// Field returns the string value of a column by CSV header or short id.
func (c Company) Field(name string) string {
	switch name {
	case ColCompanyName, FieldCompany:
		return c.Name
	case ColOverallRisk, FieldRisk:
		return string(c.RiskLevel)
	case ColCompanyRiskTypes, FieldRiskTypes:
		return c.RiskTypes
	case ColRiskSummary:
		return c.RiskSummary
	case ColOverallOpportunity, FieldOpportunity:
		return string(c.OppLevel)
	case ColCompanyOppTypes, FieldOppTypes:
		return c.OppTypes
	case ColOpportunitySummary:
		return c.OpportunitySummary
	}
	return ""
}

// Row returns the values in CompanyColumns order.
func (c Company) Row() []string {
	out := make([]string, len(CompanyColumns))
	for i, col := range CompanyColumns {
		out[i] = c.Field(col)
	}
	return out
}

// RiskTypeList returns the parsed risk types.
func (c Company) RiskTypeList() []string { return ParseList(c.RiskTypes) }

// OppTypeList returns the parsed opportunity types.
func (c Company) OppTypeList() []string { return ParseList(c.OppTypes) }
