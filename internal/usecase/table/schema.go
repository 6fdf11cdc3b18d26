// Package table implements the sort, filter and paginate pipeline over
// in-memory CSV rows.
package table

import "github.com/kailas-cloud/riskboard/internal/domain/record"

// Kind selects how a column is compared and filtered.
type Kind int

// Column kinds.
const (
	KindText Kind = iota
	KindLevel
	KindSourceLevel
	KindDate
	KindList
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindLevel:
		return "level"
	case KindSourceLevel:
		return "source_level"
	case KindDate:
		return "date"
	case KindList:
		return "list"
	}
	return "unknown"
}

// Sortable reports whether columns of kind k take part in sorting.
func (k Kind) Sortable() bool { return k != KindList }

// Row is anything the pipeline can read a named value from.
type Row interface {
	Field(name string) string
}

// Column describes one addressable field of a row type.
type Column struct {
	Name string
	Kind Kind
	// Source is the field read for the value; Name when empty.
	Source string
	// Tiebreak is compared as text when two values of this column tie.
	Tiebreak string
}

func (c Column) source() string {
	if c.Source != "" {
		return c.Source
	}
	return c.Name
}

// Schema is the set of columns a table exposes to sort and filter.
type Schema struct {
	columns map[string]Column
	order   []string
	date    string
}

// NewSchema creates a schema. The first date column receives the FilterSet
// date range.
func NewSchema(cols ...Column) Schema {
	s := Schema{columns: make(map[string]Column, len(cols))}
	for _, c := range cols {
		if _, dup := s.columns[c.Name]; dup {
			continue
		}
		s.columns[c.Name] = c
		s.order = append(s.order, c.Name)
		if c.Kind == KindDate && s.date == "" {
			s.date = c.Name
		}
	}
	return s
}

// Column returns the column called name.
func (s Schema) Column(name string) (Column, bool) {
	c, ok := s.columns[name]
	return c, ok
}

// Columns returns the columns in declaration order.
func (s Schema) Columns() []Column {
	out := make([]Column, len(s.order))
	for i, n := range s.order {
		out[i] = s.columns[n]
	}
	return out
}

// DateColumn returns the column the date range applies to.
func (s Schema) DateColumn() (Column, bool) {
	if s.date == "" {
		return Column{}, false
	}
	return s.columns[s.date], true
}

// NewsSchema describes record.News.
var NewsSchema = NewSchema(
	Column{Name: record.ColTitle, Kind: KindText},
	Column{Name: record.ColTime, Kind: KindDate},
	Column{Name: record.ColSource, Kind: KindSourceLevel, Source: record.ColSourceLevel, Tiebreak: record.ColSource},
	Column{Name: record.ColSourceLevel, Kind: KindSourceLevel, Tiebreak: record.ColSource},
	Column{Name: record.ColCompany, Kind: KindText},
	Column{Name: record.ColSummary, Kind: KindText},
	Column{Name: record.ColRiskLevel, Kind: KindLevel},
	Column{Name: record.ColOppLevel, Kind: KindLevel},
	Column{Name: record.ColSentimentLevel, Kind: KindText},
	Column{Name: record.FieldRiskTypes, Kind: KindList},
	Column{Name: record.FieldOppTypes, Kind: KindList},
	Column{Name: record.ColRiskTypes, Kind: KindList},
	Column{Name: record.ColOppTypes, Kind: KindList},
)

// CompanySchema describes record.Company.
var CompanySchema = NewSchema(
	Column{Name: record.FieldCompany, Kind: KindText},
	Column{Name: record.ColCompanyName, Kind: KindText},
	Column{Name: record.FieldRisk, Kind: KindLevel},
	Column{Name: record.ColOverallRisk, Kind: KindLevel},
	Column{Name: record.FieldOpportunity, Kind: KindLevel},
	Column{Name: record.ColOverallOpportunity, Kind: KindLevel},
	Column{Name: record.FieldRiskTypes, Kind: KindList},
	Column{Name: record.FieldOppTypes, Kind: KindList},
	Column{Name: record.ColCompanyRiskTypes, Kind: KindList},
	Column{Name: record.ColCompanyOppTypes, Kind: KindList},
	Column{Name: record.ColRiskSummary, Kind: KindText},
	Column{Name: record.ColOpportunitySummary, Kind: KindText},
)
