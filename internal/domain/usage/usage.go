// Package usage describes analysis token consumption against the budget.
package usage

import (
	"fmt"
	"time"

	"github.com/kailas-cloud/riskboard/internal/domain"
)

// Period is the aggregation granularity.
type Period string

// Aggregation period constants.
const (
	PeriodDay   Period = "day"
	PeriodMonth Period = "month"
)

// ParsePeriod validates s. Empty means PeriodDay.
func ParsePeriod(s string) (Period, error) {
	switch Period(s) {
	case "":
		return PeriodDay, nil
	case PeriodDay, PeriodMonth:
		return Period(s), nil
	}
	return "", domain.NewFieldError("period", fmt.Sprintf("must be %q or %q", PeriodDay, PeriodMonth))
}

// Bounds returns the UTC period containing now as [start, end).
func (p Period) Bounds(now time.Time) (start, end time.Time) {
	now = now.UTC()
	if p == PeriodMonth {
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		return start, start.AddDate(0, 1, 0)
	}
	start = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 0, 1)
}

// Budget is the token cap state of one period. A zero limit is unlimited.
type Budget struct {
	tokensLimit     int64
	tokensRemaining int64
	isExhausted     bool
	resetsAt        time.Time
}

// NewBudget creates a Budget snapshot.
func NewBudget(limit, remaining int64, isExhausted bool, resetsAt time.Time) Budget {
	return Budget{
		tokensLimit:     limit,
		tokensRemaining: remaining,
		isExhausted:     isExhausted,
		resetsAt:        resetsAt,
	}
}

// TokensLimit returns the token cap, 0 when unlimited.
func (b Budget) TokensLimit() int64 { return b.tokensLimit }

// TokensRemaining returns tokens left, -1 when unlimited.
func (b Budget) TokensRemaining() int64 { return b.tokensRemaining }

// IsExhausted reports whether the budget is spent.
func (b Budget) IsExhausted() bool { return b.isExhausted }

// ResetsAt returns when the counters next reset.
func (b Budget) ResetsAt() time.Time { return b.resetsAt }

// Report is the analysis token usage of one period.
type Report struct {
	period      Period
	periodStart time.Time
	periodEnd   time.Time
	tokens      int64
	budget      Budget
}

// NewReport creates a usage report.
func NewReport(period Period, start, end time.Time, tokens int64, b Budget) Report {
	return Report{
		period:      period,
		periodStart: start,
		periodEnd:   end,
		tokens:      tokens,
		budget:      b,
	}
}

// Period returns the aggregation granularity.
func (r *Report) Period() Period { return r.period }

// PeriodStart returns the period start.
func (r *Report) PeriodStart() time.Time { return r.periodStart }

// PeriodEnd returns the period end (exclusive).
func (r *Report) PeriodEnd() time.Time { return r.periodEnd }

// Tokens returns the tokens consumed in the period.
func (r *Report) Tokens() int64 { return r.tokens }

// Budget returns the budget status.
func (r *Report) Budget() Budget { return r.budget }
