// Package usage reports analysis token consumption.
package usage

import (
	"context"
	"time"

	domusage "github.com/kailas-cloud/riskboard/internal/domain/usage"
)

// Service handles usage reporting.
type Service struct {
	br  BudgetReader
	now func() time.Time
}

// New creates a Service. br can be nil (unlimited mode, no counters).
func New(br BudgetReader) *Service {
	return &Service{br: br, now: time.Now}
}

// GetReport builds a usage report for the given period.
func (s *Service) GetReport(_ context.Context, period domusage.Period) domusage.Report {
	start, end := period.Bounds(s.now())

	var limit, used, remaining int64
	if s.br != nil {
		switch period {
		case domusage.PeriodMonth:
			limit, used, remaining = s.br.MonthlyLimit(), s.br.MonthlyUsed(), s.br.RemainingMonthly()
		default:
			limit, used, remaining = s.br.DailyLimit(), s.br.DailyUsed(), s.br.RemainingDaily()
		}
	}
	if limit == 0 {
		remaining = -1
	}

	exhausted := limit > 0 && remaining <= 0
	b := domusage.NewBudget(limit, remaining, exhausted, end)
	return domusage.NewReport(period, start, end, used, b)
}
