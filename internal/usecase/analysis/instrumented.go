package analysis

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/riskboard/internal/domain"
	"github.com/kailas-cloud/riskboard/internal/metrics"
)

// InstrumentedCompleter wraps a Completer with budget enforcement and logging. Transport metrics (duration, tokens) are
// recorded in transport/openai.
type InstrumentedCompleter struct {
	inner  domain.Completer
	model  string
	budget BudgetChecker
	logger *zap.Logger
}

// NewInstrumentedCompleter wraps a completer. budget may be nil.
func NewInstrumentedCompleter(
	inner domain.Completer, model string, budget BudgetChecker, logger *zap.Logger,
) *InstrumentedCompleter {
	return &InstrumentedCompleter{inner: inner, model: model, budget: budget, logger: logger}
}

// Complete checks budget, delegates to the inner completer, and records usage.
func (p *InstrumentedCompleter) Complete(
	ctx context.Context, req domain.CompletionRequest,
) (domain.CompletionResult, error) {
	if p.budget != nil {
		if err := p.budget.Check(ctx); err != nil {
			p.logger.Error("Analysis budget exceeded", zap.String("model", p.model), zap.Error(err))
			return domain.CompletionResult{}, fmt.Errorf("budget check: %w", err)
		}
	}

	start := time.Now()

	result, err := p.inner.Complete(ctx, req)

	duration := time.Since(start)

	if err != nil {
		p.logger.Error("Analysis request failed",
			zap.String("model", p.model),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return domain.CompletionResult{}, fmt.Errorf("complete: %w", err)
	}

	if p.budget != nil && result.TotalTokens() > 0 {
		p.budget.Record(int64(result.TotalTokens()))
		remaining := metrics.AnalysisBudgetTokensRemaining
		remaining.WithLabelValues("daily").Set(float64(p.budget.RemainingDaily()))
		remaining.WithLabelValues("monthly").Set(float64(p.budget.RemainingMonthly()))
	}

	p.logger.Debug("Analysis request completed",
		zap.String("model", p.model),
		zap.Duration("duration", duration),
		zap.Bool("cached", result.Cached),
		zap.Int("prompt_tokens", result.PromptTokens),
		zap.Int("completion_tokens", result.CompletionTokens),
	)

	return result, nil
}
