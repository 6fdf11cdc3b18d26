package domain

import "context"

type analysisUsageKey struct{}

// AnalysisUsage collects token usage for a single HTTP request.
// The handler puts a mutable pointer into the context before calling the service;
// the service writes after completion; the handler reads it for response headers.
type AnalysisUsage struct {
	TotalTokens int
	Cached      bool
	Used        bool
}

// NewContextWithUsage returns a context with an analysis usage collector.
func NewContextWithUsage(ctx context.Context) (context.Context, *AnalysisUsage) {
	u := &AnalysisUsage{}
	return context.WithValue(ctx, analysisUsageKey{}, u), u
}

// UsageFromContext extracts the usage collector from context. Returns nil if not set.
func UsageFromContext(ctx context.Context) *AnalysisUsage {
	u, _ := ctx.Value(analysisUsageKey{}).(*AnalysisUsage)
	return u
}

// Record stores the usage of one completion.
func (u *AnalysisUsage) Record(r CompletionResult) {
	if u != nil {
		u.TotalTokens += r.TotalTokens()
		u.Cached = u.Cached || r.Cached
		u.Used = true
	}
}
