// Package analysis generates LLM briefs for news items and companies.
package analysis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/riskboard/internal/domain"
	"github.com/kailas-cloud/riskboard/internal/domain/record"
	"github.com/kailas-cloud/riskboard/internal/domain/view"
	"github.com/kailas-cloud/riskboard/internal/metrics"
	"github.com/kailas-cloud/riskboard/internal/usecase/table"
)

// Subject is what a brief is about.
type Subject string

// Brief subjects.
const (
	SubjectNews    Subject = "news"
	SubjectCompany Subject = "company"
)

// Brief is a generated analysis text.
type Brief struct {
	Subject     Subject
	Key         string
	Language    Language
	Text        string
	Model       string
	Cached      bool
	GeneratedAt time.Time
}

// Service builds prompts from the current snapshot and asks the completer.
type Service struct {
	completer domain.Completer
	data      DatasetReader
	model     string
	now       func() time.Time
	logger    *zap.Logger
}

// New creates an analysis service. A nil completer disables analysis.
func New(completer domain.Completer, data DatasetReader, model string, logger *zap.Logger) *Service {
	return &Service{completer: completer, data: data, model: model, now: time.Now, logger: logger}
}

// Enabled reports whether a provider is configured.
func (s *Service) Enabled() bool { return s.completer != nil }

// NewsBrief analyzes the news row with file index id.
func (s *Service) NewsBrief(ctx context.Context, id int, lang Language) (Brief, error) {
	if !s.Enabled() {
		return Brief{}, domain.ErrAnalysisDisabled
	}
	n, ok := s.data.Snapshot().NewsByID(id)
	if !ok {
		return Brief{}, fmt.Errorf("news %d: %w", id, domain.ErrNotFound)
	}
	return s.generate(ctx, SubjectNews, strconv.Itoa(id), lang, newsPrompt(n, lang))
}

// CompanyBrief analyzes the named company together with its latest headlines.
func (s *Service) CompanyBrief(ctx context.Context, name string, lang Language) (Brief, error) {
	if !s.Enabled() {
		return Brief{}, domain.ErrAnalysisDisabled
	}
	snap := s.data.Snapshot()
	c, ok := snap.Company(name)
	if !ok {
		return Brief{}, fmt.Errorf("company %q: %w", name, domain.ErrNotFound)
	}
	sc, _ := view.NewSortConfig(view.SortEntry{Field: record.ColTime, Direction: view.Desc})
	related := table.Sort(snap.NewsAbout(c.Name), table.NewsSchema, sc)
	return s.generate(ctx, SubjectCompany, c.Name, lang, companyPrompt(c, related, lang))
}

func (s *Service) generate(ctx context.Context, subject Subject, key string, lang Language, prompt string) (Brief, error) {
	res, err := s.completer.Complete(ctx, domain.CompletionRequest{Prompt: prompt})
	if err != nil {
		metrics.AnalysisRequestsTotal.WithLabelValues(s.model, string(subject), "error").Inc()
		s.logger.Warn("brief generation failed",
			zap.String("subject", string(subject)),
			zap.String("key", key),
			zap.Error(err),
		)
		return Brief{}, fmt.Errorf("generate %s brief: %w", subject, err)
	}

	status := "success"
	if res.Cached {
		status = "cached"
	}
	metrics.AnalysisRequestsTotal.WithLabelValues(s.model, string(subject), status).Inc()
	domain.UsageFromContext(ctx).Record(res)

	model := res.Model
	if model == "" {
		model = s.model
	}
	return Brief{
		Subject:     subject,
		Key:         key,
		Language:    lang,
		Text:        res.Text,
		Model:       model,
		Cached:      res.Cached,
		GeneratedAt: s.now().UTC(),
	}, nil
}
