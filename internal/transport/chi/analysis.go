package chi

import (
	"net/http"
	"strconv"

	"github.com/kailas-cloud/riskboard/internal/domain"
	domusage "github.com/kailas-cloud/riskboard/internal/domain/usage"
	analysisuc "github.com/kailas-cloud/riskboard/internal/usecase/analysis"
)

// AnalyzeNews handles POST /analysis/news/{id}?lang=en|zh.
func (s *Server) AnalyzeNews(w http.ResponseWriter, r *http.Request) {
	var id int
	if err := bindPath(r, "id", &id); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	lang, err := parseLanguage(r)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	if s.analysis == nil {
		s.handleDomainError(w, r, domain.ErrAnalysisDisabled)
		return
	}

	ctx, usage := domain.NewContextWithUsage(r.Context())
	brief, err := s.analysis.NewsBrief(ctx, id, lang)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	setAnalysisHeaders(w, usage)
	writeJSON(w, http.StatusOK, briefToResponse(brief))
}

// AnalyzeCompany handles POST /analysis/companies/{name}?lang=en|zh.
func (s *Server) AnalyzeCompany(w http.ResponseWriter, r *http.Request) {
	var name string
	if err := bindPath(r, "name", &name); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	lang, err := parseLanguage(r)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	if s.analysis == nil {
		s.handleDomainError(w, r, domain.ErrAnalysisDisabled)
		return
	}

	ctx, usage := domain.NewContextWithUsage(r.Context())
	brief, err := s.analysis.CompanyBrief(ctx, name, lang)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	setAnalysisHeaders(w, usage)
	writeJSON(w, http.StatusOK, briefToResponse(brief))
}

// AnalysisUsage handles GET /analysis/usage?period=day|month.
func (s *Server) AnalysisUsage(w http.ResponseWriter, r *http.Request) {
	var raw string
	if err := bindQuery(r.URL.Query(), "period", true, &raw); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	period, err := domusage.ParsePeriod(raw)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	report := s.usage.GetReport(r.Context(), period)
	writeJSON(w, http.StatusOK, usageToResponse(report, s.analysis != nil && s.analysis.Enabled()))
}

func parseLanguage(r *http.Request) (analysisuc.Language, error) {
	var raw string
	if err := bindQuery(r.URL.Query(), "lang", true, &raw); err != nil {
		return "", err
	}
	lang, err := analysisuc.ParseLanguage(raw)
	if err != nil {
		return "", err //nolint:wrapcheck // domain field error
	}
	return lang, nil
}

func setAnalysisHeaders(w http.ResponseWriter, usage *domain.AnalysisUsage) {
	if usage != nil && usage.Used {
		w.Header().Set("X-Analysis-Tokens", strconv.Itoa(usage.TotalTokens))
		w.Header().Set("X-Analysis-Cached", strconv.FormatBool(usage.Cached))
	}
}
