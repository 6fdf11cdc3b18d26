// Package chi is the JSON HTTP API of riskboard, routed with go-chi.
package chi

import (
	"context"
	"encoding/json"
	"net/http"

	gochi "github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/riskboard/internal/dataset"
	analysisuc "github.com/kailas-cloud/riskboard/internal/usecase/analysis"
	authuc "github.com/kailas-cloud/riskboard/internal/usecase/auth"
	"github.com/kailas-cloud/riskboard/internal/usecase/browse"
	healthuc "github.com/kailas-cloud/riskboard/internal/usecase/health"
	prefsuc "github.com/kailas-cloud/riskboard/internal/usecase/preferences"
	searchuc "github.com/kailas-cloud/riskboard/internal/usecase/search"
	usageuc "github.com/kailas-cloud/riskboard/internal/usecase/usage"
	watchlistuc "github.com/kailas-cloud/riskboard/internal/usecase/watchlist"
)

const apiPrefix = "/api/v1"

// DatasetController reloads the dataset and reports its state.
type DatasetController interface {
	Load(ctx context.Context, trigger string) error
	Status() dataset.Status
}

// Services are the use cases served over HTTP. Analysis may be nil.
type Services struct {
	Auth        *authuc.Service
	Browse      *browse.Service
	Search      *searchuc.Service
	Preferences *prefsuc.Service
	Watchlist   *watchlistuc.Service
	Analysis    *analysisuc.Service
	Usage       *usageuc.Service
	Datasets    DatasetController
	Health      *healthuc.Service
}

// Server holds the HTTP handlers.
type Server struct {
	auth          *authuc.Service
	browse        *browse.Service
	search        *searchuc.Service
	prefs         *prefsuc.Service
	watchlist     *watchlistuc.Service
	analysis      *analysisuc.Service
	usage         *usageuc.Service
	datasets      DatasetController
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(svc Services, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if svc.Usage == nil {
		svc.Usage = usageuc.New(nil)
	}
	return &Server{
		auth:          svc.Auth,
		browse:        svc.Browse,
		search:        svc.Search,
		prefs:         svc.Preferences,
		watchlist:     svc.Watchlist,
		analysis:      svc.Analysis,
		usage:         svc.Usage,
		datasets:      svc.Datasets,
		health:        svc.Health,
		logger:        logger,
		errorHandlers: defaultErrorHandlers(),
	}
}

// Mount registers every route on r: /health and /metrics at the root, the
// API under /api/v1.
func (s *Server) Mount(r gochi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	r.Route(apiPrefix, func(r gochi.Router) {
		r.Post("/auth/login", s.Login)
		r.Post("/auth/register", s.Register)
		r.Post("/auth/logout", s.Logout)
		r.Get("/auth/me", s.Me)

		r.Get("/news", s.ListNews)
		r.Get("/news/export", s.ExportNews)
		r.Get("/news/facets/{field}", s.NewsFacets)
		r.Get("/news/{id}", s.GetNews)

		r.Get("/companies", s.ListCompanies)
		r.Get("/companies/export", s.ExportCompanies)
		r.Get("/companies/facets/{field}", s.CompanyFacets)
		r.Get("/companies/{name}", s.GetCompany)

		r.Get("/watchlist", s.ListWatchlist)
		r.Put("/watchlist/{name}", s.AddToWatchlist)
		r.Delete("/watchlist/{name}", s.RemoveFromWatchlist)

		r.Get("/search", s.Search)

		r.Get("/preferences", s.GetPreferences)
		r.Put("/preferences/{key}", s.SetPreference)
		r.Delete("/preferences/{key}", s.ResetPreference)

		r.Post("/analysis/news/{id}", s.AnalyzeNews)
		r.Post("/analysis/companies/{name}", s.AnalyzeCompany)
		r.Get("/analysis/usage", s.AnalysisUsage)

		r.Post("/datasets/reload", s.ReloadDatasets)
		r.Get("/datasets/status", s.DatasetStatus)
	})
}

// Handler returns a router serving every route behind BearerAuthMiddleware.
func (s *Server) Handler() http.Handler {
	r := gochi.NewRouter()
	r.Use(BearerAuthMiddleware(s.auth))
	s.Mount(r)
	return r
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// ReloadDatasets handles POST /datasets/reload.
func (s *Server) ReloadDatasets(w http.ResponseWriter, r *http.Request) {
	if err := s.datasets.Load(r.Context(), dataset.TriggerManual); err != nil {
		s.logger.Warn("manual dataset reload failed", zap.Error(err))
		writeError(w, http.StatusBadGateway, CodeDatasetLoadFailed, "dataset load failed; previous data kept")
		return
	}
	writeJSON(w, http.StatusOK, s.datasets.Status())
}

// DatasetStatus handles GET /datasets/status.
func (s *Server) DatasetStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.datasets.Status())
}

func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return err //nolint:wrapcheck // reported verbatim as bad_request
	}
	return nil
}
