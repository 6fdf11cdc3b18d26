package chi

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/kailas-cloud/riskboard/internal/domain/record"
)

// ListNews handles GET /news.
func (s *Server) ListNews(w http.ResponseWriter, r *http.Request) {
	q, err := parseViewQuery(r)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	page := s.browse.News(r.Context(), profileOf(r), q)
	writeJSON(w, http.StatusOK, pageToResponse(page, identity[record.News]))
}

// GetNews handles GET /news/{id}.
func (s *Server) GetNews(w http.ResponseWriter, r *http.Request) {
	var id int
	if err := bindPath(r, "id", &id); err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	detail, err := s.browse.NewsByID(id)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, newsDetailToResponse(detail))
}

// NewsFacets handles GET /news/facets/{field}.
func (s *Server) NewsFacets(w http.ResponseWriter, r *http.Request) {
	var field string
	if err := bindPath(r, "field", &field); err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	facets, err := s.browse.NewsFacets(field)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, FacetsResponse{Field: field, Values: nonNil(facets)})
}

// ExportNews handles GET /news/export. With ids only those rows are exported,
// otherwise every row matching the view query, unpaginated.
func (s *Server) ExportNews(w http.ResponseWriter, r *http.Request) {
	q, err := parseViewQuery(r)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	var rawFormat string
	if err := bindQuery(r.URL.Query(), "format", true, &rawFormat); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	format, err := parseExportFormat(rawFormat)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	var ids []int
	if err := bindQuery(r.URL.Query(), "ids", false, &ids); err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	rows := s.browse.ExportNews(q, ids)
	if err := writeExport(w, format, "news", record.NewsColumns, rows); err != nil {
		s.logger.Error("export news", zap.Error(err))
	}
}
