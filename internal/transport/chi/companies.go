package chi

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/kailas-cloud/riskboard/internal/domain/record"
)

// ListCompanies handles GET /companies.
func (s *Server) ListCompanies(w http.ResponseWriter, r *http.Request) {
	q, err := parseViewQuery(r)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	page := s.browse.Companies(r.Context(), profileOf(r), q)
	writeJSON(w, http.StatusOK, pageToResponse(page, identity[record.Company]))
}

// GetCompany handles GET /companies/{name}.
func (s *Server) GetCompany(w http.ResponseWriter, r *http.Request) {
	var name string
	if err := bindPath(r, "name", &name); err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	detail, err := s.browse.Company(name)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	watched := false
	if s.watchlist != nil {
		watched, err = s.watchlist.IsWatched(r.Context(), profileOf(r), detail.Company.Name)
		if err != nil {
			s.handleDomainError(w, r, err)
			return
		}
	}

	writeJSON(w, http.StatusOK, companyDetailToResponse(detail, watched))
}

// CompanyFacets handles GET /companies/facets/{field}.
func (s *Server) CompanyFacets(w http.ResponseWriter, r *http.Request) {
	var field string
	if err := bindPath(r, "field", &field); err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	facets, err := s.browse.CompanyFacets(field)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, FacetsResponse{Field: field, Values: nonNil(facets)})
}

// ExportCompanies handles GET /companies/export. Selected companies are
// passed as repeated name parameters.
func (s *Server) ExportCompanies(w http.ResponseWriter, r *http.Request) {
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
	var names []string
	if err := bindQuery(r.URL.Query(), "name", true, &names); err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	rows := s.browse.ExportCompanies(q, names)
	if err := writeExport(w, format, "companies", record.CompanyColumns, rows); err != nil {
		s.logger.Error("export companies", zap.Error(err))
	}
}
