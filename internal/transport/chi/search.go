package chi

import (
	"net/http"

	"github.com/kailas-cloud/riskboard/internal/domain"
	"github.com/kailas-cloud/riskboard/internal/domain/view"
	searchuc "github.com/kailas-cloud/riskboard/internal/usecase/search"
)

// Search handles GET /search?q=&sort_by=relevance|date&order=asc|desc&page=&page_size=.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	req, err := parseSearchRequest(r)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	resp := s.search.Search(r.Context(), profileOf(r), req)
	writeJSON(w, http.StatusOK, searchToResponse(resp))
}

func parseSearchRequest(r *http.Request) (searchuc.Request, error) {
	q := r.URL.Query()
	var (
		req    searchuc.Request
		sortBy string
		order  string
	)
	if err := bindQuery(q, "q", true, &req.Query); err != nil {
		return searchuc.Request{}, err
	}
	if err := bindQuery(q, "sort_by", true, &sortBy); err != nil {
		return searchuc.Request{}, err
	}
	if err := bindQuery(q, "order", true, &order); err != nil {
		return searchuc.Request{}, err
	}
	if err := bindQuery(q, "page", true, &req.Page); err != nil {
		return searchuc.Request{}, err
	}
	if err := bindQuery(q, "page_size", true, &req.PageSize); err != nil {
		return searchuc.Request{}, err
	}

	by, err := searchuc.ParseOrderBy(sortBy)
	if err != nil {
		return searchuc.Request{}, err //nolint:wrapcheck // domain field error
	}
	req.By = by

	if order != "" {
		req.Direction = view.Direction(order)
		if !req.Direction.IsValid() {
			return searchuc.Request{}, domain.NewFieldError("order", "must be asc or desc")
		}
	}
	return req, nil
}
