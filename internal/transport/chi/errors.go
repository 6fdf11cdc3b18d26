package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/riskboard/internal/domain"
)

// ErrorCode is the machine-readable error identifier in ErrorResponse.
type ErrorCode string

// Error codes.
const (
	CodeBadRequest         ErrorCode = "bad_request"
	CodeValidationFailed   ErrorCode = "validation_failed"
	CodeUnauthorized       ErrorCode = "unauthorized"
	CodeInvalidCredentials ErrorCode = "invalid_credentials"
	CodeNotFound           ErrorCode = "not_found"
	CodeAlreadyExists      ErrorCode = "already_exists"
	CodeInvalidPreference  ErrorCode = "invalid_preference"
	CodeDatasetUnavailable ErrorCode = "dataset_unavailable"
	CodeDatasetLoadFailed  ErrorCode = "dataset_load_failed"
	CodeAnalysisDisabled   ErrorCode = "analysis_disabled"
	CodeAnalysisQuota      ErrorCode = "analysis_quota_exceeded"
	CodeAnalysisProvider   ErrorCode = "analysis_provider_error"
	CodeUnsupportedFormat  ErrorCode = "unsupported_format"
	CodeInternalError      ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Field   string    `json:"field,omitempty"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

func defaultErrorHandlers() []errorHandler {
	return []errorHandler{
		fieldErrorHandler,
		sentinelHandler(domain.ErrInvalidQuery, http.StatusBadRequest, CodeValidationFailed),
		sentinelHandler(domain.ErrInvalidPreference, http.StatusBadRequest, CodeInvalidPreference),
		sentinelHandler(domain.ErrInvalidCredentials, http.StatusUnauthorized, CodeInvalidCredentials),
		sentinelHandler(domain.ErrUnauthorized, http.StatusUnauthorized, CodeUnauthorized),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, CodeNotFound),
		sentinelHandler(domain.ErrAlreadyExists, http.StatusConflict, CodeAlreadyExists),
		sentinelHandler(domain.ErrDatasetUnavailable, http.StatusServiceUnavailable, CodeDatasetUnavailable),
		sentinelHandler(domain.ErrAnalysisDisabled, http.StatusNotImplemented, CodeAnalysisDisabled),
		sentinelHandler(domain.ErrAnalysisQuotaExceeded, http.StatusPaymentRequired, CodeAnalysisQuota),
		sentinelHandler(domain.ErrAnalysisProvider, http.StatusBadGateway, CodeAnalysisProvider),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrInvalidQuery,
		domain.ErrInvalidPreference,
		domain.ErrInvalidCredentials,
		domain.ErrUnauthorized,
		domain.ErrNotFound,
		domain.ErrAlreadyExists,
		domain.ErrDatasetUnavailable,
		domain.ErrAnalysisDisabled,
		domain.ErrAnalysisQuotaExceeded,
		domain.ErrAnalysisProvider,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			// Validation errors carry user input only, so the full text is safe.
			if s == domain.ErrInvalidQuery || s == domain.ErrInvalidPreference {
				return err.Error()
			}
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// fieldErrorHandler reports the offending parameter of a domain.FieldError.
func fieldErrorHandler(w http.ResponseWriter, err error, msg string) bool {
	var fe *domain.FieldError
	if !errors.As(err, &fe) {
		return false
	}
	writeJSON(w, http.StatusBadRequest, ErrorResponse{
		Code:    CodeValidationFailed,
		Message: msg,
		Field:   fe.Field,
	})
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := s.logger.With(zap.String("request_id", chimw.GetReqID(r.Context())))
	log.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}
