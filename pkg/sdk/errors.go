package riskboard

import "github.com/kailas-cloud/riskboard/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrNotFound           = domain.ErrNotFound
	ErrInvalidQuery       = domain.ErrInvalidQuery
	ErrInvalidPreference  = domain.ErrInvalidPreference
	ErrDatasetUnavailable = domain.ErrDatasetUnavailable
)
