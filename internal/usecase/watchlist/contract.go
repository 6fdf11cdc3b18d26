package watchlist

import (
	"context"

	"github.com/kailas-cloud/riskboard/internal/dataset"
)

// Repository loads and saves one profile's watched company names.
type Repository interface {
	Load(ctx context.Context, profile string) ([]string, error)
	Save(ctx context.Context, profile string, names []string) error
}

// DatasetReader returns the current dataset snapshot.
type DatasetReader interface {
	Snapshot() *dataset.Snapshot
}
