package browse

import (
	"context"

	"github.com/kailas-cloud/riskboard/internal/dataset"
	domprefs "github.com/kailas-cloud/riskboard/internal/domain/preferences"
	"github.com/kailas-cloud/riskboard/internal/domain/record"
)

// DatasetReader returns the current dataset snapshot.
type DatasetReader interface {
	Snapshot() *dataset.Snapshot
}

// PageSizer resolves the stored page size for a view.
type PageSizer interface {
	PageSize(ctx context.Context, profile string, view domprefs.View) int
}

// WatchlistReader returns the companies a profile watches.
type WatchlistReader interface {
	Companies(ctx context.Context, profile string) ([]record.Company, error)
}
