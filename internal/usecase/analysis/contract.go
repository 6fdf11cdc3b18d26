package analysis

import (
	"context"
	"time"

	"github.com/kailas-cloud/riskboard/internal/dataset"
)

// DatasetReader returns the current dataset snapshot.
type DatasetReader interface {
	Snapshot() *dataset.Snapshot
}

// BudgetChecker is the local interface for token budget enforcement.
type BudgetChecker interface {
	Check(ctx context.Context) error
	Record(tokens int64)
	RemainingDaily() int64
	RemainingMonthly() int64
}

// BudgetStore persists budget counters. Values are decimal token counts.
type BudgetStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}
