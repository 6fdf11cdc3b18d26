package health

import "context"

// DBPinger checks storage availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// DatasetChecker reports whether a dataset snapshot has been loaded.
type DatasetChecker interface {
	Ready(ctx context.Context) error
}
