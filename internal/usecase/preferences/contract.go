package preferences

import (
	"context"

	domprefs "github.com/kailas-cloud/riskboard/internal/domain/preferences"
)

// Repository loads and saves one profile's preferences document.
type Repository interface {
	Load(ctx context.Context, profile string) (domprefs.Preferences, error)
	Save(ctx context.Context, profile string, p domprefs.Preferences) error
}
