package ports

import (
	"context"

	"github.com/bft-labs/tplmigrate/internal/domain"
)

// DatasetRepository persists the interchange files between stages.
// Load failures and save failures wrap domain.ErrIO.
type DatasetRepository interface {
	LoadFetched(ctx context.Context, path string) (domain.FetchedDataset, error)
	SaveFetched(ctx context.Context, path string, ds domain.FetchedDataset) error
	LoadClean(ctx context.Context, path string) (domain.CleanDataset, error)
	SaveClean(ctx context.Context, path string, ds domain.CleanDataset) error
}
