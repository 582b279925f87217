package app

import (
	"context"
	"fmt"

	"github.com/bft-labs/tplmigrate/internal/domain"
	"github.com/bft-labs/tplmigrate/internal/ports"
)

// RunFetch reads r through f and writes the fetch output file.
func RunFetch(ctx context.Context, f *Fetcher, repo ports.DatasetRepository, r domain.Range, outPath string) (domain.FetchedDataset, error) {
	ds, err := f.Fetch(ctx, r)
	if err != nil {
		return ds, err
	}
	if err := repo.SaveFetched(ctx, outPath, ds); err != nil {
		return ds, err
	}
	f.logger.Info("saved entries", ports.Int("entries", len(ds.Items)), ports.String("path", outPath))
	return ds, nil
}

// RunClean loads a fetch output file, normalizes it and writes the clean file.
func RunClean(ctx context.Context, repo ports.DatasetRepository, logger ports.Logger, inPath, outPath string) (domain.CleanDataset, error) {
	fetched, err := repo.LoadFetched(ctx, inPath)
	if err != nil {
		return domain.CleanDataset{}, err
	}
	clean := Normalize(fetched)
	if err := repo.SaveClean(ctx, outPath, clean); err != nil {
		return clean, err
	}
	logger.Info("saved cleaned JSON",
		ports.String("path", outPath),
		ports.Int("read", len(fetched.Items)),
		ports.Int("kept", len(clean.Items)),
	)
	return clean, nil
}

// Approver gates a live push run after the input is loaded and filtered. A
// non-nil error stops the run before any item is processed.
type Approver func(selected []domain.CleanItem) error

// SinkOpener connects the transaction sink of a live run.
type SinkOpener func(ctx context.Context) (ports.TemplateSink, error)

// RunPush loads a clean file and replays it under cfg. For live runs the
// input is loaded and approved before open is called, so input errors never
// reach the node. approve may be nil; open is not called for dry runs.
func RunPush(ctx context.Context, cfg PusherConfig, repo ports.DatasetRepository, logger ports.Logger, inPath string, approve Approver, open SinkOpener) (domain.RunSummary, error) {
	empty := domain.RunSummary{FailedIndexes: []uint64{}}
	ds, err := repo.LoadClean(ctx, inPath)
	if err != nil {
		return empty, err
	}

	var sink ports.TemplateSink
	if cfg.Live {
		if approve != nil {
			if err := approve(SelectItems(cfg.Filter, ds)); err != nil {
				return empty, err
			}
		}
		if open == nil {
			return empty, fmt.Errorf("%w: live mode requires a transaction sink", domain.ErrConfiguration)
		}
		if sink, err = open(ctx); err != nil {
			return empty, err
		}
	}
	return NewPusher(cfg, sink, logger).Run(ctx, ds)
}
