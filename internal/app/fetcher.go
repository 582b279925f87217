package app

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/bft-labs/tplmigrate/internal/domain"
	"github.com/bft-labs/tplmigrate/internal/ports"
)

// Fetch defaults.
const (
	DefaultBatchSize   = 10
	DefaultCallTimeout = 15 * time.Second
)

// FetcherConfig contains configuration for the fetch stage.
type FetcherConfig struct {
	// Contract is recorded in the output metadata.
	Contract string

	// BatchSize bounds the number of in-flight reads. Values below one mean one.
	BatchSize int

	// CallTimeout bounds each read. Zero disables the bound.
	CallTimeout time.Duration
}

// Fetcher reads a range of templates in sequential chunks of concurrent calls.
type Fetcher struct {
	config FetcherConfig
	source ports.TemplateSource
	logger ports.Logger
	now    func() time.Time
}

// NewFetcher creates a fetcher reading from source.
func NewFetcher(config FetcherConfig, source ports.TemplateSource, logger ports.Logger) *Fetcher {
	if config.BatchSize < 1 {
		config.BatchSize = 1
	}
	return &Fetcher{
		config: config,
		source: source,
		logger: logger,
		now:    time.Now,
	}
}

// Fetch reads every index in r. A failed read yields a nil entry for that
// index and never affects its siblings, so the dataset always has r.Len()
// items in ascending order. Fetch only returns an error when ctx is done.
func (f *Fetcher) Fetch(ctx context.Context, r domain.Range) (domain.FetchedDataset, error) {
	ds := domain.FetchedDataset{
		Meta: domain.FetchMeta{
			Contract: f.config.Contract,
			Start:    r.Start,
			End:      r.End,
		},
		Items: make([]domain.FetchedItem, 0, r.Len()),
	}

	f.logger.Info("fetching templates",
		ports.String("contract", f.config.Contract),
		ports.Uint64("start", r.Start),
		ports.Uint64("end", r.End),
		ports.Int("batch", f.config.BatchSize),
	)

	for _, chunk := range r.Chunks(f.config.BatchSize) {
		if err := ctx.Err(); err != nil {
			return ds, err
		}
		ds.Items = append(ds.Items, f.fetchChunk(ctx, chunk)...)
	}

	ds.Meta.FetchedAt = f.now().UTC()
	f.logger.Info("fetch complete",
		ports.Int("entries", len(ds.Items)),
		ports.Any("failed", ds.Failed()),
	)
	return ds, nil
}

// fetchChunk issues one call per index concurrently and waits for all of them.
func (f *Fetcher) fetchChunk(ctx context.Context, chunk []uint64) []domain.FetchedItem {
	items := make([]domain.FetchedItem, len(chunk))

	var g errgroup.Group
	for i, index := range chunk {
		g.Go(func() error {
			items[i] = domain.FetchedItem{Index: index, Data: f.fetchOne(ctx, index)}
			return nil
		})
	}
	_ = g.Wait()

	f.logger.Info("queried indexes",
		ports.Uint64("from", chunk[0]),
		ports.Uint64("to", chunk[len(chunk)-1]),
	)
	return items
}

func (f *Fetcher) fetchOne(ctx context.Context, index uint64) *domain.RawTemplate {
	if f.config.CallTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.config.CallTimeout)
		defer cancel()
	}
	t, err := f.source.Template(ctx, index)
	if err != nil {
		f.logger.Warn("failed to read index", ports.Uint64("index", index), ports.Err(err))
		return nil
	}
	return &t
}
