package app

import (
	"context"
	"fmt"
	"time"

	"github.com/bft-labs/tplmigrate/internal/domain"
	"github.com/bft-labs/tplmigrate/internal/ports"
)

// DefaultConfirmations is the confirmation depth awaited per transaction.
const DefaultConfirmations = 1

// PusherConfig contains configuration for the push stage.
type PusherConfig struct {
	// Filter restricts items by index, independent of their position.
	Filter domain.IndexFilter

	// Live sends transactions. When false nothing is sent or simulated.
	Live bool

	// ContinueOnError records item failures and moves on instead of aborting.
	ContinueOnError bool

	// Delay is the pause after each confirmed transaction.
	Delay time.Duration

	// Confirmations is the depth awaited per transaction. Zero means one.
	Confirmations uint64

	// SimulationRetries is the number of extra simulation attempts made on
	// transient RPC failures. Reverts and submissions are never retried.
	SimulationRetries int
}

// Pusher replays clean templates as addTemplateId transactions, one at a time.
type Pusher struct {
	config       PusherConfig
	sink         ports.TemplateSink
	logger       ports.Logger
	retryInitial time.Duration
}

// NewPusher creates a pusher. sink may be nil for dry runs.
func NewPusher(config PusherConfig, sink ports.TemplateSink, logger ports.Logger) *Pusher {
	if config.Confirmations == 0 {
		config.Confirmations = DefaultConfirmations
	}
	return &Pusher{
		config:       config,
		sink:         sink,
		logger:       logger,
		retryInitial: DefaultBackoffInitial,
	}
}

// Run processes ds in order. It always returns the summary of what happened;
// the error is non-nil when the run aborted on an item failure (wrapping
// domain.ErrAborted and the item's *domain.ItemError) or ctx ended.
func (p *Pusher) Run(ctx context.Context, ds domain.CleanDataset) (domain.RunSummary, error) {
	summary := domain.RunSummary{FailedIndexes: []uint64{}}
	if p.config.Live && p.sink == nil {
		return summary, fmt.Errorf("%w: live mode requires a transaction sink", domain.ErrConfiguration)
	}

	items := SelectItems(p.config.Filter, ds)
	p.logger.Info("loaded items", ports.Int("loaded", len(ds.Items)), ports.Int("selected", len(items)))
	if p.config.Live {
		p.logger.Warn("MODE: LIVE (sending transactions)")
	} else {
		p.logger.Info("MODE: DRY-RUN (no transactions will be sent)")
	}

	for _, it := range items {
		if it.Data == nil {
			p.logger.Warn("skipping item without data", ports.Uint64("index", it.Index))
			continue
		}

		sent, err := p.pushOne(ctx, it.Index, *it.Data)
		if err != nil {
			if abortErr := p.fail(&summary, it.Index, err); abortErr != nil {
				return summary, abortErr
			}
			continue
		}
		if !sent {
			continue
		}
		summary.SentCount++

		if p.config.Delay > 0 {
			if err := sleep(ctx, p.config.Delay); err != nil {
				return summary, err
			}
		}
	}

	p.logger.Info("push complete",
		ports.Int("sent", summary.SentCount),
		ports.Any("failed", summary.FailedIndexes),
	)
	return summary, nil
}

// pushOne validates, previews or sends a single template. sent reports
// whether a transaction was confirmed.
func (p *Pusher) pushOne(ctx context.Context, index uint64, t domain.Template) (sent bool, err error) {
	call, err := domain.NewCall(index, t)
	if err != nil {
		return false, err
	}

	if !p.config.Live {
		p.logger.Info("[DRY] addTemplateId", ports.Uint64("index", index), ports.Any("args", call.Args()))
		return false, nil
	}

	err = retryTransient(ctx, p.config.SimulationRetries, p.retryInitial,
		func(err error, wait time.Duration) {
			p.logger.Warn("simulation failed, retrying",
				ports.Uint64("index", index), ports.Duration("wait", wait), ports.Err(err))
		},
		func() error { return p.sink.Simulate(ctx, call) },
	)
	if err != nil {
		return false, fmt.Errorf("%w: %w", domain.ErrSimulation, err)
	}

	sub, err := p.sink.Submit(ctx, call)
	if err != nil {
		return false, fmt.Errorf("%w: send: %w", domain.ErrSubmission, err)
	}
	p.logger.Info("sent tx", ports.Uint64("index", index), ports.String("hash", sub.Hash), ports.Uint64("nonce", sub.Nonce))

	conf, err := p.sink.WaitConfirmed(ctx, sub, p.config.Confirmations)
	if err != nil {
		return false, fmt.Errorf("%w: confirm %s: %w", domain.ErrSubmission, sub.Hash, err)
	}
	p.logger.Info("mined",
		ports.Uint64("index", index),
		ports.Uint64("block", conf.BlockNumber),
		ports.Uint64("gas_used", conf.GasUsed),
	)
	return true, nil
}

// fail records the failure and returns a non-nil error when the run must stop.
func (p *Pusher) fail(summary *domain.RunSummary, index uint64, err error) error {
	summary.RecordFailure(index)
	itemErr := &domain.ItemError{Index: index, Err: err}
	p.logger.Error("item failed", ports.Uint64("index", index), ports.Err(err))

	if p.config.ContinueOnError {
		return nil
	}
	p.logger.Error("stopping due to failure (use --continue to skip failures)")
	return fmt.Errorf("%w: %w", domain.ErrAborted, itemErr)
}

// SelectItems returns the items of ds inside f, in dataset order.
func SelectItems(f domain.IndexFilter, ds domain.CleanDataset) []domain.CleanItem {
	items := make([]domain.CleanItem, 0, len(ds.Items))
	for _, it := range ds.Items {
		if f.Match(it.Index) {
			items = append(items, it)
		}
	}
	return items
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
