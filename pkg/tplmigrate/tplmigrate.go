package tplmigrate

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/bft-labs/tplmigrate/internal/adapters/evm"
	"github.com/bft-labs/tplmigrate/internal/adapters/fs"
	"github.com/bft-labs/tplmigrate/internal/app"
	"github.com/bft-labs/tplmigrate/internal/credential"
	"github.com/bft-labs/tplmigrate/internal/domain"
	"github.com/bft-labs/tplmigrate/internal/ports"
)

// Re-exported types so callers need not import internal packages.
type (
	Range          = domain.Range
	IndexFilter    = domain.IndexFilter
	FetchedDataset = domain.FetchedDataset
	CleanDataset   = domain.CleanDataset
	CleanItem      = domain.CleanItem
	Summary        = domain.RunSummary
	ItemError      = domain.ItemError

	// PushPolicy controls filtering, live mode and failure handling of Push.
	PushPolicy = app.PusherConfig
	// Overrides are optional gas settings in wei.
	Overrides = evm.Overrides

	Credential        = credential.Source
	RawSecret         = credential.RawSecret
	EncryptedKeystore = credential.EncryptedKeystore
)

// Error kinds, for use with errors.Is.
var (
	ErrConfiguration = domain.ErrConfiguration
	ErrIO            = domain.ErrIO
	ErrCredential    = domain.ErrCredential
	ErrValidation    = domain.ErrValidation
	ErrSimulation    = domain.ErrSimulation
	ErrSubmission    = domain.ErrSubmission
	ErrAborted       = domain.ErrAborted
	ErrTransient     = domain.ErrTransient
)

// ParseRange parses an inclusive index range.
func ParseRange(start, end string) (Range, error) {
	return domain.ParseRange(start, end)
}

// SelectCredential picks a credential from CLI-style inputs.
func SelectCredential(secret, keyfile, passphrase string) (Credential, error) {
	return credential.Select(secret, keyfile, passphrase)
}

// FetchConfig describes a fetch run.
type FetchConfig struct {
	RPC     string
	Address string
	Range   Range
	Output  string

	// BatchSize is the number of concurrent reads per chunk. Default 10.
	BatchSize int
	// CallTimeout bounds each read. Default 15s.
	CallTimeout time.Duration
}

// PushConfig describes a push run.
type PushConfig struct {
	RPC        string
	Address    string
	Input      string
	Credential Credential
	Policy     PushPolicy
	Overrides  Overrides

	// CallTimeout bounds each RPC request of a live run. Default 15s.
	CallTimeout time.Duration
}

// Migrator runs the fetch, clean and push stages.
type Migrator struct {
	opts options
	repo ports.DatasetRepository
}

// New creates a Migrator with the given options.
func New(opts ...Option) *Migrator {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Migrator{opts: o, repo: fs.NewDatasetFileRepository()}
}

// Fetch reads cfg.Range from the source contract and writes cfg.Output.
func (m *Migrator) Fetch(ctx context.Context, cfg FetchConfig) (FetchedDataset, error) {
	if !common.IsHexAddress(cfg.Address) {
		return FetchedDataset{}, fmt.Errorf("%w: address %q is not a hex address", ErrConfiguration, cfg.Address)
	}
	r, err := domain.NewRange(cfg.Range.Start, cfg.Range.End)
	if err != nil {
		return FetchedDataset{}, err
	}
	if cfg.CallTimeout <= 0 {
		cfg.CallTimeout = app.DefaultCallTimeout
	}

	client, err := evm.Dial(ctx, cfg.RPC, cfg.CallTimeout)
	if err != nil {
		return FetchedDataset{}, err
	}
	defer client.Close()

	address := common.HexToAddress(cfg.Address)
	f := app.NewFetcher(app.FetcherConfig{
		Contract:    address.Hex(),
		BatchSize:   cfg.BatchSize,
		CallTimeout: cfg.CallTimeout,
	}, evm.NewTemplateReader(address, client), m.opts.logger)

	return app.RunFetch(ctx, f, m.repo, r, cfg.Output)
}

// Clean reduces the fetch file at in to the push schema and writes out.
func (m *Migrator) Clean(ctx context.Context, in, out string) (CleanDataset, error) {
	return app.RunClean(ctx, m.repo, m.opts.logger, in, out)
}

// Push replays the clean file at cfg.Input against the target contract.
// The credential is resolved and the input loaded before anything else; the
// node is dialed only for approved live runs.
func (m *Migrator) Push(ctx context.Context, cfg PushConfig) (Summary, error) {
	empty := Summary{FailedIndexes: []uint64{}}
	if !common.IsHexAddress(cfg.Address) {
		return empty, fmt.Errorf("%w: address %q is not a hex address", ErrConfiguration, cfg.Address)
	}
	if cfg.CallTimeout <= 0 {
		cfg.CallTimeout = app.DefaultCallTimeout
	}

	id, err := credential.Resolve(cfg.Credential)
	if err != nil {
		return empty, err
	}
	signer := id.Address().Hex()
	m.opts.logger.Info("credentials loaded", ports.String("signer", signer))

	address := common.HexToAddress(cfg.Address)

	var closeClient func()
	defer func() {
		if closeClient != nil {
			closeClient()
		}
	}()
	open := func(ctx context.Context) (ports.TemplateSink, error) {
		client, err := evm.Dial(ctx, cfg.RPC, cfg.CallTimeout)
		if err != nil {
			return nil, err
		}
		closeClient = client.Close

		w, err := evm.NewTemplateWriter(ctx, client, address, id, cfg.Overrides)
		if err != nil {
			return nil, err
		}
		if m.opts.confirmationPoll > 0 {
			w.SetConfirmationPoll(m.opts.confirmationPoll)
		}
		return w, nil
	}

	var approve app.Approver
	if m.opts.approver != nil {
		approve = func(selected []CleanItem) error {
			return m.opts.approver(signer, address.Hex(), selected)
		}
	}
	return app.RunPush(ctx, cfg.Policy, m.repo, m.opts.logger, cfg.Input, approve, open)
}
