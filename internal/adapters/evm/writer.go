package evm

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/bft-labs/tplmigrate/internal/domain"
	"github.com/bft-labs/tplmigrate/internal/ports"
)

// DefaultConfirmationPoll is how often the head block is checked while
// waiting for confirmations beyond the first.
const DefaultConfirmationPoll = 2 * time.Second

// Signer provides the identity used for simulation and submission.
type Signer interface {
	Address() common.Address
	Transactor(chainID *big.Int) (*bind.TransactOpts, error)
}

// TemplateWriter implements ports.TemplateSink against the target contract.
type TemplateWriter struct {
	backend   Backend
	address   common.Address
	contract  *bind.BoundContract
	from      common.Address
	opts      bind.TransactOpts
	overrides Overrides
	poll      time.Duration
}

// NewTemplateWriter binds addTemplateId at address. It queries the chain id
// once to build the transaction signer.
func NewTemplateWriter(ctx context.Context, backend Backend, address common.Address, signer Signer, overrides Overrides) (*TemplateWriter, error) {
	if err := overrides.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrConfiguration, err)
	}
	chainID, err := backend.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("query chain id: %w", classify(err))
	}
	opts, err := signer.Transactor(chainID)
	if err != nil {
		return nil, err
	}
	opts.GasLimit = overrides.GasLimit
	opts.GasPrice = overrides.GasPrice
	opts.GasFeeCap = overrides.MaxFeePerGas
	opts.GasTipCap = overrides.MaxPriorityFeePerGas

	return &TemplateWriter{
		backend:   backend,
		address:   address,
		contract:  bind.NewBoundContract(address, TargetABI, backend, backend, backend),
		from:      signer.Address(),
		opts:      *opts,
		overrides: overrides,
		poll:      DefaultConfirmationPoll,
	}, nil
}

// SetConfirmationPoll changes the head polling interval.
func (w *TemplateWriter) SetConfirmationPoll(d time.Duration) {
	if d > 0 {
		w.poll = d
	}
}

// Simulate runs addTemplateId through eth_call from the signer's address
// with the same gas and fee settings as the real transaction.
func (w *TemplateWriter) Simulate(ctx context.Context, call domain.Call) error {
	data, err := TargetABI.Pack(addTemplateMethod, call.Args()...)
	if err != nil {
		return fmt.Errorf("pack %s: %w", addTemplateMethod, err)
	}
	msg := ethereum.CallMsg{
		From:      w.from,
		To:        &w.address,
		Gas:       w.overrides.GasLimit,
		GasPrice:  w.overrides.GasPrice,
		GasFeeCap: w.overrides.MaxFeePerGas,
		GasTipCap: w.overrides.MaxPriorityFeePerGas,
		Data:      data,
	}
	if _, err := w.backend.CallContract(ctx, msg, nil); err != nil {
		return classify(err)
	}
	return nil
}

// Submit signs and sends addTemplateId.
func (w *TemplateWriter) Submit(ctx context.Context, call domain.Call) (ports.Submission, error) {
	opts := w.opts
	opts.Context = ctx
	tx, err := w.contract.Transact(&opts, addTemplateMethod, call.Args()...)
	if err != nil {
		return ports.Submission{}, classify(err)
	}
	return ports.Submission{Hash: tx.Hash().Hex(), Nonce: tx.Nonce(), Handle: tx}, nil
}

// WaitConfirmed waits for the receipt, rejects reverted transactions and then
// polls the head until the block is confirmations deep.
func (w *TemplateWriter) WaitConfirmed(ctx context.Context, sub ports.Submission, confirmations uint64) (ports.Confirmation, error) {
	tx, ok := sub.Handle.(*types.Transaction)
	if !ok {
		return ports.Confirmation{}, fmt.Errorf("submission %s carries no transaction", sub.Hash)
	}
	receipt, err := bind.WaitMined(ctx, w.backend, tx)
	if err != nil {
		return ports.Confirmation{}, fmt.Errorf("wait for %s: %w", sub.Hash, err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return ports.Confirmation{}, fmt.Errorf("transaction %s reverted in block %d", sub.Hash, receipt.BlockNumber)
	}

	conf := ports.Confirmation{BlockNumber: receipt.BlockNumber.Uint64(), GasUsed: receipt.GasUsed}
	if confirmations <= 1 {
		return conf, nil
	}

	target := conf.BlockNumber + confirmations - 1
	ticker := time.NewTicker(w.poll)
	defer ticker.Stop()
	for {
		head, err := w.backend.BlockNumber(ctx)
		if err != nil && !errors.Is(classify(err), domain.ErrTransient) {
			return ports.Confirmation{}, fmt.Errorf("query head for %s: %w", sub.Hash, err)
		}
		if err == nil && head >= target {
			return conf, nil
		}
		select {
		case <-ctx.Done():
			return ports.Confirmation{}, ctx.Err()
		case <-ticker.C:
		}
	}
}
