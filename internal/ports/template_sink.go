package ports

import (
	"context"

	"github.com/bft-labs/tplmigrate/internal/domain"
)

// TemplateSink replays addTemplateId calls against the target contract.
// Calls are issued one at a time by a single signing identity.
type TemplateSink interface {
	// Simulate executes the call read-only against current state.
	Simulate(ctx context.Context, call domain.Call) error

	// Submit signs and sends the call as a transaction.
	Submit(ctx context.Context, call domain.Call) (Submission, error)

	// WaitConfirmed blocks until the submission is mined with the given
	// number of confirmations. One means included in a block.
	WaitConfirmed(ctx context.Context, sub Submission, confirmations uint64) (Confirmation, error)
}

// Submission identifies a sent transaction.
type Submission struct {
	Hash  string
	Nonce uint64

	// Handle carries the adapter's native transaction value.
	Handle any
}

// Confirmation describes a mined transaction.
type Confirmation struct {
	BlockNumber uint64
	GasUsed     uint64
}
