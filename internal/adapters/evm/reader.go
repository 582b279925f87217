package evm

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"

	"github.com/bft-labs/tplmigrate/internal/domain"
)

// TemplateReader implements ports.TemplateSource against the source contract.
type TemplateReader struct {
	contract *bind.BoundContract
}

// NewTemplateReader binds the template getter at address. Only the read
// side of caller is used.
func NewTemplateReader(address common.Address, caller bind.ContractCaller) *TemplateReader {
	return &TemplateReader{
		contract: bind.NewBoundContract(address, SourceABI, caller, nil, nil),
	}
}

// Template calls template(index) at the latest block.
func (r *TemplateReader) Template(ctx context.Context, index uint64) (domain.RawTemplate, error) {
	var out []any
	opts := &bind.CallOpts{Context: ctx}
	if err := r.contract.Call(opts, &out, templateMethod, new(big.Int).SetUint64(index)); err != nil {
		return domain.RawTemplate{}, classify(err)
	}
	return DecodeTemplate(out)
}
