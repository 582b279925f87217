package evm

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/params"
)

// Overrides carries optional gas and fee settings applied to both the
// simulation and the submitted transaction. Zero values mean "let the node decide".
type Overrides struct {
	GasLimit             uint64
	GasPrice             *big.Int
	MaxFeePerGas         *big.Int
	MaxPriorityFeePerGas *big.Int
}

// Validate rejects combinations the node would refuse.
func (o Overrides) Validate() error {
	if o.GasPrice != nil && (o.MaxFeePerGas != nil || o.MaxPriorityFeePerGas != nil) {
		return fmt.Errorf("gas-price cannot be combined with max-fee-per-gas or max-priority-fee-per-gas")
	}
	if o.MaxFeePerGas != nil && o.MaxPriorityFeePerGas != nil && o.MaxPriorityFeePerGas.Cmp(o.MaxFeePerGas) > 0 {
		return fmt.Errorf("max-priority-fee-per-gas exceeds max-fee-per-gas")
	}
	return nil
}

// ParseGwei converts a decimal gwei amount such as "1.5" to wei.
// An empty string yields nil.
func ParseGwei(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	r, ok := new(big.Rat).SetString(s)
	if !ok || r.Sign() < 0 {
		return nil, fmt.Errorf("invalid gwei amount %q", s)
	}
	r.Mul(r, new(big.Rat).SetInt64(params.GWei))
	if !r.IsInt() {
		return nil, fmt.Errorf("gwei amount %q has more than 9 decimals", s)
	}
	return new(big.Int).Set(r.Num()), nil
}
