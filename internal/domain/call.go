package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"strings"
)

// Call holds the materialized arguments of one addTemplateId call.
// Args returns them in the contract's parameter order, which differs from
// the getter's field order.
type Call struct {
	Index       uint64
	ImageURL    string
	Description string
	Name        string
	Top         uint8
	Left        uint8
	Right       uint8
	Bottom      uint8
	Level       uint8
}

// Args returns the call arguments in addTemplateId parameter order:
// imageURL, description, name, top, left, right, bottom, level.
func (c Call) Args() []any {
	return []any{c.ImageURL, c.Description, c.Name, c.Top, c.Left, c.Right, c.Bottom, c.Level}
}

// NewCall validates the bounded fields of t and builds the call for index.
func NewCall(index uint64, t Template) (Call, error) {
	c := Call{
		Index:       index,
		ImageURL:    t.ImageURL,
		Description: t.Description,
		Name:        t.Name,
	}
	fields := []struct {
		name string
		v    json.Number
		dst  *uint8
	}{
		{"top", t.Top, &c.Top},
		{"left", t.Left, &c.Left},
		{"right", t.Right, &c.Right},
		{"bottom", t.Bottom, &c.Bottom},
		{"level", t.Level, &c.Level},
	}
	for _, f := range fields {
		v, err := ToUint8(f.name, f.v)
		if err != nil {
			return Call{}, err
		}
		*f.dst = v
	}
	return c, nil
}

// ToUint8 converts n to a uint8, rejecting values outside [0,255] and
// non-integral values. Integral decimals such as "7.0" are accepted; the
// check is exact, so "255.0000000000000001" is rejected.
func ToUint8(field string, n json.Number) (uint8, error) {
	r, ok := new(big.Rat).SetString(strings.TrimSpace(string(n)))
	if !ok || !r.IsInt() || r.Sign() < 0 || r.Num().Cmp(maxUint8) > 0 {
		return 0, fmt.Errorf("%w: %s must be uint8 (0..255), got %q", ErrValidation, field, string(n))
	}
	return uint8(r.Num().Uint64()), nil
}

var maxUint8 = big.NewInt(math.MaxUint8)
