package evm

import (
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"strings"

	"github.com/bft-labs/tplmigrate/internal/domain"
)

// templateFields lists the getter outputs in positional order.
var templateFields = []string{
	"imageURL", "name", "description", "jsonStorage",
	"level", "top", "left", "right", "bottom", "slot",
}

// DecodeTemplate maps a getter response to a RawTemplate. It accepts the
// positional form ([]any with ten values, as returned by BoundContract.Call)
// and the named form (map[string]any, as produced by UnpackIntoMap).
func DecodeTemplate(v any) (domain.RawTemplate, error) {
	var lookup func(i int) (any, error)

	switch r := v.(type) {
	case []any:
		if len(r) != len(templateFields) {
			return domain.RawTemplate{}, fmt.Errorf("decode template: want %d values, got %d", len(templateFields), len(r))
		}
		lookup = func(i int) (any, error) { return r[i], nil }
	case map[string]any:
		lookup = func(i int) (any, error) {
			val, ok := r[templateFields[i]]
			if !ok {
				return nil, fmt.Errorf("decode template: missing field %q", templateFields[i])
			}
			return val, nil
		}
	default:
		return domain.RawTemplate{}, fmt.Errorf("decode template: unsupported response shape %T", v)
	}

	var (
		t       domain.RawTemplate
		strs    = []*string{&t.ImageURL, &t.Name, &t.Description, &t.JSONStorage}
		nums    = []*uint8{&t.Level, &t.Top, &t.Left, &t.Right, &t.Bottom, &t.Slot}
		numBase = len(strs)
	)
	for i, dst := range strs {
		val, err := lookup(i)
		if err != nil {
			return domain.RawTemplate{}, err
		}
		s, ok := val.(string)
		if !ok {
			return domain.RawTemplate{}, fmt.Errorf("decode template: %s: want string, got %T", templateFields[i], val)
		}
		*dst = s
	}
	for i, dst := range nums {
		val, err := lookup(numBase + i)
		if err != nil {
			return domain.RawTemplate{}, err
		}
		n, err := toUint8(val)
		if err != nil {
			return domain.RawTemplate{}, fmt.Errorf("decode template: %s: %w", templateFields[numBase+i], err)
		}
		*dst = n
	}
	return t, nil
}

// toUint8 coerces native integers, integral floats, big integers and
// numeric strings to a uint8.
func toUint8(v any) (uint8, error) {
	b, err := toBig(v)
	if err != nil {
		return 0, err
	}
	if b.Sign() < 0 || b.Cmp(big.NewInt(math.MaxUint8)) > 0 {
		return 0, fmt.Errorf("value %s out of uint8 range", b)
	}
	return uint8(b.Uint64()), nil
}

func toBig(v any) (*big.Int, error) {
	switch n := v.(type) {
	case uint8:
		return new(big.Int).SetUint64(uint64(n)), nil
	case uint16:
		return new(big.Int).SetUint64(uint64(n)), nil
	case uint32:
		return new(big.Int).SetUint64(uint64(n)), nil
	case uint64:
		return new(big.Int).SetUint64(n), nil
	case uint:
		return new(big.Int).SetUint64(uint64(n)), nil
	case int8:
		return big.NewInt(int64(n)), nil
	case int16:
		return big.NewInt(int64(n)), nil
	case int32:
		return big.NewInt(int64(n)), nil
	case int64:
		return big.NewInt(n), nil
	case int:
		return big.NewInt(int64(n)), nil
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) {
			return nil, fmt.Errorf("non-integral value %v", n)
		}
		b, _ := big.NewFloat(n).Int(nil)
		return b, nil
	case *big.Int:
		if n == nil {
			return nil, fmt.Errorf("nil big integer")
		}
		return new(big.Int).Set(n), nil
	case big.Int:
		return new(big.Int).Set(&n), nil
	case json.Number:
		return parseBig(string(n))
	case string:
		return parseBig(n)
	default:
		return nil, fmt.Errorf("unsupported numeric type %T", v)
	}
}

func parseBig(s string) (*big.Int, error) {
	b, ok := new(big.Int).SetString(strings.TrimSpace(s), 0)
	if !ok {
		return nil, fmt.Errorf("invalid integer %q", s)
	}
	return b, nil
}
