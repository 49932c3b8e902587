package document

import (
	"fmt"
	"slices"
	"time"

	"github.com/hupe1980/extjson/internal/conv"
)

// FromAny converts a Go value into a typed Value.
//
// This exists as an adapter layer for user input built from plain Go types.
// Narrow integers (int8, int16, int32, uint8, uint16) become Int32; int, int64,
// uint32 and uint64 become Int64. Map keys are sorted so the resulting
// document is deterministic.
func FromAny(v any) (Value, error) {
	switch x := v.(type) {
	case nil:
		return Null(), nil
	case Value:
		return x, nil
	case Document:
		return Value{Kind: KindDocument, D: x}, nil
	case Binary:
		return Bin(x), nil
	case ObjectID:
		return OID(x), nil
	case Kind:
		switch x {
		case KindMinKey:
			return MinKey(), nil
		case KindMaxKey:
			return MaxKey(), nil
		}
		return Value{}, fmt.Errorf("unsupported document kind %s", x)
	case time.Time:
		return Time(x), nil
	case bool:
		return Bool(x), nil
	case string:
		return String(x), nil
	case float64:
		return Double(x), nil
	case float32:
		return Double(float64(x)), nil
	case int:
		return Int64(int64(x)), nil
	case int8:
		return Int32(int32(x)), nil
	case int16:
		return Int32(int32(x)), nil
	case int32:
		return Int32(x), nil
	case int64:
		return Int64(x), nil
	case uint:
		i, err := conv.Uint64ToInt64(uint64(x))
		if err != nil {
			return Value{}, fmt.Errorf("document uint out of range: %w", err)
		}
		return Int64(i), nil
	case uint8:
		return Int32(int32(x)), nil
	case uint16:
		return Int32(int32(x)), nil
	case uint32:
		return Int64(int64(x)), nil
	case uint64:
		i, err := conv.Uint64ToInt64(x)
		if err != nil {
			return Value{}, fmt.Errorf("document uint64 out of range: %w", err)
		}
		return Int64(i), nil
	case []byte:
		return Bin(Binary{Subtype: SubtypeGeneric, Data: x}), nil
	case []Value:
		return Array(x...), nil
	case []any:
		arr := make([]Value, len(x))
		for i := range x {
			vv, err := FromAny(x[i])
			if err != nil {
				return Value{}, err
			}
			arr[i] = vv
		}
		return Array(arr...), nil
	case []string:
		arr := make([]Value, len(x))
		for i := range x {
			arr[i] = String(x[i])
		}
		return Array(arr...), nil
	case map[string]any:
		d, err := DocumentFromMap(x)
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: KindDocument, D: d}, nil
	default:
		return Value{}, fmt.Errorf("unsupported document value type %T", v)
	}
}

// DocumentFromMap converts a map[string]any to a Document with sorted keys.
func DocumentFromMap(m map[string]any) (Document, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	d := make(Document, 0, len(m))
	for _, k := range keys {
		vv, err := FromAny(m[k])
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", k, err)
		}
		d = append(d, Element{Key: k, Value: vv})
	}
	return d, nil
}
