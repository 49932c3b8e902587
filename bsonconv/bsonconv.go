// Package bsonconv converts between document values and the BSON types of the
// MongoDB Go driver, so documents read with the driver can be rendered as
// Extended JSON and decoded Extended JSON can be written back as BSON.
package bsonconv

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/hupe1980/extjson/document"
)

// ErrUnsupportedType is returned for BSON values with no document counterpart
// (decimal128, regular expressions, timestamps, JavaScript code, ...).
var ErrUnsupportedType = errors.New("bsonconv: unsupported type")

// FromBSON converts a value produced by the BSON driver into a document value.
//
// Documents may be primitive.D (order preserved) or primitive.M (keys
// sorted). Undefined decodes to Null.
func FromBSON(v any) (document.Value, error) {
	switch x := v.(type) {
	case nil, primitive.Null, primitive.Undefined:
		return document.Null(), nil
	case bool:
		return document.Bool(x), nil
	case int32:
		return document.Int32(x), nil
	case int64:
		return document.Int64(x), nil
	case int:
		return document.Int64(int64(x)), nil
	case float64:
		return document.Double(x), nil
	case string:
		return document.String(x), nil
	case primitive.ObjectID:
		return document.OID(document.ObjectID(x)), nil
	case primitive.Binary:
		return document.Bin(document.Binary{Subtype: x.Subtype, Data: x.Data}), nil
	case []byte:
		return document.Bin(document.Binary{Subtype: document.SubtypeGeneric, Data: x}), nil
	case primitive.DateTime:
		return document.DateTime(int64(x)), nil
	case time.Time:
		return document.Time(x), nil
	case primitive.MinKey:
		return document.MinKey(), nil
	case primitive.MaxKey:
		return document.MaxKey(), nil
	case primitive.D:
		d := make(document.Document, 0, len(x))
		for _, e := range x {
			ev, err := FromBSON(e.Value)
			if err != nil {
				return document.Value{}, fmt.Errorf("key %q: %w", e.Key, err)
			}
			d = append(d, document.E(e.Key, ev))
		}
		return document.Doc(d...), nil
	case primitive.M:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		d := make(document.Document, 0, len(x))
		for _, k := range keys {
			ev, err := FromBSON(x[k])
			if err != nil {
				return document.Value{}, fmt.Errorf("key %q: %w", k, err)
			}
			d = append(d, document.E(k, ev))
		}
		return document.Doc(d...), nil
	case primitive.A:
		return fromList(x)
	case []any:
		return fromList(x)
	default:
		return document.Value{}, fmt.Errorf("%w %T", ErrUnsupportedType, v)
	}
}

func fromList(items []any) (document.Value, error) {
	out := make([]document.Value, len(items))
	for i, item := range items {
		v, err := FromBSON(item)
		if err != nil {
			return document.Value{}, fmt.Errorf("index %d: %w", i, err)
		}
		out[i] = v
	}
	return document.Array(out...), nil
}

// ToBSON converts a document value into the driver's BSON types. Documents
// become primitive.D and arrays primitive.A. Absent members are dropped and
// absent array elements become null.
func ToBSON(v document.Value) (any, error) {
	switch v.Kind {
	case document.KindAbsent, document.KindNull:
		return nil, nil
	case document.KindBool:
		return v.B, nil
	case document.KindInt32:
		return int32(v.I64), nil
	case document.KindInt64:
		return v.I64, nil
	case document.KindDouble:
		return v.F64, nil
	case document.KindString:
		return v.S, nil
	case document.KindObjectID:
		return primitive.ObjectID(v.OID), nil
	case document.KindBinary:
		return primitive.Binary{Subtype: v.Sub, Data: v.Bin}, nil
	case document.KindDateTime:
		return primitive.DateTime(v.I64), nil
	case document.KindMinKey:
		return primitive.MinKey{}, nil
	case document.KindMaxKey:
		return primitive.MaxKey{}, nil
	case document.KindDocument:
		return toD(v.D)
	case document.KindArray:
		a := make(primitive.A, len(v.A))
		for i, item := range v.A {
			bv, err := ToBSON(item)
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i, err)
			}
			a[i] = bv
		}
		return a, nil
	default:
		return nil, fmt.Errorf("%w: document kind %s", ErrUnsupportedType, v.Kind)
	}
}

func toD(d document.Document) (primitive.D, error) {
	out := make(primitive.D, 0, len(d))
	for _, el := range d {
		if el.Value.IsAbsent() {
			continue
		}
		bv, err := ToBSON(el.Value)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", el.Key, err)
		}
		out = append(out, primitive.E{Key: el.Key, Value: bv})
	}
	return out, nil
}

// Marshal encodes a document as BSON bytes.
func Marshal(d document.Document) ([]byte, error) {
	bd, err := toD(d)
	if err != nil {
		return nil, err
	}
	return bson.Marshal(bd)
}

// Unmarshal decodes BSON bytes into a document, preserving key order.
func Unmarshal(data []byte) (document.Document, error) {
	var bd primitive.D
	if err := bson.Unmarshal(data, &bd); err != nil {
		return nil, err
	}
	v, err := FromBSON(bd)
	if err != nil {
		return nil, err
	}
	return v.D, nil
}
