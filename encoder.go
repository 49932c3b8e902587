package extjson

import (
	"context"
	"encoding/base64"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"time"

	"github.com/hupe1980/extjson/document"
	"github.com/hupe1980/extjson/jsontree"
)

// Encoder converts document values and Go values into JSON trees.
//
// An Encoder is immutable after construction and safe for concurrent use.
type Encoder struct {
	opts options
}

// NewEncoder creates an Encoder. Without options it produces canonical
// Extended JSON (see ExtendedJSON).
func NewEncoder(optFns ...Option) *Encoder {
	o := applyOptions(optFns)
	o.logger = o.logger.WithStrategies(o.strategies)
	return &Encoder{opts: o}
}

// Strategies returns the encoder's strategy configuration.
func (e *Encoder) Strategies() Strategies { return e.opts.strategies }

// Encode converts a document value into a JSON tree.
//
// Either the complete tree or an error is returned, never both.
func (e *Encoder) Encode(v document.Value) (*jsontree.Node, error) {
	return e.run(func(s *encodeState) (*jsontree.Node, error) {
		return s.value(v)
	})
}

// EncodeAny converts an arbitrary Go value into a JSON tree.
//
// Supported inputs are document values, Marshaler implementations, booleans,
// integers, floats, strings, []byte, time.Time, slices, arrays, maps with
// string keys, structs and pointers to any of these. Struct fields are
// named by the `extjson` tag, falling back to the `json` tag:
//
//	type User struct {
//	    ID      document.ObjectID `extjson:"_id"`
//	    Created time.Time         `extjson:"created,format:millis"`
//	    Avatar  []byte            `extjson:"avatar,omitempty"`
//	    Manager *string           `extjson:"manager,format:null"`
//	}
//
// Nil pointers and interfaces in struct fields and maps are absent values and
// follow the KeyedNil strategy; everywhere else they encode as null.
func (e *Encoder) EncodeAny(v any) (*jsontree.Node, error) {
	return e.run(func(s *encodeState) (*jsontree.Node, error) {
		return s.reflectValue(reflect.ValueOf(v))
	})
}

// Marshal encodes v with EncodeAny and renders compact JSON text.
func (e *Encoder) Marshal(v any) ([]byte, error) {
	n, err := e.EncodeAny(v)
	if err != nil {
		return nil, err
	}
	return jsontree.Marshal(n)
}

// MarshalIndent is like Marshal but renders indented JSON text.
func (e *Encoder) MarshalIndent(v any, prefix, indent string) ([]byte, error) {
	n, err := e.EncodeAny(v)
	if err != nil {
		return nil, err
	}
	return jsontree.MarshalIndent(n, prefix, indent)
}

func (e *Encoder) run(fn func(s *encodeState) (*jsontree.Node, error)) (*jsontree.Node, error) {
	start := time.Now()
	s := &encodeState{
		strategies: e.opts.strategies,
		maxDepth:   e.opts.maxDepth,
	}
	n, err := fn(s)
	e.opts.metricsCollector.RecordEncode(time.Since(start), err)
	e.opts.logger.LogEncode(context.Background(), err)
	if err != nil {
		return nil, err
	}
	return n, nil
}

// encodeState is the per-call state of one encode. It is never shared.
type encodeState struct {
	strategies Strategies
	path       Path
	depth      int
	maxDepth   int
}

func (s *encodeState) fail(kind error, reason string, cause error) error {
	return newError("encode", s.path, kind, "", reason, cause)
}

func (s *encodeState) enter() error {
	s.depth++
	if s.depth > s.maxDepth {
		return s.fail(ErrMaxDepth, fmt.Sprintf("limit is %d", s.maxDepth), nil)
	}
	return nil
}

func (s *encodeState) leave() { s.depth-- }

func (s *encodeState) pushKey(k string) { s.path = append(s.path, PathElement{Key: k}) }

func (s *encodeState) pushIndex(i int) {
	s.path = append(s.path, PathElement{Index: i, IsIndex: true})
}

func (s *encodeState) pop() { s.path = s.path[:len(s.path)-1] }

// custom inserts the output of a user callback without inspecting it.
func (s *encodeState) custom(n *jsontree.Node, err error) (*jsontree.Node, error) {
	if err != nil {
		return nil, s.fail(ErrCallback, "", err)
	}
	if n == nil {
		return jsontree.Null(), nil
	}
	return n, nil
}

func (s *encodeState) value(v document.Value) (*jsontree.Node, error) {
	switch v.Kind {
	case document.KindAbsent, document.KindNull:
		return jsontree.Null(), nil
	case document.KindBool:
		return jsontree.Bool(v.B), nil
	case document.KindInt32:
		return jsontree.Int(v.I64), nil
	case document.KindInt64:
		return s.int64(v.I64), nil
	case document.KindDouble:
		return s.double(v.F64), nil
	case document.KindString:
		return jsontree.String(v.S), nil
	case document.KindArray:
		return s.array(v.A)
	case document.KindDocument:
		return s.document(v.D)
	case document.KindBinary:
		return s.binary(document.Binary{Subtype: v.Sub, Data: v.Bin})
	case document.KindObjectID:
		return s.objectID(v.OID), nil
	case document.KindDateTime:
		return s.dateTime(v.I64)
	case document.KindMinKey:
		return jsontree.Object(jsontree.M(KeyMinKey, jsontree.Int(1))), nil
	case document.KindMaxKey:
		return jsontree.Object(jsontree.M(KeyMaxKey, jsontree.Int(1))), nil
	default:
		return nil, s.fail(ErrUnsupportedValue, fmt.Sprintf("unknown document kind %d", v.Kind), nil)
	}
}

func (s *encodeState) array(items []document.Value) (*jsontree.Node, error) {
	if err := s.enter(); err != nil {
		return nil, err
	}
	defer s.leave()

	out := make([]*jsontree.Node, len(items))
	for i := range items {
		s.pushIndex(i)
		n, err := s.value(items[i])
		s.pop()
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return jsontree.Array(out...), nil
}

func (s *encodeState) document(d document.Document) (*jsontree.Node, error) {
	if err := s.enter(); err != nil {
		return nil, err
	}
	defer s.leave()

	members := make([]jsontree.Member, 0, len(d))
	for _, el := range d {
		if el.Value.IsAbsent() {
			if s.strategies.KeyedNil == KeyedNilNull {
				members = append(members, jsontree.M(el.Key, jsontree.Null()))
			}
			continue
		}
		s.pushKey(el.Key)
		n, err := s.value(el.Value)
		s.pop()
		if err != nil {
			return nil, err
		}
		members = append(members, jsontree.M(el.Key, n))
	}
	return jsontree.Object(members...), nil
}

func (s *encodeState) int64(i int64) *jsontree.Node {
	if s.strategies.Int64 == Int64Number {
		return jsontree.Int(i)
	}
	return jsontree.Object(jsontree.M(KeyNumberLong, jsontree.String(strconv.FormatInt(i, 10))))
}

func (s *encodeState) double(f float64) *jsontree.Node {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return jsontree.Object(jsontree.M(KeyNumberDouble, jsontree.String(formatNonFinite(f))))
	}
	return jsontree.Float(f)
}

func (s *encodeState) objectID(id document.ObjectID) *jsontree.Node {
	if s.strategies.ObjectID == ObjectIDHexString {
		return jsontree.String(id.Hex())
	}
	return jsontree.Object(jsontree.M(KeyOID, jsontree.String(id.Hex())))
}

func binaryWrapper(b document.Binary) *jsontree.Node {
	return jsontree.Object(
		jsontree.M(KeyBinary, jsontree.String(base64.StdEncoding.EncodeToString(b.Data))),
		jsontree.M(KeyType, jsontree.String(formatSubtype(b.Subtype))),
	)
}

func (s *encodeState) binary(b document.Binary) (*jsontree.Node, error) {
	st := s.strategies.Binary
	switch st.mode {
	case binaryBase64:
		return jsontree.String(base64.StdEncoding.EncodeToString(b.Data)), nil
	case binaryCustom:
		if st.encode == nil {
			return nil, s.fail(ErrUnsupportedValue, "custom binary strategy has no encode function", nil)
		}
		return s.custom(st.encode(b))
	default:
		return binaryWrapper(b), nil
	}
}

func (s *encodeState) bytes(data []byte) (*jsontree.Node, error) {
	st := s.strategies.Data
	switch st.mode {
	case dataBase64:
		return jsontree.String(base64.StdEncoding.EncodeToString(data)), nil
	case dataCustom:
		if st.encode == nil {
			return nil, s.fail(ErrUnsupportedValue, "custom data strategy has no encode function", nil)
		}
		return s.custom(st.encode(data))
	case dataDeferred:
		return s.binary(document.Binary{Subtype: document.SubtypeGeneric, Data: data})
	default:
		return binaryWrapper(document.Binary{Subtype: document.SubtypeGeneric, Data: data}), nil
	}
}

func (s *encodeState) dateTime(ms int64) (*jsontree.Node, error) {
	st := s.strategies.Date
	switch st.mode {
	case dateISO8601:
		text, ok := formatISO8601(ms)
		if !ok {
			return nil, s.fail(ErrUnsupportedValue, fmt.Sprintf("datetime %dms has no ISO8601 form", ms), nil)
		}
		return jsontree.String(text), nil
	case dateFormatted:
		return jsontree.String(time.UnixMilli(ms).UTC().Format(st.layout)), nil
	case dateCustom:
		if st.encode == nil {
			return nil, s.fail(ErrUnsupportedValue, "custom date strategy has no encode function", nil)
		}
		return s.custom(st.encode(time.UnixMilli(ms).UTC()))
	case dateMillis:
		return jsontree.Int(ms), nil
	case dateSeconds:
		if ms%1000 == 0 {
			return jsontree.Int(ms / 1000), nil
		}
		return jsontree.Float(float64(ms) / 1000), nil
	default:
		if text, ok := formatISO8601(ms); ok {
			return jsontree.Object(jsontree.M(KeyDate, jsontree.String(text))), nil
		}
		return jsontree.Object(jsontree.M(KeyDate,
			jsontree.Object(jsontree.M(KeyNumberLong, jsontree.String(strconv.FormatInt(ms, 10)))),
		)), nil
	}
}
