package extjson

import (
	"context"
	"encoding/base64"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/hupe1980/extjson/document"
	"github.com/hupe1980/extjson/internal/conv"
	"github.com/hupe1980/extjson/jsontree"
)

// Decoder converts JSON trees into document values and Go values.
//
// Objects whose key set matches an Extended JSON wrapper always decode to the
// wrapped type, whatever strategies are configured; the strategies only
// matter for interpreting relaxed encodings under a Hint or a typed Go
// destination. A Decoder is immutable and safe for concurrent use.
type Decoder struct {
	opts options
}

// NewDecoder creates a Decoder. The strategies should match the ones the
// input was encoded with.
func NewDecoder(optFns ...Option) *Decoder {
	o := applyOptions(optFns)
	o.logger = o.logger.WithStrategies(o.strategies)
	return &Decoder{opts: o}
}

// Strategies returns the decoder's strategy configuration.
func (d *Decoder) Strategies() Strategies { return d.opts.strategies }

// Decode converts a JSON tree into a document value. hint may be nil.
//
// Numbers without fraction or exponent decode to Int32 when they fit, then
// Int64; all other numbers decode to Double. null decodes to Null.
func (d *Decoder) Decode(n *jsontree.Node, hint *Hint) (document.Value, error) {
	var v document.Value
	err := d.run(func(s *decodeState) error {
		var err error
		v, err = s.value(n, hint)
		return err
	})
	if err != nil {
		return document.Value{}, err
	}
	return v, nil
}

// DecodeInto decodes n into the value pointed to by out. The Go type of the
// destination acts as the hint. See Encoder.EncodeAny for the supported types
// and struct tags.
func (d *Decoder) DecodeInto(n *jsontree.Node, out any) error {
	return d.run(func(s *decodeState) error {
		return s.decodeInto(n, out)
	})
}

// Unmarshal parses JSON text and decodes it into out.
func (d *Decoder) Unmarshal(data []byte, out any) error {
	n, err := jsontree.Parse(data)
	if err != nil {
		d.opts.metricsCollector.RecordDecode(0, err)
		d.opts.logger.LogDecode(context.Background(), err)
		return err
	}
	return d.DecodeInto(n, out)
}

func (d *Decoder) run(fn func(s *decodeState) error) error {
	start := time.Now()
	s := &decodeState{
		strategies: d.opts.strategies,
		maxDepth:   d.opts.maxDepth,
	}
	err := fn(s)
	d.opts.metricsCollector.RecordDecode(time.Since(start), err)
	d.opts.logger.LogDecode(context.Background(), err)
	return err
}

// decodeState is the per-call state of one decode. It is never shared.
type decodeState struct {
	strategies Strategies
	path       Path
	depth      int
	maxDepth   int
}

func (s *decodeState) malformed(key, reason string, cause error) error {
	return newError("decode", s.path, ErrMalformedWrapper, key, reason, cause)
}

func (s *decodeState) mismatch(reason string, cause error) error {
	return newError("decode", s.path, ErrTypeMismatch, "", reason, cause)
}

func (s *decodeState) fail(kind error, reason string, cause error) error {
	return newError("decode", s.path, kind, "", reason, cause)
}

func (s *decodeState) enter() error {
	s.depth++
	if s.depth > s.maxDepth {
		return s.fail(ErrMaxDepth, fmt.Sprintf("limit is %d", s.maxDepth), nil)
	}
	return nil
}

func (s *decodeState) leave() { s.depth-- }

func (s *decodeState) pushKey(k string) { s.path = append(s.path, PathElement{Key: k}) }

func (s *decodeState) pushIndex(i int) {
	s.path = append(s.path, PathElement{Index: i, IsIndex: true})
}

func (s *decodeState) pop() { s.path = s.path[:len(s.path)-1] }

func isNull(n *jsontree.Node) bool { return n == nil || n.Kind == jsontree.KindNull }

func (s *decodeState) value(n *jsontree.Node, h *Hint) (document.Value, error) {
	if isNull(n) {
		return document.Null(), nil
	}
	want := h.kind()
	if v, ok, err := s.custom(n, want); ok {
		return v, err
	}

	var (
		v   document.Value
		err error
	)
	switch n.Kind {
	case jsontree.KindBool:
		v = document.Bool(n.Bool)
	case jsontree.KindString:
		return s.string(n, want)
	case jsontree.KindNumber:
		return s.number(n, want)
	case jsontree.KindArray:
		v, err = s.array(n, h)
	case jsontree.KindObject:
		v, err = s.object(n, h)
	default:
		return document.Value{}, s.mismatch(fmt.Sprintf("invalid node kind %d", n.Kind), nil)
	}
	if err != nil {
		return document.Value{}, err
	}
	switch {
	case want == document.KindAbsent || v.Kind == want:
		return v, nil
	case widens(v.Kind, want):
		return widen(v, want), nil
	default:
		return document.Value{}, s.mismatch(fmt.Sprintf("expected %s, got %s", want, v.Kind), nil)
	}
}

// widens reports whether a wrapper-decoded value of kind from may be widened
// to the hinted kind without loss.
func widens(from, to document.Kind) bool {
	switch to {
	case document.KindInt64:
		return from == document.KindInt32
	case document.KindDouble:
		return from == document.KindInt32
	default:
		return false
	}
}

func widen(v document.Value, to document.Kind) document.Value {
	if to == document.KindDouble {
		return document.Double(float64(v.I64))
	}
	return document.Int64(v.I64)
}

// custom runs a custom strategy's decode function when the hint asks for the
// kind it produces.
func (s *decodeState) custom(n *jsontree.Node, want document.Kind) (document.Value, bool, error) {
	switch want {
	case document.KindBinary:
		st := s.strategies.Binary
		if st.mode != binaryCustom || st.decode == nil {
			return document.Value{}, false, nil
		}
		b, err := st.decode(n)
		if err != nil {
			return document.Value{}, true, s.fail(ErrCallback, "", err)
		}
		return document.Bin(b), true, nil
	case document.KindDateTime:
		st := s.strategies.Date
		if st.mode != dateCustom || st.decode == nil {
			return document.Value{}, false, nil
		}
		t, err := st.decode(n)
		if err != nil {
			return document.Value{}, true, s.fail(ErrCallback, "", err)
		}
		return document.Time(t), true, nil
	default:
		return document.Value{}, false, nil
	}
}

func (s *decodeState) object(n *jsontree.Node, h *Hint) (document.Value, error) {
	for i := range wrapperShapes {
		if wrapperShapes[i].match(n) {
			return wrapperShapes[i].decode(s, n)
		}
	}

	if err := s.enter(); err != nil {
		return document.Value{}, err
	}
	defer s.leave()

	doc := make(document.Document, 0, len(n.Members))
	for _, m := range n.Members {
		s.pushKey(m.Key)
		v, err := s.value(m.Value, h.field(m.Key))
		s.pop()
		if err != nil {
			return document.Value{}, err
		}
		doc = append(doc, document.E(m.Key, v))
	}
	return document.Doc(doc...), nil
}

func (s *decodeState) array(n *jsontree.Node, h *Hint) (document.Value, error) {
	if err := s.enter(); err != nil {
		return document.Value{}, err
	}
	defer s.leave()

	items := make([]document.Value, len(n.Items))
	for i, item := range n.Items {
		s.pushIndex(i)
		v, err := s.value(item, h.item(i))
		s.pop()
		if err != nil {
			return document.Value{}, err
		}
		items[i] = v
	}
	return document.Array(items...), nil
}

func (s *decodeState) number(n *jsontree.Node, want document.Kind) (document.Value, error) {
	switch want {
	case document.KindAbsent:
		if n.IsIntegral() {
			if i, err := n.Int64(); err == nil {
				if i >= math.MinInt32 && i <= math.MaxInt32 {
					return document.Int32(int32(i)), nil
				}
				return document.Int64(i), nil
			}
		}
		f, err := s.float(n)
		if err != nil {
			return document.Value{}, err
		}
		return document.Double(f), nil
	case document.KindInt32:
		i, err := s.integral(n)
		if err != nil {
			return document.Value{}, err
		}
		i32, err := conv.Int64ToInt32(i)
		if err != nil {
			return document.Value{}, s.mismatch("", err)
		}
		return document.Int32(i32), nil
	case document.KindInt64:
		i, err := s.integral(n)
		if err != nil {
			return document.Value{}, err
		}
		return document.Int64(i), nil
	case document.KindDouble:
		f, err := s.float(n)
		if err != nil {
			return document.Value{}, err
		}
		return document.Double(f), nil
	case document.KindDateTime:
		switch s.strategies.Date.mode {
		case dateMillis:
			ms, err := s.integral(n)
			if err != nil {
				return document.Value{}, err
			}
			return document.DateTime(ms), nil
		case dateSeconds:
			f, err := s.float(n)
			if err != nil {
				return document.Value{}, err
			}
			ms, err := conv.Float64ToInt64(math.Round(f * 1000))
			if err != nil {
				return document.Value{}, s.mismatch("", err)
			}
			return document.DateTime(ms), nil
		default:
			return document.Value{}, s.mismatch(fmt.Sprintf("date strategy %s does not decode numbers", s.strategies.Date), nil)
		}
	default:
		return document.Value{}, s.mismatch(fmt.Sprintf("expected %s, got number", want), nil)
	}
}

// integral returns the integer value of a number node. Numbers written with a
// fraction or exponent are accepted if their value is integral.
func (s *decodeState) integral(n *jsontree.Node) (int64, error) {
	if n.IsIntegral() {
		i, err := n.Int64()
		if err != nil {
			return 0, s.mismatch(fmt.Sprintf("integer %s out of range", n.Num), nil)
		}
		return i, nil
	}
	f, err := s.float(n)
	if err != nil {
		return 0, err
	}
	i, err := conv.Float64ToInt64(f)
	if err != nil {
		return 0, s.mismatch("", err)
	}
	return i, nil
}

func (s *decodeState) float(n *jsontree.Node) (float64, error) {
	f, err := n.Float64()
	if err != nil {
		return 0, s.mismatch(fmt.Sprintf("number %s out of range", n.Num), nil)
	}
	return f, nil
}

func (s *decodeState) string(n *jsontree.Node, want document.Kind) (document.Value, error) {
	switch want {
	case document.KindAbsent, document.KindString:
		return document.String(n.Str), nil
	case document.KindDateTime:
		st := s.strategies.Date
		switch st.mode {
		case dateFormatted:
			t, err := time.Parse(st.layout, n.Str)
			if err != nil {
				return document.Value{}, s.mismatch("", err)
			}
			return document.Time(t), nil
		case dateExtendedJSON, dateISO8601:
			ms, err := parseISO8601(n.Str)
			if err != nil {
				return document.Value{}, s.mismatch("", err)
			}
			return document.DateTime(ms), nil
		default:
			return document.Value{}, s.mismatch(fmt.Sprintf("date strategy %s does not decode strings", st), nil)
		}
	case document.KindObjectID:
		id, err := document.ObjectIDFromHex(n.Str)
		if err != nil {
			return document.Value{}, s.mismatch("", err)
		}
		return document.OID(id), nil
	case document.KindBinary:
		data, err := base64.StdEncoding.DecodeString(n.Str)
		if err != nil {
			return document.Value{}, s.mismatch("invalid base64", err)
		}
		return document.Bin(document.Binary{Subtype: document.SubtypeGeneric, Data: data}), nil
	case document.KindInt64:
		// Some producers quote large integers.
		i, err := strconv.ParseInt(n.Str, 10, 64)
		if err != nil {
			return document.Value{}, s.mismatch(fmt.Sprintf("expected int64, got string %q", n.Str), nil)
		}
		return document.Int64(i), nil
	default:
		return document.Value{}, s.mismatch(fmt.Sprintf("expected %s, got string", want), nil)
	}
}
