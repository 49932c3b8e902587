package extjson

import (
	"fmt"
	"reflect"

	"github.com/hupe1980/extjson/document"
	"github.com/hupe1980/extjson/jsontree"
)

// Unmarshaler is implemented by types that decode themselves from a JSON node.
type Unmarshaler interface {
	UnmarshalExtJSON(r *ValueReader) error
}

var unmarshalerType = reflect.TypeFor[Unmarshaler]()

// ValueReader gives an Unmarshaler access to its node and decodes children
// with the decoder's active strategies.
type ValueReader struct {
	s *decodeState
	n *jsontree.Node
}

// Node returns the node being decoded.
func (r *ValueReader) Node() *jsontree.Node { return r.n }

// Strategies returns the strategies in effect at the reader's position.
func (r *ValueReader) Strategies() Strategies { return r.s.strategies }

// Value decodes the whole node as a document value.
func (r *ValueReader) Value(hint *Hint) (document.Value, error) {
	return r.s.value(r.n, hint)
}

// Field decodes the member key of an object node into out, which must be a
// non-nil pointer. It reports whether the member was present.
func (r *ValueReader) Field(key string, out any) (bool, error) {
	if r.n == nil || r.n.Kind != jsontree.KindObject {
		return false, r.s.mismatch(fmt.Sprintf("expected object, got %s", nodeKind(r.n)), nil)
	}
	child, ok := r.n.Get(key)
	if !ok {
		return false, nil
	}
	rv := reflect.ValueOf(out)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return true, r.s.fail(ErrUnsupportedValue, fmt.Sprintf("destination %T is not a non-nil pointer", out), nil)
	}
	r.s.pushKey(key)
	err := r.s.into(child, rv.Elem())
	r.s.pop()
	return true, err
}

func (s *decodeState) decodeInto(n *jsontree.Node, out any) error {
	rv := reflect.ValueOf(out)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return s.fail(ErrUnsupportedValue, fmt.Sprintf("destination %T is not a non-nil pointer", out), nil)
	}
	return s.into(n, rv.Elem())
}

func (s *decodeState) unmarshaler(u Unmarshaler, n *jsontree.Node) error {
	if err := s.enter(); err != nil {
		return err
	}
	defer s.leave()

	if err := u.UnmarshalExtJSON(&ValueReader{s: s, n: n}); err != nil {
		if _, ok := asError(err); ok {
			return err
		}
		return s.fail(ErrCallback, fmt.Sprintf("%T.UnmarshalExtJSON", u), err)
	}
	return nil
}

// hinted decodes n under a single-kind hint and stores the result via set.
// null leaves the destination untouched.
func (s *decodeState) hinted(n *jsontree.Node, kind document.Kind, set func(document.Value)) error {
	if isNull(n) {
		return nil
	}
	v, err := s.value(n, KindHint(kind))
	if err != nil {
		return err
	}
	set(v)
	return nil
}

func (s *decodeState) into(n *jsontree.Node, v reflect.Value) error {
	t := v.Type()
	if t.Kind() == reflect.Pointer && t.Implements(unmarshalerType) {
		if isNull(n) {
			v.SetZero()
			return nil
		}
		if v.IsNil() {
			v.Set(reflect.New(t.Elem()))
		}
		return s.unmarshaler(v.Interface().(Unmarshaler), n)
	}
	if v.CanAddr() && reflect.PointerTo(t).Implements(unmarshalerType) {
		return s.unmarshaler(v.Addr().Interface().(Unmarshaler), n)
	}

	switch t {
	case valueType:
		val, err := s.value(n, nil)
		if err != nil {
			return err
		}
		v.Set(reflect.ValueOf(val))
		return nil
	case nodeType:
		v.Set(reflect.ValueOf(n))
		return nil
	case documentType:
		if isNull(n) {
			v.SetZero()
			return nil
		}
		return s.hinted(n, document.KindDocument, func(val document.Value) { v.Set(reflect.ValueOf(val.D)) })
	case timeType:
		return s.hinted(n, document.KindDateTime, func(val document.Value) {
			tm, _ := val.AsTime()
			v.Set(reflect.ValueOf(tm))
		})
	case objectIDType:
		return s.hinted(n, document.KindObjectID, func(val document.Value) { v.Set(reflect.ValueOf(val.OID)) })
	case binaryType:
		return s.hinted(n, document.KindBinary, func(val document.Value) {
			b, _ := val.AsBinary()
			v.Set(reflect.ValueOf(b))
		})
	}

	switch t.Kind() {
	case reflect.Pointer:
		if isNull(n) {
			v.SetZero()
			return nil
		}
		if v.IsNil() {
			v.Set(reflect.New(t.Elem()))
		}
		return s.into(n, v.Elem())
	case reflect.Interface:
		if isNull(n) {
			v.SetZero()
			return nil
		}
		if t.NumMethod() != 0 {
			return s.fail(ErrUnsupportedValue, fmt.Sprintf("interface type %s", t), nil)
		}
		val, err := s.value(n, nil)
		if err != nil {
			return err
		}
		if x := val.Interface(); x != nil {
			v.Set(reflect.ValueOf(x))
		} else {
			v.SetZero()
		}
		return nil
	}

	if isNull(n) {
		return nil
	}

	switch t.Kind() {
	case reflect.Bool:
		if n.Kind != jsontree.KindBool {
			return s.mismatch(fmt.Sprintf("expected boolean, got %s", nodeKind(n)), nil)
		}
		v.SetBool(n.Bool)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, err := s.integer(n)
		if err != nil {
			return err
		}
		if v.OverflowInt(i) {
			return s.mismatch(fmt.Sprintf("%d overflows %s", i, t), nil)
		}
		v.SetInt(i)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		i, err := s.integer(n)
		if err != nil {
			return err
		}
		if i < 0 || v.OverflowUint(uint64(i)) {
			return s.mismatch(fmt.Sprintf("%d overflows %s", i, t), nil)
		}
		v.SetUint(uint64(i))
	case reflect.Float32, reflect.Float64:
		f, err := s.double(n)
		if err != nil {
			return err
		}
		if v.OverflowFloat(f) {
			return s.mismatch(fmt.Sprintf("%v overflows %s", f, t), nil)
		}
		v.SetFloat(f)
	case reflect.String:
		if n.Kind != jsontree.KindString {
			return s.mismatch(fmt.Sprintf("expected string, got %s", nodeKind(n)), nil)
		}
		v.SetString(n.Str)
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			b, err := s.bytes(n)
			if err != nil {
				return err
			}
			v.SetBytes(b)
			return nil
		}
		return s.intoSlice(n, v)
	case reflect.Array:
		if t.Elem().Kind() == reflect.Uint8 && n.Kind != jsontree.KindArray {
			b, err := s.bytes(n)
			if err != nil {
				return err
			}
			if len(b) != v.Len() {
				return s.mismatch(fmt.Sprintf("%d bytes do not fit %s", len(b), t), nil)
			}
			reflect.Copy(v, reflect.ValueOf(b))
			return nil
		}
		return s.intoArray(n, v)
	case reflect.Map:
		return s.intoMap(n, v)
	case reflect.Struct:
		return s.intoStruct(n, v)
	default:
		return s.fail(ErrUnsupportedValue, fmt.Sprintf("type %s", t), nil)
	}
	return nil
}

// integer accepts plain numbers and the integer wrappers.
func (s *decodeState) integer(n *jsontree.Node) (int64, error) {
	switch n.Kind {
	case jsontree.KindNumber:
		return s.integral(n)
	case jsontree.KindObject, jsontree.KindString:
		val, err := s.value(n, KindHint(document.KindInt64))
		if err != nil {
			return 0, err
		}
		return val.I64, nil
	default:
		return 0, s.mismatch(fmt.Sprintf("expected number, got %s", nodeKind(n)), nil)
	}
}

// double accepts plain numbers and the numeric wrappers.
func (s *decodeState) double(n *jsontree.Node) (float64, error) {
	switch n.Kind {
	case jsontree.KindNumber:
		return s.float(n)
	case jsontree.KindObject:
		val, err := s.value(n, nil)
		if err != nil {
			return 0, err
		}
		switch val.Kind {
		case document.KindDouble:
			return val.F64, nil
		case document.KindInt32, document.KindInt64:
			return float64(val.I64), nil
		}
		return 0, s.mismatch(fmt.Sprintf("expected number, got %s", val.Kind), nil)
	default:
		return 0, s.mismatch(fmt.Sprintf("expected number, got %s", nodeKind(n)), nil)
	}
}

// bytes decodes a []byte destination following the Data strategy.
func (s *decodeState) bytes(n *jsontree.Node) ([]byte, error) {
	st := s.strategies.Data
	if st.mode == dataCustom && st.decode != nil {
		b, err := st.decode(n)
		if err != nil {
			return nil, s.fail(ErrCallback, "", err)
		}
		return b, nil
	}
	if st.mode == dataDeferred {
		val, err := s.value(n, KindHint(document.KindBinary))
		if err != nil {
			return nil, err
		}
		return val.Bin, nil
	}

	// The binary strategy's custom decoder does not apply to raw bytes.
	if n.Kind == jsontree.KindString {
		val, err := s.string(n, document.KindBinary)
		if err != nil {
			return nil, err
		}
		return val.Bin, nil
	}
	val, err := s.value(n, nil)
	if err != nil {
		return nil, err
	}
	if val.Kind != document.KindBinary {
		return nil, s.mismatch(fmt.Sprintf("expected %s, got %s", document.KindBinary, val.Kind), nil)
	}
	return val.Bin, nil
}

func (s *decodeState) intoSlice(n *jsontree.Node, v reflect.Value) error {
	if n.Kind != jsontree.KindArray {
		return s.mismatch(fmt.Sprintf("expected array, got %s", nodeKind(n)), nil)
	}
	if err := s.enter(); err != nil {
		return err
	}
	defer s.leave()

	sl := reflect.MakeSlice(v.Type(), len(n.Items), len(n.Items))
	for i, item := range n.Items {
		s.pushIndex(i)
		err := s.into(item, sl.Index(i))
		s.pop()
		if err != nil {
			return err
		}
	}
	v.Set(sl)
	return nil
}

func (s *decodeState) intoArray(n *jsontree.Node, v reflect.Value) error {
	if n.Kind != jsontree.KindArray {
		return s.mismatch(fmt.Sprintf("expected array, got %s", nodeKind(n)), nil)
	}
	if err := s.enter(); err != nil {
		return err
	}
	defer s.leave()

	for i := 0; i < v.Len(); i++ {
		if i >= len(n.Items) {
			v.Index(i).SetZero()
			continue
		}
		s.pushIndex(i)
		err := s.into(n.Items[i], v.Index(i))
		s.pop()
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *decodeState) intoMap(n *jsontree.Node, v reflect.Value) error {
	t := v.Type()
	if t.Key().Kind() != reflect.String {
		return s.fail(ErrUnsupportedValue, fmt.Sprintf("map key type %s", t.Key()), nil)
	}
	if n.Kind != jsontree.KindObject {
		return s.mismatch(fmt.Sprintf("expected object, got %s", nodeKind(n)), nil)
	}
	if err := s.enter(); err != nil {
		return err
	}
	defer s.leave()

	if v.IsNil() {
		v.Set(reflect.MakeMapWithSize(t, len(n.Members)))
	}
	for _, m := range n.Members {
		elem := reflect.New(t.Elem()).Elem()
		s.pushKey(m.Key)
		err := s.into(m.Value, elem)
		s.pop()
		if err != nil {
			return err
		}
		v.SetMapIndex(reflect.ValueOf(m.Key).Convert(t.Key()), elem)
	}
	return nil
}

func (s *decodeState) intoStruct(n *jsontree.Node, v reflect.Value) error {
	info, err := cachedStruct(v.Type())
	if err != nil {
		return s.fail(ErrUnsupportedValue, "", err)
	}
	if n.Kind != jsontree.KindObject {
		return s.mismatch(fmt.Sprintf("expected object, got %s", nodeKind(n)), nil)
	}
	if err := s.enter(); err != nil {
		return err
	}
	defer s.leave()

	outer := s.strategies
	defer func() { s.strategies = outer }()

	for _, m := range n.Members {
		i, ok := info.byName[m.Key]
		if !ok {
			continue
		}
		f := &info.fields[i]

		s.strategies = outer
		if f.override != nil {
			f.override(&s.strategies)
		}
		s.pushKey(m.Key)
		err := s.into(m.Value, v.FieldByIndex(f.index))
		s.pop()
		if err != nil {
			return err
		}
	}
	return nil
}
