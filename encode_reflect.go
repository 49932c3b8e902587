package extjson

import (
	"cmp"
	"fmt"
	"reflect"
	"slices"
	"time"

	"github.com/hupe1980/extjson/document"
	"github.com/hupe1980/extjson/internal/conv"
	"github.com/hupe1980/extjson/jsontree"
)

// Marshaler is implemented by types that encode themselves as a JSON object.
type Marshaler interface {
	MarshalExtJSON(w *ObjectWriter) error
}

var (
	valueType     = reflect.TypeFor[document.Value]()
	documentType  = reflect.TypeFor[document.Document]()
	binaryType    = reflect.TypeFor[document.Binary]()
	objectIDType  = reflect.TypeFor[document.ObjectID]()
	timeType      = reflect.TypeFor[time.Time]()
	nodeType      = reflect.TypeFor[*jsontree.Node]()
	marshalerType = reflect.TypeFor[Marshaler]()
)

// ObjectWriter builds the object emitted by a Marshaler. Values written
// through it use the encoder's active strategies.
type ObjectWriter struct {
	s       *encodeState
	members []jsontree.Member
}

// Strategies returns the strategies in effect at the writer's position.
func (w *ObjectWriter) Strategies() Strategies { return w.s.strategies }

// Field encodes v under key like a struct field: nil pointers and interfaces
// are absent.
func (w *ObjectWriter) Field(key string, v any) error {
	rv := reflect.ValueOf(v)
	if isAbsent(rv) {
		w.Absent(key)
		return nil
	}
	w.s.pushKey(key)
	n, err := w.s.reflectValue(rv)
	w.s.pop()
	if err != nil {
		return err
	}
	w.members = append(w.members, jsontree.M(key, n))
	return nil
}

// Value encodes a document value under key.
func (w *ObjectWriter) Value(key string, v document.Value) error {
	if v.IsAbsent() {
		w.Absent(key)
		return nil
	}
	w.s.pushKey(key)
	n, err := w.s.value(v)
	w.s.pop()
	if err != nil {
		return err
	}
	w.members = append(w.members, jsontree.M(key, n))
	return nil
}

// Absent records an absent value under key, which follows the KeyedNil strategy.
func (w *ObjectWriter) Absent(key string) {
	if w.s.strategies.KeyedNil == KeyedNilNull {
		w.members = append(w.members, jsontree.M(key, jsontree.Null()))
	}
}

func asMarshaler(v reflect.Value) (Marshaler, bool) {
	if v.Type().Implements(marshalerType) {
		if (v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface) && v.IsNil() {
			return nil, false
		}
		return v.Interface().(Marshaler), true
	}
	if v.CanAddr() && reflect.PointerTo(v.Type()).Implements(marshalerType) {
		return v.Addr().Interface().(Marshaler), true
	}
	return nil, false
}

func (s *encodeState) marshaler(m Marshaler) (*jsontree.Node, error) {
	if err := s.enter(); err != nil {
		return nil, err
	}
	defer s.leave()

	w := &ObjectWriter{s: s}
	if err := m.MarshalExtJSON(w); err != nil {
		if _, ok := asError(err); ok {
			return nil, err
		}
		return nil, s.fail(ErrCallback, fmt.Sprintf("%T.MarshalExtJSON", m), err)
	}
	return jsontree.Object(w.members...), nil
}

func (s *encodeState) reflectValue(v reflect.Value) (*jsontree.Node, error) {
	if !v.IsValid() {
		return jsontree.Null(), nil
	}
	if m, ok := asMarshaler(v); ok {
		return s.marshaler(m)
	}

	switch v.Type() {
	case valueType:
		return s.value(v.Interface().(document.Value))
	case documentType:
		return s.document(v.Interface().(document.Document))
	case binaryType:
		return s.binary(v.Interface().(document.Binary))
	case objectIDType:
		return s.objectID(v.Interface().(document.ObjectID)), nil
	case timeType:
		return s.dateTime(v.Interface().(time.Time).UnixMilli())
	case nodeType:
		if n := v.Interface().(*jsontree.Node); n != nil {
			return n, nil
		}
		return jsontree.Null(), nil
	}

	switch v.Kind() {
	case reflect.Bool:
		return jsontree.Bool(v.Bool()), nil
	case reflect.Int8, reflect.Int16, reflect.Int32:
		return jsontree.Int(v.Int()), nil
	case reflect.Int, reflect.Int64:
		return s.int64(v.Int()), nil
	case reflect.Uint8, reflect.Uint16:
		return jsontree.Int(int64(v.Uint())), nil
	case reflect.Uint32:
		return s.int64(int64(v.Uint())), nil
	case reflect.Uint, reflect.Uint64, reflect.Uintptr:
		i, err := conv.Uint64ToInt64(v.Uint())
		if err != nil {
			return nil, s.fail(ErrUnsupportedValue, "", err)
		}
		return s.int64(i), nil
	case reflect.Float32, reflect.Float64:
		return s.double(v.Float()), nil
	case reflect.String:
		return jsontree.String(v.String()), nil
	case reflect.Slice:
		if v.IsNil() {
			return jsontree.Null(), nil
		}
		if v.Type().Elem().Kind() == reflect.Uint8 {
			return s.bytes(v.Bytes())
		}
		return s.reflectList(v)
	case reflect.Array:
		if v.Type().Elem().Kind() == reflect.Uint8 {
			b := make([]byte, v.Len())
			reflect.Copy(reflect.ValueOf(b), v)
			return s.bytes(b)
		}
		return s.reflectList(v)
	case reflect.Map:
		if v.IsNil() {
			return jsontree.Null(), nil
		}
		return s.reflectMap(v)
	case reflect.Struct:
		return s.reflectStruct(v)
	case reflect.Pointer, reflect.Interface:
		if v.IsNil() {
			return jsontree.Null(), nil
		}
		return s.reflectValue(v.Elem())
	default:
		return nil, s.fail(ErrUnsupportedValue, fmt.Sprintf("type %s", v.Type()), nil)
	}
}

func (s *encodeState) reflectList(v reflect.Value) (*jsontree.Node, error) {
	if err := s.enter(); err != nil {
		return nil, err
	}
	defer s.leave()

	out := make([]*jsontree.Node, v.Len())
	for i := range out {
		s.pushIndex(i)
		n, err := s.reflectValue(v.Index(i))
		s.pop()
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return jsontree.Array(out...), nil
}

func (s *encodeState) reflectMap(v reflect.Value) (*jsontree.Node, error) {
	if v.Type().Key().Kind() != reflect.String {
		return nil, s.fail(ErrUnsupportedValue, fmt.Sprintf("map key type %s", v.Type().Key()), nil)
	}
	if err := s.enter(); err != nil {
		return nil, err
	}
	defer s.leave()

	keys := v.MapKeys()
	slices.SortFunc(keys, func(a, b reflect.Value) int {
		return cmp.Compare(a.String(), b.String())
	})

	members := make([]jsontree.Member, 0, len(keys))
	for _, k := range keys {
		key := k.String()
		ev := v.MapIndex(k)
		if isAbsent(ev) {
			if s.strategies.KeyedNil == KeyedNilNull {
				members = append(members, jsontree.M(key, jsontree.Null()))
			}
			continue
		}
		s.pushKey(key)
		n, err := s.reflectValue(ev)
		s.pop()
		if err != nil {
			return nil, err
		}
		members = append(members, jsontree.M(key, n))
	}
	return jsontree.Object(members...), nil
}

func (s *encodeState) reflectStruct(v reflect.Value) (*jsontree.Node, error) {
	info, err := cachedStruct(v.Type())
	if err != nil {
		return nil, s.fail(ErrUnsupportedValue, "", err)
	}
	if err := s.enter(); err != nil {
		return nil, err
	}
	defer s.leave()

	outer := s.strategies
	defer func() { s.strategies = outer }()

	members := make([]jsontree.Member, 0, len(info.fields))
	for i := range info.fields {
		f := &info.fields[i]
		fv := v.FieldByIndex(f.index)
		if f.omitEmpty && isEmptyValue(fv) {
			continue
		}

		s.strategies = outer
		if f.override != nil {
			f.override(&s.strategies)
		}
		if isAbsent(fv) {
			if s.strategies.KeyedNil == KeyedNilNull {
				members = append(members, jsontree.M(f.name, jsontree.Null()))
			}
			continue
		}

		s.pushKey(f.name)
		n, err := s.reflectValue(fv)
		s.pop()
		if err != nil {
			return nil, err
		}
		members = append(members, jsontree.M(f.name, n))
	}
	return jsontree.Object(members...), nil
}
