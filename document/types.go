package document

import (
	"bytes"
	"math"
	"time"
)

// Kind identifies the concrete type stored in a Value.
type Kind uint8

const (
	// KindAbsent is the zero Kind: an optional value that is not present.
	KindAbsent Kind = iota
	// KindNull represents an explicit null value.
	KindNull
	// KindBool represents a boolean value.
	KindBool
	// KindInt32 represents a 32-bit integer value.
	KindInt32
	// KindInt64 represents a 64-bit integer value.
	KindInt64
	// KindDouble represents a 64-bit floating point value.
	KindDouble
	// KindString represents a UTF-8 string value.
	KindString
	// KindArray represents an ordered list of values.
	KindArray
	// KindDocument represents an ordered list of key/value elements.
	KindDocument
	// KindBinary represents a byte sequence with a subtype tag.
	KindBinary
	// KindObjectID represents a 12-byte object identifier.
	KindObjectID
	// KindDateTime represents milliseconds since the Unix epoch (UTC).
	KindDateTime
	// KindMinKey is the sentinel that sorts before every other value.
	KindMinKey
	// KindMaxKey is the sentinel that sorts after every other value.
	KindMaxKey
)

var kindNames = [...]string{
	KindAbsent:   "absent",
	KindNull:     "null",
	KindBool:     "bool",
	KindInt32:    "int32",
	KindInt64:    "int64",
	KindDouble:   "double",
	KindString:   "string",
	KindArray:    "array",
	KindDocument: "document",
	KindBinary:   "binary",
	KindObjectID: "objectId",
	KindDateTime: "date",
	KindMinKey:   "minKey",
	KindMaxKey:   "maxKey",
}

// String returns the lower-case name of the kind.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "invalid"
}

// Value is a small typed document value.
//
// Int32, Int64 and DateTime share I64. Binary uses Bin and Sub.
// NOTE: fields are exported for cheap pattern matching; prefer the
// constructors and As* accessors.
type Value struct {
	Kind Kind
	I64  int64
	F64  float64
	S    string
	B    bool
	A    []Value
	D    Document
	Bin  []byte
	Sub  byte
	OID  ObjectID
}

// Absent returns the absent (zero) Value.
func Absent() Value { return Value{} }

// Null returns a null Value.
func Null() Value { return Value{Kind: KindNull} }

// Bool returns a boolean Value.
func Bool(v bool) Value { return Value{Kind: KindBool, B: v} }

// Int32 returns a 32-bit integer Value.
func Int32(v int32) Value { return Value{Kind: KindInt32, I64: int64(v)} }

// Int64 returns a 64-bit integer Value.
func Int64(v int64) Value { return Value{Kind: KindInt64, I64: v} }

// Double returns a float64 Value.
func Double(v float64) Value { return Value{Kind: KindDouble, F64: v} }

// String returns a string Value.
func String(v string) Value { return Value{Kind: KindString, S: v} }

// Array returns an array Value.
func Array(v ...Value) Value { return Value{Kind: KindArray, A: v} }

// Doc returns a document Value built from the given elements.
func Doc(elems ...Element) Value { return Value{Kind: KindDocument, D: Document(elems)} }

// Bin returns a binary Value.
func Bin(b Binary) Value { return Value{Kind: KindBinary, Bin: b.Data, Sub: b.Subtype} }

// OID returns an ObjectID Value.
func OID(id ObjectID) Value { return Value{Kind: KindObjectID, OID: id} }

// DateTime returns a datetime Value from milliseconds since the Unix epoch.
func DateTime(ms int64) Value { return Value{Kind: KindDateTime, I64: ms} }

// Time returns a datetime Value truncated to millisecond precision.
func Time(t time.Time) Value { return DateTime(t.UnixMilli()) }

// MinKey returns the MinKey sentinel.
func MinKey() Value { return Value{Kind: KindMinKey} }

// MaxKey returns the MaxKey sentinel.
func MaxKey() Value { return Value{Kind: KindMaxKey} }

// IsAbsent reports whether v is the absent value.
func (v Value) IsAbsent() bool { return v.Kind == KindAbsent }

// AsBool returns the boolean value if Kind is KindBool.
func (v Value) AsBool() (bool, bool) {
	if v.Kind != KindBool {
		return false, false
	}
	return v.B, true
}

// AsInt32 returns the int32 value if Kind is KindInt32.
func (v Value) AsInt32() (int32, bool) {
	if v.Kind != KindInt32 {
		return 0, false
	}
	return int32(v.I64), true
}

// AsInt64 returns the int64 value if Kind is KindInt64.
func (v Value) AsInt64() (int64, bool) {
	if v.Kind != KindInt64 {
		return 0, false
	}
	return v.I64, true
}

// AsDouble returns the float64 value if Kind is KindDouble.
func (v Value) AsDouble() (float64, bool) {
	if v.Kind != KindDouble {
		return 0, false
	}
	return v.F64, true
}

// AsString returns the string value if Kind is KindString.
func (v Value) AsString() (string, bool) {
	if v.Kind != KindString {
		return "", false
	}
	return v.S, true
}

// AsArray returns the elements if Kind is KindArray.
func (v Value) AsArray() ([]Value, bool) {
	if v.Kind != KindArray {
		return nil, false
	}
	return v.A, true
}

// AsDocument returns the document if Kind is KindDocument.
func (v Value) AsDocument() (Document, bool) {
	if v.Kind != KindDocument {
		return nil, false
	}
	return v.D, true
}

// AsBinary returns the binary value if Kind is KindBinary.
func (v Value) AsBinary() (Binary, bool) {
	if v.Kind != KindBinary {
		return Binary{}, false
	}
	return Binary{Subtype: v.Sub, Data: v.Bin}, true
}

// AsObjectID returns the identifier if Kind is KindObjectID.
func (v Value) AsObjectID() (ObjectID, bool) {
	if v.Kind != KindObjectID {
		return ObjectID{}, false
	}
	return v.OID, true
}

// AsDateTime returns milliseconds since the epoch if Kind is KindDateTime.
func (v Value) AsDateTime() (int64, bool) {
	if v.Kind != KindDateTime {
		return 0, false
	}
	return v.I64, true
}

// AsTime returns the datetime as a UTC time.Time if Kind is KindDateTime.
func (v Value) AsTime() (time.Time, bool) {
	if v.Kind != KindDateTime {
		return time.Time{}, false
	}
	return time.UnixMilli(v.I64).UTC(), true
}

// Equal reports whether v and o hold the same kind and value.
//
// Doubles compare bitwise so NaN equals NaN and 0.0 differs from -0.0;
// this is the equality a lossless codec must preserve. Nil and empty
// byte slices, arrays and documents compare equal.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case KindBool:
		return v.B == o.B
	case KindInt32, KindInt64, KindDateTime:
		return v.I64 == o.I64
	case KindDouble:
		return math.Float64bits(v.F64) == math.Float64bits(o.F64)
	case KindString:
		return v.S == o.S
	case KindArray:
		if len(v.A) != len(o.A) {
			return false
		}
		for i := range v.A {
			if !v.A[i].Equal(o.A[i]) {
				return false
			}
		}
		return true
	case KindDocument:
		return v.D.Equal(o.D)
	case KindBinary:
		return v.Sub == o.Sub && bytes.Equal(v.Bin, o.Bin)
	case KindObjectID:
		return v.OID == o.OID
	default:
		return true
	}
}

// Clone creates a deep copy of the value.
func (v Value) Clone() Value {
	switch v.Kind {
	case KindArray:
		if v.A == nil {
			return v
		}
		arr := make([]Value, len(v.A))
		for i := range v.A {
			arr[i] = v.A[i].Clone()
		}
		v.A = arr
	case KindDocument:
		v.D = v.D.Clone()
	case KindBinary:
		if v.Bin != nil {
			v.Bin = bytes.Clone(v.Bin)
		}
	}
	return v
}

// Interface returns the native Go representation of the value.
//
// Absent and Null map to nil, Int32 to int32, Int64 to int64, Double to
// float64, DateTime to time.Time (UTC), Array to []any, Document to Document
// with native values kept as Value, Binary to Binary, ObjectID to ObjectID
// and the sentinels to their Kind.
func (v Value) Interface() any {
	switch v.Kind {
	case KindBool:
		return v.B
	case KindInt32:
		return int32(v.I64)
	case KindInt64:
		return v.I64
	case KindDouble:
		return v.F64
	case KindString:
		return v.S
	case KindArray:
		out := make([]any, len(v.A))
		for i := range v.A {
			out[i] = v.A[i].Interface()
		}
		return out
	case KindDocument:
		return v.D
	case KindBinary:
		return Binary{Subtype: v.Sub, Data: v.Bin}
	case KindObjectID:
		return v.OID
	case KindDateTime:
		t, _ := v.AsTime()
		return t
	case KindMinKey, KindMaxKey:
		return v.Kind
	default:
		return nil
	}
}
