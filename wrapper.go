package extjson

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/hupe1980/extjson/document"
	"github.com/hupe1980/extjson/jsontree"
)

// Reserved Extended JSON keys. Matching is exact and case-sensitive.
const (
	KeyNumberLong   = "$numberLong"
	KeyNumberInt    = "$numberInt"
	KeyNumberDouble = "$numberDouble"
	KeyOID          = "$oid"
	KeyDate         = "$date"
	KeyBinary       = "$binary"
	KeyType         = "$type"
	KeyMinKey       = "$minKey"
	KeyMaxKey       = "$maxKey"

	// Members of the nested {"$binary": {"base64": ..., "subType": ...}} form.
	keyBase64  = "base64"
	keySubType = "subType"
)

// ISO8601Layout is the datetime text used by DateExtendedJSON and DateISO8601:
// millisecond precision, explicit offset, always rendered in UTC ("Z").
const ISO8601Layout = "2006-01-02T15:04:05.000Z07:00"

// wrapperShape recognises one Extended JSON wrapper by the exact key set of
// an object. decode is only called once the key set matched, so any failure
// from it is a malformed wrapper, never a fallback to a plain document.
type wrapperShape struct {
	name   string
	match  func(n *jsontree.Node) bool
	decode func(s *decodeState, n *jsontree.Node) (document.Value, error)
}

// wrapperShapes is evaluated in order; the first match wins. Objects that
// match none of them are plain documents.
var wrapperShapes = []wrapperShape{
	{name: KeyNumberLong, match: singleKey(KeyNumberLong), decode: decodeNumberLong},
	{name: KeyOID, match: singleKey(KeyOID), decode: decodeOID},
	{name: KeyDate, match: singleKey(KeyDate), decode: decodeDate},
	{name: KeyBinary, match: binaryKeys, decode: decodeBinary},
	{name: KeyBinary, match: singleKey(KeyBinary), decode: decodeBinaryNested},
	{name: KeyNumberInt, match: singleKey(KeyNumberInt), decode: decodeNumberInt},
	{name: KeyNumberDouble, match: singleKey(KeyNumberDouble), decode: decodeNumberDouble},
	{name: KeyMinKey, match: singleKey(KeyMinKey), decode: decodeSentinel(KeyMinKey, document.MinKey())},
	{name: KeyMaxKey, match: singleKey(KeyMaxKey), decode: decodeSentinel(KeyMaxKey, document.MaxKey())},
}

func singleKey(key string) func(n *jsontree.Node) bool {
	return func(n *jsontree.Node) bool {
		return len(n.Members) == 1 && n.Members[0].Key == key
	}
}

func binaryKeys(n *jsontree.Node) bool {
	if len(n.Members) != 2 {
		return false
	}
	a, b := n.Members[0].Key, n.Members[1].Key
	return (a == KeyBinary && b == KeyType) || (a == KeyType && b == KeyBinary)
}

// wrapperString returns the string value of key or a malformed-wrapper error.
func (s *decodeState) wrapperString(n *jsontree.Node, key string) (string, error) {
	v, _ := n.Get(key)
	if v == nil || v.Kind != jsontree.KindString {
		return "", s.malformed(key, fmt.Sprintf("expected string, got %s", nodeKind(v)), ErrTypeMismatch)
	}
	return v.Str, nil
}

func decodeNumberLong(s *decodeState, n *jsontree.Node) (document.Value, error) {
	str, err := s.wrapperString(n, KeyNumberLong)
	if err != nil {
		return document.Value{}, err
	}
	i, err := strconv.ParseInt(str, 10, 64)
	if err != nil {
		return document.Value{}, s.malformed(KeyNumberLong, fmt.Sprintf("invalid int64 %q", str), nil)
	}
	return document.Int64(i), nil
}

func decodeNumberInt(s *decodeState, n *jsontree.Node) (document.Value, error) {
	str, err := s.wrapperString(n, KeyNumberInt)
	if err != nil {
		return document.Value{}, err
	}
	i, err := strconv.ParseInt(str, 10, 32)
	if err != nil {
		return document.Value{}, s.malformed(KeyNumberInt, fmt.Sprintf("invalid int32 %q", str), nil)
	}
	return document.Int32(int32(i)), nil
}

func decodeNumberDouble(s *decodeState, n *jsontree.Node) (document.Value, error) {
	str, err := s.wrapperString(n, KeyNumberDouble)
	if err != nil {
		return document.Value{}, err
	}
	f, err := parseDouble(str)
	if err != nil {
		return document.Value{}, s.malformed(KeyNumberDouble, fmt.Sprintf("invalid double %q", str), nil)
	}
	return document.Double(f), nil
}

func decodeOID(s *decodeState, n *jsontree.Node) (document.Value, error) {
	str, err := s.wrapperString(n, KeyOID)
	if err != nil {
		return document.Value{}, err
	}
	id, err := document.ObjectIDFromHex(str)
	if err != nil {
		return document.Value{}, s.malformed(KeyOID, "", err)
	}
	return document.OID(id), nil
}

func decodeDate(s *decodeState, n *jsontree.Node) (document.Value, error) {
	v := n.Members[0].Value
	if v != nil && v.Kind == jsontree.KindObject {
		// {"$date": {"$numberLong": "<ms>"}} for dates without an ISO8601 form.
		if !singleKey(KeyNumberLong)(v) {
			return document.Value{}, s.malformed(KeyDate, "expected string or {\"$numberLong\": ...}", ErrTypeMismatch)
		}
		ms, err := decodeNumberLong(s, v)
		if err != nil {
			return document.Value{}, err
		}
		return document.DateTime(ms.I64), nil
	}
	str, err := s.wrapperString(n, KeyDate)
	if err != nil {
		return document.Value{}, err
	}
	ms, err := parseISO8601(str)
	if err != nil {
		return document.Value{}, s.malformed(KeyDate, "", err)
	}
	return document.DateTime(ms), nil
}

func decodeBinary(s *decodeState, n *jsontree.Node) (document.Value, error) {
	data, err := s.wrapperString(n, KeyBinary)
	if err != nil {
		return document.Value{}, err
	}
	typ, err := s.wrapperString(n, KeyType)
	if err != nil {
		return document.Value{}, err
	}
	return s.binaryFromText(KeyBinary, KeyType, data, typ)
}

func decodeBinaryNested(s *decodeState, n *jsontree.Node) (document.Value, error) {
	inner := n.Members[0].Value
	if inner == nil || inner.Kind != jsontree.KindObject {
		return document.Value{}, s.malformed(KeyBinary, fmt.Sprintf("expected object with %q and %q or a sibling %q key, got %s", keyBase64, keySubType, KeyType, nodeKind(inner)), ErrTypeMismatch)
	}
	if len(inner.Members) != 2 {
		return document.Value{}, s.malformed(KeyBinary, fmt.Sprintf("expected exactly %q and %q", keyBase64, keySubType), nil)
	}
	data, ok := inner.Get(keyBase64)
	if !ok || data == nil || data.Kind != jsontree.KindString {
		return document.Value{}, s.malformed(KeyBinary, fmt.Sprintf("%q must be a string", keyBase64), ErrTypeMismatch)
	}
	typ, ok := inner.Get(keySubType)
	if !ok || typ == nil || typ.Kind != jsontree.KindString {
		return document.Value{}, s.malformed(KeyBinary, fmt.Sprintf("%q must be a string", keySubType), ErrTypeMismatch)
	}
	return s.binaryFromText(KeyBinary, KeyBinary, data.Str, typ.Str)
}

func (s *decodeState) binaryFromText(dataKey, typeKey, data, typ string) (document.Value, error) {
	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return document.Value{}, s.malformed(dataKey, "invalid base64", err)
	}
	sub, err := parseSubtype(typ)
	if err != nil {
		return document.Value{}, s.malformed(typeKey, "", err)
	}
	return document.Bin(document.Binary{Subtype: sub, Data: raw}), nil
}

func decodeSentinel(key string, v document.Value) func(s *decodeState, n *jsontree.Node) (document.Value, error) {
	return func(s *decodeState, n *jsontree.Node) (document.Value, error) {
		one := n.Members[0].Value
		if one == nil || one.Kind != jsontree.KindNumber || one.Num != "1" {
			return document.Value{}, s.malformed(key, "expected the number 1", ErrTypeMismatch)
		}
		return v, nil
	}
}

func formatSubtype(sub byte) string {
	return hex.EncodeToString([]byte{sub})
}

func parseSubtype(s string) (byte, error) {
	if len(s) != 2 {
		return 0, fmt.Errorf("subtype %q must be two hex digits", s)
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return 0, fmt.Errorf("subtype %q must be two hex digits", s)
	}
	return b[0], nil
}

// formatISO8601 renders ms in ISO8601Layout. It reports false for instants
// whose year falls outside 0000-9999, which have no four-digit year form.
func formatISO8601(ms int64) (string, bool) {
	t := time.UnixMilli(ms).UTC()
	if y := t.Year(); y < 0 || y > 9999 {
		return "", false
	}
	return t.Format(ISO8601Layout), true
}

// parseISO8601 accepts RFC 3339 text with any fractional precision and any
// explicit offset. Precision beyond milliseconds is truncated.
func parseISO8601(s string) (int64, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return 0, fmt.Errorf("invalid ISO8601 datetime %q", s)
	}
	return t.UnixMilli(), nil
}

// formatNonFinite renders NaN and the infinities the way $numberDouble carries them.
func formatNonFinite(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	default:
		return "-Infinity"
	}
}

func parseDouble(s string) (float64, error) {
	switch s {
	case "NaN", "Infinity", "-Infinity":
		return strconv.ParseFloat(s, 64)
	}
	if !jsontree.ValidNumber(s) {
		return 0, strconv.ErrSyntax
	}
	return strconv.ParseFloat(s, 64)
}

func nodeKind(n *jsontree.Node) string {
	if n == nil {
		return "nothing"
	}
	return n.Kind.String()
}
