package extjson

import (
	"time"

	"github.com/hupe1980/extjson/document"
	"github.com/hupe1980/extjson/jsontree"
)

// Custom strategy functions. They run synchronously on the calling goroutine;
// a returned error aborts the whole encode or decode call and is wrapped
// together with ErrCallback. A nil node returned by an encode function is
// emitted as null.
type (
	// BinaryEncodeFunc encodes a binary value.
	BinaryEncodeFunc func(document.Binary) (*jsontree.Node, error)
	// BinaryDecodeFunc decodes a node produced by the matching BinaryEncodeFunc.
	BinaryDecodeFunc func(*jsontree.Node) (document.Binary, error)
	// DataEncodeFunc encodes a raw []byte value.
	DataEncodeFunc func([]byte) (*jsontree.Node, error)
	// DataDecodeFunc decodes a node produced by the matching DataEncodeFunc.
	DataDecodeFunc func(*jsontree.Node) ([]byte, error)
	// DateEncodeFunc encodes a datetime. The time is always in UTC.
	DateEncodeFunc func(time.Time) (*jsontree.Node, error)
	// DateDecodeFunc decodes a node produced by the matching DateEncodeFunc.
	DateDecodeFunc func(*jsontree.Node) (time.Time, error)
)

type binaryMode uint8

const (
	binaryExtendedJSON binaryMode = iota
	binaryBase64
	binaryCustom
)

// BinaryStrategy defines how document.Binary values are encoded.
// The zero value is BinaryExtendedJSON.
type BinaryStrategy struct {
	mode   binaryMode
	encode BinaryEncodeFunc
	decode BinaryDecodeFunc
}

// BinaryExtendedJSON encodes binary data as { "$binary": "<base64>", "$type": "<hh>" }.
func BinaryExtendedJSON() BinaryStrategy { return BinaryStrategy{mode: binaryExtendedJSON} }

// BinaryBase64 encodes binary data as a bare base64 string. The subtype is lost.
func BinaryBase64() BinaryStrategy { return BinaryStrategy{mode: binaryBase64} }

// BinaryCustom encodes binary data with enc. dec is used when a decode hint
// asks for a binary value; it may be nil if the output is never decoded.
func BinaryCustom(enc BinaryEncodeFunc, dec BinaryDecodeFunc) BinaryStrategy {
	return BinaryStrategy{mode: binaryCustom, encode: enc, decode: dec}
}

func (s BinaryStrategy) String() string {
	switch s.mode {
	case binaryBase64:
		return "base64"
	case binaryCustom:
		return "custom"
	default:
		return "extendedJSON"
	}
}

type dataMode uint8

const (
	dataExtendedJSON dataMode = iota
	dataBase64
	dataCustom
	dataDeferred
)

// DataStrategy defines how raw []byte values are encoded.
// The zero value is DataExtendedJSON.
type DataStrategy struct {
	mode   dataMode
	encode DataEncodeFunc
	decode DataDecodeFunc
}

// DataExtendedJSON encodes raw bytes as a binary wrapper with subtype 0x00.
func DataExtendedJSON() DataStrategy { return DataStrategy{mode: dataExtendedJSON} }

// DataBase64 encodes raw bytes as a bare base64 string.
func DataBase64() DataStrategy { return DataStrategy{mode: dataBase64} }

// DataCustom encodes raw bytes with enc; dec may be nil.
func DataCustom(enc DataEncodeFunc, dec DataDecodeFunc) DataStrategy {
	return DataStrategy{mode: dataCustom, encode: enc, decode: dec}
}

// DataDeferredToBinary encodes raw bytes as a generic-subtype document.Binary
// using the active BinaryStrategy.
func DataDeferredToBinary() DataStrategy { return DataStrategy{mode: dataDeferred} }

func (s DataStrategy) String() string {
	switch s.mode {
	case dataBase64:
		return "base64"
	case dataCustom:
		return "custom"
	case dataDeferred:
		return "deferredToBinary"
	default:
		return "extendedJSON"
	}
}

type dateMode uint8

const (
	dateExtendedJSON dateMode = iota
	dateISO8601
	dateFormatted
	dateCustom
	dateMillis
	dateSeconds
)

// DateStrategy defines how datetimes are encoded.
// The zero value is DateExtendedJSON.
type DateStrategy struct {
	mode   dateMode
	layout string
	encode DateEncodeFunc
	decode DateDecodeFunc
}

// DateExtendedJSON encodes datetimes as { "$date": "2006-01-02T15:04:05.000Z" }.
func DateExtendedJSON() DateStrategy { return DateStrategy{mode: dateExtendedJSON} }

// DateISO8601 encodes datetimes as a bare ISO8601 string with millisecond
// precision and explicit UTC offset, the same text the wrapper carries.
func DateISO8601() DateStrategy { return DateStrategy{mode: dateISO8601} }

// DateFormatted encodes datetimes as strings in the given time layout (UTC).
func DateFormatted(layout string) DateStrategy {
	return DateStrategy{mode: dateFormatted, layout: layout}
}

// DateCustom encodes datetimes with enc; dec may be nil.
func DateCustom(enc DateEncodeFunc, dec DateDecodeFunc) DateStrategy {
	return DateStrategy{mode: dateCustom, encode: enc, decode: dec}
}

// DateMillisecondsSinceEpoch encodes datetimes as a number of milliseconds since 1970.
func DateMillisecondsSinceEpoch() DateStrategy { return DateStrategy{mode: dateMillis} }

// DateSecondsSinceEpoch encodes datetimes as a number of seconds since 1970.
// Sub-second milliseconds produce a fractional number.
func DateSecondsSinceEpoch() DateStrategy { return DateStrategy{mode: dateSeconds} }

func (s DateStrategy) String() string {
	switch s.mode {
	case dateISO8601:
		return "iso8601"
	case dateFormatted:
		return "formatted(" + s.layout + ")"
	case dateCustom:
		return "custom"
	case dateMillis:
		return "millisecondsSince1970"
	case dateSeconds:
		return "secondsSince1970"
	default:
		return "extendedJSON"
	}
}

// ObjectIDStrategy defines how ObjectIDs are encoded.
type ObjectIDStrategy uint8

const (
	// ObjectIDExtendedJSON encodes ObjectIDs as { "$oid": "<hex>" }.
	ObjectIDExtendedJSON ObjectIDStrategy = iota
	// ObjectIDHexString encodes ObjectIDs as a bare 24-character hex string.
	ObjectIDHexString
)

func (s ObjectIDStrategy) String() string {
	if s == ObjectIDHexString {
		return "hexString"
	}
	return "extendedJSON"
}

// Int64Strategy defines how 64-bit integers are encoded.
type Int64Strategy uint8

const (
	// Int64ExtendedJSON encodes int64 values as { "$numberLong": "<decimal>" }.
	Int64ExtendedJSON Int64Strategy = iota
	// Int64Number encodes int64 values as JSON numbers. Consumers that parse
	// numbers as float64 lose precision beyond 2^53.
	Int64Number
)

func (s Int64Strategy) String() string {
	if s == Int64Number {
		return "number"
	}
	return "extendedJSON"
}

// KeyedNilStrategy defines how absent values are encoded in keyed containers.
// Array elements are never omitted; absent elements are always null.
type KeyedNilStrategy uint8

const (
	// KeyedNilNull emits the key with a null value.
	KeyedNilNull KeyedNilStrategy = iota
	// KeyedNilOmitted leaves the key out entirely.
	KeyedNilOmitted
)

func (s KeyedNilStrategy) String() string {
	if s == KeyedNilOmitted {
		return "omitted"
	}
	return "null"
}

// Strategies bundles one encoding choice per ambiguous value kind.
//
// Strategies is a plain value: encoders and decoders copy it at construction,
// so it is safe to share and later changes to a caller's copy have no effect
// on existing encoders. The zero value uses every wrapper form and emits
// null for absent keyed values.
type Strategies struct {
	Binary   BinaryStrategy
	Data     DataStrategy
	Date     DateStrategy
	ObjectID ObjectIDStrategy
	Int64    Int64Strategy
	KeyedNil KeyedNilStrategy
}

// ExtendedJSON returns the canonical preset: every wrapper form, absent keyed
// values omitted. Encoding with it is lossless.
func ExtendedJSON() Strategies {
	return Strategies{
		Binary:   BinaryExtendedJSON(),
		Data:     DataExtendedJSON(),
		Date:     DateExtendedJSON(),
		ObjectID: ObjectIDExtendedJSON,
		Int64:    Int64ExtendedJSON,
		KeyedNil: KeyedNilOmitted,
	}
}

// Plain returns the relaxed preset for generic JSON consumers: base64
// binaries, ISO8601 dates, hex ObjectIDs, plain int64 numbers, absent keyed
// values omitted. Binary subtypes are lost and type identity of dates,
// ObjectIDs and binaries is only recoverable with decode hints.
func Plain() Strategies {
	return Strategies{
		Binary:   BinaryBase64(),
		Data:     DataBase64(),
		Date:     DateISO8601(),
		ObjectID: ObjectIDHexString,
		Int64:    Int64Number,
		KeyedNil: KeyedNilOmitted,
	}
}

// WithBinary returns a copy of s using b for binary values.
func (s Strategies) WithBinary(b BinaryStrategy) Strategies { s.Binary = b; return s }

// WithData returns a copy of s using d for raw bytes.
func (s Strategies) WithData(d DataStrategy) Strategies { s.Data = d; return s }

// WithDate returns a copy of s using d for datetimes.
func (s Strategies) WithDate(d DateStrategy) Strategies { s.Date = d; return s }

// WithObjectID returns a copy of s using o for ObjectIDs.
func (s Strategies) WithObjectID(o ObjectIDStrategy) Strategies { s.ObjectID = o; return s }

// WithInt64 returns a copy of s using i for int64 values.
func (s Strategies) WithInt64(i Int64Strategy) Strategies { s.Int64 = i; return s }

// WithKeyedNil returns a copy of s using k for absent keyed values.
func (s Strategies) WithKeyedNil(k KeyedNilStrategy) Strategies { s.KeyedNil = k; return s }
