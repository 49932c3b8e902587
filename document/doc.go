// Package document provides the typed value model that extjson encodes to and
// decodes from JSON.
//
// The model mirrors the value kinds of binary document databases: besides the
// JSON-native kinds it distinguishes 32- and 64-bit integers and carries binary
// blobs with a subtype tag, 12-byte object identifiers, UTC datetimes with
// millisecond precision and the MinKey/MaxKey sentinels.
//
// # Values
//
// Values are built with constructor functions:
//
//	v := document.Doc(
//	    document.E("_id", document.OID(id)),
//	    document.E("name", document.String("gopher")),
//	    document.E("visits", document.Int64(42)),
//	    document.E("seen", document.Time(time.Now())),
//	)
//
// # Absent values
//
// The zero Value has KindAbsent. Inside a Document it marks an optional
// entry that has no value; encoders decide whether to omit the key or emit
// null. Inside an Array it is indistinguishable from null.
//
// # Documents
//
// Document is an ordered list of key/value elements. Order is preserved
// through encoding and decoding; duplicate keys are allowed but Lookup
// returns the first match.
package document
