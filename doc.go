// Package extjson converts between typed document values and JSON trees
// using MongoDB Extended JSON conventions.
//
// JSON has no representation for 64-bit integers beyond 2^53, ObjectIDs,
// binary data with a subtype or datetimes. Extended JSON carries them in
// single-purpose wrapper objects:
//
//	{"$numberLong": "9223372036854775807"}
//	{"$oid": "507f1f77bcf86cd799439011"}
//	{"$date": "2021-01-01T00:00:00.000Z"}
//	{"$binary": "AQID", "$type": "00"}
//
// An Encoder decides per value kind whether to emit the wrapper or a relaxed
// form through its Strategies. A Decoder always recognises wrappers and
// recovers relaxed forms when given a Hint or a typed Go destination.
//
// # Quick Start
//
// Canonical Extended JSON:
//
//	enc := extjson.NewEncoder()
//	n, _ := enc.Encode(document.Doc(
//	    document.E("_id", document.OID(id)),
//	    document.E("count", document.Int64(42)),
//	))
//	fmt.Println(n) // {"_id":{"$oid":"..."},"count":{"$numberLong":"42"}}
//
// Relaxed JSON for generic consumers:
//
//	enc := extjson.NewEncoder(extjson.WithStrategies(extjson.Plain()))
//
// Go structs:
//
//	type User struct {
//	    ID      document.ObjectID `extjson:"_id"`
//	    Name    string            `extjson:"name"`
//	    Created time.Time         `extjson:"created"`
//	}
//
//	data, _ := extjson.Marshal(User{...})
//	var u User
//	_ = extjson.Unmarshal(data, &u)
//
// # Errors
//
// Every failure is an *Error carrying the path to the offending value and
// matching one of ErrMalformedWrapper, ErrTypeMismatch, ErrCallback,
// ErrUnsupportedValue or ErrMaxDepth via errors.Is.
package extjson
