package codec

import "github.com/hupe1980/extjson"

const (
	// ExtendedJSONName is the name of the canonical Extended JSON codec.
	ExtendedJSONName = "extjson"
	// RelaxedJSONName is the name of the plain JSON codec.
	RelaxedJSONName = "relaxed-json"
)

var (
	canonicalEncoder = extjson.NewEncoder(extjson.WithStrategies(extjson.ExtendedJSON()))
	canonicalDecoder = extjson.NewDecoder(extjson.WithStrategies(extjson.ExtendedJSON()))
	relaxedEncoder   = extjson.NewEncoder(extjson.WithStrategies(extjson.Plain()))
	relaxedDecoder   = extjson.NewDecoder(extjson.WithStrategies(extjson.Plain()))
)

// ExtendedJSON writes every non-JSON type as its Extended JSON wrapper, so
// documents decode back to the same types without a schema.
type ExtendedJSON struct{}

// Marshal encodes the value to Extended JSON.
func (ExtendedJSON) Marshal(v any) ([]byte, error) { return canonicalEncoder.Marshal(v) }

// Unmarshal decodes the Extended JSON data into v.
func (ExtendedJSON) Unmarshal(data []byte, v any) error { return canonicalDecoder.Unmarshal(data, v) }

// Name returns the unique name of the codec ("extjson").
func (ExtendedJSON) Name() string { return ExtendedJSONName }

// RelaxedJSON writes ordinary JSON: hex ObjectIDs, base64 binaries, ISO8601
// dates and plain numbers. The Go type of the destination recovers the
// original types on Unmarshal; decoding into `any` yields strings.
//
// Integers beyond 2^53 survive this codec but not every JSON consumer.
type RelaxedJSON struct{}

// Marshal encodes the value to plain JSON.
func (RelaxedJSON) Marshal(v any) ([]byte, error) { return relaxedEncoder.Marshal(v) }

// Unmarshal decodes the plain JSON data into v.
func (RelaxedJSON) Unmarshal(data []byte, v any) error { return relaxedDecoder.Unmarshal(data, v) }

// Name returns the unique name of the codec ("relaxed-json").
func (RelaxedJSON) Name() string { return RelaxedJSONName }
