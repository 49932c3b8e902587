// Package codec exposes the Extended JSON encoders behind a small byte-level
// interface, with optional block compression.
//
// Codec names are stable: a stored payload that records its codec name can be
// decoded later by selecting the codec with ByName.
package codec

import "fmt"

// Codec encodes/decodes values.
// Implementations must be safe for concurrent use.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

// ByName returns a built-in codec by its stable name.
func ByName(name string) (Codec, bool) {
	switch name {
	case ExtendedJSONName:
		return ExtendedJSON{}, true
	case RelaxedJSONName:
		return RelaxedJSON{}, true
	case BSONName:
		return BSON{}, true
	case ExtendedJSONName + "+" + string(CompressionZSTD):
		return NewCompressed(ExtendedJSON{}, CompressionZSTD), true
	case ExtendedJSONName + "+" + string(CompressionLZ4):
		return NewCompressed(ExtendedJSON{}, CompressionLZ4), true
	default:
		return nil, false
	}
}

// Default is the codec used when none is configured.
var Default Codec = ExtendedJSON{}

// MustMarshal is a helper for tests and benchmarks.
func MustMarshal(c Codec, v any) []byte {
	if c == nil {
		c = Default
	}
	b, err := c.Marshal(v)
	if err != nil {
		panic(fmt.Errorf("codec %s marshal failed: %w", c.Name(), err))
	}
	return b
}
