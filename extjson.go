package extjson

import (
	"github.com/hupe1980/extjson/document"
	"github.com/hupe1980/extjson/jsontree"
)

// Encode converts v into a JSON tree using the given strategies.
func Encode(v document.Value, s Strategies) (*jsontree.Node, error) {
	return NewEncoder(WithStrategies(s)).Encode(v)
}

// Decode converts n into a document value using the given strategies.
// hint may be nil.
func Decode(n *jsontree.Node, s Strategies, hint *Hint) (document.Value, error) {
	return NewDecoder(WithStrategies(s)).Decode(n, hint)
}

// Marshal renders v as canonical Extended JSON text.
func Marshal(v any) ([]byte, error) {
	return NewEncoder().Marshal(v)
}

// MarshalIndent is like Marshal but indents the output.
func MarshalIndent(v any, prefix, indent string) ([]byte, error) {
	return NewEncoder().MarshalIndent(v, prefix, indent)
}

// Unmarshal parses Extended JSON text into out.
func Unmarshal(data []byte, out any) error {
	return NewDecoder().Unmarshal(data, out)
}
