package extjson

import (
	"strconv"
	"strings"
)

// PathElement is one step from a parent container to a child: an object key
// or an array index.
type PathElement struct {
	Key   string
	Index int
	// IsIndex reports whether the element is an array index.
	IsIndex bool
}

// Path is the sequence of keys and indices from the root of a tree.
type Path []PathElement

// String renders the path in JSONPath-like notation, e.g. $.items[2].name.
// Keys that are not plain identifiers are quoted: $["a.b"].
func (p Path) String() string {
	var b strings.Builder
	b.WriteByte('$')
	for _, e := range p {
		switch {
		case e.IsIndex:
			b.WriteByte('[')
			b.WriteString(strconv.Itoa(e.Index))
			b.WriteByte(']')
		case isPlainKey(e.Key):
			b.WriteByte('.')
			b.WriteString(e.Key)
		default:
			b.WriteByte('[')
			b.WriteString(strconv.Quote(e.Key))
			b.WriteByte(']')
		}
	}
	return b.String()
}

func (p Path) clone() Path {
	if len(p) == 0 {
		return nil
	}
	return append(Path(nil), p...)
}

func isPlainKey(k string) bool {
	if k == "" {
		return false
	}
	for i := 0; i < len(k); i++ {
		c := k[i]
		switch {
		case c == '_' || c == '$':
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
