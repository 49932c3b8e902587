package jsontree

import (
	"math"
	"strconv"
	"strings"
)

// Kind identifies the JSON type of a Node.
type Kind uint8

const (
	// KindNull is the JSON null literal.
	KindNull Kind = iota
	// KindBool is true or false.
	KindBool
	// KindNumber is a JSON number; its text is kept verbatim.
	KindNumber
	// KindString is a JSON string.
	KindString
	// KindArray is an ordered list of nodes.
	KindArray
	// KindObject is an ordered list of key/value members.
	KindObject
)

// String returns the JSON name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "invalid"
	}
}

// Node is a single JSON value.
type Node struct {
	Kind    Kind
	Bool    bool
	Num     string
	Str     string
	Items   []*Node
	Members []Member
}

// Member is one key/value entry of an object.
type Member struct {
	Key   string
	Value *Node
}

// M returns a Member.
func M(key string, v *Node) Member { return Member{Key: key, Value: v} }

// Null returns a null node.
func Null() *Node { return &Node{Kind: KindNull} }

// Bool returns a boolean node.
func Bool(b bool) *Node { return &Node{Kind: KindBool, Bool: b} }

// Number returns a number node holding text verbatim.
// Marshal rejects text that is not a valid JSON number.
func Number(text string) *Node { return &Node{Kind: KindNumber, Num: text} }

// Int returns a number node for an integer.
func Int(i int64) *Node { return Number(strconv.FormatInt(i, 10)) }

// Float returns a number node for a float64.
//
// The text always carries a fraction or exponent (1.0, not 1), so readers
// that inspect the text can tell it apart from an integer. NaN and the
// infinities have no JSON form; Marshal reports them as errors.
func Float(f float64) *Node { return Number(FormatFloat(f)) }

// String returns a string node.
func String(s string) *Node { return &Node{Kind: KindString, Str: s} }

// Array returns an array node.
func Array(items ...*Node) *Node { return &Node{Kind: KindArray, Items: items} }

// Object returns an object node.
func Object(members ...Member) *Node { return &Node{Kind: KindObject, Members: members} }

// FormatFloat renders f the way Float does.
func FormatFloat(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	format := byte('f')
	if abs := math.Abs(f); abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		format = 'e'
	}
	s := strconv.FormatFloat(f, format, -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// Get returns the value of the first member named key.
func (n *Node) Get(key string) (*Node, bool) {
	if n == nil || n.Kind != KindObject {
		return nil, false
	}
	for i := range n.Members {
		if n.Members[i].Key == key {
			return n.Members[i].Value, true
		}
	}
	return nil, false
}

// Keys returns the member keys of an object in order.
func (n *Node) Keys() []string {
	if n == nil || n.Kind != KindObject {
		return nil
	}
	keys := make([]string, len(n.Members))
	for i := range n.Members {
		keys[i] = n.Members[i].Key
	}
	return keys
}

// IsIntegral reports whether a number node's text has neither a fraction nor
// an exponent.
func (n *Node) IsIntegral() bool {
	return n != nil && n.Kind == KindNumber && !strings.ContainsAny(n.Num, ".eE")
}

// Int64 parses a number node as an integer.
func (n *Node) Int64() (int64, error) {
	return strconv.ParseInt(n.Num, 10, 64)
}

// Float64 parses a number node as a float64.
func (n *Node) Float64() (float64, error) {
	return strconv.ParseFloat(n.Num, 64)
}

// Equal reports whether n and o are structurally identical.
// Numbers compare by text; object members compare in order.
func (n *Node) Equal(o *Node) bool {
	if n == nil || o == nil {
		return n == o
	}
	if n.Kind != o.Kind {
		return false
	}
	switch n.Kind {
	case KindBool:
		return n.Bool == o.Bool
	case KindNumber:
		return n.Num == o.Num
	case KindString:
		return n.Str == o.Str
	case KindArray:
		if len(n.Items) != len(o.Items) {
			return false
		}
		for i := range n.Items {
			if !n.Items[i].Equal(o.Items[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if len(n.Members) != len(o.Members) {
			return false
		}
		for i := range n.Members {
			if n.Members[i].Key != o.Members[i].Key || !n.Members[i].Value.Equal(o.Members[i].Value) {
				return false
			}
		}
		return true
	default:
		return true
	}
}
