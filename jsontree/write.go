package jsontree

import (
	"fmt"

	gojson "github.com/goccy/go-json"
)

// Marshal renders n as compact JSON text. A nil node renders as null.
func Marshal(n *Node) ([]byte, error) {
	w := &writer{}
	if err := w.node(n, 0); err != nil {
		return nil, err
	}
	return w.buf, nil
}

// MarshalIndent renders n like Marshal but places each array element and
// object member on its own line, starting with prefix and indented by indent.
func MarshalIndent(n *Node, prefix, indent string) ([]byte, error) {
	w := &writer{prefix: prefix, indent: indent, pretty: true}
	if err := w.node(n, 0); err != nil {
		return nil, err
	}
	return w.buf, nil
}

// String renders n as compact JSON text, or an error marker if it cannot
// be rendered.
func (n *Node) String() string {
	b, err := Marshal(n)
	if err != nil {
		return fmt.Sprintf("%%!jsontree(%v)", err)
	}
	return string(b)
}

type writer struct {
	buf    []byte
	prefix string
	indent string
	pretty bool
}

func (w *writer) newline(depth int) {
	if !w.pretty {
		return
	}
	w.buf = append(w.buf, '\n')
	w.buf = append(w.buf, w.prefix...)
	for i := 0; i < depth; i++ {
		w.buf = append(w.buf, w.indent...)
	}
}

func (w *writer) quote(s string) error {
	q, err := gojson.Marshal(s)
	if err != nil {
		return err
	}
	w.buf = append(w.buf, q...)
	return nil
}

func (w *writer) node(n *Node, depth int) error {
	if n == nil {
		w.buf = append(w.buf, "null"...)
		return nil
	}
	switch n.Kind {
	case KindNull:
		w.buf = append(w.buf, "null"...)
	case KindBool:
		if n.Bool {
			w.buf = append(w.buf, "true"...)
		} else {
			w.buf = append(w.buf, "false"...)
		}
	case KindNumber:
		if !ValidNumber(n.Num) {
			return fmt.Errorf("jsontree: invalid number %q", n.Num)
		}
		w.buf = append(w.buf, n.Num...)
	case KindString:
		return w.quote(n.Str)
	case KindArray:
		w.buf = append(w.buf, '[')
		for i, item := range n.Items {
			if i > 0 {
				w.buf = append(w.buf, ',')
			}
			w.newline(depth + 1)
			if err := w.node(item, depth+1); err != nil {
				return err
			}
		}
		if len(n.Items) > 0 {
			w.newline(depth)
		}
		w.buf = append(w.buf, ']')
	case KindObject:
		w.buf = append(w.buf, '{')
		for i, m := range n.Members {
			if i > 0 {
				w.buf = append(w.buf, ',')
			}
			w.newline(depth + 1)
			if err := w.quote(m.Key); err != nil {
				return err
			}
			w.buf = append(w.buf, ':')
			if w.pretty {
				w.buf = append(w.buf, ' ')
			}
			if err := w.node(m.Value, depth+1); err != nil {
				return err
			}
		}
		if len(n.Members) > 0 {
			w.newline(depth)
		}
		w.buf = append(w.buf, '}')
	default:
		return fmt.Errorf("jsontree: invalid node kind %d", n.Kind)
	}
	return nil
}
