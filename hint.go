package extjson

import "github.com/hupe1980/extjson/document"

// Hint tells the decoder which document kind a JSON value is expected to
// have. Relaxed encodings (hex ObjectIDs, base64 binaries, ISO8601 and
// numeric dates, plain int64 numbers) are only recovered under a hint; without
// one a bare string always decodes to a string.
//
// A nil *Hint and a zero Kind both mean "no expectation".
type Hint struct {
	Kind document.Kind
	// Fields holds hints for the members of a document, by key.
	Fields map[string]*Hint
	// Items holds per-position hints for array elements.
	Items []*Hint
	// Elem is the hint for array elements beyond Items.
	Elem *Hint
}

// KindHint returns a hint for a single value kind.
func KindHint(k document.Kind) *Hint { return &Hint{Kind: k} }

// DocumentHint returns a hint for a document with per-key member hints.
func DocumentHint(fields map[string]*Hint) *Hint {
	return &Hint{Kind: document.KindDocument, Fields: fields}
}

// ArrayHint returns a hint for an array whose elements all follow elem.
func ArrayHint(elem *Hint) *Hint {
	return &Hint{Kind: document.KindArray, Elem: elem}
}

// TupleHint returns a hint for an array with one hint per position.
func TupleHint(items ...*Hint) *Hint {
	return &Hint{Kind: document.KindArray, Items: items}
}

// HintFor derives a hint from an example value: the value's kind, the hints
// of its document members and one hint per array position. Decoding
// Encode(v) under HintFor(v) recovers v for every strategy except the lossy
// ones (binary subtypes under base64, custom functions without a decoder).
func HintFor(v document.Value) *Hint {
	switch v.Kind {
	case document.KindAbsent, document.KindNull:
		return nil
	case document.KindDocument:
		fields := make(map[string]*Hint, len(v.D))
		for _, el := range v.D {
			if h := HintFor(el.Value); h != nil {
				fields[el.Key] = h
			}
		}
		return DocumentHint(fields)
	case document.KindArray:
		items := make([]*Hint, len(v.A))
		for i := range v.A {
			items[i] = HintFor(v.A[i])
		}
		return TupleHint(items...)
	default:
		return KindHint(v.Kind)
	}
}

func (h *Hint) kind() document.Kind {
	if h == nil {
		return document.KindAbsent
	}
	return h.Kind
}

func (h *Hint) field(key string) *Hint {
	if h == nil {
		return nil
	}
	return h.Fields[key]
}

func (h *Hint) item(i int) *Hint {
	if h == nil {
		return nil
	}
	if i < len(h.Items) {
		return h.Items[i]
	}
	return h.Elem
}
