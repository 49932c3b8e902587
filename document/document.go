package document

// Element is a single key/value entry of a Document.
type Element struct {
	Key   string
	Value Value
}

// E returns an Element.
func E(key string, v Value) Element { return Element{Key: key, Value: v} }

// Document is an ordered list of key/value elements.
type Document []Element

// Lookup returns the value of the first element with the given key.
//
// An element holding the absent value is reported as not found, matching how
// a decoder sees a key that was omitted.
func (d Document) Lookup(key string) (Value, bool) {
	for i := range d {
		if d[i].Key == key {
			if d[i].Value.IsAbsent() {
				return Value{}, false
			}
			return d[i].Value, true
		}
	}
	return Value{}, false
}

// Set replaces the value of the first element with key, or appends a new element.
func (d Document) Set(key string, v Value) Document {
	for i := range d {
		if d[i].Key == key {
			d[i].Value = v
			return d
		}
	}
	return append(d, Element{Key: key, Value: v})
}

// Keys returns the element keys in order.
func (d Document) Keys() []string {
	keys := make([]string, len(d))
	for i := range d {
		keys[i] = d[i].Key
	}
	return keys
}

// Equal reports whether both documents hold equal elements in the same order.
func (d Document) Equal(o Document) bool {
	if len(d) != len(o) {
		return false
	}
	for i := range d {
		if d[i].Key != o[i].Key || !d[i].Value.Equal(o[i].Value) {
			return false
		}
	}
	return true
}

// Clone creates a deep copy of the document.
func (d Document) Clone() Document {
	if d == nil {
		return nil
	}
	clone := make(Document, len(d))
	for i := range d {
		clone[i] = Element{Key: d[i].Key, Value: d[i].Value.Clone()}
	}
	return clone
}
