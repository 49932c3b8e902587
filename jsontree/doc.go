// Package jsontree provides an ordered, text-preserving JSON value tree.
//
// Objects keep their members in source order and may hold duplicate keys;
// numbers keep their source text so that 64-bit integers survive a parse and
// render without passing through float64.
//
//	n, err := jsontree.Parse([]byte(`{"a": 1, "b": [true, null]}`))
//	out, err := jsontree.Marshal(n)
//
// Trees are plain values: build them with the constructors (Object, Array,
// String, Int, Float, ...) and walk them through the exported fields.
package jsontree
