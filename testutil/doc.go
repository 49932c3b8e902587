// Package testutil provides testing utilities for extjson.
//
// This package is intended for use in tests and benchmarks only.
// It generates reproducible random document values for round-trip tests.
//
// # Random Values
//
//	rng := testutil.NewRNG(seed)
//	v := rng.Value(3)             // any kind, nested up to depth 3
//	d := rng.Document(8, 2)       // 8 elements, nested up to depth 2
//	d = rng.SparseDocument(8, 0.3) // ~30% of the elements absent
package testutil
