// Package conv provides checked numeric conversion utilities.
//
// These functions perform bounds checking to prevent integer overflow/underflow
// when narrowing values decoded from JSON numbers or Go integers of a wider
// type.
//
// For conversions that are provably safe by domain constraints, use direct
// type casts instead to avoid overhead.
package conv
