package conv

import (
	"fmt"
	"math"
)

// Int64ToInt32 converts int64 to int32 safely.
func Int64ToInt32(v int64) (int32, error) {
	if v < math.MinInt32 || v > math.MaxInt32 {
		return 0, fmt.Errorf("integer overflow: %d cannot be converted to int32", v)
	}
	return int32(v), nil
}

// Uint64ToInt64 converts uint64 to int64 safely.
func Uint64ToInt64(v uint64) (int64, error) {
	if v > math.MaxInt64 {
		return 0, fmt.Errorf("integer overflow: %d cannot be converted to int64 (too large)", v)
	}
	return int64(v), nil
}

// Float64ToInt64 converts an integral float64 to int64.
//
// The conversion fails for NaN, infinities, values with a fractional part and
// values outside the int64 range. 2^63 itself is rejected even though
// float64(math.MaxInt64) rounds to it.
func Float64ToInt64(f float64) (int64, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("float %v cannot be converted to int64 (not finite)", f)
	}
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("float %v cannot be converted to int64 (fractional)", f)
	}
	if f < -(1<<63) || f >= 1<<63 {
		return 0, fmt.Errorf("float %v cannot be converted to int64 (out of range)", f)
	}
	return int64(f), nil
}
