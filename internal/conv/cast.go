package conv

import (
	"fmt"
	"math"
)

// IntToInt32 converts int to int32 safely.
func IntToInt32(v int) (int32, error) {
	if v < math.MinInt32 || v > math.MaxInt32 {
		return 0, fmt.Errorf("integer overflow: %d cannot be converted to int32", v)
	}
	return int32(v), nil
}

// LengthToInt converts an on-disk length prefix to int.
// Negative lengths are rejected.
func LengthToInt(v int32) (int, error) {
	if v < 0 {
		return 0, fmt.Errorf("invalid length: %d is negative", v)
	}
	return int(v), nil
}
