package carbon

import (
	"fmt"
	"math"
)

// formatFloat formats a float for display.
// If the float is an integer, it is formatted as an integer.
// Otherwise, it is formatted with 2 decimal places.
func formatFloat(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return fmt.Sprintf("%d", int64(f))
	}
	return fmt.Sprintf("%.2f", f)
}

// Clamp restricts a value to the range [min, max].
func Clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// validateQuantity rejects NaN, infinite and negative quantities.
func validateQuantity(name string, q float64) error {
	if math.IsNaN(q) || math.IsInf(q, 0) {
		return fmt.Errorf("%w: %s must be finite, got %v", ErrInvalidQuantity, name, q)
	}
	if q < 0 {
		return fmt.Errorf("%w: %s must be >= 0, got %s", ErrInvalidQuantity, name, formatFloat(q))
	}
	return nil
}
