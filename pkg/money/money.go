package money

import "math"

// Round rounds an amount to 2 decimal places.
func Round(amount float64) float64 {
	return math.Round(amount*100) / 100
}

// Clamp bounds amount to [min, max].
func Clamp(amount, min, max float64) float64 {
	if amount < min {
		return min
	}
	if amount > max {
		return max
	}
	return amount
}
