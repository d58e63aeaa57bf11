package domain

// DurationMultiplier maps rental length in days to its bulk discount.
func DurationMultiplier(days int) float64 {
	switch {
	case days <= 2:
		return 1.0
	case days <= 6:
		return 0.95
	case days <= 13:
		return 0.88
	case days <= 20:
		return 0.82
	case days <= 29:
		return 0.75
	default:
		return 0.65
	}
}
