package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDurationMultiplier_Bands(t *testing.T) {
	cases := []struct {
		days int
		want float64
	}{
		{1, 1.0},
		{2, 1.0},
		{3, 0.95},
		{6, 0.95},
		{7, 0.88},
		{13, 0.88},
		{14, 0.82},
		{20, 0.82},
		{21, 0.75},
		{29, 0.75},
		{30, 0.65},
		{120, 0.65},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, DurationMultiplier(tc.days), "days=%d", tc.days)
	}
}

func TestDurationMultiplier_MonotonicNonIncreasing(t *testing.T) {
	prev := DurationMultiplier(1)
	for days := 2; days <= 60; days++ {
		current := DurationMultiplier(days)
		assert.LessOrEqual(t, current, prev, "days=%d", days)
		prev = current
	}
}
