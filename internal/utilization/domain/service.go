package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

// Service recomputes per-vehicle occupancy from booking history. The
// multiplier mappings themselves are pure functions in this package.
type Service interface {
	// Recompute derives the vehicle's utilization rate over the lookback
	// window and persists it with a timestamp. A vehicle with no
	// bookings in the window gets rate 0, not null.
	Recompute(ctx context.Context, vehicleID snowflake.ID) (float64, error)
	// RecomputeAll sweeps every eligible vehicle, logging and skipping
	// per-vehicle failures. Returns the number of vehicles updated.
	RecomputeAll(ctx context.Context) (int, error)
}

// RateMultiplier maps a stored utilization rate to its discrete price
// multiplier. A never-computed rate is neutral.
func RateMultiplier(rate *float64) float64 {
	if rate == nil {
		return 1.0
	}
	switch r := *rate; {
	case r < 0.3:
		return 0.75
	case r < 0.5:
		return 0.85
	case r > 0.9:
		return 1.25
	case r > 0.75:
		return 1.1
	default:
		return 1.0
	}
}

// MaintenanceMultiplier maps the maintenance condition score to its
// price adjustment. A missing score is neutral.
func MaintenanceMultiplier(score *float64) float64 {
	if score == nil {
		return 1.0
	}
	switch s := *score; {
	case s >= 95:
		return 1.05
	case s >= 85:
		return 1.0
	case s >= 70:
		return 0.95
	default:
		return 0.85
	}
}
