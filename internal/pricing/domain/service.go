package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"

	ruledomain "github.com/fleetrate/fleetrate/internal/rule/domain"
)

var (
	ErrVehicleNotAvailable = errors.New("vehicle_not_available")
	ErrInvalidDateRange    = errors.New("invalid_date_range")
)

// QuoteRequest describes one price calculation.
type QuoteRequest struct {
	VehicleID  snowflake.ID  `json:"vehicle_id"`
	StartDate  time.Time     `json:"start_date"`
	EndDate    time.Time     `json:"end_date"`
	CustomerID *snowflake.ID `json:"customer_id,omitempty"`
	Persist    bool          `json:"persist"`
}

// Breakdown exposes every factor that produced the final price.
type Breakdown struct {
	BasePrice             float64                  `json:"base_price"`
	DemandMultiplier      float64                  `json:"demand_multiplier"`
	SeasonalMultiplier    float64                  `json:"seasonal_multiplier"`
	UtilizationMultiplier float64                  `json:"utilization_multiplier"`
	MaintenanceMultiplier float64                  `json:"maintenance_multiplier"`
	DurationMultiplier    float64                  `json:"duration_multiplier"`
	LoyaltyMultiplier     float64                  `json:"loyalty_multiplier"`
	ConstraintsApplied    bool                     `json:"constraints_applied"`
	AppliedRules          []ruledomain.AppliedRule `json:"applied_rules,omitempty"`
}

// Quote is the result of one calculation.
type Quote struct {
	VehicleID    snowflake.ID `json:"vehicle_id"`
	CityID       snowflake.ID `json:"city_id"`
	PricePerDay  float64      `json:"price_per_day"`
	TotalPrice   float64      `json:"total_price"`
	DurationDays int          `json:"duration_days"`
	Breakdown    Breakdown    `json:"breakdown"`
}

// PreviewItem is one vehicle's entry in a bulk preview. Degraded marks
// entries that fell back to the flat price after a per-vehicle failure.
type PreviewItem struct {
	VehicleID   snowflake.ID `json:"vehicle_id"`
	PricePerDay float64      `json:"price_per_day"`
	TotalPrice  float64      `json:"total_price"`
	Degraded    bool         `json:"degraded"`
	Breakdown   *Breakdown   `json:"breakdown,omitempty"`
}

// Service is the pricing orchestrator.
type Service interface {
	// Calculate composes base price, multipliers, constraint clamp and
	// rule resolution into a quote. Only a missing vehicle, an
	// ineligible vehicle, or a non-positive duration fail; every other
	// internal error degrades and a price is still returned.
	Calculate(ctx context.Context, req QuoteRequest) (*Quote, error)
	// Preview prices a batch of vehicles for one date range without
	// persistence, substituting flat price for vehicles that fail.
	Preview(ctx context.Context, vehicleIDs []snowflake.ID, start, end time.Time) ([]PreviewItem, error)
}
