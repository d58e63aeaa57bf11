package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// CityDemandMetrics is the per-city supply/demand cache row. One row per
// city; recomputed once the freshness window lapses. Overwrite races
// between concurrent recomputations are harmless (last writer wins).
type CityDemandMetrics struct {
	ID                snowflake.ID `json:"id" gorm:"primaryKey"`
	CityID            snowflake.ID `json:"city_id" gorm:"not null;uniqueIndex"`
	TotalVehicles     int64        `json:"total_vehicles" gorm:"not null;default:0"`
	AvailableVehicles int64        `json:"available_vehicles" gorm:"not null;default:0"`
	ActiveBookings    int64        `json:"active_bookings" gorm:"not null;default:0"`
	UtilizationRate   float64      `json:"utilization_rate" gorm:"type:numeric;not null;default:0"`
	DemandScore       float64      `json:"demand_score" gorm:"type:numeric;not null;default:1"`
	ComputedAt        time.Time    `json:"computed_at" gorm:"not null"`
}

func (CityDemandMetrics) TableName() string { return "city_demand_metrics" }

// Fresh reports whether the row is still within the freshness window.
func (m CityDemandMetrics) Fresh(now time.Time, window time.Duration) bool {
	return now.Sub(m.ComputedAt) < window
}
