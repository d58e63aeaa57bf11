package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PricingSnapshot is the immutable analytics record of one completed
// price calculation. Rows are only ever inserted and eventually removed
// by the retention sweep; nothing reads them back into a calculation.
type PricingSnapshot struct {
	ID                    snowflake.ID      `json:"id" gorm:"primaryKey"`
	VehicleID             snowflake.ID      `json:"vehicle_id" gorm:"not null;index"`
	CityID                snowflake.ID      `json:"city_id" gorm:"not null;index"`
	StartDate             time.Time         `json:"start_date" gorm:"not null"`
	DurationDays          int               `json:"duration_days" gorm:"not null"`
	BasePrice             float64           `json:"base_price" gorm:"not null"`
	DemandMultiplier      float64           `json:"demand_multiplier" gorm:"not null"`
	SeasonalMultiplier    float64           `json:"seasonal_multiplier" gorm:"not null"`
	UtilizationMultiplier float64           `json:"utilization_multiplier" gorm:"not null"`
	MaintenanceMultiplier float64           `json:"maintenance_multiplier" gorm:"not null"`
	DurationMultiplier    float64           `json:"duration_multiplier" gorm:"not null"`
	LoyaltyMultiplier     float64           `json:"loyalty_multiplier" gorm:"not null"`
	FinalPricePerDay      float64           `json:"final_price_per_day" gorm:"not null"`
	AvailableVehicles     int64             `json:"available_vehicles" gorm:"not null"`
	ConcurrentBookings    int64             `json:"concurrent_bookings" gorm:"not null"`
	AppliedRules          datatypes.JSONMap `json:"applied_rules,omitempty"`
	CreatedAt             time.Time         `json:"created_at" gorm:"not null;index"`
}

func (PricingSnapshot) TableName() string { return "pricing_snapshots" }

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, snapshot *PricingSnapshot) error
	ListByVehicle(ctx context.Context, db *gorm.DB, vehicleID snowflake.ID, limit int) ([]PricingSnapshot, error)
	// DeleteOlderThan removes snapshots created before cutoff and
	// returns the number of rows deleted.
	DeleteOlderThan(ctx context.Context, db *gorm.DB, cutoff time.Time) (int64, error)
}
