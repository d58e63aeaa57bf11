package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type VehicleStatus string

var (
	StatusAvailable   VehicleStatus = "AVAILABLE"
	StatusMaintenance VehicleStatus = "MAINTENANCE"
	StatusRetired     VehicleStatus = "RETIRED"
)

// City is a fleet location vehicles are leased from.
type City struct {
	ID        snowflake.ID `json:"id" gorm:"primaryKey"`
	Name      string       `json:"name" gorm:"type:text;not null"`
	Country   string       `json:"country" gorm:"type:text"`
	CreatedAt time.Time    `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time    `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (City) TableName() string { return "cities" }

// Vehicle carries the pricing profile of one fleet vehicle.
//
// Utilization and maintenance fields are mutated only by the pricing
// subsystem's background recomputation; everything else is owned by
// fleet inventory.
type Vehicle struct {
	ID                    snowflake.ID  `json:"id" gorm:"primaryKey"`
	CityID                snowflake.ID  `json:"city_id" gorm:"not null;index"`
	Make                  string        `json:"make" gorm:"type:text"`
	Model                 string        `json:"model" gorm:"type:text"`
	Status                VehicleStatus `json:"status" gorm:"type:text;not null;default:AVAILABLE"`
	FlatPricePerDay       float64       `json:"flat_price_per_day" gorm:"type:numeric;not null"`
	BasePricePerDay       *float64      `json:"base_price_per_day,omitempty" gorm:"type:numeric"`
	MinPricePerDay        *float64      `json:"min_price_per_day,omitempty" gorm:"type:numeric"`
	MaxPricePerDay        *float64      `json:"max_price_per_day,omitempty" gorm:"type:numeric"`
	DynamicPricingEnabled bool          `json:"dynamic_pricing_enabled" gorm:"not null;default:false"`
	DailyOperatingCost    float64       `json:"daily_operating_cost" gorm:"type:numeric;not null;default:0"`
	MonthlyFinancingCost  float64       `json:"monthly_financing_cost" gorm:"type:numeric;not null;default:0"`
	PurchasePrice         float64       `json:"purchase_price" gorm:"type:numeric;not null;default:0"`
	AcquiredAt            *time.Time    `json:"acquired_at,omitempty"`
	MaintenanceScore      *float64      `json:"maintenance_score,omitempty" gorm:"type:numeric;default:100"`
	UtilizationRate       *float64      `json:"utilization_rate,omitempty" gorm:"type:numeric"`
	UtilizationUpdatedAt  *time.Time    `json:"utilization_updated_at,omitempty"`
	OdometerKM            int64         `json:"odometer_km" gorm:"not null;default:0"`
	CreatedAt             time.Time     `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt             time.Time     `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Vehicle) TableName() string { return "vehicles" }

// Leasable reports whether the vehicle counts toward city supply.
func (v Vehicle) Leasable() bool {
	return v.Status == StatusAvailable
}
