package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type BookingStatus string

var (
	StatusDraft     BookingStatus = "DRAFT"
	StatusActive    BookingStatus = "ACTIVE"
	StatusCompleted BookingStatus = "COMPLETED"
	StatusCancelled BookingStatus = "CANCELLED"
)

// Booking is one rental contract's date window and outcome.
// The pricing engine only ever reads bookings; the contract lifecycle
// is owned elsewhere.
type Booking struct {
	ID         snowflake.ID  `json:"id" gorm:"primaryKey"`
	VehicleID  snowflake.ID  `json:"vehicle_id" gorm:"not null;index"`
	CityID     snowflake.ID  `json:"city_id" gorm:"not null;index"`
	CustomerID *snowflake.ID `json:"customer_id,omitempty" gorm:"index"`
	StartDate  time.Time     `json:"start_date" gorm:"not null"`
	EndDate    time.Time     `json:"end_date" gorm:"not null"`
	Status     BookingStatus `json:"status" gorm:"type:text;not null;index"`
	TotalPrice float64       `json:"total_price" gorm:"type:numeric;not null;default:0"`
	CreatedAt  time.Time     `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt  time.Time     `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Booking) TableName() string { return "bookings" }
