package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Customer is the rental customer referenced by bookings. Pricing reads
// it only to anchor loyalty lookups.
type Customer struct {
	ID        snowflake.ID `json:"id" gorm:"primaryKey"`
	Email     string       `json:"email" gorm:"type:text;not null"`
	Name      string       `json:"name" gorm:"type:text"`
	CreatedAt time.Time    `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time    `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Customer) TableName() string { return "customers" }
