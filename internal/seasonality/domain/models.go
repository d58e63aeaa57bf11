package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// SeasonalFactor is an admin-authored seasonal override. A factor with a
// nil CityID applies globally. Overlapping factors are allowed; the
// highest matching multiplier wins over the default seasonal curve.
type SeasonalFactor struct {
	ID         snowflake.ID  `json:"id" gorm:"primaryKey"`
	Name       string        `json:"name" gorm:"type:text;not null"`
	StartDate  time.Time     `json:"start_date" gorm:"not null;index"`
	EndDate    time.Time     `json:"end_date" gorm:"not null;index"`
	Multiplier float64       `json:"multiplier" gorm:"type:numeric;not null"`
	CityID     *snowflake.ID `json:"city_id,omitempty" gorm:"index"`
	Active     bool          `json:"active" gorm:"not null;default:true"`
	CreatedAt  time.Time     `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt  time.Time     `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (SeasonalFactor) TableName() string { return "seasonal_factors" }

// Matches reports whether the factor covers the date for the city.
// Start and end dates are inclusive.
func (f SeasonalFactor) Matches(date time.Time, cityID snowflake.ID) bool {
	if !f.Active {
		return false
	}
	if f.CityID != nil && *f.CityID != cityID {
		return false
	}
	return !date.Before(f.StartDate) && !date.After(f.EndDate)
}
