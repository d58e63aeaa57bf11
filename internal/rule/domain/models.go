package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// PricingRule is an admin-authored override layered onto the computed
// dynamic price. A rule carries either a fixed price or a multiplier,
// never both, plus an optional clamp of its own. Nil vehicle and city
// scopes mean the rule applies globally; a nil date bound leaves that
// side of the window open.
type PricingRule struct {
	ID          snowflake.ID      `json:"id" gorm:"primaryKey"`
	Name        string            `json:"name" gorm:"type:text;not null"`
	Description string            `json:"description" gorm:"type:text"`
	VehicleID   *snowflake.ID     `json:"vehicle_id,omitempty" gorm:"index"`
	CityID      *snowflake.ID     `json:"city_id,omitempty" gorm:"index"`
	StartDate   *time.Time        `json:"start_date,omitempty"`
	EndDate     *time.Time        `json:"end_date,omitempty"`
	Priority    int               `json:"priority" gorm:"not null;default:0"`
	FixedPrice  *float64          `json:"fixed_price,omitempty"`
	Multiplier  *float64          `json:"multiplier,omitempty"`
	MinPrice    *float64          `json:"min_price,omitempty"`
	MaxPrice    *float64          `json:"max_price,omitempty"`
	Active      bool              `json:"active" gorm:"not null;default:true;index"`
	Metadata    datatypes.JSONMap `json:"metadata,omitempty"`
	CreatedAt   time.Time         `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt   time.Time         `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (PricingRule) TableName() string { return "pricing_rules" }

// AppliedRule records one rule's effect on a quote, kept only when the
// rule actually moved the price.
type AppliedRule struct {
	RuleID      snowflake.ID `json:"rule_id"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Delta       float64      `json:"delta"`
}
