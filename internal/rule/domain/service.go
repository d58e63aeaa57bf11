package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

var (
	ErrInvalidRuleName   = errors.New("invalid_rule_name")
	ErrInvalidRuleEffect = errors.New("invalid_rule_effect")
	ErrInvalidRuleWindow = errors.New("invalid_rule_window")
	ErrRuleNotFound      = errors.New("rule_not_found")
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, rule *PricingRule) error
	List(ctx context.Context, db *gorm.DB) ([]PricingRule, error)
	// ListMatching returns active rules scoped to the vehicle, its city,
	// or globally, whose date window (if any) overlaps [start, end],
	// ordered by ascending priority.
	ListMatching(ctx context.Context, db *gorm.DB, vehicleID, cityID snowflake.ID, start, end time.Time) ([]PricingRule, error)
	Deactivate(ctx context.Context, db *gorm.DB, id snowflake.ID) (bool, error)
}

// Service resolves admin override rules on top of a computed price.
type Service interface {
	// Resolve applies every matching active rule to price in ascending
	// priority order and returns the adjusted price with the effects
	// that changed it. Resolver failures degrade to the original price
	// with no rules applied.
	Resolve(ctx context.Context, vehicleID, cityID snowflake.ID, start, end time.Time, price float64) (float64, []AppliedRule)
	Create(ctx context.Context, rule *PricingRule) (*PricingRule, error)
	List(ctx context.Context) ([]PricingRule, error)
	Deactivate(ctx context.Context, id snowflake.ID) error
}
