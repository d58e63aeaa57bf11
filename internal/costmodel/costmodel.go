// Package costmodel derives a vehicle's foundational daily price from
// its cost structure.
package costmodel

import (
	"github.com/fleetrate/fleetrate/internal/config"
	vehicledomain "github.com/fleetrate/fleetrate/internal/vehicle/domain"
	"github.com/fleetrate/fleetrate/pkg/money"
)

const (
	daysPerYear  = 365.0
	daysPerMonth = 30.0
)

type Model struct {
	cfg config.PricingConfig
}

func New(cfg config.Config) *Model {
	return &Model{cfg: cfg.Pricing}
}

// BasePricePerDay returns the cost-derived daily price. A positive
// manually-set base price always wins. Depreciation is straight-line
// over the configured useful life; vehicle age does not decay it.
func (m *Model) BasePricePerDay(v vehicledomain.Vehicle) float64 {
	if v.BasePricePerDay != nil && *v.BasePricePerDay > 0 {
		return *v.BasePricePerDay
	}

	cost := v.DailyOperatingCost
	cost += v.MonthlyFinancingCost / daysPerMonth

	if v.PurchasePrice > 0 {
		cost += v.PurchasePrice / m.cfg.UsefulLifeYears / daysPerYear
	}

	price := money.Round(cost * m.cfg.ProfitMargin)
	if price > 0 {
		return price
	}

	if v.FlatPricePerDay > 0 {
		return v.FlatPricePerDay
	}
	return m.cfg.DefaultBasePrice
}

// RecommendConstraints proposes the min/max daily-price band for a base price.
func (m *Model) RecommendConstraints(base float64) (min, max float64) {
	return money.Round(base * m.cfg.MinPriceFactor), money.Round(base * m.cfg.MaxPriceFactor)
}

