package costmodel

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fleetrate/fleetrate/internal/config"
	vehicledomain "github.com/fleetrate/fleetrate/internal/vehicle/domain"
)

func testModel() *Model {
	return New(config.Config{
		Pricing: config.PricingConfig{
			ProfitMargin:     1.40,
			UsefulLifeYears:  10,
			DefaultBasePrice: 50,
			MinPriceFactor:   0.6,
			MaxPriceFactor:   2.5,
		},
	})
}

func fptr(v float64) *float64 { return &v }

func TestBasePricePerDay_ManualOverrideWins(t *testing.T) {
	m := testModel()
	v := vehicledomain.Vehicle{
		BasePricePerDay:    fptr(42.5),
		DailyOperatingCost: 100,
		PurchasePrice:      90000,
	}
	assert.Equal(t, 42.5, m.BasePricePerDay(v))
}

func TestBasePricePerDay_CostDerived(t *testing.T) {
	m := testModel()
	v := vehicledomain.Vehicle{
		DailyOperatingCost:   10,
		MonthlyFinancingCost: 300,
		PurchasePrice:        36500,
	}
	// 10 + 300/30 + 36500/10/365 = 30, with margin 1.4 -> 42.00
	assert.Equal(t, 42.0, m.BasePricePerDay(v))
}

func TestBasePricePerDay_FallsBackToFlatPrice(t *testing.T) {
	m := testModel()
	v := vehicledomain.Vehicle{FlatPricePerDay: 35}
	assert.Equal(t, 35.0, m.BasePricePerDay(v))
}

func TestBasePricePerDay_DefaultWhenNothingStored(t *testing.T) {
	m := testModel()
	assert.Equal(t, 50.0, m.BasePricePerDay(vehicledomain.Vehicle{}))
}

func TestRecommendConstraints(t *testing.T) {
	m := testModel()
	min, max := m.RecommendConstraints(40)
	assert.Equal(t, 24.0, min)
	assert.Equal(t, 100.0, max)
}
