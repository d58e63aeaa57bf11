package seed

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	bookingdomain "github.com/fleetrate/fleetrate/internal/booking/domain"
	customerdomain "github.com/fleetrate/fleetrate/internal/customer/domain"
	vehicledomain "github.com/fleetrate/fleetrate/internal/vehicle/domain"
)

const (
	demoCityName    = "Berlin"
	demoCityCountry = "DE"
)

func floatPtr(v float64) *float64 { return &v }

// EnsureDemoFleet seeds a small city fleet with a handful of bookings
// so a fresh local install produces non-trivial quotes. It is a no-op
// when any city already exists.
func EnsureDemoFleet(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&vehicledomain.City{}).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		now := time.Now().UTC()

		city := vehicledomain.City{
			ID:      node.Generate(),
			Name:    demoCityName,
			Country: demoCityCountry,
		}
		if err := tx.Create(&city).Error; err != nil {
			return err
		}

		customer := customerdomain.Customer{
			ID:    node.Generate(),
			Email: "demo@fleetrate.dev",
			Name:  "Demo Customer",
		}
		if err := tx.Create(&customer).Error; err != nil {
			return err
		}

		vehicles := []vehicledomain.Vehicle{
			{
				ID:                    node.Generate(),
				CityID:                city.ID,
				Make:                  "Volkswagen",
				Model:                 "Golf",
				Status:                vehicledomain.StatusAvailable,
				FlatPricePerDay:       45,
				DynamicPricingEnabled: true,
				DailyOperatingCost:    8,
				MonthlyFinancingCost:  240,
				PurchasePrice:         28000,
				MaintenanceScore:      floatPtr(92),
			},
			{
				ID:                    node.Generate(),
				CityID:                city.ID,
				Make:                  "Tesla",
				Model:                 "Model 3",
				Status:                vehicledomain.StatusAvailable,
				FlatPricePerDay:       85,
				BasePricePerDay:       floatPtr(80),
				MinPricePerDay:        floatPtr(55),
				MaxPricePerDay:        floatPtr(160),
				DynamicPricingEnabled: true,
				DailyOperatingCost:    6,
				MonthlyFinancingCost:  520,
				PurchasePrice:         48000,
				MaintenanceScore:      floatPtr(97),
			},
			{
				ID:                   node.Generate(),
				CityID:               city.ID,
				Make:                 "Opel",
				Model:                "Corsa",
				Status:               vehicledomain.StatusAvailable,
				FlatPricePerDay:      35,
				DailyOperatingCost:   7,
				MonthlyFinancingCost: 180,
				PurchasePrice:        19000,
				MaintenanceScore:     floatPtr(88),
			},
		}
		for i := range vehicles {
			if err := tx.Create(&vehicles[i]).Error; err != nil {
				return err
			}
		}

		booking := bookingdomain.Booking{
			ID:         node.Generate(),
			VehicleID:  vehicles[0].ID,
			CityID:     city.ID,
			CustomerID: &customer.ID,
			StartDate:  now.AddDate(0, 0, -10),
			EndDate:    now.AddDate(0, 0, -3),
			Status:     bookingdomain.StatusCompleted,
			TotalPrice: 315,
		}
		return tx.Create(&booking).Error
	})
}
