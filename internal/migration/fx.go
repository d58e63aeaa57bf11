package migration

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/fleetrate/fleetrate/internal/config"
	"github.com/fleetrate/fleetrate/internal/seed"

	bookingdomain "github.com/fleetrate/fleetrate/internal/booking/domain"
	customerdomain "github.com/fleetrate/fleetrate/internal/customer/domain"
	demanddomain "github.com/fleetrate/fleetrate/internal/demand/domain"
	ruledomain "github.com/fleetrate/fleetrate/internal/rule/domain"
	seasonalitydomain "github.com/fleetrate/fleetrate/internal/seasonality/domain"
	snapshotdomain "github.com/fleetrate/fleetrate/internal/snapshot/domain"
	vehicledomain "github.com/fleetrate/fleetrate/internal/vehicle/domain"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			// sqlite and mysql are dev conveniences; gorm keeps their
			// schema in step with the models.
			if err := conn.AutoMigrate(
				&vehicledomain.City{},
				&vehicledomain.Vehicle{},
				&customerdomain.Customer{},
				&bookingdomain.Booking{},
				&demanddomain.CityDemandMetrics{},
				&seasonalitydomain.SeasonalFactor{},
				&ruledomain.PricingRule{},
				&snapshotdomain.PricingSnapshot{},
			); err != nil {
				return err
			}
		}

		if cfg.SeedDemoData {
			return seed.EnsureDemoFleet(conn)
		}
		return nil
	}),
)
