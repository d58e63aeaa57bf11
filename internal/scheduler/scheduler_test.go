package scheduler

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fleetrate/fleetrate/internal/clock"
	"github.com/fleetrate/fleetrate/internal/config"

	bookingdomain "github.com/fleetrate/fleetrate/internal/booking/domain"
	bookingrepository "github.com/fleetrate/fleetrate/internal/booking/repository"
	demanddomain "github.com/fleetrate/fleetrate/internal/demand/domain"
	demandrepository "github.com/fleetrate/fleetrate/internal/demand/repository"
	demandservice "github.com/fleetrate/fleetrate/internal/demand/service"
	snapshotdomain "github.com/fleetrate/fleetrate/internal/snapshot/domain"
	snapshotrepository "github.com/fleetrate/fleetrate/internal/snapshot/repository"
	utilizationservice "github.com/fleetrate/fleetrate/internal/utilization/service"
	vehicledomain "github.com/fleetrate/fleetrate/internal/vehicle/domain"
	vehiclerepository "github.com/fleetrate/fleetrate/internal/vehicle/repository"
)

func setupScheduler(t *testing.T, now time.Time) (*Scheduler, *gorm.DB, *snowflake.Node, *clock.FakeClock) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&vehicledomain.Vehicle{},
		&bookingdomain.Booking{},
		&demanddomain.CityDemandMetrics{},
		&snapshotdomain.PricingSnapshot{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	fake := clock.NewFakeClock(now)
	log := zap.NewNop()
	cfg := config.Config{
		Pricing: config.PricingConfig{
			DemandFreshness:     15 * time.Minute,
			UtilizationLookback: 90 * 24 * time.Hour,
		},
	}

	vehicleRepo := vehiclerepository.Provide()
	bookingRepo := bookingrepository.Provide()

	demandSvc := demandservice.New(demandservice.Params{
		DB: db, Log: log, GenID: node, Clock: fake, Config: cfg,
		Repo:        demandrepository.Provide(),
		VehicleRepo: vehicleRepo,
		BookingRepo: bookingRepo,
	})
	utilizationSvc := utilizationservice.New(utilizationservice.Params{
		DB: db, Log: log, Clock: fake, Config: cfg,
		VehicleRepo: vehicleRepo,
		BookingRepo: bookingRepo,
	})

	sched, err := New(Params{
		DB:             db,
		Log:            log,
		GenID:          node,
		Clock:          fake,
		DemandSvc:      demandSvc,
		UtilizationSvc: utilizationSvc,
		SnapshotRepo:   snapshotrepository.Provide(),
		Config: Config{
			SnapshotRetention: 90 * 24 * time.Hour,
		},
	})
	require.NoError(t, err)
	return sched, db, node, fake
}

func TestNew_MissingDependency(t *testing.T) {
	_, err := New(Params{})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestRunJob_UnknownName(t *testing.T) {
	now := time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)
	sched, _, _, _ := setupScheduler(t, now)

	err := sched.RunJob(context.Background(), "defragment_fleet")
	assert.ErrorIs(t, err, ErrUnknownJob)
}

func TestSnapshotRetentionJob_PrunesOldRows(t *testing.T) {
	now := time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)
	sched, db, node, _ := setupScheduler(t, now)

	old := now.Add(-91 * 24 * time.Hour)
	recent := now.Add(-10 * 24 * time.Hour)
	for _, createdAt := range []time.Time{old, old, recent} {
		db.Create(&snapshotdomain.PricingSnapshot{
			ID:        node.Generate(),
			VehicleID: node.Generate(),
			CityID:    node.Generate(),
			StartDate: createdAt,
			CreatedAt: createdAt,
		})
	}

	require.NoError(t, sched.RunJob(context.Background(), JobSnapshotRetention))

	var remaining []snapshotdomain.PricingSnapshot
	require.NoError(t, db.Find(&remaining).Error)
	require.Len(t, remaining, 1)
	assert.Equal(t, recent.Unix(), remaining[0].CreatedAt.Unix())
}

func TestRunOnce_RefreshesDemandAndUtilization(t *testing.T) {
	now := time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)
	sched, db, node, _ := setupScheduler(t, now)

	cityID := node.Generate()
	db.Create(&vehicledomain.Vehicle{
		ID:     node.Generate(),
		CityID: cityID,
		Status: vehicledomain.StatusAvailable,
	})

	require.NoError(t, sched.RunOnce(context.Background()))

	var demandRows int64
	db.Model(&demanddomain.CityDemandMetrics{}).Count(&demandRows)
	assert.Equal(t, int64(1), demandRows)

	var v vehicledomain.Vehicle
	require.NoError(t, db.First(&v, "city_id = ?", cityID).Error)
	require.NotNil(t, v.UtilizationRate)
	assert.Zero(t, *v.UtilizationRate)
}

func TestRunOnce_HonorsJobCadence(t *testing.T) {
	now := time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)
	sched, db, node, fake := setupScheduler(t, now)

	cityID := node.Generate()
	db.Create(&vehicledomain.Vehicle{
		ID:     node.Generate(),
		CityID: cityID,
		Status: vehicledomain.StatusAvailable,
	})

	require.NoError(t, sched.RunOnce(context.Background()))

	first := fetchDemandRow(t, db, cityID)

	// One minute later nothing is due yet; the demand row is untouched.
	fake.Advance(time.Minute)
	require.NoError(t, sched.RunOnce(context.Background()))
	assert.Equal(t, first.ComputedAt.Unix(), fetchDemandRow(t, db, cityID).ComputedAt.Unix())

	// Past the 15 minute cadence the row is recomputed.
	fake.Advance(15 * time.Minute)
	require.NoError(t, sched.RunOnce(context.Background()))
	assert.Greater(t, fetchDemandRow(t, db, cityID).ComputedAt.Unix(), first.ComputedAt.Unix())
}

func fetchDemandRow(t *testing.T, db *gorm.DB, cityID snowflake.ID) demanddomain.CityDemandMetrics {
	t.Helper()
	var row demanddomain.CityDemandMetrics
	require.NoError(t, db.First(&row, "city_id = ?", cityID).Error)
	return row
}
