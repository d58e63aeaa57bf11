package service

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

	bookingdomain "github.com/fleetrate/fleetrate/internal/booking/domain"
	bookingrepository "github.com/fleetrate/fleetrate/internal/booking/repository"
	"github.com/fleetrate/fleetrate/internal/clock"
	"github.com/fleetrate/fleetrate/internal/config"
	demanddomain "github.com/fleetrate/fleetrate/internal/demand/domain"
	demandrepository "github.com/fleetrate/fleetrate/internal/demand/repository"
	vehicledomain "github.com/fleetrate/fleetrate/internal/vehicle/domain"
	vehiclerepository "github.com/fleetrate/fleetrate/internal/vehicle/repository"
)

func setupDemand(t *testing.T, now time.Time) (demanddomain.Service, *gorm.DB, *snowflake.Node, *clock.FakeClock) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&vehicledomain.Vehicle{},
		&bookingdomain.Booking{},
		&demanddomain.CityDemandMetrics{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	fake := clock.NewFakeClock(now)

	svc := New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: fake,
		Config: config.Config{
			Pricing: config.PricingConfig{DemandFreshness: 15 * time.Minute},
		},
		Repo:        demandrepository.Provide(),
		VehicleRepo: vehiclerepository.Provide(),
		BookingRepo: bookingrepository.Provide(),
	})
	return svc, db, node, fake
}

func seedFleet(db *gorm.DB, node *snowflake.Node, cityID snowflake.ID, vehicles, overlapping int, start, end time.Time) {
	for i := 0; i < vehicles; i++ {
		db.Create(&vehicledomain.Vehicle{
			ID:     node.Generate(),
			CityID: cityID,
			Status: vehicledomain.StatusAvailable,
		})
	}
	for i := 0; i < overlapping; i++ {
		db.Create(&bookingdomain.Booking{
			ID:        node.Generate(),
			VehicleID: node.Generate(),
			CityID:    cityID,
			StartDate: start,
			EndDate:   end,
			Status:    bookingdomain.StatusActive,
		})
	}
}

func TestDemandScore_Segments(t *testing.T) {
	cases := []struct {
		ratio float64
		want  float64
	}{
		{1.0, 0.79},
		{0.8, 0.73},
		{0.7, 0.7},
		{0.5, 1.034},
		{0.4, 1.101},
		{0.3, 1.45},
		{0.1, 2.15},
		{0.0, 2.5},
	}
	for _, tc := range cases {
		assert.InDelta(t, tc.want, demandScore(tc.ratio), 1e-9, "ratio=%v", tc.ratio)
	}
}

// The 0.2 boundary belongs to the 1.2-base segment, not the scarcity
// segment below it.
func TestDemandScore_BoundaryOwnership(t *testing.T) {
	assert.InDelta(t, 1.7, demandScore(0.2), 1e-9)
	assert.InDelta(t, 1.2, demandScore(0.4), 1e-9)
	assert.InDelta(t, 0.7, demandScore(0.7), 1e-9)
}

func TestDemandScore_MonotonicNonIncreasingWithinSegments(t *testing.T) {
	segments := [][2]float64{{0.0, 0.2}, {0.2, 0.4}, {0.4, 0.7}}
	for _, seg := range segments {
		low, high := seg[0], seg[1]
		assert.GreaterOrEqual(t, demandScore(low), demandScore(high-1e-9),
			"segment [%v,%v)", low, high)
	}
}

func TestMultiplier_TenVehiclesEightBooked(t *testing.T) {
	now := time.Date(2026, time.July, 1, 0, 0, 0, 0, time.UTC)
	svc, db, node, _ := setupDemand(t, now)

	cityID := node.Generate()
	start := now.Add(24 * time.Hour)
	end := now.Add(4 * 24 * time.Hour)
	seedFleet(db, node, cityID, 10, 8, start, end)

	// supplyRatio 0.2 falls in the [0.2, 0.4) segment.
	got := svc.Multiplier(context.Background(), cityID, start, end)
	assert.InDelta(t, 1.7, got, 1e-9)
}

func TestMultiplier_NoFleetIsNeutral(t *testing.T) {
	now := time.Date(2026, time.July, 1, 0, 0, 0, 0, time.UTC)
	svc, _, node, _ := setupDemand(t, now)

	got := svc.Multiplier(context.Background(), node.Generate(), now, now.Add(24*time.Hour))
	assert.Equal(t, 1.0, got)
}

func TestMultiplier_QueryFailureDegradesToNeutral(t *testing.T) {
	now := time.Date(2026, time.July, 1, 0, 0, 0, 0, time.UTC)
	svc, db, node, _ := setupDemand(t, now)

	require.NoError(t, db.Migrator().DropTable(&vehicledomain.Vehicle{}))

	got := svc.Multiplier(context.Background(), node.Generate(), now, now.Add(24*time.Hour))
	assert.Equal(t, 1.0, got)
}

func TestMetrics_CachedWithinFreshnessWindow(t *testing.T) {
	now := time.Date(2026, time.July, 1, 0, 0, 0, 0, time.UTC)
	svc, db, node, fake := setupDemand(t, now)

	cityID := node.Generate()
	seedFleet(db, node, cityID, 5, 2, now.Add(-24*time.Hour), now.Add(24*time.Hour))

	first, err := svc.Metrics(context.Background(), cityID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), first.TotalVehicles)
	assert.Equal(t, int64(2), first.ActiveBookings)

	// A new vehicle does not show up until the window lapses.
	db.Create(&vehicledomain.Vehicle{
		ID:     node.Generate(),
		CityID: cityID,
		Status: vehicledomain.StatusAvailable,
	})

	cached, err := svc.Metrics(context.Background(), cityID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), cached.TotalVehicles)

	fake.Advance(16 * time.Minute)
	refreshed, err := svc.Metrics(context.Background(), cityID)
	require.NoError(t, err)
	assert.Equal(t, int64(6), refreshed.TotalVehicles)
}

func TestRefreshAll_CountsCities(t *testing.T) {
	now := time.Date(2026, time.July, 1, 0, 0, 0, 0, time.UTC)
	svc, db, node, _ := setupDemand(t, now)

	cityA := node.Generate()
	cityB := node.Generate()
	seedFleet(db, node, cityA, 3, 0, now, now)
	seedFleet(db, node, cityB, 2, 0, now, now)

	refreshed, err := svc.RefreshAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, refreshed)

	var rows []demanddomain.CityDemandMetrics
	require.NoError(t, db.Find(&rows).Error)
	assert.Len(t, rows, 2)
}
