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
	customerdomain "github.com/fleetrate/fleetrate/internal/customer/domain"
	customerrepository "github.com/fleetrate/fleetrate/internal/customer/repository"
	loyaltydomain "github.com/fleetrate/fleetrate/internal/loyalty/domain"
)

var testNow = time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)

func setupLoyalty(t *testing.T) (loyaltydomain.Service, *gorm.DB, *snowflake.Node) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&bookingdomain.Booking{}, &customerdomain.Customer{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := New(Params{
		DB:           db,
		Log:          zap.NewNop(),
		Clock:        clock.NewFakeClock(testNow),
		BookingRepo:  bookingrepository.Provide(),
		CustomerRepo: customerrepository.Provide(),
	})
	return svc, db, node
}

func seedRentals(db *gorm.DB, node *snowflake.Node, customerID snowflake.ID, count int, pricePer float64, endedAgo time.Duration) {
	db.Create(&customerdomain.Customer{
		ID:    customerID,
		Email: fmt.Sprintf("%s@example.com", customerID),
	})
	for i := 0; i < count; i++ {
		end := testNow.Add(-endedAgo)
		db.Create(&bookingdomain.Booking{
			ID:         node.Generate(),
			VehicleID:  node.Generate(),
			CityID:     node.Generate(),
			CustomerID: &customerID,
			StartDate:  end.Add(-3 * 24 * time.Hour),
			EndDate:    end,
			Status:     bookingdomain.StatusCompleted,
			TotalPrice: pricePer,
		})
	}
}

func TestMultiplier_GuestIsNeutral(t *testing.T) {
	svc, _, _ := setupLoyalty(t)
	assert.Equal(t, 1.0, svc.Multiplier(context.Background(), nil))
}

func TestMultiplier_UnknownCustomerIsNeutral(t *testing.T) {
	svc, _, node := setupLoyalty(t)
	unknown := node.Generate()
	assert.Equal(t, 1.0, svc.Multiplier(context.Background(), &unknown))
}

func TestMultiplier_SingleRentalIsNeutral(t *testing.T) {
	svc, db, node := setupLoyalty(t)
	customerID := node.Generate()
	seedRentals(db, node, customerID, 1, 100, 90*24*time.Hour)

	assert.Equal(t, 1.0, svc.Multiplier(context.Background(), &customerID))
}

func TestMultiplier_Tiers(t *testing.T) {
	cases := []struct {
		name     string
		rentals  int
		pricePer float64
		endedAgo time.Duration
		want     float64
	}{
		{"regular", 3, 100, 90 * 24 * time.Hour, 0.95},
		{"frequent", 7, 100, 90 * 24 * time.Hour, 0.92},
		{"vip by count", 12, 100, 90 * 24 * time.Hour, 0.88},
		{"vip by spend", 2, 3000, 90 * 24 * time.Hour, 0.88},
		{"regular with recent rental", 3, 100, 10 * 24 * time.Hour, 0.92},
		{"frequent with recent rental", 7, 100, 10 * 24 * time.Hour, 0.89},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, db, node := setupLoyalty(t)
			customerID := node.Generate()
			seedRentals(db, node, customerID, tc.rentals, tc.pricePer, tc.endedAgo)

			assert.InDelta(t, tc.want, svc.Multiplier(context.Background(), &customerID), 1e-9)
		})
	}
}

func TestMultiplier_DiscountCappedAtFifteenPercent(t *testing.T) {
	svc, db, node := setupLoyalty(t)
	customerID := node.Generate()
	// VIP by count and spend, plus a rental ended yesterday.
	seedRentals(db, node, customerID, 20, 1000, 24*time.Hour)

	got := svc.Multiplier(context.Background(), &customerID)
	assert.Equal(t, 0.85, got)
	assert.GreaterOrEqual(t, got, 0.85)
}
