package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	// CountOverlappingByCity counts draft and active bookings in the city
	// whose date window overlaps [start, end].
	CountOverlappingByCity(ctx context.Context, db *gorm.DB, cityID snowflake.ID, start, end time.Time) (int64, error)
	// CountActiveByCity counts bookings in non-terminal states covering the instant.
	CountActiveByCity(ctx context.Context, db *gorm.DB, cityID snowflake.ID, at time.Time) (int64, error)
	// ListByVehicleSince returns active and completed bookings for the
	// vehicle ending on or after since.
	ListByVehicleSince(ctx context.Context, db *gorm.DB, vehicleID snowflake.ID, since time.Time) ([]Booking, error)
	// ListRecentByCustomer returns the customer's active and completed
	// bookings, newest first.
	ListRecentByCustomer(ctx context.Context, db *gorm.DB, customerID snowflake.ID) ([]Booking, error)
}
