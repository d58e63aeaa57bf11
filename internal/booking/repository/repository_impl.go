package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	bookingdomain "github.com/fleetrate/fleetrate/internal/booking/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() bookingdomain.Repository {
	return &repo{}
}

func (r *repo) CountOverlappingByCity(ctx context.Context, db *gorm.DB, cityID snowflake.ID, start, end time.Time) (int64, error) {
	var count int64
	// Three-way overlap: booking starts inside the window, ends inside it,
	// or spans it entirely.
	err := db.WithContext(ctx).
		Model(&bookingdomain.Booking{}).
		Where("city_id = ? AND status IN ?", cityID, []bookingdomain.BookingStatus{bookingdomain.StatusDraft, bookingdomain.StatusActive}).
		Where(`(start_date >= ? AND start_date <= ?)
			OR (end_date >= ? AND end_date <= ?)
			OR (start_date <= ? AND end_date >= ?)`,
			start, end, start, end, start, end).
		Count(&count).Error
	return count, err
}

func (r *repo) CountActiveByCity(ctx context.Context, db *gorm.DB, cityID snowflake.ID, at time.Time) (int64, error) {
	var count int64
	err := db.WithContext(ctx).
		Model(&bookingdomain.Booking{}).
		Where("city_id = ? AND status IN ?", cityID, []bookingdomain.BookingStatus{bookingdomain.StatusDraft, bookingdomain.StatusActive}).
		Where("start_date <= ? AND end_date >= ?", at, at).
		Count(&count).Error
	return count, err
}

func (r *repo) ListByVehicleSince(ctx context.Context, db *gorm.DB, vehicleID snowflake.ID, since time.Time) ([]bookingdomain.Booking, error) {
	var bookings []bookingdomain.Booking
	err := db.WithContext(ctx).
		Where("vehicle_id = ? AND status IN ?", vehicleID, []bookingdomain.BookingStatus{bookingdomain.StatusActive, bookingdomain.StatusCompleted}).
		Where("end_date >= ?", since).
		Order("start_date ASC").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *repo) ListRecentByCustomer(ctx context.Context, db *gorm.DB, customerID snowflake.ID) ([]bookingdomain.Booking, error) {
	var bookings []bookingdomain.Booking
	err := db.WithContext(ctx).
		Where("customer_id = ? AND status IN ?", customerID, []bookingdomain.BookingStatus{bookingdomain.StatusActive, bookingdomain.StatusCompleted}).
		Order("end_date DESC").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}
