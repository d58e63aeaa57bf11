package service

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	bookingdomain "github.com/fleetrate/fleetrate/internal/booking/domain"
	"github.com/fleetrate/fleetrate/internal/clock"
	"github.com/fleetrate/fleetrate/internal/config"
	"github.com/fleetrate/fleetrate/internal/utilization/domain"
	vehicledomain "github.com/fleetrate/fleetrate/internal/vehicle/domain"
)

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	Clock       clock.Clock
	Config      config.Config
	VehicleRepo vehicledomain.Repository
	BookingRepo bookingdomain.Repository
}

type utilizationService struct {
	db          *gorm.DB
	log         *zap.Logger
	clock       clock.Clock
	lookback    time.Duration
	vehicleRepo vehicledomain.Repository
	bookingRepo bookingdomain.Repository
}

func New(p Params) domain.Service {
	return &utilizationService{
		db:          p.DB,
		log:         p.Log.Named("utilization.service"),
		clock:       p.Clock,
		lookback:    p.Config.Pricing.UtilizationLookback,
		vehicleRepo: p.VehicleRepo,
		bookingRepo: p.BookingRepo,
	}
}

func (s *utilizationService) Recompute(ctx context.Context, vehicleID snowflake.ID) (float64, error) {
	now := s.clock.Now()
	since := now.Add(-s.lookback)

	bookings, err := s.bookingRepo.ListByVehicleSince(ctx, s.db, vehicleID, since)
	if err != nil {
		return 0, err
	}

	var bookedDays float64
	for _, b := range bookings {
		bookedDays += overlapDays(b.StartDate, b.EndDate, since, now)
	}

	rate := bookedDays / (s.lookback.Hours() / 24)
	if rate > 1 {
		rate = 1
	}

	if err := s.vehicleRepo.UpdateUtilization(ctx, s.db, vehicleID, rate, now); err != nil {
		return 0, err
	}
	return rate, nil
}

func (s *utilizationService) RecomputeAll(ctx context.Context) (int, error) {
	ids, err := s.vehicleRepo.ListEligibleIDs(ctx, s.db)
	if err != nil {
		return 0, err
	}

	var (
		updated int
		errs    error
	)
	for _, id := range ids {
		if _, err := s.Recompute(ctx, id); err != nil {
			s.log.Warn("failed to recompute vehicle utilization",
				zap.Int64("vehicle_id", int64(id)),
				zap.Error(err),
			)
			errs = errors.Join(errs, err)
			continue
		}
		updated++
	}
	return updated, errs
}

// overlapDays returns the length in days of the intersection between
// the booking span and the lookback window.
func overlapDays(start, end, windowStart, windowEnd time.Time) float64 {
	if start.Before(windowStart) {
		start = windowStart
	}
	if end.After(windowEnd) {
		end = windowEnd
	}
	if !end.After(start) {
		return 0
	}
	return end.Sub(start).Hours() / 24
}
