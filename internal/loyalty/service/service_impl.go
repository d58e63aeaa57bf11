package service

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	bookingdomain "github.com/fleetrate/fleetrate/internal/booking/domain"
	"github.com/fleetrate/fleetrate/internal/clock"
	customerdomain "github.com/fleetrate/fleetrate/internal/customer/domain"
	"github.com/fleetrate/fleetrate/internal/loyalty/domain"
)

const (
	regularDiscount  = 0.05
	frequentDiscount = 0.08
	vipDiscount      = 0.12
	recencyBonus     = 0.03
	maxDiscount      = 0.15

	vipSpendThreshold = 5000.0
	recencyWindow     = 60 * 24 * time.Hour
)

type Params struct {
	fx.In

	DB           *gorm.DB
	Log          *zap.Logger
	Clock        clock.Clock
	BookingRepo  bookingdomain.Repository
	CustomerRepo customerdomain.Repository
}

type loyaltyService struct {
	db           *gorm.DB
	log          *zap.Logger
	clock        clock.Clock
	bookingRepo  bookingdomain.Repository
	customerRepo customerdomain.Repository
}

func New(p Params) domain.Service {
	return &loyaltyService{
		db:           p.DB,
		log:          p.Log.Named("loyalty.service"),
		clock:        p.Clock,
		bookingRepo:  p.BookingRepo,
		customerRepo: p.CustomerRepo,
	}
}

func (s *loyaltyService) Multiplier(ctx context.Context, customerID *snowflake.ID) float64 {
	if customerID == nil {
		return 1.0
	}

	customer, err := s.customerRepo.FindByID(ctx, s.db, *customerID)
	if err != nil {
		s.log.Warn("customer lookup failed, using neutral multiplier",
			zap.Int64("customer_id", int64(*customerID)),
			zap.Error(err),
		)
		return 1.0
	}
	if customer == nil {
		return 1.0
	}

	bookings, err := s.bookingRepo.ListRecentByCustomer(ctx, s.db, *customerID)
	if err != nil {
		s.log.Warn("loyalty lookup failed, using neutral multiplier",
			zap.Int64("customer_id", int64(*customerID)),
			zap.Error(err),
		)
		return 1.0
	}

	var (
		rentals    = len(bookings)
		totalSpend float64
	)
	for _, b := range bookings {
		totalSpend += b.TotalPrice
	}

	var discount float64
	switch {
	case rentals > 10 || totalSpend >= vipSpendThreshold:
		discount = vipDiscount
	case rentals >= 6:
		discount = frequentDiscount
	case rentals >= 2:
		discount = regularDiscount
	default:
		return 1.0
	}

	cutoff := s.clock.Now().Add(-recencyWindow)
	for _, b := range bookings {
		if !b.EndDate.Before(cutoff) {
			discount += recencyBonus
			break
		}
	}
	if discount > maxDiscount {
		discount = maxDiscount
	}
	return 1.0 - discount
}
