package service

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	bookingdomain "github.com/fleetrate/fleetrate/internal/booking/domain"
	"github.com/fleetrate/fleetrate/internal/clock"
	"github.com/fleetrate/fleetrate/internal/config"
	demanddomain "github.com/fleetrate/fleetrate/internal/demand/domain"
	obsmetrics "github.com/fleetrate/fleetrate/internal/observability/metrics"
	vehicledomain "github.com/fleetrate/fleetrate/internal/vehicle/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	multiplierFloor = 0.6
	multiplierCeil  = 2.5
	neutral         = 1.0
)

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	GenID       *snowflake.Node
	Clock       clock.Clock
	Config      config.Config
	Repo        demanddomain.Repository
	VehicleRepo vehicledomain.Repository
	BookingRepo bookingdomain.Repository
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	genID       *snowflake.Node
	clock       clock.Clock
	freshness   time.Duration
	repo        demanddomain.Repository
	vehicleRepo vehicledomain.Repository
	bookingRepo bookingdomain.Repository
}

func New(p Params) demanddomain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("demand.service"),
		genID:       p.GenID,
		clock:       p.Clock,
		freshness:   p.Config.Pricing.DemandFreshness,
		repo:        p.Repo,
		vehicleRepo: p.VehicleRepo,
		bookingRepo: p.BookingRepo,
	}
}

func (s *Service) Multiplier(ctx context.Context, cityID snowflake.ID, start, end time.Time) float64 {
	total, err := s.vehicleRepo.CountEligibleByCity(ctx, s.db, cityID)
	if err != nil {
		return s.fallback(cityID, err)
	}
	if total == 0 {
		return neutral
	}

	overlapping, err := s.bookingRepo.CountOverlappingByCity(ctx, s.db, cityID, start, end)
	if err != nil {
		return s.fallback(cityID, err)
	}

	ratio := float64(total-overlapping) / float64(total)
	return clampMultiplier(demandScore(ratio))
}

// demandScore maps supply ratio to a demand score: scarce supply prices
// up, abundant supply prices down. Each segment is linear; the boundary
// value belongs to the higher-ratio segment.
func demandScore(ratio float64) float64 {
	switch {
	case ratio >= 0.7:
		return 0.7 + (ratio-0.7)*0.3
	case ratio >= 0.4:
		return 0.9 + (0.7-ratio)*0.67
	case ratio >= 0.2:
		return 1.2 + (0.4-ratio)*2.5
	default:
		return 1.8 + (0.2-ratio)*3.5
	}
}

func (s *Service) Metrics(ctx context.Context, cityID snowflake.ID) (*demanddomain.CityDemandMetrics, error) {
	if cityID == 0 {
		return nil, errors.New("invalid_city")
	}

	cached, err := s.repo.FindByCity(ctx, s.db, cityID)
	if err != nil {
		return nil, err
	}
	if cached != nil && cached.Fresh(s.clock.Now(), s.freshness) {
		return cached, nil
	}

	return s.RefreshCity(ctx, cityID)
}

func (s *Service) RefreshCity(ctx context.Context, cityID snowflake.ID) (*demanddomain.CityDemandMetrics, error) {
	now := s.clock.Now()

	total, err := s.vehicleRepo.CountByCity(ctx, s.db, cityID)
	if err != nil {
		return nil, err
	}
	available, err := s.vehicleRepo.CountEligibleByCity(ctx, s.db, cityID)
	if err != nil {
		return nil, err
	}
	active, err := s.bookingRepo.CountActiveByCity(ctx, s.db, cityID, now)
	if err != nil {
		return nil, err
	}

	utilization := 0.0
	if total > 0 {
		utilization = float64(active) / float64(total)
		if utilization > 1 {
			utilization = 1
		}
	}

	score := neutral
	if available > 0 {
		supplyRatio := float64(available-active) / float64(available)
		if supplyRatio < 0 {
			supplyRatio = 0
		}
		score = clampMultiplier(multiplierCeil - supplyRatio*2)
	}

	metrics := &demanddomain.CityDemandMetrics{
		ID:                s.genID.Generate(),
		CityID:            cityID,
		TotalVehicles:     total,
		AvailableVehicles: available,
		ActiveBookings:    active,
		UtilizationRate:   utilization,
		DemandScore:       score,
		ComputedAt:        now,
	}
	if err := s.repo.Upsert(ctx, s.db, metrics); err != nil {
		return nil, err
	}
	return metrics, nil
}

func (s *Service) RefreshAll(ctx context.Context) (int, error) {
	cityIDs, err := s.vehicleRepo.ListCityIDs(ctx, s.db)
	if err != nil {
		return 0, err
	}

	refreshed := 0
	var errs error
	for _, cityID := range cityIDs {
		if ctx.Err() != nil {
			return refreshed, errors.Join(errs, ctx.Err())
		}
		if _, err := s.RefreshCity(ctx, cityID); err != nil {
			errs = errors.Join(errs, err)
			s.log.Warn("demand refresh failed for city",
				zap.String("city_id", cityID.String()),
				zap.Error(err),
			)
			continue
		}
		refreshed++
	}
	return refreshed, errs
}

func (s *Service) fallback(cityID snowflake.ID, err error) float64 {
	obsmetrics.Pricing().IncEstimatorFallback("demand")
	s.log.Warn("demand estimator degraded to neutral",
		zap.String("city_id", cityID.String()),
		zap.Error(err),
	)
	return neutral
}

func clampMultiplier(v float64) float64 {
	if v < multiplierFloor {
		return multiplierFloor
	}
	if v > multiplierCeil {
		return multiplierCeil
	}
	return v
}
