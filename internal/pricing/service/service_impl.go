package service

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/fleetrate/fleetrate/internal/clock"
	"github.com/fleetrate/fleetrate/internal/config"
	"github.com/fleetrate/fleetrate/internal/costmodel"
	obsmetrics "github.com/fleetrate/fleetrate/internal/observability/metrics"
	"github.com/fleetrate/fleetrate/pkg/money"

	demanddomain "github.com/fleetrate/fleetrate/internal/demand/domain"
	loyaltydomain "github.com/fleetrate/fleetrate/internal/loyalty/domain"
	pricingdomain "github.com/fleetrate/fleetrate/internal/pricing/domain"
	ruledomain "github.com/fleetrate/fleetrate/internal/rule/domain"
	seasonalitydomain "github.com/fleetrate/fleetrate/internal/seasonality/domain"
	snapshotdomain "github.com/fleetrate/fleetrate/internal/snapshot/domain"
	utilizationdomain "github.com/fleetrate/fleetrate/internal/utilization/domain"
	vehicledomain "github.com/fleetrate/fleetrate/internal/vehicle/domain"
)

const hoursPerDay = 24

type Params struct {
	fx.In

	DB           *gorm.DB
	Log          *zap.Logger
	GenID        *snowflake.Node
	Clock        clock.Clock
	Config       config.Config
	CostModel    *costmodel.Model
	VehicleRepo  vehicledomain.Repository
	SnapshotRepo snapshotdomain.Repository
	Demand       demanddomain.Service
	Seasonality  seasonalitydomain.Service
	Loyalty      loyaltydomain.Service
	Rules        ruledomain.Service
}

type pricingService struct {
	db           *gorm.DB
	log          *zap.Logger
	genID        *snowflake.Node
	clock        clock.Clock
	cfg          config.PricingConfig
	costModel    *costmodel.Model
	vehicleRepo  vehicledomain.Repository
	snapshotRepo snapshotdomain.Repository
	demand       demanddomain.Service
	seasonality  seasonalitydomain.Service
	loyalty      loyaltydomain.Service
	rules        ruledomain.Service
}

func New(p Params) pricingdomain.Service {
	return &pricingService{
		db:           p.DB,
		log:          p.Log.Named("pricing.service"),
		genID:        p.GenID,
		clock:        p.Clock,
		cfg:          p.Config.Pricing,
		costModel:    p.CostModel,
		vehicleRepo:  p.VehicleRepo,
		snapshotRepo: p.SnapshotRepo,
		demand:       p.Demand,
		seasonality:  p.Seasonality,
		loyalty:      p.Loyalty,
		rules:        p.Rules,
	}
}

func (s *pricingService) Calculate(ctx context.Context, req pricingdomain.QuoteRequest) (*pricingdomain.Quote, error) {
	started := s.clock.Now()
	quote, err := s.calculate(ctx, req)
	if err != nil {
		obsmetrics.Pricing().IncCalculation("error")
	} else {
		obsmetrics.Pricing().IncCalculation("ok")
	}
	obsmetrics.Pricing().ObserveCalculationDuration(s.clock.Now().Sub(started))
	return quote, err
}

func (s *pricingService) calculate(ctx context.Context, req pricingdomain.QuoteRequest) (*pricingdomain.Quote, error) {
	vehicle, err := s.vehicleRepo.FindByID(ctx, s.db, req.VehicleID)
	if err != nil {
		return nil, err
	}
	if vehicle == nil {
		return nil, vehicledomain.ErrVehicleNotFound
	}
	if !vehicle.Leasable() {
		return nil, pricingdomain.ErrVehicleNotAvailable
	}

	duration := durationDays(req.StartDate, req.EndDate)
	if duration < 1 {
		return nil, pricingdomain.ErrInvalidDateRange
	}

	if !vehicle.DynamicPricingEnabled {
		return s.flatQuote(vehicle, duration), nil
	}

	base := s.costModel.BasePricePerDay(*vehicle)

	var (
		wg           sync.WaitGroup
		demandMult   float64
		seasonalMult float64
		loyaltyMult  float64
	)
	wg.Add(3)
	go func() {
		defer wg.Done()
		demandMult = s.demand.Multiplier(ctx, vehicle.CityID, req.StartDate, req.EndDate)
	}()
	go func() {
		defer wg.Done()
		seasonalMult = s.seasonality.Multiplier(ctx, req.StartDate, duration, vehicle.CityID)
	}()
	go func() {
		defer wg.Done()
		loyaltyMult = s.loyalty.Multiplier(ctx, req.CustomerID)
	}()
	wg.Wait()

	utilizationMult := utilizationdomain.RateMultiplier(vehicle.UtilizationRate)
	maintenanceMult := utilizationdomain.MaintenanceMultiplier(vehicle.MaintenanceScore)
	durationMult := pricingdomain.DurationMultiplier(duration)

	raw := base * demandMult * seasonalMult * utilizationMult * maintenanceMult * durationMult * loyaltyMult

	minPrice := base * s.cfg.MinPriceFactor
	if vehicle.MinPricePerDay != nil {
		minPrice = *vehicle.MinPricePerDay
	}
	maxPrice := base * s.cfg.MaxPriceFactor
	if vehicle.MaxPricePerDay != nil {
		maxPrice = *vehicle.MaxPricePerDay
	}

	clamped := money.Clamp(raw, minPrice, maxPrice)
	perDay := money.Round(clamped)

	finalPerDay, applied := s.rules.Resolve(ctx, vehicle.ID, vehicle.CityID, req.StartDate, req.EndDate, perDay)

	quote := &pricingdomain.Quote{
		VehicleID:    vehicle.ID,
		CityID:       vehicle.CityID,
		PricePerDay:  finalPerDay,
		TotalPrice:   money.Round(finalPerDay * float64(duration)),
		DurationDays: duration,
		Breakdown: pricingdomain.Breakdown{
			BasePrice:             base,
			DemandMultiplier:      demandMult,
			SeasonalMultiplier:    seasonalMult,
			UtilizationMultiplier: utilizationMult,
			MaintenanceMultiplier: maintenanceMult,
			DurationMultiplier:    durationMult,
			LoyaltyMultiplier:     loyaltyMult,
			ConstraintsApplied:    clamped != raw,
			AppliedRules:          applied,
		},
	}

	if req.Persist {
		s.persistSnapshot(ctx, vehicle, req.StartDate, quote)
	}
	return quote, nil
}

// flatQuote short-circuits a vehicle with dynamic pricing disabled to
// its legacy flat price, reporting every multiplier as neutral.
func (s *pricingService) flatQuote(vehicle *vehicledomain.Vehicle, duration int) *pricingdomain.Quote {
	return &pricingdomain.Quote{
		VehicleID:    vehicle.ID,
		CityID:       vehicle.CityID,
		PricePerDay:  vehicle.FlatPricePerDay,
		TotalPrice:   money.Round(vehicle.FlatPricePerDay * float64(duration)),
		DurationDays: duration,
		Breakdown: pricingdomain.Breakdown{
			BasePrice:             vehicle.FlatPricePerDay,
			DemandMultiplier:      1.0,
			SeasonalMultiplier:    1.0,
			UtilizationMultiplier: 1.0,
			MaintenanceMultiplier: 1.0,
			DurationMultiplier:    1.0,
			LoyaltyMultiplier:     1.0,
		},
	}
}

// persistSnapshot captures the calculation for analytics. Failures are
// logged and swallowed so the quote always returns.
func (s *pricingService) persistSnapshot(ctx context.Context, vehicle *vehicledomain.Vehicle, start time.Time, quote *pricingdomain.Quote) {
	var (
		available int64
		bookings  int64
	)
	if metrics, err := s.demand.Metrics(ctx, vehicle.CityID); err == nil && metrics != nil {
		available = metrics.AvailableVehicles
		bookings = metrics.ActiveBookings
	}

	snap := &snapshotdomain.PricingSnapshot{
		ID:                    s.genID.Generate(),
		VehicleID:             vehicle.ID,
		CityID:                vehicle.CityID,
		StartDate:             start,
		DurationDays:          quote.DurationDays,
		BasePrice:             quote.Breakdown.BasePrice,
		DemandMultiplier:      quote.Breakdown.DemandMultiplier,
		SeasonalMultiplier:    quote.Breakdown.SeasonalMultiplier,
		UtilizationMultiplier: quote.Breakdown.UtilizationMultiplier,
		MaintenanceMultiplier: quote.Breakdown.MaintenanceMultiplier,
		DurationMultiplier:    quote.Breakdown.DurationMultiplier,
		LoyaltyMultiplier:     quote.Breakdown.LoyaltyMultiplier,
		FinalPricePerDay:      quote.PricePerDay,
		AvailableVehicles:     available,
		ConcurrentBookings:    bookings,
		CreatedAt:             s.clock.Now(),
	}
	if len(quote.Breakdown.AppliedRules) > 0 {
		rules := make([]any, 0, len(quote.Breakdown.AppliedRules))
		for _, r := range quote.Breakdown.AppliedRules {
			rules = append(rules, map[string]any{
				"rule_id":     r.RuleID.String(),
				"name":        r.Name,
				"description": r.Description,
				"delta":       r.Delta,
			})
		}
		snap.AppliedRules = datatypes.JSONMap{"rules": rules}
	}

	if err := s.snapshotRepo.Insert(ctx, s.db, snap); err != nil {
		obsmetrics.Pricing().IncSnapshotWrite("error")
		s.log.Warn("failed to persist pricing snapshot",
			zap.Int64("vehicle_id", int64(vehicle.ID)),
			zap.Error(err),
		)
		return
	}
	obsmetrics.Pricing().IncSnapshotWrite("ok")
}

func (s *pricingService) Preview(ctx context.Context, vehicleIDs []snowflake.ID, start, end time.Time) ([]pricingdomain.PreviewItem, error) {
	duration := durationDays(start, end)
	if duration < 1 {
		return nil, pricingdomain.ErrInvalidDateRange
	}

	items := make([]pricingdomain.PreviewItem, 0, len(vehicleIDs))
	for _, id := range vehicleIDs {
		quote, err := s.calculate(ctx, pricingdomain.QuoteRequest{
			VehicleID: id,
			StartDate: start,
			EndDate:   end,
		})
		if err == nil {
			items = append(items, pricingdomain.PreviewItem{
				VehicleID:   id,
				PricePerDay: quote.PricePerDay,
				TotalPrice:  quote.TotalPrice,
				Breakdown:   &quote.Breakdown,
			})
			continue
		}

		s.log.Warn("preview degraded to flat price",
			zap.Int64("vehicle_id", int64(id)),
			zap.Error(err),
		)
		item := pricingdomain.PreviewItem{VehicleID: id, Degraded: true}
		if vehicle, ferr := s.vehicleRepo.FindByID(ctx, s.db, id); ferr == nil && vehicle != nil {
			item.PricePerDay = vehicle.FlatPricePerDay
			item.TotalPrice = money.Round(vehicle.FlatPricePerDay * float64(duration))
		}
		items = append(items, item)
	}
	return items, nil
}

// durationDays is the ceiling of the span in whole days.
func durationDays(start, end time.Time) int {
	return int(math.Ceil(end.Sub(start).Hours() / hoursPerDay))
}
