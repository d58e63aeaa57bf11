package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/fleetrate/fleetrate/internal/cache"
	"github.com/fleetrate/fleetrate/internal/clock"
	obsmetrics "github.com/fleetrate/fleetrate/internal/observability/metrics"
	seasonalitydomain "github.com/fleetrate/fleetrate/internal/seasonality/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	factorCacheTTL = 5 * time.Minute

	highSeasonMultiplier = 1.3
	lowSeasonMultiplier  = 0.85
	weekendMultiplier    = 1.15
	mondayMultiplier     = 0.95
	holidayMultiplier    = 1.25
	urgencyMultiplier    = 1.15
	earlyBirdMultiplier  = 0.95

	shortRentalMaxDays = 3
	holidayWindowDays  = 2
	urgencyLeadDays    = 3
	earlyBirdLeadDays  = 30
)

// Fixed-date public holidays, one entry per (month, day).
var fixedHolidays = [][2]int{
	{1, 1},   // New Year
	{1, 6},   // Epiphany
	{5, 1},   // Labour Day
	{8, 15},  // Assumption
	{10, 3},  // Unity Day
	{10, 31}, // Reformation Day
	{11, 1},  // All Saints
	{12, 24}, // Christmas Eve
	{12, 25}, // Christmas Day
	{12, 26}, // Boxing Day
	{12, 31}, // New Year's Eve
}

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  seasonalitydomain.Repository
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	genID       *snowflake.Node
	clock       clock.Clock
	repo        seasonalitydomain.Repository
	factorCache cache.Cache[string, []seasonalitydomain.SeasonalFactor]
}

func New(p Params) seasonalitydomain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("seasonality.service"),
		genID:       p.GenID,
		clock:       p.Clock,
		repo:        p.Repo,
		factorCache: cache.NewTTLCache[string, []seasonalitydomain.SeasonalFactor](),
	}
}

// Multiplier layers four independent adjustments; none is skipped
// because another fired.
func (s *Service) Multiplier(ctx context.Context, start time.Time, durationDays int, cityID snowflake.ID) float64 {
	multiplier := s.seasonLayer(ctx, start, cityID)

	if durationDays <= shortRentalMaxDays {
		switch start.Weekday() {
		case time.Friday, time.Saturday:
			multiplier *= weekendMultiplier
		case time.Monday:
			multiplier *= mondayMultiplier
		}
	}

	if nearHoliday(start) {
		multiplier *= holidayMultiplier
	}

	lead := start.Sub(s.clock.Now())
	if lead < time.Duration(urgencyLeadDays)*24*time.Hour {
		multiplier *= urgencyMultiplier
	} else if lead > time.Duration(earlyBirdLeadDays)*24*time.Hour {
		multiplier *= earlyBirdMultiplier
	}

	return multiplier
}

// seasonLayer applies the single highest matching custom factor, or the
// default month curve when no custom factor covers the date.
func (s *Service) seasonLayer(ctx context.Context, start time.Time, cityID snowflake.ID) float64 {
	factors, err := s.activeFactors(ctx, start, cityID)
	if err != nil {
		obsmetrics.Pricing().IncEstimatorFallback("seasonality")
		s.log.Warn("seasonal factor lookup degraded to default curve",
			zap.String("city_id", cityID.String()),
			zap.Error(err),
		)
		return defaultCurve(start)
	}

	best := 0.0
	for _, f := range factors {
		if f.Matches(start, cityID) && f.Multiplier > best {
			best = f.Multiplier
		}
	}
	if best > 0 {
		return best
	}
	return defaultCurve(start)
}

func (s *Service) activeFactors(ctx context.Context, date time.Time, cityID snowflake.ID) ([]seasonalitydomain.SeasonalFactor, error) {
	key := fmt.Sprintf("%s:%s", date.Format("2006-01-02"), cityID.String())
	if cached, ok := s.factorCache.Get(key); ok {
		return cached, nil
	}
	factors, err := s.repo.ListActiveForDate(ctx, s.db, date, cityID)
	if err != nil {
		return nil, err
	}
	s.factorCache.Set(key, factors, factorCacheTTL)
	return factors, nil
}

func defaultCurve(start time.Time) float64 {
	switch start.Month() {
	case time.June, time.July, time.August:
		return highSeasonMultiplier
	case time.January, time.February, time.March:
		return lowSeasonMultiplier
	default:
		return 1.0
	}
}

func nearHoliday(start time.Time) bool {
	for _, h := range fixedHolidays {
		holiday := time.Date(start.Year(), time.Month(h[0]), h[1], 0, 0, 0, 0, start.Location())
		diff := start.Sub(holiday)
		if diff < 0 {
			diff = -diff
		}
		if diff <= time.Duration(holidayWindowDays)*24*time.Hour {
			return true
		}
	}
	return false
}

func (s *Service) Create(ctx context.Context, req seasonalitydomain.CreateFactorRequest) (*seasonalitydomain.SeasonalFactor, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, seasonalitydomain.ErrInvalidName
	}
	if req.EndDate.Before(req.StartDate) {
		return nil, seasonalitydomain.ErrInvalidWindow
	}
	if req.Multiplier <= 0 {
		return nil, seasonalitydomain.ErrInvalidMultiplier
	}

	now := s.clock.Now()
	factor := &seasonalitydomain.SeasonalFactor{
		ID:         s.genID.Generate(),
		Name:       name,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		Multiplier: req.Multiplier,
		CityID:     req.CityID,
		Active:     true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.repo.Insert(ctx, s.db, factor); err != nil {
		return nil, err
	}
	return factor, nil
}

func (s *Service) List(ctx context.Context) ([]seasonalitydomain.SeasonalFactor, error) {
	return s.repo.List(ctx, s.db)
}

func (s *Service) Deactivate(ctx context.Context, id snowflake.ID) error {
	updated, err := s.repo.Deactivate(ctx, s.db, id)
	if err != nil {
		return err
	}
	if !updated {
		return seasonalitydomain.ErrNotFound
	}
	return nil
}
