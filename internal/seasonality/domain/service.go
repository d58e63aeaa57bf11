package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

var (
	ErrInvalidName       = errors.New("invalid_name")
	ErrInvalidWindow     = errors.New("invalid_window")
	ErrInvalidMultiplier = errors.New("invalid_multiplier")
	ErrNotFound          = errors.New("not_found")
)

// Service computes the time-of-year multiplier for a rental start date.
type Service interface {
	// Multiplier layers custom/default seasonal curve, day-of-week,
	// holiday proximity and booking lead time. It never fails; data
	// access errors degrade to the default curve.
	Multiplier(ctx context.Context, start time.Time, durationDays int, cityID snowflake.ID) float64

	Create(ctx context.Context, req CreateFactorRequest) (*SeasonalFactor, error)
	List(ctx context.Context) ([]SeasonalFactor, error)
	Deactivate(ctx context.Context, id snowflake.ID) error
}

type CreateFactorRequest struct {
	Name       string        `json:"name"`
	StartDate  time.Time     `json:"start_date"`
	EndDate    time.Time     `json:"end_date"`
	Multiplier float64       `json:"multiplier"`
	CityID     *snowflake.ID `json:"city_id,omitempty"`
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, factor *SeasonalFactor) error
	List(ctx context.Context, db *gorm.DB) ([]SeasonalFactor, error)
	ListActiveForDate(ctx context.Context, db *gorm.DB, date time.Time, cityID snowflake.ID) ([]SeasonalFactor, error)
	Deactivate(ctx context.Context, db *gorm.DB, id snowflake.ID) (bool, error)
}
