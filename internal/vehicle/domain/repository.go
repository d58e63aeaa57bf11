package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

var (
	ErrVehicleNotFound = errors.New("vehicle_not_found")
)

type Repository interface {
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Vehicle, error)
	CountByCity(ctx context.Context, db *gorm.DB, cityID snowflake.ID) (int64, error)
	CountEligibleByCity(ctx context.Context, db *gorm.DB, cityID snowflake.ID) (int64, error)
	ListEligibleIDs(ctx context.Context, db *gorm.DB) ([]snowflake.ID, error)
	ListCityIDs(ctx context.Context, db *gorm.DB) ([]snowflake.ID, error)
	UpdateUtilization(ctx context.Context, db *gorm.DB, id snowflake.ID, rate float64, at time.Time) error
	UpdateMaintenanceScore(ctx context.Context, db *gorm.DB, id snowflake.ID, score float64) error
	UpdateOdometer(ctx context.Context, db *gorm.DB, id snowflake.ID, odometerKM int64) error
}
