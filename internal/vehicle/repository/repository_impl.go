package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	vehicledomain "github.com/fleetrate/fleetrate/internal/vehicle/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() vehicledomain.Repository {
	return &repo{}
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*vehicledomain.Vehicle, error) {
	var v vehicledomain.Vehicle
	err := db.WithContext(ctx).Where("id = ?", id).Limit(1).Find(&v).Error
	if err != nil {
		return nil, err
	}
	if v.ID == 0 {
		return nil, nil
	}
	return &v, nil
}

func (r *repo) CountByCity(ctx context.Context, db *gorm.DB, cityID snowflake.ID) (int64, error) {
	var count int64
	err := db.WithContext(ctx).
		Model(&vehicledomain.Vehicle{}).
		Where("city_id = ? AND status <> ?", cityID, vehicledomain.StatusRetired).
		Count(&count).Error
	return count, err
}

func (r *repo) CountEligibleByCity(ctx context.Context, db *gorm.DB, cityID snowflake.ID) (int64, error) {
	var count int64
	err := db.WithContext(ctx).
		Model(&vehicledomain.Vehicle{}).
		Where("city_id = ? AND status = ?", cityID, vehicledomain.StatusAvailable).
		Count(&count).Error
	return count, err
}

func (r *repo) ListEligibleIDs(ctx context.Context, db *gorm.DB) ([]snowflake.ID, error) {
	var ids []snowflake.ID
	err := db.WithContext(ctx).
		Model(&vehicledomain.Vehicle{}).
		Where("status = ?", vehicledomain.StatusAvailable).
		Order("id ASC").
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *repo) ListCityIDs(ctx context.Context, db *gorm.DB) ([]snowflake.ID, error) {
	var ids []snowflake.ID
	err := db.WithContext(ctx).
		Model(&vehicledomain.Vehicle{}).
		Distinct("city_id").
		Order("city_id ASC").
		Pluck("city_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *repo) UpdateUtilization(ctx context.Context, db *gorm.DB, id snowflake.ID, rate float64, at time.Time) error {
	return db.WithContext(ctx).
		Model(&vehicledomain.Vehicle{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"utilization_rate":       rate,
			"utilization_updated_at": at,
			"updated_at":             at,
		}).Error
}

func (r *repo) UpdateMaintenanceScore(ctx context.Context, db *gorm.DB, id snowflake.ID, score float64) error {
	return db.WithContext(ctx).
		Model(&vehicledomain.Vehicle{}).
		Where("id = ?", id).
		Update("maintenance_score", score).Error
}

func (r *repo) UpdateOdometer(ctx context.Context, db *gorm.DB, id snowflake.ID, odometerKM int64) error {
	return db.WithContext(ctx).
		Model(&vehicledomain.Vehicle{}).
		Where("id = ?", id).
		Update("odometer_km", odometerKM).Error
}
