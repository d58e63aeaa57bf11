package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	seasonalitydomain "github.com/fleetrate/fleetrate/internal/seasonality/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() seasonalitydomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, factor *seasonalitydomain.SeasonalFactor) error {
	return db.WithContext(ctx).Create(factor).Error
}

func (r *repo) List(ctx context.Context, db *gorm.DB) ([]seasonalitydomain.SeasonalFactor, error) {
	var factors []seasonalitydomain.SeasonalFactor
	err := db.WithContext(ctx).Order("start_date ASC").Find(&factors).Error
	if err != nil {
		return nil, err
	}
	return factors, nil
}

func (r *repo) ListActiveForDate(ctx context.Context, db *gorm.DB, date time.Time, cityID snowflake.ID) ([]seasonalitydomain.SeasonalFactor, error) {
	var factors []seasonalitydomain.SeasonalFactor
	err := db.WithContext(ctx).
		Where("active = ?", true).
		Where("start_date <= ? AND end_date >= ?", date, date).
		Where("city_id IS NULL OR city_id = ?", cityID).
		Find(&factors).Error
	if err != nil {
		return nil, err
	}
	return factors, nil
}

func (r *repo) Deactivate(ctx context.Context, db *gorm.DB, id snowflake.ID) (bool, error) {
	tx := db.WithContext(ctx).
		Model(&seasonalitydomain.SeasonalFactor{}).
		Where("id = ?", id).
		Update("active", false)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}
