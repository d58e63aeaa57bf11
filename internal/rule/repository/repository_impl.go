package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	ruledomain "github.com/fleetrate/fleetrate/internal/rule/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() ruledomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, rule *ruledomain.PricingRule) error {
	return db.WithContext(ctx).Create(rule).Error
}

func (r *repo) List(ctx context.Context, db *gorm.DB) ([]ruledomain.PricingRule, error) {
	var rules []ruledomain.PricingRule
	err := db.WithContext(ctx).Order("priority ASC, id ASC").Find(&rules).Error
	if err != nil {
		return nil, err
	}
	return rules, nil
}

func (r *repo) ListMatching(ctx context.Context, db *gorm.DB, vehicleID, cityID snowflake.ID, start, end time.Time) ([]ruledomain.PricingRule, error) {
	var rules []ruledomain.PricingRule
	err := db.WithContext(ctx).
		Where("active = ?", true).
		Where("vehicle_id = ? OR city_id = ? OR (vehicle_id IS NULL AND city_id IS NULL)", vehicleID, cityID).
		Where("start_date IS NULL OR start_date <= ?", end).
		Where("end_date IS NULL OR end_date >= ?", start).
		Order("priority ASC, id ASC").
		Find(&rules).Error
	if err != nil {
		return nil, err
	}
	return rules, nil
}

func (r *repo) Deactivate(ctx context.Context, db *gorm.DB, id snowflake.ID) (bool, error) {
	tx := db.WithContext(ctx).
		Model(&ruledomain.PricingRule{}).
		Where("id = ?", id).
		Update("active", false)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}
