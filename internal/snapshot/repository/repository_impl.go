package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	snapshotdomain "github.com/fleetrate/fleetrate/internal/snapshot/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() snapshotdomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, snapshot *snapshotdomain.PricingSnapshot) error {
	return db.WithContext(ctx).Create(snapshot).Error
}

func (r *repo) ListByVehicle(ctx context.Context, db *gorm.DB, vehicleID snowflake.ID, limit int) ([]snapshotdomain.PricingSnapshot, error) {
	var snapshots []snapshotdomain.PricingSnapshot
	q := db.WithContext(ctx).
		Where("vehicle_id = ?", vehicleID).
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&snapshots).Error; err != nil {
		return nil, err
	}
	return snapshots, nil
}

func (r *repo) DeleteOlderThan(ctx context.Context, db *gorm.DB, cutoff time.Time) (int64, error) {
	tx := db.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Delete(&snapshotdomain.PricingSnapshot{})
	if tx.Error != nil {
		return 0, tx.Error
	}
	return tx.RowsAffected, nil
}
