package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	demanddomain "github.com/fleetrate/fleetrate/internal/demand/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct{}

func Provide() demanddomain.Repository {
	return &repo{}
}

func (r *repo) FindByCity(ctx context.Context, db *gorm.DB, cityID snowflake.ID) (*demanddomain.CityDemandMetrics, error) {
	var m demanddomain.CityDemandMetrics
	err := db.WithContext(ctx).Where("city_id = ?", cityID).Limit(1).Find(&m).Error
	if err != nil {
		return nil, err
	}
	if m.ID == 0 {
		return nil, nil
	}
	return &m, nil
}

func (r *repo) Upsert(ctx context.Context, db *gorm.DB, metrics *demanddomain.CityDemandMetrics) error {
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "city_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"total_vehicles",
				"available_vehicles",
				"active_bookings",
				"utilization_rate",
				"demand_score",
				"computed_at",
			}),
		}).
		Create(metrics).Error
}
