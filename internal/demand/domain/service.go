package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Service computes the city-level supply/demand multiplier.
type Service interface {
	// Multiplier maps the city's supply ratio over [start, end] to a
	// multiplier in [0.6, 2.5]. It never fails: any internal error
	// degrades to the neutral 1.0.
	Multiplier(ctx context.Context, cityID snowflake.ID, start, end time.Time) float64
	// Metrics returns the cached demand row for the city, recomputing
	// it when stale or absent.
	Metrics(ctx context.Context, cityID snowflake.ID) (*CityDemandMetrics, error)
	// RefreshCity recomputes and upserts the city's demand row.
	RefreshCity(ctx context.Context, cityID snowflake.ID) (*CityDemandMetrics, error)
	// RefreshAll recomputes every city with fleet presence, skipping
	// cities that fail. Returns the number of cities refreshed.
	RefreshAll(ctx context.Context) (int, error)
}

type Repository interface {
	FindByCity(ctx context.Context, db *gorm.DB, cityID snowflake.ID) (*CityDemandMetrics, error)
	Upsert(ctx context.Context, db *gorm.DB, metrics *CityDemandMetrics) error
}
