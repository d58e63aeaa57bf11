package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

// Service computes the loyalty discount multiplier for a quote.
type Service interface {
	// Multiplier returns a value in (0, 1] for the given customer. A nil
	// customerID is a guest quote and gets the neutral 1.0. Lookups never
	// fail a quote; on error the neutral multiplier is returned.
	Multiplier(ctx context.Context, customerID *snowflake.ID) float64
}
