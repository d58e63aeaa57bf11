package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fleetrate/fleetrate/internal/clock"
	obsmetrics "github.com/fleetrate/fleetrate/internal/observability/metrics"
	"github.com/fleetrate/fleetrate/pkg/money"

	ruledomain "github.com/fleetrate/fleetrate/internal/rule/domain"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  ruledomain.Repository
}

type ruleService struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  ruledomain.Repository
}

func New(p Params) ruledomain.Service {
	return &ruleService{
		db:    p.DB,
		log:   p.Log.Named("rule.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

// Resolve layers matching rules onto price in ascending priority order,
// so the highest-priority rule composes last and has final say. Each
// rule's own clamp applies immediately after its adjustment.
func (s *ruleService) Resolve(ctx context.Context, vehicleID, cityID snowflake.ID, start, end time.Time, price float64) (float64, []ruledomain.AppliedRule) {
	rules, err := s.repo.ListMatching(ctx, s.db, vehicleID, cityID, start, end)
	if err != nil {
		obsmetrics.Pricing().IncEstimatorFallback("rule")
		s.log.Warn("rule lookup failed, leaving price unadjusted",
			zap.Int64("vehicle_id", int64(vehicleID)),
			zap.Error(err),
		)
		return price, nil
	}

	var applied []ruledomain.AppliedRule
	current := price
	for _, r := range rules {
		before := current
		switch {
		case r.FixedPrice != nil:
			current = *r.FixedPrice
		case r.Multiplier != nil:
			current *= *r.Multiplier
		}
		if r.MinPrice != nil && current < *r.MinPrice {
			current = *r.MinPrice
		}
		if r.MaxPrice != nil && current > *r.MaxPrice {
			current = *r.MaxPrice
		}
		current = money.Round(current)
		if current != before {
			applied = append(applied, ruledomain.AppliedRule{
				RuleID:      r.ID,
				Name:        r.Name,
				Description: r.Description,
				Delta:       money.Round(current - before),
			})
		}
	}
	return current, applied
}

func (s *ruleService) Create(ctx context.Context, rule *ruledomain.PricingRule) (*ruledomain.PricingRule, error) {
	rule.Name = strings.TrimSpace(rule.Name)
	if rule.Name == "" {
		return nil, ruledomain.ErrInvalidRuleName
	}
	if (rule.FixedPrice == nil) == (rule.Multiplier == nil) {
		return nil, ruledomain.ErrInvalidRuleEffect
	}
	if rule.FixedPrice != nil && *rule.FixedPrice <= 0 {
		return nil, ruledomain.ErrInvalidRuleEffect
	}
	if rule.Multiplier != nil && *rule.Multiplier <= 0 {
		return nil, ruledomain.ErrInvalidRuleEffect
	}
	if rule.StartDate != nil && rule.EndDate != nil && rule.EndDate.Before(*rule.StartDate) {
		return nil, ruledomain.ErrInvalidRuleWindow
	}

	now := s.clock.Now()
	rule.ID = s.genID.Generate()
	rule.Active = true
	rule.CreatedAt = now
	rule.UpdatedAt = now
	if err := s.repo.Insert(ctx, s.db, rule); err != nil {
		return nil, err
	}
	return rule, nil
}

func (s *ruleService) List(ctx context.Context) ([]ruledomain.PricingRule, error) {
	return s.repo.List(ctx, s.db)
}

func (s *ruleService) Deactivate(ctx context.Context, id snowflake.ID) error {
	updated, err := s.repo.Deactivate(ctx, s.db, id)
	if err != nil {
		return err
	}
	if !updated {
		return ruledomain.ErrRuleNotFound
	}
	return nil
}
