package ratelimit

import (
	redis "github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/fleetrate/fleetrate/internal/config"
)

type Params struct {
	fx.In

	Cfg    config.Config
	Log    *zap.Logger
	Client *redis.Client `optional:"true"`
}

var Module = fx.Module("rate.limit",
	fx.Provide(func(p Params) *QuoteLimiter {
		return NewQuoteLimiter(p.Cfg, p.Client, p.Log)
	}),
)
