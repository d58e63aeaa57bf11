package pricing

import (
	"go.uber.org/fx"

	"github.com/fleetrate/fleetrate/internal/pricing/service"
)

var Module = fx.Module("pricing.service",
	fx.Provide(service.New),
)
