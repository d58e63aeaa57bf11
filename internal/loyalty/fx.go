package loyalty

import (
	"go.uber.org/fx"

	"github.com/fleetrate/fleetrate/internal/loyalty/service"
)

var Module = fx.Module("loyalty.service",
	fx.Provide(
		service.New,
	),
)
