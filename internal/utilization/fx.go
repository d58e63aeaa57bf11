package utilization

import (
	"go.uber.org/fx"

	"github.com/fleetrate/fleetrate/internal/utilization/service"
)

var Module = fx.Module("utilization.service",
	fx.Provide(
		service.New,
	),
)
