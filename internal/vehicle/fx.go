package vehicle

import (
	"github.com/fleetrate/fleetrate/internal/vehicle/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("vehicle.repository",
	fx.Provide(repository.Provide),
)
