package demand

import (
	"github.com/fleetrate/fleetrate/internal/demand/repository"
	"github.com/fleetrate/fleetrate/internal/demand/service"
	"go.uber.org/fx"
)

var Module = fx.Module("demand.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
