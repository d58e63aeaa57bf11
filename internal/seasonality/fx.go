package seasonality

import (
	"github.com/fleetrate/fleetrate/internal/seasonality/repository"
	"github.com/fleetrate/fleetrate/internal/seasonality/service"
	"go.uber.org/fx"
)

var Module = fx.Module("seasonality.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
