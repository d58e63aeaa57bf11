package rule

import (
	"github.com/fleetrate/fleetrate/internal/rule/repository"
	"github.com/fleetrate/fleetrate/internal/rule/service"
	"go.uber.org/fx"
)

var Module = fx.Module("rule.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
