package snapshot

import (
	"github.com/fleetrate/fleetrate/internal/snapshot/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("snapshot.repository",
	fx.Provide(repository.Provide),
)
