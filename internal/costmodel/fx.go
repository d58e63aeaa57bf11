package costmodel

import "go.uber.org/fx"

var Module = fx.Module("costmodel",
	fx.Provide(New),
)
