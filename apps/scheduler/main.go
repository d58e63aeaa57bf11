package main

import (
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"

	"github.com/fleetrate/fleetrate/internal/booking"
	"github.com/fleetrate/fleetrate/internal/clock"
	"github.com/fleetrate/fleetrate/internal/config"
	"github.com/fleetrate/fleetrate/internal/demand"
	"github.com/fleetrate/fleetrate/internal/migration"
	"github.com/fleetrate/fleetrate/internal/observability"
	"github.com/fleetrate/fleetrate/internal/scheduler"
	"github.com/fleetrate/fleetrate/internal/snapshot"
	"github.com/fleetrate/fleetrate/internal/utilization"
	"github.com/fleetrate/fleetrate/internal/vehicle"
	"github.com/fleetrate/fleetrate/pkg/db"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,

		vehicle.Module,
		booking.Module,
		demand.Module,
		utilization.Module,
		snapshot.Module,
		scheduler.Module,

		migration.Module,
		fx.Invoke(scheduler.StartScheduler),
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
