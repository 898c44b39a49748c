package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/segmenta/internal/clock"
	"github.com/smallbiznis/segmenta/internal/config"
	"github.com/smallbiznis/segmenta/internal/migration"
	"github.com/smallbiznis/segmenta/internal/scheduler"
	"github.com/smallbiznis/segmenta/internal/server"
	"github.com/smallbiznis/segmenta/pkg/db"
	"github.com/smallbiznis/segmenta/pkg/log"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		log.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,

		server.Module,
		scheduler.Module,
		migration.Module,
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
