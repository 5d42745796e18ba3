package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/meshmart/meshmart/internal/config"
	"github.com/meshmart/meshmart/internal/logger"
	"github.com/meshmart/meshmart/internal/migration"
	"github.com/meshmart/meshmart/internal/server"
	"github.com/meshmart/meshmart/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		migration.Module,
		server.Module,
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
