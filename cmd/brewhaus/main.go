package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/brewhaus/internal/config"
	"github.com/smallbiznis/brewhaus/internal/migration"
	"github.com/smallbiznis/brewhaus/internal/observability"
	"github.com/smallbiznis/brewhaus/internal/server"
	"github.com/smallbiznis/brewhaus/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		migration.Module,

		// HTTP surface and feature modules
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
