package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/formanet/formanet/internal/account"
	"github.com/formanet/formanet/internal/audit"
	"github.com/formanet/formanet/internal/clock"
	"github.com/formanet/formanet/internal/config"
	"github.com/formanet/formanet/internal/dispatch"
	"github.com/formanet/formanet/internal/logger"
	"github.com/formanet/formanet/internal/maintenance"
	"github.com/formanet/formanet/internal/migration"
	"github.com/formanet/formanet/internal/onboarding"
	"github.com/formanet/formanet/internal/organization"
	"github.com/formanet/formanet/internal/royalty"
	"github.com/formanet/formanet/internal/server"
	"github.com/formanet/formanet/internal/territory"
	"github.com/formanet/formanet/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		logger.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,

		// Functional domains
		audit.Module,
		account.Module,
		organization.Module,
		territory.Module,
		dispatch.Module,
		onboarding.Module,
		royalty.Module,
		maintenance.Module,

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
