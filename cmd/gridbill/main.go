package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/gridbill/internal/authorization"
	"github.com/smallbiznis/gridbill/internal/bill"
	"github.com/smallbiznis/gridbill/internal/clock"
	"github.com/smallbiznis/gridbill/internal/config"
	"github.com/smallbiznis/gridbill/internal/customer"
	"github.com/smallbiznis/gridbill/internal/events"
	"github.com/smallbiznis/gridbill/internal/extracharge"
	"github.com/smallbiznis/gridbill/internal/fineslab"
	"github.com/smallbiznis/gridbill/internal/migration"
	"github.com/smallbiznis/gridbill/internal/observability"
	"github.com/smallbiznis/gridbill/internal/payment"
	"github.com/smallbiznis/gridbill/internal/ratelimit"
	"github.com/smallbiznis/gridbill/internal/rating"
	"github.com/smallbiznis/gridbill/internal/reading"
	"github.com/smallbiznis/gridbill/internal/server"
	"github.com/smallbiznis/gridbill/internal/staff"
	"github.com/smallbiznis/gridbill/internal/tariff"
	"github.com/smallbiznis/gridbill/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core Infrastructure
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,
		events.Module,
		authorization.Module,
		ratelimit.Module,

		// Reference data and rating
		tariff.Module,
		extracharge.Module,
		fineslab.Module,
		rating.Module,

		// Billing
		customer.Module,
		staff.Module,
		bill.Module,
		reading.Module,
		payment.Module,

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
