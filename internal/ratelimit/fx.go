package ratelimit

import (
	"context"

	redis "github.com/redis/go-redis/v9"
	"github.com/smallbiznis/gridbill/internal/clock"
	"github.com/smallbiznis/gridbill/internal/config"
	"github.com/smallbiznis/gridbill/internal/observability/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("rate.limit",
	fx.Provide(newGuard),
)

type guardParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    config.Config
	Billing   *config.BillingConfigHolder
	Clock     clock.Clock
	Log       *zap.Logger
	Metrics   *metrics.Metrics `optional:"true"`
}

func newGuard(p guardParams) *VerifyGuard {
	if !p.Config.Redis.Enabled() {
		p.Log.Info("redis not configured, payment verification throttled per instance")
		return NewVerifyGuard(p.Log, p.Billing, p.Clock, nil, nil, p.Metrics)
	}

	client := redis.NewClient(&redis.Options{
		Addr:     p.Config.Redis.Addr,
		Password: p.Config.Redis.Password,
		DB:       p.Config.Redis.DB,
	})
	p.Lifecycle.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return client.Close()
		},
	})
	return NewVerifyGuard(p.Log, p.Billing, p.Clock, NewTokenBucket(client), NewLocker(client), p.Metrics)
}
