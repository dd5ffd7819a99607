package service

import (
	"context"
	"database/sql"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/gridbill/internal/config"
	extrachargedomain "github.com/smallbiznis/gridbill/internal/extracharge/domain"
	finedomain "github.com/smallbiznis/gridbill/internal/fineslab/domain"
	"github.com/smallbiznis/gridbill/internal/observability/metrics"
	ratingdomain "github.com/smallbiznis/gridbill/internal/rating/domain"
	"github.com/smallbiznis/gridbill/internal/rating/engine"
	tariffdomain "github.com/smallbiznis/gridbill/internal/tariff/domain"
	"github.com/smallbiznis/gridbill/pkg/apperr"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	Billing *config.BillingConfigHolder
	Tariffs tariffdomain.Service
	Extras  extrachargedomain.Service
	Fines   finedomain.Service
	Metrics *metrics.Metrics `optional:"true"`
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	billing *config.BillingConfigHolder
	tariffs tariffdomain.Service
	extras  extrachargedomain.Service
	fines   finedomain.Service
	metrics *metrics.Metrics
}

func New(p Params) ratingdomain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("rating.service"),
		billing: p.Billing,
		tariffs: p.Tariffs,
		extras:  p.Extras,
		fines:   p.Fines,
		metrics: p.Metrics,
	}
}

func (s *Service) Quote(ctx context.Context, tariffType string, units int64) (*ratingdomain.Assessment, error) {
	t, err := tariffdomain.ParseTariffType(tariffType)
	if err != nil {
		return nil, err
	}

	var assessment *ratingdomain.Assessment
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		assessment, err = s.QuoteWith(ctx, tx, t, units)
		return err
	}, s.snapshotOptions()...)
	if err != nil {
		return nil, err
	}
	return assessment, nil
}

func (s *Service) QuoteWith(ctx context.Context, tx *gorm.DB, tariffType tariffdomain.TariffType, units int64) (*ratingdomain.Assessment, error) {
	if units < 0 {
		return nil, ratingdomain.ErrNegativeUnits
	}

	slabs, err := s.tariffs.SlabsFor(ctx, tx, tariffType)
	if err != nil {
		return nil, err
	}
	extra, err := s.extras.ChargeFor(ctx, tx, tariffType)
	if err != nil {
		return nil, s.configurationFailure(ctx, err, zap.String("tariff_type", string(tariffType)))
	}

	assessment, err := engine.AssembleBill(tariffType, units, slabs, *extra, decimal.Zero)
	if err != nil {
		return nil, s.configurationFailure(ctx, err,
			zap.String("tariff_type", string(tariffType)),
			zap.Int64("units", units),
		)
	}
	return &assessment, nil
}

func (s *Service) FineFor(ctx context.Context, tx *gorm.DB, daysLate int) (decimal.Decimal, error) {
	if daysLate <= 0 {
		return decimal.Zero, nil
	}

	schedule, err := s.fines.Schedule(ctx, tx)
	if err != nil {
		return decimal.Zero, err
	}
	cfg := s.billing.Get()
	policy := ratingdomain.FinePolicy{
		Overflow: ratingdomain.OverflowPolicy(cfg.FineOverflowPolicy),
		Grace:    cfg.FineGracePeriod,
	}

	fine, err := engine.ComputeFine(daysLate, schedule, policy)
	if err != nil {
		return decimal.Zero, s.configurationFailure(ctx, err, zap.Int("days_late", daysLate))
	}
	return fine, nil
}

// configurationFailure surfaces incomplete reference data to operators. Other
// errors pass through untouched.
func (s *Service) configurationFailure(ctx context.Context, err error, fields ...zap.Field) error {
	if !apperr.IsConfiguration(err) {
		return err
	}
	s.metrics.RecordConfigurationError(ctx, apperr.CodeOf(err))
	s.log.Error("billing reference data incomplete",
		append(fields, zap.String("code", apperr.CodeOf(err)), zap.Error(err))...,
	)
	return err
}

// snapshotOptions asks postgres for a repeatable-read snapshot so every table
// in a quote is read at the same point in time. Other dialects use their default.
func (s *Service) snapshotOptions() []*sql.TxOptions {
	if s.db.Dialector.Name() == "postgres" {
		return []*sql.TxOptions{{Isolation: sql.LevelRepeatableRead, ReadOnly: true}}
	}
	return nil
}
