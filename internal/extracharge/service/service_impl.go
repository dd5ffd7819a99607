package service

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	extrachargedomain "github.com/smallbiznis/gridbill/internal/extracharge/domain"
	tariffdomain "github.com/smallbiznis/gridbill/internal/tariff/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  extrachargedomain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  extrachargedomain.Repository
}

func New(p Params) extrachargedomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("extracharge.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) List(ctx context.Context) ([]extrachargedomain.Response, error) {
	items, err := s.repo.List(ctx, s.db)
	if err != nil {
		return nil, err
	}
	resp := make([]extrachargedomain.Response, 0, len(items))
	for i := range items {
		resp = append(resp, toResponse(&items[i]))
	}
	return resp, nil
}

func (s *Service) Get(ctx context.Context, tariffType string) (*extrachargedomain.Response, error) {
	t, err := tariffdomain.ParseTariffType(tariffType)
	if err != nil {
		return nil, err
	}
	charge, err := s.ChargeFor(ctx, s.db, t)
	if err != nil {
		return nil, err
	}
	resp := toResponse(charge)
	return &resp, nil
}

func (s *Service) Upsert(ctx context.Context, req extrachargedomain.UpsertRequest) (*extrachargedomain.Response, error) {
	t, err := tariffdomain.ParseTariffType(req.TariffType)
	if err != nil {
		return nil, err
	}
	for _, v := range []decimal.NullDecimal{req.FixedCharge, req.MeterRent, req.ElectricityDuty, req.FuelCharge} {
		if v.Valid && v.Decimal.IsNegative() {
			return nil, extrachargedomain.ErrInvalidAmount
		}
	}

	now := time.Now().UTC()
	entity := &extrachargedomain.ExtraCharge{
		ID:              s.genID.Generate(),
		TariffType:      t,
		FixedCharge:     req.FixedCharge,
		MeterRent:       req.MeterRent,
		ElectricityDuty: req.ElectricityDuty,
		FuelCharge:      req.FuelCharge,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.repo.Upsert(ctx, s.db, entity); err != nil {
		return nil, err
	}

	s.log.Info("extra charges updated",
		zap.String("tariff_type", string(t)),
		zap.String("total", entity.Total().String()),
	)
	resp := toResponse(entity)
	return &resp, nil
}

func (s *Service) ChargeFor(ctx context.Context, db *gorm.DB, tariffType tariffdomain.TariffType) (*extrachargedomain.ExtraCharge, error) {
	if db == nil {
		db = s.db
	}
	charge, err := s.repo.FindByType(ctx, db, tariffType)
	if err != nil {
		return nil, err
	}
	if charge == nil {
		return nil, extrachargedomain.ErrNotConfigured
	}
	return charge, nil
}

func toResponse(e *extrachargedomain.ExtraCharge) extrachargedomain.Response {
	return extrachargedomain.Response{
		TariffType:      e.TariffType,
		FixedCharge:     e.FixedCharge,
		MeterRent:       e.MeterRent,
		ElectricityDuty: e.ElectricityDuty,
		FuelCharge:      e.FuelCharge,
		Total:           e.Total(),
		UpdatedAt:       e.UpdatedAt,
	}
}
