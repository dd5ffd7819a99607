package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	tariffdomain "github.com/smallbiznis/gridbill/internal/tariff/domain"
	"github.com/smallbiznis/gridbill/pkg/apperr"
	"gorm.io/gorm"
)

type Service interface {
	List(ctx context.Context) ([]Response, error)
	Get(ctx context.Context, tariffType string) (*Response, error)
	Upsert(ctx context.Context, req UpsertRequest) (*Response, error)
	// ChargeFor reads through db, which may be a transaction. A missing row is ErrNotConfigured.
	ChargeFor(ctx context.Context, db *gorm.DB, tariffType tariffdomain.TariffType) (*ExtraCharge, error)
}

type UpsertRequest struct {
	TariffType      string              `json:"tariff_type"`
	FixedCharge     decimal.NullDecimal `json:"fixed_charge"`
	MeterRent       decimal.NullDecimal `json:"meter_rent"`
	ElectricityDuty decimal.NullDecimal `json:"electricity_duty"`
	FuelCharge      decimal.NullDecimal `json:"fuel_charge"`
}

type Response struct {
	TariffType      tariffdomain.TariffType `json:"tariff_type"`
	FixedCharge     decimal.NullDecimal     `json:"fixed_charge"`
	MeterRent       decimal.NullDecimal     `json:"meter_rent"`
	ElectricityDuty decimal.NullDecimal     `json:"electricity_duty"`
	FuelCharge      decimal.NullDecimal     `json:"fuel_charge"`
	Total           decimal.Decimal         `json:"total"`
	UpdatedAt       time.Time               `json:"updated_at"`
}

var (
	ErrInvalidAmount = apperr.Validation("invalid_amount")
	ErrNotConfigured = apperr.Configuration("extra_charges_not_configured")
)
