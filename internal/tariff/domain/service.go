package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/gridbill/pkg/apperr"
	"gorm.io/gorm"
)

type Service interface {
	List(ctx context.Context, tariffType string) ([]Response, error)
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Response, error)
	Delete(ctx context.Context, id string) error
	// SlabsFor returns the ordered schedule read through db, which may be a transaction.
	SlabsFor(ctx context.Context, db *gorm.DB, tariffType TariffType) ([]TariffSlab, error)
}

type CreateRequest struct {
	TariffType string          `json:"tariff_type"`
	UnitFrom   int64           `json:"unit_from"`
	UnitTo     *int64          `json:"unit_to"`
	Rate       decimal.Decimal `json:"rate"`
}

type UpdateRequest struct {
	UnitFrom *int64           `json:"unit_from"`
	UnitTo   *int64           `json:"unit_to"`
	Rate     *decimal.Decimal `json:"rate"`
}

type Response struct {
	ID         string          `json:"id"`
	TariffType TariffType      `json:"tariff_type"`
	Range      string          `json:"range"`
	UnitFrom   int64           `json:"unit_from"`
	UnitTo     int64           `json:"unit_to"`
	OpenEnded  bool            `json:"open_ended"`
	Rate       decimal.Decimal `json:"rate"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

var (
	ErrInvalidTariffType = apperr.Validation("invalid_tariff_type")
	ErrInvalidUnitFrom   = apperr.Validation("invalid_unit_from")
	ErrInvalidUnitTo     = apperr.Validation("invalid_unit_to")
	ErrInvalidRate       = apperr.Validation("invalid_rate")
	ErrInvalidID         = apperr.Validation("invalid_id")
	ErrScheduleStart     = apperr.Validation("invalid_schedule_start")
	ErrScheduleOverlap   = apperr.Validation("invalid_schedule_overlap")
	ErrScheduleGap       = apperr.Validation("invalid_schedule_gap")
	ErrOpenEndedNotLast  = apperr.Validation("invalid_open_ended_slab")
	ErrNotFound          = apperr.NotFound("tariff_slab_not_found")
)
