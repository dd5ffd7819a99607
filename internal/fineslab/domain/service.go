package domain

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/gridbill/pkg/apperr"
	"gorm.io/gorm"
)

type Service interface {
	List(ctx context.Context) ([]FineSlab, error)
	Create(ctx context.Context, req CreateRequest) (*FineSlab, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*FineSlab, error)
	Delete(ctx context.Context, id string) error
	// Schedule returns the ordered slabs read through db, which may be a transaction.
	Schedule(ctx context.Context, db *gorm.DB) ([]FineSlab, error)
}

type CreateRequest struct {
	DaysFrom   int             `json:"days_from"`
	DaysTo     int             `json:"days_to"`
	FineAmount decimal.Decimal `json:"fine_amount"`
}

type UpdateRequest struct {
	DaysFrom   *int             `json:"days_from"`
	DaysTo     *int             `json:"days_to"`
	FineAmount *decimal.Decimal `json:"fine_amount"`
}

var (
	ErrInvalidDaysFrom   = apperr.Validation("invalid_days_from")
	ErrInvalidDaysTo     = apperr.Validation("invalid_days_to")
	ErrInvalidFineAmount = apperr.Validation("invalid_fine_amount")
	ErrInvalidID         = apperr.Validation("invalid_id")
	ErrScheduleOverlap   = apperr.Validation("invalid_schedule_overlap")
	ErrScheduleGap       = apperr.Validation("invalid_schedule_gap")
	ErrNotFound          = apperr.NotFound("fine_slab_not_found")
)
