package domain

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/gridbill/pkg/apperr"
)

type RecordRequest struct {
	CustomerID    string `json:"customer_id"`
	StaffID       string `json:"staff_id"`
	UnitsConsumed *int64 `json:"units_consumed"`
}

type UpdateRequest struct {
	UnitsConsumed *int64 `json:"units_consumed"`
}

// Result is what reading entry reports back: the bill it produced and the
// amount due before any fine.
type Result struct {
	ReadingID string          `json:"reading_id"`
	BillID    string          `json:"bill_id"`
	Amount    decimal.Decimal `json:"amount"`
}

type Service interface {
	Record(ctx context.Context, req RecordRequest) (*Result, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Result, error)
	Get(ctx context.Context, id string) (*Reading, error)
}

var (
	ErrInvalidID         = apperr.Validation("invalid_reading_id")
	ErrInvalidCustomerID = apperr.Validation("invalid_customer_id")
	ErrInvalidStaffID    = apperr.Validation("invalid_staff_id")
	ErrUnitsRequired     = apperr.Validation("invalid_units_consumed")
	ErrReadingLocked     = apperr.Validation("reading_locked")
	ErrNotFound          = apperr.NotFound("reading_not_found")
)
