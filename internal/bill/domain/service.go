package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	tariffdomain "github.com/smallbiznis/gridbill/internal/tariff/domain"
	"github.com/smallbiznis/gridbill/pkg/apperr"
	"gorm.io/gorm"
)

type CreateInput struct {
	ReadingID   snowflake.ID
	CustomerID  snowflake.ID
	TariffType  tariffdomain.TariffType
	Units       int64
	PeriodYear  int
	PeriodMonth int
	BillDate    time.Time
}

type PayInput struct {
	PaymentID string
	Charge    Charge
	PaidAt    time.Time
}

type Service interface {
	// CreateForReading prices a reading and stores an unpaid bill through tx.
	CreateForReading(ctx context.Context, tx *gorm.DB, in CreateInput) (*Bill, error)
	// RepriceForReading refreezes the unpaid bill of an edited reading.
	RepriceForReading(ctx context.Context, tx *gorm.DB, bill *Bill, units int64) (*Bill, error)
	LockForReading(ctx context.Context, tx *gorm.DB, readingID snowflake.ID) (*Bill, error)
	GetForPeriod(ctx context.Context, customerID int64, year, month int) (*View, error)
	GetByID(ctx context.Context, id string) (*Bill, error)
	Load(ctx context.Context, tx *gorm.DB, id int64) (*Bill, error)
	ListForCustomer(ctx context.Context, customerID int64) ([]Bill, error)
	// ChargeAt prices settlement of b at the given moment.
	ChargeAt(ctx context.Context, tx *gorm.DB, b *Bill, at time.Time) (Charge, error)
	// MarkPaid numbers and settles an unpaid bill through tx.
	MarkPaid(ctx context.Context, tx *gorm.DB, b *Bill, in PayInput) (*Bill, error)
}

var (
	ErrInvalidID             = apperr.Validation("invalid_bill_id")
	ErrInvalidPeriod         = apperr.Validation("invalid_period")
	ErrNotFound              = apperr.NotFound("bill_not_found")
	ErrBillExists            = apperr.Conflict("bill_exists")
	ErrBillAlreadyPaid       = apperr.Conflict("bill_already_paid")
	ErrBillNumberUnavailable = apperr.Configuration("bill_number_template_invalid")
)

