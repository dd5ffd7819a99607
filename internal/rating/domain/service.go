package domain

import (
	"context"

	"github.com/shopspring/decimal"
	tariffdomain "github.com/smallbiznis/gridbill/internal/tariff/domain"
	"github.com/smallbiznis/gridbill/pkg/apperr"
	"gorm.io/gorm"
)

type Service interface {
	// Quote reads every reference table in one transaction and assembles a bill with no fine.
	Quote(ctx context.Context, tariffType string, units int64) (*Assessment, error)
	// QuoteWith is Quote against a caller-owned transaction.
	QuoteWith(ctx context.Context, tx *gorm.DB, tariffType tariffdomain.TariffType, units int64) (*Assessment, error)
	// FineFor prices lateness with the current schedule and overflow policy.
	FineFor(ctx context.Context, tx *gorm.DB, daysLate int) (decimal.Decimal, error)
}

var (
	ErrNegativeUnits = apperr.Validation("invalid_units")

	ErrTariffNotConfigured       = apperr.Configuration("tariff_not_configured")
	ErrTariffScheduleInvalid     = apperr.Configuration("tariff_schedule_invalid")
	ErrTariffCoverage            = apperr.Configuration("tariff_coverage_exceeded")
	ErrFineScheduleNotConfigured = apperr.Configuration("fine_schedule_not_configured")
	ErrFineScheduleExceeded      = apperr.Configuration("fine_schedule_exceeded")
	ErrFineScheduleGap           = apperr.Configuration("fine_schedule_gap")
	ErrFineScheduleUncovered     = apperr.Configuration("fine_schedule_uncovered")
)
