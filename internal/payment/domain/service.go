package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/gridbill/pkg/apperr"
)

type InitiateRequest struct {
	BillID string `json:"bill_id"`
}

// Intent carries everything a payer needs to settle a bill through UPI. The
// payment id correlates the later verification and is not stored.
type Intent struct {
	PaymentID string          `json:"payment_id"`
	BillID    string          `json:"bill_id"`
	Amount    decimal.Decimal `json:"amount"`
	Fine      decimal.Decimal `json:"fine"`
	DaysLate  int             `json:"days_late"`
	UPIURI    string          `json:"upi_uri"`
	QRCodePNG string          `json:"qr_code_png"`
}

type VerifyRequest struct {
	PaymentID string              `json:"payment_id"`
	BillID    string              `json:"bill_id"`
	Amount    decimal.Decimal     `json:"amount"`
	Fine      decimal.NullDecimal `json:"fine"`
}

type Receipt struct {
	Success    bool            `json:"success"`
	BillID     string          `json:"bill_id"`
	BillNumber string          `json:"bill_number"`
	ReceiptID  string          `json:"receipt_id"`
	PaymentID  string          `json:"payment_id"`
	Amount     decimal.Decimal `json:"amount"`
	Fine       decimal.Decimal `json:"fine"`
	PaidAt     time.Time       `json:"paid_at"`
}

type Service interface {
	Initiate(ctx context.Context, customerID int64, req InitiateRequest) (*Intent, error)
	Verify(ctx context.Context, customerID int64, req VerifyRequest) (*Receipt, error)
}

var (
	ErrInvalidPaymentID = apperr.Validation("invalid_payment_id")
	ErrInvalidBillID    = apperr.Validation("invalid_bill_id")
	ErrInvalidAmount    = apperr.Validation("invalid_amount")
	ErrAmountMismatch   = apperr.Conflict("amount_mismatch")
	ErrFineMismatch     = apperr.Conflict("fine_mismatch")
	ErrDuplicatePayment = apperr.Conflict("duplicate_payment")
)
