// Package domain contains the bill record and its lifecycle contracts.
package domain

import (
	"encoding/json"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	extrachargedomain "github.com/smallbiznis/gridbill/internal/extracharge/domain"
	ratingdomain "github.com/smallbiznis/gridbill/internal/rating/domain"
	tariffdomain "github.com/smallbiznis/gridbill/internal/tariff/domain"
	"gorm.io/datatypes"
)

type Status string

const (
	StatusUnpaid Status = "unpaid"
	StatusPaid   Status = "paid"
)

// Bill is one customer's charge for one billing month. Energy and extra
// amounts are frozen when the bill is created; the fine is priced at payment.
type Bill struct {
	ID             snowflake.ID            `gorm:"primaryKey" json:"bill_id"`
	CustomerID     snowflake.ID            `gorm:"not null;uniqueIndex:ux_bills_customer_period,priority:1" json:"customer_id"`
	ReadingID      snowflake.ID            `gorm:"not null;uniqueIndex" json:"reading_id"`
	TariffType     tariffdomain.TariffType `gorm:"type:varchar(32);not null" json:"tariff_type"`
	PeriodYear     int                     `gorm:"not null;uniqueIndex:ux_bills_customer_period,priority:2" json:"period_year"`
	PeriodMonth    int                     `gorm:"not null;uniqueIndex:ux_bills_customer_period,priority:3" json:"period_month"`
	UnitsConsumed  int64                   `gorm:"not null" json:"units_consumed"`
	BillDate       time.Time               `gorm:"not null" json:"bill_date"`
	DueDate        time.Time               `gorm:"not null" json:"due_date"`
	Status         Status                  `gorm:"type:varchar(16);not null;index" json:"status"`
	BillNumber     *string                 `gorm:"uniqueIndex" json:"bill_number,omitempty"`
	EnergyAmount   decimal.Decimal         `gorm:"type:numeric(14,4);not null" json:"energy_amount"`
	ExtraAmount    decimal.Decimal         `gorm:"type:numeric(14,4);not null" json:"extra_amount"`
	SubtotalAmount decimal.Decimal         `gorm:"type:numeric(14,4);not null" json:"subtotal_amount"`
	FineAmount     decimal.NullDecimal     `gorm:"type:numeric(12,2)" json:"fine_amount"`
	TotalPaid      decimal.NullDecimal     `gorm:"type:numeric(12,2)" json:"total_paid"`
	Breakdown      datatypes.JSON          `gorm:"not null" json:"breakdown"`
	PaymentID      *string                 `gorm:"uniqueIndex" json:"payment_id,omitempty"`
	PaidAt         *time.Time              `json:"paid_at,omitempty"`
	CreatedAt      time.Time               `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time               `gorm:"not null" json:"updated_at"`
}

func (Bill) TableName() string { return "bills" }

func (b Bill) IsPaid() bool { return b.Status == StatusPaid }

// Breakdown is the frozen explanation of a bill's subtotal.
type Breakdown struct {
	Energy []ratingdomain.EnergyLine     `json:"energy"`
	Extras []extrachargedomain.Component `json:"extras"`
}

func NewBreakdown(a ratingdomain.Assessment) (datatypes.JSON, error) {
	lines := a.Energy.Lines
	if lines == nil {
		lines = []ratingdomain.EnergyLine{}
	}
	raw, err := json.Marshal(Breakdown{Energy: lines, Extras: a.Extras})
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}

func (b Bill) DecodeBreakdown() (Breakdown, error) {
	var out Breakdown
	if len(b.Breakdown) == 0 {
		return out, nil
	}
	err := json.Unmarshal(b.Breakdown, &out)
	return out, err
}

// BillNumberSequence is the per-month counter behind bill numbers.
type BillNumberSequence struct {
	Period    string `gorm:"primaryKey;type:varchar(6)"`
	LastValue int64  `gorm:"not null;default:0"`
}

func (BillNumberSequence) TableName() string { return "bill_number_sequences" }

// Charge is what a bill costs when settled at a given moment.
type Charge struct {
	DaysLate int             `json:"days_late"`
	Fine     decimal.Decimal `json:"fine"`
	Total    decimal.Decimal `json:"total"`
}

// Payable is the total rounded to paise, the only amount a payer may claim.
func (c Charge) Payable() decimal.Decimal {
	return c.Total.Round(2)
}

type View struct {
	Bill
	DaysLate    int             `json:"days_late"`
	FineAsOfNow decimal.Decimal `json:"fine_as_of_now"`
	PayableNow  decimal.Decimal `json:"payable_now"`
}
