package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// PaymentRecord is written once, when a payment has been verified and its
// bill marked paid.
type PaymentRecord struct {
	ID         snowflake.ID    `gorm:"primaryKey" json:"id"`
	PaymentID  string          `gorm:"type:varchar(64);not null;uniqueIndex" json:"payment_id"`
	BillID     snowflake.ID    `gorm:"not null;uniqueIndex" json:"bill_id"`
	CustomerID snowflake.ID    `gorm:"not null;index" json:"customer_id"`
	Amount     decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	FineAmount decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"fine_amount"`
	ReceiptID  string          `gorm:"type:varchar(26);not null;uniqueIndex" json:"receipt_id"`
	PaidAt     time.Time       `gorm:"not null" json:"paid_at"`
	CreatedAt  time.Time       `gorm:"not null" json:"created_at"`
}

func (PaymentRecord) TableName() string { return "payments" }
