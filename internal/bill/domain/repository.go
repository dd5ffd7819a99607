package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PaidUpdate struct {
	BillNumber string
	PaymentID  string
	Fine       decimal.Decimal
	TotalPaid  decimal.Decimal
	PaidAt     time.Time
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, bill *Bill) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Bill, error)
	FindByPeriod(ctx context.Context, db *gorm.DB, customerID snowflake.ID, year, month int) (*Bill, error)
	LockByReadingID(ctx context.Context, db *gorm.DB, readingID snowflake.ID) (*Bill, error)
	ListByCustomer(ctx context.Context, db *gorm.DB, customerID snowflake.ID) ([]Bill, error)
	// Reprice and MarkPaid only touch unpaid bills and report whether a row changed.
	Reprice(ctx context.Context, db *gorm.DB, bill *Bill) (bool, error)
	MarkPaid(ctx context.Context, db *gorm.DB, id snowflake.ID, update PaidUpdate) (bool, error)
	NextSequence(ctx context.Context, db *gorm.DB, period string) (int64, error)
}
