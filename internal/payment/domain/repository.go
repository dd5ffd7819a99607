package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, record *PaymentRecord) error
	FindByPaymentID(ctx context.Context, db *gorm.DB, paymentID string) (*PaymentRecord, error)
}
