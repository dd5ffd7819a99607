package repository

import (
	"context"

	paymentdomain "github.com/smallbiznis/gridbill/internal/payment/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() paymentdomain.Repository {
	return &repo{}
}

const paymentColumns = `id, payment_id, bill_id, customer_id, amount, fine_amount, receipt_id, paid_at, created_at`

func (r *repo) Insert(ctx context.Context, db *gorm.DB, record *paymentdomain.PaymentRecord) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO payments (`+paymentColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID,
		record.PaymentID,
		record.BillID,
		record.CustomerID,
		record.Amount,
		record.FineAmount,
		record.ReceiptID,
		record.PaidAt,
		record.CreatedAt,
	).Error
}

func (r *repo) FindByPaymentID(ctx context.Context, db *gorm.DB, paymentID string) (*paymentdomain.PaymentRecord, error) {
	var record paymentdomain.PaymentRecord
	err := db.WithContext(ctx).Raw(
		`SELECT `+paymentColumns+` FROM payments WHERE payment_id = ?`,
		paymentID,
	).Scan(&record).Error
	if err != nil {
		return nil, err
	}
	if record.ID == 0 {
		return nil, nil
	}
	return &record, nil
}
