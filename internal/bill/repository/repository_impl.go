package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	billdomain "github.com/smallbiznis/gridbill/internal/bill/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct{}

func Provide() billdomain.Repository {
	return &repo{}
}

const billColumns = `id, customer_id, reading_id, tariff_type, period_year, period_month, units_consumed,
	bill_date, due_date, status, bill_number, energy_amount, extra_amount, subtotal_amount, fine_amount,
	total_paid, breakdown, payment_id, paid_at, created_at, updated_at`

func (r *repo) Insert(ctx context.Context, db *gorm.DB, bill *billdomain.Bill) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO bills (`+billColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		bill.ID,
		bill.CustomerID,
		bill.ReadingID,
		bill.TariffType,
		bill.PeriodYear,
		bill.PeriodMonth,
		bill.UnitsConsumed,
		bill.BillDate,
		bill.DueDate,
		bill.Status,
		bill.BillNumber,
		bill.EnergyAmount,
		bill.ExtraAmount,
		bill.SubtotalAmount,
		bill.FineAmount,
		bill.TotalPaid,
		bill.Breakdown,
		bill.PaymentID,
		bill.PaidAt,
		bill.CreatedAt,
		bill.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*billdomain.Bill, error) {
	var bill billdomain.Bill
	err := db.WithContext(ctx).Raw(
		`SELECT `+billColumns+` FROM bills WHERE id = ?`,
		id,
	).Scan(&bill).Error
	if err != nil {
		return nil, err
	}
	if bill.ID == 0 {
		return nil, nil
	}
	return &bill, nil
}

func (r *repo) FindByPeriod(ctx context.Context, db *gorm.DB, customerID snowflake.ID, year, month int) (*billdomain.Bill, error) {
	var bill billdomain.Bill
	err := db.WithContext(ctx).Raw(
		`SELECT `+billColumns+` FROM bills WHERE customer_id = ? AND period_year = ? AND period_month = ?`,
		customerID, year, month,
	).Scan(&bill).Error
	if err != nil {
		return nil, err
	}
	if bill.ID == 0 {
		return nil, nil
	}
	return &bill, nil
}

func (r *repo) LockByReadingID(ctx context.Context, db *gorm.DB, readingID snowflake.ID) (*billdomain.Bill, error) {
	var bills []billdomain.Bill
	err := db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("reading_id = ?", readingID).
		Limit(1).
		Find(&bills).Error
	if err != nil {
		return nil, err
	}
	if len(bills) == 0 {
		return nil, nil
	}
	return &bills[0], nil
}

func (r *repo) ListByCustomer(ctx context.Context, db *gorm.DB, customerID snowflake.ID) ([]billdomain.Bill, error) {
	var items []billdomain.Bill
	err := db.WithContext(ctx).Raw(
		`SELECT `+billColumns+` FROM bills WHERE customer_id = ? ORDER BY period_year DESC, period_month DESC`,
		customerID,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) Reprice(ctx context.Context, db *gorm.DB, bill *billdomain.Bill) (bool, error) {
	res := db.WithContext(ctx).Exec(
		`UPDATE bills SET units_consumed = ?, energy_amount = ?, extra_amount = ?, subtotal_amount = ?,
		breakdown = ?, updated_at = ? WHERE id = ? AND status = ?`,
		bill.UnitsConsumed,
		bill.EnergyAmount,
		bill.ExtraAmount,
		bill.SubtotalAmount,
		bill.Breakdown,
		bill.UpdatedAt,
		bill.ID,
		billdomain.StatusUnpaid,
	)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repo) MarkPaid(ctx context.Context, db *gorm.DB, id snowflake.ID, update billdomain.PaidUpdate) (bool, error) {
	res := db.WithContext(ctx).Exec(
		`UPDATE bills SET status = ?, bill_number = ?, payment_id = ?, fine_amount = ?, total_paid = ?,
		paid_at = ?, updated_at = ? WHERE id = ? AND status = ?`,
		billdomain.StatusPaid,
		update.BillNumber,
		update.PaymentID,
		update.Fine,
		update.TotalPaid,
		update.PaidAt,
		update.PaidAt,
		id,
		billdomain.StatusUnpaid,
	)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repo) NextSequence(ctx context.Context, db *gorm.DB, period string) (int64, error) {
	err := db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&billdomain.BillNumberSequence{Period: period}).Error
	if err != nil {
		return 0, err
	}

	err = db.WithContext(ctx).Exec(
		`UPDATE bill_number_sequences SET last_value = last_value + 1 WHERE period = ?`,
		period,
	).Error
	if err != nil {
		return 0, err
	}

	var seq int64
	err = db.WithContext(ctx).Raw(
		`SELECT last_value FROM bill_number_sequences WHERE period = ?`,
		period,
	).Scan(&seq).Error
	if err != nil {
		return 0, err
	}
	return seq, nil
}
