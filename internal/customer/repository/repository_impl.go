package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	customerdomain "github.com/smallbiznis/gridbill/internal/customer/domain"
	"github.com/smallbiznis/gridbill/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() customerdomain.Repository {
	return &repo{}
}

const customerColumns = `id, name, email, phone, address, tariff_type, status, meter_number, approved_at, created_at, updated_at`

func (r *repo) Insert(ctx context.Context, db *gorm.DB, customer *customerdomain.Customer) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO customers (`+customerColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		customer.ID,
		customer.Name,
		customer.Email,
		customer.Phone,
		customer.Address,
		customer.TariffType,
		customer.Status,
		customer.MeterNumber,
		customer.ApprovedAt,
		customer.CreatedAt,
		customer.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*customerdomain.Customer, error) {
	var customer customerdomain.Customer
	err := db.WithContext(ctx).Raw(
		`SELECT `+customerColumns+` FROM customers WHERE id = ?`,
		id,
	).Scan(&customer).Error
	if err != nil {
		return nil, err
	}
	if customer.ID == 0 {
		return nil, nil
	}
	return &customer, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter customerdomain.ListCustomerFilter, page pagination.Pagination) ([]*customerdomain.Customer, error) {
	var items []*customerdomain.Customer
	stmt := db.WithContext(ctx).Model(&customerdomain.Customer{})
	if filter.Status != "" {
		stmt = stmt.Where("status = ?", filter.Status)
	}
	if filter.Email != "" {
		stmt = stmt.Where("email = ?", filter.Email)
	}
	if filter.BeforeID > 0 {
		stmt = stmt.Where("id < ?", filter.BeforeID)
	}

	if err := stmt.Order("id DESC").Limit(page.Limit() + 1).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) UpdateStatus(ctx context.Context, db *gorm.DB, customer *customerdomain.Customer, fromStatus customerdomain.Status) (bool, error) {
	res := db.WithContext(ctx).Exec(
		`UPDATE customers SET status = ?, tariff_type = ?, meter_number = ?, approved_at = ?, updated_at = ?
		WHERE id = ? AND status = ?`,
		customer.Status,
		customer.TariffType,
		customer.MeterNumber,
		customer.ApprovedAt,
		customer.UpdatedAt,
		customer.ID,
		fromStatus,
	)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
