package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/gridbill/pkg/db/pagination"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, customer *Customer) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Customer, error)
	List(ctx context.Context, db *gorm.DB, filter ListCustomerFilter, page pagination.Pagination) ([]*Customer, error)
	// UpdateStatus moves a customer out of fromStatus. It reports false when the
	// customer was no longer in fromStatus.
	UpdateStatus(ctx context.Context, db *gorm.DB, customer *Customer, fromStatus Status) (bool, error)
}
