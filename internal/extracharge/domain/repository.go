package domain

import (
	"context"

	tariffdomain "github.com/smallbiznis/gridbill/internal/tariff/domain"
	"gorm.io/gorm"
)

type Repository interface {
	Upsert(ctx context.Context, db *gorm.DB, charge *ExtraCharge) error
	FindByType(ctx context.Context, db *gorm.DB, tariffType tariffdomain.TariffType) (*ExtraCharge, error)
	List(ctx context.Context, db *gorm.DB) ([]ExtraCharge, error)
}
