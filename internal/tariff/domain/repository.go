package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, slab *TariffSlab) error
	Update(ctx context.Context, db *gorm.DB, slab *TariffSlab) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*TariffSlab, error)
	List(ctx context.Context, db *gorm.DB) ([]TariffSlab, error)
	ListByType(ctx context.Context, db *gorm.DB, tariffType TariffType) ([]TariffSlab, error)
	// LockByType reads a type's schedule and holds row locks until the transaction ends.
	LockByType(ctx context.Context, db *gorm.DB, tariffType TariffType) ([]TariffSlab, error)
}
