package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, slab *FineSlab) error
	Update(ctx context.Context, db *gorm.DB, slab *FineSlab) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*FineSlab, error)
	List(ctx context.Context, db *gorm.DB) ([]FineSlab, error)
	LockAll(ctx context.Context, db *gorm.DB) ([]FineSlab, error)
}
