package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, reading *Reading) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Reading, error)
	UpdateUnits(ctx context.Context, db *gorm.DB, reading *Reading) error
}
