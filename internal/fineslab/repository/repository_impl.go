package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	finedomain "github.com/smallbiznis/gridbill/internal/fineslab/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct{}

func Provide() finedomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, slab *finedomain.FineSlab) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO fine_slabs (id, days_from, days_to, fine_amount, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		slab.ID,
		slab.DaysFrom,
		slab.DaysTo,
		slab.FineAmount,
		slab.CreatedAt,
		slab.UpdatedAt,
	).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, slab *finedomain.FineSlab) error {
	return db.WithContext(ctx).Exec(
		`UPDATE fine_slabs SET days_from = ?, days_to = ?, fine_amount = ?, updated_at = ? WHERE id = ?`,
		slab.DaysFrom,
		slab.DaysTo,
		slab.FineAmount,
		slab.UpdatedAt,
		slab.ID,
	).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Exec(`DELETE FROM fine_slabs WHERE id = ?`, id).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*finedomain.FineSlab, error) {
	var slab finedomain.FineSlab
	err := db.WithContext(ctx).Raw(
		`SELECT id, days_from, days_to, fine_amount, created_at, updated_at FROM fine_slabs WHERE id = ?`,
		id,
	).Scan(&slab).Error
	if err != nil {
		return nil, err
	}
	if slab.ID == 0 {
		return nil, nil
	}
	return &slab, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB) ([]finedomain.FineSlab, error) {
	var items []finedomain.FineSlab
	err := db.WithContext(ctx).Raw(
		`SELECT id, days_from, days_to, fine_amount, created_at, updated_at FROM fine_slabs ORDER BY days_from ASC`,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) LockAll(ctx context.Context, db *gorm.DB) ([]finedomain.FineSlab, error) {
	var items []finedomain.FineSlab
	err := db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Order("days_from ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
