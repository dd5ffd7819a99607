package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	tariffdomain "github.com/smallbiznis/gridbill/internal/tariff/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct{}

func Provide() tariffdomain.Repository {
	return &repo{}
}

const slabColumns = `id, tariff_type, unit_from, unit_to, rate, created_at, updated_at`

func (r *repo) Insert(ctx context.Context, db *gorm.DB, slab *tariffdomain.TariffSlab) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO tariff_slabs (`+slabColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		slab.ID,
		slab.TariffType,
		slab.UnitFrom,
		slab.UnitTo,
		slab.Rate,
		slab.CreatedAt,
		slab.UpdatedAt,
	).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, slab *tariffdomain.TariffSlab) error {
	return db.WithContext(ctx).Exec(
		`UPDATE tariff_slabs SET unit_from = ?, unit_to = ?, rate = ?, updated_at = ? WHERE id = ?`,
		slab.UnitFrom,
		slab.UnitTo,
		slab.Rate,
		slab.UpdatedAt,
		slab.ID,
	).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Exec(`DELETE FROM tariff_slabs WHERE id = ?`, id).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*tariffdomain.TariffSlab, error) {
	var slab tariffdomain.TariffSlab
	err := db.WithContext(ctx).Raw(
		`SELECT `+slabColumns+` FROM tariff_slabs WHERE id = ?`,
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

func (r *repo) List(ctx context.Context, db *gorm.DB) ([]tariffdomain.TariffSlab, error) {
	var items []tariffdomain.TariffSlab
	err := db.WithContext(ctx).Raw(
		`SELECT ` + slabColumns + ` FROM tariff_slabs ORDER BY tariff_type ASC, unit_from ASC`,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) ListByType(ctx context.Context, db *gorm.DB, tariffType tariffdomain.TariffType) ([]tariffdomain.TariffSlab, error) {
	var items []tariffdomain.TariffSlab
	err := db.WithContext(ctx).Raw(
		`SELECT `+slabColumns+` FROM tariff_slabs WHERE tariff_type = ? ORDER BY unit_from ASC`,
		tariffType,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) LockByType(ctx context.Context, db *gorm.DB, tariffType tariffdomain.TariffType) ([]tariffdomain.TariffSlab, error) {
	var items []tariffdomain.TariffSlab
	err := db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("tariff_type = ?", tariffType).
		Order("unit_from ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
