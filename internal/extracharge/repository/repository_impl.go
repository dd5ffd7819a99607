package repository

import (
	"context"

	extrachargedomain "github.com/smallbiznis/gridbill/internal/extracharge/domain"
	tariffdomain "github.com/smallbiznis/gridbill/internal/tariff/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct{}

func Provide() extrachargedomain.Repository {
	return &repo{}
}

func (r *repo) Upsert(ctx context.Context, db *gorm.DB, charge *extrachargedomain.ExtraCharge) error {
	return db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "tariff_type"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"fixed_charge", "meter_rent", "electricity_duty", "fuel_charge", "updated_at",
		}),
	}).Create(charge).Error
}

func (r *repo) FindByType(ctx context.Context, db *gorm.DB, tariffType tariffdomain.TariffType) (*extrachargedomain.ExtraCharge, error) {
	var charge extrachargedomain.ExtraCharge
	err := db.WithContext(ctx).Raw(
		`SELECT id, tariff_type, fixed_charge, meter_rent, electricity_duty, fuel_charge, created_at, updated_at
		 FROM extra_charges WHERE tariff_type = ?`,
		tariffType,
	).Scan(&charge).Error
	if err != nil {
		return nil, err
	}
	if charge.ID == 0 {
		return nil, nil
	}
	return &charge, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB) ([]extrachargedomain.ExtraCharge, error) {
	var items []extrachargedomain.ExtraCharge
	err := db.WithContext(ctx).Raw(
		`SELECT id, tariff_type, fixed_charge, meter_rent, electricity_duty, fuel_charge, created_at, updated_at
		 FROM extra_charges ORDER BY tariff_type ASC`,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
