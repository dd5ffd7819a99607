package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	readingdomain "github.com/smallbiznis/gridbill/internal/reading/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() readingdomain.Repository {
	return &repo{}
}

const readingColumns = `id, customer_id, staff_id, units_consumed, period_year, period_month, recorded_at, updated_at`

func (r *repo) Insert(ctx context.Context, db *gorm.DB, reading *readingdomain.Reading) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO readings (`+readingColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		reading.ID,
		reading.CustomerID,
		reading.StaffID,
		reading.UnitsConsumed,
		reading.PeriodYear,
		reading.PeriodMonth,
		reading.RecordedAt,
		reading.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*readingdomain.Reading, error) {
	var reading readingdomain.Reading
	err := db.WithContext(ctx).Raw(
		`SELECT `+readingColumns+` FROM readings WHERE id = ?`,
		id,
	).Scan(&reading).Error
	if err != nil {
		return nil, err
	}
	if reading.ID == 0 {
		return nil, nil
	}
	return &reading, nil
}

func (r *repo) UpdateUnits(ctx context.Context, db *gorm.DB, reading *readingdomain.Reading) error {
	return db.WithContext(ctx).Exec(
		`UPDATE readings SET units_consumed = ?, updated_at = ? WHERE id = ?`,
		reading.UnitsConsumed,
		reading.UpdatedAt,
		reading.ID,
	).Error
}
