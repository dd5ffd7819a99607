package seed

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	extrachargedomain "github.com/smallbiznis/gridbill/internal/extracharge/domain"
	finedomain "github.com/smallbiznis/gridbill/internal/fineslab/domain"
	tariffdomain "github.com/smallbiznis/gridbill/internal/tariff/domain"
	"gorm.io/gorm"
)

type tariffRow struct {
	tariffType tariffdomain.TariffType
	from, to   int64
	rate       string
}

var defaultTariffs = []tariffRow{
	{tariffdomain.TariffDomestic, 0, 100, "4.00"},
	{tariffdomain.TariffDomestic, 101, 200, "6.00"},
	{tariffdomain.TariffDomestic, 201, tariffdomain.OpenEndedUnitTo, "8.00"},
	{tariffdomain.TariffCommercial, 0, 100, "7.00"},
	{tariffdomain.TariffCommercial, 101, tariffdomain.OpenEndedUnitTo, "9.50"},
	{tariffdomain.TariffIndustrial, 0, 500, "8.50"},
	{tariffdomain.TariffIndustrial, 501, tariffdomain.OpenEndedUnitTo, "10.00"},
}

// fixed charge, meter rent, electricity duty, fuel charge
var defaultExtras = map[tariffdomain.TariffType][4]string{
	tariffdomain.TariffDomestic:   {"50.00", "20.00", "10.00", "15.00"},
	tariffdomain.TariffCommercial: {"150.00", "50.00", "40.00", "30.00"},
	tariffdomain.TariffIndustrial: {"500.00", "100.00", "150.00", "75.00"},
}

var defaultFines = []struct {
	from, to int
	amount   string
}{
	{1, 15, "50.00"},
	{16, 30, "100.00"},
	{31, 60, "200.00"},
}

// EnsureReferenceData fills the tariff, extra charge and fine tables when all
// three are empty. It reports whether anything was written.
func EnsureReferenceData(db *gorm.DB, node *snowflake.Node) (bool, error) {
	if db == nil {
		return false, errors.New("seed database handle is required")
	}
	if node == nil {
		return false, errors.New("seed id generator is required")
	}

	ctx := context.Background()
	seeded := false
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		empty, err := referenceTablesEmpty(tx)
		if err != nil || !empty {
			return err
		}

		now := time.Now().UTC()
		for _, row := range defaultTariffs {
			slab := tariffdomain.TariffSlab{
				ID:         node.Generate(),
				TariffType: row.tariffType,
				UnitFrom:   row.from,
				UnitTo:     row.to,
				Rate:       decimal.RequireFromString(row.rate),
				CreatedAt:  now,
				UpdatedAt:  now,
			}
			if err := tx.Create(&slab).Error; err != nil {
				return err
			}
		}

		for _, tariffType := range tariffdomain.TariffTypes() {
			amounts := defaultExtras[tariffType]
			charge := extrachargedomain.ExtraCharge{
				ID:              node.Generate(),
				TariffType:      tariffType,
				FixedCharge:     decimal.NewNullDecimal(decimal.RequireFromString(amounts[0])),
				MeterRent:       decimal.NewNullDecimal(decimal.RequireFromString(amounts[1])),
				ElectricityDuty: decimal.NewNullDecimal(decimal.RequireFromString(amounts[2])),
				FuelCharge:      decimal.NewNullDecimal(decimal.RequireFromString(amounts[3])),
				CreatedAt:       now,
				UpdatedAt:       now,
			}
			if err := tx.Create(&charge).Error; err != nil {
				return err
			}
		}

		for _, row := range defaultFines {
			slab := finedomain.FineSlab{
				ID:         node.Generate(),
				DaysFrom:   row.from,
				DaysTo:     row.to,
				FineAmount: decimal.RequireFromString(row.amount),
				CreatedAt:  now,
				UpdatedAt:  now,
			}
			if err := tx.Create(&slab).Error; err != nil {
				return err
			}
		}

		seeded = true
		return nil
	})
	return seeded, err
}

func referenceTablesEmpty(tx *gorm.DB) (bool, error) {
	for _, model := range []any{&tariffdomain.TariffSlab{}, &extrachargedomain.ExtraCharge{}, &finedomain.FineSlab{}} {
		var count int64
		if err := tx.Model(model).Count(&count).Error; err != nil {
			return false, err
		}
		if count > 0 {
			return false, nil
		}
	}
	return true, nil
}
