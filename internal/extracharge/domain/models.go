package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	tariffdomain "github.com/smallbiznis/gridbill/internal/tariff/domain"
)

// ExtraCharge holds the fixed monthly surcharges of a tariff type. A null
// component counts as zero.
type ExtraCharge struct {
	ID              snowflake.ID            `json:"id" gorm:"primaryKey"`
	TariffType      tariffdomain.TariffType `json:"tariff_type" gorm:"column:tariff_type;type:varchar(32);not null;uniqueIndex"`
	FixedCharge     decimal.NullDecimal     `json:"fixed_charge" gorm:"type:numeric(12,2)"`
	MeterRent       decimal.NullDecimal     `json:"meter_rent" gorm:"type:numeric(12,2)"`
	ElectricityDuty decimal.NullDecimal     `json:"electricity_duty" gorm:"type:numeric(12,2)"`
	FuelCharge      decimal.NullDecimal     `json:"fuel_charge" gorm:"type:numeric(12,2)"`
	CreatedAt       time.Time               `json:"created_at" gorm:"not null"`
	UpdatedAt       time.Time               `json:"updated_at" gorm:"not null"`
}

func (ExtraCharge) TableName() string { return "extra_charges" }

// Total sums the four components treating nulls as zero.
func (e ExtraCharge) Total() decimal.Decimal {
	total := decimal.Zero
	for _, c := range e.Components() {
		total = total.Add(c.Amount)
	}
	return total
}

type Component struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

// Components lists each surcharge in display order with nulls as zero.
func (e ExtraCharge) Components() []Component {
	return []Component{
		{Name: "fixed_charge", Amount: orZero(e.FixedCharge)},
		{Name: "meter_rent", Amount: orZero(e.MeterRent)},
		{Name: "electricity_duty", Amount: orZero(e.ElectricityDuty)},
		{Name: "fuel_charge", Amount: orZero(e.FuelCharge)},
	}
}

func orZero(v decimal.NullDecimal) decimal.Decimal {
	if !v.Valid {
		return decimal.Zero
	}
	return v.Decimal
}
