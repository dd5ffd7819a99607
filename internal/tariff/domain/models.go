package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

type TariffType string

const (
	TariffDomestic   TariffType = "Domestic"
	TariffCommercial TariffType = "Commercial"
	TariffIndustrial TariffType = "Industrial"
)

func TariffTypes() []TariffType {
	return []TariffType{TariffDomestic, TariffCommercial, TariffIndustrial}
}

// ParseTariffType accepts any casing and returns the canonical value.
func ParseTariffType(raw string) (TariffType, error) {
	value := strings.TrimSpace(raw)
	for _, t := range TariffTypes() {
		if strings.EqualFold(value, string(t)) {
			return t, nil
		}
	}
	return "", ErrInvalidTariffType
}

// OpenEndedUnitTo marks the last slab of a schedule as "and above". No
// bounded slab may reach past it.
const OpenEndedUnitTo int64 = 9999

// RateScale is the number of decimal places a per-unit rate may carry.
const RateScale int32 = 4

type TariffSlab struct {
	ID         snowflake.ID    `json:"id" gorm:"primaryKey"`
	TariffType TariffType      `json:"tariff_type" gorm:"column:tariff_type;type:varchar(32);not null;index:idx_tariff_slabs_type_from,priority:1"`
	UnitFrom   int64           `json:"unit_from" gorm:"not null;index:idx_tariff_slabs_type_from,priority:2"`
	UnitTo     int64           `json:"unit_to" gorm:"not null"`
	Rate       decimal.Decimal `json:"rate" gorm:"type:numeric(10,4);not null"`
	CreatedAt  time.Time       `json:"created_at" gorm:"not null"`
	UpdatedAt  time.Time       `json:"updated_at" gorm:"not null"`
}

func (TariffSlab) TableName() string { return "tariff_slabs" }

func (s TariffSlab) IsOpenEnded() bool {
	return s.UnitTo == OpenEndedUnitTo
}

// FirstUnit is the first 1-based unit number priced by the slab.
func (s TariffSlab) FirstUnit() int64 {
	if s.UnitFrom < 1 {
		return 1
	}
	return s.UnitFrom
}

// Width is the number of units the slab can price. Open-ended slabs have no width.
func (s TariffSlab) Width() int64 {
	return s.UnitTo - s.FirstUnit() + 1
}

func (s TariffSlab) Label() string {
	if s.IsOpenEnded() {
		return fmt.Sprintf("Above %d", s.UnitFrom)
	}
	return fmt.Sprintf("%d-%d", s.UnitFrom, s.UnitTo)
}
