package domain

import (
	"fmt"
	"sort"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// FineSlab charges a flat fine when a bill is paid between DaysFrom and DaysTo
// days (inclusive) after its due date.
type FineSlab struct {
	ID         snowflake.ID    `json:"slab_id" gorm:"primaryKey"`
	DaysFrom   int             `json:"days_from" gorm:"not null;index"`
	DaysTo     int             `json:"days_to" gorm:"not null"`
	FineAmount decimal.Decimal `json:"fine_amount" gorm:"type:numeric(12,2);not null"`
	CreatedAt  time.Time       `json:"created_at" gorm:"not null"`
	UpdatedAt  time.Time       `json:"updated_at" gorm:"not null"`
}

func (FineSlab) TableName() string { return "fine_slabs" }

func (s FineSlab) Covers(daysLate int) bool {
	return daysLate >= s.DaysFrom && daysLate <= s.DaysTo
}

func (s FineSlab) Label() string {
	return fmt.Sprintf("%d-%d", s.DaysFrom, s.DaysTo)
}

func SortSlabs(slabs []FineSlab) {
	sort.SliceStable(slabs, func(i, j int) bool {
		return slabs[i].DaysFrom < slabs[j].DaysFrom
	})
}

func ValidateSlab(s FineSlab) error {
	if s.DaysFrom < 0 {
		return ErrInvalidDaysFrom
	}
	if s.DaysTo < s.DaysFrom {
		return ErrInvalidDaysTo
	}
	if s.FineAmount.IsNegative() {
		return ErrInvalidFineAmount
	}
	return nil
}

// ValidateSchedule requires the slabs to be ascending, non-overlapping and
// without holes. Days before the first slab are a grace period.
func ValidateSchedule(slabs []FineSlab) error {
	ordered := make([]FineSlab, len(slabs))
	copy(ordered, slabs)
	SortSlabs(ordered)

	for i, s := range ordered {
		if err := ValidateSlab(s); err != nil {
			return err
		}
		if i == 0 {
			continue
		}
		prev := ordered[i-1]
		if s.DaysFrom <= prev.DaysTo {
			return ErrScheduleOverlap
		}
		if s.DaysFrom != prev.DaysTo+1 {
			return ErrScheduleGap
		}
	}
	return nil
}
