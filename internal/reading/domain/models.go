package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Reading is the consumption a staff member recorded for one customer month.
type Reading struct {
	ID            snowflake.ID `gorm:"primaryKey" json:"reading_id"`
	CustomerID    snowflake.ID `gorm:"not null;uniqueIndex:ux_readings_customer_period,priority:1" json:"customer_id"`
	StaffID       snowflake.ID `gorm:"not null;index" json:"staff_id"`
	UnitsConsumed int64        `gorm:"not null" json:"units_consumed"`
	PeriodYear    int          `gorm:"not null;uniqueIndex:ux_readings_customer_period,priority:2" json:"period_year"`
	PeriodMonth   int          `gorm:"not null;uniqueIndex:ux_readings_customer_period,priority:3" json:"period_month"`
	RecordedAt    time.Time    `gorm:"not null" json:"recorded_at"`
	UpdatedAt     time.Time    `gorm:"not null" json:"updated_at"`
}

func (Reading) TableName() string { return "readings" }
