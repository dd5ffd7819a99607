package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	tariffdomain "github.com/smallbiznis/gridbill/internal/tariff/domain"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

type Customer struct {
	ID          snowflake.ID            `gorm:"primaryKey" json:"id"`
	Name        string                  `gorm:"not null" json:"name"`
	Email       string                  `gorm:"not null;uniqueIndex" json:"email"`
	Phone       string                  `gorm:"column:phone" json:"phone,omitempty"`
	Address     string                  `gorm:"column:address" json:"address,omitempty"`
	TariffType  tariffdomain.TariffType `gorm:"column:tariff_type;type:varchar(32);not null" json:"tariff_type"`
	Status      Status                  `gorm:"type:varchar(16);not null;index" json:"status"`
	MeterNumber *string                 `gorm:"column:meter_number;uniqueIndex" json:"meter_number,omitempty"`
	ApprovedAt  *time.Time              `gorm:"column:approved_at" json:"approved_at,omitempty"`
	CreatedAt   time.Time               `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time               `gorm:"not null" json:"updated_at"`
}

func (Customer) TableName() string { return "customers" }

// Billable reports whether readings may be recorded for the customer.
func (c Customer) Billable() bool {
	return c.Status == StatusApproved && c.MeterNumber != nil
}
