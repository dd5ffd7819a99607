package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Staff is a meter reader or office employee allowed to record readings.
type Staff struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	Name        string       `gorm:"not null" json:"name"`
	Email       string       `gorm:"not null;uniqueIndex" json:"email"`
	Designation string       `gorm:"column:designation" json:"designation,omitempty"`
	Active      bool         `gorm:"not null;default:true" json:"active"`
	CreatedAt   time.Time    `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time    `gorm:"not null" json:"updated_at"`
}

func (Staff) TableName() string { return "staff" }
