package domain

import (
	"context"

	"github.com/smallbiznis/gridbill/pkg/apperr"
	"gorm.io/gorm"
)

type CreateRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Designation string `json:"designation"`
}

type UpdateRequest struct {
	Designation *string `json:"designation"`
	Active      *bool   `json:"active"`
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (Staff, error)
	List(ctx context.Context) ([]Staff, error)
	Get(ctx context.Context, id string) (Staff, error)
	Update(ctx context.Context, id string, req UpdateRequest) (Staff, error)
	// Active returns the staff member only when they may record readings.
	Active(ctx context.Context, db *gorm.DB, id int64) (*Staff, error)
}

var (
	ErrInvalidName  = apperr.Validation("invalid_name")
	ErrInvalidEmail = apperr.Validation("invalid_email")
	ErrInvalidID    = apperr.Validation("invalid_staff_id")
	ErrNotFound     = apperr.NotFound("staff_not_found")
	ErrEmailTaken   = apperr.Conflict("email_taken")
	ErrInactive     = apperr.Conflict("staff_inactive")
)
