package domain

import (
	"context"

	"github.com/smallbiznis/gridbill/pkg/apperr"
	"github.com/smallbiznis/gridbill/pkg/db/pagination"
	"gorm.io/gorm"
)

type SignupRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	TariffType string `json:"tariff_type"`
}

type ApproveRequest struct {
	// TariffType overrides the type requested at signup when set.
	TariffType  string `json:"tariff_type"`
	MeterNumber string `json:"meter_number"`
}

type ListCustomerRequest struct {
	PageToken string
	PageSize  int
	Status    string
	Email     string
}

type ListCustomerFilter struct {
	Status   Status
	Email    string
	BeforeID int64
}

type ListCustomerResponse struct {
	pagination.PageInfo
	Customers []Customer `json:"customers"`
}

type Service interface {
	Signup(ctx context.Context, req SignupRequest) (Customer, error)
	List(ctx context.Context, req ListCustomerRequest) (ListCustomerResponse, error)
	GetByID(ctx context.Context, id string) (Customer, error)
	Approve(ctx context.Context, id string, req ApproveRequest) (Customer, error)
	Reject(ctx context.Context, id string) (Customer, error)
	// Load reads a customer through db, which may be a transaction.
	Load(ctx context.Context, db *gorm.DB, id int64) (*Customer, error)
}

var (
	ErrInvalidName      = apperr.Validation("invalid_name")
	ErrInvalidEmail     = apperr.Validation("invalid_email")
	ErrInvalidStatus    = apperr.Validation("invalid_status")
	ErrInvalidPageToken = apperr.Validation("invalid_page_token")
	ErrInvalidID        = apperr.Validation("invalid_id")
	ErrNotFound         = apperr.NotFound("customer_not_found")
	ErrEmailTaken       = apperr.Conflict("email_taken")
	ErrMeterNumberTaken = apperr.Conflict("meter_number_taken")
	ErrNotPending       = apperr.Conflict("customer_not_pending")
	ErrNotApproved      = apperr.Conflict("customer_not_approved")
)
