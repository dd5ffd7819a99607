package authorization

import (
	"context"

	"github.com/smallbiznis/gridbill/internal/authctx"
	"github.com/smallbiznis/gridbill/pkg/apperr"
)

const (
	ObjectTariff      = "tariff"
	ObjectExtraCharge = "extra_charge"
	ObjectFineSlab    = "fine_slab"
	ObjectQuote       = "quote"
	ObjectBill        = "bill"
	ObjectPayment     = "payment"
	ObjectReading     = "reading"
	ObjectCustomer    = "customer"
	ObjectStaff       = "staff"
)

const (
	ActionView    = "view"
	ActionCreate  = "create"
	ActionUpdate  = "update"
	ActionDelete  = "delete"
	ActionApprove = "approve"
	ActionPay     = "pay"
)

// Service decides whether a principal may perform an action on an object.
type Service interface {
	Authorize(ctx context.Context, principal authctx.Principal, object string, action string) error
}

var (
	ErrUnauthenticated = apperr.Unauthorized("unauthenticated")
	ErrForbidden       = apperr.Forbidden("forbidden")
	ErrInvalidObject   = apperr.Validation("invalid_authorization_object")
	ErrInvalidAction   = apperr.Validation("invalid_authorization_action")
)
