package server

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/gridbill/internal/authctx"
)

func parseOptionalInt(value string) (*int, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil, nil
	}
	parsed, err := strconv.Atoi(trimmed)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func parseOptionalInt64(value string) (*int64, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil, nil
	}
	parsed, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

// customerScope resolves whose bills a request is about. Customers always act
// for themselves; staff and admins name the customer explicitly.
func customerScope(c *gin.Context, explicit string) (int64, error) {
	p := principal(c)
	requested, err := parseOptionalInt64(explicit)
	if err != nil || (requested != nil && *requested <= 0) {
		return 0, newValidationError("customer_id", "invalid_customer_id", "invalid customer_id")
	}

	if p.Role == authctx.RoleCustomer {
		if requested != nil && *requested != p.CustomerID {
			return 0, ErrForbidden
		}
		return p.CustomerID, nil
	}
	if requested == nil {
		return 0, newValidationError("customer_id", "invalid_customer_id", "customer_id is required")
	}
	return *requested, nil
}
