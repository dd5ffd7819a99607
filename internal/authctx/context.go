package authctx

import (
	"context"
	"strconv"
	"strings"
)

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleStaff    Role = "staff"
	RoleCustomer Role = "customer"
)

func ParseRole(raw string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(raw))) {
	case RoleAdmin:
		return RoleAdmin, true
	case RoleStaff:
		return RoleStaff, true
	case RoleCustomer:
		return RoleCustomer, true
	default:
		return "", false
	}
}

// Principal is the authenticated caller of a request. CustomerID is set only
// for customers and StaffID only for staff members.
type Principal struct {
	Subject    string
	Role       Role
	CustomerID int64
	StaffID    int64
}

func (p Principal) IsCustomer() bool { return p.Role == RoleCustomer }

// ActorID identifies the principal in logs and audit fields.
func (p Principal) ActorID() string {
	switch p.Role {
	case RoleCustomer:
		return strconv.FormatInt(p.CustomerID, 10)
	case RoleStaff:
		return strconv.FormatInt(p.StaffID, 10)
	default:
		return p.Subject
	}
}

type principalKey struct{}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	if ctx == nil {
		return Principal{}, false
	}
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}
