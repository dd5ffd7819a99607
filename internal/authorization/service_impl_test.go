package authorization

import (
	"context"
	"testing"

	"github.com/smallbiznis/gridbill/internal/authctx"
	"github.com/smallbiznis/gridbill/pkg/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestService(t *testing.T) Service {
	t.Helper()
	enforcer, err := NewMemoryEnforcer()
	require.NoError(t, err)
	return NewService(Params{Log: zap.NewNop(), Enforcer: enforcer})
}

func TestAuthorizeByRole(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	customer := authctx.Principal{Subject: "c", Role: authctx.RoleCustomer, CustomerID: 7}
	staff := authctx.Principal{Subject: "s", Role: authctx.RoleStaff, StaffID: 9}
	admin := authctx.Principal{Subject: "a", Role: authctx.RoleAdmin}

	cases := []struct {
		name      string
		principal authctx.Principal
		object    string
		action    string
		allowed   bool
	}{
		{"customer pays", customer, ObjectPayment, ActionPay, true},
		{"customer reads tariffs", customer, ObjectTariff, ActionView, true},
		{"customer records reading", customer, ObjectReading, ActionCreate, false},
		{"staff records reading", staff, ObjectReading, ActionCreate, true},
		{"staff edits tariff", staff, ObjectTariff, ActionUpdate, false},
		{"staff pays", staff, ObjectPayment, ActionPay, false},
		{"admin inherits staff", admin, ObjectReading, ActionUpdate, true},
		{"admin approves", admin, ObjectCustomer, ActionApprove, true},
		{"admin edits fines", admin, ObjectFineSlab, ActionDelete, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := svc.Authorize(ctx, tc.principal, tc.object, tc.action)
			if tc.allowed {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrForbidden)
		})
	}
}

func TestAuthorizeRejectsUnknownRole(t *testing.T) {
	svc := newTestService(t)

	err := svc.Authorize(context.Background(), authctx.Principal{Role: "root"}, ObjectBill, ActionView)
	assert.ErrorIs(t, err, ErrUnauthenticated)
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))

	err = svc.Authorize(context.Background(), authctx.Principal{Role: authctx.RoleAdmin}, " ", ActionView)
	assert.ErrorIs(t, err, ErrInvalidObject)
}

func TestSeedIsRepeatable(t *testing.T) {
	enforcer, err := NewMemoryEnforcer()
	require.NoError(t, err)
	before, err := enforcer.GetPolicy()
	require.NoError(t, err)

	require.NoError(t, seedPolicies(enforcer))
	after, err := enforcer.GetPolicy()
	require.NoError(t, err)
	assert.Len(t, after, len(before))
}
