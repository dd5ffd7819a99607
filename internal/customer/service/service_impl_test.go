package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	customerdomain "github.com/smallbiznis/gridbill/internal/customer/domain"
	"github.com/smallbiznis/gridbill/internal/customer/repository"
	tariffdomain "github.com/smallbiznis/gridbill/internal/tariff/domain"
	"github.com/smallbiznis/gridbill/pkg/db/dbtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestService(t *testing.T) customerdomain.Service {
	t.Helper()
	db := dbtest.Open(t, &customerdomain.Customer{})
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	return New(Params{DB: db, Log: zap.NewNop(), GenID: node, Repo: repository.Provide()})
}

func TestSignupCreatesPendingCustomer(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	c, err := svc.Signup(ctx, customerdomain.SignupRequest{
		Name:       " Asha Rao ",
		Email:      "Asha@Example.com",
		TariffType: "commercial",
	})
	require.NoError(t, err)
	assert.Equal(t, "Asha Rao", c.Name)
	assert.Equal(t, "asha@example.com", c.Email)
	assert.Equal(t, customerdomain.StatusPending, c.Status)
	assert.Equal(t, tariffdomain.TariffCommercial, c.TariffType)
	assert.Nil(t, c.MeterNumber)
	assert.False(t, c.Billable())

	_, err = svc.Signup(ctx, customerdomain.SignupRequest{Name: "Other", Email: "asha@example.com"})
	assert.ErrorIs(t, err, customerdomain.ErrEmailTaken)
}

func TestSignupValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, customerdomain.SignupRequest{Email: "a@example.com"})
	assert.ErrorIs(t, err, customerdomain.ErrInvalidName)

	_, err = svc.Signup(ctx, customerdomain.SignupRequest{Name: "A", Email: "not-an-email"})
	assert.ErrorIs(t, err, customerdomain.ErrInvalidEmail)

	_, err = svc.Signup(ctx, customerdomain.SignupRequest{Name: "A", Email: "a@example.com", TariffType: "agricultural"})
	assert.ErrorIs(t, err, tariffdomain.ErrInvalidTariffType)
}

func TestApproveAssignsMeterOnce(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	c, err := svc.Signup(ctx, customerdomain.SignupRequest{Name: "Ravi", Email: "ravi@example.com"})
	require.NoError(t, err)

	approved, err := svc.Approve(ctx, c.ID.String(), customerdomain.ApproveRequest{TariffType: "Industrial"})
	require.NoError(t, err)
	require.NotNil(t, approved.MeterNumber)
	assert.NotEmpty(t, *approved.MeterNumber)
	assert.Equal(t, tariffdomain.TariffIndustrial, approved.TariffType)
	assert.True(t, approved.Billable())

	stored, err := svc.GetByID(ctx, c.ID.String())
	require.NoError(t, err)
	assert.Equal(t, customerdomain.StatusApproved, stored.Status)
	assert.Equal(t, *approved.MeterNumber, *stored.MeterNumber)

	_, err = svc.Approve(ctx, c.ID.String(), customerdomain.ApproveRequest{})
	assert.ErrorIs(t, err, customerdomain.ErrNotPending)

	_, err = svc.Reject(ctx, c.ID.String())
	assert.ErrorIs(t, err, customerdomain.ErrNotPending)
}

func TestApproveRejectsDuplicateMeter(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	a, err := svc.Signup(ctx, customerdomain.SignupRequest{Name: "A", Email: "a@example.com"})
	require.NoError(t, err)
	b, err := svc.Signup(ctx, customerdomain.SignupRequest{Name: "B", Email: "b@example.com"})
	require.NoError(t, err)

	_, err = svc.Approve(ctx, a.ID.String(), customerdomain.ApproveRequest{MeterNumber: "m-100"})
	require.NoError(t, err)
	_, err = svc.Approve(ctx, b.ID.String(), customerdomain.ApproveRequest{MeterNumber: "M-100"})
	assert.ErrorIs(t, err, customerdomain.ErrMeterNumberTaken)

	stored, err := svc.GetByID(ctx, b.ID.String())
	require.NoError(t, err)
	assert.Equal(t, customerdomain.StatusPending, stored.Status)
}

func TestRejectAndLookupErrors(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	c, err := svc.Signup(ctx, customerdomain.SignupRequest{Name: "C", Email: "c@example.com"})
	require.NoError(t, err)

	rejected, err := svc.Reject(ctx, c.ID.String())
	require.NoError(t, err)
	assert.Equal(t, customerdomain.StatusRejected, rejected.Status)

	_, err = svc.GetByID(ctx, "abc")
	assert.ErrorIs(t, err, customerdomain.ErrInvalidID)
	_, err = svc.GetByID(ctx, "12345")
	assert.ErrorIs(t, err, customerdomain.ErrNotFound)
	_, err = svc.Load(ctx, nil, 12345)
	assert.ErrorIs(t, err, customerdomain.ErrNotFound)
}

func TestListPaginatesNewestFirst(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	var ids []string
	for _, email := range []string{"p1@example.com", "p2@example.com", "p3@example.com"} {
		c, err := svc.Signup(ctx, customerdomain.SignupRequest{Name: "P", Email: email})
		require.NoError(t, err)
		ids = append(ids, c.ID.String())
	}
	_, err := svc.Reject(ctx, ids[0])
	require.NoError(t, err)

	first, err := svc.List(ctx, customerdomain.ListCustomerRequest{PageSize: 2})
	require.NoError(t, err)
	require.Len(t, first.Customers, 2)
	assert.True(t, first.HasMore)
	assert.Equal(t, ids[2], first.Customers[0].ID.String())

	second, err := svc.List(ctx, customerdomain.ListCustomerRequest{PageSize: 2, PageToken: first.NextPageToken})
	require.NoError(t, err)
	require.Len(t, second.Customers, 1)
	assert.False(t, second.HasMore)
	assert.Equal(t, ids[0], second.Customers[0].ID.String())

	pending, err := svc.List(ctx, customerdomain.ListCustomerRequest{Status: "pending"})
	require.NoError(t, err)
	assert.Len(t, pending.Customers, 2)

	_, err = svc.List(ctx, customerdomain.ListCustomerRequest{Status: "closed"})
	assert.ErrorIs(t, err, customerdomain.ErrInvalidStatus)
	_, err = svc.List(ctx, customerdomain.ListCustomerRequest{PageToken: "%%"})
	assert.ErrorIs(t, err, customerdomain.ErrInvalidPageToken)
}
