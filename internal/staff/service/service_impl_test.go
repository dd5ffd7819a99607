package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	staffdomain "github.com/smallbiznis/gridbill/internal/staff/domain"
	"github.com/smallbiznis/gridbill/pkg/db/dbtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestService(t *testing.T) staffdomain.Service {
	t.Helper()
	db := dbtest.Open(t, &staffdomain.Staff{})
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	return New(Params{DB: db, Log: zap.NewNop(), GenID: node})
}

func TestCreateAndList(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	b, err := svc.Create(ctx, staffdomain.CreateRequest{Name: "Bina", Email: "bina@grid.example", Designation: "Meter Reader"})
	require.NoError(t, err)
	assert.True(t, b.Active)
	_, err = svc.Create(ctx, staffdomain.CreateRequest{Name: "Arun", Email: "ARUN@grid.example"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, staffdomain.CreateRequest{Name: "Dup", Email: "bina@grid.example"})
	assert.ErrorIs(t, err, staffdomain.ErrEmailTaken)
	_, err = svc.Create(ctx, staffdomain.CreateRequest{Name: "", Email: "x@grid.example"})
	assert.ErrorIs(t, err, staffdomain.ErrInvalidName)
	_, err = svc.Create(ctx, staffdomain.CreateRequest{Name: "X", Email: "x"})
	assert.ErrorIs(t, err, staffdomain.ErrInvalidEmail)

	items, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Arun", items[0].Name)
	assert.Equal(t, "arun@grid.example", items[0].Email)
}

func TestActiveRejectsDeactivatedStaff(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	s, err := svc.Create(ctx, staffdomain.CreateRequest{Name: "Chitra", Email: "chitra@grid.example"})
	require.NoError(t, err)

	got, err := svc.Active(ctx, nil, s.ID.Int64())
	require.NoError(t, err)
	assert.Equal(t, s.ID, got.ID)

	inactive := false
	updated, err := svc.Update(ctx, s.ID.String(), staffdomain.UpdateRequest{Active: &inactive})
	require.NoError(t, err)
	assert.False(t, updated.Active)

	_, err = svc.Active(ctx, nil, s.ID.Int64())
	assert.ErrorIs(t, err, staffdomain.ErrInactive)
	_, err = svc.Active(ctx, nil, 42)
	assert.ErrorIs(t, err, staffdomain.ErrNotFound)
	_, err = svc.Get(ctx, "nope")
	assert.ErrorIs(t, err, staffdomain.ErrInvalidID)
}
