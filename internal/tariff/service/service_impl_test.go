package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/gridbill/internal/clock"
	tariffdomain "github.com/smallbiznis/gridbill/internal/tariff/domain"
	"github.com/smallbiznis/gridbill/internal/tariff/repository"
	"github.com/smallbiznis/gridbill/pkg/db/dbtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testStart = time.Date(2024, time.March, 1, 10, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) tariffdomain.Service {
	t.Helper()
	svc, _ := newClockedService(t)
	return svc
}

func newClockedService(t *testing.T) (tariffdomain.Service, *clock.FakeClock) {
	t.Helper()
	db := dbtest.Open(t, &tariffdomain.TariffSlab{})
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	clk := clock.NewFakeClock(testStart)
	return New(Params{DB: db, Log: zap.NewNop(), GenID: node, Clock: clk, Repo: repository.Provide()}), clk
}

func int64Ptr(v int64) *int64 { return &v }

func TestCreateKeepsScheduleContiguous(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, tariffdomain.CreateRequest{
		TariffType: "domestic", UnitFrom: 0, UnitTo: int64Ptr(100), Rate: decimal.NewFromInt(4),
	})
	require.NoError(t, err)
	assert.Equal(t, tariffdomain.TariffDomestic, first.TariffType)
	assert.Equal(t, "0-100", first.Range)

	_, err = svc.Create(ctx, tariffdomain.CreateRequest{
		TariffType: "Domestic", UnitFrom: 150, Rate: decimal.NewFromInt(6),
	})
	assert.ErrorIs(t, err, tariffdomain.ErrScheduleGap)

	second, err := svc.Create(ctx, tariffdomain.CreateRequest{
		TariffType: "Domestic", UnitFrom: 101, Rate: decimal.NewFromInt(6),
	})
	require.NoError(t, err)
	assert.True(t, second.OpenEnded)
	assert.Equal(t, "Above 101", second.Range)

	items, err := svc.List(ctx, "Domestic")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, int64(0), items[0].UnitFrom)
	assert.Equal(t, int64(101), items[1].UnitFrom)

	other, err := svc.List(ctx, "Industrial")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestUpdateRejectsOverlap(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, tariffdomain.CreateRequest{TariffType: "Commercial", UnitFrom: 0, UnitTo: int64Ptr(100), Rate: decimal.NewFromInt(5)})
	require.NoError(t, err)
	_, err = svc.Create(ctx, tariffdomain.CreateRequest{TariffType: "Commercial", UnitFrom: 101, UnitTo: int64Ptr(200), Rate: decimal.NewFromInt(7)})
	require.NoError(t, err)
	last, err := svc.Create(ctx, tariffdomain.CreateRequest{TariffType: "Commercial", UnitFrom: 201, Rate: decimal.NewFromInt(9)})
	require.NoError(t, err)

	_, err = svc.Update(ctx, last.ID, tariffdomain.UpdateRequest{UnitFrom: int64Ptr(150)})
	assert.ErrorIs(t, err, tariffdomain.ErrScheduleOverlap)

	rate := decimal.RequireFromString("9.50")
	updated, err := svc.Update(ctx, last.ID, tariffdomain.UpdateRequest{Rate: &rate})
	require.NoError(t, err)
	assert.True(t, updated.Rate.Equal(rate))
}

func TestDeleteRejectsHole(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, tariffdomain.CreateRequest{TariffType: "Industrial", UnitFrom: 0, UnitTo: int64Ptr(100), Rate: decimal.NewFromInt(5)})
	require.NoError(t, err)
	middle, err := svc.Create(ctx, tariffdomain.CreateRequest{TariffType: "Industrial", UnitFrom: 101, UnitTo: int64Ptr(200), Rate: decimal.NewFromInt(7)})
	require.NoError(t, err)
	last, err := svc.Create(ctx, tariffdomain.CreateRequest{TariffType: "Industrial", UnitFrom: 201, Rate: decimal.NewFromInt(9)})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(ctx, middle.ID), tariffdomain.ErrScheduleGap)
	assert.NoError(t, svc.Delete(ctx, last.ID))
	assert.ErrorIs(t, svc.Delete(ctx, last.ID), tariffdomain.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, "nope"), tariffdomain.ErrInvalidID)
}

func TestTimestampsFollowClock(t *testing.T) {
	svc, clk := newClockedService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, tariffdomain.CreateRequest{TariffType: "Domestic", UnitFrom: 0, Rate: decimal.NewFromInt(4)})
	require.NoError(t, err)
	assert.True(t, created.CreatedAt.Equal(testStart))
	assert.True(t, created.UpdatedAt.Equal(testStart))

	clk.Advance(48 * time.Hour)
	rate := decimal.RequireFromString("4.25")
	updated, err := svc.Update(ctx, created.ID, tariffdomain.UpdateRequest{Rate: &rate})
	require.NoError(t, err)
	assert.True(t, updated.UpdatedAt.Equal(testStart.Add(48*time.Hour)))
}

func TestBoundedUnitToIsNeverOpenEnded(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, tariffdomain.CreateRequest{
		TariffType: "Domestic", UnitFrom: 0, UnitTo: int64Ptr(20000), Rate: decimal.NewFromInt(4),
	})
	assert.ErrorIs(t, err, tariffdomain.ErrInvalidUnitTo)

	_, err = svc.Create(ctx, tariffdomain.CreateRequest{
		TariffType: "Domestic", UnitFrom: 0, UnitTo: int64Ptr(100), Rate: decimal.RequireFromString("4.12345"),
	})
	assert.ErrorIs(t, err, tariffdomain.ErrInvalidRate)

	first, err := svc.Create(ctx, tariffdomain.CreateRequest{
		TariffType: "Domestic", UnitFrom: 0, UnitTo: int64Ptr(100), Rate: decimal.NewFromInt(4),
	})
	require.NoError(t, err)
	_, err = svc.Update(ctx, first.ID, tariffdomain.UpdateRequest{UnitTo: int64Ptr(10000)})
	assert.ErrorIs(t, err, tariffdomain.ErrInvalidUnitTo)

	items, err := svc.List(ctx, "Domestic")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, int64(100), items[0].UnitTo)
	assert.False(t, items[0].OpenEnded)
}
