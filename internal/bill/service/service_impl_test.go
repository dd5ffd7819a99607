package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	billdomain "github.com/smallbiznis/gridbill/internal/bill/domain"
	"github.com/smallbiznis/gridbill/internal/bill/repository"
	"github.com/smallbiznis/gridbill/internal/clock"
	"github.com/smallbiznis/gridbill/internal/config"
	extrachargedomain "github.com/smallbiznis/gridbill/internal/extracharge/domain"
	ratingdomain "github.com/smallbiznis/gridbill/internal/rating/domain"
	tariffdomain "github.com/smallbiznis/gridbill/internal/tariff/domain"
	"github.com/smallbiznis/gridbill/pkg/db/dbtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ratingStub prices every unit at 4.00 with 95.00 of extras and a flat 100.00
// fine from the fifth day late.
type ratingStub struct {
	ratingdomain.Service
}

func (ratingStub) QuoteWith(_ context.Context, _ *gorm.DB, t tariffdomain.TariffType, units int64) (*ratingdomain.Assessment, error) {
	charge := decimal.NewFromInt(units).Mul(decimal.NewFromInt(4))
	return &ratingdomain.Assessment{
		TariffType: t,
		Units:      units,
		Energy: ratingdomain.EnergyCharge{
			Amount: charge,
			Lines:  []ratingdomain.EnergyLine{{Range: "0-9999", Units: units, Rate: decimal.NewFromInt(4), Charge: charge}},
		},
		Extras:      []extrachargedomain.Component{{Name: "fixed_charge", Amount: decimal.NewFromInt(95)}},
		ExtraAmount: decimal.NewFromInt(95),
	}, nil
}

func (ratingStub) FineFor(_ context.Context, _ *gorm.DB, daysLate int) (decimal.Decimal, error) {
	if daysLate >= 5 {
		return decimal.NewFromInt(100), nil
	}
	return decimal.Zero, nil
}

type fixture struct {
	svc   billdomain.Service
	db    *gorm.DB
	clock *clock.FakeClock
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	db := dbtest.Open(t, &billdomain.Bill{}, &billdomain.BillNumberSequence{})
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	clk := clock.NewFakeClock(time.Date(2024, time.March, 1, 10, 0, 0, 0, time.UTC))

	svc := New(Params{
		DB:      db,
		Log:     zap.NewNop(),
		GenID:   node,
		Clock:   clk,
		Billing: config.NewStaticBillingConfigHolder(config.DefaultBillingConfig()),
		Rating:  ratingStub{},
		Repo:    repository.Provide(),
	})
	return fixture{svc: svc, db: db, clock: clk}
}

func (f fixture) create(t *testing.T, customerID int64, units int64) *billdomain.Bill {
	t.Helper()
	now := f.clock.Now()
	b, err := f.svc.CreateForReading(context.Background(), f.db, billdomain.CreateInput{
		ReadingID:   snowflake.ID(customerID * 10),
		CustomerID:  snowflake.ID(customerID),
		TariffType:  tariffdomain.TariffDomestic,
		Units:       units,
		PeriodYear:  now.Year(),
		PeriodMonth: int(now.Month()),
		BillDate:    now,
	})
	require.NoError(t, err)
	return b
}

func TestCreateForReadingFreezesAmounts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b := f.create(t, 1, 150)
	assert.Equal(t, billdomain.StatusUnpaid, b.Status)
	assert.Nil(t, b.BillNumber)
	assert.True(t, b.EnergyAmount.Equal(decimal.NewFromInt(600)))
	assert.True(t, b.SubtotalAmount.Equal(decimal.NewFromInt(695)))
	assert.Equal(t, time.Date(2024, time.March, 16, 0, 0, 0, 0, time.UTC), b.DueDate.UTC())

	breakdown, err := b.DecodeBreakdown()
	require.NoError(t, err)
	require.Len(t, breakdown.Energy, 1)
	assert.Equal(t, int64(150), breakdown.Energy[0].Units)

	_, err = f.svc.CreateForReading(ctx, f.db, billdomain.CreateInput{
		ReadingID: 99, CustomerID: 1, TariffType: tariffdomain.TariffDomestic,
		Units: 10, PeriodYear: 2024, PeriodMonth: 3, BillDate: f.clock.Now(),
	})
	assert.ErrorIs(t, err, billdomain.ErrBillExists)

	stored, err := f.svc.GetByID(ctx, b.ID.String())
	require.NoError(t, err)
	assert.True(t, stored.SubtotalAmount.Equal(decimal.NewFromInt(695)))
}

func TestGetForPeriodPricesFineAsOfNow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.create(t, 1, 150)

	view, err := f.svc.GetForPeriod(ctx, 1, 2024, 3)
	require.NoError(t, err)
	assert.Equal(t, 0, view.DaysLate)
	assert.Equal(t, "695.00", view.PayableNow.StringFixed(2))

	f.clock.Advance(25 * 24 * time.Hour)
	view, err = f.svc.GetForPeriod(ctx, 1, 2024, 3)
	require.NoError(t, err)
	assert.Equal(t, 10, view.DaysLate)
	assert.Equal(t, "100.00", view.FineAsOfNow.StringFixed(2))
	assert.Equal(t, "795.00", view.PayableNow.StringFixed(2))

	_, err = f.svc.GetForPeriod(ctx, 1, 2024, 13)
	assert.ErrorIs(t, err, billdomain.ErrInvalidPeriod)
	_, err = f.svc.GetForPeriod(ctx, 2, 2024, 3)
	assert.ErrorIs(t, err, billdomain.ErrNotFound)
}

func TestMarkPaidNumbersBillsOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	first := f.create(t, 1, 150)
	second := f.create(t, 2, 10)

	paidAt := time.Date(2024, time.March, 20, 9, 0, 0, 0, time.UTC)
	charge, err := f.svc.ChargeAt(ctx, f.db, first, paidAt)
	require.NoError(t, err)
	assert.Equal(t, 4, charge.DaysLate)
	assert.True(t, charge.Fine.IsZero())

	paid, err := f.svc.MarkPaid(ctx, f.db, first, billdomain.PayInput{PaymentID: "pay-1", Charge: charge, PaidAt: paidAt})
	require.NoError(t, err)
	require.NotNil(t, paid.BillNumber)
	assert.Equal(t, "EB-202403-000001", *paid.BillNumber)
	assert.Equal(t, "695.00", paid.TotalPaid.Decimal.StringFixed(2))

	_, err = f.svc.MarkPaid(ctx, f.db, first, billdomain.PayInput{PaymentID: "pay-2", Charge: charge, PaidAt: paidAt})
	assert.ErrorIs(t, err, billdomain.ErrBillAlreadyPaid)

	stored, err := f.svc.Load(ctx, nil, first.ID.Int64())
	require.NoError(t, err)
	assert.Equal(t, billdomain.StatusPaid, stored.Status)
	assert.Equal(t, "EB-202403-000001", *stored.BillNumber)
	assert.Equal(t, "pay-1", *stored.PaymentID)

	next, err := f.svc.MarkPaid(ctx, f.db, second, billdomain.PayInput{PaymentID: "pay-3", Charge: billdomain.Charge{Total: second.SubtotalAmount}, PaidAt: paidAt})
	require.NoError(t, err)
	assert.Equal(t, "EB-202403-000002", *next.BillNumber)

	history, err := f.svc.ListForCustomer(ctx, 1)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, billdomain.StatusPaid, history[0].Status)

	view, err := f.svc.GetForPeriod(ctx, 1, 2024, 3)
	require.NoError(t, err)
	assert.True(t, view.PayableNow.IsZero())
}

func TestRepriceOnlyTouchesUnpaidBills(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := f.create(t, 1, 150)

	locked, err := f.svc.LockForReading(ctx, f.db, b.ReadingID)
	require.NoError(t, err)
	repriced, err := f.svc.RepriceForReading(ctx, f.db, locked, 200)
	require.NoError(t, err)
	assert.True(t, repriced.SubtotalAmount.Equal(decimal.NewFromInt(895)))

	_, err = f.svc.MarkPaid(ctx, f.db, repriced, billdomain.PayInput{PaymentID: "pay-1", Charge: billdomain.Charge{Total: repriced.SubtotalAmount}, PaidAt: f.clock.Now()})
	require.NoError(t, err)

	// A stale unpaid copy must still be refused by the conditional update.
	_, err = f.svc.RepriceForReading(ctx, f.db, repriced, 10)
	assert.ErrorIs(t, err, billdomain.ErrBillAlreadyPaid)

	_, err = f.svc.LockForReading(ctx, f.db, 12345)
	assert.ErrorIs(t, err, billdomain.ErrNotFound)
}
