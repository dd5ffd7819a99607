package service_test

import (
	"context"
	"testing"

	billdomain "github.com/smallbiznis/gridbill/internal/bill/domain"
	customerdomain "github.com/smallbiznis/gridbill/internal/customer/domain"
	"github.com/smallbiznis/gridbill/internal/events"
	paymentdomain "github.com/smallbiznis/gridbill/internal/payment/domain"
	ratingdomain "github.com/smallbiznis/gridbill/internal/rating/domain"
	readingdomain "github.com/smallbiznis/gridbill/internal/reading/domain"
	staffdomain "github.com/smallbiznis/gridbill/internal/staff/domain"
	"github.com/smallbiznis/gridbill/internal/testenv"
	"github.com/smallbiznis/gridbill/pkg/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func units(v int64) *int64 { return &v }

func TestRecordCreatesUnpaidBill(t *testing.T) {
	env := testenv.New(t)
	env.SeedReferenceData(t)
	ctx := context.Background()

	customer := env.ApprovedCustomer(t, "meena@example.com", "Domestic")
	staff := env.ActiveStaff(t, "reader@grid.example")

	res, err := env.Readings.Record(ctx, readingdomain.RecordRequest{
		CustomerID:    customer.ID.String(),
		StaffID:       staff.ID.String(),
		UnitsConsumed: units(150),
	})
	require.NoError(t, err)
	assert.Equal(t, "795.00", res.Amount.StringFixed(2))

	bill, err := env.Bills.GetByID(ctx, res.BillID)
	require.NoError(t, err)
	assert.Equal(t, billdomain.StatusUnpaid, bill.Status)
	assert.Nil(t, bill.BillNumber)
	assert.Equal(t, 2024, bill.PeriodYear)
	assert.Equal(t, 3, bill.PeriodMonth)
	assert.Equal(t, "700.00", bill.EnergyAmount.StringFixed(2))

	breakdown, err := bill.DecodeBreakdown()
	require.NoError(t, err)
	require.Len(t, breakdown.Energy, 2)
	assert.Equal(t, "0-100", breakdown.Energy[0].Range)
	assert.Equal(t, int64(100), breakdown.Energy[0].Units)
	assert.Equal(t, "Above 101", breakdown.Energy[1].Range)
	assert.Equal(t, int64(50), breakdown.Energy[1].Units)

	reading, err := env.Readings.Get(ctx, res.ReadingID)
	require.NoError(t, err)
	assert.Equal(t, int64(150), reading.UnitsConsumed)
	assert.Equal(t, staff.ID, reading.StaffID)

	assert.Equal(t, []string{events.TypeBillCreated}, env.Events.Types())

	_, err = env.Readings.Record(ctx, readingdomain.RecordRequest{
		CustomerID: customer.ID.String(), StaffID: staff.ID.String(), UnitsConsumed: units(10),
	})
	assert.ErrorIs(t, err, billdomain.ErrBillExists)
}

func TestRecordValidatesParticipants(t *testing.T) {
	env := testenv.New(t)
	env.SeedReferenceData(t)
	ctx := context.Background()

	staff := env.ActiveStaff(t, "reader@grid.example")
	pending, err := env.Customers.Signup(ctx, customerdomain.SignupRequest{Name: "P", Email: "p@example.com"})
	require.NoError(t, err)

	_, err = env.Readings.Record(ctx, readingdomain.RecordRequest{
		CustomerID: pending.ID.String(), StaffID: staff.ID.String(), UnitsConsumed: units(10),
	})
	assert.ErrorIs(t, err, customerdomain.ErrNotApproved)

	customer := env.ApprovedCustomer(t, "q@example.com", "Commercial")
	inactive := false
	_, err = env.Staff.Update(ctx, staff.ID.String(), staffdomain.UpdateRequest{Active: &inactive})
	require.NoError(t, err)
	_, err = env.Readings.Record(ctx, readingdomain.RecordRequest{
		CustomerID: customer.ID.String(), StaffID: staff.ID.String(), UnitsConsumed: units(10),
	})
	assert.ErrorIs(t, err, staffdomain.ErrInactive)

	_, err = env.Readings.Record(ctx, readingdomain.RecordRequest{
		CustomerID: customer.ID.String(), StaffID: staff.ID.String(), UnitsConsumed: units(-1),
	})
	assert.ErrorIs(t, err, ratingdomain.ErrNegativeUnits)

	_, err = env.Readings.Record(ctx, readingdomain.RecordRequest{
		CustomerID: customer.ID.String(), StaffID: staff.ID.String(),
	})
	assert.ErrorIs(t, err, readingdomain.ErrUnitsRequired)

	_, err = env.Readings.Record(ctx, readingdomain.RecordRequest{
		CustomerID: "x", StaffID: staff.ID.String(), UnitsConsumed: units(1),
	})
	assert.ErrorIs(t, err, readingdomain.ErrInvalidCustomerID)
}

func TestRecordRollsBackWithoutReferenceData(t *testing.T) {
	env := testenv.New(t)
	ctx := context.Background()

	customer := env.ApprovedCustomer(t, "r@example.com", "Industrial")
	staff := env.ActiveStaff(t, "reader@grid.example")

	_, err := env.Readings.Record(ctx, readingdomain.RecordRequest{
		CustomerID: customer.ID.String(), StaffID: staff.ID.String(), UnitsConsumed: units(10),
	})
	require.Error(t, err)
	assert.True(t, apperr.IsConfiguration(err))

	_, err = env.Bills.GetForPeriod(ctx, customer.ID.Int64(), 2024, 3)
	assert.ErrorIs(t, err, billdomain.ErrNotFound)
	assert.Empty(t, env.Events.Types())

	env.SeedReferenceData(t)
	res, err := env.Readings.Record(ctx, readingdomain.RecordRequest{
		CustomerID: customer.ID.String(), StaffID: staff.ID.String(), UnitsConsumed: units(10),
	})
	require.NoError(t, err)
	assert.Equal(t, "708.00", res.Amount.StringFixed(2))
}

func TestUpdateRepricesUnpaidBill(t *testing.T) {
	env := testenv.New(t)
	env.SeedReferenceData(t)
	ctx := context.Background()

	customer := env.ApprovedCustomer(t, "s@example.com", "Domestic")
	staff := env.ActiveStaff(t, "reader@grid.example")
	res, err := env.Readings.Record(ctx, readingdomain.RecordRequest{
		CustomerID: customer.ID.String(), StaffID: staff.ID.String(), UnitsConsumed: units(150),
	})
	require.NoError(t, err)

	updated, err := env.Readings.Update(ctx, res.ReadingID, readingdomain.UpdateRequest{UnitsConsumed: units(200)})
	require.NoError(t, err)
	assert.Equal(t, res.BillID, updated.BillID)
	assert.Equal(t, "1095.00", updated.Amount.StringFixed(2))

	bill, err := env.Bills.GetByID(ctx, res.BillID)
	require.NoError(t, err)
	assert.Equal(t, int64(200), bill.UnitsConsumed)

	_, err = env.Readings.Update(ctx, "123", readingdomain.UpdateRequest{UnitsConsumed: units(1)})
	assert.ErrorIs(t, err, readingdomain.ErrNotFound)
}

func TestPaidBillLocksReadingForAnyUnits(t *testing.T) {
	env := testenv.New(t)
	env.SeedReferenceData(t)
	ctx := context.Background()

	customer := env.ApprovedCustomer(t, "p@example.com", "Domestic")
	staff := env.ActiveStaff(t, "reader@grid.example")
	res, err := env.Readings.Record(ctx, readingdomain.RecordRequest{
		CustomerID: customer.ID.String(), StaffID: staff.ID.String(), UnitsConsumed: units(150),
	})
	require.NoError(t, err)

	intent, err := env.Payments.Initiate(ctx, customer.ID.Int64(), paymentdomain.InitiateRequest{BillID: res.BillID})
	require.NoError(t, err)
	_, err = env.Payments.Verify(ctx, customer.ID.Int64(), paymentdomain.VerifyRequest{
		PaymentID: intent.PaymentID, BillID: res.BillID, Amount: intent.Amount,
	})
	require.NoError(t, err)

	before, err := env.Bills.GetByID(ctx, res.BillID)
	require.NoError(t, err)
	require.Equal(t, billdomain.StatusPaid, before.Status)

	for _, v := range []int64{0, 150, 5000} {
		_, err := env.Readings.Update(ctx, res.ReadingID, readingdomain.UpdateRequest{UnitsConsumed: units(v)})
		assert.ErrorIsf(t, err, readingdomain.ErrReadingLocked, "units=%d", v)
	}

	after, err := env.Bills.GetByID(ctx, res.BillID)
	require.NoError(t, err)
	assert.Equal(t, before.Status, after.Status)
	assert.Equal(t, before.UnitsConsumed, after.UnitsConsumed)
	assert.True(t, before.SubtotalAmount.Equal(after.SubtotalAmount))
	assert.Equal(t, *before.BillNumber, *after.BillNumber)

	reading, err := env.Readings.Get(ctx, res.ReadingID)
	require.NoError(t, err)
	assert.Equal(t, int64(150), reading.UnitsConsumed)
}
