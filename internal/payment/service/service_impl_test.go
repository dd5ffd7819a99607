package service_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	billdomain "github.com/smallbiznis/gridbill/internal/bill/domain"
	"github.com/smallbiznis/gridbill/internal/config"
	"github.com/smallbiznis/gridbill/internal/events"
	paymentdomain "github.com/smallbiznis/gridbill/internal/payment/domain"
	ratingdomain "github.com/smallbiznis/gridbill/internal/rating/domain"
	readingdomain "github.com/smallbiznis/gridbill/internal/reading/domain"
	"github.com/smallbiznis/gridbill/internal/testenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const day = 24 * time.Hour

type billed struct {
	env        *testenv.Env
	customerID int64
	billID     string
}

// newBilled records 150 Domestic units on the first of March. The bill is due
// on March 16.
func newBilled(t *testing.T) billed {
	t.Helper()
	env := testenv.New(t)
	env.SeedReferenceData(t)

	customer := env.ApprovedCustomer(t, "meena@example.com", "Domestic")
	staff := env.ActiveStaff(t, "reader@grid.example")
	units := int64(150)
	res, err := env.Readings.Record(context.Background(), readingdomain.RecordRequest{
		CustomerID: customer.ID.String(), StaffID: staff.ID.String(), UnitsConsumed: &units,
	})
	require.NoError(t, err)
	return billed{env: env, customerID: customer.ID.Int64(), billID: res.BillID}
}

func TestWorkedExampleTenDaysLate(t *testing.T) {
	b := newBilled(t)
	ctx := context.Background()
	b.env.Clock.Advance(25 * day)

	intent, err := b.env.Payments.Initiate(ctx, b.customerID, paymentdomain.InitiateRequest{BillID: b.billID})
	require.NoError(t, err)
	assert.Equal(t, "895.00", intent.Amount.StringFixed(2))
	assert.Equal(t, "100.00", intent.Fine.StringFixed(2))
	assert.Equal(t, 10, intent.DaysLate)
	assert.True(t, strings.HasPrefix(intent.UPIURI, "upi://pay?pa=electricity%40upi"))
	assert.Contains(t, intent.UPIURI, "am=895.00")
	assert.Contains(t, intent.UPIURI, "tr="+intent.PaymentID)
	assert.NotEmpty(t, intent.QRCodePNG)

	receipt, err := b.env.Payments.Verify(ctx, b.customerID, paymentdomain.VerifyRequest{
		PaymentID: intent.PaymentID,
		BillID:    b.billID,
		Amount:    decimal.RequireFromString("895.00"),
		Fine:      decimal.NewNullDecimal(decimal.RequireFromString("100")),
	})
	require.NoError(t, err)
	assert.True(t, receipt.Success)
	assert.Equal(t, "EB-202403-000001", receipt.BillNumber)
	assert.Len(t, receipt.ReceiptID, 26)
	assert.Equal(t, "895.00", receipt.Amount.StringFixed(2))

	view, err := b.env.Bills.GetForPeriod(ctx, b.customerID, 2024, 3)
	require.NoError(t, err)
	assert.Equal(t, billdomain.StatusPaid, view.Status)
	assert.Equal(t, "895.00", view.TotalPaid.Decimal.StringFixed(2))
	assert.Equal(t, "100.00", view.FineAsOfNow.StringFixed(2))
	assert.True(t, view.PayableNow.IsZero())

	assert.Equal(t, []string{events.TypeBillCreated, events.TypeBillPaid}, b.env.Events.Types())
}

func TestVerifyIsIdempotent(t *testing.T) {
	b := newBilled(t)
	ctx := context.Background()

	paymentID := uuid.NewString()
	req := paymentdomain.VerifyRequest{PaymentID: paymentID, BillID: b.billID, Amount: decimal.RequireFromString("795")}
	first, err := b.env.Payments.Verify(ctx, b.customerID, req)
	require.NoError(t, err)

	_, err = b.env.Payments.Verify(ctx, b.customerID, req)
	assert.ErrorIs(t, err, paymentdomain.ErrDuplicatePayment)

	req.PaymentID = uuid.NewString()
	_, err = b.env.Payments.Verify(ctx, b.customerID, req)
	assert.ErrorIs(t, err, billdomain.ErrBillAlreadyPaid)

	_, err = b.env.Payments.Initiate(ctx, b.customerID, paymentdomain.InitiateRequest{BillID: b.billID})
	assert.ErrorIs(t, err, billdomain.ErrBillAlreadyPaid)

	bill, err := b.env.Bills.GetByID(ctx, b.billID)
	require.NoError(t, err)
	assert.Equal(t, first.BillNumber, *bill.BillNumber)
	assert.Equal(t, paymentID, *bill.PaymentID)
}

func TestConcurrentVerificationsSettleOnce(t *testing.T) {
	b := newBilled(t)
	ctx := context.Background()
	b.env.Clock.Advance(25 * day)

	const callers = 8
	var (
		wg    sync.WaitGroup
		start = make(chan struct{})
		errs  = make([]error, callers)
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			_, errs[i] = b.env.Payments.Verify(ctx, b.customerID, paymentdomain.VerifyRequest{
				PaymentID: uuid.NewString(),
				BillID:    b.billID,
				Amount:    decimal.RequireFromString("895.00"),
			})
		}(i)
	}
	close(start)
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, billdomain.ErrBillAlreadyPaid)
	}
	assert.Equal(t, 1, succeeded)

	var seq billdomain.BillNumberSequence
	require.NoError(t, b.env.DB.First(&seq, "period = ?", "202403").Error)
	assert.Equal(t, int64(1), seq.LastValue)

	var payments int64
	require.NoError(t, b.env.DB.Model(&paymentdomain.PaymentRecord{}).Count(&payments).Error)
	assert.Equal(t, int64(1), payments)
	assert.Equal(t, []string{events.TypeBillCreated, events.TypeBillPaid}, b.env.Events.Types())
}

func TestVerifyRejectsMismatchWithoutMutation(t *testing.T) {
	b := newBilled(t)
	ctx := context.Background()
	b.env.Clock.Advance(25 * day)

	_, err := b.env.Payments.Verify(ctx, b.customerID, paymentdomain.VerifyRequest{
		PaymentID: uuid.NewString(), BillID: b.billID, Amount: decimal.RequireFromString("795.00"),
	})
	assert.ErrorIs(t, err, paymentdomain.ErrAmountMismatch)

	_, err = b.env.Payments.Verify(ctx, b.customerID, paymentdomain.VerifyRequest{
		PaymentID: uuid.NewString(), BillID: b.billID, Amount: decimal.RequireFromString("895.00"),
		Fine: decimal.NewNullDecimal(decimal.Zero),
	})
	assert.ErrorIs(t, err, paymentdomain.ErrFineMismatch)

	_, err = b.env.Payments.Verify(ctx, b.customerID, paymentdomain.VerifyRequest{
		PaymentID: uuid.NewString(), BillID: b.billID, Amount: decimal.RequireFromString("895.001"),
	})
	assert.ErrorIs(t, err, paymentdomain.ErrAmountMismatch)

	bill, err := b.env.Bills.GetByID(ctx, b.billID)
	require.NoError(t, err)
	assert.Equal(t, billdomain.StatusUnpaid, bill.Status)
	assert.Nil(t, bill.BillNumber)
}

func TestVerifyOwnershipAndInput(t *testing.T) {
	b := newBilled(t)
	ctx := context.Background()
	other := b.env.ApprovedCustomer(t, "other@example.com", "Domestic")

	_, err := b.env.Payments.Verify(ctx, other.ID.Int64(), paymentdomain.VerifyRequest{
		PaymentID: uuid.NewString(), BillID: b.billID, Amount: decimal.RequireFromString("795.00"),
	})
	assert.ErrorIs(t, err, billdomain.ErrNotFound)

	_, err = b.env.Payments.Initiate(ctx, other.ID.Int64(), paymentdomain.InitiateRequest{BillID: b.billID})
	assert.ErrorIs(t, err, billdomain.ErrNotFound)

	_, err = b.env.Payments.Verify(ctx, b.customerID, paymentdomain.VerifyRequest{
		PaymentID: "not-a-uuid", BillID: b.billID, Amount: decimal.RequireFromString("795.00"),
	})
	assert.ErrorIs(t, err, paymentdomain.ErrInvalidPaymentID)

	_, err = b.env.Payments.Verify(ctx, b.customerID, paymentdomain.VerifyRequest{
		PaymentID: uuid.NewString(), BillID: b.billID, Amount: decimal.Zero,
	})
	assert.ErrorIs(t, err, paymentdomain.ErrInvalidAmount)

	_, err = b.env.Payments.Initiate(ctx, b.customerID, paymentdomain.InitiateRequest{BillID: "abc"})
	assert.ErrorIs(t, err, paymentdomain.ErrInvalidBillID)
}

func TestFineOverflowPolicy(t *testing.T) {
	b := newBilled(t)
	ctx := context.Background()
	// 45 days past due, beyond the last fine slab (16-30).
	b.env.Clock.Advance(60 * day)

	intent, err := b.env.Payments.Initiate(ctx, b.customerID, paymentdomain.InitiateRequest{BillID: b.billID})
	require.NoError(t, err)
	assert.Equal(t, 45, intent.DaysLate)
	assert.Equal(t, "995.00", intent.Amount.StringFixed(2))

	cfg := config.DefaultBillingConfig()
	cfg.FineOverflowPolicy = config.FineOverflowReject
	require.NoError(t, b.env.Billing.Store(cfg))

	_, err = b.env.Payments.Initiate(ctx, b.customerID, paymentdomain.InitiateRequest{BillID: b.billID})
	assert.ErrorIs(t, err, ratingdomain.ErrFineScheduleExceeded)
}
