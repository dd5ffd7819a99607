package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	billdomain "github.com/smallbiznis/gridbill/internal/bill/domain"
	"github.com/smallbiznis/gridbill/internal/bill/format"
	"github.com/smallbiznis/gridbill/internal/clock"
	"github.com/smallbiznis/gridbill/internal/config"
	ratingdomain "github.com/smallbiznis/gridbill/internal/rating/domain"
	"github.com/smallbiznis/gridbill/internal/rating/engine"
	"github.com/smallbiznis/gridbill/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Clock   clock.Clock
	Billing *config.BillingConfigHolder
	Rating  ratingdomain.Service
	Repo    billdomain.Repository
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	clock   clock.Clock
	billing *config.BillingConfigHolder
	rating  ratingdomain.Service
	repo    billdomain.Repository
}

func New(p Params) billdomain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("bill.service"),
		genID:   p.GenID,
		clock:   p.Clock,
		billing: p.Billing,
		rating:  p.Rating,
		repo:    p.Repo,
	}
}

func (s *Service) CreateForReading(ctx context.Context, tx *gorm.DB, in billdomain.CreateInput) (*billdomain.Bill, error) {
	if err := validPeriod(in.PeriodYear, in.PeriodMonth); err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByPeriod(ctx, tx, in.CustomerID, in.PeriodYear, in.PeriodMonth)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, billdomain.ErrBillExists
	}

	assessment, err := s.rating.QuoteWith(ctx, tx, in.TariffType, in.Units)
	if err != nil {
		return nil, err
	}
	breakdown, err := billdomain.NewBreakdown(*assessment)
	if err != nil {
		return nil, err
	}

	billDate := startOfDay(in.BillDate)
	now := s.clock.Now().UTC()
	entity := &billdomain.Bill{
		ID:             s.genID.Generate(),
		CustomerID:     in.CustomerID,
		ReadingID:      in.ReadingID,
		TariffType:     in.TariffType,
		PeriodYear:     in.PeriodYear,
		PeriodMonth:    in.PeriodMonth,
		UnitsConsumed:  in.Units,
		BillDate:       billDate,
		DueDate:        billDate.AddDate(0, 0, s.billing.Get().DueDays),
		Status:         billdomain.StatusUnpaid,
		EnergyAmount:   assessment.Energy.Amount,
		ExtraAmount:    assessment.ExtraAmount,
		SubtotalAmount: assessment.Subtotal(),
		Breakdown:      breakdown,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.Insert(ctx, tx, entity); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, billdomain.ErrBillExists
		}
		return nil, err
	}
	return entity, nil
}

func (s *Service) RepriceForReading(ctx context.Context, tx *gorm.DB, bill *billdomain.Bill, units int64) (*billdomain.Bill, error) {
	if bill.IsPaid() {
		return nil, billdomain.ErrBillAlreadyPaid
	}

	assessment, err := s.rating.QuoteWith(ctx, tx, bill.TariffType, units)
	if err != nil {
		return nil, err
	}
	breakdown, err := billdomain.NewBreakdown(*assessment)
	if err != nil {
		return nil, err
	}

	updated := *bill
	updated.UnitsConsumed = units
	updated.EnergyAmount = assessment.Energy.Amount
	updated.ExtraAmount = assessment.ExtraAmount
	updated.SubtotalAmount = assessment.Subtotal()
	updated.Breakdown = breakdown
	updated.UpdatedAt = s.clock.Now().UTC()

	ok, err := s.repo.Reprice(ctx, tx, &updated)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, billdomain.ErrBillAlreadyPaid
	}
	return &updated, nil
}

func (s *Service) LockForReading(ctx context.Context, tx *gorm.DB, readingID snowflake.ID) (*billdomain.Bill, error) {
	bill, err := s.repo.LockByReadingID(ctx, tx, readingID)
	if err != nil {
		return nil, err
	}
	if bill == nil {
		return nil, billdomain.ErrNotFound
	}
	return bill, nil
}

func (s *Service) GetForPeriod(ctx context.Context, customerID int64, year, month int) (*billdomain.View, error) {
	if year == 0 && month == 0 {
		now := s.clock.Now().UTC()
		year, month = now.Year(), int(now.Month())
	}
	if err := validPeriod(year, month); err != nil {
		return nil, err
	}

	bill, err := s.repo.FindByPeriod(ctx, s.db, snowflake.ID(customerID), year, month)
	if err != nil {
		return nil, err
	}
	if bill == nil {
		return nil, billdomain.ErrNotFound
	}

	view := &billdomain.View{Bill: *bill}
	if bill.IsPaid() {
		if bill.PaidAt != nil {
			view.DaysLate = engine.DaysLate(bill.DueDate, *bill.PaidAt)
		}
		view.FineAsOfNow = bill.FineAmount.Decimal
		view.PayableNow = decimal.Zero
		return view, nil
	}

	charge, err := s.ChargeAt(ctx, s.db, bill, s.clock.Now())
	if err != nil {
		return nil, err
	}
	view.DaysLate = charge.DaysLate
	view.FineAsOfNow = charge.Fine
	view.PayableNow = charge.Payable()
	return view, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*billdomain.Bill, error) {
	billID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, billdomain.ErrInvalidID
	}
	return s.Load(ctx, s.db, billID.Int64())
}

func (s *Service) Load(ctx context.Context, tx *gorm.DB, id int64) (*billdomain.Bill, error) {
	if id <= 0 {
		return nil, billdomain.ErrInvalidID
	}
	if tx == nil {
		tx = s.db
	}
	bill, err := s.repo.FindByID(ctx, tx, snowflake.ID(id))
	if err != nil {
		return nil, err
	}
	if bill == nil {
		return nil, billdomain.ErrNotFound
	}
	return bill, nil
}

func (s *Service) ListForCustomer(ctx context.Context, customerID int64) ([]billdomain.Bill, error) {
	return s.repo.ListByCustomer(ctx, s.db, snowflake.ID(customerID))
}

func (s *Service) ChargeAt(ctx context.Context, tx *gorm.DB, b *billdomain.Bill, at time.Time) (billdomain.Charge, error) {
	daysLate := engine.DaysLate(b.DueDate, at)
	fine, err := s.rating.FineFor(ctx, tx, daysLate)
	if err != nil {
		return billdomain.Charge{}, err
	}
	return billdomain.Charge{
		DaysLate: daysLate,
		Fine:     fine,
		Total:    b.SubtotalAmount.Add(fine),
	}, nil
}

func (s *Service) MarkPaid(ctx context.Context, tx *gorm.DB, b *billdomain.Bill, in billdomain.PayInput) (*billdomain.Bill, error) {
	if b.IsPaid() {
		return nil, billdomain.ErrBillAlreadyPaid
	}

	paidAt := in.PaidAt.UTC()
	seq, err := s.repo.NextSequence(ctx, tx, format.SequencePeriod(paidAt))
	if err != nil {
		return nil, err
	}
	number, err := format.FormatBillNumber(s.billing.Get().BillNumberTemplate, paidAt, seq)
	if err != nil {
		s.log.Error("bill number template rejected", zap.Error(err))
		return nil, fmt.Errorf("%w: %s", billdomain.ErrBillNumberUnavailable, err.Error())
	}

	update := billdomain.PaidUpdate{
		BillNumber: number,
		PaymentID:  in.PaymentID,
		Fine:       in.Charge.Fine.Round(2),
		TotalPaid:  in.Charge.Payable(),
		PaidAt:     paidAt,
	}
	ok, err := s.repo.MarkPaid(ctx, tx, b.ID, update)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, billdomain.ErrBillAlreadyPaid
	}

	paid := *b
	paid.Status = billdomain.StatusPaid
	paid.BillNumber = &number
	paid.PaymentID = &update.PaymentID
	paid.FineAmount = decimal.NewNullDecimal(update.Fine)
	paid.TotalPaid = decimal.NewNullDecimal(update.TotalPaid)
	paid.PaidAt = &paidAt
	paid.UpdatedAt = paidAt
	return &paid, nil
}

func validPeriod(year, month int) error {
	if year < 2000 || year > 9999 || month < 1 || month > 12 {
		return billdomain.ErrInvalidPeriod
	}
	return nil
}

func startOfDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
