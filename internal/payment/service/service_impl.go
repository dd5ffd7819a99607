package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	billdomain "github.com/smallbiznis/gridbill/internal/bill/domain"
	"github.com/smallbiznis/gridbill/internal/clock"
	"github.com/smallbiznis/gridbill/internal/config"
	"github.com/smallbiznis/gridbill/internal/events"
	"github.com/smallbiznis/gridbill/internal/observability/metrics"
	paymentdomain "github.com/smallbiznis/gridbill/internal/payment/domain"
	"github.com/smallbiznis/gridbill/internal/payment/qr"
	"github.com/smallbiznis/gridbill/internal/payment/upi"
	"github.com/smallbiznis/gridbill/pkg/apperr"
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
	Config  config.Config
	Bills   billdomain.Service
	Repo    paymentdomain.Repository
	Events  events.Publisher `optional:"true"`
	Metrics *metrics.Metrics `optional:"true"`
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	clock   clock.Clock
	upi     config.UPIConfig
	bills   billdomain.Service
	repo    paymentdomain.Repository
	events  events.Publisher
	metrics *metrics.Metrics
}

func New(p Params) paymentdomain.Service {
	publisher := p.Events
	if publisher == nil {
		publisher = events.NewNoopPublisher()
	}
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("payment.service"),
		genID:   p.GenID,
		clock:   p.Clock,
		upi:     p.Config.UPI,
		bills:   p.Bills,
		repo:    p.Repo,
		events:  publisher,
		metrics: p.Metrics,
	}
}

func (s *Service) Initiate(ctx context.Context, customerID int64, req paymentdomain.InitiateRequest) (*paymentdomain.Intent, error) {
	billID, err := parseBillID(req.BillID)
	if err != nil {
		return nil, err
	}

	bill, err := s.ownedBill(ctx, s.db, customerID, billID)
	if err != nil {
		return nil, err
	}
	if bill.IsPaid() {
		return nil, billdomain.ErrBillAlreadyPaid
	}

	charge, err := s.bills.ChargeAt(ctx, s.db, bill, s.clock.Now())
	if err != nil {
		return nil, err
	}

	paymentID := uuid.NewString()
	uri, err := upi.Intent{
		PayeeVPA:  s.upi.PayeeVPA,
		PayeeName: s.upi.PayeeName,
		Amount:    charge.Payable(),
		Note:      fmt.Sprintf("Electricity bill %04d-%02d", bill.PeriodYear, bill.PeriodMonth),
		Reference: paymentID,
	}.URI()
	if err != nil {
		return nil, err
	}
	code, err := qr.EncodeBase64PNG(uri, qr.DefaultSize)
	if err != nil {
		return nil, err
	}

	s.log.Info("payment initiated",
		zap.String("payment_id", paymentID),
		zap.String("bill_id", bill.ID.String()),
		zap.Int("days_late", charge.DaysLate),
	)
	return &paymentdomain.Intent{
		PaymentID: paymentID,
		BillID:    bill.ID.String(),
		Amount:    charge.Payable(),
		Fine:      charge.Fine.Round(2),
		DaysLate:  charge.DaysLate,
		UPIURI:    uri,
		QRCodePNG: code,
	}, nil
}

func (s *Service) Verify(ctx context.Context, customerID int64, req paymentdomain.VerifyRequest) (*paymentdomain.Receipt, error) {
	receipt, err := s.verify(ctx, customerID, req)
	s.metrics.RecordVerification(ctx, verificationResult(err))
	if err != nil {
		if apperr.IsConflict(err) {
			s.log.Warn("payment verification refused",
				zap.String("payment_id", req.PaymentID),
				zap.String("bill_id", req.BillID),
				zap.String("code", apperr.CodeOf(err)),
			)
		}
		return nil, err
	}
	return receipt, nil
}

func (s *Service) verify(ctx context.Context, customerID int64, req paymentdomain.VerifyRequest) (*paymentdomain.Receipt, error) {
	paymentID, err := uuid.Parse(strings.TrimSpace(req.PaymentID))
	if err != nil {
		return nil, paymentdomain.ErrInvalidPaymentID
	}
	billID, err := parseBillID(req.BillID)
	if err != nil {
		return nil, err
	}
	if !req.Amount.IsPositive() {
		return nil, paymentdomain.ErrInvalidAmount
	}
	if req.Fine.Valid && req.Fine.Decimal.IsNegative() {
		return nil, paymentdomain.ErrInvalidAmount
	}

	now := s.clock.Now().UTC()
	var (
		paid   *billdomain.Bill
		record *paymentdomain.PaymentRecord
	)
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := s.repo.FindByPaymentID(ctx, tx, paymentID.String())
		if err != nil {
			return err
		}
		if existing != nil {
			return paymentdomain.ErrDuplicatePayment
		}

		bill, err := s.ownedBill(ctx, tx, customerID, billID)
		if err != nil {
			return err
		}
		if bill.IsPaid() {
			return billdomain.ErrBillAlreadyPaid
		}

		charge, err := s.bills.ChargeAt(ctx, tx, bill, now)
		if err != nil {
			return err
		}
		if req.Fine.Valid && !req.Fine.Decimal.Equal(charge.Fine.Round(2)) {
			return paymentdomain.ErrFineMismatch
		}
		if !req.Amount.Equal(charge.Payable()) {
			return paymentdomain.ErrAmountMismatch
		}

		paid, err = s.bills.MarkPaid(ctx, tx, bill, billdomain.PayInput{
			PaymentID: paymentID.String(),
			Charge:    charge,
			PaidAt:    now,
		})
		if err != nil {
			return err
		}

		record = &paymentdomain.PaymentRecord{
			ID:         s.genID.Generate(),
			PaymentID:  paymentID.String(),
			BillID:     bill.ID,
			CustomerID: bill.CustomerID,
			Amount:     charge.Payable(),
			FineAmount: charge.Fine.Round(2),
			ReceiptID:  ulid.Make().String(),
			PaidAt:     now,
			CreatedAt:  now,
		}
		if err := s.repo.Insert(ctx, tx, record); err != nil {
			if db.IsDuplicateKeyErr(err) {
				return paymentdomain.ErrDuplicatePayment
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("bill paid",
		zap.String("bill_id", paid.ID.String()),
		zap.String("bill_number", *paid.BillNumber),
		zap.String("receipt_id", record.ReceiptID),
	)
	s.publishPaid(ctx, paid, record)

	return &paymentdomain.Receipt{
		Success:    true,
		BillID:     paid.ID.String(),
		BillNumber: *paid.BillNumber,
		ReceiptID:  record.ReceiptID,
		PaymentID:  record.PaymentID,
		Amount:     record.Amount,
		Fine:       record.FineAmount,
		PaidAt:     record.PaidAt,
	}, nil
}

// ownedBill hides bills of other customers behind not found.
func (s *Service) ownedBill(ctx context.Context, tx *gorm.DB, customerID int64, billID snowflake.ID) (*billdomain.Bill, error) {
	bill, err := s.bills.Load(ctx, tx, billID.Int64())
	if err != nil {
		return nil, err
	}
	if bill.CustomerID.Int64() != customerID {
		return nil, billdomain.ErrNotFound
	}
	return bill, nil
}

func (s *Service) publishPaid(ctx context.Context, bill *billdomain.Bill, record *paymentdomain.PaymentRecord) {
	evt := events.Event{
		Type:       events.TypeBillPaid,
		Key:        bill.CustomerID.String(),
		OccurredAt: record.PaidAt,
		Payload: events.BillPayload{
			BillID:      bill.ID.String(),
			CustomerID:  bill.CustomerID.String(),
			TariffType:  string(bill.TariffType),
			PeriodYear:  bill.PeriodYear,
			PeriodMonth: bill.PeriodMonth,
			Amount:      record.Amount.StringFixed(2),
			BillNumber:  *bill.BillNumber,
			ReceiptID:   record.ReceiptID,
		},
	}
	if err := s.events.Publish(ctx, evt); err != nil {
		s.log.Warn("bill event not published", zap.String("event_type", evt.Type), zap.Error(err))
	}
}

func verificationResult(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, billdomain.ErrBillAlreadyPaid):
		return "already_paid"
	case errors.Is(err, paymentdomain.ErrDuplicatePayment):
		return "duplicate"
	case errors.Is(err, paymentdomain.ErrAmountMismatch):
		return "amount_mismatch"
	case errors.Is(err, paymentdomain.ErrFineMismatch):
		return "fine_mismatch"
	case apperr.IsValidation(err), apperr.IsNotFound(err):
		return "rejected"
	default:
		return "error"
	}
}

func parseBillID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id <= 0 {
		return 0, paymentdomain.ErrInvalidBillID
	}
	return id, nil
}
