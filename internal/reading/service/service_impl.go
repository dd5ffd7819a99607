package service

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	billdomain "github.com/smallbiznis/gridbill/internal/bill/domain"
	"github.com/smallbiznis/gridbill/internal/clock"
	customerdomain "github.com/smallbiznis/gridbill/internal/customer/domain"
	"github.com/smallbiznis/gridbill/internal/events"
	"github.com/smallbiznis/gridbill/internal/observability/metrics"
	ratingdomain "github.com/smallbiznis/gridbill/internal/rating/domain"
	readingdomain "github.com/smallbiznis/gridbill/internal/reading/domain"
	staffdomain "github.com/smallbiznis/gridbill/internal/staff/domain"
	"github.com/smallbiznis/gridbill/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	GenID     *snowflake.Node
	Clock     clock.Clock
	Repo      readingdomain.Repository
	Customers customerdomain.Service
	Staff     staffdomain.Service
	Bills     billdomain.Service
	Events    events.Publisher `optional:"true"`
	Metrics   *metrics.Metrics `optional:"true"`
}

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	genID     *snowflake.Node
	clock     clock.Clock
	repo      readingdomain.Repository
	customers customerdomain.Service
	staff     staffdomain.Service
	bills     billdomain.Service
	events    events.Publisher
	metrics   *metrics.Metrics
}

func New(p Params) readingdomain.Service {
	publisher := p.Events
	if publisher == nil {
		publisher = events.NewNoopPublisher()
	}
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("reading.service"),
		genID:     p.GenID,
		clock:     p.Clock,
		repo:      p.Repo,
		customers: p.Customers,
		staff:     p.Staff,
		bills:     p.Bills,
		events:    publisher,
		metrics:   p.Metrics,
	}
}

func (s *Service) Record(ctx context.Context, req readingdomain.RecordRequest) (*readingdomain.Result, error) {
	units, err := requireUnits(req.UnitsConsumed)
	if err != nil {
		return nil, err
	}
	customerID, err := parseID(req.CustomerID)
	if err != nil {
		return nil, readingdomain.ErrInvalidCustomerID
	}
	staffID, err := parseID(req.StaffID)
	if err != nil {
		return nil, readingdomain.ErrInvalidStaffID
	}

	now := s.clock.Now().UTC()
	var (
		reading *readingdomain.Reading
		bill    *billdomain.Bill
	)
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		customer, err := s.customers.Load(ctx, tx, customerID.Int64())
		if err != nil {
			return err
		}
		if !customer.Billable() {
			return customerdomain.ErrNotApproved
		}
		if _, err := s.staff.Active(ctx, tx, staffID.Int64()); err != nil {
			return err
		}

		reading = &readingdomain.Reading{
			ID:            s.genID.Generate(),
			CustomerID:    customer.ID,
			StaffID:       staffID,
			UnitsConsumed: units,
			PeriodYear:    now.Year(),
			PeriodMonth:   int(now.Month()),
			RecordedAt:    now,
			UpdatedAt:     now,
		}
		if err := s.repo.Insert(ctx, tx, reading); err != nil {
			if db.IsDuplicateKeyErr(err) {
				return billdomain.ErrBillExists
			}
			return err
		}

		bill, err = s.bills.CreateForReading(ctx, tx, billdomain.CreateInput{
			ReadingID:   reading.ID,
			CustomerID:  customer.ID,
			TariffType:  customer.TariffType,
			Units:       units,
			PeriodYear:  reading.PeriodYear,
			PeriodMonth: reading.PeriodMonth,
			BillDate:    now,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordReading(ctx, "record")
	s.metrics.RecordBillCreated(ctx, string(bill.TariffType))
	s.log.Info("reading recorded",
		zap.String("reading_id", reading.ID.String()),
		zap.String("bill_id", bill.ID.String()),
		zap.Int64("units", units),
	)
	s.publish(ctx, events.TypeBillCreated, bill)

	return &readingdomain.Result{
		ReadingID: reading.ID.String(),
		BillID:    bill.ID.String(),
		Amount:    bill.SubtotalAmount.Round(2),
	}, nil
}

func (s *Service) Update(ctx context.Context, id string, req readingdomain.UpdateRequest) (*readingdomain.Result, error) {
	readingID, err := parseID(id)
	if err != nil {
		return nil, readingdomain.ErrInvalidID
	}
	units, err := requireUnits(req.UnitsConsumed)
	if err != nil {
		return nil, err
	}

	var bill *billdomain.Bill
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		reading, err := s.repo.FindByID(ctx, tx, readingID)
		if err != nil {
			return err
		}
		if reading == nil {
			return readingdomain.ErrNotFound
		}

		locked, err := s.bills.LockForReading(ctx, tx, reading.ID)
		if err != nil {
			return err
		}
		if locked.IsPaid() {
			return readingdomain.ErrReadingLocked
		}

		reading.UnitsConsumed = units
		reading.UpdatedAt = s.clock.Now().UTC()
		if err := s.repo.UpdateUnits(ctx, tx, reading); err != nil {
			return err
		}

		bill, err = s.bills.RepriceForReading(ctx, tx, locked, units)
		if errors.Is(err, billdomain.ErrBillAlreadyPaid) {
			return readingdomain.ErrReadingLocked
		}
		return err
	})
	if err != nil {
		if errors.Is(err, readingdomain.ErrReadingLocked) {
			s.log.Warn("edit refused, bill already paid", zap.String("reading_id", readingID.String()))
		}
		return nil, err
	}

	s.metrics.RecordReading(ctx, "update")
	return &readingdomain.Result{
		ReadingID: readingID.String(),
		BillID:    bill.ID.String(),
		Amount:    bill.SubtotalAmount.Round(2),
	}, nil
}

func (s *Service) Get(ctx context.Context, id string) (*readingdomain.Reading, error) {
	readingID, err := parseID(id)
	if err != nil {
		return nil, readingdomain.ErrInvalidID
	}
	reading, err := s.repo.FindByID(ctx, s.db, readingID)
	if err != nil {
		return nil, err
	}
	if reading == nil {
		return nil, readingdomain.ErrNotFound
	}
	return reading, nil
}

func (s *Service) publish(ctx context.Context, eventType string, bill *billdomain.Bill) {
	evt := events.Event{
		Type:       eventType,
		Key:        bill.CustomerID.String(),
		OccurredAt: s.clock.Now().UTC(),
		Payload: events.BillPayload{
			BillID:      bill.ID.String(),
			CustomerID:  bill.CustomerID.String(),
			TariffType:  string(bill.TariffType),
			PeriodYear:  bill.PeriodYear,
			PeriodMonth: bill.PeriodMonth,
			Amount:      bill.SubtotalAmount.StringFixed(2),
		},
	}
	if err := s.events.Publish(ctx, evt); err != nil {
		s.log.Warn("bill event not published", zap.String("event_type", eventType), zap.Error(err))
	}
}

func requireUnits(units *int64) (int64, error) {
	if units == nil {
		return 0, readingdomain.ErrUnitsRequired
	}
	if *units < 0 {
		return 0, ratingdomain.ErrNegativeUnits
	}
	return *units, nil
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil {
		return 0, err
	}
	if id <= 0 {
		return 0, errors.New("id must be positive")
	}
	return id, nil
}
