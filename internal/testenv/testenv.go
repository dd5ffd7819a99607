// Package testenv wires the billing services against an in-memory database
// for package tests that need the whole flow.
package testenv

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	billdomain "github.com/smallbiznis/gridbill/internal/bill/domain"
	billrepo "github.com/smallbiznis/gridbill/internal/bill/repository"
	billservice "github.com/smallbiznis/gridbill/internal/bill/service"
	"github.com/smallbiznis/gridbill/internal/clock"
	"github.com/smallbiznis/gridbill/internal/config"
	customerdomain "github.com/smallbiznis/gridbill/internal/customer/domain"
	customerrepo "github.com/smallbiznis/gridbill/internal/customer/repository"
	customerservice "github.com/smallbiznis/gridbill/internal/customer/service"
	"github.com/smallbiznis/gridbill/internal/events"
	extrachargedomain "github.com/smallbiznis/gridbill/internal/extracharge/domain"
	extrachargerepo "github.com/smallbiznis/gridbill/internal/extracharge/repository"
	extrachargeservice "github.com/smallbiznis/gridbill/internal/extracharge/service"
	finedomain "github.com/smallbiznis/gridbill/internal/fineslab/domain"
	finerepo "github.com/smallbiznis/gridbill/internal/fineslab/repository"
	fineservice "github.com/smallbiznis/gridbill/internal/fineslab/service"
	"github.com/smallbiznis/gridbill/internal/migration"
	paymentdomain "github.com/smallbiznis/gridbill/internal/payment/domain"
	paymentrepo "github.com/smallbiznis/gridbill/internal/payment/repository"
	paymentservice "github.com/smallbiznis/gridbill/internal/payment/service"
	ratingdomain "github.com/smallbiznis/gridbill/internal/rating/domain"
	ratingservice "github.com/smallbiznis/gridbill/internal/rating/service"
	readingdomain "github.com/smallbiznis/gridbill/internal/reading/domain"
	readingrepo "github.com/smallbiznis/gridbill/internal/reading/repository"
	readingservice "github.com/smallbiznis/gridbill/internal/reading/service"
	staffdomain "github.com/smallbiznis/gridbill/internal/staff/domain"
	staffservice "github.com/smallbiznis/gridbill/internal/staff/service"
	tariffdomain "github.com/smallbiznis/gridbill/internal/tariff/domain"
	tariffrepo "github.com/smallbiznis/gridbill/internal/tariff/repository"
	tariffservice "github.com/smallbiznis/gridbill/internal/tariff/service"
	"github.com/smallbiznis/gridbill/pkg/db/dbtest"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Start is the fake clock's initial reading: the first of a billing month.
var Start = time.Date(2024, time.March, 1, 10, 0, 0, 0, time.UTC)

type Env struct {
	DB      *gorm.DB
	Node    *snowflake.Node
	Clock   *clock.FakeClock
	Config  config.Config
	Billing *config.BillingConfigHolder
	Events  *Recorder

	Tariffs   tariffdomain.Service
	Extras    extrachargedomain.Service
	Fines     finedomain.Service
	Rating    ratingdomain.Service
	Customers customerdomain.Service
	Staff     staffdomain.Service
	Bills     billdomain.Service
	Readings  readingdomain.Service
	Payments  paymentdomain.Service
}

func New(t testing.TB) *Env {
	t.Helper()

	db := dbtest.Open(t, migration.Models()...)
	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}
	log := zap.NewNop()

	cfg := config.Config{
		AppName:       "gridbill",
		Environment:   "test",
		AuthJWTSecret: "test-secret",
		UPI:           config.UPIConfig{PayeeVPA: "electricity@upi", PayeeName: "Electricity Board"},
	}

	env := &Env{
		DB:      db,
		Node:    node,
		Clock:   clock.NewFakeClock(Start),
		Config:  cfg,
		Billing: config.NewStaticBillingConfigHolder(config.DefaultBillingConfig()),
		Events:  &Recorder{},
	}

	env.Tariffs = tariffservice.New(tariffservice.Params{DB: db, Log: log, GenID: node, Clock: env.Clock, Repo: tariffrepo.Provide()})
	env.Extras = extrachargeservice.New(extrachargeservice.Params{DB: db, Log: log, GenID: node, Repo: extrachargerepo.Provide()})
	env.Fines = fineservice.New(fineservice.Params{DB: db, Log: log, GenID: node, Repo: finerepo.Provide()})
	env.Rating = ratingservice.New(ratingservice.Params{
		DB: db, Log: log, Billing: env.Billing,
		Tariffs: env.Tariffs, Extras: env.Extras, Fines: env.Fines,
	})
	env.Customers = customerservice.New(customerservice.Params{DB: db, Log: log, GenID: node, Repo: customerrepo.Provide()})
	env.Staff = staffservice.New(staffservice.Params{DB: db, Log: log, GenID: node})
	env.Bills = billservice.New(billservice.Params{
		DB: db, Log: log, GenID: node, Clock: env.Clock, Billing: env.Billing,
		Rating: env.Rating, Repo: billrepo.Provide(),
	})
	env.Readings = readingservice.New(readingservice.Params{
		DB: db, Log: log, GenID: node, Clock: env.Clock, Repo: readingrepo.Provide(),
		Customers: env.Customers, Staff: env.Staff, Bills: env.Bills, Events: env.Events,
	})
	env.Payments = paymentservice.New(paymentservice.Params{
		DB: db, Log: log, GenID: node, Clock: env.Clock, Config: cfg,
		Bills: env.Bills, Repo: paymentrepo.Provide(), Events: env.Events,
	})
	return env
}

func mustDecimal(v string) decimal.Decimal { return decimal.RequireFromString(v) }

func int64Ptr(v int64) *int64 { return &v }

func nullDecimal(v string) decimal.NullDecimal {
	return decimal.NewNullDecimal(mustDecimal(v))
}

// SeedReferenceData installs the worked example tariffs: Domestic
// [0-100]@4.00, [101-9999]@6.00 with 50+20+10+15 of extras, and a fine
// schedule of 100.00 for 5-15 days late and 200.00 for 16-30.
func (e *Env) SeedReferenceData(t testing.TB) {
	t.Helper()
	ctx := context.Background()

	slabs := []tariffdomain.CreateRequest{
		{TariffType: "Domestic", UnitFrom: 0, UnitTo: int64Ptr(100), Rate: mustDecimal("4.00")},
		{TariffType: "Domestic", UnitFrom: 101, Rate: mustDecimal("6.00")},
		{TariffType: "Commercial", UnitFrom: 0, UnitTo: int64Ptr(100), Rate: mustDecimal("5.00")},
		{TariffType: "Commercial", UnitFrom: 101, UnitTo: int64Ptr(200), Rate: mustDecimal("7.00")},
		{TariffType: "Commercial", UnitFrom: 201, Rate: mustDecimal("9.00")},
		{TariffType: "Industrial", UnitFrom: 1, Rate: mustDecimal("8.25")},
	}
	for _, req := range slabs {
		if _, err := e.Tariffs.Create(ctx, req); err != nil {
			t.Fatalf("seed tariff %s %d: %v", req.TariffType, req.UnitFrom, err)
		}
	}

	extras := []extrachargedomain.UpsertRequest{
		{TariffType: "Domestic", FixedCharge: nullDecimal("50"), MeterRent: nullDecimal("20"), ElectricityDuty: nullDecimal("10"), FuelCharge: nullDecimal("15")},
		{TariffType: "Commercial", FixedCharge: nullDecimal("100"), MeterRent: nullDecimal("40")},
		{TariffType: "Industrial", FixedCharge: nullDecimal("500"), ElectricityDuty: nullDecimal("125.50")},
	}
	for _, req := range extras {
		if _, err := e.Extras.Upsert(ctx, req); err != nil {
			t.Fatalf("seed extra charge %s: %v", req.TariffType, err)
		}
	}

	fines := []finedomain.CreateRequest{
		{DaysFrom: 5, DaysTo: 15, FineAmount: mustDecimal("100")},
		{DaysFrom: 16, DaysTo: 30, FineAmount: mustDecimal("200")},
	}
	for _, req := range fines {
		if _, err := e.Fines.Create(ctx, req); err != nil {
			t.Fatalf("seed fine slab %d-%d: %v", req.DaysFrom, req.DaysTo, err)
		}
	}
}

// ApprovedCustomer signs up a customer and approves them with a meter.
func (e *Env) ApprovedCustomer(t testing.TB, email, tariffType string) customerdomain.Customer {
	t.Helper()
	ctx := context.Background()

	c, err := e.Customers.Signup(ctx, customerdomain.SignupRequest{Name: "Customer " + email, Email: email, TariffType: tariffType})
	if err != nil {
		t.Fatalf("signup %s: %v", email, err)
	}
	approved, err := e.Customers.Approve(ctx, c.ID.String(), customerdomain.ApproveRequest{})
	if err != nil {
		t.Fatalf("approve %s: %v", email, err)
	}
	return approved
}

func (e *Env) ActiveStaff(t testing.TB, email string) staffdomain.Staff {
	t.Helper()
	s, err := e.Staff.Create(context.Background(), staffdomain.CreateRequest{Name: "Staff " + email, Email: email, Designation: "Meter Reader"})
	if err != nil {
		t.Fatalf("staff %s: %v", email, err)
	}
	return s
}

// Recorder is an events.Publisher that keeps everything it is given.
type Recorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *Recorder) Publish(_ context.Context, evt events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, evt)
	return nil
}

func (r *Recorder) Types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, evt := range r.events {
		out = append(out, evt.Type)
	}
	return out
}
