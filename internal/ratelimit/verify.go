package ratelimit

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/smallbiznis/gridbill/internal/clock"
	"github.com/smallbiznis/gridbill/internal/config"
	"github.com/smallbiznis/gridbill/internal/observability/metrics"
	"github.com/smallbiznis/gridbill/pkg/apperr"
	"go.uber.org/zap"
)

const (
	keyVerifyCustomer = "gridbill:verify:customer:%s"
	keyVerifyBill     = "gridbill:verify:lock:bill:%s"

	verifyEndpoint = "payments.verify"
	billLockTTL    = 30 * time.Second
)

var (
	ErrRateLimited       = apperr.RateLimited("rate_limited")
	ErrPaymentInProgress = apperr.Conflict("payment_in_progress")
)

// Decision is the outcome of taking one token from a bucket.
type Decision struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

// Bucket takes a token from the bucket named key.
type Bucket interface {
	Allow(ctx context.Context, key string, perSecond float64, burst int) (Decision, error)
}

// VerifyGuard throttles payment verification per customer and serializes
// concurrent verifications of the same bill when redis is available.
type VerifyGuard struct {
	log     *zap.Logger
	billing *config.BillingConfigHolder
	metrics *metrics.Metrics

	shared Bucket
	local  *LocalBuckets
	locker *Locker
}

func NewVerifyGuard(log *zap.Logger, billing *config.BillingConfigHolder, clk clock.Clock, shared Bucket, locker *Locker, m *metrics.Metrics) *VerifyGuard {
	return &VerifyGuard{
		log:     log.Named("ratelimit"),
		billing: billing,
		metrics: m,
		shared:  shared,
		local:   NewLocalBuckets(clk.Now),
		locker:  locker,
	}
}

// Allow charges one verification attempt to the customer. A redis failure
// degrades to the in-process bucket instead of failing the request.
func (g *VerifyGuard) Allow(ctx context.Context, customerID string) (Decision, error) {
	perMinute := g.billing.Get().VerifyRatePerMinute
	perSecond := float64(perMinute) / 60
	key := fmt.Sprintf(keyVerifyCustomer, strings.TrimSpace(customerID))

	var (
		decision Decision
		err      error
	)
	if g.shared != nil {
		decision, err = g.shared.Allow(ctx, key, perSecond, perMinute)
		if err != nil {
			g.log.Warn("shared rate limiter unavailable, using local bucket", zap.Error(err))
		}
	}
	if g.shared == nil || err != nil {
		decision, err = g.local.Allow(ctx, key, perSecond, perMinute)
		if err != nil {
			return Decision{}, err
		}
	}

	if !decision.Allowed {
		g.metrics.RecordRateLimitDenied(ctx, verifyEndpoint, "customer")
		return decision, ErrRateLimited
	}
	return decision, nil
}

// LockBill claims the bill for one verification. The returned release func is
// always safe to call.
func (g *VerifyGuard) LockBill(ctx context.Context, billID string) (func(), error) {
	if g.locker == nil {
		return func() {}, nil
	}

	key := fmt.Sprintf(keyVerifyBill, strings.TrimSpace(billID))
	token, ok, err := g.locker.TryLock(ctx, key, billLockTTL)
	if err != nil {
		// The database still rejects a second payment; the lock only saves work.
		g.log.Warn("bill lock unavailable", zap.String("bill_id", billID), zap.Error(err))
		return func() {}, nil
	}
	if !ok {
		g.metrics.RecordRateLimitDenied(ctx, verifyEndpoint, "bill_locked")
		return func() {}, ErrPaymentInProgress
	}
	return func() {
		if err := g.locker.Release(context.WithoutCancel(ctx), key, token); err != nil {
			g.log.Warn("bill lock release failed", zap.String("bill_id", billID), zap.Error(err))
		}
	}, nil
}
