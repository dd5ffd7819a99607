package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/gridbill/internal/authctx"
	paymentdomain "github.com/smallbiznis/gridbill/internal/payment/domain"
)

const verifyRequestKey = "verify_request"

type verifyPaymentRequest struct {
	PaymentID  string              `json:"payment_id"`
	BillID     string              `json:"bill_id"`
	CustomerID string              `json:"customer_id"`
	Amount     decimal.Decimal     `json:"amount"`
	Fine       decimal.NullDecimal `json:"fine"`
}

func (s *Server) InitiatePayment(c *gin.Context) {
	p := principal(c)
	if p.Role != authctx.RoleCustomer {
		AbortWithError(c, ErrForbidden)
		return
	}

	var req paymentdomain.InitiateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	intent, err := s.paymentSvc.Initiate(c.Request.Context(), p.CustomerID, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": intent})
}

// VerifyRateLimit throttles verification per customer and holds the bill
// lock for the rest of the request.
func (s *Server) VerifyRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		p := principal(c)
		if p.Role != authctx.RoleCustomer {
			AbortWithError(c, ErrForbidden)
			return
		}

		decision, err := s.verifyGuard.Allow(c.Request.Context(), strconv.FormatInt(p.CustomerID, 10))
		if err != nil {
			if decision.RetryAfter > 0 {
				c.Header("Retry-After", strconv.Itoa(int(decision.RetryAfter.Seconds())+1))
			}
			AbortWithError(c, err)
			return
		}

		var req verifyPaymentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			AbortWithError(c, invalidRequestError())
			return
		}
		c.Set(verifyRequestKey, req)

		release, err := s.verifyGuard.LockBill(c.Request.Context(), strings.TrimSpace(req.BillID))
		if err != nil {
			AbortWithError(c, err)
			return
		}
		defer release()

		c.Next()
	}
}

func (s *Server) VerifyPayment(c *gin.Context) {
	raw, ok := c.Get(verifyRequestKey)
	if !ok {
		AbortWithError(c, invalidRequestError())
		return
	}
	req := raw.(verifyPaymentRequest)

	customerID, err := customerScope(c, req.CustomerID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	receipt, err := s.paymentSvc.Verify(c.Request.Context(), customerID, paymentdomain.VerifyRequest{
		PaymentID: req.PaymentID,
		BillID:    req.BillID,
		Amount:    req.Amount,
		Fine:      req.Fine,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": receipt})
}
