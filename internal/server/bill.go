package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/gridbill/internal/authctx"
)

// GetBill returns the bill of one month with the fine as of now.
func (s *Server) GetBill(c *gin.Context) {
	customerID, err := customerScope(c, c.Query("customer_id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	year, err := parseOptionalInt(c.Query("year"))
	if err != nil {
		AbortWithError(c, newValidationError("year", "invalid_year", "invalid year"))
		return
	}
	month, err := parseOptionalInt(c.Query("month"))
	if err != nil {
		AbortWithError(c, newValidationError("month", "invalid_month", "invalid month"))
		return
	}

	var y, m int
	if year != nil {
		y = *year
	}
	if month != nil {
		m = *month
	}

	view, err := s.billSvc.GetForPeriod(c.Request.Context(), customerID, y, m)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": view})
}

func (s *Server) ListBillHistory(c *gin.Context) {
	p := principal(c)
	if p.Role != authctx.RoleCustomer {
		AbortWithError(c, ErrForbidden)
		return
	}

	bills, err := s.billSvc.ListForCustomer(c.Request.Context(), p.CustomerID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": bills})
}
