package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	extrachargedomain "github.com/smallbiznis/gridbill/internal/extracharge/domain"
	finedomain "github.com/smallbiznis/gridbill/internal/fineslab/domain"
	ratingdomain "github.com/smallbiznis/gridbill/internal/rating/domain"
	tariffdomain "github.com/smallbiznis/gridbill/internal/tariff/domain"
)

func (s *Server) ListTariffs(c *gin.Context) {
	slabs, err := s.tariffSvc.List(c.Request.Context(), strings.TrimSpace(c.Query("tariff_type")))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": slabs})
}

func (s *Server) CreateTariffSlab(c *gin.Context) {
	var req tariffdomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	slab, err := s.tariffSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": slab})
}

func (s *Server) UpdateTariffSlab(c *gin.Context) {
	var req tariffdomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	slab, err := s.tariffSvc.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": slab})
}

func (s *Server) DeleteTariffSlab(c *gin.Context) {
	if err := s.tariffSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) GetExtraCharges(c *gin.Context) {
	charge, err := s.extraChargeSvc.Get(c.Request.Context(), c.Param("tariff_type"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": charge})
}

func (s *Server) ListExtraCharges(c *gin.Context) {
	charges, err := s.extraChargeSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": charges})
}

func (s *Server) UpsertExtraCharges(c *gin.Context) {
	var req extrachargedomain.UpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	charge, err := s.extraChargeSvc.Upsert(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": charge})
}

func (s *Server) ListFineSlabs(c *gin.Context) {
	slabs, err := s.fineSlabSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": slabs})
}

func (s *Server) CreateFineSlab(c *gin.Context) {
	var req finedomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	slab, err := s.fineSlabSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": slab})
}

func (s *Server) UpdateFineSlab(c *gin.Context) {
	var req finedomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	slab, err := s.fineSlabSvc.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": slab})
}

func (s *Server) DeleteFineSlab(c *gin.Context) {
	if err := s.fineSlabSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type quoteRequest struct {
	TariffType    string `json:"tariff_type"`
	UnitsConsumed *int64 `json:"units_consumed"`
}

type quoteResponse struct {
	TariffType  tariffdomain.TariffType       `json:"tariff_type"`
	Units       int64                         `json:"units"`
	Energy      ratingdomain.EnergyCharge     `json:"energy"`
	Extras      []extrachargedomain.Component `json:"extras"`
	ExtraAmount decimal.Decimal               `json:"extra_amount"`
	Total       decimal.Decimal               `json:"total"`
}

// Quote previews the charge for a consumption without recording anything.
func (s *Server) Quote(c *gin.Context) {
	var req quoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	if req.UnitsConsumed == nil {
		AbortWithError(c, newValidationError("units_consumed", "invalid_units_consumed", "units_consumed is required"))
		return
	}

	assessment, err := s.ratingSvc.Quote(c.Request.Context(), req.TariffType, *req.UnitsConsumed)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": quoteResponse{
		TariffType:  assessment.TariffType,
		Units:       assessment.Units,
		Energy:      assessment.Energy,
		Extras:      assessment.Extras,
		ExtraAmount: assessment.ExtraAmount.Round(2),
		Total:       assessment.Subtotal().Round(2),
	}})
}
