package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/gridbill/internal/authctx"
	readingdomain "github.com/smallbiznis/gridbill/internal/reading/domain"
)

// RecordReading enters a month's consumption and bills it. Staff record under
// their own id; admins must name the staff member.
func (s *Server) RecordReading(c *gin.Context) {
	var req readingdomain.RecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	p := principal(c)
	if p.Role == authctx.RoleStaff {
		own := strconv.FormatInt(p.StaffID, 10)
		if explicit := strings.TrimSpace(req.StaffID); explicit != "" && explicit != own {
			AbortWithError(c, ErrForbidden)
			return
		}
		req.StaffID = own
	}

	result, err := s.readingSvc.Record(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": result})
}

func (s *Server) UpdateReading(c *gin.Context) {
	var req readingdomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	result, err := s.readingSvc.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": result})
}

func (s *Server) GetReading(c *gin.Context) {
	reading, err := s.readingSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": reading})
}
