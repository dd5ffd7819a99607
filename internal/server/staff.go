package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	staffdomain "github.com/smallbiznis/gridbill/internal/staff/domain"
)

func (s *Server) ListStaff(c *gin.Context) {
	members, err := s.staffSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": members})
}

func (s *Server) CreateStaff(c *gin.Context) {
	var req staffdomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	member, err := s.staffSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": member})
}

func (s *Server) UpdateStaff(c *gin.Context) {
	var req staffdomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	member, err := s.staffSvc.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": member})
}
