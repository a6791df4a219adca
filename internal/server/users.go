package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	profiledomain "github.com/smallbiznis/brewhaus/internal/profile/domain"
)

func (s *Server) ListUsers(c *gin.Context) {
	resp, err := s.profileSvc.List(c.Request.Context(), profiledomain.ListRequest{
		Role:  strings.TrimSpace(c.Query("role")),
		Query: strings.TrimSpace(c.Query("q")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) SetUserRole(c *gin.Context) {
	var req profiledomain.SetRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	req.ID = strings.TrimSpace(c.Param("id"))

	resp, err := s.profileSvc.SetRole(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) GetProfileByID(c *gin.Context) {
	resp, err := s.profileSvc.Get(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
