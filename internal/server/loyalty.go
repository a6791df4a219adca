package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	loyaltydomain "github.com/smallbiznis/brewhaus/internal/loyalty/domain"
)

func (s *Server) AdjustLoyalty(c *gin.Context) {
	var req loyaltydomain.AdjustRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.loyaltySvc.Adjust(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) ListLoyaltyCustomers(c *gin.Context) {
	resp, err := s.loyaltySvc.ListCustomers(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) ListMyLoyalty(c *gin.Context) {
	userID := currentUserID(c)
	if userID == nil {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	limit, err := parseOptionalInt(c.Query("limit"))
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.loyaltySvc.ListEntries(c.Request.Context(), loyaltydomain.ListEntriesRequest{
		UserID: strconv.FormatInt(*userID, 10),
		Limit:  limit,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
