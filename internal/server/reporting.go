package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) DailyRevenue(c *gin.Context) {
	days, err := parseOptionalInt(c.Query("days"))
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.reportingSvc.DailyRevenue(c.Request.Context(), days)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
