package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	feedbackdomain "github.com/smallbiznis/brewhaus/internal/feedback/domain"
)

func (s *Server) ListPublicFeedback(c *gin.Context) {
	resp, err := s.feedbackSvc.ListPublic(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) CreateFeedback(c *gin.Context) {
	var req feedbackdomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	req.UserID = currentUserID(c)

	resp, err := s.feedbackSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (s *Server) ListAllFeedback(c *gin.Context) {
	resp, err := s.feedbackSvc.ListAll(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) ModerateFeedback(c *gin.Context) {
	var req feedbackdomain.ModerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	req.ID = strings.TrimSpace(c.Param("id"))

	resp, err := s.feedbackSvc.Moderate(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
