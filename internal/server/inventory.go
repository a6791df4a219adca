package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	invdomain "github.com/smallbiznis/brewhaus/internal/inventory/domain"
)

func (s *Server) ListIngredients(c *gin.Context) {
	active, err := parseOptionalBool(c.Query("active"))
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.inventorySvc.ListIngredients(c.Request.Context(), invdomain.ListRequest{
		Query:  strings.TrimSpace(c.Query("q")),
		Active: active,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) CreateIngredient(c *gin.Context) {
	var req invdomain.CreateIngredientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.inventorySvc.CreateIngredient(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (s *Server) UpdateIngredient(c *gin.Context) {
	var req invdomain.UpdateIngredientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	req.ID = strings.TrimSpace(c.Param("id"))

	resp, err := s.inventorySvc.UpdateIngredient(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) DeactivateIngredient(c *gin.Context) {
	resp, err := s.inventorySvc.DeactivateIngredient(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) ListStockMoves(c *gin.Context) {
	limit, err := parseOptionalInt(c.Query("limit"))
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.inventorySvc.ListMoves(c.Request.Context(), invdomain.ListMovesRequest{
		IngredientID: strings.TrimSpace(c.Query("ingredient_id")),
		Limit:        limit,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) CreateStockMove(c *gin.Context) {
	var req invdomain.MoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.inventorySvc.Move(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}
