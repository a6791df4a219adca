package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/brewhaus/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRoutedServer() *Server {
	gin.SetMode(gin.TestMode)

	engine := gin.New()
	engine.Use(ErrorHandlingMiddleware())

	s := &Server{
		engine: engine,
		cfg:    config.Config{AuthJWTSecret: "route-test-secret"},
	}
	s.registerAuthRoutes()
	s.registerPublicRoutes()
	s.registerCustomerRoutes()
	s.registerAdminRoutes()
	return s
}

func TestRouteTable(t *testing.T) {
	s := newRoutedServer()

	registered := make(map[string]bool)
	for _, route := range s.engine.Routes() {
		registered[fmt.Sprintf("%s %s", route.Method, route.Path)] = true
	}

	expected := []string{
		"POST /auth/register",
		"POST /auth/login",
		"GET /products",
		"GET /feedback",
		"GET /profiles/:id",
		"POST /orders",
		"GET /orders",
		"GET /orders/:id",
		"GET /my-orders",
		"GET /my-loyalty",
		"POST /feedback",
		"PATCH /admin/orders/:id/status",
		"GET /admin/loyalty",
		"POST /admin/loyalty/adjust",
		"GET /admin/users",
		"PATCH /admin/users/:id/role",
		"GET /admin/ingredients",
		"POST /admin/stock-moves",
		"GET /admin/products/:id/recipe",
		"PUT /admin/products/:id/recipe",
		"GET /admin/feedback",
		"PATCH /admin/feedback/:id",
		"GET /metrics/daily",
	}
	for _, route := range expected {
		assert.True(t, registered[route], "missing route %s", route)
	}
}

func TestOrderListRequiresBearerToken(t *testing.T) {
	s := newRoutedServer()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	s.engine.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)

	var body errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "unauthorized", body.Error)
}
