package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallbiznis/brewhaus/internal/auth"
	authdomain "github.com/smallbiznis/brewhaus/internal/auth/domain"
	"github.com/smallbiznis/brewhaus/internal/catalog"
	catalogdomain "github.com/smallbiznis/brewhaus/internal/catalog/domain"
	"github.com/smallbiznis/brewhaus/internal/config"
	"github.com/smallbiznis/brewhaus/internal/feedback"
	feedbackdomain "github.com/smallbiznis/brewhaus/internal/feedback/domain"
	"github.com/smallbiznis/brewhaus/internal/inventory"
	invdomain "github.com/smallbiznis/brewhaus/internal/inventory/domain"
	"github.com/smallbiznis/brewhaus/internal/loyalty"
	loyaltydomain "github.com/smallbiznis/brewhaus/internal/loyalty/domain"
	"github.com/smallbiznis/brewhaus/internal/observability"
	obsmiddleware "github.com/smallbiznis/brewhaus/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/brewhaus/internal/observability/metrics"
	obstracing "github.com/smallbiznis/brewhaus/internal/observability/tracing"
	"github.com/smallbiznis/brewhaus/internal/order"
	orderdomain "github.com/smallbiznis/brewhaus/internal/order/domain"
	"github.com/smallbiznis/brewhaus/internal/profile"
	profiledomain "github.com/smallbiznis/brewhaus/internal/profile/domain"
	"github.com/smallbiznis/brewhaus/internal/ratelimit"
	"github.com/smallbiznis/brewhaus/internal/reporting"
	reportingdomain "github.com/smallbiznis/brewhaus/internal/reporting/domain"
	"go.uber.org/fx"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	auth.Module,
	catalog.Module,
	inventory.Module,
	order.Module,
	loyalty.Module,
	profile.Module,
	feedback.Module,
	reporting.Module,
	ratelimit.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug: obsCfg.Debug(),
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine          *gin.Engine
	cfg             config.Config
	authsvc         authdomain.Service
	catalogSvc      catalogdomain.Service
	inventorySvc    invdomain.Service
	orderSvc        orderdomain.Service
	loyaltySvc      loyaltydomain.Service
	profileSvc      profiledomain.Service
	feedbackSvc     feedbackdomain.Service
	reportingSvc    reportingdomain.Service
	feedbackLimiter *ratelimit.FeedbackLimiter
}

type ServerParams struct {
	fx.In

	Gin             *gin.Engine
	Cfg             config.Config
	Authsvc         authdomain.Service
	CatalogSvc      catalogdomain.Service
	InventorySvc    invdomain.Service
	OrderSvc        orderdomain.Service
	LoyaltySvc      loyaltydomain.Service
	ProfileSvc      profiledomain.Service
	FeedbackSvc     feedbackdomain.Service
	ReportingSvc    reportingdomain.Service
	FeedbackLimiter *ratelimit.FeedbackLimiter `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:          p.Gin,
		cfg:             p.Cfg,
		authsvc:         p.Authsvc,
		catalogSvc:      p.CatalogSvc,
		inventorySvc:    p.InventorySvc,
		orderSvc:        p.OrderSvc,
		loyaltySvc:      p.LoyaltySvc,
		profileSvc:      p.ProfileSvc,
		feedbackSvc:     p.FeedbackSvc,
		reportingSvc:    p.ReportingSvc,
		feedbackLimiter: p.FeedbackLimiter,
	}

	svc.registerAuthRoutes()
	svc.registerPublicRoutes()
	svc.registerCustomerRoutes()
	svc.registerAdminRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAuthRoutes() {
	authGroup := s.engine.Group("/auth")

	authGroup.POST("/register", s.Register)
	authGroup.POST("/login", s.Login)
}

func (s *Server) registerPublicRoutes() {
	s.engine.GET("/products", s.ListPublicProducts)
	s.engine.GET("/feedback", s.ListPublicFeedback)
	s.engine.GET("/profiles/:id", s.GetProfileByID)
}

func (s *Server) registerCustomerRoutes() {
	s.engine.POST("/orders", s.OptionalAuth(), s.PlaceOrder)
	s.engine.GET("/my-orders", s.AuthRequired(), s.ListMyOrders)
	s.engine.GET("/my-loyalty", s.AuthRequired(), s.ListMyLoyalty)
	s.engine.POST("/feedback", s.AuthRequired(), s.FeedbackRateLimit(), s.CreateFeedback)
}

func (s *Server) registerAdminRoutes() {
	staffRoles := []profiledomain.Role{profiledomain.RoleAdmin, profiledomain.RoleStaff}

	admin := s.engine.Group("/admin")
	admin.Use(s.AuthRequired())

	// -------- Products --------
	admin.GET("/products", s.RequireRole(staffRoles...), s.ListProducts)
	admin.POST("/products", s.RequireRole(staffRoles...), s.CreateProduct)
	admin.PATCH("/products/:id", s.RequireRole(staffRoles...), s.UpdateProduct)
	admin.DELETE("/products/:id", s.RequireRole(staffRoles...), s.DeactivateProduct)
	admin.GET("/products/:id/recipe", s.RequireRole(staffRoles...), s.GetProductRecipe)
	admin.PUT("/products/:id/recipe", s.RequireRole(staffRoles...), s.ReplaceProductRecipe)

	// -------- Ingredients --------
	admin.GET("/ingredients", s.RequireRole(staffRoles...), s.ListIngredients)
	admin.POST("/ingredients", s.RequireRole(staffRoles...), s.CreateIngredient)
	admin.PATCH("/ingredients/:id", s.RequireRole(staffRoles...), s.UpdateIngredient)
	admin.DELETE("/ingredients/:id", s.RequireRole(staffRoles...), s.DeactivateIngredient)

	// -------- Stock Moves --------
	admin.GET("/stock-moves", s.RequireRole(staffRoles...), s.ListStockMoves)
	admin.POST("/stock-moves", s.RequireRole(staffRoles...), s.CreateStockMove)

	// -------- Orders --------
	s.engine.GET("/orders", s.AuthRequired(), s.RequireRole(staffRoles...), s.ListOrders)
	s.engine.GET("/orders/:id", s.AuthRequired(), s.RequireRole(staffRoles...), s.GetOrderByID)
	admin.PATCH("/orders/:id/status", s.RequireRole(staffRoles...), s.UpdateOrderStatus)

	// -------- Loyalty --------
	admin.GET("/loyalty", s.RequireRole(staffRoles...), s.ListLoyaltyCustomers)
	admin.POST("/loyalty/adjust", s.RequireRole(profiledomain.RoleAdmin), s.AdjustLoyalty)

	// -------- Users --------
	admin.GET("/users", s.RequireRole(profiledomain.RoleAdmin), s.ListUsers)
	admin.PATCH("/users/:id/role", s.RequireRole(profiledomain.RoleAdmin), s.SetUserRole)

	// -------- Feedback --------
	admin.GET("/feedback", s.RequireRole(staffRoles...), s.ListAllFeedback)
	admin.PATCH("/feedback/:id", s.RequireRole(staffRoles...), s.ModerateFeedback)

	// -------- Reporting --------
	s.engine.GET("/metrics/daily", s.AuthRequired(), s.RequireRole(staffRoles...), s.DailyRevenue)
}
