package router

import (
	"time"

	"github.com/solanoize/optika-api/internal/config"
	"github.com/solanoize/optika-api/internal/handler"
	"github.com/solanoize/optika-api/internal/middleware"
	"github.com/solanoize/optika-api/internal/repository"
	"github.com/solanoize/optika-api/internal/service"
	"github.com/solanoize/optika-api/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	purchaseRepo := repository.NewPurchaseRepository(db)
	movementRepo := repository.NewStockMovementRepository(db)
	adjustmentRepo := repository.NewStockAdjustmentRepository(db)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTExpirationHours)
	inventorySvc := service.NewInventoryService(productRepo, movementRepo, adjustmentRepo)
	productSvc := service.NewProductService(productRepo, inventorySvc)
	customerSvc := service.NewCustomerService(customerRepo)
	orderSvc := service.NewOrderService(orderRepo, productRepo, customerRepo, inventorySvc, dispatcher, cfg.LowStockThreshold)
	purchaseSvc := service.NewPurchaseService(purchaseRepo, productRepo, inventorySvc, dispatcher)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	productsH := handler.NewProductsHandler(productSvc)
	customersH := handler.NewCustomersHandler(customerSvc)
	ordersH := handler.NewOrdersHandler(orderSvc)
	purchasesH := handler.NewPurchasesHandler(purchaseSvc)
	inventoryH := handler.NewInventoryHandler(inventorySvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		// Roles: staff, admin — declared per-endpoint
		staffOrAdmin := middleware.RequireRole("staff", "admin")
		adminOnly := middleware.RequireRole("admin")

		v1.GET("/products", staffOrAdmin, productsH.List)
		v1.GET("/products/:id", staffOrAdmin, productsH.Get)
		v1.POST("/products", staffOrAdmin, productsH.Create)
		v1.PUT("/products/:id", staffOrAdmin, productsH.Update)
		v1.DELETE("/products/:id", adminOnly, productsH.Delete)

		v1.GET("/customers", staffOrAdmin, customersH.List)
		v1.GET("/customers/:id", staffOrAdmin, customersH.Get)
		v1.POST("/customers", staffOrAdmin, customersH.Create)
		v1.PUT("/customers/:id", staffOrAdmin, customersH.Update)
		v1.DELETE("/customers/:id", adminOnly, customersH.Delete)

		v1.POST("/orders", staffOrAdmin, ordersH.Create)
		v1.GET("/orders", staffOrAdmin, ordersH.List)
		v1.GET("/orders/:order_number", staffOrAdmin, ordersH.Get)

		v1.POST("/purchases", staffOrAdmin, purchasesH.Create)
		v1.GET("/purchases", staffOrAdmin, purchasesH.List)
		v1.GET("/purchases/:purchase_number", staffOrAdmin, purchasesH.Get)

		// Ledger reads — staff can inspect, corrections need admin
		v1.GET("/stock-movements", staffOrAdmin, inventoryH.ListMovements)
		v1.GET("/stock-movements/:id", staffOrAdmin, inventoryH.GetMovement)
		v1.POST("/stock-adjustments", adminOnly, inventoryH.CreateAdjustment)
		v1.GET("/stock-adjustments", staffOrAdmin, inventoryH.ListAdjustments)
		v1.GET("/stock-reconciliation", adminOnly, inventoryH.Reconcile)

		v1.POST("/users", adminOnly, authH.CreateUser)
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
