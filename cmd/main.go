package main

import (
	"easystock-service/internal/handler"
	"easystock-service/internal/middleware"
	"easystock-service/internal/policy"
	"easystock-service/internal/repository"
	"easystock-service/pkg/config"
	"easystock-service/pkg/database"
	"easystock-service/pkg/jwtutil"
	"easystock-service/pkg/logger"
	"easystock-service/prometheus"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

func main() {
	// Load configuration from .env file and environment variables
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger with config
	logger.InitLogger(cfg)
	log := logger.GetLogger()
	log.Info("Starting easystock service...", zap.String("environment", cfg.Server.Env))

	// Initialize database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}
	log.Info("Database connection established")

	// Initialize JWT utility
	jwtutil.Initialize(&cfg.JWT)
	log.Info("JWT utility initialized")

	// Initialize Prometheus metrics
	prometheus.InitMetrics(cfg)
	log.Info("Prometheus metrics initialized")

	repo := repository.New(db)
	engine := policy.NewEngine(repo.DB())

	authHandler := handler.NewAuthHandler(repo)
	companyHandler := handler.NewCompanyHandler(repo)
	licenseHandler := handler.NewLicenseHandler(repo)
	packageHandler := handler.NewPackageHandler(repo)
	shopHandler := handler.NewShopHandler(repo)
	shopTypeHandler := handler.NewShopTypeHandler(repo)
	userHandler := handler.NewUserHandler(repo)
	userLevelHandler := handler.NewUserLevelHandler(repo)
	productHandler := handler.NewProductHandler(repo)
	categoryHandler := handler.NewCategoryHandler(repo)
	stockHandler := handler.NewStockHandler(repo)
	customerHandler := handler.NewCustomerHandler(repo)
	billingHandler := handler.NewBillingHandler(repo)
	expenseHandler := handler.NewExpenseHandler(repo)
	cashboxHandler := handler.NewCashboxHandler(repo)

	// Initialize Echo framework
	e := echo.New()

	// Apply global middleware - order matters
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(middleware.RequestID())
	e.Use(logger.Middleware())
	e.Use(prometheus.MetricsMiddleware())

	// Public routes - no authentication required
	e.GET("/health", handler.HealthCheck)
	e.GET("/metrics", handler.MetricsHandler)

	auth := e.Group("/auth")
	auth.POST("/login", authHandler.Login)
	auth.GET("/me", authHandler.Me, middleware.Auth(engine))

	// Public lookups - the registration and pricing pages need these
	// before anyone has a token
	e.GET("/packages", packageHandler.List)
	e.GET("/packages/:id", packageHandler.Get)
	e.GET("/shops/types", shopTypeHandler.List)
	e.GET("/shops/types/:id", shopTypeHandler.Get)
	e.GET("/users/levels", userLevelHandler.List)
	e.GET("/users/levels/:id", userLevelHandler.Get)
	e.GET("/payments/modes", billingHandler.ListPaymentModes)
	e.GET("/payments/modes/:id", billingHandler.GetPaymentMode)

	// API routes - all require authentication
	api := e.Group("/api")
	api.Use(middleware.Auth(engine))

	companies := api.Group("/companies")
	companies.GET("", companyHandler.List)
	companies.GET("/:id", companyHandler.Get)
	companies.POST("", companyHandler.Create)
	companies.PATCH("/:id", companyHandler.Update)

	licenses := api.Group("/licenses")
	licenses.GET("", licenseHandler.List)
	licenses.GET("/:id", licenseHandler.Get)
	licenses.POST("", licenseHandler.Create)
	licenses.PATCH("/:id", licenseHandler.Update)

	packages := api.Group("/packages")
	packages.POST("", packageHandler.Create)
	packages.PATCH("/:id", packageHandler.Update)

	shops := api.Group("/shops")
	shops.POST("/types", shopTypeHandler.Create)
	shops.PATCH("/types/:id", shopTypeHandler.Update)
	shops.GET("", shopHandler.List)
	shops.GET("/:id", shopHandler.Get)
	shops.POST("", shopHandler.Create)
	shops.PATCH("/:id", shopHandler.Update)

	users := api.Group("/users")
	users.POST("/levels", userLevelHandler.Create)
	users.PATCH("/levels/:id", userLevelHandler.Update)
	users.GET("", userHandler.List)
	users.GET("/:id", userHandler.Get)
	users.POST("", userHandler.Create)
	users.PATCH("/:id", userHandler.Update)

	products := api.Group("/products")
	products.GET("/categories", categoryHandler.List)
	products.GET("/categories/:id", categoryHandler.Get)
	products.POST("/categories", categoryHandler.Create)
	products.PATCH("/categories/:id", categoryHandler.Update)
	products.GET("", productHandler.List)
	products.GET("/:id", productHandler.Get)
	products.POST("", productHandler.Create)
	products.PATCH("/:id", productHandler.Update)

	stock := api.Group("/stock")
	stock.GET("", stockHandler.List)
	stock.GET("/filter/:stock_date", stockHandler.ByDate)
	stock.GET("/:id", stockHandler.Get)
	stock.POST("", stockHandler.Create)
	stock.PATCH("/:id", stockHandler.Update)

	customers := api.Group("/customers")
	customers.GET("", customerHandler.List)
	customers.GET("/:id", customerHandler.Get)
	customers.POST("", customerHandler.Create)
	customers.PATCH("/:id", customerHandler.Update)

	bills := api.Group("/bills")
	bills.GET("", billingHandler.ListBills)
	bills.GET("/:id", billingHandler.GetBill)
	bills.POST("", billingHandler.CreateBill)
	bills.PATCH("/:id", billingHandler.UpdateBill)

	payments := api.Group("/payments")
	payments.POST("/modes", billingHandler.CreatePaymentMode)
	payments.PATCH("/modes/:id", billingHandler.UpdatePaymentMode)
	payments.GET("", billingHandler.ListPayments)
	payments.GET("/:id", billingHandler.GetPayment)
	payments.POST("", billingHandler.CreatePayment)
	payments.PATCH("/:id", billingHandler.UpdatePayment)

	expenses := api.Group("/expenses")
	expenses.GET("", expenseHandler.List)
	expenses.GET("/:id", expenseHandler.Get)
	expenses.POST("", expenseHandler.Create)
	expenses.PATCH("/:id", expenseHandler.Update)

	cashbox := api.Group("/cashbox")
	cashbox.GET("", cashboxHandler.List)
	cashbox.GET("/:id", cashboxHandler.Get)
	cashbox.POST("", cashboxHandler.Create)
	cashbox.PATCH("/:id", cashboxHandler.Update)

	// Get server port from configuration
	port := cfg.Server.Port

	// Start server
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Failed to start server", zap.Error(err))
	}
}
