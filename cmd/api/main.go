package main

import (
	"context"
	"log"

	_ "backend/api/swagger" // swagger docs
	"backend/internal/config"
	"backend/internal/database"
	"backend/internal/handler"
	"backend/internal/middleware"
	"backend/internal/repository"
	"backend/internal/service"
	"backend/internal/storage"
	"backend/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           Small Business Accounting API
// @version         1.0
// @description     Irish VAT, invoicing, expenses, payroll and bank reconciliation backend.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	db, err := database.NewConnection(cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	log.Println("Connected to PostgreSQL successfully.")

	ctx := context.Background()
	if cfg.SeedRefData {
		if err := database.SeedReferenceData(ctx, db); err != nil {
			log.Fatalf("Reference data seeding failed: %v", err)
		}
	}

	store, err := storage.NewManager(ctx, cfg.Storage, db)
	if err != nil {
		log.Fatalf("Storage backend init failed: %v", err)
	}
	log.Printf("Using %s document storage", store.Mode())

	// Set up WebSocket Hub
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Set up dependencies (Repository -> Service -> Handler)
	txManager := repository.NewTransactionManager(db)
	userRepo := repository.NewUserRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	vatRateRepo := repository.NewVATRateRepository(db)
	catRepo := repository.NewCategoryRepository(db)
	companyRepo := repository.NewCompanyRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	expenseRepo := repository.NewExpenseRepository(db)
	employeeRepo := repository.NewEmployeeRepository(db)
	payrollRepo := repository.NewPayrollRepository(db)
	statementRepo := repository.NewBankStatementRepository(db)
	documentRepo := repository.NewDocumentRepository(db)

	userService := service.NewUserService(userRepo, middleware.GetJWTSecret())
	auditService := service.NewAuditService(auditRepo)
	vatService := service.NewVATService(db, vatRateRepo, catRepo, auditRepo, cfg.VAT)
	companyService := service.NewCompanyService(companyRepo, auditRepo)
	employeeService := service.NewEmployeeService(employeeRepo, companyRepo)
	invoiceService := service.NewInvoiceService(invoiceRepo, companyRepo, auditRepo, vatService, txManager, wsHub)
	expenseService := service.NewExpenseService(expenseRepo, companyRepo, catRepo, auditRepo, vatService, txManager, cfg.VAT, wsHub)
	payrollService := service.NewPayrollService(payrollRepo, employeeRepo, companyRepo, auditRepo, txManager, wsHub)
	statementService := service.NewBankStatementService(statementRepo, invoiceRepo, expenseRepo, payrollRepo, companyRepo, auditRepo, txManager, wsHub)
	documentService := service.NewDocumentService(documentRepo, companyRepo, auditRepo, store, txManager)
	dashboardService := service.NewDashboardService(db)

	// Initialize Handlers
	userHandler := handler.NewUserHandler(userService)
	auditHandler := handler.NewAuditHandler(auditService)
	vatHandler := handler.NewVATHandler(vatService)
	companyHandler := handler.NewCompanyHandler(companyService, employeeService)
	invoiceHandler := handler.NewInvoiceHandler(invoiceService)
	expenseHandler := handler.NewExpenseHandler(expenseService)
	payrollHandler := handler.NewPayrollHandler(payrollService)
	statementHandler := handler.NewBankStatementHandler(statementService)
	documentHandler := handler.NewDocumentHandler(documentService)
	dashboardHandler := handler.NewDashboardHandler(dashboardService)

	// Set up Gin Router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSOrigins
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	// WebSocket endpoint
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, middleware.GetJWTSecret())
	})

	// Register API Routes
	root := router.Group("")
	userHandler.RegisterRoutes(root)
	auditHandler.RegisterRoutes(root)
	vatHandler.RegisterRoutes(root)
	companyHandler.RegisterRoutes(root)
	invoiceHandler.RegisterRoutes(root)
	expenseHandler.RegisterRoutes(root)
	payrollHandler.RegisterRoutes(root)
	statementHandler.RegisterRoutes(root)
	documentHandler.RegisterRoutes(root)
	dashboardHandler.RegisterRoutes(root)

	log.Printf("Server listening on :%s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
