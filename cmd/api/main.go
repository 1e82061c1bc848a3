package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"churchbooks/internal/config"
	"churchbooks/internal/database"
	_ "churchbooks/internal/docs" // Import swagger docs
	"churchbooks/internal/handlers"
	"churchbooks/internal/logger"
	"churchbooks/internal/middleware"
	"churchbooks/internal/services"
	"churchbooks/internal/validator"
)

// @title           Churchbooks API
// @version         1.0
// @description     Churchbooks records church income and reconciles bank statement lines against the ledger.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @securityDefinitions.apikey PipelineKey
// @in header
// @name X-API-Key
// @description Shared key for automated payment pipelines.

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	validator.Register()

	if appConfig.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := setupRouter(dbManager.DB(), appConfig)

	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	log.Infof("Starting churchbooks API on port %s", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}

// setupRouter wires services and handlers on top of db and registers every
// route on a fresh engine.
func setupRouter(db *gorm.DB, appConfig *config.Config) *gin.Engine {
	// Initialize services
	auditService := services.NewAuditService(db)
	memberService := services.NewMemberService(db)
	ledgerService := services.NewLedgerEntryService(db)
	transactionService := services.NewTransactionService(db, ledgerService, appConfig.DuplicateWindowDays)
	bankTxnService := services.NewBankTransactionService(db)
	matchService := services.NewMatchService(db, memberService, transactionService)
	reconciliationService := services.NewReconciliationService(db, memberService, matchService, ledgerService)
	ingestionService := services.NewIngestionService(transactionService, matchService)

	// Initialize handlers
	bankTxnHandler := handlers.NewBankTransactionHandler(bankTxnService, matchService, reconciliationService, auditService, appConfig.MaxUploadBytes)
	transactionHandler := handlers.NewTransactionHandler(transactionService, auditService)
	pipelineHandler := handlers.NewPipelineHandler(ingestionService, auditService)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-API-Key, X-Request-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")

	// Operator routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	bankTxns := protected.Group("/bank-transactions")
	bankTxns.POST("/import", bankTxnHandler.ImportStatement)
	bankTxns.GET("", bankTxnHandler.ListBankTransactions)
	bankTxns.GET("/:id", bankTxnHandler.GetBankTransaction)
	bankTxns.GET("/:id/suggestion", bankTxnHandler.GetSuggestion)
	bankTxns.POST("/:id/reconcile", bankTxnHandler.Reconcile)

	transactions := protected.Group("/transactions")
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("/:id", transactionHandler.GetTransactionByID)

	// Pipeline routes
	pipeline := v1.Group("/pipeline")
	pipeline.Use(middleware.PipelineAuthMiddleware(appConfig.PipelineAPIKey, handlers.PipelineOperatorID))
	pipeline.POST("/payments", pipelineHandler.IngestPayments)

	return router
}
