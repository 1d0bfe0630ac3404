package main

import (
	"log"
	"os"

	_ "flourerp/api/swagger" // swagger docs
	"flourerp/internal/database"
	"flourerp/internal/handler"
	"flourerp/internal/middleware"
	"flourerp/internal/repository"
	"flourerp/internal/service"
	"flourerp/internal/websocket"
	"flourerp/pkg/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// @title           Flour Factory Workflow API
// @version         1.0
// @description     Multi-role approval workflows for purchase requisitions and stock transfers.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load("configs/.env"); err != nil {
		log.Println("No configs/.env file found or error loading it")
	}

	zapLogger := logger.FromEnv()
	defer func() { _ = zapLogger.Sync() }()

	dbHost := envOr("DB_HOST", "localhost")
	dbPort := envOr("DB_PORT", "5432")
	dbUser := envOr("DB_USER", "postgres")
	dbPassword := envOr("DB_PASSWORD", "postgres")
	dbName := envOr("DB_NAME", "flourerp")
	dbSslMode := envOr("DB_SSLMODE", "disable")

	dsn := "postgres://" + dbUser + ":" + dbPassword + "@" + dbHost + ":" + dbPort + "/" + dbName + "?sslmode=" + dbSslMode

	db, err := database.NewConnection(dsn)
	if err != nil {
		zapLogger.Fatal("database connection failed", zap.Error(err))
	}
	zapLogger.Info("connected to PostgreSQL")

	// Set up WebSocket Hub
	wsHub := websocket.NewHub(zapLogger)
	go wsHub.Run()

	// Set up dependencies (Repository -> Service -> Handler)
	txManager := repository.NewTransactionManager(db)
	userRepo := repository.NewUserRepository(db)
	requisitionRepo := repository.NewRequisitionRepository(db)
	stockRepo := repository.NewStockRequestRepository(db)
	inventoryRepo := repository.NewInventoryRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	controlsRepo := repository.NewControlsRepository(db)

	authService := service.NewAuthService(userRepo)
	requisitionService := service.NewRequisitionService(requisitionRepo, controlsRepo, activityRepo, txManager, wsHub, zapLogger)
	paymentService := service.NewPaymentService(paymentRepo, requisitionRepo, activityRepo, txManager, wsHub, zapLogger)
	stockService := service.NewStockTransferService(stockRepo, inventoryRepo, activityRepo, txManager, wsHub, zapLogger)
	controlsService := service.NewControlsService(controlsRepo, activityRepo, txManager, zapLogger)
	activityService := service.NewActivityService(activityRepo)

	// Initialize Handlers
	authHandler := handler.NewAuthHandler(authService)
	requisitionHandler := handler.NewRequisitionHandler(requisitionService)
	financeHandler := handler.NewFinanceHandler(paymentService)
	stockHandler := handler.NewStockHandler(stockService)
	controlsHandler := handler.NewControlsHandler(controlsService)
	activityHandler := handler.NewActivityHandler(activityService)

	// Set up Gin Router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"http://localhost:5173", "http://127.0.0.1:5173", "http://localhost:3000"} // Frontend URL
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
	authHandler.RegisterRoutes(router.Group(""))
	requisitionHandler.RegisterRoutes(router.Group(""))
	financeHandler.RegisterRoutes(router.Group(""))
	stockHandler.RegisterRoutes(router.Group(""))
	controlsHandler.RegisterRoutes(router.Group(""))
	activityHandler.RegisterRoutes(router.Group(""))

	port := envOr("PORT", "8080")

	zapLogger.Info("server listening", zap.String("port", port))
	if err := router.Run(":" + port); err != nil {
		zapLogger.Fatal("server failed", zap.Error(err))
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
