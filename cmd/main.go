package main

import (
	"context"
	"log"
	"time"

	"campus-market-backend/configs"
	"campus-market-backend/internal/handlers"
	"campus-market-backend/internal/middleware"
	"campus-market-backend/internal/models"
	"campus-market-backend/internal/repositories"
	"campus-market-backend/internal/services"
	"campus-market-backend/pkg/auth"
	"campus-market-backend/pkg/cache"
	"campus-market-backend/pkg/database"
	"campus-market-backend/pkg/messaging"
	"campus-market-backend/pkg/totals"
	"campus-market-backend/pkg/whatsapp"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	config := configs.LoadConfig()

	// Set Gin mode
	gin.SetMode(config.Server.Mode)

	// Initialize database connections
	db, err := database.NewDatabase(config.Database.PostgresURL, config.Database.MongoURL, config.Database.MongoDBName)
	if err != nil {
		log.Fatal("Failed to connect to databases:", err)
	}
	defer db.Close()

	// Auto-migrate PostgreSQL tables
	if err := autoMigratePostgres(db); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Initialize Redis (cart persistence + catalog cache)
	redisCache := cache.NewRedisCache(config.Redis.URL, config.Redis.Password, config.Redis.DB)
	if redisCache == nil {
		log.Fatal("Failed to connect to Redis")
	}
	defer redisCache.Close()

	// Initialize Kafka
	kafkaProducer := messaging.NewKafkaProducer(config.Kafka.Brokers)
	defer kafkaProducer.Close()

	// Initialize JWT manager (access: configured hours, refresh: 30 days)
	jwtManager := auth.NewJWTManager(config.JWT.SecretKey, config.JWT.ExpiryHours, 30)

	// Totals calculator: accelerated backend when it initializes in time,
	// default arithmetic otherwise.
	calcCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	calculator := totals.NewCalculator(calcCtx)
	cancel()

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db.Postgres)
	orderRepo := repositories.NewOrderRepository(db.Postgres)
	productRepo := repositories.NewProductRepository(db.MongoDB)
	cartStore := repositories.NewCartStore(redisCache)

	// Initialize services
	authService := services.NewAuthService(userRepo, jwtManager)
	productService := services.NewProductService(productRepo, redisCache)
	cartService := services.NewCartService(cartStore, productRepo, calculator,
		config.Cart.EnforceStockLimits, config.Cart.GuestKey)
	checkoutService := services.NewCheckoutService(cartService, productRepo, orderRepo,
		kafkaProducer, whatsapp.NewLinkBuilder(config.Checkout.WhatsAppPhone),
		config.Checkout.MerchantPhone, config.Checkout.MerchantRIF)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtManager)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	productHandler := handlers.NewProductHandler(productService)
	cartHandler := handlers.NewCartHandler(cartService, checkoutService)

	// Initialize Gin router
	router := gin.New()
	router.Use(middleware.CORSMiddleware())
	router.Use(gin.Logger())
	router.Use(middleware.RecoveryMiddleware())

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "campus-market-backend",
		})
	})

	// API routes
	api := router.Group("/api/v1")

	authHandler.RegisterRoutes(api)
	productHandler.RegisterRoutes(api, authMiddleware)
	cartHandler.RegisterRoutes(api, authMiddleware)

	log.Printf("Server starting on port %s", config.Server.Port)
	log.Fatal(router.Run(":" + config.Server.Port))
}

func autoMigratePostgres(db *database.Database) error {
	return db.Postgres.AutoMigrate(
		&models.User{},
		&models.Order{},
		&models.OrderItem{},
	)
}
