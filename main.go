package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/streadway/amqp"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"storefront/internal/config"
	"storefront/internal/handlers"
	"storefront/internal/middleware"
	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/internal/services"
	"storefront/pkg/logger"
	"storefront/pkg/metrics"
	"storefront/pkg/rabbitmq"
	"storefront/pkg/realtime"
)

const serviceName = "storefront-backend"

func main() {
	cfg := config.Load()

	if err := logger.Init(logger.Config{
		Level:       cfg.LogLevel,
		Environment: cfg.Environment,
		ServiceName: serviceName,
	}); err != nil {
		panic(err)
	}
	log := logger.L()
	defer log.Sync()

	db, err := openDatabase(cfg)
	if err != nil {
		log.Fatal("failed to open database", zap.Error(err))
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Category{},
		&models.CartLine{},
		&models.WishlistEntry{},
		&models.Order{},
		&models.OrderItem{},
	); err != nil {
		log.Fatal("failed to migrate database", zap.Error(err))
	}

	// The broker is optional: order events still flow over websockets when
	// RabbitMQ is absent.
	var mqClient *rabbitmq.Client
	if cfg.RabbitMQURL != "" {
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
		if err != nil {
			log.Warn("rabbitmq unavailable, continuing without broker", zap.Error(err))
			mqClient = nil
		} else {
			defer mqClient.Close()
		}
	}

	hub := realtime.NewHub(log)
	emitter := realtime.NewEmitter(hub)

	userRepo := repositories.NewGORMUserRepository(db)
	productRepo := repositories.NewGORMProductRepository(db)
	categoryRepo := repositories.NewGORMCategoryRepository(db)
	cartRepo := repositories.NewGORMCartRepository(db)
	wishlistRepo := repositories.NewGORMWishlistRepository(db)
	orderRepo := repositories.NewGORMOrderRepository(db)

	tokenService := services.NewTokenService(cfg.JWTSecret, cfg.JWTRefreshSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	authService := services.NewAuthService(userRepo, tokenService)
	productService := services.NewProductService(productRepo, categoryRepo, emitter)
	cartService := services.NewCartService(cartRepo, productRepo, emitter, log)
	wishlistService := services.NewWishlistService(wishlistRepo, productRepo, emitter)

	var orderEvents services.EventPublisher
	if mqClient != nil {
		orderEvents = mqClient
	}
	orderService := services.NewOrderService(orderRepo, cartRepo, productRepo, emitter, orderEvents, log)

	authRequired := middleware.AuthRequired(tokenService, userRepo)
	optionalAuth := middleware.OptionalAuth(tokenService, userRepo)

	development := cfg.Environment == "development"
	app := fiber.New(fiber.Config{
		AppName:      serviceName,
		ErrorHandler: handlers.NewErrorHandler(log, development),
	})
	app.Use(recover.New())
	app.Use(fiberlogger.New())

	httpMetrics := metrics.NewHTTPMetrics(serviceName)
	app.Use(httpMetrics.Middleware())

	api := app.Group("/api")
	handlers.NewAuthHandler(authService, authRequired).RegisterRoutes(api)
	handlers.NewProductHandler(productService, wishlistService, authRequired, optionalAuth).RegisterRoutes(api)
	handlers.NewCartHandler(cartService, authRequired).RegisterRoutes(api)
	handlers.NewWishlistHandler(wishlistService, authRequired).RegisterRoutes(api)
	handlers.NewOrderHandler(orderService, authRequired).RegisterRoutes(api)
	handlers.NewNotificationHandler(emitter, authRequired).RegisterRoutes(api)
	handlers.NewRealtimeHandler(hub, tokenService, userRepo).RegisterRoutes(app)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})
	app.Get("/metrics", metrics.Handler())

	if mqClient != nil {
		go func() {
			err := mqClient.ConsumeOrderEvents(func(msg amqp.Delivery) error {
				log.Info("order event received",
					zap.String("type", msg.Type),
					zap.ByteString("body", msg.Body))
				return nil
			})
			if err != nil {
				log.Warn("order event consumer stopped", zap.Error(err))
			}
		}()
	}

	go func() {
		log.Info("starting server", zap.String("port", cfg.AppPort))
		if err := app.Listen(cfg.AppPort); err != nil {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	if err := app.Shutdown(); err != nil {
		log.Error("shutdown failed", zap.Error(err))
	}
}

// openDatabase connects to postgres when DATABASE_URL is set and falls back
// to a local sqlite file for development.
func openDatabase(cfg config.Config) (*gorm.DB, error) {
	gormCfg := &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)}
	if cfg.DatabaseURL != "" {
		return gorm.Open(postgres.Open(cfg.DatabaseURL), gormCfg)
	}
	return gorm.Open(sqlite.Open("storefront.db"), gormCfg)
}
