package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	caisseapp "github.com/epicoop/backend/internal/application/caisse"
	catalogapp "github.com/epicoop/backend/internal/application/catalog"
	identityapp "github.com/epicoop/backend/internal/application/identity"
	orderingapp "github.com/epicoop/backend/internal/application/ordering"
	partnerapp "github.com/epicoop/backend/internal/application/partner"
	domaincaisse "github.com/epicoop/backend/internal/domain/caisse"
	"github.com/epicoop/backend/internal/infrastructure/auth"
	"github.com/epicoop/backend/internal/infrastructure/cache"
	"github.com/epicoop/backend/internal/infrastructure/config"
	"github.com/epicoop/backend/internal/infrastructure/logger"
	"github.com/epicoop/backend/internal/infrastructure/mailer"
	"github.com/epicoop/backend/internal/infrastructure/persistence"
	"github.com/epicoop/backend/internal/infrastructure/telemetry"
	"github.com/epicoop/backend/internal/interfaces/http/handler"
	"github.com/epicoop/backend/internal/interfaces/http/middleware"
	"github.com/epicoop/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting Epicoop backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Tracing
	tracer, err := telemetry.NewTracerProvider(context.Background(), cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracer.Shutdown(ctx); err != nil {
			log.Error("Error shutting down tracer", zap.Error(err))
		}
	}()

	// Database
	gormLevel := gormlogger.Warn
	if cfg.Log.Level == "debug" {
		gormLevel = gormlogger.Info
	}
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLevel)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if tracer.IsEnabled() && cfg.Telemetry.DBTraceEnabled {
		if err := db.EnableTracing(cfg.Database.DBName); err != nil {
			log.Warn("Failed to enable database tracing", zap.Error(err))
		}
	}
	log.Info("Database connected")

	// Caisse stores. Redis keeps carts and parked tickets across
	// restarts; without a Redis host the caisse falls back to process
	// memory, which is only acceptable for development.
	var (
		redisClient    *redis.Client
		cartStore      domaincaisse.CartStore
		draftStore     domaincaisse.DraftStore
		tokenBlacklist auth.TokenBlacklist
	)
	if cfg.Redis.Host != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		cartStore = cache.NewRedisCartStore(redisClient, cfg.Caisse.CartTTL)
		draftStore = cache.NewRedisDraftStore(redisClient, cfg.Caisse.DraftTTL)
		tokenBlacklist = auth.NewRedisTokenBlacklist(redisClient)
		log.Info("Redis connected", zap.String("host", cfg.Redis.Host))
	} else {
		cartStore = cache.NewInMemoryCartStore()
		draftStore = cache.NewInMemoryDraftStore()
		tokenBlacklist = auth.NewInMemoryTokenBlacklist()
		log.Warn("Redis not configured, caisse carts are held in memory")
	}

	// Repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	roleRepo := persistence.NewGormRoleRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	supplierRepo := persistence.NewGormSupplierRepository(db.DB)
	catalogueRepo := persistence.NewGormCatalogueRepository(db.DB)
	basketRepo := persistence.NewGormBasketRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	saleRepo := persistence.NewGormSaleRepository(db.DB)

	// Services
	jwtService := auth.NewJWTService(cfg.JWT)
	receiptMailer := mailer.NewSMTPMailer(cfg.SMTP, log)

	authService := identityapp.NewAuthService(userRepo, roleRepo, jwtService, tokenBlacklist, log)
	userService := identityapp.NewUserService(userRepo, roleRepo, log)
	roleService := identityapp.NewRoleService(roleRepo, userRepo, log)
	categoryService := catalogapp.NewCategoryService(categoryRepo, productRepo)
	productService := catalogapp.NewProductService(productRepo, categoryRepo)
	catalogueService := catalogapp.NewCatalogueService(catalogueRepo, productRepo)
	supplierService := partnerapp.NewSupplierService(supplierRepo, productRepo, log)
	basketService := orderingapp.NewBasketService(basketRepo, catalogueRepo, productRepo, log)
	orderService := orderingapp.NewOrderService(orderRepo, basketRepo, catalogueRepo, productRepo, log)
	cartService := caisseapp.NewCartService(cartStore, productRepo)
	draftService := caisseapp.NewDraftService(draftStore, cartStore)
	checkoutService := caisseapp.NewCheckoutService(saleRepo, cartStore, draftStore, receiptMailer, log)

	// HTTP
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())
	if tracer.IsEnabled() {
		engine.Use(otelgin.Middleware(cfg.Telemetry.ServiceName))
	}

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	jwtAuth := middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
		JWTService: jwtService,
		SkipPaths: []string{
			"/api/v1/auth/login",
			"/api/v1/auth/refresh",
			"/api/v1/system/info",
		},
		TokenBlacklist: tokenBlacklist,
		Logger:         log,
	})

	router.Setup(engine, router.Handlers{
		System:    handler.NewSystemHandler(db.DB, redisClient),
		Auth:      handler.NewAuthHandler(authService),
		User:      handler.NewUserHandler(userService),
		Role:      handler.NewRoleHandler(roleService),
		Category:  handler.NewCategoryHandler(categoryService),
		Product:   handler.NewProductHandler(productService),
		Supplier:  handler.NewSupplierHandler(supplierService),
		Catalogue: handler.NewCatalogueHandler(catalogueService),
		Basket:    handler.NewBasketHandler(basketService),
		Order:     handler.NewOrderHandler(orderService),
		Caisse:    handler.NewCaisseHandler(cartService, draftService, checkoutService),
	}, jwtAuth)

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Error("Error closing Redis client", zap.Error(err))
		}
	}

	log.Info("Server exited gracefully")
}
