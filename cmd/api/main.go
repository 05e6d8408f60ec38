package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/georgemunganga/vendorhub-backend/internal/config"
	"github.com/georgemunganga/vendorhub-backend/internal/database"
	"github.com/georgemunganga/vendorhub-backend/internal/events"
	"github.com/georgemunganga/vendorhub-backend/internal/logger"
	"github.com/georgemunganga/vendorhub-backend/internal/modules/auth"
	"github.com/georgemunganga/vendorhub-backend/internal/modules/catalog"
	"github.com/georgemunganga/vendorhub-backend/internal/modules/user"
	"github.com/georgemunganga/vendorhub-backend/internal/modules/variant"
	"github.com/georgemunganga/vendorhub-backend/internal/modules/vendor"
	"github.com/georgemunganga/vendorhub-backend/internal/server"
	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Fatalf("Error loading .env file: %v", err)
	}
	cfg := config.LoadEnv()

	appLogger, err := logger.New(cfg.Logger)
	if err != nil {
		log.Fatalf("Could not create logger: %v", err)
	}
	defer appLogger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ── Database ─────────────────────────────────────────────
	db, err := database.Connect(ctx, cfg.Postgres)
	if err != nil {
		appLogger.Fatal("Could not connect to database", zap.Error(err))
	}
	defer db.Close()
	appLogger.Info("Connected to PostgreSQL database", zap.String("db_name", cfg.Postgres.DBName))

	if err := database.EnsureSchema(ctx, db); err != nil {
		appLogger.Fatal("Could not prepare schema", zap.Error(err))
	}

	// ── Events ───────────────────────────────────────────────
	var dispatcher events.Dispatcher = events.NopDispatcher{}
	if cfg.Kafka.Enabled() {
		kafkaDispatcher := events.NewKafkaDispatcher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer kafkaDispatcher.Close()
		dispatcher = kafkaDispatcher
		appLogger.Info("Publishing events to Kafka", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))
	}

	// ── Identity & Business ─────────────────────────────────
	userRepo := user.NewPostgresRepository(db)
	userService := user.NewService(userRepo, bcrypt.DefaultCost)
	userHandler := user.NewHandler(userService, appLogger)

	vendorRepo := vendor.NewPostgresRepository(db)
	vendorTierRepo := vendor.NewTierPostgresRepository(db)
	vendorService := vendor.NewService(vendorRepo, vendorTierRepo)

	authService := auth.NewService(userRepo, vendorService, cfg.JWT.SecretKey, cfg.JWT.TTL)

	// ── Catalog & Variants ──────────────────────────────────
	catalogService := catalog.NewService(catalog.NewPostgresRepository(db))
	variantService := variant.NewService(
		variant.NewPostgresRepository(db),
		catalogService,
		dispatcher,
		variant.OptionsFromConfig(cfg.Variant),
		appLogger,
	)

	// ── Router ──────────────────────────────────────────────
	router := server.NewRouter(cfg.CORS, appLogger)
	userHandler.RegisterPublicRoutes(router)
	auth.NewHandler(authService, appLogger).RegisterRoutes(router)

	router.Group(func(r chi.Router) {
		r.Use(auth.Middleware(authService))
		userHandler.RegisterRoutes(r)
		vendor.NewHandler(vendorService, appLogger).RegisterRoutes(r)
		catalog.NewHandler(catalogService, appLogger).RegisterRoutes(r)
		variant.NewHandler(variantService, appLogger).RegisterRoutes(r)
	})

	// ── Start Server ─────────────────────────────────────────
	srv := server.New(cfg.Server, router, appLogger)
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		if err != nil {
			appLogger.Fatal("HTTP server failed", zap.Error(err))
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Stop(shutdownCtx); err != nil {
			appLogger.Error("Graceful shutdown failed", zap.Error(err))
		}
	}
	appLogger.Info("Server stopped")
}
