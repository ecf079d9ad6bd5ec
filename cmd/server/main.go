package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/babyconnect/service-booking/internal/application"
	"github.com/babyconnect/service-booking/internal/config"
	bookingEvents "github.com/babyconnect/service-booking/internal/events"
	"github.com/babyconnect/service-booking/internal/geocode"
	"github.com/babyconnect/service-booking/internal/handler"
	"github.com/babyconnect/service-booking/internal/repository"
	"github.com/babyconnect/service-booking/internal/shared/auth"
	"github.com/babyconnect/service-booking/internal/shared/database"
	"github.com/babyconnect/service-booking/internal/shared/health"
	"github.com/babyconnect/service-booking/internal/shared/kafka"
	"github.com/babyconnect/service-booking/internal/shared/logger"
	"github.com/babyconnect/service-booking/internal/shared/middleware"
	"github.com/babyconnect/service-booking/internal/watch"
)

func main() {
	// Load .env in local development; ignored when absent.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewNamed(cfg.AppEnv, "service-booking")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting service-booking",
		zap.String("port", cfg.Port),
	)

	// Connect to database
	db, err := database.Connect(cfg.DBConfig, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	// Run database migrations
	if cfg.AppEnv == "development" {
		if err := db.AutoMigrate(
			&repository.BookingModel{},
			&repository.SitterModel{},
			&repository.MessageModel{},
		); err != nil {
			log.Fatal("failed to run auto-migration", zap.Error(err))
		}
		log.Info("database migration completed (dev auto-migrate)")
	} else {
		dbURL := cfg.DBConfig.DatabaseURL()
		if err := database.RunMigrations(dbURL, "migrations", log); err != nil {
			log.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	// Initialize JWT manager
	jwtManager := auth.NewJWTManager(
		cfg.JWTConfig.Secret,
		cfg.JWTConfig.AccessTTL,
		cfg.JWTConfig.RefreshTTL,
	)

	// Initialize Kafka producer
	kafkaProducer := kafka.NewProducer(cfg.KafkaConfig.Brokers, log)
	defer func() { _ = kafkaProducer.Close() }()

	// Initialize repositories
	bookingRepo := repository.NewGormBookingRepository(db)
	sitterRepo := repository.NewGormSitterRepository(db)
	messageRepo := repository.NewGormMessageRepository(db)

	// Initialize coordinate resolver for travel surcharges
	resolver := geocode.NewHTTPResolver(cfg.GeocodeConfig.BaseURL, cfg.GeocodeConfig.Timeout, log)

	// Initialize application services
	bookingService := application.NewBookingService(
		bookingRepo,
		sitterRepo,
		resolver,
		kafkaProducer,
		log,
	)
	sitterService := application.NewSitterService(sitterRepo, log)
	messageService := application.NewMessageService(messageRepo, log)

	// Initialize and start payment event consumer in a goroutine
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	groupID := cfg.KafkaConfig.GroupPrefix + "booking-service"
	paymentConsumer := bookingEvents.NewPaymentEventConsumer(
		cfg.KafkaConfig.Brokers,
		groupID,
		bookingService,
		log,
	)
	defer func() { _ = paymentConsumer.Close() }()

	go func() {
		log.Info("starting payment event consumer")
		if err := paymentConsumer.Start(ctx); err != nil && err != context.Canceled {
			log.Error("payment event consumer error", zap.Error(err))
		}
	}()

	// Session watcher: follows a checked-in booking and closes it when its
	// window elapses. A watcher lost to a restart is not resurrected; the
	// sitter can still complete explicitly.
	sessionWatcher := watch.NewSessionWatcher(bookingRepo, watch.CompleterFunc(
		func(ctx context.Context, bookingID uuid.UUID) error {
			_, err := bookingService.AutoComplete(ctx, bookingID)
			return err
		},
	), log)

	// Initialize HTTP handlers
	bookingHandler := handler.NewBookingHandler(bookingService, func(bookingID uuid.UUID) {
		go func() {
			if err := sessionWatcher.Watch(ctx, bookingID, nil); err != nil && err != context.Canceled {
				log.Warn("session watcher stopped",
					zap.String("booking_id", bookingID.String()),
					zap.Error(err))
			}
		}()
	})
	sitterHandler := handler.NewSitterHandler(sitterService)
	messageHandler := handler.NewMessageHandler(messageService)

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	// Apply global middleware
	router.Use(middleware.RecoveryMiddleware(log))
	router.Use(middleware.LoggerMiddleware(log))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())

	// Register health check routes
	healthHandler := health.NewHandler(db, "service-booking")
	healthHandler.RegisterRoutes(router)

	// Register routes
	bookingHandler.RegisterRoutes(&router.RouterGroup, jwtManager)
	sitterHandler.RegisterRoutes(&router.RouterGroup, jwtManager)
	messageHandler.RegisterRoutes(&router.RouterGroup, jwtManager)

	// Register admin handler routes
	adminBookingHandler := handler.NewAdminBookingHandler(bookingService)
	adminBookingHandler.RegisterRoutes(&router.RouterGroup, jwtManager)

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("HTTP server starting", zap.String("addr", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down service-booking...")

	// Cancel the consumer context
	cancel()

	// Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server forced shutdown", zap.Error(err))
	}

	log.Info("service-booking stopped")
}
