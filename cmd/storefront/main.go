package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urbanthreads/storefront-service/internal/clients"
	"github.com/urbanthreads/storefront-service/internal/config"
	"github.com/urbanthreads/storefront-service/internal/events"
	"github.com/urbanthreads/storefront-service/internal/handlers"
	"github.com/urbanthreads/storefront-service/internal/logging"
	"github.com/urbanthreads/storefront-service/internal/repository"
	"github.com/urbanthreads/storefront-service/internal/server"
	"github.com/urbanthreads/storefront-service/internal/service"

	_ "github.com/lib/pq"
)

func main() {
	cfg := config.Load()

	logger := logging.New("storefront-service")

	db, err := initDatabase(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", logging.Fields{"error": err.Error()})
	}
	defer db.Close()

	orderRepo := repository.NewPostgresOrderRepository(db, logger)
	productRepo := repository.NewPostgresProductRepository(db, logger)
	reviewRepo := repository.NewPostgresReviewRepository(db, logger)
	orderCache := repository.NewRedisOrderCache(cfg.Redis, logger)
	cartStore := repository.NewRedisCartStore(cfg.Redis, logger)

	paypalClient := clients.NewPayPalClient(cfg.PayPal, logger)
	notificationClient := clients.NewHTTPNotificationClient(cfg.Notification, logger)

	var eventPublisher service.EventPublisher
	var kafkaPublisher *events.KafkaPublisher
	if cfg.Features.EnableOrderEvents {
		kafkaPublisher = events.NewKafkaPublisher(cfg.Kafka, logger)
		defer kafkaPublisher.Close()
		eventPublisher = kafkaPublisher
	} else {
		eventPublisher = events.NoopPublisher{}
	}

	orderService := service.NewOrderService(orderRepo, productRepo, orderCache, eventPublisher, cfg)
	paymentService := service.NewPaymentService(orderRepo, orderCache, paypalClient, eventPublisher, cfg)
	productService := service.NewProductService(productRepo)
	reviewService := service.NewReviewService(reviewRepo, productRepo)
	cartService := service.NewCartService(cartStore, productRepo)

	h := handlers.NewHandlers(orderService, paymentService, productService, reviewService, cartService, cfg)

	srv := server.New(h, cfg)

	go func() {
		logger.Info("Server starting", logging.Fields{
			"port":          cfg.Server.Port,
			"order_caching": cfg.Features.EnableOrderCaching,
			"order_events":  cfg.Features.EnableOrderEvents,
		})
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", logging.Fields{"error": err.Error()})
		}
	}()

	var eventConsumer *events.KafkaConsumer
	if cfg.Features.EnableOrderEvents {
		eventConsumer = events.NewKafkaConsumer(cfg.Kafka, notificationClient, logger)
		go func() {
			if err := eventConsumer.Start(context.Background()); err != nil {
				logger.Error("Event consumer failed", logging.Fields{"error": err.Error()})
			}
		}()
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if eventConsumer != nil {
		eventConsumer.Stop()
	}

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", logging.Fields{"error": err.Error()})
	}

	logger.Info("Server exited")
}

func initDatabase(cfg *config.Config, logger *logging.Logger) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.Database.ConnectionString())
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.MaxLifetime)

	if err := db.Ping(); err != nil {
		return nil, err
	}

	logger.Info("Database connected", logging.Fields{
		"host": cfg.Database.Host,
		"name": cfg.Database.Name,
	})

	return db, nil
}
