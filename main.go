package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/spf13/viper"
	"github.com/streadway/amqp"
	"gorm.io/gorm"

	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/handlers"
	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/internal/services"
	"storefront/pkg/rabbitmq"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load(viper.New())
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// --- Database ---
	db, err := database.Open(cfg.DBDriver, cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// --- RabbitMQ (optional) ---
	var events services.EventPublisher
	if cfg.RabbitMQURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL, Queue: cfg.OrderEventsQueue})
		if err != nil {
			log.Fatalf("Failed to initialize RabbitMQ client: %v", err)
		}
		defer mqClient.Close()
		events = mqClient

		if cfg.AuditOrderEvents {
			if err := mqClient.ConsumeOrderEvents(auditOrderEvent); err != nil {
				log.Printf("Failed to start RabbitMQ consumer: %v", err)
			}
		}
	} else {
		log.Println("RABBITMQ_URL not set, order events are disabled")
	}

	app := handlers.NewApp(buildServices(db, cfg.JWTSecret, events), logger.New())

	// --- Start HTTP Server ---
	log.Printf("Starting server on port %s", cfg.AppPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(cfg.AppPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}
	log.Println("Server gracefully stopped")
}

// buildServices wires repositories into services. events may be nil.
func buildServices(db *gorm.DB, jwtSecret string, events services.EventPublisher) handlers.Services {
	productRepo := repositories.NewGORMProductRepository(db)
	reviewRepo := repositories.NewGORMReviewRepository(db)
	orderRepo := repositories.NewGORMOrderRepository(db)
	collectionRepo := repositories.NewGORMCollectionRepository(db)
	userRepo := repositories.NewGORMUserRepository(db)

	return handlers.Services{
		Auth:        services.NewAuthService(userRepo, jwtSecret),
		Products:    services.NewProductService(productRepo),
		Reviews:     services.NewReviewService(reviewRepo, productRepo),
		Orders:      services.NewOrderService(orderRepo, productRepo, events),
		Collections: services.NewCollectionService(collectionRepo, productRepo),
		Health: func() error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Ping()
		},
	}
}

// auditOrderEvent writes every order event from the queue to the log.
// Undecodable messages are rejected.
func auditOrderEvent(msg amqp.Delivery) error {
	var event models.OrderEvent
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		return fmt.Errorf("failed to decode order event %s: %w", msg.MessageId, err)
	}
	if event.Type != msg.Type {
		return fmt.Errorf("order event %s: body type %q does not match message type %q", msg.MessageId, event.Type, msg.Type)
	}
	log.Printf("Order event %s: order %d user %d status %s total %s (%d positions)",
		event.Type, event.OrderID, event.UserID, event.Status, event.TotalAmount.StringFixed(2), len(event.Positions))
	return nil
}
