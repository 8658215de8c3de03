package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/localhandler/marketplace/internal/api"
	"github.com/localhandler/marketplace/internal/config"
	"github.com/localhandler/marketplace/internal/mail"
	"github.com/localhandler/marketplace/internal/notify"
	"github.com/localhandler/marketplace/internal/payment"
	"github.com/localhandler/marketplace/internal/repository/postgres"
	"github.com/localhandler/marketplace/internal/validation"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	var logger *zap.Logger
	if cfg.Environment == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// Connect to database
	db, err := postgres.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	repos := postgres.NewRepositories(db, logger)

	// Event publisher: RabbitMQ when configured, otherwise a no-op.
	var publisher notify.Publisher = notify.NopPublisher{}
	if cfg.AMQP.URL != "" {
		amqpPublisher, err := notify.NewAMQPPublisher(cfg.AMQP, logger)
		if err != nil {
			logger.Fatal("Failed to connect to message broker", zap.Error(err))
		}
		publisher = amqpPublisher
	}
	defer publisher.Close()

	// Mailer: SMTP relay when configured, otherwise a no-op.
	var mailer mail.Mailer = mail.NopMailer{}
	if cfg.SMTP.Host != "" {
		mailer = mail.NewSMTPMailer(cfg.SMTP, logger)
	}

	gateway := payment.NewClient(cfg.Payment, logger)
	v := validation.New()

	router := api.NewRouter(cfg, repos, mailer, publisher, gateway, v, logger)

	logger.Info("Starting server",
		zap.String("port", cfg.Port),
		zap.String("environment", cfg.Environment),
	)

	if err := router.Run(":" + cfg.Port); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}
