package main

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/crypto/bcrypt"

	"github.com/localhandler/marketplace/internal/config"
	"github.com/localhandler/marketplace/internal/domain"
	"github.com/localhandler/marketplace/internal/repository/postgres"
	"go.uber.org/zap"
)

func main() {
	if len(os.Args) < 4 {
		fmt.Println("Usage: go run cmd/create-shop/main.go <shop-name> <email> <password>")
		fmt.Println("Example: go run cmd/create-shop/main.go \"Becodemy\" \"shop@example.com\" \"s3cret\"")
		os.Exit(1)
	}

	shopName := os.Args[1]
	email := os.Args[2]
	password := os.Args[3]

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	// Connect to database
	db, err := postgres.NewConnection(cfg.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	// Hash the password
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), 10)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to hash password: %v\n", err)
		os.Exit(1)
	}

	// Create repositories
	repos := postgres.NewRepositories(db, logger)

	// Create shop
	shop := &domain.Shop{
		Name:         shopName,
		Email:        email,
		PasswordHash: string(passwordHash),
		IsActive:     true,
	}

	err = repos.Shop.Create(context.Background(), shop)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create shop: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✅ Shop created successfully!\n\n")
	fmt.Printf("Shop ID: %s\n", shop.ID.String())
	fmt.Printf("Shop Name: %s\n", shop.Name)
	fmt.Printf("Email: %s\n", shop.Email)
}
