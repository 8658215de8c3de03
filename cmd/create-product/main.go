package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/google/uuid"

	"github.com/localhandler/marketplace/internal/config"
	"github.com/localhandler/marketplace/internal/domain"
	"github.com/localhandler/marketplace/internal/repository/postgres"
	"go.uber.org/zap"
)

func main() {
	if len(os.Args) < 5 {
		fmt.Println("Usage: go run cmd/create-product/main.go <shop-id> <name> <price> <stock>")
		fmt.Println("Example: go run cmd/create-product/main.go \"6f1c6d1e-8f4a-4b2e-9c3d-2a1b0c9d8e7f\" \"MERN Stack Course\" 499.00 50")
		os.Exit(1)
	}

	shopID, err := uuid.Parse(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid shop ID: %v\n", err)
		os.Exit(1)
	}
	name := os.Args[2]
	price, err := strconv.ParseFloat(os.Args[3], 64)
	if err != nil || price < 0 {
		fmt.Fprintf(os.Stderr, "Invalid price: %s\n", os.Args[3])
		os.Exit(1)
	}
	stock, err := strconv.Atoi(os.Args[4])
	if err != nil || stock < 0 {
		fmt.Fprintf(os.Stderr, "Invalid stock: %s\n", os.Args[4])
		os.Exit(1)
	}

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

	repos := postgres.NewRepositories(db, logger)
	ctx := context.Background()

	// The shop must exist before inventory can hang off it.
	shop, err := repos.Shop.GetByID(ctx, shopID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load shop: %v\n", err)
		os.Exit(1)
	}

	product := &domain.Product{
		ShopID: shop.ID,
		Name:   name,
		Price:  price,
		Stock:  stock,
	}

	if err := repos.Product.Create(ctx, product); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create product: %v\n", err)
		os.Exit(1)
	}

	// Read back so the printed record reflects what was stored.
	created, err := repos.Product.GetByID(ctx, product.ID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load created product: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✅ Product created successfully!\n\n")
	fmt.Printf("Product ID: %s\n", created.ID.String())
	fmt.Printf("Shop: %s (%s)\n", shop.Name, shop.ID.String())
	fmt.Printf("Name: %s\n", created.Name)
	fmt.Printf("Price: %.2f\n", created.Price)
	fmt.Printf("Stock: %d\n", created.Stock)
}
