package main

import (
	"context"
	"fmt"
	"math"
	"os"

	"github.com/google/uuid"

	"github.com/localhandler/marketplace/internal/config"
	"github.com/localhandler/marketplace/internal/domain"
	"github.com/localhandler/marketplace/internal/repository/postgres"
	"go.uber.org/zap"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: go run cmd/ledger-audit/main.go <shop-id>")
		fmt.Println("Example: go run cmd/ledger-audit/main.go \"6f1c6d1e-8f4a-4b2e-9c3d-2a1b0c9d8e7f\"")
		os.Exit(1)
	}

	shopID, err := uuid.Parse(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid shop ID: %v\n", err)
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

	shop, err := repos.Shop.GetByID(ctx, shopID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load shop: %v\n", err)
		os.Exit(1)
	}

	transactions, err := repos.Shop.ListTransactions(ctx, shopID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load transactions: %v\n", err)
		os.Exit(1)
	}

	withdraws, err := repos.Withdraw.ListBySeller(ctx, shopID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load withdraw requests: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("🔍 Auditing ledger for shop %q (%s)\n\n", shop.Name, shop.ID)

	// Replay the history. Delivery payouts credit the net amount,
	// succeeded withdrawals debited the gross when they were requested,
	// rejected withdrawals net to zero (reserve then release).
	var expected float64
	for _, tx := range transactions {
		switch tx.Type {
		case domain.TransactionTypeOrderPayout:
			expected += tx.FinalAmount
		case domain.TransactionTypeWithdrawal:
			expected -= tx.Amount
		case domain.TransactionTypeWithdrawReject:
			// reservation was released, no net movement
		default:
			fmt.Printf("⚠️  Unknown transaction type %q (id %s), skipping\n", tx.Type, tx.ID)
		}
	}

	// Requests still in flight hold their gross reserved.
	var reserved float64
	for _, w := range withdraws {
		if w.Status == domain.WithdrawStatusProcessing {
			reserved += w.GrossAmount()
		}
	}
	expected -= reserved

	fmt.Printf("Transactions replayed: %d\n", len(transactions))
	fmt.Printf("Reserved by in-flight withdrawals: %.2f\n", reserved)
	fmt.Printf("Expected balance: %.2f\n", expected)
	fmt.Printf("Recorded balance: %.2f\n", shop.AvailableBalance)

	if math.Abs(expected-shop.AvailableBalance) < 0.005 {
		fmt.Printf("\n✅ Ledger is consistent.\n")
		return
	}

	fmt.Printf("\n❌ Ledger drift: %.2f\n", shop.AvailableBalance-expected)
	os.Exit(1)
}
