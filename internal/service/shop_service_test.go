package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/localhandler/marketplace/internal/domain"
	"github.com/localhandler/marketplace/pkg/errors"
)

func TestSetAndClearWithdrawMethod(t *testing.T) {
	repos, _, shopRepo, _, _ := newFakeRepos()
	svc := NewShopService(repos, zap.NewNop())

	shop := seedShop(shopRepo, 0)

	updated, err := svc.SetWithdrawMethod(context.Background(), sellerActor(shop), UpdateWithdrawMethodRequest{
		BankName:          "HDFC",
		BankAccountNumber: "0012345678",
		BankHolderName:    "Becodemy Pvt Ltd",
	})
	if err != nil {
		t.Fatalf("SetWithdrawMethod returned error: %v", err)
	}
	if updated.WithdrawMethod == nil || updated.WithdrawMethod.BankName != "HDFC" {
		t.Fatal("withdraw method not stored")
	}

	if err := svc.ClearWithdrawMethod(context.Background(), sellerActor(shop)); err != nil {
		t.Fatalf("ClearWithdrawMethod returned error: %v", err)
	}
	if shopRepo.shops[shop.ID].WithdrawMethod != nil {
		t.Error("withdraw method not cleared")
	}
}

func TestShopOperationsSellerOnly(t *testing.T) {
	repos, _, _, _, _ := newFakeRepos()
	svc := NewShopService(repos, zap.NewNop())

	buyer := domain.Actor{ID: uuid.New(), Type: domain.ActorTypeUser}

	if _, err := svc.SetWithdrawMethod(context.Background(), buyer, UpdateWithdrawMethodRequest{
		BankName: "HDFC", BankAccountNumber: "1", BankHolderName: "x",
	}); err == nil {
		t.Error("expected unauthorized error for SetWithdrawMethod")
	} else if _, ok := err.(*errors.ErrUnauthorized); !ok {
		t.Errorf("expected *ErrUnauthorized, got %T", err)
	}

	if err := svc.ClearWithdrawMethod(context.Background(), buyer); err == nil {
		t.Error("expected unauthorized error for ClearWithdrawMethod")
	}

	if _, err := svc.Transactions(context.Background(), buyer); err == nil {
		t.Error("expected unauthorized error for Transactions")
	}
}

func TestTransactionsReturnsLedgerHistory(t *testing.T) {
	repos, _, shopRepo, _, _ := newFakeRepos()
	svc := NewShopService(repos, zap.NewNop())

	shop := seedShop(shopRepo, 0)
	shopRepo.appendTransaction(shop.ID, domain.Transaction{
		Type: domain.TransactionTypeOrderPayout, Amount: 500, ServiceCharge: 50, FinalAmount: 450,
	})
	shopRepo.appendTransaction(shop.ID, domain.Transaction{
		Type: domain.TransactionTypeWithdrawal, Amount: 200, ServiceCharge: 36, FinalAmount: 164,
	})

	history, err := svc.Transactions(context.Background(), sellerActor(shop))
	if err != nil {
		t.Fatalf("Transactions returned error: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 records, got %d", len(history))
	}
}
