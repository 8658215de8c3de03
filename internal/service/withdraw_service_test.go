package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/localhandler/marketplace/internal/domain"
	"github.com/localhandler/marketplace/internal/mail"
	"github.com/localhandler/marketplace/internal/notify"
	"github.com/localhandler/marketplace/pkg/errors"
)

func adminActor() domain.Actor {
	return domain.Actor{ID: uuid.New(), Type: domain.ActorTypeAdmin, Name: "Admin"}
}

func TestWithdrawRequestReservesGross(t *testing.T) {
	repos, _, shopRepo, _, _ := newFakeRepos()
	mailer := &recordingMailer{}
	svc := NewWithdrawService(repos, mailer, notify.NopPublisher{}, zap.NewNop())

	shop := seedShop(shopRepo, 1500)
	shop.WithdrawMethod = &domain.WithdrawMethod{
		BankName:          "HDFC",
		BankAccountNumber: "0012345678",
		BankHolderName:    "Becodemy Pvt Ltd",
	}

	withdraw, err := svc.Request(context.Background(), sellerActor(shop), 1000)
	if err != nil {
		t.Fatalf("Request returned error: %v", err)
	}

	// 18% service tax: stored request holds the 820 net with the 180
	// charge recorded separately; the full 1000 is reserved.
	if withdraw.Amount != 820 {
		t.Errorf("expected net amount 820, got %.2f", withdraw.Amount)
	}
	if withdraw.ServiceCharge != 180 {
		t.Errorf("expected service charge 180, got %.2f", withdraw.ServiceCharge)
	}
	if withdraw.GrossAmount() != 1000 {
		t.Errorf("expected gross 1000, got %.2f", withdraw.GrossAmount())
	}
	if withdraw.Status != domain.WithdrawStatusProcessing {
		t.Errorf("expected Processing, got %q", withdraw.Status)
	}
	if withdraw.Destination == nil || withdraw.Destination.BankName != "HDFC" {
		t.Error("withdraw method snapshot missing")
	}

	if got := shopRepo.shops[shop.ID].AvailableBalance; got != 500 {
		t.Errorf("expected balance 500 after reservation, got %.2f", got)
	}
	if len(mailer.sent) != 1 {
		t.Errorf("expected 1 confirmation mail, got %d", len(mailer.sent))
	}
}

func TestWithdrawRequestInsufficientBalance(t *testing.T) {
	repos, _, shopRepo, withdrawRepo, _ := newFakeRepos()
	svc := NewWithdrawService(repos, mail.NopMailer{}, notify.NopPublisher{}, zap.NewNop())

	shop := seedShop(shopRepo, 300)

	_, err := svc.Request(context.Background(), sellerActor(shop), 1000)
	if err == nil {
		t.Fatal("expected insufficient balance error, got nil")
	}
	balErr, ok := err.(*errors.ErrInsufficientBalance)
	if !ok {
		t.Fatalf("expected *ErrInsufficientBalance, got %T", err)
	}
	if balErr.Available != 300 {
		t.Errorf("expected available 300 in error, got %.2f", balErr.Available)
	}

	// Nothing reserved, nothing stored.
	if got := shopRepo.shops[shop.ID].AvailableBalance; got != 300 {
		t.Errorf("balance moved on rejected request: %.2f", got)
	}
	if len(withdrawRepo.withdraws) != 0 {
		t.Errorf("expected no stored request, got %d", len(withdrawRepo.withdraws))
	}
}

func TestWithdrawRequestValidation(t *testing.T) {
	repos, _, shopRepo, _, _ := newFakeRepos()
	svc := NewWithdrawService(repos, mail.NopMailer{}, notify.NopPublisher{}, zap.NewNop())

	shop := seedShop(shopRepo, 1000)

	for _, amount := range []float64{0, -50} {
		if _, err := svc.Request(context.Background(), sellerActor(shop), amount); err == nil {
			t.Errorf("amount %.2f: expected validation error", amount)
		} else if _, ok := err.(*errors.ErrValidation); !ok {
			t.Errorf("amount %.2f: expected *ErrValidation, got %T", amount, err)
		}
	}

	buyer := domain.Actor{ID: uuid.New(), Type: domain.ActorTypeUser}
	if _, err := svc.Request(context.Background(), buyer, 100); err == nil {
		t.Error("expected unauthorized error for non-seller")
	} else if _, ok := err.(*errors.ErrUnauthorized); !ok {
		t.Errorf("expected *ErrUnauthorized, got %T", err)
	}
}

func TestResolveSucceededKeepsReservation(t *testing.T) {
	repos, _, shopRepo, _, _ := newFakeRepos()
	svc := NewWithdrawService(repos, mail.NopMailer{}, notify.NopPublisher{}, zap.NewNop())

	shop := seedShop(shopRepo, 1500)
	withdraw, err := svc.Request(context.Background(), sellerActor(shop), 1000)
	if err != nil {
		t.Fatalf("Request returned error: %v", err)
	}

	resolved, err := svc.Resolve(context.Background(), adminActor(), withdraw.ID, ResolveWithdrawRequest{
		SellerID: shop.ID.String(),
	})
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}

	// Status defaults to Succeeded when omitted.
	if resolved.Status != domain.WithdrawStatusSucceeded {
		t.Errorf("expected Succeeded, got %q", resolved.Status)
	}

	// No second debit: the gross was already reserved at request time.
	if got := shopRepo.shops[shop.ID].AvailableBalance; got != 500 {
		t.Errorf("expected balance 500, got %.2f", got)
	}

	history := shopRepo.transactions[shop.ID]
	if len(history) != 1 {
		t.Fatalf("expected 1 ledger record, got %d", len(history))
	}
	record := history[0]
	if record.Type != domain.TransactionTypeWithdrawal {
		t.Errorf("expected WITHDRAWAL, got %q", record.Type)
	}
	if record.Amount != 1000 || record.ServiceCharge != 180 || record.FinalAmount != 820 {
		t.Errorf("unexpected record amounts: %.2f / %.2f / %.2f",
			record.Amount, record.ServiceCharge, record.FinalAmount)
	}
}

func TestResolveRejectedReleasesReservation(t *testing.T) {
	repos, _, shopRepo, _, _ := newFakeRepos()
	svc := NewWithdrawService(repos, mail.NopMailer{}, notify.NopPublisher{}, zap.NewNop())

	shop := seedShop(shopRepo, 1500)
	withdraw, err := svc.Request(context.Background(), sellerActor(shop), 1000)
	if err != nil {
		t.Fatalf("Request returned error: %v", err)
	}

	resolved, err := svc.Resolve(context.Background(), adminActor(), withdraw.ID, ResolveWithdrawRequest{
		SellerID: shop.ID.String(),
		Status:   string(domain.WithdrawStatusRejected),
	})
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}

	if resolved.Status != domain.WithdrawStatusRejected {
		t.Errorf("expected Rejected, got %q", resolved.Status)
	}

	// Reservation returned in full.
	if got := shopRepo.shops[shop.ID].AvailableBalance; got != 1500 {
		t.Errorf("expected balance restored to 1500, got %.2f", got)
	}

	history := shopRepo.transactions[shop.ID]
	if len(history) != 1 {
		t.Fatalf("expected 1 ledger record, got %d", len(history))
	}
	if history[0].Type != domain.TransactionTypeWithdrawReject {
		t.Errorf("expected WITHDRAWAL_REJECTED, got %q", history[0].Type)
	}
}

func TestResolveTwiceRejected(t *testing.T) {
	repos, _, shopRepo, _, _ := newFakeRepos()
	svc := NewWithdrawService(repos, mail.NopMailer{}, notify.NopPublisher{}, zap.NewNop())

	shop := seedShop(shopRepo, 1500)
	withdraw, err := svc.Request(context.Background(), sellerActor(shop), 1000)
	if err != nil {
		t.Fatalf("Request returned error: %v", err)
	}

	resolve := ResolveWithdrawRequest{SellerID: shop.ID.String()}
	if _, err := svc.Resolve(context.Background(), adminActor(), withdraw.ID, resolve); err != nil {
		t.Fatalf("first Resolve failed: %v", err)
	}

	if _, err := svc.Resolve(context.Background(), adminActor(), withdraw.ID, resolve); err == nil {
		t.Fatal("expected invalid transition on second resolution")
	} else if _, ok := err.(*errors.ErrInvalidStateTransition); !ok {
		t.Fatalf("expected *ErrInvalidStateTransition, got %T", err)
	}

	// Exactly one ledger record, balance debited exactly once.
	if got := len(shopRepo.transactions[shop.ID]); got != 1 {
		t.Errorf("expected 1 ledger record, got %d", got)
	}
	if got := shopRepo.shops[shop.ID].AvailableBalance; got != 500 {
		t.Errorf("expected balance 500, got %.2f", got)
	}
}

func TestResolveGuards(t *testing.T) {
	repos, _, shopRepo, _, _ := newFakeRepos()
	svc := NewWithdrawService(repos, mail.NopMailer{}, notify.NopPublisher{}, zap.NewNop())

	shop := seedShop(shopRepo, 1500)
	withdraw, err := svc.Request(context.Background(), sellerActor(shop), 1000)
	if err != nil {
		t.Fatalf("Request returned error: %v", err)
	}

	t.Run("non-admin rejected", func(t *testing.T) {
		if _, err := svc.Resolve(context.Background(), sellerActor(shop), withdraw.ID, ResolveWithdrawRequest{
			SellerID: shop.ID.String(),
		}); err == nil {
			t.Fatal("expected unauthorized error")
		} else if _, ok := err.(*errors.ErrUnauthorized); !ok {
			t.Fatalf("expected *ErrUnauthorized, got %T", err)
		}
	})

	t.Run("processing target rejected", func(t *testing.T) {
		if _, err := svc.Resolve(context.Background(), adminActor(), withdraw.ID, ResolveWithdrawRequest{
			SellerID: shop.ID.String(),
			Status:   string(domain.WithdrawStatusProcessing),
		}); err == nil {
			t.Fatal("expected validation error")
		} else if _, ok := err.(*errors.ErrValidation); !ok {
			t.Fatalf("expected *ErrValidation, got %T", err)
		}
	})

	t.Run("unknown status rejected", func(t *testing.T) {
		if _, err := svc.Resolve(context.Background(), adminActor(), withdraw.ID, ResolveWithdrawRequest{
			SellerID: shop.ID.String(),
			Status:   "Vanished",
		}); err == nil {
			t.Fatal("expected validation error")
		} else if _, ok := err.(*errors.ErrValidation); !ok {
			t.Fatalf("expected *ErrValidation, got %T", err)
		}
	})

	t.Run("seller mismatch rejected", func(t *testing.T) {
		if _, err := svc.Resolve(context.Background(), adminActor(), withdraw.ID, ResolveWithdrawRequest{
			SellerID: uuid.NewString(),
		}); err == nil {
			t.Fatal("expected not found error")
		} else if _, ok := err.(*errors.ErrNotFound); !ok {
			t.Fatalf("expected *ErrNotFound, got %T", err)
		}
	})

	t.Run("unknown withdraw rejected", func(t *testing.T) {
		if _, err := svc.Resolve(context.Background(), adminActor(), uuid.New(), ResolveWithdrawRequest{
			SellerID: shop.ID.String(),
		}); err == nil {
			t.Fatal("expected not found error")
		} else if _, ok := err.(*errors.ErrNotFound); !ok {
			t.Fatalf("expected *ErrNotFound, got %T", err)
		}
	})
}

func TestWithdrawRoundingToCents(t *testing.T) {
	repos, _, shopRepo, _, _ := newFakeRepos()
	svc := NewWithdrawService(repos, mail.NopMailer{}, notify.NopPublisher{}, zap.NewNop())

	shop := seedShop(shopRepo, 200)

	withdraw, err := svc.Request(context.Background(), sellerActor(shop), 99.99)
	if err != nil {
		t.Fatalf("Request returned error: %v", err)
	}

	if withdraw.ServiceCharge != 18.00 {
		t.Errorf("expected charge 18.00, got %.4f", withdraw.ServiceCharge)
	}
	if withdraw.Amount != 81.99 {
		t.Errorf("expected net 81.99, got %.4f", withdraw.Amount)
	}
}
