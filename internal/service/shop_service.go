package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/localhandler/marketplace/internal/domain"
	"github.com/localhandler/marketplace/internal/repository"
	"github.com/localhandler/marketplace/pkg/errors"
)

type shopService struct {
	repos  *repository.Repositories
	logger *zap.Logger
}

// NewShopService creates a new shop service
func NewShopService(repos *repository.Repositories, logger *zap.Logger) *shopService {
	return &shopService{
		repos:  repos,
		logger: logger,
	}
}

// SetWithdrawMethod records the acting seller's payout destination.
func (s *shopService) SetWithdrawMethod(ctx context.Context, actor domain.Actor, req UpdateWithdrawMethodRequest) (*domain.Shop, error) {
	if actor.Type != domain.ActorTypeSeller {
		return nil, &errors.ErrUnauthorized{Message: "only sellers may set a withdraw method"}
	}

	method := &domain.WithdrawMethod{
		BankName:          req.BankName,
		BankAccountNumber: req.BankAccountNumber,
		BankHolderName:    req.BankHolderName,
	}

	if err := s.repos.Shop.SetWithdrawMethod(ctx, actor.ID, method); err != nil {
		return nil, err
	}

	return s.repos.Shop.GetByID(ctx, actor.ID)
}

// ClearWithdrawMethod removes the acting seller's payout destination.
func (s *shopService) ClearWithdrawMethod(ctx context.Context, actor domain.Actor) error {
	if actor.Type != domain.ActorTypeSeller {
		return &errors.ErrUnauthorized{Message: "only sellers may delete a withdraw method"}
	}

	return s.repos.Shop.ClearWithdrawMethod(ctx, actor.ID)
}

// Transactions returns the shop's append-only ledger history; the
// running balance is derivable by replaying it.
func (s *shopService) Transactions(ctx context.Context, actor domain.Actor) ([]*domain.Transaction, error) {
	if actor.Type != domain.ActorTypeSeller {
		return nil, &errors.ErrUnauthorized{Message: "only sellers may view their transactions"}
	}

	return s.repos.Shop.ListTransactions(ctx, actor.ID)
}
