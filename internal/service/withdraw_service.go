package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/localhandler/marketplace/internal/domain"
	"github.com/localhandler/marketplace/internal/mail"
	"github.com/localhandler/marketplace/internal/notify"
	"github.com/localhandler/marketplace/internal/repository"
	"github.com/localhandler/marketplace/pkg/errors"
)

// Platform retains 18% service tax on withdrawal payouts.
const withdrawServiceChargeRate = 0.18

type withdrawService struct {
	repos     *repository.Repositories
	mailer    mail.Mailer
	publisher notify.Publisher
	logger    *zap.Logger
}

// NewWithdrawService creates a new withdraw service
func NewWithdrawService(repos *repository.Repositories, mailer mail.Mailer, publisher notify.Publisher, logger *zap.Logger) *withdrawService {
	return &withdrawService{
		repos:     repos,
		mailer:    mailer,
		publisher: publisher,
		logger:    logger,
	}
}

// Request creates a withdrawal for the acting seller. The gross
// amount is reserved against the shop balance immediately; the stored
// request holds the net payout with the service charge recorded
// separately.
func (s *withdrawService) Request(ctx context.Context, actor domain.Actor, amount float64) (*domain.WithdrawRequest, error) {
	if actor.Type != domain.ActorTypeSeller {
		return nil, &errors.ErrUnauthorized{Message: "only sellers may request withdrawals"}
	}
	if amount <= 0 {
		return nil, &errors.ErrValidation{Message: "invalid withdrawal amount"}
	}

	shop, err := s.repos.Shop.GetByID(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	if shop.AvailableBalance < amount {
		return nil, &errors.ErrInsufficientBalance{
			ShopID:    shop.ID.String(),
			Requested: amount,
			Available: shop.AvailableBalance,
		}
	}

	serviceCharge := round2(amount * withdrawServiceChargeRate)
	netAmount := round2(amount - serviceCharge)

	req := &domain.WithdrawRequest{
		SellerID:      shop.ID,
		Amount:        netAmount,
		ServiceCharge: serviceCharge,
		Destination:   shop.WithdrawMethod,
		Status:        domain.WithdrawStatusProcessing,
	}

	if err := s.repos.Withdraw.CreateReserving(ctx, req, amount); err != nil {
		return nil, err
	}

	// Best-effort: the reservation stands even if the mail fails.
	body := fmt.Sprintf("Hello %s,\nYour withdraw request of %.2f has been received.\n%.2f will be transferred to your bank after %.2f (18%%) service tax.\nProcessing time is 3 to 7 business days.",
		shop.Name, amount, netAmount, serviceCharge)
	if err := s.mailer.Send(shop.Email, "Withdraw Request", body); err != nil {
		s.logger.Warn("Withdraw request mail failed", zap.String("shop_id", shop.ID.String()), zap.Error(err))
	}

	s.publisher.Publish(notify.Event{
		Type:       notify.EventWithdrawRequested,
		ResourceID: req.ID.String(),
		ShopID:     shop.ID.String(),
		Status:     string(req.Status),
		Amount:     amount,
	})

	return req, nil
}

// Resolve finalizes a Processing request as Succeeded (default) or
// Rejected, appending exactly one ledger record. Succeeded keeps the
// reservation taken at request time; Rejected releases it. A request
// already resolved is rejected with an invalid-transition error, so
// calling Resolve twice can never double-append or double-debit.
func (s *withdrawService) Resolve(ctx context.Context, actor domain.Actor, withdrawID uuid.UUID, req ResolveWithdrawRequest) (*domain.WithdrawRequest, error) {
	if !actor.IsAdmin() {
		return nil, &errors.ErrUnauthorized{Message: "only admins may resolve withdrawals"}
	}

	sellerID, err := uuid.Parse(req.SellerID)
	if err != nil {
		return nil, &errors.ErrValidation{Message: "invalid seller id"}
	}

	status := domain.WithdrawStatusSucceeded
	if req.Status != "" {
		status = domain.WithdrawStatus(req.Status)
		if !status.IsValid() || status == domain.WithdrawStatusProcessing {
			return nil, &errors.ErrValidation{Message: "unknown withdraw status: " + req.Status}
		}
	}

	withdraw, err := s.repos.Withdraw.GetByID(ctx, withdrawID)
	if err != nil {
		return nil, err
	}
	if withdraw.SellerID != sellerID {
		return nil, &errors.ErrNotFound{Resource: "withdraw request for seller", ID: req.SellerID}
	}

	seller, err := s.repos.Shop.GetByID(ctx, sellerID)
	if err != nil {
		return nil, err
	}

	if !withdraw.Status.CanTransitionTo(status) {
		return nil, &errors.ErrInvalidStateTransition{
			From: string(withdraw.Status),
			To:   string(status),
		}
	}

	gross := withdraw.GrossAmount()
	record := domain.Transaction{
		ShopID:        seller.ID,
		Type:          domain.TransactionTypeWithdrawal,
		Amount:        gross,
		ServiceCharge: withdraw.ServiceCharge,
		FinalAmount:   withdraw.Amount,
		Destination:   withdraw.Destination,
		Status:        string(status),
	}

	var releaseGross float64
	if status == domain.WithdrawStatusRejected {
		record.Type = domain.TransactionTypeWithdrawReject
		releaseGross = gross
	}

	withdraw.Status = status
	if err := s.repos.Withdraw.Resolve(ctx, withdraw, record, releaseGross); err != nil {
		return nil, err
	}

	body := fmt.Sprintf("Hello %s,\nYour withdraw of %.2f is being processed.\nDelivery time depends on your bank (usually 3 to 7 days).",
		seller.Name, withdraw.Amount)
	if status == domain.WithdrawStatusRejected {
		body = fmt.Sprintf("Hello %s,\nYour withdraw request of %.2f was rejected. The amount has been returned to your shop balance.",
			seller.Name, gross)
	}
	if err := s.mailer.Send(seller.Email, "Payment Confirmation", body); err != nil {
		s.logger.Warn("Withdraw resolution mail failed", zap.String("shop_id", seller.ID.String()), zap.Error(err))
	}

	s.publisher.Publish(notify.Event{
		Type:       notify.EventWithdrawResolved,
		ResourceID: withdraw.ID.String(),
		ShopID:     seller.ID.String(),
		Status:     string(status),
		Amount:     withdraw.Amount,
	})

	return withdraw, nil
}

// ListForSeller returns the acting seller's withdrawal requests.
func (s *withdrawService) ListForSeller(ctx context.Context, actor domain.Actor) ([]*domain.WithdrawRequest, error) {
	if actor.Type != domain.ActorTypeSeller {
		return nil, &errors.ErrUnauthorized{Message: "only sellers may list their withdrawals"}
	}
	return s.repos.Withdraw.ListBySeller(ctx, actor.ID)
}

// ListAll returns every withdrawal request for the admin dashboard.
func (s *withdrawService) ListAll(ctx context.Context, actor domain.Actor) ([]*domain.WithdrawRequest, error) {
	if !actor.IsAdmin() {
		return nil, &errors.ErrUnauthorized{Message: "admin only"}
	}
	return s.repos.Withdraw.ListAll(ctx)
}
