package service

import (
	"context"
	"math"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/localhandler/marketplace/internal/domain"
	"github.com/localhandler/marketplace/internal/notify"
	"github.com/localhandler/marketplace/internal/repository"
	"github.com/localhandler/marketplace/pkg/errors"
)

// Platform retains 10% of delivered order proceeds.
const deliveryServiceChargeRate = 0.10

type orderService struct {
	repos     *repository.Repositories
	publisher notify.Publisher
	logger    *zap.Logger
}

// NewOrderService creates a new order service
func NewOrderService(repos *repository.Repositories, publisher notify.Publisher, logger *zap.Logger) *orderService {
	return &orderService{
		repos:     repos,
		publisher: publisher,
		logger:    logger,
	}
}

// CreateFromCheckout splits the cart by shop and persists one order
// per shop. Creation is not transactional across shops: on a mid-loop
// failure the orders created so far are returned together with the
// error so the caller sees the partial result.
func (s *orderService) CreateFromCheckout(ctx context.Context, actor domain.Actor, req CheckoutRequest) ([]*domain.Order, error) {
	buyerID, err := uuid.Parse(req.User.ID)
	if err != nil {
		return nil, &errors.ErrValidation{Message: "invalid buyer id"}
	}
	if !actor.IsBuyer(buyerID) && !actor.IsAdmin() {
		return nil, &errors.ErrUnauthorized{Message: "checkout must be placed by the buyer"}
	}

	orders, err := SplitCart(req)
	if err != nil {
		return nil, err
	}

	created := make([]*domain.Order, 0, len(orders))
	for _, order := range orders {
		if err := s.repos.Order.Create(ctx, order); err != nil {
			s.logger.Error("Order creation failed mid-checkout",
				zap.String("shop_id", order.ShopID.String()),
				zap.Int("created_so_far", len(created)),
				zap.Error(err))
			return created, err
		}
		created = append(created, order)

		s.publisher.Publish(notify.Event{
			Type:       notify.EventOrderCreated,
			ResourceID: order.ID.String(),
			ShopID:     order.ShopID.String(),
			Status:     string(order.Status),
			Amount:     order.TotalPrice,
		})
	}

	return created, nil
}

// UpdateStatus moves an order along the shipping branch on behalf of
// the owning seller. Shipping requires a known courier and a tracking
// id matching its format; Delivered credits the shop ledger. Refund
// transitions carry side effects and authorization of their own and
// only go through RequestRefund and ApproveRefund.
func (s *orderService) UpdateStatus(ctx context.Context, actor domain.Actor, orderID uuid.UUID, req UpdateOrderStatusRequest) (*domain.Order, error) {
	order, err := s.repos.Order.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !actor.OwnsShop(order.ShopID) && !actor.IsAdmin() {
		return nil, &errors.ErrUnauthorized{Message: "only the owning shop may update order status"}
	}

	newStatus := domain.OrderStatus(req.Status)
	if !newStatus.IsValid() {
		return nil, &errors.ErrValidation{Message: "unknown order status: " + req.Status}
	}
	if newStatus == domain.OrderStatusProcessingRefund || newStatus == domain.OrderStatusRefundSuccess {
		return nil, &errors.ErrValidation{Message: "refund transitions must use the refund endpoints"}
	}
	if !order.Status.CanTransitionTo(newStatus) {
		return nil, &errors.ErrInvalidStateTransition{
			From: string(order.Status),
			To:   string(newStatus),
		}
	}

	switch newStatus {
	case domain.OrderStatusShipping:
		courier := domain.Courier(req.Courier)
		if req.Courier == "" || req.TrackingID == "" || !courier.IsValid() {
			return nil, &errors.ErrValidation{Message: "courier and tracking ID required"}
		}
		if !courier.MatchesTrackingID(req.TrackingID) {
			return nil, &errors.ErrValidation{Message: "invalid tracking ID format"}
		}
		if err := s.repos.Order.UpdateShipping(ctx, order.ID, courier, req.TrackingID); err != nil {
			return nil, err
		}

	case domain.OrderStatusDelivered:
		serviceCharge := round2(order.TotalPrice * deliveryServiceChargeRate)
		payout := domain.Transaction{
			ShopID:        order.ShopID,
			Type:          domain.TransactionTypeOrderPayout,
			Amount:        order.TotalPrice,
			ServiceCharge: serviceCharge,
			FinalAmount:   round2(order.TotalPrice - serviceCharge),
			Status:        "Succeeded",
		}
		if err := s.repos.Order.MarkDelivered(ctx, order, payout); err != nil {
			return nil, err
		}

	default:
		if err := s.repos.Order.UpdateStatus(ctx, order.ID, newStatus); err != nil {
			return nil, err
		}
	}

	updated, err := s.repos.Order.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(notify.Event{
		Type:       notify.EventOrderStatusChange,
		ResourceID: updated.ID.String(),
		ShopID:     updated.ShopID.String(),
		Status:     string(updated.Status),
	})

	return updated, nil
}

// RequestRefund moves the order into the refund branch on behalf of
// the buyer. No balance or stock side effects at this step.
func (s *orderService) RequestRefund(ctx context.Context, actor domain.Actor, orderID uuid.UUID, req RefundRequest) (*domain.Order, error) {
	order, err := s.repos.Order.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !actor.IsBuyer(order.Buyer.ID) && !actor.IsAdmin() {
		return nil, &errors.ErrUnauthorized{Message: "only the buyer may request a refund"}
	}

	newStatus := domain.OrderStatus(req.Status)
	if newStatus != domain.OrderStatusProcessingRefund {
		return nil, &errors.ErrValidation{Message: "refund request must target status " + string(domain.OrderStatusProcessingRefund)}
	}
	if !order.Status.CanTransitionTo(newStatus) {
		return nil, &errors.ErrInvalidStateTransition{
			From: string(order.Status),
			To:   string(newStatus),
		}
	}

	if err := s.repos.Order.UpdateStatus(ctx, order.ID, newStatus); err != nil {
		return nil, err
	}
	order.Status = newStatus

	s.publisher.Publish(notify.Event{
		Type:       notify.EventOrderStatusChange,
		ResourceID: order.ID.String(),
		ShopID:     order.ShopID.String(),
		Status:     string(newStatus),
	})

	return order, nil
}

// ApproveRefund finalizes the refund on behalf of the owning seller,
// restoring every cart line's stock and sold count in one batch.
func (s *orderService) ApproveRefund(ctx context.Context, actor domain.Actor, orderID uuid.UUID, req RefundRequest) (*domain.Order, error) {
	order, err := s.repos.Order.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !actor.OwnsShop(order.ShopID) && !actor.IsAdmin() {
		return nil, &errors.ErrUnauthorized{Message: "only the owning shop may approve a refund"}
	}

	newStatus := domain.OrderStatus(req.Status)
	if newStatus != domain.OrderStatusRefundSuccess {
		return nil, &errors.ErrValidation{Message: "refund approval must target status " + string(domain.OrderStatusRefundSuccess)}
	}
	if !order.Status.CanTransitionTo(newStatus) {
		return nil, &errors.ErrInvalidStateTransition{
			From: string(order.Status),
			To:   string(newStatus),
		}
	}

	if err := s.repos.Order.ApproveRefund(ctx, order); err != nil {
		return nil, err
	}

	s.publisher.Publish(notify.Event{
		Type:       notify.EventOrderStatusChange,
		ResourceID: order.ID.String(),
		ShopID:     order.ShopID.String(),
		Status:     string(newStatus),
	})

	return order, nil
}

// Invoice returns the order for invoice rendering; only the buyer or
// the owning shop may fetch it.
func (s *orderService) Invoice(ctx context.Context, actor domain.Actor, orderID uuid.UUID) (*domain.Order, error) {
	order, err := s.repos.Order.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !actor.IsBuyer(order.Buyer.ID) && !actor.OwnsShop(order.ShopID) && !actor.IsAdmin() {
		return nil, &errors.ErrUnauthorized{Message: "unauthorized access"}
	}

	return order, nil
}

// ListForBuyer returns the buyer's orders, newest first.
func (s *orderService) ListForBuyer(ctx context.Context, actor domain.Actor, buyerID uuid.UUID) ([]*domain.Order, error) {
	if !actor.IsBuyer(buyerID) && !actor.IsAdmin() {
		return nil, &errors.ErrUnauthorized{Message: "cannot list another buyer's orders"}
	}
	return s.repos.Order.ListByBuyer(ctx, buyerID)
}

// ListForShop returns a shop's orders, newest first.
func (s *orderService) ListForShop(ctx context.Context, actor domain.Actor, shopID uuid.UUID) ([]*domain.Order, error) {
	if !actor.OwnsShop(shopID) && !actor.IsAdmin() {
		return nil, &errors.ErrUnauthorized{Message: "cannot list another shop's orders"}
	}
	return s.repos.Order.ListByShop(ctx, shopID)
}

// ListAll returns every order for the admin dashboard.
func (s *orderService) ListAll(ctx context.Context, actor domain.Actor) ([]*domain.Order, error) {
	if !actor.IsAdmin() {
		return nil, &errors.ErrUnauthorized{Message: "admin only"}
	}
	return s.repos.Order.ListAll(ctx)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
