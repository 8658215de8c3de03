package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/localhandler/marketplace/internal/domain"
)

// OrderRepository owns orders and their embedded cart lines. Orders
// are never deleted. Multi-table mutations (delivery payout, refund
// inventory restoration) are single transactional units.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	ListByBuyer(ctx context.Context, buyerID uuid.UUID) ([]*domain.Order, error)
	ListByShop(ctx context.Context, shopID uuid.UUID) ([]*domain.Order, error)
	ListAll(ctx context.Context) ([]*domain.Order, error)

	// UpdateShipping records a validated courier/tracking pair and
	// moves the order to Shipping.
	UpdateShipping(ctx context.Context, id uuid.UUID, courier domain.Courier, trackingID string) error

	// UpdateStatus moves the order to a new status with no side
	// effects (refund request and plain transitions).
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) error

	// MarkDelivered atomically moves the order to Delivered, stamps
	// deliveredAt and the payment status, credits the shop balance by
	// payout.FinalAmount and appends the payout to the shop's
	// transaction history.
	MarkDelivered(ctx context.Context, order *domain.Order, payout domain.Transaction) error

	// ApproveRefund atomically moves the order to Refund Success and
	// restores stock/sold counters for every cart line.
	ApproveRefund(ctx context.Context, order *domain.Order) error
}

// ShopRepository owns shops, their ledger balance and their
// append-only transaction history.
type ShopRepository interface {
	Create(ctx context.Context, shop *domain.Shop) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Shop, error)
	GetByEmail(ctx context.Context, email string) (*domain.Shop, error)
	SetWithdrawMethod(ctx context.Context, shopID uuid.UUID, method *domain.WithdrawMethod) error
	ClearWithdrawMethod(ctx context.Context, shopID uuid.UUID) error
	ListTransactions(ctx context.Context, shopID uuid.UUID) ([]*domain.Transaction, error)
}

// WithdrawRepository owns withdrawal requests. Creation reserves the
// gross amount against the shop balance; resolution is a single
// authoritative operation that appends the ledger record.
type WithdrawRepository interface {
	// CreateReserving inserts the request and debits the gross amount
	// from the shop's available balance in one transaction. Returns
	// ErrInsufficientBalance when the balance does not cover it.
	CreateReserving(ctx context.Context, req *domain.WithdrawRequest, gross float64) error

	GetByID(ctx context.Context, id uuid.UUID) (*domain.WithdrawRequest, error)
	ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]*domain.WithdrawRequest, error)
	ListAll(ctx context.Context) ([]*domain.WithdrawRequest, error)

	// Resolve finalizes a Processing request in one transaction:
	// conditional status flip, transaction-history append, and (when
	// releaseGross > 0, the rejection path) a credit returning the
	// reservation. A request already resolved is not touched.
	Resolve(ctx context.Context, req *domain.WithdrawRequest, record domain.Transaction, releaseGross float64) error
}

// ProductRepository owns the inventory counters reversed by refunds.
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
}

// Repositories aggregates the persistence interfaces handed to
// services and handlers.
type Repositories struct {
	Order    OrderRepository
	Shop     ShopRepository
	Withdraw WithdrawRepository
	Product  ProductRepository
}
