package domain

import (
	"time"

	"github.com/google/uuid"
)

// CartLine is one product/quantity/variant entry within a checkout,
// always associated with exactly one shop.
type CartLine struct {
	ProductID     uuid.UUID
	Name          string
	Quantity      int
	UnitPrice     float64
	SelectedSize  string
	SelectedColor string
	ShopID        uuid.UUID
	IsReviewed    bool
	TrackingID    *string
}

// ShippingAddress is the checkout-level delivery address shared by
// every per-shop order split from one cart.
type ShippingAddress struct {
	Address1 string
	Address2 string
	City     string
	Country  string
	ZipCode  string
}

// Buyer is the denormalized customer snapshot embedded in an order.
type Buyer struct {
	ID    uuid.UUID
	Name  string
	Email string
}

// PaymentInfo records the gateway reference for a checkout.
type PaymentInfo struct {
	ID     string
	Status string
	Type   string
}

// Order is one shop's share of a checkout. Every cart line's ShopID
// equals the order's ShopID. Orders are never deleted.
type Order struct {
	ID              uuid.UUID
	ShopID          uuid.UUID
	Cart            []CartLine
	ShippingAddress ShippingAddress
	Buyer           Buyer
	TotalPrice      float64
	PaymentInfo     PaymentInfo
	Status          OrderStatus
	TrackingID      *string
	Courier         *string
	PaidAt          time.Time
	DeliveredAt     *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Shop is a seller entity. AvailableBalance moves only through the
// ledger operations on the shop repository; the transaction history is
// append-only and the balance is derivable by replaying it.
type Shop struct {
	ID               uuid.UUID
	Name             string
	Email            string
	PasswordHash     string
	Address          string
	ZipCode          string
	PhoneNumber      string
	WithdrawMethod   *WithdrawMethod
	AvailableBalance float64
	IsActive         bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// WithdrawMethod is the seller's payout destination.
type WithdrawMethod struct {
	BankName          string `json:"bank_name"`
	BankAccountNumber string `json:"bank_account_number"`
	BankHolderName    string `json:"bank_holder_name"`
}

// TransactionType distinguishes ledger entries.
type TransactionType string

const (
	TransactionTypeOrderPayout    TransactionType = "ORDER_PAYOUT"
	TransactionTypeWithdrawal     TransactionType = "WITHDRAWAL"
	TransactionTypeWithdrawReject TransactionType = "WITHDRAWAL_REJECTED"
)

// Transaction is one immutable entry in a shop's ledger history.
// FinalAmount is always Amount minus ServiceCharge.
type Transaction struct {
	ID            uuid.UUID
	ShopID        uuid.UUID
	Type          TransactionType
	Amount        float64
	ServiceCharge float64
	FinalAmount   float64
	Destination   *WithdrawMethod
	Status        string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// WithdrawRequest is a seller payout request. Amount holds the net
// payout (gross minus service charge); the gross is reserved against
// the shop balance when the request is created.
type WithdrawRequest struct {
	ID            uuid.UUID
	SellerID      uuid.UUID
	Amount        float64
	ServiceCharge float64
	Destination   *WithdrawMethod
	Status        WithdrawStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// GrossAmount is the seller-requested amount before the service
// charge, i.e. what was reserved against the balance.
func (w *WithdrawRequest) GrossAmount() float64 {
	return w.Amount + w.ServiceCharge
}

// Product carries the inventory counters the refund flow reverses.
type Product struct {
	ID        uuid.UUID
	ShopID    uuid.UUID
	Name      string
	Price     float64
	Stock     int
	SoldOut   int
	CreatedAt time.Time
	UpdatedAt time.Time
}
