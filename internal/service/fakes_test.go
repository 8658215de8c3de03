package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/localhandler/marketplace/internal/domain"
	"github.com/localhandler/marketplace/internal/notify"
	"github.com/localhandler/marketplace/internal/repository"
	"github.com/localhandler/marketplace/pkg/errors"
)

// In-memory repositories mirroring the transactional semantics of the
// postgres implementations.

type fakeOrderRepo struct {
	orders   map[uuid.UUID]*domain.Order
	shops    *fakeShopRepo
	products *fakeProductRepo

	failCreateAfter int // fail the nth Create call; 0 disables
	createCalls     int
}

func (f *fakeOrderRepo) Create(ctx context.Context, order *domain.Order) error {
	f.createCalls++
	if f.failCreateAfter > 0 && f.createCalls >= f.failCreateAfter {
		return context.DeadlineExceeded
	}
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	now := time.Now()
	if order.CreatedAt.IsZero() {
		order.CreatedAt = now
	}
	if order.PaidAt.IsZero() {
		order.PaidAt = now
	}
	cp := *order
	f.orders[order.ID] = &cp
	return nil
}

func (f *fakeOrderRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	order, ok := f.orders[id]
	if !ok {
		return nil, &errors.ErrNotFound{Resource: "order", ID: id.String()}
	}
	cp := *order
	return &cp, nil
}

func (f *fakeOrderRepo) ListByBuyer(ctx context.Context, buyerID uuid.UUID) ([]*domain.Order, error) {
	var out []*domain.Order
	for _, o := range f.orders {
		if o.Buyer.ID == buyerID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeOrderRepo) ListByShop(ctx context.Context, shopID uuid.UUID) ([]*domain.Order, error) {
	var out []*domain.Order
	for _, o := range f.orders {
		if o.ShopID == shopID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeOrderRepo) ListAll(ctx context.Context) ([]*domain.Order, error) {
	var out []*domain.Order
	for _, o := range f.orders {
		out = append(out, o)
	}
	return out, nil
}

func (f *fakeOrderRepo) UpdateShipping(ctx context.Context, id uuid.UUID, courier domain.Courier, trackingID string) error {
	order, ok := f.orders[id]
	if !ok {
		return &errors.ErrNotFound{Resource: "order", ID: id.String()}
	}
	c := string(courier)
	order.Status = domain.OrderStatusShipping
	order.Courier = &c
	order.TrackingID = &trackingID
	return nil
}

func (f *fakeOrderRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) error {
	order, ok := f.orders[id]
	if !ok {
		return &errors.ErrNotFound{Resource: "order", ID: id.String()}
	}
	order.Status = status
	return nil
}

func (f *fakeOrderRepo) MarkDelivered(ctx context.Context, order *domain.Order, payout domain.Transaction) error {
	stored, ok := f.orders[order.ID]
	if !ok {
		return &errors.ErrNotFound{Resource: "order", ID: order.ID.String()}
	}
	if stored.Status == domain.OrderStatusDelivered {
		return &errors.ErrInvalidStateTransition{
			From: string(domain.OrderStatusDelivered),
			To:   string(domain.OrderStatusDelivered),
		}
	}

	now := time.Now()
	stored.Status = domain.OrderStatusDelivered
	stored.PaymentInfo.Status = "Succeeded"
	stored.DeliveredAt = &now

	shop := f.shops.shops[order.ShopID]
	shop.AvailableBalance += payout.FinalAmount
	f.shops.appendTransaction(order.ShopID, payout)

	order.Status = stored.Status
	order.PaymentInfo.Status = "Succeeded"
	order.DeliveredAt = &now
	return nil
}

func (f *fakeOrderRepo) ApproveRefund(ctx context.Context, order *domain.Order) error {
	stored, ok := f.orders[order.ID]
	if !ok {
		return &errors.ErrNotFound{Resource: "order", ID: order.ID.String()}
	}
	if stored.Status != domain.OrderStatusProcessingRefund {
		return &errors.ErrInvalidStateTransition{
			From: string(domain.OrderStatusRefundSuccess),
			To:   string(domain.OrderStatusRefundSuccess),
		}
	}
	for _, line := range order.Cart {
		if _, ok := f.products.products[line.ProductID]; !ok {
			return &errors.ErrNotFound{Resource: "product", ID: line.ProductID.String()}
		}
	}
	for _, line := range order.Cart {
		p := f.products.products[line.ProductID]
		p.Stock += line.Quantity
		p.SoldOut -= line.Quantity
	}
	stored.Status = domain.OrderStatusRefundSuccess
	order.Status = domain.OrderStatusRefundSuccess
	return nil
}

type fakeShopRepo struct {
	shops        map[uuid.UUID]*domain.Shop
	transactions map[uuid.UUID][]*domain.Transaction
}

func (f *fakeShopRepo) appendTransaction(shopID uuid.UUID, tx domain.Transaction) {
	if tx.ID == uuid.Nil {
		tx.ID = uuid.New()
	}
	tx.ShopID = shopID
	tx.CreatedAt = time.Now()
	f.transactions[shopID] = append(f.transactions[shopID], &tx)
}

func (f *fakeShopRepo) Create(ctx context.Context, shop *domain.Shop) error {
	if shop.ID == uuid.Nil {
		shop.ID = uuid.New()
	}
	f.shops[shop.ID] = shop
	return nil
}

func (f *fakeShopRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Shop, error) {
	shop, ok := f.shops[id]
	if !ok {
		return nil, &errors.ErrNotFound{Resource: "shop", ID: id.String()}
	}
	cp := *shop
	return &cp, nil
}

func (f *fakeShopRepo) GetByEmail(ctx context.Context, email string) (*domain.Shop, error) {
	for _, shop := range f.shops {
		if shop.Email == email {
			cp := *shop
			return &cp, nil
		}
	}
	return nil, &errors.ErrNotFound{Resource: "shop", ID: email}
}

func (f *fakeShopRepo) SetWithdrawMethod(ctx context.Context, shopID uuid.UUID, method *domain.WithdrawMethod) error {
	shop, ok := f.shops[shopID]
	if !ok {
		return &errors.ErrNotFound{Resource: "shop", ID: shopID.String()}
	}
	shop.WithdrawMethod = method
	return nil
}

func (f *fakeShopRepo) ClearWithdrawMethod(ctx context.Context, shopID uuid.UUID) error {
	shop, ok := f.shops[shopID]
	if !ok {
		return &errors.ErrNotFound{Resource: "shop", ID: shopID.String()}
	}
	shop.WithdrawMethod = nil
	return nil
}

func (f *fakeShopRepo) ListTransactions(ctx context.Context, shopID uuid.UUID) ([]*domain.Transaction, error) {
	return f.transactions[shopID], nil
}

type fakeWithdrawRepo struct {
	withdraws map[uuid.UUID]*domain.WithdrawRequest
	shops     *fakeShopRepo
}

func (f *fakeWithdrawRepo) CreateReserving(ctx context.Context, req *domain.WithdrawRequest, gross float64) error {
	shop, ok := f.shops.shops[req.SellerID]
	if !ok {
		return &errors.ErrNotFound{Resource: "shop", ID: req.SellerID.String()}
	}
	if shop.AvailableBalance < gross {
		return &errors.ErrInsufficientBalance{
			ShopID:    req.SellerID.String(),
			Requested: gross,
			Available: shop.AvailableBalance,
		}
	}
	shop.AvailableBalance -= gross

	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}
	req.CreatedAt = time.Now()
	cp := *req
	f.withdraws[req.ID] = &cp
	return nil
}

func (f *fakeWithdrawRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.WithdrawRequest, error) {
	w, ok := f.withdraws[id]
	if !ok {
		return nil, &errors.ErrNotFound{Resource: "withdraw request", ID: id.String()}
	}
	cp := *w
	return &cp, nil
}

func (f *fakeWithdrawRepo) ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]*domain.WithdrawRequest, error) {
	var out []*domain.WithdrawRequest
	for _, w := range f.withdraws {
		if w.SellerID == sellerID {
			out = append(out, w)
		}
	}
	return out, nil
}

func (f *fakeWithdrawRepo) ListAll(ctx context.Context) ([]*domain.WithdrawRequest, error) {
	var out []*domain.WithdrawRequest
	for _, w := range f.withdraws {
		out = append(out, w)
	}
	return out, nil
}

func (f *fakeWithdrawRepo) Resolve(ctx context.Context, req *domain.WithdrawRequest, record domain.Transaction, releaseGross float64) error {
	stored, ok := f.withdraws[req.ID]
	if !ok {
		return &errors.ErrNotFound{Resource: "withdraw request", ID: req.ID.String()}
	}
	if stored.Status != domain.WithdrawStatusProcessing {
		return &errors.ErrInvalidStateTransition{
			From: string(stored.Status),
			To:   string(req.Status),
		}
	}
	stored.Status = req.Status
	if releaseGross > 0 {
		f.shops.shops[req.SellerID].AvailableBalance += releaseGross
	}
	f.shops.appendTransaction(req.SellerID, record)
	return nil
}

type fakeProductRepo struct {
	products map[uuid.UUID]*domain.Product
}

func (f *fakeProductRepo) Create(ctx context.Context, product *domain.Product) error {
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	f.products[product.ID] = product
	return nil
}

func (f *fakeProductRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, &errors.ErrNotFound{Resource: "product", ID: id.String()}
	}
	return p, nil
}

// recordingPublisher captures published events for assertions.
type recordingPublisher struct {
	events []notify.Event
}

func (p *recordingPublisher) Publish(event notify.Event) {
	p.events = append(p.events, event)
}

func (p *recordingPublisher) Close() {}

// recordingMailer captures outbound mail.
type recordingMailer struct {
	sent []string
}

func (m *recordingMailer) Send(to, subject, body string) error {
	m.sent = append(m.sent, subject)
	return nil
}

func newFakeRepos() (*repository.Repositories, *fakeOrderRepo, *fakeShopRepo, *fakeWithdrawRepo, *fakeProductRepo) {
	shops := &fakeShopRepo{
		shops:        make(map[uuid.UUID]*domain.Shop),
		transactions: make(map[uuid.UUID][]*domain.Transaction),
	}
	products := &fakeProductRepo{products: make(map[uuid.UUID]*domain.Product)}
	orders := &fakeOrderRepo{
		orders:   make(map[uuid.UUID]*domain.Order),
		shops:    shops,
		products: products,
	}
	withdraws := &fakeWithdrawRepo{
		withdraws: make(map[uuid.UUID]*domain.WithdrawRequest),
		shops:     shops,
	}

	repos := &repository.Repositories{
		Order:    orders,
		Shop:     shops,
		Withdraw: withdraws,
		Product:  products,
	}
	return repos, orders, shops, withdraws, products
}
