package service

import (
	"github.com/google/uuid"

	"github.com/localhandler/marketplace/internal/domain"
	"github.com/localhandler/marketplace/pkg/errors"
)

// SplitCart groups a multi-shop checkout into one order per shop, in
// first-seen order of shopId. Each order carries the whole-checkout
// total price; per-shop subtotals must be derived from the lines.
// The split has no side effects; persistence is the caller's job.
func SplitCart(req CheckoutRequest) ([]*domain.Order, error) {
	if len(req.Cart) == 0 {
		return nil, &errors.ErrValidation{Message: "cart is empty"}
	}

	buyerID, err := uuid.Parse(req.User.ID)
	if err != nil {
		return nil, &errors.ErrValidation{Message: "invalid buyer id"}
	}

	buyer := domain.Buyer{
		ID:    buyerID,
		Name:  req.User.Name,
		Email: req.User.Email,
	}
	address := domain.ShippingAddress{
		Address1: req.ShippingAddress.Address1,
		Address2: req.ShippingAddress.Address2,
		City:     req.ShippingAddress.City,
		Country:  req.ShippingAddress.Country,
		ZipCode:  req.ShippingAddress.ZipCode,
	}
	payment := domain.PaymentInfo{
		ID:     req.PaymentInfo.ID,
		Status: req.PaymentInfo.Status,
		Type:   req.PaymentInfo.Type,
	}

	byShop := make(map[uuid.UUID]*domain.Order)
	var order []uuid.UUID

	for _, line := range req.Cart {
		if line.ShopID == "" {
			return nil, &errors.ErrValidation{Message: "cart line is missing a shop id"}
		}
		shopID, err := uuid.Parse(line.ShopID)
		if err != nil {
			return nil, &errors.ErrValidation{Message: "invalid shop id: " + line.ShopID}
		}
		if line.Quantity <= 0 {
			return nil, &errors.ErrValidation{Message: "cart line quantity must be positive"}
		}
		productID, err := uuid.Parse(line.ProductID)
		if err != nil {
			return nil, &errors.ErrValidation{Message: "invalid product id: " + line.ProductID}
		}

		o, ok := byShop[shopID]
		if !ok {
			o = &domain.Order{
				ShopID:          shopID,
				ShippingAddress: address,
				Buyer:           buyer,
				TotalPrice:      req.TotalPrice,
				PaymentInfo:     payment,
				Status:          domain.OrderStatusNotShipped,
			}
			byShop[shopID] = o
			order = append(order, shopID)
		}

		o.Cart = append(o.Cart, domain.CartLine{
			ProductID:     productID,
			Name:          line.Name,
			Quantity:      line.Quantity,
			UnitPrice:     line.UnitPrice,
			SelectedSize:  line.SelectedSize,
			SelectedColor: line.SelectedColor,
			ShopID:        shopID,
		})
	}

	orders := make([]*domain.Order, 0, len(order))
	for _, shopID := range order {
		orders = append(orders, byShop[shopID])
	}

	return orders, nil
}
