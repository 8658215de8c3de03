package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/localhandler/marketplace/internal/domain"
	"github.com/localhandler/marketplace/pkg/errors"
)

// respondError maps a typed domain error to an HTTP status and the
// {success:false, message} error body.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	switch err.(type) {
	case *errors.ErrValidation:
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
	case *errors.ErrInsufficientBalance:
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
	case *errors.ErrInvalidStateTransition:
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
	case *errors.ErrNotFound:
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": err.Error()})
	case *errors.ErrUnauthorized:
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": err.Error()})
	default:
		logger.Error("Request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "internal error"})
	}
}

// OrderResponse mirrors the order shape the storefront expects.
type OrderResponse struct {
	ID              string             `json:"id"`
	ShopID          string             `json:"shopId"`
	Cart            []CartLineResponse `json:"cart"`
	ShippingAddress AddressResponse    `json:"shippingAddress"`
	User            BuyerResponse      `json:"user"`
	TotalPrice      float64            `json:"totalPrice"`
	PaymentInfo     PaymentResponse    `json:"paymentInfo"`
	Status          string             `json:"status"`
	TrackingID      *string            `json:"trackingId,omitempty"`
	Courier         *string            `json:"courier,omitempty"`
	PaidAt          string             `json:"paidAt"`
	DeliveredAt     *string            `json:"deliveredAt,omitempty"`
	CreatedAt       string             `json:"createdAt"`
}

type CartLineResponse struct {
	ProductID     string  `json:"productId"`
	Name          string  `json:"name,omitempty"`
	Quantity      int     `json:"quantity"`
	UnitPrice     float64 `json:"unitPrice"`
	SelectedSize  string  `json:"selectedSize,omitempty"`
	SelectedColor string  `json:"selectedColor,omitempty"`
	ShopID        string  `json:"shopId"`
	IsReviewed    bool    `json:"isReviewed"`
	TrackingID    *string `json:"trackingId,omitempty"`
}

type AddressResponse struct {
	Address1 string `json:"address1"`
	Address2 string `json:"address2,omitempty"`
	City     string `json:"city"`
	Country  string `json:"country"`
	ZipCode  string `json:"zipCode"`
}

type BuyerResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type PaymentResponse struct {
	ID     string `json:"id,omitempty"`
	Status string `json:"status,omitempty"`
	Type   string `json:"type,omitempty"`
}

// WithdrawResponse mirrors the withdraw request shape.
type WithdrawResponse struct {
	ID            string                 `json:"id"`
	SellerID      string                 `json:"sellerId"`
	Amount        float64                `json:"amount"`
	ServiceCharge float64                `json:"serviceCharge"`
	Destination   *domain.WithdrawMethod `json:"withdrawMethod,omitempty"`
	Status        string                 `json:"status"`
	CreatedAt     string                 `json:"createdAt"`
	UpdatedAt     string                 `json:"updatedAt"`
}

func toOrderResponse(order *domain.Order) OrderResponse {
	resp := OrderResponse{
		ID:     order.ID.String(),
		ShopID: order.ShopID.String(),
		ShippingAddress: AddressResponse{
			Address1: order.ShippingAddress.Address1,
			Address2: order.ShippingAddress.Address2,
			City:     order.ShippingAddress.City,
			Country:  order.ShippingAddress.Country,
			ZipCode:  order.ShippingAddress.ZipCode,
		},
		User: BuyerResponse{
			ID:    order.Buyer.ID.String(),
			Name:  order.Buyer.Name,
			Email: order.Buyer.Email,
		},
		TotalPrice: order.TotalPrice,
		PaymentInfo: PaymentResponse{
			ID:     order.PaymentInfo.ID,
			Status: order.PaymentInfo.Status,
			Type:   order.PaymentInfo.Type,
		},
		Status:     string(order.Status),
		TrackingID: order.TrackingID,
		Courier:    order.Courier,
		PaidAt:     order.PaidAt.Format(time.RFC3339),
		CreatedAt:  order.CreatedAt.Format(time.RFC3339),
	}

	if order.DeliveredAt != nil {
		formatted := order.DeliveredAt.Format(time.RFC3339)
		resp.DeliveredAt = &formatted
	}

	resp.Cart = make([]CartLineResponse, len(order.Cart))
	for i, line := range order.Cart {
		resp.Cart[i] = CartLineResponse{
			ProductID:     line.ProductID.String(),
			Name:          line.Name,
			Quantity:      line.Quantity,
			UnitPrice:     line.UnitPrice,
			SelectedSize:  line.SelectedSize,
			SelectedColor: line.SelectedColor,
			ShopID:        line.ShopID.String(),
			IsReviewed:    line.IsReviewed,
			TrackingID:    line.TrackingID,
		}
	}

	return resp
}

func toOrderResponses(orders []*domain.Order) []OrderResponse {
	responses := make([]OrderResponse, len(orders))
	for i, order := range orders {
		responses[i] = toOrderResponse(order)
	}
	return responses
}

func toWithdrawResponse(req *domain.WithdrawRequest) WithdrawResponse {
	return WithdrawResponse{
		ID:            req.ID.String(),
		SellerID:      req.SellerID.String(),
		Amount:        req.Amount,
		ServiceCharge: req.ServiceCharge,
		Destination:   req.Destination,
		Status:        string(req.Status),
		CreatedAt:     req.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     req.UpdatedAt.Format(time.RFC3339),
	}
}
