package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/localhandler/marketplace/internal/payment"
	"github.com/localhandler/marketplace/pkg/errors"
)

// CheckoutPaymentRequest asks the gateway for a payment order.
type CheckoutPaymentRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
}

// HandleCreatePayment handles POST /payment/checkout
func HandleCreatePayment(gateway payment.Gateway, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CheckoutPaymentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, logger, &errors.ErrValidation{Message: "invalid amount"})
			return
		}

		order, err := gateway.CreateOrder(req.Amount, "INR")
		if err != nil {
			logger.Error("Payment gateway call failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "payment gateway unavailable"})
			return
		}

		c.JSON(http.StatusOK, order)
	}
}

// HandleGetPaymentKey handles GET /payment/key
func HandleGetPaymentKey(gateway payment.Gateway, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"key": gateway.KeyID()})
	}
}
