package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/localhandler/marketplace/internal/api/middleware"
	"github.com/localhandler/marketplace/internal/notify"
	"github.com/localhandler/marketplace/internal/repository"
	"github.com/localhandler/marketplace/internal/service"
	"github.com/localhandler/marketplace/internal/validation"
	"github.com/localhandler/marketplace/pkg/errors"
)

// HandleCreateOrder handles POST /order/create-order
func HandleCreateOrder(repos *repository.Repositories, publisher notify.Publisher, v *validatorv10.Validate, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := middleware.GetActorFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "unauthorized"})
			return
		}

		var req service.CheckoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, logger, &errors.ErrValidation{Message: err.Error()})
			return
		}
		if err := v.Struct(req); err != nil {
			respondError(c, logger, &errors.ErrValidation{Message: validation.Message(err)})
			return
		}

		orderService := service.NewOrderService(repos, publisher, logger)
		orders, err := orderService.CreateFromCheckout(c.Request.Context(), actor, req)
		if err != nil {
			middleware.RecordOperation("order_create", false)
			// Creation is not transactional across shops: surface the
			// orders that were persisted before the failure.
			if len(orders) > 0 {
				c.JSON(http.StatusInternalServerError, gin.H{
					"success": false,
					"message": "order creation partially failed",
					"orders":  toOrderResponses(orders),
				})
				return
			}
			respondError(c, logger, err)
			return
		}

		middleware.RecordOperation("order_create", true)
		c.JSON(http.StatusCreated, gin.H{
			"success": true,
			"orders":  toOrderResponses(orders),
		})
	}
}

// HandleGetBuyerOrders handles GET /order/get-all-orders/:userId
func HandleGetBuyerOrders(repos *repository.Repositories, publisher notify.Publisher, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := middleware.GetActorFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "unauthorized"})
			return
		}

		buyerID, err := uuid.Parse(c.Param("userId"))
		if err != nil {
			respondError(c, logger, &errors.ErrValidation{Message: "invalid user ID"})
			return
		}

		orderService := service.NewOrderService(repos, publisher, logger)
		orders, err := orderService.ListForBuyer(c.Request.Context(), actor, buyerID)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "orders": toOrderResponses(orders)})
	}
}

// HandleGetShopOrders handles GET /order/get-seller-all-orders/:shopId
func HandleGetShopOrders(repos *repository.Repositories, publisher notify.Publisher, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := middleware.GetActorFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "unauthorized"})
			return
		}

		shopID, err := uuid.Parse(c.Param("shopId"))
		if err != nil {
			respondError(c, logger, &errors.ErrValidation{Message: "invalid shop ID"})
			return
		}

		orderService := service.NewOrderService(repos, publisher, logger)
		orders, err := orderService.ListForShop(c.Request.Context(), actor, shopID)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "orders": toOrderResponses(orders)})
	}
}

// HandleUpdateOrderStatus handles PUT /order/update-order-status/:id
func HandleUpdateOrderStatus(repos *repository.Repositories, publisher notify.Publisher, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := middleware.GetActorFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "unauthorized"})
			return
		}

		orderID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			respondError(c, logger, &errors.ErrValidation{Message: "invalid order ID"})
			return
		}

		var req service.UpdateOrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, logger, &errors.ErrValidation{Message: err.Error()})
			return
		}

		orderService := service.NewOrderService(repos, publisher, logger)
		order, err := orderService.UpdateStatus(c.Request.Context(), actor, orderID, req)
		if err != nil {
			middleware.RecordOperation("order_status_update", false)
			respondError(c, logger, err)
			return
		}

		middleware.RecordOperation("order_status_update", true)
		c.JSON(http.StatusOK, gin.H{"success": true, "order": toOrderResponse(order)})
	}
}

// HandleRequestRefund handles PUT /order/order-refund/:id
func HandleRequestRefund(repos *repository.Repositories, publisher notify.Publisher, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := middleware.GetActorFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "unauthorized"})
			return
		}

		orderID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			respondError(c, logger, &errors.ErrValidation{Message: "invalid order ID"})
			return
		}

		var req service.RefundRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, logger, &errors.ErrValidation{Message: err.Error()})
			return
		}

		orderService := service.NewOrderService(repos, publisher, logger)
		order, err := orderService.RequestRefund(c.Request.Context(), actor, orderID, req)
		if err != nil {
			middleware.RecordOperation("order_refund_request", false)
			respondError(c, logger, err)
			return
		}

		middleware.RecordOperation("order_refund_request", true)
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"order":   toOrderResponse(order),
			"message": "Order Refund Request successfully!",
		})
	}
}

// HandleApproveRefund handles PUT /order/order-refund-success/:id
func HandleApproveRefund(repos *repository.Repositories, publisher notify.Publisher, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := middleware.GetActorFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "unauthorized"})
			return
		}

		orderID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			respondError(c, logger, &errors.ErrValidation{Message: "invalid order ID"})
			return
		}

		var req service.RefundRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, logger, &errors.ErrValidation{Message: err.Error()})
			return
		}

		orderService := service.NewOrderService(repos, publisher, logger)
		if _, err := orderService.ApproveRefund(c.Request.Context(), actor, orderID, req); err != nil {
			middleware.RecordOperation("order_refund_approve", false)
			respondError(c, logger, err)
			return
		}

		middleware.RecordOperation("order_refund_approve", true)
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Order Refund successful!"})
	}
}

// HandleAdminAllOrders handles GET /order/admin-all-orders
func HandleAdminAllOrders(repos *repository.Repositories, publisher notify.Publisher, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := middleware.GetActorFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "unauthorized"})
			return
		}

		orderService := service.NewOrderService(repos, publisher, logger)
		orders, err := orderService.ListAll(c.Request.Context(), actor)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "orders": toOrderResponses(orders)})
	}
}

// HandleInvoice handles GET /order/invoice/:id
func HandleInvoice(repos *repository.Repositories, publisher notify.Publisher, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := middleware.GetActorFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "unauthorized"})
			return
		}

		orderID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			respondError(c, logger, &errors.ErrValidation{Message: "invalid order ID"})
			return
		}

		orderService := service.NewOrderService(repos, publisher, logger)
		order, err := orderService.Invoice(c.Request.Context(), actor, orderID)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "invoice": toOrderResponse(order)})
	}
}
