package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/localhandler/marketplace/internal/api/middleware"
	"github.com/localhandler/marketplace/internal/repository"
	"github.com/localhandler/marketplace/internal/service"
	"github.com/localhandler/marketplace/pkg/errors"
)

// HandleUpdateWithdrawMethod handles PUT /shop/update-payment-methods
func HandleUpdateWithdrawMethod(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := middleware.GetActorFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "unauthorized"})
			return
		}

		var req service.UpdateWithdrawMethodRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, logger, &errors.ErrValidation{Message: err.Error()})
			return
		}

		shopService := service.NewShopService(repos, logger)
		shop, err := shopService.SetWithdrawMethod(c.Request.Context(), actor, req)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success":        true,
			"withdrawMethod": shop.WithdrawMethod,
		})
	}
}

// HandleDeleteWithdrawMethod handles DELETE /shop/delete-withdraw-method
func HandleDeleteWithdrawMethod(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := middleware.GetActorFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "unauthorized"})
			return
		}

		shopService := service.NewShopService(repos, logger)
		if err := shopService.ClearWithdrawMethod(c.Request.Context(), actor); err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Withdraw method deleted successfully!"})
	}
}

// HandleShopTransactions handles GET /shop/transactions
func HandleShopTransactions(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := middleware.GetActorFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "unauthorized"})
			return
		}

		shopService := service.NewShopService(repos, logger)
		transactions, err := shopService.Transactions(c.Request.Context(), actor)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		responses := make([]gin.H, len(transactions))
		for i, tx := range transactions {
			responses[i] = gin.H{
				"id":            tx.ID.String(),
				"type":          string(tx.Type),
				"amount":        tx.Amount,
				"serviceCharge": tx.ServiceCharge,
				"finalAmount":   tx.FinalAmount,
				"status":        tx.Status,
				"createdAt":     tx.CreatedAt.Format(time.RFC3339),
				"updatedAt":     tx.UpdatedAt.Format(time.RFC3339),
			}
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "transactions": responses})
	}
}
