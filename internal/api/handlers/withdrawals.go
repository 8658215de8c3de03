package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/localhandler/marketplace/internal/api/middleware"
	"github.com/localhandler/marketplace/internal/mail"
	"github.com/localhandler/marketplace/internal/notify"
	"github.com/localhandler/marketplace/internal/repository"
	"github.com/localhandler/marketplace/internal/service"
	"github.com/localhandler/marketplace/pkg/errors"
)

// HandleCreateWithdraw handles POST /withdraw/create-withdraw-request
func HandleCreateWithdraw(repos *repository.Repositories, mailer mail.Mailer, publisher notify.Publisher, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := middleware.GetActorFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "unauthorized"})
			return
		}

		var req service.CreateWithdrawRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, logger, &errors.ErrValidation{Message: "invalid withdrawal amount"})
			return
		}

		withdrawService := service.NewWithdrawService(repos, mailer, publisher, logger)
		withdraw, err := withdrawService.Request(c.Request.Context(), actor, req.Amount)
		if err != nil {
			middleware.RecordOperation("withdraw_request", false)
			respondError(c, logger, err)
			return
		}

		middleware.RecordOperation("withdraw_request", true)
		c.JSON(http.StatusCreated, gin.H{
			"success":  true,
			"withdraw": toWithdrawResponse(withdraw),
		})
	}
}

// HandleListWithdraws handles GET /withdraw/get-all-withdraw-request
func HandleListWithdraws(repos *repository.Repositories, mailer mail.Mailer, publisher notify.Publisher, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := middleware.GetActorFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "unauthorized"})
			return
		}

		withdrawService := service.NewWithdrawService(repos, mailer, publisher, logger)
		withdraws, err := withdrawService.ListAll(c.Request.Context(), actor)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		responses := make([]WithdrawResponse, len(withdraws))
		for i, w := range withdraws {
			responses[i] = toWithdrawResponse(w)
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "withdraws": responses})
	}
}

// HandleSellerWithdraws handles GET /withdraw/get-seller-withdraw-requests
func HandleSellerWithdraws(repos *repository.Repositories, mailer mail.Mailer, publisher notify.Publisher, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := middleware.GetActorFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "unauthorized"})
			return
		}

		withdrawService := service.NewWithdrawService(repos, mailer, publisher, logger)
		withdraws, err := withdrawService.ListForSeller(c.Request.Context(), actor)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		responses := make([]WithdrawResponse, len(withdraws))
		for i, w := range withdraws {
			responses[i] = toWithdrawResponse(w)
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "withdraws": responses})
	}
}

// HandleResolveWithdraw handles PUT /withdraw/update-withdraw-request/:id
func HandleResolveWithdraw(repos *repository.Repositories, mailer mail.Mailer, publisher notify.Publisher, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := middleware.GetActorFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "unauthorized"})
			return
		}

		withdrawID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			respondError(c, logger, &errors.ErrValidation{Message: "invalid withdraw ID"})
			return
		}

		var req service.ResolveWithdrawRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, logger, &errors.ErrValidation{Message: err.Error()})
			return
		}

		withdrawService := service.NewWithdrawService(repos, mailer, publisher, logger)
		withdraw, err := withdrawService.Resolve(c.Request.Context(), actor, withdrawID, req)
		if err != nil {
			middleware.RecordOperation("withdraw_resolve", false)
			respondError(c, logger, err)
			return
		}

		middleware.RecordOperation("withdraw_resolve", true)
		c.JSON(http.StatusOK, gin.H{
			"success":       true,
			"withdraw":      toWithdrawResponse(withdraw),
			"finalAmount":   withdraw.Amount,
			"serviceCharge": withdraw.ServiceCharge,
		})
	}
}
