package api

import (
	"time"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/localhandler/marketplace/internal/api/handlers"
	"github.com/localhandler/marketplace/internal/api/middleware"
	"github.com/localhandler/marketplace/internal/config"
	"github.com/localhandler/marketplace/internal/domain"
	"github.com/localhandler/marketplace/internal/mail"
	"github.com/localhandler/marketplace/internal/notify"
	"github.com/localhandler/marketplace/internal/payment"
	"github.com/localhandler/marketplace/internal/repository"
)

// NewRouter creates and configures the Gin router
func NewRouter(
	cfg *config.Config,
	repos *repository.Repositories,
	mailer mail.Mailer,
	publisher notify.Publisher,
	gateway payment.Gateway,
	v *validatorv10.Validate,
	logger *zap.Logger,
) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(gin.Recovery())
	router.Use(loggingMiddleware(logger))
	router.Use(middleware.PrometheusMiddleware())

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	auth := middleware.AuthMiddleware(cfg.Auth, logger)

	orderRoutes := router.Group("/order")
	orderRoutes.Use(auth)
	{
		orderRoutes.POST("/create-order",
			middleware.RequireActorType(domain.ActorTypeUser),
			handlers.HandleCreateOrder(repos, publisher, v, logger))
		orderRoutes.GET("/get-all-orders/:userId",
			middleware.RequireActorType(domain.ActorTypeUser),
			handlers.HandleGetBuyerOrders(repos, publisher, logger))
		orderRoutes.GET("/get-seller-all-orders/:shopId",
			middleware.RequireActorType(domain.ActorTypeSeller),
			handlers.HandleGetShopOrders(repos, publisher, logger))
		orderRoutes.PUT("/update-order-status/:id",
			middleware.RequireActorType(domain.ActorTypeSeller),
			handlers.HandleUpdateOrderStatus(repos, publisher, logger))
		orderRoutes.PUT("/order-refund/:id",
			middleware.RequireActorType(domain.ActorTypeUser),
			handlers.HandleRequestRefund(repos, publisher, logger))
		orderRoutes.PUT("/order-refund-success/:id",
			middleware.RequireActorType(domain.ActorTypeSeller),
			handlers.HandleApproveRefund(repos, publisher, logger))
		orderRoutes.GET("/invoice/:id",
			handlers.HandleInvoice(repos, publisher, logger))
		orderRoutes.GET("/admin-all-orders",
			middleware.RequireActorType(domain.ActorTypeAdmin),
			handlers.HandleAdminAllOrders(repos, publisher, logger))
	}

	withdrawRoutes := router.Group("/withdraw")
	withdrawRoutes.Use(auth)
	{
		withdrawRoutes.POST("/create-withdraw-request",
			middleware.RequireActorType(domain.ActorTypeSeller),
			handlers.HandleCreateWithdraw(repos, mailer, publisher, logger))
		withdrawRoutes.GET("/get-seller-withdraw-requests",
			middleware.RequireActorType(domain.ActorTypeSeller),
			handlers.HandleSellerWithdraws(repos, mailer, publisher, logger))
		withdrawRoutes.GET("/get-all-withdraw-request",
			middleware.RequireActorType(domain.ActorTypeAdmin),
			handlers.HandleListWithdraws(repos, mailer, publisher, logger))
		withdrawRoutes.PUT("/update-withdraw-request/:id",
			middleware.RequireActorType(domain.ActorTypeAdmin),
			handlers.HandleResolveWithdraw(repos, mailer, publisher, logger))
	}

	shopRoutes := router.Group("/shop")
	shopRoutes.Use(auth, middleware.RequireActorType(domain.ActorTypeSeller))
	{
		shopRoutes.PUT("/update-payment-methods", handlers.HandleUpdateWithdrawMethod(repos, logger))
		shopRoutes.DELETE("/delete-withdraw-method", handlers.HandleDeleteWithdrawMethod(repos, logger))
		shopRoutes.GET("/transactions", handlers.HandleShopTransactions(repos, logger))
	}

	paymentRoutes := router.Group("/payment")
	paymentRoutes.Use(auth)
	{
		paymentRoutes.POST("/checkout", handlers.HandleCreatePayment(gateway, logger))
		paymentRoutes.GET("/key", handlers.HandleGetPaymentKey(gateway, logger))
	}

	return router
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		status := c.Writer.Status()
		logger.Info("HTTP request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("duration", time.Since(start)),
		)
	}
}
