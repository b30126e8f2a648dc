package handler

import (
	"escrow-custody-gateway/internal/adapter/http/middleware"
	"escrow-custody-gateway/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	TradeSvc       ports.TradeService
	WalletSvc      ports.WalletService
	BrokerSvc      ports.BrokerService
	TokenSvc       ports.TokenService
	AddrRepo       ports.CoinAddressRepository
	Ledger         ports.WalletTransactionRepository
	HealthCheckers []ports.HealthChecker
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	// Health check (deep — verifies PostgreSQL + Redis)
	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	// API v1 routes
	v1 := r.Group("/api/v1")

	// --- Webhooks (gateway callbacks, no user auth) ---
	webhookHandler := NewWebhookHandler(deps.TradeSvc, deps.Logger)
	v1.POST("/webhooks/gateway", webhookHandler.HandleGatewayEvent)

	// --- JWT-authenticated routes ---
	jwtAuth := middleware.JWTAuth(deps.TokenSvc, deps.Logger)

	tradeHandler := NewTradeHandler(deps.TradeSvc)
	trades := v1.Group("/trades", jwtAuth)
	{
		trades.POST("", tradeHandler.Open)
		trades.GET("/:id", tradeHandler.Get)
		trades.PUT("/:id/price", tradeHandler.SetPrice)
		trades.POST("/:id/invoice", tradeHandler.AttachInvoice)
		trades.POST("/:id/deposit-address", tradeHandler.DepositAddress)
		trades.POST("/:id/confirm-deposit", tradeHandler.ConfirmDeposit)
		trades.POST("/:id/join", tradeHandler.Join)
		trades.POST("/:id/fiat-proof", tradeHandler.SubmitFiatProof)
		trades.POST("/:id/approve-fiat", tradeHandler.ApproveFiat)
		trades.POST("/:id/reject-fiat", tradeHandler.RejectFiat)
		trades.POST("/:id/release", tradeHandler.Release)
		trades.POST("/:id/cancel", tradeHandler.Cancel)
		trades.POST("/:id/disputes", tradeHandler.OpenDispute)
	}

	walletHandler := NewWalletHandler(deps.WalletSvc, deps.AddrRepo, deps.Ledger)
	wallet := v1.Group("/wallet", jwtAuth)
	{
		wallet.POST("", walletHandler.Create)
		wallet.GET("", walletHandler.Get)
		wallet.DELETE("", walletHandler.Deactivate)
		wallet.POST("/coins", walletHandler.AddCoin)
		wallet.GET("/balance/:symbol", walletHandler.GetBalance)
		wallet.POST("/refresh", walletHandler.RefreshBalances)
		wallet.POST("/transfer", walletHandler.Transfer)
		wallet.GET("/transactions", walletHandler.ListTransfers)
	}

	brokerHandler := NewBrokerHandler(deps.BrokerSvc)
	brokers := v1.Group("/brokers", jwtAuth)
	{
		brokers.POST("", brokerHandler.Register)
		brokers.POST("/:id/assign", brokerHandler.Assign)
		brokers.POST("/:id/approve", brokerHandler.Approve)
		brokers.POST("/:id/rate", brokerHandler.Rate)
	}

	// --- Admin-gated routes ---
	admin := v1.Group("", jwtAuth, middleware.AdminOnly())
	{
		admin.POST("/brokers/:id/verify", brokerHandler.Verify)
		admin.POST("/disputes/:id/resolve", tradeHandler.ResolveDispute)
	}

	return r
}
