package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"escrow-custody-gateway/config"
	"escrow-custody-gateway/internal/adapter/chain"
	"escrow-custody-gateway/internal/adapter/chain/eth"
	"escrow-custody-gateway/internal/adapter/chain/utxo"
	httpHandler "escrow-custody-gateway/internal/adapter/http/handler"
	pgStorage "escrow-custody-gateway/internal/adapter/storage/postgres"
	redisStorage "escrow-custody-gateway/internal/adapter/storage/redis"
	"escrow-custody-gateway/internal/core/domain"
	"escrow-custody-gateway/internal/core/ports"
	"escrow-custody-gateway/internal/scheduler"
	"escrow-custody-gateway/internal/service"
	"escrow-custody-gateway/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Msg("Starting Escrow Custody Gateway")

	ctx := context.Background()

	// Initialize PostgreSQL pool
	pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()
	log.Info().Msg("PostgreSQL connected")

	// Initialize Redis client
	rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()
	log.Info().Msg("Redis connected")

	// Initialize repositories
	walletRepo := pgStorage.NewWalletRepo(pool)
	addrRepo := pgStorage.NewCoinAddressRepo(pool)
	tradeRepo := pgStorage.NewTradeRepo(pool)
	disputeRepo := pgStorage.NewDisputeRepo(pool)
	brokerRepo := pgStorage.NewBrokerRepo(pool)
	wtxRepo := pgStorage.NewWalletTxRepo(pool)
	transactor := pgStorage.NewTransactor(pool)

	// Initialize Redis stores
	webhookDedup := redisStorage.NewWebhookDedup(rdb)
	chainCache := redisStorage.NewChainCache(rdb)

	// Initialize chain adapters
	registry := chain.NewRegistry()
	for _, symbol := range []string{"BTC", "LTC"} {
		spec, _ := domain.Coin(symbol)
		chainCfg, _ := cfg.Chains.ForSymbol(symbol)
		explorer := utxo.NewExplorerClient(chainCfg.Endpoints, chainCfg.RequestTimeout, logger.Component(log, symbol))
		builder := utxo.NewBuilder(spec, explorer, chainCfg.ConfirmationDepth, chainCfg.FeeRateSatPerVB, logger.Component(log, symbol))
		registry.Register(symbol, builder, builder)
	}

	ethCfg := cfg.Chains.ETH
	backend, err := eth.Dial(ctx, ethCfg.Endpoints, logger.Component(log, "eth"))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to an Ethereum endpoint")
	}
	defer backend.Close()
	ethBuilder := eth.NewBuilder(backend, ethCfg.ChainID, cfg.Fees.GasSafetyPercent, ethCfg.ReceiptWait, chainCache, logger.Component(log, "eth"))
	ethReader := eth.NewReader(backend, uint64(ethCfg.ConfirmationDepth), chainCache)
	gasEstimator := eth.NewEstimator(backend, chainCache, cfg.Fees.GasSafetyPercent, cfg.Fees.FallbackGasGwei, logger.Component(log, "eth"))
	registry.Register("ETH", ethBuilder, ethReader)
	registry.Register("USDT", ethBuilder, ethReader)

	// Initialize core services
	secrets, err := service.NewAESSecretStore(cfg.Secrets.AESKey, cfg.Secrets.Posture, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize secret store")
	}
	factory := service.NewChainAddressFactory()
	tokenSvc := service.NewJWTTokenService(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer)

	// Initialize business services
	feeSvc := service.NewFeeCalculator(cfg.Fees, gasEstimator, logger.Component(log, "fees"))
	walletSvc := service.NewWalletCustodyEngine(
		walletRepo, addrRepo, wtxRepo, transactor,
		secrets, factory, registry, registry,
		logger.Component(log, "wallet"),
	)
	tradeSvc := service.NewTradeEscrowEngine(
		tradeRepo, disputeRepo, brokerRepo, addrRepo,
		walletSvc, feeSvc, registry, webhookDedup,
		cfg.Fees, logger.Component(log, "trade"),
	)
	brokerSvc := service.NewBrokerMediator(brokerRepo, tradeRepo, logger.Component(log, "broker"))

	// Initialize health checkers
	pgHealth := pgStorage.NewHealthCheck(pool)
	redisHealth := redisStorage.NewHealthCheck(rdb)

	// Start the trade cleanup scheduler
	cleanupCtx, cancelCleanup := context.WithCancel(ctx)
	cleanup := scheduler.NewCleanup(tradeRepo, cfg.Cleanup, logger.Component(log, "cleanup"))
	cleanup.Start(cleanupCtx)

	// Setup Gin router with all routes
	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		TradeSvc:       tradeSvc,
		WalletSvc:      walletSvc,
		BrokerSvc:      brokerSvc,
		TokenSvc:       tokenSvc,
		AddrRepo:       addrRepo,
		Ledger:         wtxRepo,
		HealthCheckers: []ports.HealthChecker{pgHealth, redisHealth},
		Logger:         log,
	})

	// HTTP Server with graceful shutdown
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	cancelCleanup()
	cleanup.Wait()

	log.Info().Msg("Server exited")
}
