package service

import (
	"context"
	"fmt"
	"time"

	"escrow-custody-gateway/internal/core/domain"
	"escrow-custody-gateway/internal/core/ports"
	"escrow-custody-gateway/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// WalletCustodyEngine implements ports.WalletService. It owns the wallet
// and coin-address aggregates and is the only component that touches
// private key material (always through the secret store).
type WalletCustodyEngine struct {
	walletRepo ports.WalletRepository
	addrRepo   ports.CoinAddressRepository
	wtxRepo    ports.WalletTransactionRepository
	transactor ports.DBTransactor
	secrets    ports.SecretStore
	factory    ports.AddressFactory
	reader     ports.ChainReader
	builder    ports.ChainTxBuilder
	log        zerolog.Logger
}

// NewWalletCustodyEngine creates the custody engine.
func NewWalletCustodyEngine(
	walletRepo ports.WalletRepository,
	addrRepo ports.CoinAddressRepository,
	wtxRepo ports.WalletTransactionRepository,
	transactor ports.DBTransactor,
	secrets ports.SecretStore,
	factory ports.AddressFactory,
	reader ports.ChainReader,
	builder ports.ChainTxBuilder,
	log zerolog.Logger,
) *WalletCustodyEngine {
	return &WalletCustodyEngine{
		walletRepo: walletRepo,
		addrRepo:   addrRepo,
		wtxRepo:    wtxRepo,
		transactor: transactor,
		secrets:    secrets,
		factory:    factory,
		reader:     reader,
		builder:    builder,
		log:        log,
	}
}

// CreateWallet creates the user's custodial wallet with addresses for every
// default coin, as one logical unit: no address row can exist without its
// wallet row. Idempotent: an existing wallet is returned as-is.
func (s *WalletCustodyEngine) CreateWallet(ctx context.Context, userID uuid.UUID) (*domain.Wallet, error) {
	existing, err := s.walletRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lookup wallet: %w", err))
	}
	if existing != nil {
		return existing, nil
	}

	mnemonic, err := s.factory.GenerateMasterSecret()
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("generate master secret: %w", err))
	}
	encSecret, err := s.secrets.Encrypt(mnemonic)
	if err != nil {
		return nil, apperror.ErrEncryptionFailure(fmt.Errorf("encrypt master secret: %w", err))
	}

	now := time.Now().UTC()
	wallet := &domain.Wallet{
		ID:                    uuid.New(),
		UserID:                userID,
		Name:                  "primary",
		EncryptedMasterSecret: encSecret,
		IsActive:              true,
		CreatedAt:             now,
		UpdatedAt:             now,
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	if err := s.walletRepo.Create(ctx, dbTx, wallet); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create wallet: %w", err))
	}

	for _, symbol := range domain.DefaultCoins() {
		addr, err := s.buildCoinAddress(wallet.ID, mnemonic, symbol, true, now)
		if err != nil {
			return nil, err
		}
		if err := s.addrRepo.Create(ctx, dbTx, addr); err != nil {
			return nil, apperror.InternalError(fmt.Errorf("create %s address: %w", symbol, err))
		}
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().
		Str("wallet_id", wallet.ID.String()).
		Str("user_id", userID.String()).
		Msg("custodial wallet created")

	return wallet, nil
}

// GetWallet returns the user's wallet or a not-found error.
func (s *WalletCustodyEngine) GetWallet(ctx context.Context, userID uuid.UUID) (*domain.Wallet, error) {
	wallet, err := s.walletRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lookup wallet: %w", err))
	}
	if wallet == nil {
		return nil, apperror.ErrNotFound("wallet")
	}
	return wallet, nil
}

// AddCoin derives and persists the address for (wallet, symbol).
// Idempotent: an existing address is returned unchanged.
func (s *WalletCustodyEngine) AddCoin(ctx context.Context, walletID uuid.UUID, symbol string) (*domain.CoinAddress, error) {
	if _, ok := domain.Coin(symbol); !ok {
		return nil, apperror.ErrUnsupportedCoin(symbol)
	}

	existing, err := s.addrRepo.GetByWalletAndSymbol(ctx, walletID, symbol)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lookup coin address: %w", err))
	}
	if existing != nil {
		return existing, nil
	}

	wallet, err := s.walletRepo.GetByID(ctx, walletID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lookup wallet: %w", err))
	}
	if wallet == nil {
		return nil, apperror.ErrNotFound("wallet")
	}
	if !wallet.IsActive {
		return nil, apperror.ErrWalletInactive()
	}

	mnemonic, err := s.secrets.Decrypt(wallet.EncryptedMasterSecret)
	if err != nil {
		return nil, apperror.ErrEncryptionFailure(fmt.Errorf("decrypt master secret: %w", err))
	}

	now := time.Now().UTC()
	addr, err := s.buildCoinAddress(wallet.ID, mnemonic, symbol, false, now)
	if err != nil {
		return nil, err
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	if err := s.addrRepo.Create(ctx, dbTx, addr); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create coin address: %w", err))
	}
	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	return addr, nil
}

// GetBalance returns a freshly refreshed balance. When the live refresh
// fails the cached value is returned instead, flagged Stale so the caller
// can distinguish it from a fresh read.
func (s *WalletCustodyEngine) GetBalance(ctx context.Context, walletID uuid.UUID, symbol string) (*domain.BalanceReading, error) {
	addr, err := s.addrRepo.GetByWalletAndSymbol(ctx, walletID, symbol)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lookup coin address: %w", err))
	}
	if addr == nil {
		return nil, apperror.ErrNotFound("coin address")
	}

	live, err := s.reader.ConfirmedBalance(ctx, symbol, addr.Address)
	if err != nil {
		s.log.Warn().Err(err).
			Str("symbol", symbol).
			Str("address", addr.Address).
			Msg("live balance refresh failed, falling back to cached value")
		refreshedAt := addr.CreatedAt
		if addr.RefreshedAt != nil {
			refreshedAt = *addr.RefreshedAt
		}
		return &domain.BalanceReading{
			Symbol:      symbol,
			Address:     addr.Address,
			Amount:      addr.Balance,
			Stale:       true,
			RefreshedAt: refreshedAt,
		}, nil
	}

	now := time.Now().UTC()
	if err := s.addrRepo.UpdateBalance(ctx, addr.ID, live, addr.BalanceUSD, now); err != nil {
		s.log.Warn().Err(err).Str("symbol", symbol).Msg("persisting refreshed balance failed")
	}

	return &domain.BalanceReading{
		Symbol:      symbol,
		Address:     addr.Address,
		Amount:      live,
		RefreshedAt: now,
	}, nil
}

// RefreshBalances refreshes every coin in the wallet at the chain's
// configured confirmation depth. Per-coin failures are collected and
// reported; they never fail the batch.
func (s *WalletCustodyEngine) RefreshBalances(ctx context.Context, walletID uuid.UUID) (*ports.RefreshReport, error) {
	addrs, err := s.addrRepo.ListByWallet(ctx, walletID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list coin addresses: %w", err))
	}
	if len(addrs) == 0 {
		return nil, apperror.ErrNotFound("wallet")
	}

	report := &ports.RefreshReport{Failed: make(map[string]string)}
	for _, addr := range addrs {
		live, err := s.reader.ConfirmedBalance(ctx, addr.Symbol, addr.Address)
		if err != nil {
			report.Failed[addr.Symbol] = err.Error()
			continue
		}
		now := time.Now().UTC()
		if err := s.addrRepo.UpdateBalance(ctx, addr.ID, live, addr.BalanceUSD, now); err != nil {
			report.Failed[addr.Symbol] = err.Error()
			continue
		}
		report.Refreshed = append(report.Refreshed, domain.BalanceReading{
			Symbol:      addr.Symbol,
			Address:     addr.Address,
			Amount:      live,
			RefreshedAt: now,
		})
	}
	if len(report.Failed) == 0 {
		report.Failed = nil
	}
	return report, nil
}

// Transfer spends from custody. The live balance is re-checked immediately
// before building the transaction (check-then-act; the remaining window is
// documented and accepted for supervised transfers). One ledger row is
// written per attempt and finalized with the broadcast hash and fee; a
// failed broadcast is recorded and never retried here, since a retry must
// restart UTXO/nonce selection.
func (s *WalletCustodyEngine) Transfer(ctx context.Context, req ports.WalletTransferRequest) (*domain.WalletTransaction, error) {
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, apperror.ErrInvalidAmount()
	}
	if req.ToAddress == "" {
		return nil, apperror.ErrInvalidAddress(req.ToAddress)
	}
	spec, ok := domain.Coin(req.Symbol)
	if !ok {
		return nil, apperror.ErrUnsupportedCoin(req.Symbol)
	}

	wallet, err := s.walletRepo.GetByID(ctx, req.WalletID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lookup wallet: %w", err))
	}
	if wallet == nil {
		return nil, apperror.ErrNotFound("wallet")
	}
	if !wallet.IsActive {
		return nil, apperror.ErrWalletInactive()
	}

	addr, err := s.addrRepo.GetByWalletAndSymbol(ctx, req.WalletID, req.Symbol)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lookup coin address: %w", err))
	}
	if addr == nil {
		return nil, apperror.ErrNotFound("coin address")
	}

	// Ledger-side release guard: a trade with a non-failed outbound row
	// already has funds in flight, whatever the trade row says.
	if req.TradeID != nil {
		released, err := s.wtxRepo.CountReleasesByTrade(ctx, *req.TradeID)
		if err != nil {
			return nil, apperror.InternalError(fmt.Errorf("count trade releases: %w", err))
		}
		if released > 0 {
			return nil, apperror.ErrReleaseAlreadyInitiated()
		}
	}

	// Pre-flight sufficiency against a live read. Insufficient funds never
	// reach the network.
	outgoing := req.Amount.Add(req.PlatformFee).Add(req.BrokerFee)
	live, err := s.reader.ConfirmedBalance(ctx, req.Symbol, addr.Address)
	if err != nil {
		return nil, apperror.ErrChainUnavailable(fmt.Errorf("pre-flight balance: %w", err))
	}
	if live.LessThan(outgoing) {
		return nil, apperror.ErrInsufficientFunds(req.Symbol)
	}

	mnemonic, err := s.secrets.Decrypt(wallet.EncryptedMasterSecret)
	if err != nil {
		return nil, apperror.ErrEncryptionFailure(fmt.Errorf("decrypt master secret: %w", err))
	}
	derived, err := s.factory.Derive(mnemonic, req.Symbol)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	wtx := &domain.WalletTransaction{
		ID:            uuid.New(),
		WalletID:      wallet.ID,
		CoinAddressID: addr.ID,
		Direction:     domain.DirectionOutbound,
		Counterpart:   req.ToAddress,
		Symbol:        spec.Symbol,
		Amount:        req.Amount,
		TradeID:       req.TradeID,
		Status:        domain.TransferStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.wtxRepo.Create(ctx, wtx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create ledger row: %w", err))
	}

	result, err := s.builder.BuildAndSend(ctx, ports.TransferRequest{
		Symbol:             spec.Symbol,
		FromAddress:        addr.Address,
		PrivateKeyHex:      derived.PrivateKeyHex,
		To:                 req.ToAddress,
		Amount:             req.Amount,
		PlatformFeeAddress: req.PlatformFeeAddress,
		PlatformFee:        req.PlatformFee,
		BrokerFeeAddress:   req.BrokerFeeAddress,
		BrokerFee:          req.BrokerFee,
	})
	if err != nil {
		if uerr := s.wtxRepo.UpdateStatus(ctx, wtx.ID, domain.TransferStatusFailed); uerr != nil {
			s.log.Error().Err(uerr).Str("wtx_id", wtx.ID.String()).Msg("marking ledger row failed")
		}
		wtx.Status = domain.TransferStatusFailed
		return wtx, err
	}

	status := domain.TransferStatusConfirmed
	if result.Unconfirmed {
		status = domain.TransferStatusUnconfirmed
	}
	wtx.TxHash = result.TxHash
	wtx.FeePaid = result.FeePaid
	wtx.Status = status
	if err := s.wtxRepo.Finalize(ctx, wtx.ID, result.TxHash, result.FeePaid, status); err != nil {
		s.log.Error().Err(err).Str("wtx_id", wtx.ID.String()).Msg("finalizing ledger row")
	}

	// Decrement the cached balance by amount plus whatever gas the spend
	// consumed from this same balance.
	spent := outgoing
	if spec.GasSymbol() == spec.Symbol {
		spent = spent.Add(result.FeePaid)
	}
	newBalance := addr.Balance.Sub(spent)
	if newBalance.IsNegative() {
		newBalance = decimal.Zero
	}
	if err := s.addrRepo.UpdateBalance(ctx, addr.ID, newBalance, addr.BalanceUSD, now); err != nil {
		s.log.Warn().Err(err).Str("address", addr.Address).Msg("decrementing cached balance failed")
	}

	s.log.Info().
		Str("wtx_id", wtx.ID.String()).
		Str("tx_hash", result.TxHash).
		Str("symbol", spec.Symbol).
		Str("amount", req.Amount.String()).
		Bool("unconfirmed", result.Unconfirmed).
		Msg("transfer broadcast")

	return wtx, nil
}

// DeactivateWallet soft-disables the wallet. History survives.
func (s *WalletCustodyEngine) DeactivateWallet(ctx context.Context, userID uuid.UUID) error {
	wallet, err := s.walletRepo.GetByUserID(ctx, userID)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("lookup wallet: %w", err))
	}
	if wallet == nil {
		return apperror.ErrNotFound("wallet")
	}
	if err := s.walletRepo.Deactivate(ctx, wallet.ID); err != nil {
		return apperror.InternalError(fmt.Errorf("deactivate wallet: %w", err))
	}
	s.log.Info().Str("wallet_id", wallet.ID.String()).Msg("wallet deactivated")
	return nil
}

func (s *WalletCustodyEngine) buildCoinAddress(walletID uuid.UUID, mnemonic, symbol string, isDefault bool, now time.Time) (*domain.CoinAddress, error) {
	spec, _ := domain.Coin(symbol)
	derived, err := s.factory.Derive(mnemonic, symbol)
	if err != nil {
		return nil, err
	}
	encPriv, err := s.secrets.Encrypt(derived.PrivateKeyHex)
	if err != nil {
		return nil, apperror.ErrEncryptionFailure(fmt.Errorf("encrypt private key: %w", err))
	}
	return &domain.CoinAddress{
		ID:                  uuid.New(),
		WalletID:            walletID,
		Symbol:              spec.Symbol,
		Network:             spec.Network,
		Address:             derived.Address,
		EncryptedPrivateKey: encPriv,
		DerivationPath:      derived.DerivationPath,
		IsDefault:           isDefault,
		Balance:             decimal.Zero,
		BalanceUSD:          decimal.Zero,
		CreatedAt:           now,
		UpdatedAt:           now,
	}, nil
}
