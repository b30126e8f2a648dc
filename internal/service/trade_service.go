package service

import (
	"context"
	"fmt"
	"time"

	"escrow-custody-gateway/config"
	"escrow-custody-gateway/internal/core/domain"
	"escrow-custody-gateway/internal/core/ports"
	"escrow-custody-gateway/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const webhookDedupTTL = 24 * time.Hour

// TradeEscrowEngine implements ports.TradeService: the escrow state
// machine. Every transition that depends on a precondition goes through a
// conditional repository update (compare-and-swap on the trade's current
// state), so two concurrent attempts cannot both pass a guard. Crypto
// release is the critical case: the release marker is set before the chain
// transfer, making release at-most-once per trade.
type TradeEscrowEngine struct {
	tradeRepo   ports.TradeRepository
	disputeRepo ports.DisputeRepository
	brokerRepo  ports.BrokerRepository
	addrRepo    ports.CoinAddressRepository
	wallets     ports.WalletService
	fees        ports.FeeService
	reader      ports.ChainReader
	dedup       ports.WebhookDedup
	feesCfg     config.FeesConfig
	log         zerolog.Logger
}

// NewTradeEscrowEngine creates the escrow engine.
func NewTradeEscrowEngine(
	tradeRepo ports.TradeRepository,
	disputeRepo ports.DisputeRepository,
	brokerRepo ports.BrokerRepository,
	addrRepo ports.CoinAddressRepository,
	wallets ports.WalletService,
	fees ports.FeeService,
	reader ports.ChainReader,
	dedup ports.WebhookDedup,
	feesCfg config.FeesConfig,
	log zerolog.Logger,
) *TradeEscrowEngine {
	return &TradeEscrowEngine{
		tradeRepo:   tradeRepo,
		disputeRepo: disputeRepo,
		brokerRepo:  brokerRepo,
		addrRepo:    addrRepo,
		wallets:     wallets,
		fees:        fees,
		reader:      reader,
		dedup:       dedup,
		feesCfg:     feesCfg,
		log:         log,
	}
}

// OpenTrade creates a trade in CREATED, owned by the seller, with no buyer.
func (s *TradeEscrowEngine) OpenTrade(ctx context.Context, sellerID uuid.UUID, tradeType domain.TradeType, symbol string, price decimal.Decimal) (*domain.Trade, error) {
	switch tradeType {
	case domain.TradeTypeFiat, domain.TradeTypeCrypto, domain.TradeTypeGoods:
	default:
		return nil, apperror.ErrInvalidTradeType(string(tradeType))
	}
	if _, ok := domain.Coin(symbol); !ok {
		return nil, apperror.ErrUnsupportedCoin(symbol)
	}
	if price.IsNegative() {
		return nil, apperror.ErrInvalidAmount()
	}

	now := time.Now().UTC()
	trade := &domain.Trade{
		ID:        uuid.New(),
		SellerID:  sellerID,
		Type:      tradeType,
		Status:    domain.TradeStatusCreated,
		Symbol:    symbol,
		Price:     price,
		IsActive:  true,
		WalletTrade: true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.tradeRepo.Create(ctx, trade); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create trade: %w", err))
	}

	s.log.Info().
		Str("trade_id", trade.ID.String()).
		Str("seller_id", sellerID.String()).
		Str("symbol", symbol).
		Msg("trade opened")

	return trade, nil
}

// GetTrade fetches one trade.
func (s *TradeEscrowEngine) GetTrade(ctx context.Context, id uuid.UUID) (*domain.Trade, error) {
	trade, err := s.tradeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lookup trade: %w", err))
	}
	if trade == nil {
		return nil, apperror.ErrNotFound("trade")
	}
	return trade, nil
}

// SetPrice is seller-only and allowed only before the deposit is
// confirmed, since the price drives the required deposit. When a fee
// breakdown was already quoted it is recomputed against the new price.
func (s *TradeEscrowEngine) SetPrice(ctx context.Context, tradeID, sellerID uuid.UUID, price decimal.Decimal) (*domain.Trade, error) {
	if !price.IsPositive() {
		return nil, apperror.ErrInvalidAmount()
	}
	trade, err := s.GetTrade(ctx, tradeID)
	if err != nil {
		return nil, err
	}
	if trade.SellerID != sellerID {
		return nil, apperror.ErrUnauthorized()
	}
	switch trade.Status {
	case domain.TradeStatusCreated, domain.TradeStatusAwaitingDeposit:
	default:
		return nil, apperror.ErrInvalidState("price is immutable once the deposit is confirmed")
	}

	trade.Price = price
	if trade.ReceivingAddress != "" {
		breakdown, err := s.fees.FeeWithGas(ctx, price, trade.Symbol)
		if err != nil {
			return nil, err
		}
		trade.BotFee = breakdown.BotFee
		trade.TotalGas = breakdown.TotalGas
		trade.TotalDeposit = breakdown.TotalDeposit
		trade.GasCurrency = breakdown.GasCurrency
	}
	trade.UpdatedAt = time.Now().UTC()
	if err := s.tradeRepo.Update(ctx, trade); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("update price: %w", err))
	}
	return trade, nil
}

// AttachInvoice binds the gateway invoice for a card/bank-rail deposit to
// the trade, exactly once; webhook lookups resolve the trade through it.
// Re-attaching the same invoice is a no-op, a different one is rejected.
func (s *TradeEscrowEngine) AttachInvoice(ctx context.Context, tradeID, sellerID uuid.UUID, invoiceID string) (*domain.Trade, error) {
	if invoiceID == "" {
		return nil, apperror.Validation("invoice id is required")
	}
	trade, err := s.GetTrade(ctx, tradeID)
	if err != nil {
		return nil, err
	}
	if trade.SellerID != sellerID {
		return nil, apperror.ErrUnauthorized()
	}
	if trade.IsTerminal() {
		return nil, apperror.ErrTradeTerminal()
	}

	bound, err := s.tradeRepo.AttachInvoice(ctx, tradeID, invoiceID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("attach invoice: %w", err))
	}
	if !bound {
		fresh, err := s.GetTrade(ctx, tradeID)
		if err != nil {
			return nil, err
		}
		if fresh.InvoiceID != nil && *fresh.InvoiceID == invoiceID {
			return fresh, nil
		}
		return nil, apperror.ErrInvalidState("trade is already bound to another invoice")
	}

	s.log.Info().
		Str("trade_id", tradeID.String()).
		Str("invoice_id", invoiceID).
		Msg("gateway invoice attached")

	return s.GetTrade(ctx, tradeID)
}

// GetDepositAddress provisions the receiving coin address for the trade,
// creating the seller's wallet if absent, exactly once per trade.
// Re-invocation returns the same address and the stored fee breakdown.
func (s *TradeEscrowEngine) GetDepositAddress(ctx context.Context, tradeID uuid.UUID) (string, *ports.FeeBreakdown, error) {
	trade, err := s.GetTrade(ctx, tradeID)
	if err != nil {
		return "", nil, err
	}
	if trade.IsTerminal() {
		return "", nil, apperror.ErrTradeTerminal()
	}

	breakdown, err := s.fees.FeeWithGas(ctx, trade.Price, trade.Symbol)
	if err != nil {
		return "", nil, err
	}

	if trade.ReceivingAddress != "" {
		return trade.ReceivingAddress, breakdown, nil
	}

	wallet, err := s.wallets.CreateWallet(ctx, trade.SellerID)
	if err != nil {
		return "", nil, err
	}
	addr, err := s.wallets.AddCoin(ctx, wallet.ID, trade.Symbol)
	if err != nil {
		return "", nil, err
	}

	set, err := s.tradeRepo.SetReceivingAddress(ctx, trade.ID, addr.ID, addr.Address)
	if err != nil {
		return "", nil, apperror.InternalError(fmt.Errorf("set receiving address: %w", err))
	}
	if !set {
		// Lost the race to a concurrent provision; both derive the same
		// deterministic address, so return the stored one.
		fresh, err := s.GetTrade(ctx, tradeID)
		if err != nil {
			return "", nil, err
		}
		return fresh.ReceivingAddress, breakdown, nil
	}

	trade.ReceivingAddress = addr.Address
	trade.Status = domain.TradeStatusAwaitingDeposit
	trade.BotFee = breakdown.BotFee
	trade.TotalGas = breakdown.TotalGas
	trade.TotalDeposit = breakdown.TotalDeposit
	trade.GasCurrency = breakdown.GasCurrency
	trade.UpdatedAt = time.Now().UTC()
	if err := s.tradeRepo.Update(ctx, trade); err != nil {
		return "", nil, apperror.InternalError(fmt.Errorf("store fee breakdown: %w", err))
	}

	return addr.Address, breakdown, nil
}

// ConfirmCryptoDeposit independently observes the on-chain balance of the
// receiving address and compares it to the stored requirement. A partial
// deposit is reported as PARTIAL, never CONFIRMED. For token trades the
// native gas reserve is checked separately: "token sufficient, gas
// insufficient" is its own outcome.
func (s *TradeEscrowEngine) ConfirmCryptoDeposit(ctx context.Context, tradeID uuid.UUID) (*domain.DepositCheck, error) {
	trade, err := s.GetTrade(ctx, tradeID)
	if err != nil {
		return nil, err
	}
	if trade.ReceivingAddress == "" {
		return nil, apperror.ErrInvalidState("trade has no deposit address yet")
	}
	if trade.IsTerminal() {
		return nil, apperror.ErrTradeTerminal()
	}

	spec, _ := domain.Coin(trade.Symbol)

	have, err := s.reader.ConfirmedBalance(ctx, trade.Symbol, trade.ReceivingAddress)
	if err != nil {
		return nil, apperror.ErrChainUnavailable(fmt.Errorf("deposit balance: %w", err))
	}

	check := &domain.DepositCheck{
		Have:            have,
		Want:            trade.TotalDeposit,
		DepositCurrency: trade.Symbol,
	}

	if have.IsZero() {
		check.Result = domain.DepositNone
		return check, nil
	}
	if have.LessThan(trade.TotalDeposit) {
		check.Result = domain.DepositPartial
		return check, nil
	}

	if spec.IsToken() {
		gasHave, err := s.reader.ConfirmedBalance(ctx, spec.Parent, trade.ReceivingAddress)
		if err != nil {
			return nil, apperror.ErrChainUnavailable(fmt.Errorf("gas balance: %w", err))
		}
		check.GasHave = gasHave
		check.GasWant = trade.TotalGas
		check.GasCurrency = trade.GasCurrency
		if gasHave.LessThan(trade.TotalGas) {
			check.Result = domain.DepositGasInsufficient
			return check, nil
		}
	}

	check.Result = domain.DepositConfirmed
	if trade.Status == domain.TradeStatusAwaitingDeposit || trade.Status == domain.TradeStatusCreated {
		now := time.Now().UTC()
		trade.Status = domain.TradeStatusActive
		trade.IsPaid = true
		trade.DepositConfirmedAt = &now
		trade.UpdatedAt = now
		if err := s.tradeRepo.Update(ctx, trade); err != nil {
			return nil, apperror.InternalError(fmt.Errorf("activate trade: %w", err))
		}
		s.log.Info().Str("trade_id", trade.ID.String()).Msg("crypto deposit confirmed")
	}
	return check, nil
}

// JoinTrade binds the buyer exactly once. The seller cannot join their own
// trade, and a trade with a bound buyer rejects all further joins.
func (s *TradeEscrowEngine) JoinTrade(ctx context.Context, tradeID, buyerID uuid.UUID, payoutAddress string) (*domain.Trade, error) {
	if payoutAddress == "" {
		return nil, apperror.ErrInvalidAddress(payoutAddress)
	}
	trade, err := s.GetTrade(ctx, tradeID)
	if err != nil {
		return nil, err
	}
	if trade.SellerID == buyerID {
		return nil, apperror.ErrSelfTrade()
	}
	if trade.HasBuyer() {
		return nil, apperror.ErrBuyerAlreadyBound()
	}
	if trade.Status != domain.TradeStatusActive {
		return nil, apperror.ErrInvalidState("trade is not open for joining")
	}

	bound, err := s.tradeRepo.BindBuyer(ctx, tradeID, buyerID, payoutAddress)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("bind buyer: %w", err))
	}
	if !bound {
		return nil, apperror.ErrBuyerAlreadyBound()
	}

	s.log.Info().
		Str("trade_id", tradeID.String()).
		Str("buyer_id", buyerID.String()).
		Msg("buyer joined trade")

	return s.GetTrade(ctx, tradeID)
}

// SubmitFiatProof records the buyer's payment evidence. Permitted after a
// rejection, so a corrected proof can be resubmitted.
func (s *TradeEscrowEngine) SubmitFiatProof(ctx context.Context, tradeID, buyerID uuid.UUID, proof string) error {
	if proof == "" {
		return apperror.Validation("fiat proof must not be empty")
	}
	trade, err := s.GetTrade(ctx, tradeID)
	if err != nil {
		return err
	}
	if trade.BuyerID == nil || *trade.BuyerID != buyerID {
		return apperror.ErrNotCounterparty()
	}
	switch trade.Status {
	case domain.TradeStatusBuyerJoined, domain.TradeStatusFiatSubmitted:
	default:
		return apperror.ErrInvalidState("fiat proof can only be submitted after joining")
	}

	trade.FiatProof = proof
	trade.FiatProofSubmitted = true
	trade.FiatRejectionReason = ""
	trade.Status = domain.TradeStatusFiatSubmitted
	trade.UpdatedAt = time.Now().UTC()
	if err := s.tradeRepo.Update(ctx, trade); err != nil {
		return apperror.InternalError(fmt.Errorf("store fiat proof: %w", err))
	}
	return nil
}

// ApproveFiatPayment is seller-only and gated on a submitted proof.
func (s *TradeEscrowEngine) ApproveFiatPayment(ctx context.Context, tradeID, sellerID uuid.UUID) error {
	trade, err := s.GetTrade(ctx, tradeID)
	if err != nil {
		return err
	}
	if trade.SellerID != sellerID {
		return apperror.ErrUnauthorized()
	}
	if !trade.FiatProofSubmitted {
		return apperror.ErrInvalidState("no fiat proof submitted")
	}
	if trade.Status != domain.TradeStatusFiatSubmitted {
		return apperror.ErrInvalidState("trade is not awaiting fiat review")
	}

	trade.FiatPaymentApproved = true
	trade.Status = domain.TradeStatusFiatApproved
	trade.UpdatedAt = time.Now().UTC()
	if err := s.tradeRepo.Update(ctx, trade); err != nil {
		return apperror.InternalError(fmt.Errorf("approve fiat: %w", err))
	}
	return nil
}

// RejectFiatPayment is seller-only; a reason is required and the buyer may
// resubmit.
func (s *TradeEscrowEngine) RejectFiatPayment(ctx context.Context, tradeID, sellerID uuid.UUID, reason string) error {
	if reason == "" {
		return apperror.Validation("rejection reason is required")
	}
	trade, err := s.GetTrade(ctx, tradeID)
	if err != nil {
		return err
	}
	if trade.SellerID != sellerID {
		return apperror.ErrUnauthorized()
	}
	if !trade.FiatProofSubmitted || trade.Status != domain.TradeStatusFiatSubmitted {
		return apperror.ErrInvalidState("no fiat proof to reject")
	}

	trade.FiatProofSubmitted = false
	trade.FiatRejectionReason = reason
	trade.Status = domain.TradeStatusBuyerJoined
	trade.UpdatedAt = time.Now().UTC()
	if err := s.tradeRepo.Update(ctx, trade); err != nil {
		return apperror.InternalError(fmt.Errorf("reject fiat: %w", err))
	}
	return nil
}

// InitiateCryptoRelease is the only path that moves escrowed funds out. The
// release marker is set transactionally before the chain transfer, so a
// duplicate call finds the marker and is rejected: at most one release per
// trade, even under concurrent attempts. A failed broadcast parks the trade;
// nothing retries it automatically, but another explicit release call can
// restart a parked trade since no funds have left custody.
func (s *TradeEscrowEngine) InitiateCryptoRelease(ctx context.Context, tradeID, callerID uuid.UUID) (*domain.Trade, error) {
	trade, err := s.GetTrade(ctx, tradeID)
	if err != nil {
		return nil, err
	}
	if trade.SellerID != callerID {
		return nil, apperror.ErrUnauthorized()
	}
	if !trade.FiatPaymentApproved {
		return nil, apperror.ErrInvalidState("fiat payment is not approved")
	}
	if trade.BuyerPayoutAddress == "" {
		return nil, apperror.ErrInvalidState("no buyer payout address on trade")
	}
	if trade.CryptoReleased {
		return nil, apperror.ErrReleaseAlreadyInitiated()
	}

	// The at-most-once gate: check-and-set before any chain I/O.
	marked, err := s.tradeRepo.MarkReleasing(ctx, tradeID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("mark releasing: %w", err))
	}
	if !marked {
		return nil, apperror.ErrReleaseAlreadyInitiated()
	}

	brokerFeeAddr, brokerFee, err := s.brokerPayout(ctx, trade)
	if err != nil {
		s.parkRelease(ctx, tradeID, err.Error())
		return nil, err
	}

	wallet, err := s.wallets.GetWallet(ctx, trade.SellerID)
	if err != nil {
		s.parkRelease(ctx, tradeID, err.Error())
		return nil, err
	}

	wtx, err := s.wallets.Transfer(ctx, ports.WalletTransferRequest{
		WalletID:           wallet.ID,
		ToAddress:          trade.BuyerPayoutAddress,
		Amount:             trade.Price,
		Symbol:             trade.Symbol,
		TradeID:            &trade.ID,
		PlatformFeeAddress: s.feesCfg.PlatformWallet(trade.Symbol),
		PlatformFee:        trade.BotFee,
		BrokerFeeAddress:   brokerFeeAddr,
		BrokerFee:          brokerFee,
	})
	if err != nil {
		s.parkRelease(ctx, tradeID, err.Error())
		return nil, err
	}

	if _, err := s.tradeRepo.Complete(ctx, tradeID, wtx.TxHash); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("complete trade: %w", err))
	}
	if trade.BrokerID != nil {
		if err := s.brokerRepo.IncrementCounters(ctx, *trade.BrokerID, true); err != nil {
			s.log.Warn().Err(err).Str("broker_id", trade.BrokerID.String()).Msg("incrementing broker counters")
		}
	}

	s.log.Info().
		Str("trade_id", tradeID.String()).
		Str("tx_hash", wtx.TxHash).
		Msg("escrow released")

	return s.GetTrade(ctx, tradeID)
}

// CancelTrade is permitted only for the trade's counterparties, only while
// non-terminal.
func (s *TradeEscrowEngine) CancelTrade(ctx context.Context, tradeID, callerID uuid.UUID, reason string) error {
	trade, err := s.GetTrade(ctx, tradeID)
	if err != nil {
		return err
	}
	if !trade.IsCounterparty(callerID) {
		return apperror.ErrNotCounterparty()
	}
	if trade.IsTerminal() {
		return apperror.ErrTradeTerminal()
	}

	cancelled, err := s.tradeRepo.Cancel(ctx, tradeID, callerID.String(), reason)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("cancel trade: %w", err))
	}
	if !cancelled {
		return apperror.ErrTradeTerminal()
	}
	s.log.Info().
		Str("trade_id", tradeID.String()).
		Str("cancelled_by", callerID.String()).
		Msg("trade cancelled")
	return nil
}

// HandleInvoicePaid is the gateway webhook entry point. Idempotent: webhook
// delivery is at-least-once, so duplicates are dropped by the dedup cache
// and, authoritatively, by the state guard.
func (s *TradeEscrowEngine) HandleInvoicePaid(ctx context.Context, invoiceID string) error {
	if invoiceID == "" {
		return apperror.Validation("invoice id is required")
	}
	first, err := s.dedup.FirstDelivery(ctx, "invoice_paid:"+invoiceID, webhookDedupTTL)
	if err != nil {
		s.log.Warn().Err(err).Str("invoice_id", invoiceID).Msg("webhook dedup unavailable, relying on state guard")
	} else if !first {
		return nil
	}

	trade, err := s.tradeRepo.GetByInvoiceID(ctx, invoiceID)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("lookup trade by invoice: %w", err))
	}
	if trade == nil {
		return apperror.ErrNotFound("trade")
	}
	if trade.IsPaid || trade.IsTerminal() {
		return nil
	}

	now := time.Now().UTC()
	trade.IsPaid = true
	trade.Status = domain.TradeStatusActive
	trade.DepositConfirmedAt = &now
	trade.UpdatedAt = now
	if err := s.tradeRepo.Update(ctx, trade); err != nil {
		return apperror.InternalError(fmt.Errorf("mark invoice paid: %w", err))
	}
	s.log.Info().Str("trade_id", trade.ID.String()).Str("invoice_id", invoiceID).Msg("invoice paid")
	return nil
}

// HandleInvoiceExpired system-cancels the trade behind an expired invoice,
// unless it was already paid. Idempotent.
func (s *TradeEscrowEngine) HandleInvoiceExpired(ctx context.Context, invoiceID string) error {
	if invoiceID == "" {
		return apperror.Validation("invoice id is required")
	}
	trade, err := s.tradeRepo.GetByInvoiceID(ctx, invoiceID)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("lookup trade by invoice: %w", err))
	}
	if trade == nil {
		return apperror.ErrNotFound("trade")
	}
	if trade.IsPaid || trade.IsTerminal() {
		return nil
	}
	if _, err := s.tradeRepo.Cancel(ctx, trade.ID, domain.CancelledBySystem, "invoice expired"); err != nil {
		return apperror.InternalError(fmt.Errorf("cancel expired invoice trade: %w", err))
	}
	return nil
}

// OpenDispute files a complaint against the trade. The most recent dispute
// is authoritative.
func (s *TradeEscrowEngine) OpenDispute(ctx context.Context, tradeID, userID uuid.UUID, reason string) (*domain.Dispute, error) {
	if reason == "" {
		return nil, apperror.Validation("dispute reason is required")
	}
	trade, err := s.GetTrade(ctx, tradeID)
	if err != nil {
		return nil, err
	}
	if !trade.IsCounterparty(userID) {
		return nil, apperror.ErrNotCounterparty()
	}

	latest, err := s.disputeRepo.GetLatestByTrade(ctx, tradeID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lookup latest dispute: %w", err))
	}
	if latest != nil && latest.Status == domain.DisputeStatusOpen {
		return nil, apperror.ErrInvalidState("trade already has an open dispute")
	}

	now := time.Now().UTC()
	dispute := &domain.Dispute{
		ID:        uuid.New(),
		TradeID:   tradeID,
		RaisedBy:  userID,
		Reason:    reason,
		Status:    domain.DisputeStatusOpen,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.disputeRepo.Create(ctx, dispute); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create dispute: %w", err))
	}
	s.log.Info().
		Str("trade_id", tradeID.String()).
		Str("dispute_id", dispute.ID.String()).
		Msg("dispute opened")
	return dispute, nil
}

// ResolveDispute records the resolution. Admin gating happens at the HTTP
// boundary; the resolver's identity is recorded here.
func (s *TradeEscrowEngine) ResolveDispute(ctx context.Context, disputeID, adminID uuid.UUID, status domain.DisputeStatus, resolution string) error {
	if status != domain.DisputeStatusResolved && status != domain.DisputeStatusRejected {
		return apperror.Validation("resolution status must be RESOLVED or REJECTED")
	}
	dispute, err := s.disputeRepo.GetByID(ctx, disputeID)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("lookup dispute: %w", err))
	}
	if dispute == nil {
		return apperror.ErrNotFound("dispute")
	}
	if dispute.Status != domain.DisputeStatusOpen {
		return apperror.ErrInvalidState("dispute is already resolved")
	}
	if err := s.disputeRepo.Resolve(ctx, disputeID, status, resolution, adminID); err != nil {
		return apperror.InternalError(fmt.Errorf("resolve dispute: %w", err))
	}
	return nil
}

// brokerPayout resolves the broker's commission and payout address for a
// mediated trade. Returns empty values when no broker fee applies.
func (s *TradeEscrowEngine) brokerPayout(ctx context.Context, trade *domain.Trade) (string, decimal.Decimal, error) {
	if !trade.BrokerEnabled || trade.BrokerID == nil || !trade.BrokerLocked() {
		return "", decimal.Zero, nil
	}
	broker, err := s.brokerRepo.GetByID(ctx, *trade.BrokerID)
	if err != nil {
		return "", decimal.Zero, apperror.InternalError(fmt.Errorf("lookup broker: %w", err))
	}
	if broker == nil {
		return "", decimal.Zero, apperror.ErrNotFound("broker")
	}
	wallet, err := s.wallets.GetWallet(ctx, broker.UserID)
	if err != nil {
		return "", decimal.Zero, err
	}
	addr, err := s.addrRepo.GetByWalletAndSymbol(ctx, wallet.ID, trade.Symbol)
	if err != nil {
		return "", decimal.Zero, apperror.InternalError(fmt.Errorf("lookup broker payout address: %w", err))
	}
	if addr == nil {
		return "", decimal.Zero, apperror.ErrNotFound("broker payout address")
	}
	fee := trade.Price.Mul(trade.BrokerCommission).Div(decimal.NewFromInt(100))
	return addr.Address, fee, nil
}

// parkRelease marks a releasing trade failed. The sweeps leave parked rows
// alone; only an explicit release call picks one back up.
func (s *TradeEscrowEngine) parkRelease(ctx context.Context, tradeID uuid.UUID, reason string) {
	if _, err := s.tradeRepo.MarkReleaseFailed(ctx, tradeID, reason); err != nil {
		s.log.Error().Err(err).Str("trade_id", tradeID.String()).Msg("parking failed release")
	}
}
