package ports

import (
	"context"
	"time"

	"escrow-custody-gateway/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// WalletRepository defines persistence operations for wallets.
type WalletRepository interface {
	Create(ctx context.Context, tx pgx.Tx, wallet *domain.Wallet) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Wallet, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Wallet, error)
	// Deactivate soft-disables the wallet and its addresses. Rows are never
	// deleted; funds history must survive.
	Deactivate(ctx context.Context, id uuid.UUID) error
}

// CoinAddressRepository defines persistence for per-coin addresses.
type CoinAddressRepository interface {
	Create(ctx context.Context, tx pgx.Tx, addr *domain.CoinAddress) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.CoinAddress, error)
	GetByWalletAndSymbol(ctx context.Context, walletID uuid.UUID, symbol string) (*domain.CoinAddress, error)
	ListByWallet(ctx context.Context, walletID uuid.UUID) ([]domain.CoinAddress, error)
	UpdateBalance(ctx context.Context, id uuid.UUID, balance, balanceUSD decimal.Decimal, refreshedAt time.Time) error
}

// TradeRepository defines persistence for trades. The conditional update
// methods implement the compare-and-swap discipline: they return
// (updated bool) and touch the row only when the precondition still holds.
type TradeRepository interface {
	Create(ctx context.Context, trade *domain.Trade) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Trade, error)
	GetByInvoiceID(ctx context.Context, invoiceID string) (*domain.Trade, error)
	ListOpenBySeller(ctx context.Context, sellerID uuid.UUID) ([]domain.Trade, error)
	Update(ctx context.Context, trade *domain.Trade) error

	// SetReceivingAddress assigns the deposit address only if none is set.
	SetReceivingAddress(ctx context.Context, id uuid.UUID, coinAddressID uuid.UUID, address string) (bool, error)
	// BindBuyer binds the buyer only while buyer_id is NULL and the trade
	// is active. At most one buyer is ever bound.
	BindBuyer(ctx context.Context, id uuid.UUID, buyerID uuid.UUID, payoutAddress string) (bool, error)
	// AttachInvoice binds a gateway invoice only while none is bound and
	// the trade is live. At most one trade ever carries a given invoice.
	AttachInvoice(ctx context.Context, id uuid.UUID, invoiceID string) (bool, error)
	// MarkReleasing sets the release marker only while fiat payment is
	// approved and no funds have left custody. This is the at-most-once
	// gate; a parked RELEASE_FAILED trade may re-enter through it.
	MarkReleasing(ctx context.Context, id uuid.UUID) (bool, error)
	// Complete finalizes a releasing trade with the broadcast hash.
	Complete(ctx context.Context, id uuid.UUID, txHash string) (bool, error)
	// MarkReleaseFailed parks a releasing trade for follow-up. Nothing
	// retries it automatically; only an explicit release call restarts it.
	MarkReleaseFailed(ctx context.Context, id uuid.UUID, reason string) (bool, error)
	// Cancel terminates a non-terminal trade, recording who cancelled.
	Cancel(ctx context.Context, id uuid.UUID, cancelledBy, reason string) (bool, error)

	// CancelAbandoned system-cancels trades with no buyer older than cutoff.
	CancelAbandoned(ctx context.Context, cutoff time.Time) (int64, error)
	// ExpireStuck system-expires non-terminal trades with no state change
	// since the cutoff.
	ExpireStuck(ctx context.Context, cutoff time.Time) (int64, error)
}

// DisputeRepository defines persistence for disputes.
type DisputeRepository interface {
	Create(ctx context.Context, dispute *domain.Dispute) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Dispute, error)
	// GetLatestByTrade returns the authoritative (most recent) dispute.
	GetLatestByTrade(ctx context.Context, tradeID uuid.UUID) (*domain.Dispute, error)
	Resolve(ctx context.Context, id uuid.UUID, status domain.DisputeStatus, resolution string, resolvedBy uuid.UUID) error
}

// BrokerRepository defines persistence for broker profiles.
type BrokerRepository interface {
	Create(ctx context.Context, broker *domain.Broker) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Broker, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Broker, error)
	Update(ctx context.Context, broker *domain.Broker) error
	SetVerified(ctx context.Context, id uuid.UUID, verified bool) error
	IncrementCounters(ctx context.Context, id uuid.UUID, completed bool) error
}

// WalletTransactionRepository is the append-only transfer ledger.
type WalletTransactionRepository interface {
	Create(ctx context.Context, wtx *domain.WalletTransaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.WalletTransaction, error)
	ListByWallet(ctx context.Context, walletID uuid.UUID, limit int) ([]domain.WalletTransaction, error)
	// UpdateStatus records a status that carries no broadcast outcome,
	// such as a failed attempt.
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.TransferStatus) error
	// Finalize makes the broadcast outcome durable: hash, fee and status
	// in one write.
	Finalize(ctx context.Context, id uuid.UUID, txHash string, feePaid decimal.Decimal, status domain.TransferStatus) error
	// CountReleasesByTrade counts non-failed outbound transfers bound to
	// the trade, the ledger-side view of the at-most-once release rule.
	CountReleasesByTrade(ctx context.Context, tradeID uuid.UUID) (int64, error)
}

// DBTransactor provides database transaction management.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}
