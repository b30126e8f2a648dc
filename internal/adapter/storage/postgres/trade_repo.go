package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"escrow-custody-gateway/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// TradeRepo implements ports.TradeRepository. The conditional update
// methods put the compare-and-swap predicate in the WHERE clause: the row
// changes only if the precondition still holds at commit time, and the
// affected-row count reports who won.
type TradeRepo struct {
	pool Pool
}

// NewTradeRepo creates a new TradeRepo.
func NewTradeRepo(pool Pool) *TradeRepo {
	return &TradeRepo{pool: pool}
}

const tradeColumns = `id, seller_id, buyer_id, trade_type, status, symbol, price, invoice_id,
	is_active, is_paid, is_completed, is_cancelled, wallet_trade,
	receiving_address, buyer_payout_address,
	broker_id, broker_enabled, broker_commission, broker_seller_approved, broker_buyer_approved, broker_rating,
	fiat_proof, fiat_proof_submitted, fiat_payment_approved, fiat_rejection_reason,
	crypto_released, release_tx_hash, release_failure_reason, cancelled_by, cancellation_reason, deposit_confirmed_at,
	bot_fee, total_gas, total_deposit, gas_currency, created_at, updated_at`

// Create inserts a new trade.
func (r *TradeRepo) Create(ctx context.Context, t *domain.Trade) error {
	query := `INSERT INTO trades (` + tradeColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19,
			$20, $21, $22, $23, $24, $25, $26, $27, $28, $29, $30, $31, $32, $33, $34, $35, $36, $37)`

	_, err := r.pool.Exec(ctx, query,
		t.ID, t.SellerID, t.BuyerID, t.Type, t.Status, t.Symbol, t.Price, t.InvoiceID,
		t.IsActive, t.IsPaid, t.IsCompleted, t.IsCancelled, t.WalletTrade,
		t.ReceivingAddress, t.BuyerPayoutAddress,
		t.BrokerID, t.BrokerEnabled, t.BrokerCommission, t.BrokerSellerApproved, t.BrokerBuyerApproved, t.BrokerRating,
		t.FiatProof, t.FiatProofSubmitted, t.FiatPaymentApproved, t.FiatRejectionReason,
		t.CryptoReleased, t.ReleaseTxHash, t.ReleaseFailureReason, t.CancelledBy, t.CancellationReason, t.DepositConfirmedAt,
		t.BotFee, t.TotalGas, t.TotalDeposit, t.GasCurrency, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert trade: %w", err)
	}
	return nil
}

// GetByID fetches a trade by UUID.
func (r *TradeRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Trade, error) {
	query := `SELECT ` + tradeColumns + ` FROM trades WHERE id = $1`

	return r.scanTrade(r.pool.QueryRow(ctx, query, id))
}

// GetByInvoiceID fetches the trade bound to a gateway invoice. The
// invoice_id column carries a partial unique index, so at most one row
// matches.
func (r *TradeRepo) GetByInvoiceID(ctx context.Context, invoiceID string) (*domain.Trade, error) {
	query := `SELECT ` + tradeColumns + ` FROM trades WHERE invoice_id = $1`

	return r.scanTrade(r.pool.QueryRow(ctx, query, invoiceID))
}

// ListOpenBySeller fetches the seller's non-terminal trades.
func (r *TradeRepo) ListOpenBySeller(ctx context.Context, sellerID uuid.UUID) ([]domain.Trade, error) {
	query := `SELECT ` + tradeColumns + ` FROM trades
		WHERE seller_id = $1 AND status NOT IN ('COMPLETED', 'CANCELLED', 'EXPIRED')
		ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, sellerID)
	if err != nil {
		return nil, fmt.Errorf("list open trades: %w", err)
	}
	defer rows.Close()

	var trades []domain.Trade
	for rows.Next() {
		t := domain.Trade{}
		if err := scanTradeFields(rows, &t); err != nil {
			return nil, fmt.Errorf("scan trade row: %w", err)
		}
		trades = append(trades, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trade rows: %w", err)
	}
	return trades, nil
}

// Update writes the trade's mutable fields.
func (r *TradeRepo) Update(ctx context.Context, t *domain.Trade) error {
	query := `UPDATE trades SET
		status = $2, is_active = $3, is_paid = $4, is_completed = $5, is_cancelled = $6,
		receiving_address = $7, buyer_payout_address = $8,
		broker_id = $9, broker_enabled = $10, broker_commission = $11,
		broker_seller_approved = $12, broker_buyer_approved = $13, broker_rating = $14,
		fiat_proof = $15, fiat_proof_submitted = $16, fiat_payment_approved = $17, fiat_rejection_reason = $18,
		deposit_confirmed_at = $19, bot_fee = $20, total_gas = $21, total_deposit = $22, gas_currency = $23,
		updated_at = $24
		WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query,
		t.ID, t.Status, t.IsActive, t.IsPaid, t.IsCompleted, t.IsCancelled,
		t.ReceivingAddress, t.BuyerPayoutAddress,
		t.BrokerID, t.BrokerEnabled, t.BrokerCommission,
		t.BrokerSellerApproved, t.BrokerBuyerApproved, t.BrokerRating,
		t.FiatProof, t.FiatProofSubmitted, t.FiatPaymentApproved, t.FiatRejectionReason,
		t.DepositConfirmedAt, t.BotFee, t.TotalGas, t.TotalDeposit, t.GasCurrency,
		t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update trade: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("trade not found: %s", t.ID)
	}
	return nil
}

// SetReceivingAddress assigns the deposit address only while none is set.
func (r *TradeRepo) SetReceivingAddress(ctx context.Context, id uuid.UUID, coinAddressID uuid.UUID, address string) (bool, error) {
	query := `UPDATE trades SET coin_address_id = $2, receiving_address = $3, status = $4, updated_at = $5
		WHERE id = $1 AND receiving_address = ''`

	tag, err := r.pool.Exec(ctx, query, id, coinAddressID, address, domain.TradeStatusAwaitingDeposit, time.Now())
	if err != nil {
		return false, fmt.Errorf("set receiving address: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// AttachInvoice binds a gateway invoice to the trade only while no invoice
// is bound and the trade is still live. The partial unique index on
// invoice_id keeps one invoice from spanning two trades.
func (r *TradeRepo) AttachInvoice(ctx context.Context, id uuid.UUID, invoiceID string) (bool, error) {
	query := `UPDATE trades SET invoice_id = $2, updated_at = $3
		WHERE id = $1 AND invoice_id IS NULL
		AND status NOT IN ('COMPLETED', 'CANCELLED', 'EXPIRED')`

	tag, err := r.pool.Exec(ctx, query, id, invoiceID, time.Now())
	if err != nil {
		return false, fmt.Errorf("attach invoice: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// BindBuyer binds the buyer only while buyer_id is NULL and the trade is
// open for joining.
func (r *TradeRepo) BindBuyer(ctx context.Context, id uuid.UUID, buyerID uuid.UUID, payoutAddress string) (bool, error) {
	query := `UPDATE trades SET buyer_id = $2, buyer_payout_address = $3, status = $4, updated_at = $5
		WHERE id = $1 AND buyer_id IS NULL AND status = $6`

	tag, err := r.pool.Exec(ctx, query, id, buyerID, payoutAddress,
		domain.TradeStatusBuyerJoined, time.Now(), domain.TradeStatusActive)
	if err != nil {
		return false, fmt.Errorf("bind buyer: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// MarkReleasing sets the release marker. The predicate admits exactly one
// winner: once the row reads RELEASING no second attempt can match. A trade
// parked in RELEASE_FAILED can be restarted, since its broadcast never went
// out (crypto_released is still FALSE); restarting clears the stale failure
// reason.
func (r *TradeRepo) MarkReleasing(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `UPDATE trades SET status = $2, release_failure_reason = '', updated_at = $3
		WHERE id = $1 AND status IN ($4, $5) AND fiat_payment_approved = TRUE AND crypto_released = FALSE`

	tag, err := r.pool.Exec(ctx, query, id,
		domain.TradeStatusReleasing, time.Now(), domain.TradeStatusFiatApproved, domain.TradeStatusReleaseFailed)
	if err != nil {
		return false, fmt.Errorf("mark releasing: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// Complete finalizes a releasing trade with the broadcast hash.
func (r *TradeRepo) Complete(ctx context.Context, id uuid.UUID, txHash string) (bool, error) {
	query := `UPDATE trades SET status = $2, is_completed = TRUE, is_active = FALSE,
		crypto_released = TRUE, release_tx_hash = $3, updated_at = $4
		WHERE id = $1 AND status = $5`

	tag, err := r.pool.Exec(ctx, query, id,
		domain.TradeStatusCompleted, txHash, time.Now(), domain.TradeStatusReleasing)
	if err != nil {
		return false, fmt.Errorf("complete trade: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// MarkReleaseFailed parks a releasing trade. Only an explicit release call
// can pick it back up; the sweeps never touch parked rows.
func (r *TradeRepo) MarkReleaseFailed(ctx context.Context, id uuid.UUID, reason string) (bool, error) {
	query := `UPDATE trades SET status = $2, release_failure_reason = $3, updated_at = $4
		WHERE id = $1 AND status = $5`

	tag, err := r.pool.Exec(ctx, query, id,
		domain.TradeStatusReleaseFailed, reason, time.Now(), domain.TradeStatusReleasing)
	if err != nil {
		return false, fmt.Errorf("mark release failed: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// Cancel terminates a non-terminal trade. Trades mid-release or parked
// after a failed release are excluded: their funds need manual follow-up.
func (r *TradeRepo) Cancel(ctx context.Context, id uuid.UUID, cancelledBy, reason string) (bool, error) {
	query := `UPDATE trades SET status = $2, is_cancelled = TRUE, is_active = FALSE,
		cancelled_by = $3, cancellation_reason = $4, updated_at = $5
		WHERE id = $1 AND status NOT IN ('COMPLETED', 'CANCELLED', 'EXPIRED', 'RELEASING', 'RELEASE_FAILED')`

	tag, err := r.pool.Exec(ctx, query, id, domain.TradeStatusCancelled, cancelledBy, reason, time.Now())
	if err != nil {
		return false, fmt.Errorf("cancel trade: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// CancelAbandoned system-cancels trades that never attracted a buyer.
func (r *TradeRepo) CancelAbandoned(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `UPDATE trades SET status = $1, is_cancelled = TRUE, is_active = FALSE,
		cancelled_by = $2, cancellation_reason = 'no buyer joined', updated_at = $3
		WHERE buyer_id IS NULL AND created_at < $4
		AND status NOT IN ('COMPLETED', 'CANCELLED', 'EXPIRED', 'RELEASING', 'RELEASE_FAILED')`

	tag, err := r.pool.Exec(ctx, query,
		domain.TradeStatusCancelled, domain.CancelledBySystem, time.Now(), cutoff)
	if err != nil {
		return 0, fmt.Errorf("cancel abandoned trades: %w", err)
	}
	return tag.RowsAffected(), nil
}

// ExpireStuck system-expires trades stalled mid-flow: no state change since
// the cutoff. Keying on updated_at means a trade that keeps progressing is
// never expired no matter how old it is. RELEASING and RELEASE_FAILED rows
// are never auto-expired.
func (r *TradeRepo) ExpireStuck(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `UPDATE trades SET status = $1, is_active = FALSE,
		cancelled_by = $2, cancellation_reason = 'stalled past the activity window', updated_at = $3
		WHERE updated_at < $4
		AND status NOT IN ('COMPLETED', 'CANCELLED', 'EXPIRED', 'RELEASING', 'RELEASE_FAILED')`

	tag, err := r.pool.Exec(ctx, query, domain.TradeStatusExpired, domain.CancelledBySystem, time.Now(), cutoff)
	if err != nil {
		return 0, fmt.Errorf("expire stuck trades: %w", err)
	}
	return tag.RowsAffected(), nil
}

// scanTrade is a helper to scan a single row into a Trade.
func (r *TradeRepo) scanTrade(row pgx.Row) (*domain.Trade, error) {
	t := &domain.Trade{}
	if err := scanTradeFields(row, t); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan trade: %w", err)
	}
	return t, nil
}

func scanTradeFields(row pgx.Row, t *domain.Trade) error {
	return row.Scan(
		&t.ID, &t.SellerID, &t.BuyerID, &t.Type, &t.Status, &t.Symbol, &t.Price, &t.InvoiceID,
		&t.IsActive, &t.IsPaid, &t.IsCompleted, &t.IsCancelled, &t.WalletTrade,
		&t.ReceivingAddress, &t.BuyerPayoutAddress,
		&t.BrokerID, &t.BrokerEnabled, &t.BrokerCommission, &t.BrokerSellerApproved, &t.BrokerBuyerApproved, &t.BrokerRating,
		&t.FiatProof, &t.FiatProofSubmitted, &t.FiatPaymentApproved, &t.FiatRejectionReason,
		&t.CryptoReleased, &t.ReleaseTxHash, &t.ReleaseFailureReason, &t.CancelledBy, &t.CancellationReason, &t.DepositConfirmedAt,
		&t.BotFee, &t.TotalGas, &t.TotalDeposit, &t.GasCurrency, &t.CreatedAt, &t.UpdatedAt,
	)
}
